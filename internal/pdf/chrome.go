package pdf

import (
	"context"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"artistone/internal/domain"
)

// A4 in inches, with the template's 24mm margin.
const (
	paperWidthIn  = 8.27
	paperHeightIn = 11.69
	marginIn      = 0.945
)

var chromeCandidates = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"headless-shell",
}

// ChromeOptions configures the headless-browser rendering path.
type ChromeOptions struct {
	ExecPath     string
	FontsBaseURL string
	Timeout      time.Duration
}

// ChromeRenderer prints the HTML template to PDF through a headless Chrome
// instance. It needs a browser binary in the execution environment; when one
// is missing, Render fails and the caller's fallback path takes over.
type ChromeRenderer struct {
	execPath     string
	fontsBaseURL string
	timeout      time.Duration
}

// NewChromeRenderer builds the renderer; an empty ExecPath means the binary
// is resolved from PATH at render time.
func NewChromeRenderer(opts ChromeOptions) *ChromeRenderer {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &ChromeRenderer{
		execPath:     opts.ExecPath,
		fontsBaseURL: opts.FontsBaseURL,
		timeout:      timeout,
	}
}

// ExecPath returns the resolved browser binary path, or empty when none is
// available.
func (r *ChromeRenderer) ExecPath() string {
	if r == nil {
		return ""
	}
	if r.execPath != "" {
		return r.execPath
	}
	for _, candidate := range chromeCandidates {
		if path, err := exec.LookPath(candidate); err == nil {
			return path
		}
	}
	return ""
}

// Available reports whether a browser binary can be resolved.
func (r *ChromeRenderer) Available() bool {
	return r.ExecPath() != ""
}

// Render produces PDF bytes for the artist record via print-to-PDF.
func (r *ChromeRenderer) Render(ctx context.Context, data domain.ArtistData) ([]byte, error) {
	html, err := renderHTML(data, r.fontsBaseURL)
	if err != nil {
		return nil, err
	}
	execPath := r.ExecPath()
	if execPath == "" {
		return nil, domain.ErrRenderFailure
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(execPath),
		chromedp.NoSandbox,
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()
	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, r.timeout)
	defer cancelTimeout()

	var pdfBytes []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidthIn).
				WithPaperHeight(paperHeightIn).
				WithMarginTop(marginIn).
				WithMarginBottom(marginIn).
				WithMarginLeft(marginIn).
				WithMarginRight(marginIn).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBytes = buf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBytes, nil
}

var _ Engine = (*ChromeRenderer)(nil)
