package pdf

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"

	"artistone/internal/domain"
)

// A4 layout in points.
const (
	pageLeft     = 48.0
	pageTop      = 64.0
	bottomGuard  = 72.0
	wrapWidth    = 80
	bodyLeading  = 14.0
	photoWidthPt = 160.0
)

// FallbackRenderer places the EPK onto a blank page procedurally. It trades
// the browser path's visual fidelity for guaranteed availability: no external
// binary is required.
type FallbackRenderer struct {
	fontsDir string
}

// NewFallbackRenderer builds the renderer. fontsDir may hold NotoSans TTFs
// for full Unicode coverage; without them output degrades to the built-in
// Latin fonts.
func NewFallbackRenderer(fontsDir string) *FallbackRenderer {
	return &FallbackRenderer{fontsDir: fontsDir}
}

// Render reconstructs the document natively. Context is accepted for
// interface symmetry; the work is purely local.
func (r *FallbackRenderer) Render(_ context.Context, data domain.ArtistData) ([]byte, error) {
	doc := fpdf.New("P", "pt", "A4", "")
	family, text := r.selectFont(doc)
	pageWidth, pageHeight := doc.GetPageSize()
	doc.AddPage()

	// Watermark behind everything else.
	doc.SetFont(family, "B", 64)
	doc.SetTextColor(59, 130, 246)
	doc.SetAlpha(0.08, "Normal")
	doc.TransformBegin()
	doc.TransformRotate(30, pageWidth/2, pageHeight/2)
	watermark := text("ARTISTONE")
	doc.Text(pageWidth/2-doc.GetStringWidth(watermark)/2, pageHeight/2, watermark)
	doc.TransformEnd()
	doc.SetAlpha(1, "Normal")

	y := pageTop
	doc.SetFont(family, "B", 22)
	doc.SetTextColor(30, 49, 89)
	doc.Text(pageLeft, y, text(fmt.Sprintf("EPK - %s", data.Name)))
	y += 22

	doc.SetFont(family, "", 12)
	doc.SetTextColor(64, 102, 204)
	doc.Text(pageLeft, y, text(fmt.Sprintf("%s * %s", data.City, strings.Join(data.Genres, ", "))))
	y += 28

	if h := r.embedPhoto(doc, data, y); h > 0 {
		y += h + 16
	}

	writeBlock := func(title, body string) {
		if strings.TrimSpace(body) == "" {
			return
		}
		if y > pageHeight-bottomGuard {
			doc.AddPage()
			y = pageTop
		}
		doc.SetFont(family, "B", 12)
		doc.SetTextColor(30, 49, 89)
		doc.Text(pageLeft, y, text(title))
		y += 16
		doc.SetFont(family, "", 11)
		doc.SetTextColor(54, 56, 64)
		for _, line := range strings.Split(body, "\n") {
			for _, wrapped := range wrapText(line, wrapWidth) {
				if y > pageHeight-bottomGuard {
					doc.AddPage()
					y = pageTop
				}
				doc.Text(pageLeft, y, text(wrapped))
				y += bodyLeading
			}
		}
		y += 8
	}

	writeBlock("Elevator Pitch", data.Generated.Pitch)
	writeBlock("Biography", data.Generated.Bio)
	var bullets []string
	for _, h := range data.Generated.Highlights {
		bullets = append(bullets, "- "+h)
	}
	writeBlock("Key Highlights", strings.Join(bullets, "\n"))
	writeBlock("Venues & Experience", data.Venues)
	writeBlock("Links", strings.Join(linkLines(data.Links), "\n"))

	doc.SetFont(family, "", 10)
	doc.SetTextColor(140, 148, 158)
	doc.Text(pageLeft, pageHeight-36, text("Generated with ArtistOne"))

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRenderFailure, err)
	}
	return buf.Bytes(), nil
}

// selectFont registers the Noto Sans UTF-8 fonts when present and returns the
// family plus a text mapper. Without the font files the built-in Helvetica is
// used with a codepage translator, which keeps Latin text intact.
func (r *FallbackRenderer) selectFont(doc *fpdf.Fpdf) (string, func(string) string) {
	if r != nil && r.fontsDir != "" {
		regular := filepath.Join(r.fontsDir, "NotoSans-Regular.ttf")
		bold := filepath.Join(r.fontsDir, "NotoSans-Bold.ttf")
		if fileExists(regular) {
			doc.AddUTF8Font("noto", "", regular)
			if fileExists(bold) {
				doc.AddUTF8Font("noto", "B", bold)
			} else {
				doc.AddUTF8Font("noto", "B", regular)
			}
			if !doc.Err() {
				return "noto", func(s string) string { return s }
			}
		}
	}
	tr := doc.UnicodeTranslatorFromDescriptor("")
	return "Helvetica", tr
}

// embedPhoto draws the photo when it arrives as embedded image data and
// returns the drawn height in points. Remote URLs are skipped here; only the
// browser path resolves those.
func (r *FallbackRenderer) embedPhoto(doc *fpdf.Fpdf, data domain.ArtistData, y float64) float64 {
	photoURL := data.PhotoURL
	if photoURL == "" {
		photoURL = data.OriginalPhotoURL
	}
	if !strings.HasPrefix(photoURL, "data:image/") {
		return 0
	}
	imageType := "JPG"
	if strings.HasPrefix(photoURL, "data:image/png") {
		imageType = "PNG"
	}
	idx := strings.Index(photoURL, ",")
	if idx < 0 {
		return 0
	}
	raw, err := base64.StdEncoding.DecodeString(photoURL[idx+1:])
	if err != nil {
		return 0
	}
	name := "artist-photo"
	info := doc.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(raw))
	if info == nil || doc.Err() {
		// A corrupt photo must not sink the document.
		doc.ClearError()
		return 0
	}
	height := photoWidthPt * info.Height() / info.Width()
	doc.ImageOptions(name, pageLeft, y, photoWidthPt, height, false, fpdf.ImageOptions{ImageType: imageType}, 0, "")
	return height
}

// EmptyDocument emits a minimal valid single-page PDF. It is the terminal
// guarantee of the rendering contract: parseable bytes, never an error.
func EmptyDocument() []byte {
	doc := fpdf.New("P", "pt", "A4", "")
	doc.AddPage()
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return []byte("%PDF-1.4\n%%EOF\n")
	}
	return buf.Bytes()
}

func wrapText(text string, maxChars int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	line := ""
	for _, word := range words {
		if line != "" && len(line)+1+len(word) > maxChars {
			lines = append(lines, line)
			line = word
			continue
		}
		if line == "" {
			line = word
		} else {
			line += " " + word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

var _ Engine = (*FallbackRenderer)(nil)
