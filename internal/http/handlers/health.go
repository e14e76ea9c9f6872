package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Health answers the liveness probe.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

type pdfHealthResponse struct {
	ChromeAvailable bool   `json:"chrome_available"`
	ChromePath      string `json:"chrome_path,omitempty"`
	TmpWritable     bool   `json:"tmp_writable"`
	ElapsedMS       int64  `json:"elapsed_ms"`
}

// PDFHealth reports whether the browser rendering path is usable in this
// environment. The service stays healthy without it; the native fallback
// covers rendering either way.
func (a *App) PDFHealth(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	resp := pdfHealthResponse{TmpWritable: tmpWritable()}
	if a.Chrome != nil {
		resp.ChromeAvailable = a.Chrome.Available()
		resp.ChromePath = a.Chrome.ExecPath()
	}
	resp.ElapsedMS = time.Since(start).Milliseconds()

	a.json(w, http.StatusOK, resp)
}

func tmpWritable() bool {
	probe := filepath.Join(os.TempDir(), "pdf-probe-"+uuid.NewString())
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return false
	}
	_ = os.Remove(probe)
	return true
}
