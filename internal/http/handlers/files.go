package handlers

import (
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"artistone/internal/domain"
)

// validFilename rejects anything that could reference a path outside the
// storage roots before the filesystem is touched at all.
func validFilename(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	if strings.Contains(name, "..") ||
		strings.ContainsAny(name, "/\\") ||
		name != path.Clean(name) {
		return false
	}
	return true
}

func contentTypeFor(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// ServeFile returns a staged or generated file by name.
func (a *App) ServeFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	if !validFilename(name) {
		a.error(w, r, http.StatusBadRequest, "invalid_filename", "The requested filename is not valid", nil)
		return
	}

	data, err := a.Uploads.Read(r.Context(), name)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			a.error(w, r, http.StatusInternalServerError, "storage_error", "Failed to read the file", err)
			return
		}
		data, err = a.Generated.Read(r.Context(), name)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				a.error(w, r, http.StatusNotFound, "file_not_found", "The requested file does not exist", err)
				return
			}
			a.error(w, r, http.StatusInternalServerError, "storage_error", "Failed to read the file", err)
			return
		}
	}

	w.Header().Set("Content-Type", contentTypeFor(name))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// DeleteFile removes a staged or generated file. Deleting a missing file still
// answers success; cleanup is best-effort by contract.
func (a *App) DeleteFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	if !validFilename(name) {
		a.error(w, r, http.StatusBadRequest, "invalid_filename", "The requested filename is not valid", nil)
		return
	}

	if err := a.Uploads.Delete(r.Context(), name); err != nil {
		a.Logger.Warn().Err(err).Str("file_name", name).Msg("failed to delete staged file")
	}
	if err := a.Generated.Delete(r.Context(), name); err != nil {
		a.Logger.Warn().Err(err).Str("file_name", name).Msg("failed to delete generated file")
	}

	a.json(w, http.StatusOK, map[string]any{"success": true})
}
