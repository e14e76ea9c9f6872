package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"artistone/internal/domain"
	"artistone/pkg/zip"
)

// EPKDocument renders the complete artist record into a downloadable PDF.
func (a *App) EPKDocument(w http.ResponseWriter, r *http.Request) {
	data, ok := a.decodeArtistData(w, r)
	if !ok {
		return
	}

	out, err := a.PDF.Render(r.Context(), data)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			a.error(w, r, http.StatusBadRequest, "invalid_input", "The artist record is incomplete", err)
			return
		}
		a.error(w, r, http.StatusInternalServerError, "render_failed", "Failed to render the document", err)
		return
	}

	a.Logger.Info().
		Str("artist", data.Name).
		Int("bytes", len(out)).
		Msg("document rendered")

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", documentFilename(data.Name)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// EPKArchive bundles the rendered PDF together with the press photo into a
// single zip download.
func (a *App) EPKArchive(w http.ResponseWriter, r *http.Request) {
	data, ok := a.decodeArtistData(w, r)
	if !ok {
		return
	}

	out, err := a.PDF.Render(r.Context(), data)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			a.error(w, r, http.StatusBadRequest, "invalid_input", "The artist record is incomplete", err)
			return
		}
		a.error(w, r, http.StatusInternalServerError, "render_failed", "Failed to render the document", err)
		return
	}

	entries := []zip.Entry{{Name: documentFilename(data.Name), Data: out}}
	if photo, name := a.resolvePhoto(r, data.PhotoURL); len(photo) > 0 {
		entries = append(entries, zip.Entry{Name: name, Data: photo})
	}

	archive, err := zip.Archive(entries)
	if err != nil {
		a.error(w, r, http.StatusInternalServerError, "archive_failed", "Failed to build the archive", err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", archiveFilename(data.Name)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

func (a *App) decodeArtistData(w http.ResponseWriter, r *http.Request) (domain.ArtistData, bool) {
	var data domain.ArtistData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		a.error(w, r, http.StatusBadRequest, "invalid_request", "Request body must be valid JSON", err)
		return domain.ArtistData{}, false
	}
	if err := data.ValidateForDocument(); err != nil {
		a.error(w, r, http.StatusBadRequest, "invalid_input", "The artist record is incomplete", err)
		return domain.ArtistData{}, false
	}
	return data, true
}

// resolvePhoto loads the press photo bytes referenced by the record, either
// from an inline data url or from generated storage.
func (a *App) resolvePhoto(r *http.Request, photoURL string) ([]byte, string) {
	photoURL = strings.TrimSpace(photoURL)
	switch {
	case photoURL == "":
		return nil, ""
	case strings.HasPrefix(photoURL, "data:image/"):
		_, encoded, found := strings.Cut(photoURL, ",")
		if !found {
			return nil, ""
		}
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			a.Logger.Warn().Err(err).Msg("failed to decode inline press photo")
			return nil, ""
		}
		return decoded, "press_photo.jpg"
	case strings.HasPrefix(photoURL, "/v1/files/"):
		name := path.Base(photoURL)
		if !validFilename(name) {
			return nil, ""
		}
		if photo, err := a.Generated.Read(r.Context(), name); err == nil {
			return photo, name
		}
		if photo, err := a.Uploads.Read(r.Context(), name); err == nil {
			return photo, name
		}
		return nil, ""
	default:
		return nil, ""
	}
}

func documentFilename(artist string) string {
	return fmt.Sprintf("EPK_%s.pdf", sanitizeDownloadName(artist))
}

func archiveFilename(artist string) string {
	return fmt.Sprintf("EPK_%s.zip", sanitizeDownloadName(artist))
}

func sanitizeDownloadName(artist string) string {
	name := strings.TrimSpace(artist)
	if name == "" {
		name = "Artist"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
}
