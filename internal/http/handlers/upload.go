package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"artistone/internal/domain"
	"artistone/internal/imageproc"
)

// multipart parse memory ceiling; the full payload cap is enforced separately.
const uploadParseMemory = 12 << 20

type uploadResponse struct {
	Success  bool   `json:"success"`
	FileID   string `json:"file_id"`
	FileName string `json:"file_name"`
	TempURL  string `json:"temp_url"`
	Size     int    `json:"size"`
	Type     string `json:"type"`
}

// Upload accepts a multipart photo, validates it and stages a normalized JPEG
// copy in transient storage.
func (a *App) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, uploadParseMemory)
	if err := r.ParseMultipartForm(uploadParseMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			a.error(w, r, http.StatusRequestEntityTooLarge, "size_limit_exceeded", "Image exceeds the 10MB upload limit", err)
			return
		}
		a.error(w, r, http.StatusBadRequest, "invalid_request", "Expected multipart form data with an image field", err)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		a.error(w, r, http.StatusBadRequest, "missing_file", "No image file was provided", err)
		return
	}
	defer file.Close()

	buf, err := io.ReadAll(file)
	if err != nil {
		a.error(w, r, http.StatusBadRequest, "invalid_request", "Failed to read the uploaded file", err)
		return
	}

	if err := imageproc.Validate(buf); err != nil {
		switch {
		case errors.Is(err, domain.ErrFileTooLarge):
			a.error(w, r, http.StatusRequestEntityTooLarge, "size_limit_exceeded", "Image exceeds the 10MB upload limit", err)
		case errors.Is(err, domain.ErrFileTooSmall):
			a.error(w, r, http.StatusBadRequest, "file_too_small", "Image is too small to be a valid photo", err)
		case errors.Is(err, domain.ErrUnsupportedFormat):
			a.error(w, r, http.StatusBadRequest, "unsupported_type", "Only JPEG, PNG and WebP images are accepted", err)
		default:
			a.error(w, r, http.StatusBadRequest, "invalid_request", "The uploaded image is not valid", err)
		}
		return
	}

	normalized, err := imageproc.NormalizeUpload(buf)
	if err != nil {
		a.error(w, r, http.StatusBadRequest, "invalid_request", "The uploaded image could not be decoded", err)
		return
	}

	fileID := uuid.NewString()
	fileName := fmt.Sprintf("%s.jpg", fileID)
	if _, err := a.Uploads.Write(r.Context(), fileName, normalized); err != nil {
		a.error(w, r, http.StatusInternalServerError, "storage_error", "Failed to store the uploaded image", err)
		return
	}

	a.Logger.Info().
		Str("file_id", fileID).
		Int("bytes", len(normalized)).
		Msg("photo staged")

	a.json(w, http.StatusOK, uploadResponse{
		Success:  true,
		FileID:   fileID,
		FileName: fileName,
		TempURL:  "/v1/files/" + fileName,
		Size:     len(normalized),
		Type:     "image/jpeg",
	})
}
