package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"artistone/internal/domain"
	"artistone/internal/imageproc"
	"artistone/internal/providers/enhance"
)

type enhanceRequest struct {
	FileID    string `json:"file_id"`
	FileName  string `json:"file_name"`
	Style     string `json:"style"`
	Intensity string `json:"intensity"`
	Seed      int    `json:"seed"`
}

type enhanceResponse struct {
	Success          bool   `json:"success"`
	EnhancedURL      string `json:"enhanced_url"`
	FileName         string `json:"file_name"`
	Provider         string `json:"provider"`
	ProcessingTimeMS int64  `json:"processing_time_ms"`
	Style            string `json:"style"`
	Intensity        string `json:"intensity"`
}

// Enhance runs a staged upload through the provider fallback chain and stores
// the finished result.
func (a *App) Enhance(w http.ResponseWriter, r *http.Request) {
	var req enhanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, r, http.StatusBadRequest, "invalid_request", "Request body must be valid JSON", err)
		return
	}

	key := strings.TrimSpace(req.FileName)
	if key == "" && strings.TrimSpace(req.FileID) != "" {
		key = strings.TrimSpace(req.FileID) + ".jpg"
	}
	if !validFilename(key) {
		a.error(w, r, http.StatusBadRequest, "invalid_filename", "A valid file_name or file_id is required", nil)
		return
	}

	source, err := a.Uploads.Read(r.Context(), key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, r, http.StatusNotFound, "file_not_found", "The referenced upload does not exist or has expired", err)
			return
		}
		a.error(w, r, http.StatusInternalServerError, "storage_error", "Failed to read the uploaded image", err)
		return
	}

	if err := imageproc.Validate(source); err != nil {
		a.error(w, r, http.StatusBadRequest, "invalid_request", "The staged image is no longer valid", err)
		return
	}

	result, err := a.Enhancer.Enhance(r.Context(), source, enhance.Params{
		Style:     req.Style,
		Intensity: req.Intensity,
		Seed:      req.Seed,
	})
	if err != nil {
		// The pipeline reached a terminal outcome either way; the staged
		// source must not outlive it.
		a.discardStagedUpload(r, key)
		if errors.Is(err, domain.ErrProviderFailure) {
			a.error(w, r, http.StatusBadGateway, "enhancement_failed", "All enhancement providers failed, please try again later", err)
			return
		}
		a.error(w, r, http.StatusBadGateway, "enhancement_failed", "Photo enhancement did not complete", err)
		return
	}

	resultName := fmt.Sprintf("enhanced_%s_%d.jpg", strings.TrimSuffix(key, ".jpg"), time.Now().UnixMilli())
	if _, err := a.Generated.Write(r.Context(), resultName, result.Data); err != nil {
		a.error(w, r, http.StatusInternalServerError, "storage_error", "Failed to store the enhanced image", err)
		return
	}

	enhancedURL := "/v1/files/" + resultName
	if a.Config.InlineResults {
		enhancedURL = "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(result.Data)
	}

	// The staged original already served its purpose.
	a.discardStagedUpload(r, key)

	a.Logger.Info().
		Str("provider", result.Provider).
		Dur("elapsed", result.Elapsed).
		Str("file_name", resultName).
		Msg("photo enhanced")

	a.json(w, http.StatusOK, enhanceResponse{
		Success:          true,
		EnhancedURL:      enhancedURL,
		FileName:         resultName,
		Provider:         result.Provider,
		ProcessingTimeMS: result.Elapsed.Milliseconds(),
		Style:            result.Params.Style,
		Intensity:        result.Params.Intensity,
	})
}

// discardStagedUpload removes the transient source image best-effort. By the
// time it runs the response is already decided, so failures are only logged.
func (a *App) discardStagedUpload(r *http.Request, key string) {
	if err := a.Uploads.Delete(r.Context(), key); err != nil {
		a.Logger.Warn().Err(err).Str("file_name", key).Msg("failed to clean up staged upload")
	}
}
