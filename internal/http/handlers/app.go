package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"artistone/internal/domain"
	"artistone/internal/infra"
	"artistone/internal/middleware"
	"artistone/internal/providers/bio"
	"artistone/internal/providers/enhance"
	"artistone/internal/storage"
)

// Enhancer produces an enhanced press photo from an uploaded image buffer.
type Enhancer interface {
	Enhance(ctx context.Context, image []byte, p enhance.Params) (*enhance.Result, error)
}

// DocumentRenderer turns a complete artist record into PDF bytes.
type DocumentRenderer interface {
	Render(ctx context.Context, data domain.ArtistData) ([]byte, error)
}

// ChromeProbe exposes the browser engine's availability for the health surface.
type ChromeProbe interface {
	Available() bool
	ExecPath() string
}

// App aggregates the dependencies shared by the HTTP handlers.
type App struct {
	Config    *infra.Config
	Logger    infra.Logger
	Uploads   *storage.FileStore
	Generated *storage.FileStore
	Enhancer  Enhancer
	Bio       bio.Generator
	PDF       DocumentRenderer
	Chrome    ChromeProbe
}

// NewApp constructs the handler container.
func NewApp(cfg *infra.Config, logger infra.Logger) *App {
	return &App{Config: cfg, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		a.Logger.Error().Err(err).Msg("failed to encode json response")
	}
}

// errorBody is the envelope every failed request answers with.
type errorBody struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	Details   string `json:"details,omitempty"`
}

func (a *App) error(w http.ResponseWriter, r *http.Request, statusCode int, code, message string, err error) {
	body := errorBody{
		Error:     code,
		Message:   message,
		RequestID: middleware.RequestIDFromContext(r.Context()),
	}
	if err != nil {
		a.Logger.Error().Err(err).
			Str("code", code).
			Int("status", statusCode).
			Str("path", r.URL.Path).
			Msg("request failed")
		if !a.Config.Production() {
			body.Details = err.Error()
		}
	}
	a.json(w, statusCode, body)
}
