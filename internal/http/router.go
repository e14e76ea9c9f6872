package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"artistone/internal/http/handlers"
	"artistone/internal/middleware"
)

// NewRouter wires the middleware stack and the versioned API surface.
func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(app.Logger))
	r.Use(chimiddleware.Recoverer)
	if len(app.Config.AllowedOrigins) > 0 {
		r.Use(middleware.CORS(app.Config.AllowedOrigins))
	}
	if app.Config.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute))
	}

	// The browser rendering path loads its fonts from here.
	if app.Config.FontsDir != "" {
		r.Handle("/fonts/*", http.StripPrefix("/fonts/", http.FileServer(http.Dir(app.Config.FontsDir))))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", app.Health)
		r.Get("/pdf/health", app.PDFHealth)

		r.Post("/upload", app.Upload)
		r.Post("/photo/enhance", app.Enhance)
		r.Post("/bio/generate", app.GenerateBio)
		r.Post("/epk/pdf", app.EPKDocument)
		r.Post("/epk/archive", app.EPKArchive)

		r.Get("/files/{filename}", app.ServeFile)
		r.Delete("/files/{filename}", app.DeleteFile)
	})

	return r
}
