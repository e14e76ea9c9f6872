package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"artistone/internal/domain"
	"artistone/internal/infra"
	"artistone/internal/providers/enhance"
	"artistone/internal/storage"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	uploads, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("uploads store: %v", err)
	}
	generated, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("generated store: %v", err)
	}
	app := NewApp(&infra.Config{AppEnv: "test", BaseURL: "http://localhost:8080"}, zerolog.New(io.Discard))
	app.Uploads = uploads
	app.Generated = generated
	return app
}

// withURLParam attaches a chi route parameter so handlers can be exercised
// without the full router.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeJSON(t *testing.T, body *bytes.Buffer, out any) {
	t.Helper()
	if err := json.NewDecoder(body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func multipartImage(t *testing.T, field string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile(field, "photo.jpg")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return body, mw.FormDataContentType()
}

type fakeEnhancer struct {
	result *enhance.Result
	err    error
}

func (f *fakeEnhancer) Enhance(ctx context.Context, image []byte, p enhance.Params) (*enhance.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	res := *f.result
	res.Params = p
	res.Params.Normalize()
	return &res, nil
}

type fakeBioGenerator struct {
	out *domain.GeneratedBio
	err error
}

func (f *fakeBioGenerator) Generate(ctx context.Context, in domain.ArtistInput) (*domain.GeneratedBio, error) {
	return f.out, f.err
}

type fakeRenderer struct {
	out   []byte
	err   error
	calls int
}

func (f *fakeRenderer) Render(ctx context.Context, data domain.ArtistData) ([]byte, error) {
	f.calls++
	return f.out, f.err
}

func completeRecordJSON(t *testing.T) *bytes.Buffer {
	t.Helper()
	data := domain.ArtistData{
		ArtistInput: validArtistInput(),
		Generated: &domain.GeneratedBio{
			Pitch:      "A magnetic presence behind the decks.",
			Bio:        "Long-form journeys.",
			Highlights: []string{"Berghain"},
		},
	}
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal record: %v", err)
	}
	return bytes.NewBuffer(raw)
}

func validArtistInput() domain.ArtistInput {
	return domain.ArtistInput{
		Name:         "Nova Echo",
		City:         "Berlin",
		Genres:       []string{"techno"},
		Venues:       "Berghain",
		Style:        "dark hypnotic techno",
		Skills:       "vinyl mixing",
		Achievements: "Boiler Room 2024",
	}
}

func doRequest(handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}
