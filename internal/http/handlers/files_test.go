package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestServeFileFromUploads(t *testing.T) {
	app := newTestApp(t)
	payload := stageUpload(t, app, "photo.jpg")

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/v1/files/photo.jpg", nil), "filename", "photo.jpg")
	rec := doRequest(app.ServeFile, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "image/jpeg" {
		t.Fatalf("Content-Type = %q", got)
	}
	if got := rec.Header().Get("Cache-Control"); got != "public, max-age=3600" {
		t.Fatalf("Cache-Control = %q", got)
	}
	if !bytes.Equal(rec.Body.Bytes(), payload) {
		t.Fatalf("served bytes differ from stored bytes")
	}
}

func TestServeFileFallsThroughToGenerated(t *testing.T) {
	app := newTestApp(t)
	if _, err := app.Generated.Write(context.Background(), "enhanced.jpg", []byte("result")); err != nil {
		t.Fatalf("stage generated: %v", err)
	}

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/v1/files/enhanced.jpg", nil), "filename", "enhanced.jpg")
	rec := doRequest(app.ServeFile, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != "result" {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestServeFileMissing(t *testing.T) {
	app := newTestApp(t)
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/v1/files/nope.jpg", nil), "filename", "nope.jpg")
	rec := doRequest(app.ServeFile, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var resp errorBody
	decodeJSON(t, rec.Body, &resp)
	if resp.Error != "file_not_found" {
		t.Fatalf("error = %q", resp.Error)
	}
}

func TestServeFileRejectsTraversal(t *testing.T) {
	app := newTestApp(t)
	for _, name := range []string{"..", "a..b/..", "..%2Fetc", "a/b.jpg", `a\b.jpg`, ""} {
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/v1/files/x", nil), "filename", name)
		rec := doRequest(app.ServeFile, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("filename %q: status = %d, want 400", name, rec.Code)
		}
		var resp errorBody
		decodeJSON(t, rec.Body, &resp)
		if resp.Error != "invalid_filename" {
			t.Fatalf("filename %q: error = %q", name, resp.Error)
		}
	}
}

func TestDeleteFile(t *testing.T) {
	app := newTestApp(t)
	stageUpload(t, app, "photo.jpg")

	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/v1/files/photo.jpg", nil), "filename", "photo.jpg")
	rec := doRequest(app.DeleteFile, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if app.Uploads.Exists(context.Background(), "photo.jpg") {
		t.Fatalf("file still exists after delete")
	}
}

func TestDeleteMissingFileStillSucceeds(t *testing.T) {
	app := newTestApp(t)
	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/v1/files/nope.jpg", nil), "filename", "nope.jpg")
	rec := doRequest(app.DeleteFile, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestValidFilename(t *testing.T) {
	valid := []string{"photo.jpg", "enhanced_abc_123.jpg", "doc.pdf"}
	for _, name := range valid {
		if !validFilename(name) {
			t.Fatalf("validFilename(%q) = false, want true", name)
		}
	}
	invalid := []string{"", " ", "..", "../x.jpg", "a/b.jpg", `a\b.jpg`, "a..jpg"}
	for _, name := range invalid {
		if validFilename(name) {
			t.Fatalf("validFilename(%q) = true, want false", name)
		}
	}
}
