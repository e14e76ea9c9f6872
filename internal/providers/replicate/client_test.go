package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestNormalizeOutputShapes(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"string", `"https://cdn.example.com/a.png"`, "https://cdn.example.com/a.png"},
		{"list", `["https://cdn.example.com/first.png","https://cdn.example.com/second.png"]`, "https://cdn.example.com/first.png"},
		{"object url", `{"url":"https://cdn.example.com/obj.png"}`, "https://cdn.example.com/obj.png"},
		{"object image", `{"image":"https://cdn.example.com/img.png"}`, "https://cdn.example.com/img.png"},
		{"nested", `{"output":["https://cdn.example.com/nested.png"]}`, "https://cdn.example.com/nested.png"},
	}
	for _, tc := range cases {
		got, err := NormalizeOutput(json.RawMessage(tc.raw))
		if err != nil {
			t.Fatalf("%s: NormalizeOutput: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestNormalizeOutputRejectsUnusable(t *testing.T) {
	for _, raw := range []string{"", `""`, `[]`, `{"other":1}`, `42`} {
		if _, err := NormalizeOutput(json.RawMessage(raw)); err == nil {
			t.Fatalf("NormalizeOutput(%q) = nil error, want failure", raw)
		}
	}
}

func TestRunRequiresCredentials(t *testing.T) {
	client := NewClient(Options{})
	_, err := client.Run(context.Background(), "owner/model:abc", nil)
	if !errors.Is(err, ErrMissingAPIToken) {
		t.Fatalf("error = %v, want ErrMissingAPIToken", err)
	}
}

func TestRunRequiresVersionPin(t *testing.T) {
	client := NewClient(Options{APIToken: "token"})
	if _, err := client.Run(context.Background(), "owner/model", nil); err == nil {
		t.Fatalf("expected error for unpinned model")
	}
}

func TestRunSynchronousSuccess(t *testing.T) {
	var captured struct {
		Version string         `json:"version"`
		Input   map[string]any `json:"input"`
	}
	client := NewClient(Options{
		APIToken: "token",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, "/predictions") {
				t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer token" {
				t.Fatalf("Authorization = %q", got)
			}
			if got := r.Header.Get("Prefer"); got != "wait=60" {
				t.Fatalf("Prefer = %q", got)
			}
			body, _ := io.ReadAll(r.Body)
			if err := json.Unmarshal(body, &captured); err != nil {
				t.Fatalf("decode request: %v", err)
			}
			return jsonResponse(http.StatusCreated,
				`{"id":"p1","status":"succeeded","output":"https://cdn.example.com/out.png"}`), nil
		})},
	})

	url, err := client.Run(context.Background(), "owner/model:v123", map[string]any{"scale": 2})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if url != "https://cdn.example.com/out.png" {
		t.Fatalf("url = %q", url)
	}
	if captured.Version != "v123" {
		t.Fatalf("version = %q, want v123", captured.Version)
	}
	if captured.Input["scale"] != float64(2) {
		t.Fatalf("input = %v", captured.Input)
	}
}

func TestRunPollsUntilTerminal(t *testing.T) {
	calls := 0
	client := NewClient(Options{
		APIToken:     "token",
		PollInterval: time.Millisecond,
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			calls++
			switch calls {
			case 1:
				return jsonResponse(http.StatusCreated,
					`{"id":"p2","status":"processing","urls":{"get":"https://api.example.com/predictions/p2"}}`), nil
			case 2:
				return jsonResponse(http.StatusOK,
					`{"id":"p2","status":"processing","urls":{"get":"https://api.example.com/predictions/p2"}}`), nil
			default:
				return jsonResponse(http.StatusOK,
					`{"id":"p2","status":"succeeded","output":["https://cdn.example.com/polled.png"]}`), nil
			}
		})},
	})

	url, err := client.Run(context.Background(), "owner/model:v1", nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if url != "https://cdn.example.com/polled.png" {
		t.Fatalf("url = %q", url)
	}
	if calls < 3 {
		t.Fatalf("calls = %d, want at least 3", calls)
	}
}

func TestRunSurfacesPredictionError(t *testing.T) {
	client := NewClient(Options{
		APIToken: "token",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusCreated,
				`{"id":"p3","status":"failed","error":"NSFW content detected"}`), nil
		})},
	})

	_, err := client.Run(context.Background(), "owner/model:v1", nil)
	if err == nil || !strings.Contains(err.Error(), "NSFW content detected") {
		t.Fatalf("error = %v, want prediction error detail", err)
	}
}

func TestUploadFile(t *testing.T) {
	client := NewClient(Options{
		APIToken: "token",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if !strings.HasSuffix(r.URL.Path, "/files") {
				t.Fatalf("unexpected path %s", r.URL.Path)
			}
			if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
				t.Fatalf("Content-Type = %q", r.Header.Get("Content-Type"))
			}
			body, _ := io.ReadAll(r.Body)
			if !bytes.Contains(body, []byte("image bytes")) {
				t.Fatalf("multipart body missing file content")
			}
			return jsonResponse(http.StatusCreated,
				`{"id":"f1","urls":{"get":"https://api.example.com/files/f1"}}`), nil
		})},
	})

	url, err := client.UploadFile(context.Background(), []byte("image bytes"), "image/jpeg")
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if url != "https://api.example.com/files/f1" {
		t.Fatalf("url = %q", url)
	}
}

func TestDoDecodesAPIError(t *testing.T) {
	client := NewClient(Options{
		APIToken: "token",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusPaymentRequired,
				`{"title":"Payment required","detail":"Insufficient credit"}`), nil
		})},
	})

	_, err := client.Run(context.Background(), "owner/model:v1", nil)
	if err == nil || !strings.Contains(err.Error(), "Insufficient credit") {
		t.Fatalf("error = %v, want api error detail", err)
	}
}
