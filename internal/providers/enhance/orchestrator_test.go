package enhance

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"net/http"
	"strings"
	"testing"

	"artistone/internal/domain"
)

type fakeStrategy struct {
	name    string
	enhance func(ctx context.Context, image []byte, p Params) (string, error)
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Enhance(ctx context.Context, image []byte, p Params) (string, error) {
	return f.enhance(ctx, image, p)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func testJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 8), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode test jpeg: %v", err)
	}
	return buf.Bytes()
}

func jpegClient(t *testing.T) *http.Client {
	t.Helper()
	payload := testJPEG(t)
	return &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewReader(payload)),
		}, nil
	})}
}

func TestEnhanceFirstStrategyWins(t *testing.T) {
	secondCalled := false
	orch := NewOrchestrator(OrchestratorOptions{
		Strategies: []Strategy{
			&fakeStrategy{name: "first", enhance: func(context.Context, []byte, Params) (string, error) {
				return "https://cdn.example.com/first.png", nil
			}},
			&fakeStrategy{name: "second", enhance: func(context.Context, []byte, Params) (string, error) {
				secondCalled = true
				return "https://cdn.example.com/second.png", nil
			}},
		},
		HTTPClient: jpegClient(t),
	})

	result, err := orch.Enhance(context.Background(), []byte("source"), Params{})
	if err != nil {
		t.Fatalf("Enhance: %v", err)
	}
	if result.Provider != "first" {
		t.Fatalf("provider = %q, want first", result.Provider)
	}
	if result.SourceURL != "https://cdn.example.com/first.png" {
		t.Fatalf("source url = %q", result.SourceURL)
	}
	if len(result.Data) == 0 || !bytes.HasPrefix(result.Data, []byte{0xFF, 0xD8}) {
		t.Fatalf("result data is not a jpeg")
	}
	if secondCalled {
		t.Fatalf("second strategy ran after the first succeeded")
	}
}

func TestEnhanceFallsThroughToNextStrategy(t *testing.T) {
	orch := NewOrchestrator(OrchestratorOptions{
		Strategies: []Strategy{
			&fakeStrategy{name: "broken", enhance: func(context.Context, []byte, Params) (string, error) {
				return "", errors.New("model overloaded")
			}},
			&fakeStrategy{name: "empty", enhance: func(context.Context, []byte, Params) (string, error) {
				return "   ", nil
			}},
			&fakeStrategy{name: "working", enhance: func(context.Context, []byte, Params) (string, error) {
				return "https://cdn.example.com/ok.png", nil
			}},
		},
		HTTPClient: jpegClient(t),
	})

	result, err := orch.Enhance(context.Background(), []byte("source"), Params{})
	if err != nil {
		t.Fatalf("Enhance: %v", err)
	}
	if result.Provider != "working" {
		t.Fatalf("provider = %q, want working", result.Provider)
	}
}

func TestEnhanceAllStrategiesFail(t *testing.T) {
	orch := NewOrchestrator(OrchestratorOptions{
		Strategies: []Strategy{
			&fakeStrategy{name: "a", enhance: func(context.Context, []byte, Params) (string, error) {
				return "", errors.New("boom a")
			}},
			&fakeStrategy{name: "b", enhance: func(context.Context, []byte, Params) (string, error) {
				return "", errors.New("boom b")
			}},
		},
	})

	_, err := orch.Enhance(context.Background(), []byte("source"), Params{})
	if !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("error = %v, want ErrProviderFailure", err)
	}
	if !strings.Contains(err.Error(), "boom b") {
		t.Fatalf("error should carry the last cause: %v", err)
	}
}

func TestEnhanceDownloadFailureIsTerminal(t *testing.T) {
	fallbackCalled := false
	orch := NewOrchestrator(OrchestratorOptions{
		Strategies: []Strategy{
			&fakeStrategy{name: "first", enhance: func(context.Context, []byte, Params) (string, error) {
				return "https://cdn.example.com/gone.png", nil
			}},
			&fakeStrategy{name: "second", enhance: func(context.Context, []byte, Params) (string, error) {
				fallbackCalled = true
				return "https://cdn.example.com/second.png", nil
			}},
		},
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusNotFound,
				Body:       io.NopCloser(strings.NewReader("gone")),
			}, nil
		})},
	})

	_, err := orch.Enhance(context.Background(), []byte("source"), Params{})
	if err == nil {
		t.Fatalf("expected terminal failure")
	}
	if fallbackCalled {
		t.Fatalf("next strategy must not run once a provider succeeded")
	}
}

func TestEnhanceNoStrategies(t *testing.T) {
	orch := NewOrchestrator(OrchestratorOptions{})
	_, err := orch.Enhance(context.Background(), []byte("source"), Params{})
	if !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("error = %v, want ErrProviderFailure", err)
	}
}

func TestEnhanceNormalizesParams(t *testing.T) {
	var seen Params
	orch := NewOrchestrator(OrchestratorOptions{
		Strategies: []Strategy{
			&fakeStrategy{name: "probe", enhance: func(_ context.Context, _ []byte, p Params) (string, error) {
				seen = p
				return "https://cdn.example.com/p.png", nil
			}},
		},
		HTTPClient: jpegClient(t),
	})

	result, err := orch.Enhance(context.Background(), []byte("source"), Params{})
	if err != nil {
		t.Fatalf("Enhance: %v", err)
	}
	if seen.Style != "natural" || seen.Intensity != "medium" {
		t.Fatalf("params = %+v, want natural/medium defaults", seen)
	}
	if result.Params.Style != "natural" {
		t.Fatalf("result params = %+v", result.Params)
	}
}

func TestStrengthFor(t *testing.T) {
	cases := map[string]float64{
		"low":     0.35,
		"medium":  0.55,
		"High":    0.8,
		"unknown": 0.55,
		"":        0.55,
	}
	for intensity, want := range cases {
		if got := strengthFor(intensity); got != want {
			t.Fatalf("strengthFor(%q) = %v, want %v", intensity, got, want)
		}
	}
}
