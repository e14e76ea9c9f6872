package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"artistone/internal/infra"
)

// ErrMissingAPIToken indicates that the client was configured without credentials.
var ErrMissingAPIToken = errors.New("replicate: api token is required")

// Options configures the Replicate API client.
type Options struct {
	APIToken     string
	BaseURL      string
	HTTPClient   *http.Client
	Logger       *infra.Logger
	PollInterval time.Duration
	RunTimeout   time.Duration
}

// Client performs HTTP calls against the Replicate files and predictions APIs.
type Client struct {
	apiToken     string
	baseURL      string
	httpClient   *http.Client
	logger       *infra.Logger
	pollInterval time.Duration
	runTimeout   time.Duration
}

type fileResponse struct {
	ID   string            `json:"id"`
	URLs map[string]string `json:"urls"`
}

type prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  string          `json:"error"`
	URLs   struct {
		Get string `json:"get"`
	} `json:"urls"`
}

type errorResponse struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 90 * time.Second}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.replicate.com/v1"
	}
	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	runTimeout := opts.RunTimeout
	if runTimeout <= 0 {
		runTimeout = 3 * time.Minute
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		apiToken:     strings.TrimSpace(opts.APIToken),
		baseURL:      baseURL,
		httpClient:   httpClient,
		logger:       logger,
		pollInterval: pollInterval,
		runTimeout:   runTimeout,
	}
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c != nil && c.apiToken != ""
}

// UploadFile pushes an image buffer to Replicate's file storage and returns
// the URL models can consume as input.
func (c *Client) UploadFile(ctx context.Context, data []byte, contentType string) (string, error) {
	if !c.HasCredentials() {
		return "", ErrMissingAPIToken
	}
	if len(data) == 0 {
		return "", errors.New("replicate: empty file")
	}
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("content", "upload")
	if err != nil {
		return "", fmt.Errorf("replicate: build upload: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("replicate: build upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("replicate: build upload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files", body)
	if err != nil {
		return "", fmt.Errorf("replicate: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+c.apiToken)

	raw, err := c.do(httpReq)
	if err != nil {
		return "", err
	}
	var decoded fileResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("replicate: decode file response: %w", err)
	}
	url := decoded.URLs["get"]
	if url == "" {
		return "", errors.New("replicate: file response missing url")
	}
	_ = contentType // the files API infers the type from content
	return url, nil
}

// Run starts a prediction against model (owner/name:version) and blocks until
// it reaches a terminal status or the run timeout elapses. The returned value
// is always a single plain URL, regardless of the shape the model emits.
func (c *Client) Run(ctx context.Context, model string, input map[string]any) (string, error) {
	if !c.HasCredentials() {
		return "", ErrMissingAPIToken
	}
	version := versionOf(model)
	if version == "" {
		return "", fmt.Errorf("replicate: model %q has no version pin", model)
	}
	payload, err := json.Marshal(map[string]any{"version": version, "input": input})
	if err != nil {
		return "", fmt.Errorf("replicate: encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.runTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predictions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("replicate: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiToken)
	httpReq.Header.Set("Prefer", "wait=60")

	raw, err := c.do(httpReq)
	if err != nil {
		return "", err
	}
	var pred prediction
	if err := json.Unmarshal(raw, &pred); err != nil {
		return "", fmt.Errorf("replicate: decode prediction: %w", err)
	}

	for !terminal(pred.Status) {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("replicate: prediction %s: %w", pred.ID, ctx.Err())
		case <-time.After(c.pollInterval):
		}
		next, err := c.getPrediction(ctx, pred)
		if err != nil {
			return "", err
		}
		pred = *next
	}

	if pred.Status != "succeeded" {
		if pred.Error != "" {
			return "", fmt.Errorf("replicate: prediction %s %s: %s", pred.ID, pred.Status, pred.Error)
		}
		return "", fmt.Errorf("replicate: prediction %s %s", pred.ID, pred.Status)
	}
	return NormalizeOutput(pred.Output)
}

func (c *Client) getPrediction(ctx context.Context, pred prediction) (*prediction, error) {
	url := pred.URLs.Get
	if url == "" {
		url = c.baseURL + "/predictions/" + pred.ID
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("replicate: build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiToken)
	raw, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	var next prediction
	if err := json.Unmarshal(raw, &next); err != nil {
		return nil, fmt.Errorf("replicate: decode prediction: %w", err)
	}
	return &next, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("replicate: http request: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("replicate: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		var detail errorResponse
		if err := json.Unmarshal(raw, &detail); err == nil && detail.Detail != "" {
			return nil, fmt.Errorf("replicate: %s (%s)", detail.Detail, detail.Title)
		}
		return nil, fmt.Errorf("replicate: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return raw, nil
}

// NormalizeOutput coerces a model's output to one plain URL string. Models
// variously return a bare string, a list of URLs, or an object wrapping one;
// downstream stages are URL-string-oriented and never see those shapes.
func NormalizeOutput(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", errors.New("replicate: empty output")
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if strings.TrimSpace(asString) == "" {
			return "", errors.New("replicate: empty output url")
		}
		return asString, nil
	}

	var asList []json.RawMessage
	if err := json.Unmarshal(raw, &asList); err == nil {
		if len(asList) == 0 {
			return "", errors.New("replicate: empty output list")
		}
		return NormalizeOutput(asList[0])
	}

	var asObject map[string]json.RawMessage
	if err := json.Unmarshal(raw, &asObject); err == nil {
		for _, key := range []string{"url", "image", "output"} {
			if inner, ok := asObject[key]; ok {
				return NormalizeOutput(inner)
			}
		}
	}

	return "", fmt.Errorf("replicate: unusable output shape: %s", truncate(string(raw), 120))
}

func terminal(status string) bool {
	switch status {
	case "succeeded", "failed", "canceled":
		return true
	default:
		return false
	}
}

func versionOf(model string) string {
	if idx := strings.LastIndex(model, ":"); idx >= 0 {
		return model[idx+1:]
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
