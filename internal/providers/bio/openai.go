package bio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"artistone/internal/domain"
)

const (
	openAIDefaultTimeout = 30 * time.Second
	defaultOpenAIModel   = "gpt-4o"
	openAIProviderName   = "openai"
	staticProviderName   = "static"
)

// OpenAIOptions configures the chat-completions bio generator.
type OpenAIOptions struct {
	APIKey       string
	Model        string
	BaseURL      string
	Organization string
	HTTPClient   *http.Client
	Fallback     Generator
	OnFallback   func(reason string, err error)
}

// OpenAIGenerator calls the chat-completions API with a strict JSON response
// contract. Provider-level failures fall through to the chained fallback;
// parse and contract failures are surfaced, never masked.
type OpenAIGenerator struct {
	apiKey       string
	model        string
	baseURL      string
	organization string
	client       *http.Client
	fallback     Generator
	onFallback   func(reason string, err error)
}

type openAIChatRequest struct {
	Model          string          `json:"model"`
	Messages       []openAIMessage `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *openAIFormat   `json:"response_format,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIFormat struct {
	Type string `json:"type"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewOpenAIGenerator constructs the generator. The API key is required; wire
// the static generator directly when no key is configured.
func NewOpenAIGenerator(opts OpenAIOptions) (*OpenAIGenerator, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("openai api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultOpenAIModel
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: openAIDefaultTimeout}
	}
	return &OpenAIGenerator{
		apiKey:       strings.TrimSpace(opts.APIKey),
		model:        model,
		baseURL:      baseURL,
		organization: strings.TrimSpace(opts.Organization),
		client:       client,
		fallback:     opts.Fallback,
		onFallback:   opts.OnFallback,
	}, nil
}

// Generate produces a bio via the language model. Transport failures and
// provider-side errors use the fallback chain; a response that cannot be
// parsed or is structurally incomplete returns domain.ErrMalformedResponse.
func (g *OpenAIGenerator) Generate(ctx context.Context, in domain.ArtistInput) (*domain.GeneratedBio, error) {
	payload := openAIChatRequest{
		Model: g.model,
		Messages: []openAIMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildUserPrompt(in)},
		},
		Temperature:    0.9,
		MaxTokens:      1500,
		ResponseFormat: &openAIFormat{Type: "json_object"},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return g.useFallback(ctx, in, "encode_request", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return g.useFallback(ctx, in, "build_request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	if g.organization != "" {
		httpReq.Header.Set("OpenAI-Organization", g.organization)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return g.useFallback(ctx, in, "http_request", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return g.useFallback(ctx, in, "provider_status", fmt.Errorf("%w: status %d", domain.ErrProviderFailure, resp.StatusCode))
	}

	var decoded openAIChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return g.useFallback(ctx, in, "decode_envelope", err)
	}
	if len(decoded.Choices) == 0 || strings.TrimSpace(decoded.Choices[0].Message.Content) == "" {
		return g.useFallback(ctx, in, "empty_response", errors.New("no completion content"))
	}

	content := extractJSONFragment(decoded.Choices[0].Message.Content)
	var out domain.GeneratedBio
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return &out, nil
}

func (g *OpenAIGenerator) useFallback(ctx context.Context, in domain.ArtistInput, reason string, cause error) (*domain.GeneratedBio, error) {
	if g.onFallback != nil {
		g.onFallback(reason, cause)
	}
	if g.fallback != nil {
		return g.fallback.Generate(ctx, in)
	}
	return NewStaticGenerator().Generate(ctx, in)
}

// extractJSONFragment strips code fences and surrounding prose so the body
// between the outermost braces can be parsed.
func extractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "]}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

var _ Generator = (*OpenAIGenerator)(nil)
