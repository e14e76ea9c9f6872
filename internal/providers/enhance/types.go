package enhance

import (
	"context"
	"strings"
	"time"
)

// Model pins. Each identifier carries its version hash so provider-side model
// updates never change behavior under us.
const (
	modelRealESRGAN    = "nightmareai/real-esrgan:42fed1c4974146d4d2414e2be2c5277c7fcf05fcc3a73abf41610695738c1d7b"
	modelCodeFormer    = "sczhou/codeformer:7de2ea26c616d5bf2245ad0d5e24f0ff9a6204578a5c876db53142edd9d2cd56"
	modelStyleTransfer = "fofr/style-transfer:f1023890703bc0a5a3a2c21b5e498833be5f6ef6e70e9daf6b9b3a4fd8309cf0"
)

// Params are the optional knobs a caller may set on an enhancement request.
type Params struct {
	Style     string `json:"style"`
	Intensity string `json:"intensity"`
	Seed      int    `json:"seed"`
}

// Normalize fills the documented defaults for unset fields.
func (p *Params) Normalize() {
	if strings.TrimSpace(p.Style) == "" {
		p.Style = "natural"
	}
	if strings.TrimSpace(p.Intensity) == "" {
		p.Intensity = "medium"
	}
}

// Result is the terminal answer of an enhancement request. It lives for one
// request/response cycle and is never persisted.
type Result struct {
	Provider  string
	Data      []byte
	SourceURL string
	Elapsed   time.Duration
	Params    Params
}

// Strategy is one way of producing an enhanced image URL from an input buffer.
// Implementations make a single attempt; retry policy belongs to the
// orchestrator's ordered fallback chain.
type Strategy interface {
	Name() string
	Enhance(ctx context.Context, image []byte, p Params) (string, error)
}

// pipelineClient is the slice of the Replicate client the strategies need.
type pipelineClient interface {
	HasCredentials() bool
	UploadFile(ctx context.Context, data []byte, contentType string) (string, error)
	Run(ctx context.Context, model string, input map[string]any) (string, error)
}

// strengthFor maps the user-facing intensity to the style-transfer strength.
// The mapping is the single source of truth; retune it here, nowhere else.
func strengthFor(intensity string) float64 {
	switch strings.ToLower(strings.TrimSpace(intensity)) {
	case "low":
		return 0.35
	case "high":
		return 0.8
	default:
		return 0.55
	}
}

// stylePrompt expands a preset name into the style-transfer prompt. Unknown
// presets fall back to the conservative natural look.
func stylePrompt(style string) string {
	switch strings.ToLower(strings.TrimSpace(style)) {
	case "studio":
		return "professional studio portrait, soft key light, clean backdrop, music industry press photo"
	case "neon":
		return "modern club portrait, neon rim lighting, deep shadows, electronic music aesthetic"
	case "vintage":
		return "film photography portrait, warm analog grain, muted tones, classic album cover look"
	default:
		return "professional music artist portrait, natural light, minimal retouching, preserve identity and facial features"
	}
}
