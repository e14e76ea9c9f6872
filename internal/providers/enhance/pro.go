package enhance

import (
	"context"
	"fmt"
)

// ProPipeline is the three-stage professional chain: face restoration, then
// parameterized style transfer, then resolution upscaling. Each stage's output
// URL feeds the next stage; a failure anywhere fails the whole pipeline.
type ProPipeline struct {
	client pipelineClient
}

// NewProPipeline wires the pipeline to a Replicate client.
func NewProPipeline(client pipelineClient) *ProPipeline {
	return &ProPipeline{client: client}
}

// Name identifies the strategy in results and logs.
func (p *ProPipeline) Name() string { return "pro-pipeline" }

// Enhance runs restore -> style -> upscale and returns the final image URL.
func (p *ProPipeline) Enhance(ctx context.Context, image []byte, params Params) (string, error) {
	if p == nil || p.client == nil {
		return "", fmt.Errorf("enhance: pro pipeline not configured")
	}
	source, err := p.client.UploadFile(ctx, image, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("enhance: upload source: %w", err)
	}

	restored, err := p.client.Run(ctx, modelCodeFormer, map[string]any{
		"image":               source,
		"codeformer_fidelity": 0.7,
		"background_enhance":  true,
		"face_upsample":       true,
		"upscale":             1,
	})
	if err != nil {
		return "", fmt.Errorf("enhance: restore stage: %w", err)
	}

	styleInput := map[string]any{
		"image":    restored,
		"prompt":   stylePrompt(params.Style),
		"strength": strengthFor(params.Intensity),
	}
	if params.Seed > 0 {
		styleInput["seed"] = params.Seed
	}
	styled, err := p.client.Run(ctx, modelStyleTransfer, styleInput)
	if err != nil {
		return "", fmt.Errorf("enhance: style stage: %w", err)
	}

	upscaled, err := p.client.Run(ctx, modelRealESRGAN, map[string]any{
		"image":        styled,
		"scale":        2,
		"face_enhance": true,
	})
	if err != nil {
		return "", fmt.Errorf("enhance: upscale stage: %w", err)
	}
	return upscaled, nil
}

var _ Strategy = (*ProPipeline)(nil)
