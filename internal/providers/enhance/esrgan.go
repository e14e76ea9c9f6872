package enhance

import (
	"context"
	"fmt"
)

// RealESRGAN is the primary single-stage enhancer: resolution and quality
// upscaling with face enhancement enabled.
type RealESRGAN struct {
	client pipelineClient
}

// NewRealESRGAN wires the strategy to a Replicate client.
func NewRealESRGAN(client pipelineClient) *RealESRGAN {
	return &RealESRGAN{client: client}
}

// Name identifies the strategy in results and logs.
func (r *RealESRGAN) Name() string { return "real-esrgan" }

// Enhance uploads the buffer and runs a single Real-ESRGAN pass.
func (r *RealESRGAN) Enhance(ctx context.Context, image []byte, _ Params) (string, error) {
	if r == nil || r.client == nil {
		return "", fmt.Errorf("enhance: real-esrgan not configured")
	}
	source, err := r.client.UploadFile(ctx, image, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("enhance: upload source: %w", err)
	}
	return r.client.Run(ctx, modelRealESRGAN, map[string]any{
		"image":        source,
		"scale":        2,
		"face_enhance": true,
	})
}

var _ Strategy = (*RealESRGAN)(nil)
