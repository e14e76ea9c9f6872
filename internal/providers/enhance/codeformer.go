package enhance

import (
	"context"
	"fmt"
)

// CodeFormer is the secondary single-stage enhancer, a face-specific model
// tried after Real-ESRGAN. High fidelity keeps the subject recognizable.
type CodeFormer struct {
	client pipelineClient
}

// NewCodeFormer wires the strategy to a Replicate client.
func NewCodeFormer(client pipelineClient) *CodeFormer {
	return &CodeFormer{client: client}
}

// Name identifies the strategy in results and logs.
func (c *CodeFormer) Name() string { return "codeformer" }

// Enhance uploads the buffer and runs a single CodeFormer pass.
func (c *CodeFormer) Enhance(ctx context.Context, image []byte, _ Params) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("enhance: codeformer not configured")
	}
	source, err := c.client.UploadFile(ctx, image, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("enhance: upload source: %w", err)
	}
	return c.client.Run(ctx, modelCodeFormer, map[string]any{
		"image":               source,
		"codeformer_fidelity": 0.9,
		"background_enhance":  true,
		"face_upsample":       true,
		"upscale":             2,
	})
}

var _ Strategy = (*CodeFormer)(nil)
