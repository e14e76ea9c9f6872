package pdf

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"artistone/internal/domain"
	"artistone/internal/infra"
)

// Engine is one way of turning a complete artist record into document bytes.
type Engine interface {
	Render(ctx context.Context, data domain.ArtistData) ([]byte, error)
}

// Renderer degrades through the browser path, the native reconstruction path
// and finally a minimal empty document. Once input validation passes, the
// contract is to always return parseable PDF bytes.
type Renderer struct {
	primary  Engine
	fallback Engine
	logger   *infra.Logger
}

// NewRenderer builds the two-stage renderer.
func NewRenderer(primary, fallback Engine, logger *infra.Logger) *Renderer {
	if logger == nil {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Renderer{primary: primary, fallback: fallback, logger: logger}
}

// Render validates the record and walks the degradation chain.
func (r *Renderer) Render(ctx context.Context, data domain.ArtistData) ([]byte, error) {
	if err := data.ValidateForDocument(); err != nil {
		return nil, err
	}

	if r.primary != nil {
		out, err := r.primary.Render(ctx, data)
		if err == nil && len(out) > 0 {
			return out, nil
		}
		r.logger.Warn().Err(err).Msg("primary document renderer failed, using fallback")
	}

	if r.fallback != nil {
		out, err := r.fallback.Render(ctx, data)
		if err == nil && len(out) > 0 {
			return out, nil
		}
		r.logger.Error().Err(err).Msg("fallback document renderer failed, emitting empty document")
	}

	return EmptyDocument(), nil
}
