package enhance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"artistone/internal/domain"
	"artistone/internal/imageproc"
	"artistone/internal/infra"
)

// Orchestrator walks an ordered list of strategies, accepts the first success,
// downloads the resulting remote image and applies the deterministic finishing
// pass. It always produces a terminal answer: a Result or an error, never a
// panic escaping to the caller and never an unenhanced image presented as
// enhanced.
type Orchestrator struct {
	strategies []Strategy
	httpClient *http.Client
	logger     *infra.Logger
}

// OrchestratorOptions configures the fallback chain. Strategy order is the
// priority order; there is no health-based reordering and no racing.
type OrchestratorOptions struct {
	Strategies []Strategy
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// NewOrchestrator builds an orchestrator over the given strategy chain.
func NewOrchestrator(opts OrchestratorOptions) *Orchestrator {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Orchestrator{
		strategies: opts.Strategies,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Enhance tries each strategy once, in order. On the first success it
// downloads the provider's output and runs the finishing pass; after that
// point any failure is terminal rather than a reason to try the next
// provider, since the enhancement itself already happened.
func (o *Orchestrator) Enhance(ctx context.Context, image []byte, p Params) (*Result, error) {
	if o == nil || len(o.strategies) == 0 {
		return nil, fmt.Errorf("%w: no enhancement strategies configured", domain.ErrProviderFailure)
	}
	p.Normalize()
	start := time.Now()

	var lastErr error
	for _, strategy := range o.strategies {
		url, err := strategy.Enhance(ctx, image, p)
		if err != nil {
			o.logger.Warn().Err(err).Str("strategy", strategy.Name()).Msg("enhancement strategy failed")
			lastErr = err
			continue
		}
		if strings.TrimSpace(url) == "" {
			lastErr = fmt.Errorf("enhance: %s returned an empty url", strategy.Name())
			o.logger.Warn().Str("strategy", strategy.Name()).Msg("enhancement strategy returned empty url")
			continue
		}

		data, err := o.download(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("enhance: download result from %s: %w", strategy.Name(), err)
		}
		finished, err := imageproc.Finish(data)
		if err != nil {
			return nil, fmt.Errorf("enhance: post-process result from %s: %w", strategy.Name(), err)
		}
		return &Result{
			Provider:  strategy.Name(),
			Data:      finished,
			SourceURL: url,
			Elapsed:   time.Since(start),
			Params:    p,
		}, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no strategy produced a result")
	}
	return nil, fmt.Errorf("%w: all enhancement providers failed: %v", domain.ErrProviderFailure, lastErr)
}

func (o *Orchestrator) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
