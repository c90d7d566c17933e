package provider

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"weather-intel/internal/models"
)

// PacedProvider wraps a Provider with a fixed minimum delay between
// successive remote calls. This is API courtesy, not adaptive backoff:
// the interval is constant regardless of upstream behavior.
type PacedProvider struct {
	inner   Provider
	limiter *rate.Limiter
}

// NewPacedProvider wraps a provider so consecutive fetches are at least
// delay apart. A non-positive delay disables pacing.
func NewPacedProvider(inner Provider, delay time.Duration) *PacedProvider {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &PacedProvider{
		inner:   inner,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Fetch waits out the pacing interval, then forwards to the wrapped
// provider. A context canceled while waiting is reported as the wait error.
func (p *PacedProvider) Fetch(ctx context.Context, loc models.Location) (*models.Observation, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("pacing wait canceled: %w", err)
	}
	return p.inner.Fetch(ctx, loc)
}

// Name returns the wrapped provider's name.
func (p *PacedProvider) Name() string {
	return p.inner.Name()
}

var _ Provider = (*PacedProvider)(nil)
