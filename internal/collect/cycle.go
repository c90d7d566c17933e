package collect

import (
	"context"
	"log"
	"time"

	"weather-intel/internal/models"
	"weather-intel/internal/provider"
	"weather-intel/internal/registry"
	"weather-intel/internal/store"
)

// DefaultFetchTimeout bounds a single remote fetch so one stalled call
// cannot wedge the whole cycle.
const DefaultFetchTimeout = 10 * time.Second

// CycleReport records the outcome of one collection pass.
type CycleReport struct {
	Succeeded []string
	Failed    map[string]error
}

// Cycle runs one full collection pass: for every registered location,
// fetch an observation and append it to the store before moving on.
// Locations are processed strictly one at a time; pacing between remote
// calls belongs to the provider the cycle is constructed with.
type Cycle struct {
	registry     *registry.Registry
	provider     provider.Provider
	store        *store.Store
	fetchTimeout time.Duration
}

// New creates a collection cycle. A non-positive fetchTimeout falls back
// to DefaultFetchTimeout.
func New(reg *registry.Registry, prov provider.Provider, st *store.Store, fetchTimeout time.Duration) *Cycle {
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}
	return &Cycle{
		registry:     reg,
		provider:     prov,
		store:        st,
		fetchTimeout: fetchTimeout,
	}
}

// RunOnce performs one pass over every registered location. A fetch or
// append failure for one location is recorded in the report and never
// aborts the rest; each successful observation is persisted before the
// next location is fetched, so a mid-cycle crash loses at most the
// in-flight reading. The cycle holds no timer; scheduling it is the
// caller's concern.
func (c *Cycle) RunOnce(ctx context.Context) CycleReport {
	report := CycleReport{Failed: make(map[string]error)}

	for _, loc := range c.registry.Locations() {
		obs, err := c.fetchOne(ctx, loc)
		if err != nil {
			log.Printf("collect: fetch failed for %s: %v", loc.Name, err)
			report.Failed[loc.Name] = err
			continue
		}

		if err := c.store.Append(obs); err != nil {
			log.Printf("collect: dropping reading for %s: %v", loc.Name, err)
			report.Failed[loc.Name] = err
			continue
		}

		log.Printf("collect: saved %s: %.1f°F, %s", loc.Name, obs.TemperatureF, obs.Description)
		report.Succeeded = append(report.Succeeded, loc.Name)
	}

	return report
}

func (c *Cycle) fetchOne(ctx context.Context, loc models.Location) (*models.Observation, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	return c.provider.Fetch(fetchCtx, loc)
}
