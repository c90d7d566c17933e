package analytics

import (
	"math"
	"sort"
	"time"

	"weather-intel/internal/models"
	"weather-intel/internal/registry"
	"weather-intel/internal/store"
)

// DefaultRecencyWindow is how far back an observation still counts as
// "current" for the latest-conditions view.
const DefaultRecencyWindow = time.Hour

// HourlyVariance is the cross-location temperature spread within one
// fixed hour bucket. A large range means the locations disagree at the
// same moment, which is the unpredictability signal.
type HourlyVariance struct {
	HourBucket     time.Time
	MinTemperature float64
	MaxTemperature float64
	Range          float64
	StdDev         float64
}

// Analytics computes derived read-only views over the observation store
// for presentation collaborators. It never mutates the store, and a
// storage fault propagates rather than masquerading as an empty window.
type Analytics struct {
	store    *store.Store
	registry *registry.Registry
	recency  time.Duration
}

// New creates the aggregation layer. A non-positive recency window falls
// back to DefaultRecencyWindow.
func New(st *store.Store, reg *registry.Registry, recency time.Duration) *Analytics {
	if recency <= 0 {
		recency = DefaultRecencyWindow
	}
	return &Analytics{store: st, registry: reg, recency: recency}
}

// LatestPerLocation returns the most recent observation within the
// recency window for each registered location. A location with nothing
// recent is simply absent; no value is ever fabricated. Observations for
// names outside the registry are ignored.
func (a *Analytics) LatestPerLocation() (map[string]models.Observation, error) {
	now := time.Now()
	observations, err := a.store.Query(now.Add(-a.recency), now)
	if err != nil {
		return nil, err
	}

	latest := make(map[string]models.Observation)
	for _, obs := range observations {
		if _, registered := a.registry.Lookup(obs.Location); !registered {
			continue
		}
		// Rows arrive newest-first, so the first hit per location wins.
		if _, seen := latest[obs.Location]; !seen {
			latest[obs.Location] = obs
		}
	}

	return latest, nil
}

// SeriesWindow returns all observations from the last N hours, newest
// first, delegating directly to the store's query ordering.
func (a *Analytics) SeriesWindow(hours int) ([]models.Observation, error) {
	now := time.Now()
	return a.store.Query(now.Add(-time.Duration(hours)*time.Hour), now)
}

// VarianceByHour buckets the last N hours of observations into fixed
// one-hour windows by floor-truncating the timestamp, then computes the
// temperature spread across all locations jointly within each bucket.
// Buckets are returned in ascending time order.
func (a *Analytics) VarianceByHour(hours int) ([]HourlyVariance, error) {
	observations, err := a.SeriesWindow(hours)
	if err != nil {
		return nil, err
	}

	buckets := make(map[time.Time][]float64)
	for _, obs := range observations {
		hour := obs.Timestamp.UTC().Truncate(time.Hour)
		buckets[hour] = append(buckets[hour], obs.TemperatureF)
	}

	variance := make([]HourlyVariance, 0, len(buckets))
	for hour, temps := range buckets {
		v := HourlyVariance{HourBucket: hour}

		v.MinTemperature = temps[0]
		v.MaxTemperature = temps[0]
		var sum float64
		for _, t := range temps {
			sum += t
			if t < v.MinTemperature {
				v.MinTemperature = t
			}
			if t > v.MaxTemperature {
				v.MaxTemperature = t
			}
		}
		v.Range = v.MaxTemperature - v.MinTemperature

		// Sample standard deviation; a single reading has no spread.
		if n := len(temps); n > 1 {
			mean := sum / float64(n)
			var ss float64
			for _, t := range temps {
				ss += (t - mean) * (t - mean)
			}
			v.StdDev = math.Sqrt(ss / float64(n-1))
		}

		variance = append(variance, v)
	}

	sort.Slice(variance, func(i, j int) bool {
		return variance[i].HourBucket.Before(variance[j].HourBucket)
	})

	return variance, nil
}
