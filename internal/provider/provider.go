package provider

import (
	"context"
	"errors"
	"net"

	"weather-intel/internal/models"
)

// Provider fetches one observation for one location from a remote weather
// API and normalizes it into the canonical Observation shape. The wire
// shape differs across providers; the canonical shape is the stable
// contract, so all field mapping and unit conversion happens here and
// nowhere else.
type Provider interface {
	// Fetch issues one outbound request for the location's coordinates.
	// Failures are reported as *FetchError.
	Fetch(ctx context.Context, loc models.Location) (*models.Observation, error)

	// Name identifies the provider in logs and reports.
	Name() string
}

var compassPoints = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// compassLabel converts wind degrees to a 16-point compass label.
func compassLabel(degrees int) string {
	deg := ((degrees % 360) + 360) % 360
	idx := ((deg * 10) + 112) / 225 % 16 // 22.5 degree sectors, rounded
	return compassPoints[idx]
}

// transportError classifies a failed request as a timeout or a plain
// network failure.
func transportError(location string, err error) *FetchError {
	kind := ErrNetwork
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		kind = ErrTimeout
	}
	return &FetchError{Kind: kind, Location: location, Err: err}
}
