package models

import "time"

// Location is a named monitoring point with fixed coordinates.
// Locations are provisioned once at startup and never mutated.
type Location struct {
	Name        string
	Latitude    float64
	Longitude   float64
	Description string
}

// Observation is one normalized weather reading for one location at one
// instant. All unit conversion happens at the provider boundary, so the
// values here are always canonical: Fahrenheit, mph, kilometers, millibars.
//
// Pointer fields are optional in some provider responses; nil means the
// provider did not report a value, never a guessed default.
type Observation struct {
	ID            int64
	Location      string
	Timestamp     time.Time // instant of capture, not of reading validity
	TemperatureF  float64
	FeelsLikeF    float64
	Humidity      int
	PressureMb    *float64
	VisibilityKm  *float64
	UVIndex       *float64
	Condition     string // short label, e.g. "Clouds"
	Description   string // free text, e.g. "overcast clouds"
	WindSpeedMph  float64
	WindDirection string // compass label, e.g. "NW"
	WindDegree    *int
	Cloudiness    *int // percent
	IsDay         *bool
	RawPayload    string // original provider response, retained verbatim
}
