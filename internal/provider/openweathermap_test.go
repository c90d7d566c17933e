package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"weather-intel/internal/models"
)

var testLocation = models.Location{
	Name:      "Downtown Ithaca",
	Latitude:  42.4430,
	Longitude: -76.5019,
}

const owmPayload = `{
	"main": {"temp": 62.3, "feels_like": 64.1, "humidity": 68, "pressure": 1013.2},
	"weather": [{"main": "Clouds", "description": "overcast clouds"}],
	"wind": {"speed": 7.2, "deg": 270},
	"clouds": {"all": 90},
	"visibility": 10000,
	"dt": 1700000000,
	"sys": {"sunrise": 1699990000, "sunset": 1700020000}
}`

func TestOpenWeatherMap_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("units") != "imperial" {
			t.Errorf("units = %s, want imperial", q.Get("units"))
		}
		if q.Get("appid") != "test-key" {
			t.Errorf("appid = %s, want test-key", q.Get("appid"))
		}
		if q.Get("lat") == "" || q.Get("lon") == "" {
			t.Error("lat/lon query params not set")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(owmPayload))
	}))
	defer server.Close()

	p := NewOpenWeatherMap("test-key")
	p.baseURL = server.URL

	obs, err := p.Fetch(context.Background(), testLocation)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if obs.Location != "Downtown Ithaca" {
		t.Errorf("Location = %s, want Downtown Ithaca", obs.Location)
	}
	if obs.TemperatureF != 62.3 {
		t.Errorf("TemperatureF = %v, want 62.3", obs.TemperatureF)
	}
	if obs.FeelsLikeF != 64.1 {
		t.Errorf("FeelsLikeF = %v, want 64.1", obs.FeelsLikeF)
	}
	if obs.Humidity != 68 {
		t.Errorf("Humidity = %d, want 68", obs.Humidity)
	}
	if obs.VisibilityKm == nil || *obs.VisibilityKm != 10.0 {
		t.Errorf("VisibilityKm = %v, want 10.0 (meters converted once at the boundary)", obs.VisibilityKm)
	}
	if obs.WindDirection != "W" {
		t.Errorf("WindDirection = %s, want W (derived from 270 degrees)", obs.WindDirection)
	}
	if obs.WindDegree == nil || *obs.WindDegree != 270 {
		t.Errorf("WindDegree = %v, want 270", obs.WindDegree)
	}
	if obs.UVIndex != nil {
		t.Errorf("UVIndex = %v, want nil (not reported by this API)", obs.UVIndex)
	}
	if obs.IsDay == nil || !*obs.IsDay {
		t.Error("IsDay should be true for dt between sunrise and sunset")
	}
	if obs.RawPayload == "" {
		t.Error("RawPayload should retain the original response")
	}
	if obs.Timestamp.IsZero() {
		t.Error("Timestamp should be the capture instant")
	}
}

func TestOpenWeatherMap_OptionalFieldsAbsent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"main": {"temp": 55.0, "humidity": 70}, "wind": {"speed": 3.1}}`))
	}))
	defer server.Close()

	p := NewOpenWeatherMap("test-key")
	p.baseURL = server.URL

	obs, err := p.Fetch(context.Background(), testLocation)
	if err != nil {
		t.Fatalf("Fetch() error = %v, optional fields must not fail the fetch", err)
	}

	if obs.PressureMb != nil {
		t.Errorf("PressureMb = %v, want nil", obs.PressureMb)
	}
	if obs.VisibilityKm != nil {
		t.Errorf("VisibilityKm = %v, want nil", obs.VisibilityKm)
	}
	if obs.Cloudiness != nil {
		t.Errorf("Cloudiness = %v, want nil", obs.Cloudiness)
	}
	if obs.IsDay != nil {
		t.Errorf("IsDay = %v, want nil without sunrise/sunset", obs.IsDay)
	}
	if obs.FeelsLikeF != 55.0 {
		t.Errorf("FeelsLikeF = %v, want temperature fallback 55.0", obs.FeelsLikeF)
	}
}

func TestOpenWeatherMap_ErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantKind FetchErrorKind
	}{
		{
			"non-2xx status",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"cod":401}`))
			},
			ErrHTTPStatus,
		},
		{
			"malformed body",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"main": not json`))
			},
			ErrMalformedBody,
		},
		{
			"missing temperature",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"main": {"humidity": 50}, "wind": {"speed": 1.0}}`))
			},
			ErrMissingField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			p := NewOpenWeatherMap("test-key")
			p.baseURL = server.URL

			_, err := p.Fetch(context.Background(), testLocation)
			var fe *FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("Fetch() error = %v, want *FetchError", err)
			}
			if fe.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", fe.Kind, tt.wantKind)
			}
			if fe.Location != testLocation.Name {
				t.Errorf("Location = %s, want %s", fe.Location, testLocation.Name)
			}
		})
	}
}

func TestOpenWeatherMap_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	p := NewOpenWeatherMap("test-key")
	p.baseURL = server.URL

	_, err := p.Fetch(context.Background(), testLocation)
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("Fetch() error = %v, want *FetchError", err)
	}
	if fe.Kind != ErrNetwork {
		t.Errorf("Kind = %v, want ErrNetwork", fe.Kind)
	}
}

func TestOpenWeatherMap_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(owmPayload))
	}))
	defer server.Close()

	p := NewOpenWeatherMap("test-key")
	p.baseURL = server.URL

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Fetch(ctx, testLocation)
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("Fetch() error = %v, want *FetchError", err)
	}
	if fe.Kind != ErrTimeout {
		t.Errorf("Kind = %v, want ErrTimeout", fe.Kind)
	}
}

func TestCompassLabel(t *testing.T) {
	tests := []struct {
		degrees int
		want    string
	}{
		{0, "N"},
		{45, "NE"},
		{90, "E"},
		{180, "S"},
		{270, "W"},
		{315, "NW"},
		{359, "N"},
		{-90, "W"},
	}

	for _, tt := range tests {
		if got := compassLabel(tt.degrees); got != tt.want {
			t.Errorf("compassLabel(%d) = %s, want %s", tt.degrees, got, tt.want)
		}
	}
}
