package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"weather-intel/internal/models"
)

// OpenWeatherMap fetches current conditions from the OpenWeatherMap API.
// Requests use units=imperial, so temperature and wind speed arrive in the
// canonical units already; visibility arrives in meters and is converted
// here. The current-weather endpoint carries no UV index.
type OpenWeatherMap struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewOpenWeatherMap creates an OpenWeatherMap provider.
func NewOpenWeatherMap(apiKey string) *OpenWeatherMap {
	return &OpenWeatherMap{
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Name returns the provider name.
func (p *OpenWeatherMap) Name() string {
	return "OpenWeatherMap"
}

// owmResponse is the subset of the current-weather payload we map into the
// canonical shape. Optional fields are pointers so absence is detectable.
type owmResponse struct {
	Main struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		Humidity  int      `json:"humidity"`
		Pressure  *float64 `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   *int    `json:"deg"`
	} `json:"wind"`
	Clouds struct {
		All *int `json:"all"`
	} `json:"clouds"`
	Visibility *float64 `json:"visibility"` // meters
	Dt         int64    `json:"dt"`
	Sys        struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
}

// Fetch retrieves current weather for a location.
func (p *OpenWeatherMap) Fetch(ctx context.Context, loc models.Location) (*models.Observation, error) {
	endpoint := fmt.Sprintf("%s/weather", p.baseURL)
	params := url.Values{}
	params.Add("lat", fmt.Sprintf("%.4f", loc.Latitude))
	params.Add("lon", fmt.Sprintf("%.4f", loc.Longitude))
	params.Add("appid", p.apiKey)
	params.Add("units", "imperial")

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &FetchError{Kind: ErrNetwork, Location: loc.Name, Err: err}
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, transportError(loc.Name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(loc.Name, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Kind: ErrHTTPStatus, Location: loc.Name, Status: resp.StatusCode}
	}

	var payload owmResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &FetchError{Kind: ErrMalformedBody, Location: loc.Name, Err: err}
	}

	if payload.Main.Temp == nil {
		return nil, &FetchError{Kind: ErrMissingField, Location: loc.Name, Field: "temperature"}
	}

	obs := &models.Observation{
		Location:     loc.Name,
		Timestamp:    time.Now().UTC(),
		TemperatureF: *payload.Main.Temp,
		Humidity:     payload.Main.Humidity,
		PressureMb:   payload.Main.Pressure,
		WindSpeedMph: payload.Wind.Speed,
		WindDegree:   payload.Wind.Deg,
		Cloudiness:   payload.Clouds.All,
		RawPayload:   string(body),
	}

	if payload.Main.FeelsLike != nil {
		obs.FeelsLikeF = *payload.Main.FeelsLike
	} else {
		obs.FeelsLikeF = *payload.Main.Temp
	}

	if len(payload.Weather) > 0 {
		obs.Condition = payload.Weather[0].Main
		obs.Description = payload.Weather[0].Description
	}

	if payload.Wind.Deg != nil {
		obs.WindDirection = compassLabel(*payload.Wind.Deg)
	}

	if payload.Visibility != nil {
		km := *payload.Visibility / 1000
		obs.VisibilityKm = &km
	}

	// Day/night from the observation time relative to sunrise/sunset.
	if payload.Sys.Sunrise > 0 && payload.Sys.Sunset > 0 && payload.Dt > 0 {
		day := payload.Dt >= payload.Sys.Sunrise && payload.Dt < payload.Sys.Sunset
		obs.IsDay = &day
	}

	return obs, nil
}

var _ Provider = (*OpenWeatherMap)(nil)
