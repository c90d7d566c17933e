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

// WeatherAPI fetches current conditions from WeatherAPI.com. Unlike
// OpenWeatherMap it reports every field in multiple units, so the
// Fahrenheit/mph/km fields are taken directly; it also carries a UV index,
// a compass wind direction, and an explicit day/night flag.
type WeatherAPI struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewWeatherAPI creates a WeatherAPI.com provider.
func NewWeatherAPI(apiKey string) *WeatherAPI {
	return &WeatherAPI{
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Name returns the provider name.
func (p *WeatherAPI) Name() string {
	return "WeatherAPI"
}

type weatherAPIResponse struct {
	Current struct {
		TempF      *float64 `json:"temp_f"`
		FeelslikeF *float64 `json:"feelslike_f"`
		Humidity   int      `json:"humidity"`
		PressureMb *float64 `json:"pressure_mb"`
		VisKm      *float64 `json:"vis_km"`
		UV         *float64 `json:"uv"`
		WindMph    float64  `json:"wind_mph"`
		WindDegree *int     `json:"wind_degree"`
		WindDir    string   `json:"wind_dir"`
		Cloud      *int     `json:"cloud"`
		IsDay      *int     `json:"is_day"`
		Condition  struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
}

// Fetch retrieves current weather for a location.
func (p *WeatherAPI) Fetch(ctx context.Context, loc models.Location) (*models.Observation, error) {
	endpoint := fmt.Sprintf("%s/current.json", p.baseURL)
	params := url.Values{}
	params.Add("key", p.apiKey)
	params.Add("q", fmt.Sprintf("%.4f,%.4f", loc.Latitude, loc.Longitude))

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

	var payload weatherAPIResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &FetchError{Kind: ErrMalformedBody, Location: loc.Name, Err: err}
	}

	cur := payload.Current
	if cur.TempF == nil {
		return nil, &FetchError{Kind: ErrMissingField, Location: loc.Name, Field: "temperature"}
	}

	obs := &models.Observation{
		Location:      loc.Name,
		Timestamp:     time.Now().UTC(),
		TemperatureF:  *cur.TempF,
		Humidity:      cur.Humidity,
		PressureMb:    cur.PressureMb,
		VisibilityKm:  cur.VisKm,
		UVIndex:       cur.UV,
		Condition:     cur.Condition.Text,
		Description:   cur.Condition.Text,
		WindSpeedMph:  cur.WindMph,
		WindDirection: cur.WindDir,
		WindDegree:    cur.WindDegree,
		Cloudiness:    cur.Cloud,
		RawPayload:    string(body),
	}

	if cur.FeelslikeF != nil {
		obs.FeelsLikeF = *cur.FeelslikeF
	} else {
		obs.FeelsLikeF = *cur.TempF
	}

	if obs.WindDirection == "" && cur.WindDegree != nil {
		obs.WindDirection = compassLabel(*cur.WindDegree)
	}

	if cur.IsDay != nil {
		day := *cur.IsDay == 1
		obs.IsDay = &day
	}

	return obs, nil
}

var _ Provider = (*WeatherAPI)(nil)
