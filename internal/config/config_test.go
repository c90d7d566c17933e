package config

import (
	"errors"
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("WEATHER_PROVIDER", "")
	t.Setenv("OPENWEATHER_API_KEY", "real-looking-key")
	t.Setenv("WEATHERAPI_API_KEY", "")
	t.Setenv("WEATHER_DB_PATH", "")
	t.Setenv("COLLECT_INTERVAL", "")
	t.Setenv("FETCH_TIMEOUT", "")
	t.Setenv("CALL_PACING", "")
	t.Setenv("RETENTION", "")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Provider != ProviderOpenWeatherMap {
		t.Errorf("Provider = %s, want %s", cfg.Provider, ProviderOpenWeatherMap)
	}
	if cfg.DBPath != "data/weather.db" {
		t.Errorf("DBPath = %s, want data/weather.db", cfg.DBPath)
	}
	if cfg.CollectInterval != 30*time.Minute {
		t.Errorf("CollectInterval = %v, want 30m", cfg.CollectInterval)
	}
	if cfg.FetchTimeout != 10*time.Second {
		t.Errorf("FetchTimeout = %v, want 10s", cfg.FetchTimeout)
	}
	if cfg.CallPacing != time.Second {
		t.Errorf("CallPacing = %v, want 1s", cfg.CallPacing)
	}
	if cfg.Retention != 365*24*time.Hour {
		t.Errorf("Retention = %v, want 8760h", cfg.Retention)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"placeholder api key", "OPENWEATHER_API_KEY", PlaceholderAPIKey},
		{"empty api key", "OPENWEATHER_API_KEY", ""},
		{"unknown provider", "WEATHER_PROVIDER", "accuweather"},
		{"bad interval", "COLLECT_INTERVAL", "thirty minutes"},
		{"zero interval", "COLLECT_INTERVAL", "0s"},
		{"negative pacing", "CALL_PACING", "-1s"},
		{"negative retention", "RETENTION", "-24h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatal("Load() error = nil, want a validation error")
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("Load() error = %v, want *ValidationError", err)
			}
		})
	}
}

func TestLoadWeatherAPIProvider(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("WEATHER_PROVIDER", ProviderWeatherAPI)
	t.Setenv("WEATHERAPI_API_KEY", "wapi-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIKey != "wapi-key" {
		t.Errorf("APIKey = %s, want the WeatherAPI key", cfg.APIKey)
	}
}
