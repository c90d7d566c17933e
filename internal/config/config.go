package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// PlaceholderAPIKey is the value shipped in .env.example. Startup fails
// while it is still in place so no request ever carries it upstream.
const PlaceholderAPIKey = "your_api_key_here"

// Provider names accepted in WEATHER_PROVIDER.
const (
	ProviderOpenWeatherMap = "openweathermap"
	ProviderWeatherAPI     = "weatherapi"
)

// ValidationError is a configuration value that failed its rule. These
// surface at startup and are fatal; they are not recoverable at runtime.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration for %s: %s", e.Field, e.Message)
}

// Config is the explicit configuration value handed to each component's
// constructor; nothing reads ambient process state after Load returns.
type Config struct {
	Provider        string
	APIKey          string
	DBPath          string
	CollectInterval time.Duration
	FetchTimeout    time.Duration
	CallPacing      time.Duration
	Retention       time.Duration
}

// Load reads configuration from the environment (and an optional .env
// file) and validates it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("config: no .env file loaded: %v", err)
	}

	cfg := &Config{
		Provider: getenvDefault("WEATHER_PROVIDER", ProviderOpenWeatherMap),
		DBPath:   getenvDefault("WEATHER_DB_PATH", "data/weather.db"),
	}

	switch cfg.Provider {
	case ProviderOpenWeatherMap:
		cfg.APIKey = os.Getenv("OPENWEATHER_API_KEY")
	case ProviderWeatherAPI:
		cfg.APIKey = os.Getenv("WEATHERAPI_API_KEY")
	default:
		return nil, &ValidationError{
			Field:   "WEATHER_PROVIDER",
			Message: fmt.Sprintf("unknown provider %q", cfg.Provider),
		}
	}

	if cfg.APIKey == "" || cfg.APIKey == PlaceholderAPIKey {
		return nil, &ValidationError{
			Field:   "API key",
			Message: "set your weather API key in the .env file or environment",
		}
	}

	var err error
	if cfg.CollectInterval, err = getenvDuration("COLLECT_INTERVAL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.CollectInterval <= 0 {
		return nil, &ValidationError{Field: "COLLECT_INTERVAL", Message: "must be positive"}
	}

	if cfg.FetchTimeout, err = getenvDuration("FETCH_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout <= 0 {
		return nil, &ValidationError{Field: "FETCH_TIMEOUT", Message: "must be positive"}
	}

	if cfg.CallPacing, err = getenvDuration("CALL_PACING", time.Second); err != nil {
		return nil, err
	}
	if cfg.CallPacing < 0 {
		return nil, &ValidationError{Field: "CALL_PACING", Message: "must not be negative"}
	}

	// Retention horizon; 0 disables pruning entirely.
	if cfg.Retention, err = getenvDuration("RETENTION", 365*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.Retention < 0 {
		return nil, &ValidationError{Field: "RETENTION", Message: "must not be negative"}
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, &ValidationError{Field: key, Message: err.Error()}
	}
	return d, nil
}
