package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/weathercast/internal/common"
	"github.com/i474232898/weathercast/internal/weather"
	"github.com/i474232898/weathercast/internal/weather/providers"
)

type AppConfig struct {
	Port string

	PrimaryBaseURL     string
	OpenWeatherBaseURL string
	OpenWeatherAPIKey  string
	Relays             []string

	// HTTPTimeout bounds every outbound request; StepTimeout bounds one cascade step.
	HTTPTimeout time.Duration
	StepTimeout time.Duration

	DefaultCity string

	StoreDriver string // "memory" or "sqlite"
	StorePath   string

	// RefreshInterval re-resolves the displayed city periodically (0 = off).
	RefreshInterval time.Duration

	// Device location: a geocoded address takes precedence over fixed coordinates.
	GeocoderAPIKey string
	DeviceAddress  string
	DeviceLat      *float64
	DeviceLon      *float64
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")

	cfg.PrimaryBaseURL = getenvDefault("PRIMARY_BASE_URL", providers.DefaultWttrBaseURL)
	cfg.OpenWeatherBaseURL = getenvDefault("OPENWEATHER_BASE_URL", providers.DefaultOpenWeatherBaseURL)
	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")

	cfg.Relays = providers.DefaultRelays
	if v, ok := os.LookupEnv("RELAY_URLS"); ok {
		cfg.Relays = common.SplitList(v)
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.StepTimeout, err = getenvDuration("STEP_TIMEOUT", weather.DefaultStepTimeout.String()); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "0"); err != nil {
		return nil, err
	}

	cfg.DefaultCity = getenvDefault("DEFAULT_CITY", weather.DefaultCity)

	cfg.StoreDriver = getenvDefault("STORE_DRIVER", "sqlite")
	if cfg.StoreDriver != "sqlite" && cfg.StoreDriver != "memory" {
		return nil, fmt.Errorf("invalid STORE_DRIVER %q: want sqlite or memory", cfg.StoreDriver)
	}
	cfg.StorePath = getenvDefault("STORE_PATH", "weathercast.db")

	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")
	cfg.DeviceAddress = os.Getenv("DEVICE_ADDRESS")
	if cfg.DeviceLat, err = getenvFloat("DEVICE_LAT"); err != nil {
		return nil, err
	}
	if cfg.DeviceLon, err = getenvFloat("DEVICE_LON"); err != nil {
		return nil, err
	}
	if (cfg.DeviceLat == nil) != (cfg.DeviceLon == nil) {
		return nil, fmt.Errorf("DEVICE_LAT and DEVICE_LON must be set together")
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvFloat(key string) (*float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &f, nil
}
