package main

import (
	"context"
	"testing"
	"time"

	"github.com/i474232898/weathercast/internal/config"
	"github.com/i474232898/weathercast/internal/location"
	"github.com/i474232898/weathercast/internal/store"
	"github.com/i474232898/weathercast/internal/weather"
)

type downStep struct{}

func (downStep) Name() string { return "down" }

func (downStep) Fetch(ctx context.Context, q weather.Query) (weather.Record, error) {
	return weather.Record{}, weather.ErrNetworkFailure
}

func TestServeLeavesStoredCityAlone(t *testing.T) {
	st := store.NewMemoryStore()
	_ = st.SaveLastCity(context.Background(), "Tokyo")

	d := &deps{
		cfg:      &config.AppConfig{Port: "0", RefreshInterval: 20 * time.Millisecond},
		store:    st,
		service:  weather.NewService(weather.NewCascade(time.Second, downStep{}), st, ""),
		resolver: location.NewResolver(nil),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := serve(ctx, d); err != nil {
		t.Fatalf("serve: %v", err)
	}

	if name, _ := st.LastCity(context.Background()); name != "Tokyo" {
		t.Errorf("stored city = %q, want Tokyo", name)
	}
}

func TestNewRenderer(t *testing.T) {
	for _, out := range []string{"text", "json"} {
		if _, err := newRenderer(out, nil); err != nil {
			t.Errorf("newRenderer(%q): %v", out, err)
		}
	}
	if _, err := newRenderer("yaml", nil); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestNewLocator(t *testing.T) {
	lat, lon := 1.0, 2.0
	tests := []struct {
		name string
		cfg  config.AppConfig
		want string
	}{
		{"none", config.AppConfig{}, "<nil>"},
		{"static", config.AppConfig{DeviceLat: &lat, DeviceLon: &lon}, "static"},
		{"geocoder", config.AppConfig{GeocoderAPIKey: "k", DeviceAddress: "London", DeviceLat: &lat, DeviceLon: &lon}, "geocoder"},
	}

	for _, tt := range tests {
		var got string
		switch newLocator(&tt.cfg).(type) {
		case nil:
			got = "<nil>"
		case location.StaticLocator:
			got = "static"
		case *location.GeocoderLocator:
			got = "geocoder"
		}
		if got != tt.want {
			t.Errorf("%s: locator = %s, want %s", tt.name, got, tt.want)
		}
	}
}
