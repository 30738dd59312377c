package providers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/i474232898/weathercast/internal/weather"
)

const wttrTokyo = `{
  "current_condition": [{
    "FeelsLikeC": "27",
    "humidity": "62",
    "temp_C": "25",
    "visibility": "10",
    "weatherDesc": [{"value": "Partly cloudy"}],
    "windspeedKmph": "18"
  }],
  "nearest_area": [{
    "areaName": [{"value": "Tokyo"}],
    "country": [{"value": "Japan"}]
  }]
}`

// fakeServer answers every request with status and body and records the
// request URIs it saw.
type fakeServer struct {
	*httptest.Server
	hits atomic.Int32
	uris chan string
}

func newFakeServer(t *testing.T, status int, body string) *fakeServer {
	t.Helper()
	fs := &fakeServer{uris: make(chan string, 16)}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.hits.Add(1)
		select {
		case fs.uris <- r.URL.RequestURI():
		default:
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(fs.Close)
	return fs
}

func TestWttrURL(t *testing.T) {
	p := NewWttrProvider(http.DefaultClient, "https://wttr.in/")

	if got, want := p.URL(weather.ByName("New York")), "https://wttr.in/New%20York?format=j1"; got != want {
		t.Errorf("URL = %q, want %q", got, want)
	}
	if got, want := p.URL(weather.ByCoordinates(51.5074, -0.1278)), "https://wttr.in/51.5074,-0.1278?format=j1"; got != want {
		t.Errorf("URL = %q, want %q", got, want)
	}
}

func TestWttrFetchNormalizes(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, wttrTokyo)
	p := NewWttrProvider(srv.Client(), srv.URL)

	rec, err := p.Fetch(context.Background(), weather.ByName("Tokyo"))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if got := <-srv.uris; got != "/Tokyo?format=j1" {
		t.Errorf("request URI = %q", got)
	}
	if rec.PlaceName != "Tokyo" || rec.CountryCode != "Japan" {
		t.Errorf("place = %q/%q", rec.PlaceName, rec.CountryCode)
	}
	if rec.TemperatureC != 25 || rec.FeelsLikeC != 27 || rec.HumidityPct != 62 {
		t.Errorf("temps/humidity = %v/%v/%v", rec.TemperatureC, rec.FeelsLikeC, rec.HumidityPct)
	}
	if rec.VisibilityMeters != 10000 {
		t.Errorf("VisibilityMeters = %d, want 10000", rec.VisibilityMeters)
	}
	if math.Abs(rec.WindSpeedMps-5.0) > 1e-9 {
		t.Errorf("WindSpeedMps = %v, want 5.0", rec.WindSpeedMps)
	}
	if rec.Description != "partly cloudy" || rec.Condition != weather.ConditionClouds {
		t.Errorf("description/condition = %q/%q", rec.Description, rec.Condition)
	}
	if rec.Source != "wttr" {
		t.Errorf("Source = %q", rec.Source)
	}
}

func TestWttrFetchFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"not json", http.StatusOK, "Unknown location; please try ~Nonexistentville", weather.ErrMalformedPayload},
		{"missing sections", http.StatusOK, `{"current_condition": []}`, weather.ErrMalformedPayload},
		{"bad number", http.StatusOK, `{
			"current_condition": [{"temp_C": "hot", "FeelsLikeC": "1", "humidity": "1", "visibility": "1",
				"windspeedKmph": "1", "weatherDesc": [{"value": "Sunny"}]}],
			"nearest_area": [{"areaName": [{"value": "X"}], "country": [{"value": "Y"}]}]
		}`, weather.ErrMalformedPayload},
		{"not found status", http.StatusNotFound, "", weather.ErrNetworkFailure},
		{"server error", http.StatusBadGateway, "", weather.ErrNetworkFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newFakeServer(t, tt.status, tt.body)
			p := NewWttrProvider(srv.Client(), srv.URL)

			_, err := p.Fetch(context.Background(), weather.ByName("Nonexistentville"))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if srv.hits.Load() != 1 {
				t.Errorf("hits = %d, want exactly one attempt", srv.hits.Load())
			}
		})
	}
}

func TestWttrTransportError(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, wttrTokyo)
	url := srv.URL
	srv.Close()

	p := NewWttrProvider(http.DefaultClient, url)
	if _, err := p.Fetch(context.Background(), weather.ByName("Tokyo")); !errors.Is(err, weather.ErrNetworkFailure) {
		t.Fatalf("err = %v, want network failure", err)
	}
}
