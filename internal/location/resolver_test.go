package location

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestFromUserInput(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr error
	}{
		{raw: "  Paris ", want: "Paris"},
		{raw: "New York", want: "New York"},
		{raw: "São Paulo", want: "São Paulo"},
		{raw: "Paris, FR!", want: "Paris FR"},
		{raw: "", wantErr: ErrEmptyInput},
		{raw: "   ", wantErr: ErrEmptyInput},
		{raw: "123", wantErr: ErrEmptyInput},
		{raw: "<script>", want: "script"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			q, err := FromUserInput(tt.raw)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if q.IsCoordinates() || q.Name != tt.want {
				t.Errorf("query = %+v, want name %q", q, tt.want)
			}
		})
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	for _, raw := range []string{" Rio de Janeiro ", "Zürich#1", "\tOslo\n", "東京"} {
		once := Sanitize(raw)
		if twice := Sanitize(once); twice != once {
			t.Errorf("Sanitize(%q) = %q, again %q", raw, once, twice)
		}
	}
}

type locatorFunc func(ctx context.Context) (Position, error)

func (f locatorFunc) Locate(ctx context.Context) (Position, error) { return f(ctx) }

func TestFromDevice(t *testing.T) {
	otherErr := errors.New("gps chip on fire")

	tests := []struct {
		name    string
		locator Locator
		wantErr error
		wantMsg string
	}{
		{"no locator", nil, ErrGeolocationUnsupported, "Geolocation is not supported on this device"},
		{"denied", locatorFunc(func(context.Context) (Position, error) {
			return Position{}, ErrPermissionDenied
		}), ErrPermissionDenied, "Please allow location access"},
		{"unavailable", locatorFunc(func(context.Context) (Position, error) {
			return Position{}, ErrPositionUnavailable
		}), ErrPositionUnavailable, "Location information is unavailable"},
		{"other", locatorFunc(func(context.Context) (Position, error) {
			return Position{}, otherErr
		}), otherErr, "Unable to get your location. Please try searching for a city."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewResolver(tt.locator).FromDevice(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if msg := Message(err); !strings.Contains(msg, tt.wantMsg) {
				t.Errorf("Message = %q, want it to contain %q", msg, tt.wantMsg)
			}
		})
	}
}

func TestFromDeviceStatic(t *testing.T) {
	r := NewResolver(StaticLocator{Position: Position{Latitude: 48.8566, Longitude: 2.3522}})

	q, err := r.FromDevice(context.Background())
	if err != nil {
		t.Fatalf("FromDevice: %v", err)
	}
	if !q.IsCoordinates() || q.Latitude != 48.8566 || q.Longitude != 2.3522 {
		t.Errorf("query = %+v", q)
	}
}

func TestStaticLocatorCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := StaticLocator{}.Locate(ctx)
	if !errors.Is(err, ErrPositionUnavailable) {
		t.Errorf("err = %v, want unavailable", err)
	}
}

func TestMessage(t *testing.T) {
	if got := Message(nil); got != "" {
		t.Errorf("Message(nil) = %q", got)
	}
	if got := Message(ErrEmptyInput); got != "Please enter a city name" {
		t.Errorf("Message(empty) = %q", got)
	}
}
