package location

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/i474232898/weathercast/internal/weather"
)

var (
	// ErrEmptyInput is returned when a typed place name is blank after cleanup.
	ErrEmptyInput = errors.New("empty input")
	// ErrPermissionDenied is returned when the locator refuses to report a position.
	ErrPermissionDenied = errors.New("location permission denied")
	// ErrPositionUnavailable is returned when the locator cannot get a fix.
	ErrPositionUnavailable = errors.New("position unavailable")
	// ErrGeolocationUnsupported is returned when no locator is configured.
	ErrGeolocationUnsupported = errors.New("geolocation unsupported")
)

// nonNameChars matches everything a place name may not contain.
var nonNameChars = regexp.MustCompile(`[^\p{L}\s]`)

// Position is a single location fix.
type Position struct {
	Latitude  float64
	Longitude float64
}

// Locator reports the device position. Implementations return
// ErrPermissionDenied or ErrPositionUnavailable for the matching failures.
type Locator interface {
	Locate(ctx context.Context) (Position, error)
}

// Sanitize strips characters that are not letters or whitespace and trims the result.
func Sanitize(raw string) string {
	return strings.TrimSpace(nonNameChars.ReplaceAllString(raw, ""))
}

// FromUserInput turns typed text into a place-name query.
func FromUserInput(raw string) (weather.Query, error) {
	name := Sanitize(raw)
	if name == "" {
		return weather.Query{}, ErrEmptyInput
	}
	return weather.ByName(name), nil
}

// placeNamer is implemented by locators that can name a position.
type placeNamer interface {
	PlaceName(pos Position) (string, error)
}

// Resolver produces queries from the device position.
type Resolver struct {
	locator Locator
}

// NewResolver creates a Resolver. A nil locator makes FromDevice report
// ErrGeolocationUnsupported.
func NewResolver(locator Locator) *Resolver {
	return &Resolver{locator: locator}
}

// FromUserInput is a convenience wrapper around the package-level FromUserInput.
func (r *Resolver) FromUserInput(raw string) (weather.Query, error) {
	return FromUserInput(raw)
}

// FromDevice asks the locator for one fix. There is no retry.
func (r *Resolver) FromDevice(ctx context.Context) (weather.Query, error) {
	if r == nil || r.locator == nil {
		return weather.Query{}, ErrGeolocationUnsupported
	}
	pos, err := r.locator.Locate(ctx)
	if err != nil {
		if isKnown(err) {
			return weather.Query{}, err
		}
		return weather.Query{}, fmt.Errorf("locating device: %w", err)
	}
	if n, ok := r.locator.(placeNamer); ok {
		if name, err := n.PlaceName(pos); err == nil {
			log.Printf("INFO: location: device is near %s", name)
		}
	}
	return weather.ByCoordinates(pos.Latitude, pos.Longitude), nil
}

func isKnown(err error) bool {
	return errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrPositionUnavailable) ||
		errors.Is(err, ErrGeolocationUnsupported)
}

// Message returns the text shown to the user for a resolver error.
func Message(err error) string {
	const prefix = "Unable to get your location. "
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyInput):
		return "Please enter a city name"
	case errors.Is(err, ErrGeolocationUnsupported):
		return "Geolocation is not supported on this device"
	case errors.Is(err, ErrPermissionDenied):
		return prefix + "Please allow location access or try searching for a city."
	case errors.Is(err, ErrPositionUnavailable):
		return prefix + "Location information is unavailable. Please try searching for a city."
	default:
		return prefix + "Please try searching for a city."
	}
}
