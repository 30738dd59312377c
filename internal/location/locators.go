package location

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/kelvins/geocoder"
)

// StaticLocator always reports the same configured position.
type StaticLocator struct {
	Position Position
}

func (s StaticLocator) Locate(ctx context.Context) (Position, error) {
	if err := ctx.Err(); err != nil {
		return Position{}, fmt.Errorf("%w: %v", ErrPositionUnavailable, err)
	}
	return s.Position, nil
}

// geocoder keeps its API key in a package variable.
var geocoderMu sync.Mutex

// GeocoderLocator finds the device by geocoding its configured street
// address with the Google Geocoding API.
type GeocoderLocator struct {
	apiKey  string
	raw     string
	address geocoder.Address

	geocode func(geocoder.Address) (geocoder.Location, error)
	reverse func(geocoder.Location) ([]geocoder.Address, error)
}

// NewGeocoderLocator creates a GeocoderLocator for a free-form address such
// as "Baker Street 221, London, United Kingdom".
func NewGeocoderLocator(apiKey, address string) *GeocoderLocator {
	return &GeocoderLocator{
		apiKey:  apiKey,
		raw:     address,
		address: parseAddress(address),
		geocode: geocoder.Geocoding,
		reverse: geocoder.GeocodingReverse,
	}
}

func (g *GeocoderLocator) Locate(ctx context.Context) (Position, error) {
	if g.apiKey == "" {
		return Position{}, ErrGeolocationUnsupported
	}
	if err := ctx.Err(); err != nil {
		return Position{}, fmt.Errorf("%w: %v", ErrPositionUnavailable, err)
	}

	geocoderMu.Lock()
	geocoder.ApiKey = g.apiKey
	loc, err := g.geocode(g.address)
	geocoderMu.Unlock()
	if err != nil {
		return Position{}, classifyGeocoderError(err)
	}
	if loc.Latitude == 0 && loc.Longitude == 0 {
		return Position{}, fmt.Errorf("%w: no results for %q", ErrPositionUnavailable, g.raw)
	}
	return Position{Latitude: loc.Latitude, Longitude: loc.Longitude}, nil
}

// PlaceName resolves a position back to a city name, used for logging.
func (g *GeocoderLocator) PlaceName(pos Position) (string, error) {
	if g.apiKey == "" {
		return "", ErrGeolocationUnsupported
	}

	geocoderMu.Lock()
	geocoder.ApiKey = g.apiKey
	addrs, err := g.reverse(geocoder.Location{Latitude: pos.Latitude, Longitude: pos.Longitude})
	geocoderMu.Unlock()
	if err != nil {
		return "", classifyGeocoderError(err)
	}
	for _, a := range addrs {
		if a.City != "" {
			return a.City, nil
		}
	}
	return "", ErrPositionUnavailable
}

// classifyGeocoderError maps Google Geocoding status strings onto resolver errors.
func classifyGeocoderError(err error) error {
	msg := strings.ToUpper(err.Error())
	switch {
	case strings.Contains(msg, "REQUEST_DENIED"), strings.Contains(msg, "OVER_QUERY_LIMIT"),
		strings.Contains(msg, "OVER_DAILY_LIMIT"):
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	case strings.Contains(msg, "ZERO_RESULTS"), strings.Contains(msg, "EMPTY"),
		strings.Contains(msg, "INVALID_REQUEST"):
		return fmt.Errorf("%w: %v", ErrPositionUnavailable, err)
	default:
		return fmt.Errorf("geocoding: %w", err)
	}
}

// parseAddress splits "street number, city, [state,] country" into the
// geocoder's address fields. Anything it cannot place goes into Street.
func parseAddress(s string) geocoder.Address {
	var parts []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	var a geocoder.Address
	switch len(parts) {
	case 0:
	case 1:
		a.City = parts[0]
	case 2:
		a.City, a.Country = parts[0], parts[1]
	case 3:
		a.Street, a.City, a.Country = parts[0], parts[1], parts[2]
	default:
		a.Street = strings.Join(parts[:len(parts)-3], ", ")
		a.City = parts[len(parts)-3]
		a.State = parts[len(parts)-2]
		a.Country = parts[len(parts)-1]
	}
	return a
}
