package weather

import (
	"errors"
	"fmt"
)

// DemoSource is the Record.Source of the canned fallback record.
const DemoSource = "demo"

// DemoRecord returns the fixed record shown when no provider answered.
func DemoRecord() Record {
	return Record{
		PlaceName:        "London",
		CountryCode:      "GB",
		TemperatureC:     15,
		FeelsLikeC:       13,
		HumidityPct:      75,
		Condition:        ConditionClouds,
		Description:      "partly cloudy",
		VisibilityMeters: 10000,
		WindSpeedMps:     3.5,
		Source:           DemoSource,
	}
}

// advisory explains why the demo record is shown. Not-found wins over
// unauthorized, which wins over the generic message.
func advisory(q Query, failure error) string {
	place := fmt.Sprintf("%q", q.Name)
	if q.IsCoordinates() {
		place = "your location"
	}

	switch {
	case errors.Is(failure, ErrCityNotFound) && !q.IsCoordinates():
		return fmt.Sprintf("City %s not found. Showing demo data instead. "+
			"Try searching for major cities like: New York, London, Paris, Tokyo", place)
	case errors.Is(failure, ErrProviderUnauthorized):
		return fmt.Sprintf("Weather provider rejected the API key. Showing demo data for %s.", place)
	default:
		return fmt.Sprintf("Using demo data for %s. Live weather data is currently unavailable.", place)
	}
}
