package weather

import (
	"strconv"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionClear        Condition = "Clear"
	ConditionClouds       Condition = "Clouds"
	ConditionRain         Condition = "Rain"
	ConditionDrizzle      Condition = "Drizzle"
	ConditionThunderstorm Condition = "Thunderstorm"
	ConditionSnow         Condition = "Snow"
	ConditionMist         Condition = "Mist"
	ConditionFog          Condition = "Fog"
	ConditionHaze         Condition = "Haze"
)

// Conditions lists every Condition value.
var Conditions = []Condition{
	ConditionClear,
	ConditionClouds,
	ConditionRain,
	ConditionDrizzle,
	ConditionThunderstorm,
	ConditionSnow,
	ConditionMist,
	ConditionFog,
	ConditionHaze,
}

// ParseCondition matches s against the known conditions exactly.
func ParseCondition(s string) (Condition, bool) {
	for _, c := range Conditions {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Query identifies the place to resolve: either a place name or a pair of
// coordinates. The zero value is an empty name query.
type Query struct {
	Name      string  `json:"name,omitempty"`
	Latitude  float64 `json:"lat,omitempty"`
	Longitude float64 `json:"lon,omitempty"`

	coords bool
}

// ByName builds a place-name query.
func ByName(name string) Query {
	return Query{Name: name}
}

// ByCoordinates builds a coordinate query.
func ByCoordinates(lat, lon float64) Query {
	return Query{Latitude: lat, Longitude: lon, coords: true}
}

// IsCoordinates reports whether q was built from coordinates.
func (q Query) IsCoordinates() bool {
	return q.coords
}

// String returns the place name, or "lat,lon" for coordinate queries.
func (q Query) String() string {
	if q.coords {
		return formatCoord(q.Latitude) + "," + formatCoord(q.Longitude)
	}
	return q.Name
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Record is the normalized current-weather view handed to renderers.
type Record struct {
	PlaceName        string    `json:"placeName"`
	CountryCode      string    `json:"countryCode"`
	TemperatureC     float64   `json:"temperatureC"`
	FeelsLikeC       float64   `json:"feelsLikeC"`
	HumidityPct      int       `json:"humidityPct"`
	Condition        Condition `json:"condition"`
	Description      string    `json:"description"` // lowercase
	VisibilityMeters int       `json:"visibilityMeters"`
	WindSpeedMps     float64   `json:"windSpeedMps"`

	// Source names the step that produced the record.
	Source string `json:"source"`
}

// Result is the outcome of one resolution. Advisory is set only for demo
// records.
type Result struct {
	Query     Query  `json:"query"`
	Record    Record `json:"record"`
	Demo      bool   `json:"demo"`
	Advisory  string `json:"advisory,omitempty"`
	RequestID string `json:"requestId"`
}
