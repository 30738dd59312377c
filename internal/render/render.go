package render

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/i474232898/weathercast/internal/common"
	"github.com/i474232898/weathercast/internal/weather"
)

// Icon returns the icon class for c. Unknown conditions get a generic icon.
func Icon(c weather.Condition) string {
	switch c {
	case weather.ConditionClear:
		return "fas fa-sun"
	case weather.ConditionClouds:
		return "fas fa-cloud"
	case weather.ConditionRain:
		return "fas fa-cloud-rain"
	case weather.ConditionDrizzle:
		return "fas fa-cloud-drizzle"
	case weather.ConditionThunderstorm:
		return "fas fa-bolt"
	case weather.ConditionSnow:
		return "fas fa-snowflake"
	case weather.ConditionMist, weather.ConditionFog, weather.ConditionHaze:
		return "fas fa-smog"
	default:
		return "fas fa-cloud-sun"
	}
}

// Color returns the accent color for c.
func Color(c weather.Condition) string {
	switch c {
	case weather.ConditionThunderstorm:
		return "#ff006e"
	case weather.ConditionSnow:
		return "#8338ec"
	default:
		return "#00d4ff"
	}
}

// Theme returns the background theme class for c.
func Theme(c weather.Condition) string {
	switch c {
	case weather.ConditionClear:
		return "sunny"
	case weather.ConditionRain, weather.ConditionDrizzle:
		return "rainy"
	case weather.ConditionThunderstorm:
		return "stormy"
	case weather.ConditionSnow:
		return "snowy"
	default:
		return "cloudy"
	}
}

// Presentation bundles the visual attributes of a record.
type Presentation struct {
	Icon  string `json:"icon"`
	Color string `json:"color"`
	Theme string `json:"theme"`
}

func PresentationFor(c weather.Condition) Presentation {
	return Presentation{Icon: Icon(c), Color: Color(c), Theme: Theme(c)}
}

// Hint appends a suggestion to an advisory or error message.
func Hint(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "not found") && !strings.Contains(lower, "try searching"):
		return message + "\n\nTry searching for major cities like: New York, London, Paris, Tokyo"
	case common.HasAny(lower, "network", "cors", "live weather data"):
		return message + "\n\nCheck your network connection or provider settings and try again."
	default:
		return message
	}
}

// Renderer displays results and user-facing errors.
type Renderer interface {
	Render(res weather.Result) error
	Error(message string) error
}

// Text writes a plain-text weather card.
type Text struct {
	W io.Writer
}

func (t Text) Render(res weather.Result) error {
	r := res.Record
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s, %s\n", r.PlaceName, r.CountryCode)
	sb.WriteString(strings.Repeat("=", 40) + "\n")
	fmt.Fprintf(&sb, "Temperature: %d°C\n", int(math.Round(r.TemperatureC)))
	fmt.Fprintf(&sb, "Conditions:  %s (%s)\n", r.Description, r.Condition)
	fmt.Fprintf(&sb, "Visibility:  %.1f km\n", float64(r.VisibilityMeters)/1000)
	fmt.Fprintf(&sb, "Humidity:    %d%%\n", r.HumidityPct)
	fmt.Fprintf(&sb, "Wind:        %.1f m/s\n", r.WindSpeedMps)
	fmt.Fprintf(&sb, "Feels like:  %d°C\n", int(math.Round(r.FeelsLikeC)))
	fmt.Fprintf(&sb, "Source:      %s\n", r.Source)
	if res.Advisory != "" {
		sb.WriteString("\n! " + Hint(res.Advisory) + "\n")
	}
	_, err := io.WriteString(t.W, sb.String())
	return err
}

func (t Text) Error(message string) error {
	_, err := fmt.Fprintf(t.W, "! %s\n", Hint(message))
	return err
}

// JSON writes each result as an indented JSON document.
type JSON struct {
	W io.Writer
}

type jsonResult struct {
	weather.Result
	Presentation Presentation `json:"presentation"`
}

func (j JSON) Render(res weather.Result) error {
	data, err := json.MarshalIndent(jsonResult{Result: res, Presentation: PresentationFor(res.Record.Condition)}, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(j.W, string(data))
	return err
}

func (j JSON) Error(message string) error {
	data, err := json.Marshal(map[string]any{"error": true, "message": message})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(j.W, string(data))
	return err
}
