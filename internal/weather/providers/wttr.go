package providers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/i474232898/weathercast/internal/common"
	"github.com/i474232898/weathercast/internal/weather"
)

// DefaultWttrBaseURL is the public wttr.in endpoint.
const DefaultWttrBaseURL = "https://wttr.in"

// WttrProvider implements weather.Step for wttr.in's j1 JSON format. It needs
// no credentials.
type WttrProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
}

func NewWttrProvider(client *http.Client, baseURL string) *WttrProvider {
	if baseURL == "" {
		baseURL = DefaultWttrBaseURL
	}
	return &WttrProvider{
		name:    "wttr",
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: HTTPClientConfig{
			Client:  client,
			Circuit: newCircuit("wttr"),
		},
	}
}

func (p *WttrProvider) Name() string {
	return p.name
}

// URL returns the request URL for q.
func (p *WttrProvider) URL(q weather.Query) string {
	target := common.EscapeComponent(q.Name)
	if q.IsCoordinates() {
		target = q.String()
	}
	return fmt.Sprintf("%s/%s?format=j1", p.baseURL, target)
}

func (p *WttrProvider) Fetch(ctx context.Context, q weather.Query) (weather.Record, error) {
	resp, err := doRequest(ctx, p.httpCfg, p.URL(q))
	if err != nil {
		return weather.Record{}, err
	}
	if !isSuccess(resp.StatusCode) {
		resp.Body.Close()
		return weather.Record{}, fmt.Errorf("%w: %w: %d", weather.ErrNetworkFailure, errUnexpected, resp.StatusCode)
	}

	body, err := readBody(resp)
	if err != nil {
		return weather.Record{}, err
	}

	var payload wttrPayload
	if err := decodeJSON(body, &payload); err != nil {
		return weather.Record{}, err
	}

	rec, err := payload.normalize()
	if err != nil {
		return weather.Record{}, err
	}
	rec.Source = p.name
	return rec, nil
}

type wttrValue struct {
	Value string `json:"value"`
}

type wttrPayload struct {
	NearestArea []struct {
		AreaName []wttrValue `json:"areaName"`
		Country  []wttrValue `json:"country"`
	} `json:"nearest_area"`
	CurrentCondition []struct {
		TempC         string      `json:"temp_C"`
		FeelsLikeC    string      `json:"FeelsLikeC"`
		Humidity      string      `json:"humidity"`
		Visibility    string      `json:"visibility"` // km
		WindspeedKmph string      `json:"windspeedKmph"`
		WeatherDesc   []wttrValue `json:"weatherDesc"`
	} `json:"current_condition"`
}

// normalize converts the payload into a Record: visibility km -> m,
// wind km/h -> m/s.
func (w wttrPayload) normalize() (weather.Record, error) {
	if len(w.NearestArea) == 0 || len(w.CurrentCondition) == 0 {
		return weather.Record{}, fmt.Errorf("%w: missing nearest_area or current_condition", weather.ErrMalformedPayload)
	}
	area := w.NearestArea[0]
	cur := w.CurrentCondition[0]
	if len(area.AreaName) == 0 || len(cur.WeatherDesc) == 0 {
		return weather.Record{}, fmt.Errorf("%w: missing areaName or weatherDesc", weather.ErrMalformedPayload)
	}

	var country string
	if len(area.Country) > 0 {
		country = area.Country[0].Value
	}

	temp, err := parseFloat("temp_C", cur.TempC)
	if err != nil {
		return weather.Record{}, err
	}
	feels, err := parseFloat("FeelsLikeC", cur.FeelsLikeC)
	if err != nil {
		return weather.Record{}, err
	}
	humidity, err := parseInt("humidity", cur.Humidity)
	if err != nil {
		return weather.Record{}, err
	}
	visibilityKm, err := parseInt("visibility", cur.Visibility)
	if err != nil {
		return weather.Record{}, err
	}
	windKmph, err := parseFloat("windspeedKmph", cur.WindspeedKmph)
	if err != nil {
		return weather.Record{}, err
	}

	desc := cur.WeatherDesc[0].Value
	return weather.Record{
		PlaceName:        area.AreaName[0].Value,
		CountryCode:      country,
		TemperatureC:     temp,
		FeelsLikeC:       feels,
		HumidityPct:      humidity,
		Condition:        weather.Classify(desc),
		Description:      strings.ToLower(strings.TrimSpace(desc)),
		VisibilityMeters: visibilityKm * 1000,
		WindSpeedMps:     windKmph / 3.6,
	}, nil
}

func parseFloat(field, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s=%q is not a number", weather.ErrMalformedPayload, field, s)
	}
	return v, nil
}

func parseInt(field, s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", weather.ErrMalformedPayload, field, s)
	}
	return v, nil
}
