package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/i474232898/weathercast/internal/common"
	"github.com/i474232898/weathercast/internal/weather"
)

// DefaultOpenWeatherBaseURL is the OpenWeatherMap current-weather endpoint.
const DefaultOpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// OpenWeatherProvider implements weather.Step for OpenWeatherMap, called
// directly.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
}

func NewOpenWeatherProvider(client *http.Client, baseURL, apiKey string) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherBaseURL
	}
	return &OpenWeatherProvider{
		name:    "openweather",
		apiKey:  apiKey,
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Circuit: newCircuit("openweather"),
		},
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// URL returns the request URL for q, credentials included.
func (p *OpenWeatherProvider) URL(q weather.Query) string {
	var sb strings.Builder
	sb.WriteString(p.baseURL)
	sb.WriteString("?")
	if q.IsCoordinates() {
		sb.WriteString("lat=" + strconv.FormatFloat(q.Latitude, 'f', -1, 64))
		sb.WriteString("&lon=" + strconv.FormatFloat(q.Longitude, 'f', -1, 64))
	} else {
		sb.WriteString("q=" + common.EscapeComponent(q.Name))
	}
	sb.WriteString("&appid=" + common.EscapeComponent(p.apiKey))
	sb.WriteString("&units=metric")
	return sb.String()
}

func (p *OpenWeatherProvider) Fetch(ctx context.Context, q weather.Query) (weather.Record, error) {
	if p.apiKey == "" {
		return weather.Record{}, fmt.Errorf("%w: openweather api key is not configured", weather.ErrProviderUnauthorized)
	}
	rec, err := p.fetch(ctx, p.httpCfg, p.URL(q))
	if err != nil {
		return weather.Record{}, err
	}
	rec.Source = p.name
	return rec, nil
}

// fetch calls rawURL, which is either the provider URL or a relay wrapping it,
// and checks both the HTTP status and the payload's cod field.
func (p *OpenWeatherProvider) fetch(ctx context.Context, cfg HTTPClientConfig, rawURL string) (weather.Record, error) {
	resp, err := doRequest(ctx, cfg, rawURL)
	if err != nil {
		return weather.Record{}, err
	}
	status := resp.StatusCode

	body, err := readBody(resp)
	if err != nil {
		return weather.Record{}, err
	}

	if !isSuccess(status) {
		// OpenWeatherMap explains 401/404 in the body; relays usually don't.
		var st owmStatus
		if json.Unmarshal(body, &st) == nil && st.Cod != 0 {
			return weather.Record{}, st.err()
		}
		return weather.Record{}, fmt.Errorf("%w: %w: %d", weather.ErrNetworkFailure, errUnexpected, status)
	}

	var payload owmPayload
	if err := decodeJSON(body, &payload); err != nil {
		return weather.Record{}, err
	}
	if payload.Cod != http.StatusOK {
		return weather.Record{}, payload.owmStatus.err()
	}
	return payload.normalize()
}

// owmCode accepts both 200 and "404": the API sends cod as a number on
// success and as a string on errors.
type owmCode int

func (c *owmCode) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*c = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("cod %q is not numeric", s)
	}
	*c = owmCode(n)
	return nil
}

type owmStatus struct {
	Cod     owmCode `json:"cod"`
	Message string  `json:"message"`
}

func (s owmStatus) err() error {
	switch s.Cod {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", weather.ErrCityNotFound, s.Message)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", weather.ErrProviderUnauthorized, s.Message)
	default:
		msg := s.Message
		if msg == "" {
			msg = "Unknown error"
		}
		return fmt.Errorf("%w: cod %d: %s", weather.ErrProviderGeneric, int(s.Cod), msg)
	}
}

type owmPayload struct {
	owmStatus
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Visibility int `json:"visibility"` // meters
	Wind       struct {
		Speed float64 `json:"speed"` // m/s with units=metric
	} `json:"wind"`
}

// normalize passes fields through; units=metric already matches Record.
func (o owmPayload) normalize() (weather.Record, error) {
	if len(o.Weather) == 0 {
		return weather.Record{}, fmt.Errorf("%w: empty weather list", weather.ErrMalformedPayload)
	}
	w := o.Weather[0]

	cond, ok := weather.ParseCondition(w.Main)
	if !ok {
		cond = weather.Classify(w.Description)
	}

	return weather.Record{
		PlaceName:        o.Name,
		CountryCode:      o.Sys.Country,
		TemperatureC:     o.Main.Temp,
		FeelsLikeC:       o.Main.FeelsLike,
		HumidityPct:      o.Main.Humidity,
		Condition:        cond,
		Description:      strings.ToLower(w.Description),
		VisibilityMeters: o.Visibility,
		WindSpeedMps:     o.Wind.Speed,
	}, nil
}
