package providers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/i474232898/weathercast/internal/common"
	"github.com/i474232898/weathercast/internal/weather"
)

// DefaultRelays are public CORS relays; each is a prefix for an escaped URL.
var DefaultRelays = []string{
	"https://api.allorigins.win/raw?url=",
	"https://cors-anywhere.herokuapp.com/",
	"https://thingproxy.freeboard.io/fetch/",
}

type relay struct {
	base    string
	httpCfg HTTPClientConfig
}

// OpenWeatherRelay implements weather.Step by calling OpenWeatherMap through
// a list of relays, in order, until one returns a usable payload.
type OpenWeatherRelay struct {
	name     string
	upstream *OpenWeatherProvider
	relays   []relay
}

// NewOpenWeatherRelay creates the relay step. A nil bases list selects
// DefaultRelays.
func NewOpenWeatherRelay(client *http.Client, upstream *OpenWeatherProvider, bases []string) *OpenWeatherRelay {
	if bases == nil {
		bases = DefaultRelays
	}
	relays := make([]relay, 0, len(bases))
	for _, b := range bases {
		relays = append(relays, relay{
			base: b,
			httpCfg: HTTPClientConfig{
				Client:  client,
				Circuit: newCircuit("relay " + b),
			},
		})
	}
	return &OpenWeatherRelay{
		name:     "openweather-relay",
		upstream: upstream,
		relays:   relays,
	}
}

func (r *OpenWeatherRelay) Name() string {
	return r.name
}

// URL returns the request URL for q through the relay at base.
func (r *OpenWeatherRelay) URL(base string, q weather.Query) string {
	return base + common.EscapeComponent(r.upstream.URL(q))
}

// Fetch records each relay's failure and moves on; only exhaustion of the
// list fails the step. The returned error joins every relay failure.
func (r *OpenWeatherRelay) Fetch(ctx context.Context, q weather.Query) (weather.Record, error) {
	if r.upstream.apiKey == "" {
		return weather.Record{}, fmt.Errorf("%w: openweather api key is not configured", weather.ErrProviderUnauthorized)
	}
	if len(r.relays) == 0 {
		return weather.Record{}, fmt.Errorf("%w: no relays configured", weather.ErrNetworkFailure)
	}

	var errs []error
	for i, rl := range r.relays {
		log.Printf("DEBUG: relay: trying %s for %q", rl.base, q.String())
		attemptCtx, cancel := attemptContext(ctx, len(r.relays)-i)
		rec, err := r.upstream.fetch(attemptCtx, rl.httpCfg, r.URL(rl.base, q))
		cancel()
		if err == nil {
			rec.Source = r.name
			return rec, nil
		}
		log.Printf("DEBUG: relay: %s failed for %q: %v", rl.base, q.String(), err)
		errs = append(errs, fmt.Errorf("relay %s: %w", rl.base, err))
	}
	return weather.Record{}, errors.Join(errs...)
}

// Attempts reports one attempt per relay.
func (r *OpenWeatherRelay) Attempts() int {
	return len(r.relays)
}

// attemptContext gives the next attempt an equal share of what is left of
// ctx's deadline, so a hung relay cannot starve the ones after it.
func attemptContext(ctx context.Context, remaining int) (context.Context, context.CancelFunc) {
	deadline, ok := ctx.Deadline()
	if !ok || remaining <= 1 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Until(deadline)/time.Duration(remaining))
}
