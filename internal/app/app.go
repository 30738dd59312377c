package app

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/i474232898/weathercast/internal/location"
	"github.com/i474232898/weathercast/internal/render"
	"github.com/i474232898/weathercast/internal/weather"
)

// ErrSuperseded is returned when a newer request started before this one finished.
var ErrSuperseded = errors.New("request superseded by a newer one")

// App is an interactive session: it owns one resolver, one service and one
// renderer. Starting a request cancels the one in flight.
type App struct {
	resolver *location.Resolver
	service  *weather.Service
	renderer render.Renderer

	mu       sync.Mutex
	seq      uint64
	cancel   context.CancelFunc
	last     weather.Query
	haveLast bool
}

// New creates an App.
func New(resolver *location.Resolver, service *weather.Service, renderer render.Renderer) *App {
	return &App{
		resolver: resolver,
		service:  service,
		renderer: renderer,
	}
}

// Start resolves the stored (or default) city and renders it.
func (a *App) Start(ctx context.Context) (weather.Result, error) {
	return a.run(ctx, a.service.InitialQuery(ctx))
}

// Search resolves typed text. Blank input is reported to the renderer and
// returned as location.ErrEmptyInput.
func (a *App) Search(ctx context.Context, raw string) (weather.Result, error) {
	q, err := a.resolver.FromUserInput(raw)
	if err != nil {
		a.showError(location.Message(err))
		return weather.Result{}, err
	}
	return a.run(ctx, q)
}

// Locate resolves the device position.
func (a *App) Locate(ctx context.Context) (weather.Result, error) {
	q, err := a.resolver.FromDevice(ctx)
	if err != nil {
		log.Printf("DEBUG: app: locating device: %v", err)
		a.showError(location.Message(err))
		return weather.Result{}, err
	}
	return a.run(ctx, q)
}

// Refresh re-resolves the last rendered query, or the initial one if nothing
// was rendered yet.
func (a *App) Refresh(ctx context.Context) (weather.Result, error) {
	a.mu.Lock()
	q, ok := a.last, a.haveLast
	a.mu.Unlock()
	if !ok {
		return a.Start(ctx)
	}
	return a.run(ctx, q)
}

func (a *App) run(ctx context.Context, q weather.Query) (weather.Result, error) {
	ctx, cancel, seq := a.begin(ctx)
	defer cancel()

	res := a.service.Lookup(ctx, q)

	a.mu.Lock()
	defer a.mu.Unlock()
	if seq != a.seq {
		log.Printf("DEBUG: app: dropping result %s for %q: superseded", res.RequestID, q.String())
		return weather.Result{}, ErrSuperseded
	}
	a.cancel = nil
	a.last, a.haveLast = q, true
	a.service.Remember(ctx, res.Record.PlaceName)

	if err := a.renderer.Render(res); err != nil {
		log.Printf("ERROR: app: rendering %s: %v", res.RequestID, err)
	}
	return res, nil
}

// begin cancels the request in flight and registers a new one.
func (a *App) begin(parent context.Context) (context.Context, context.CancelFunc, uint64) {
	ctx, cancel := context.WithCancel(parent)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
	}
	a.seq++
	a.cancel = cancel
	return ctx, cancel, a.seq
}

func (a *App) showError(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.renderer.Error(msg); err != nil {
		log.Printf("ERROR: app: rendering error message: %v", err)
	}
}
