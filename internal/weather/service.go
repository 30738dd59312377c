package weather

import (
	"context"
	"log"
	"strings"
)

// DefaultCity seeds the first resolution when nothing was stored yet.
const DefaultCity = "London"

// Service runs the cascade and remembers the last resolved place.
type Service struct {
	cascade     *Cascade
	store       Store
	defaultCity string
}

// NewService creates a new Service. An empty defaultCity selects DefaultCity.
func NewService(cascade *Cascade, store Store, defaultCity string) *Service {
	if strings.TrimSpace(defaultCity) == "" {
		defaultCity = DefaultCity
	}
	return &Service{
		cascade:     cascade,
		store:       store,
		defaultCity: defaultCity,
	}
}

// Resolve resolves q and stores the resulting place name, demo results included.
func (s *Service) Resolve(ctx context.Context, q Query) Result {
	res := s.Lookup(ctx, q)
	s.Remember(ctx, res.Record.PlaceName)
	return res
}

// Lookup resolves q without touching the store.
func (s *Service) Lookup(ctx context.Context, q Query) Result {
	return s.cascade.Resolve(ctx, q)
}

// InitialQuery returns the query for the automatic first request: the stored
// place name if any, the default city otherwise.
func (s *Service) InitialQuery(ctx context.Context) Query {
	if s.store == nil {
		return ByName(s.defaultCity)
	}
	name, err := s.store.LastCity(ctx)
	if err != nil {
		log.Printf("ERROR: reading last searched city: %v", err)
		return ByName(s.defaultCity)
	}
	if strings.TrimSpace(name) == "" {
		return ByName(s.defaultCity)
	}
	return ByName(name)
}

// Remember stores name as the last searched city. Failures are only logged.
func (s *Service) Remember(ctx context.Context, name string) {
	if s.store == nil || name == "" {
		return
	}
	// The caller's context may already be done once the cascade returns.
	if err := s.store.SaveLastCity(context.WithoutCancel(ctx), name); err != nil {
		log.Printf("ERROR: saving last searched city %q: %v", name, err)
	}
}
