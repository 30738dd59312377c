package weather

import (
	"context"
)

// Step is one data source of the cascade (e.g. wttr.in, OpenWeatherMap, a relay list).
type Step interface {
	Name() string
	Fetch(ctx context.Context, q Query) (Record, error)
}

// MultiAttempt is implemented by steps that try several endpoints in turn.
// The cascade gives such a step one step timeout per attempt.
type MultiAttempt interface {
	Attempts() int
}

// Store persists the last resolved place name.
type Store interface {
	LastCity(ctx context.Context) (string, error)
	SaveLastCity(ctx context.Context, name string) error
}
