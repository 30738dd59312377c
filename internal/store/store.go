package store

import (
	"fmt"

	"github.com/i474232898/weathercast/internal/weather"
)

// Closer is a weather.Store that holds resources.
type Closer interface {
	weather.Store
	Close() error
}

// Open returns the store selected by driver: "memory" or "sqlite".
func Open(driver, path string) (Closer, error) {
	switch driver {
	case "memory":
		return NewMemoryStore(), nil
	case "sqlite", "":
		return NewSQLite(path)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
