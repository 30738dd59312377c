package weather

import "errors"

// Failure reasons reported by cascade steps. They never escape Cascade.Resolve.
var (
	ErrCityNotFound         = errors.New("city not found")
	ErrProviderUnauthorized = errors.New("provider rejected credentials")
	ErrProviderGeneric      = errors.New("provider error")
	ErrNetworkFailure       = errors.New("network failure")
	ErrMalformedPayload     = errors.New("malformed payload")
)
