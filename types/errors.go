package types

import (
	"errors"
	"fmt"
)

// ErrIndexUnavailable marks a missing collection or unreachable index.
// Callers on the query path treat it as "no context", not as a failure.
var ErrIndexUnavailable = errors.New("vector index unavailable")

// ConfigError is fatal: it is returned from constructors before any data
// is processed, never lazily on first use.
type ConfigError struct {
	Key string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", e.Key)
}

func NewConfigError(key string) ConfigError {
	return ConfigError{Key: key}
}
