package common

import "fmt"

// ConfigError rejects caller input before any state is touched; the caller
// can always recover by correcting the value.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}
