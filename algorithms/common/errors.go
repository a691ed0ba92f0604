package common

import (
	"errors"
	"fmt"
)

// ConfigError reports an invalid construction parameter. It is the only
// error the analyzers return; degenerate audio never fails.
type ConfigError struct {
	Param  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s=%v: %s", e.Param, e.Value, e.Reason)
}

// NewConfigError builds a ConfigError for param
func NewConfigError(param string, value any, reason string) error {
	return &ConfigError{Param: param, Value: value, Reason: reason}
}

// IsConfigError reports whether err wraps a ConfigError
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// RequirePositive fails with a ConfigError when value <= 0
func RequirePositive(param string, value int) error {
	if value <= 0 {
		return NewConfigError(param, value, "must be positive")
	}
	return nil
}
