package types

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks an invalid or contradictory environment definition.
	// Fatal at construction.
	ErrConfiguration = errors.New("configuration error")
	// ErrActionShape marks a raw action that does not exactly consume its declared space
	ErrActionShape = errors.New("action shape error")
)

// ConfigurationError is returned when the environment cannot be composed
type ConfigurationError struct {
	Agent  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Agent == "" {
		return fmt.Sprintf("%s: %s", ErrConfiguration, e.Reason)
	}
	return fmt.Sprintf("%s: agent %s: %s", ErrConfiguration, e.Agent, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// NewConfigurationError formats the reason
func NewConfigurationError(agent string, format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Agent: agent, Reason: fmt.Sprintf(format, args...)}
}

// ActionShapeError is returned when a policy output does not match the action space
type ActionShapeError struct {
	Agent    string
	Expected int
	Got      int
	Reason   string
}

func (e *ActionShapeError) Error() string {
	return fmt.Sprintf("%s: agent %s: %s (expected %d, got %d)", ErrActionShape, e.Agent, e.Reason, e.Expected, e.Got)
}

func (e *ActionShapeError) Unwrap() error {
	return ErrActionShape
}

// NewActionShapeError creates a new action shape error
func NewActionShapeError(agent string, expected, got int, reason string) *ActionShapeError {
	return &ActionShapeError{Agent: agent, Expected: expected, Got: got, Reason: reason}
}
