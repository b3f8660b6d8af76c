package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Lookup errors
	ErrNotFound      = errors.New("resource not found")
	ErrUnknownTest   = fmt.Errorf("%w: test", ErrNotFound)
	ErrUnknownMethod = fmt.Errorf("%w: effect size method", ErrNotFound)

	// Configuration errors indicate a broken registry, never bad user input
	ErrConfiguration       = errors.New("invalid test configuration")
	ErrUndeclaredParameter = fmt.Errorf("%w: undeclared parameter", ErrConfiguration)
	ErrMissingCallback     = fmt.Errorf("%w: missing callback", ErrConfiguration)

	// Numerical errors raised by power routines
	ErrOutOfDomain = errors.New("parameter outside numerical domain")
)

// NewUnknownTestError reports a test id that is not in the registry.
func NewUnknownTestError(id string) error {
	return fmt.Errorf("%w: %q", ErrUnknownTest, id)
}

// NewUnknownMethodError reports an effect size method not declared by a test.
func NewUnknownMethodError(testID, method string) error {
	return fmt.Errorf("%w: %q is not declared by test %q", ErrUnknownMethod, method, testID)
}

// NewConfigurationError reports a registry entry that fails its self-check.
func NewConfigurationError(testID string, reason string) error {
	return fmt.Errorf("%w: test %q: %s", ErrConfiguration, testID, reason)
}

// NewDomainError reports a power routine argument outside its domain.
func NewDomainError(name string, value float64) error {
	return fmt.Errorf("%w: %s=%g", ErrOutOfDomain, name, value)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func IsDomainError(err error) bool {
	return errors.Is(err, ErrOutOfDomain)
}
