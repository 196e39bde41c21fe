package domain

import (
	"errors"
	"fmt"
)

// ErrConfiguration marks algorithm-authoring misuse. It is fatal and is expected to be
// caught while writing an exercise, never at learner runtime.
var ErrConfiguration = errors.New("configuration error")

// ErrValidation is returned by hosts when a learner action does not match the pending step.
var ErrValidation = errors.New("action does not match the expected step")

// ErrDanglingAddr is the panic value used when an address whose target path was removed is dereferenced.
var ErrDanglingAddr = errors.New("dereferenced address of a removed path")

// ErrTerminated is returned when an action is submitted after the routine finished.
var ErrTerminated = errors.New("trace terminated")

// ErrNotStarted is returned when the engine is used before Start or Restore.
var ErrNotStarted = errors.New("trace not started")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrUnknownExercise is returned when no routine is registered under a name.
var ErrUnknownExercise = errors.New("unknown exercise")

// ConfigurationError builds an error wrapping ErrConfiguration.
func ConfigurationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}
