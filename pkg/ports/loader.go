package ports

import "github.com/aretw0/tracer/pkg/sim"

// ExerciseLoader defines how hosts retrieve exercise routines by name.
// This allows the catalog (built-ins, plugins, test fixtures) to be decoupled.
type ExerciseLoader interface {
	// Routine returns the routine registered under name.
	// It returns domain.ErrUnknownExercise if there is none.
	Routine(name string) (sim.Routine, error)

	// Names returns the registered exercise names, sorted.
	Names() []string
}
