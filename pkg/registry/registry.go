package registry

import (
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/tracer/pkg/domain"
	"github.com/aretw0/tracer/pkg/sim"
)

// Entry describes a registered exercise.
type Entry struct {
	Name        string
	Description string
	Routine     sim.Routine
}

// Registry manages the available exercises. It implements ports.ExerciseLoader.
type Registry struct {
	mu        sync.RWMutex
	exercises map[string]Entry
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		exercises: make(map[string]Entry),
	}
}

// Register adds an exercise to the registry.
// If an exercise with the same name exists, it is overwritten.
func (r *Registry) Register(name, description string, routine sim.Routine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exercises[name] = Entry{Name: name, Description: description, Routine: routine}
}

// Routine looks up an exercise routine by name.
func (r *Registry) Routine(name string) (sim.Routine, error) {
	e, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return e.Routine, nil
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (Entry, error) {
	r.mu.RLock()
	e, ok := r.exercises[name]
	r.mu.RUnlock()
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", domain.ErrUnknownExercise, name)
	}
	return e, nil
}

// Names returns the registered exercise names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.exercises))
	for name := range r.exercises {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Entries returns the registered exercises sorted by name.
func (r *Registry) Entries() []Entry {
	names := r.Names()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0, len(names))
	for _, n := range names {
		if e, ok := r.exercises[n]; ok {
			out = append(out, e)
		}
	}
	return out
}
