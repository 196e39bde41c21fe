package cli

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/tracer"
	"github.com/aretw0/tracer/pkg/domain"
	"github.com/aretw0/tracer/pkg/observability"
)

// hooks returns the lifecycle hooks the app attaches to every engine.
func (a *App) hooks() domain.LifecycleHooks {
	hooks := []domain.LifecycleHooks{observability.LogHooks(a.Logger)}
	if a.Metrics != nil {
		hooks = append(hooks, a.Metrics.Hooks())
	}
	return observability.Combine(hooks...)
}

// NewEngine creates an engine for the named exercise with the app's logger,
// hooks and configured seed.
func (a *App) NewEngine(name string, opts ...tracer.Option) (*tracer.Engine, error) {
	routine, err := a.Catalog.Routine(name)
	if err != nil {
		return nil, err
	}
	engineOpts := []tracer.Option{
		tracer.WithLogger(a.Logger),
		tracer.WithLifecycleHooks(a.hooks()),
	}
	if a.Config.Seed != nil {
		engineOpts = append(engineOpts, tracer.WithSeed(*a.Config.Seed))
	}
	engineOpts = append(engineOpts, opts...)

	engine, err := tracer.New(name, routine, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}

// ParseData decodes a JSON data payload given on the command line. Empty means none.
func ParseData(raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}
	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("invalid --data JSON: %w", err)
	}
	return data, nil
}
