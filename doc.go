/*
Package tracer is a step-sequencing engine for interactive algorithm visualizations.

An exercise is a Go routine that builds data structures (arrays, records, graphs,
trees, code listings) and yields steps describing what the learner must do next:
select a node, type a value, drag a pointer, press a button. The engine suspends the
routine at each step, validates the learner's action, applies the step's effect and
resumes the routine with the resolved value.

# Concept

Progress is persisted as two values: the data the routine ran against and the index of
the last resolved step. Restoring replays the routine silently up to that step, so
routines must be deterministic given their data. Randomness goes through the run's
seeded generator, and a routine that draws its own data pins it with a start step.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/tracer"
		"github.com/aretw0/tracer/pkg/domain"
		"github.com/aretw0/tracer/pkg/sim"
	)

	func increment(s *sim.Sim, data any) error {
		vars := s.Frame()
		x := s.Yield(s.Ask(5))
		s.Yield(s.Set(s.Put(vars, "x", 0), x.AsInt()+1))
		return nil
	}

	func main() {
		eng, err := tracer.New("increment", increment)
		if err != nil {
			log.Fatal(err)
		}
		defer eng.Close()

		ctx := context.Background()
		if err := eng.Start(ctx, nil); err != nil {
			log.Fatal(err)
		}

		out, err := eng.Submit(ctx, sim.Action{Type: domain.StepInput, Text: "5"})
		if err != nil {
			log.Fatal(err)
		}
		log.Println("correct:", out.Correct, "score:", eng.Score())
	}
*/
package tracer
