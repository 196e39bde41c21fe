package tracer_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/tracer"
	"github.com/aretw0/tracer/pkg/domain"
	"github.com/aretw0/tracer/pkg/sim"
)

// ExampleNew walks a learner through a two-step exercise.
func ExampleNew() {
	increment := func(s *sim.Sim, _ any) error {
		vars := s.Frame()
		x := s.Yield(s.Ask(5))
		s.Yield(s.Set(s.Put(vars, "x", 0), x.AsInt()+1))
		return nil
	}

	eng, err := tracer.New("increment", increment)
	if err != nil {
		log.Fatal(err)
	}
	defer eng.Close()

	ctx := context.Background()
	if err := eng.Start(ctx, nil); err != nil {
		log.Fatal(err)
	}
	fmt.Println(eng.Current().Prompt)

	out, _ := eng.Submit(ctx, sim.Action{Type: domain.StepInput, Text: "4"})
	fmt.Println("correct:", out.Correct)

	out, _ = eng.Submit(ctx, sim.Action{Type: domain.StepInput, Text: "5"})
	fmt.Println("correct:", out.Correct)
	fmt.Println(eng.Current().Description)

	out, _ = eng.Submit(ctx, sim.Action{Type: domain.StepInput, Text: "6"})
	score := eng.Score()
	fmt.Printf("terminal: %v, score: %d/%d\n", out.Terminal, score.Achieved, score.MaxScore)

	// Output:
	// Enter the value.
	// correct: false
	// correct: true
	// Setting Variables 1.x to 6
	// terminal: true, score: 2/2
}
