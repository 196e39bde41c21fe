package exercises

import (
	"fmt"
	"strconv"

	"github.com/aretw0/tracer/pkg/sim"
)

// SumData parametrizes RunningSum.
type SumData struct {
	Numbers []int `json:"numbers" mapstructure:"numbers" validate:"required,min=1,max=6"`
}

const runningSumCode = `
name = input("Name? ")
print("Hello", name)
sum = 0
for each line of input
    sum = sum + number(line)
    print("Sum:", sum)
`

// RunningSum has the learner predict a program's terminal output. The name is
// free input; every sum must be typed exactly.
func RunningSum(s *sim.Sim, data any) error {
	p, err := load(data, func() SumData {
		return SumData{Numbers: s.Rand().IntArray(3, 1, 20)}
	})
	if err != nil {
		return err
	}
	s.Yield(s.Start(p))

	code := s.Code(runningSumCode).Pseudo()
	term := s.Terminal()
	buttons := s.Buttons()
	buttons.Add("Next line", func() { code.Go(4) })

	term.Print("Name? ")
	name := s.Yield(term.Ask())
	code.Go(2)
	term.Println("Hello " + name.Str())
	s.Yield(code.Ask(3))

	sum := 0
	for _, n := range p.Numbers {
		s.Yield(buttons.Ask("Next line"))
		term.Input(strconv.Itoa(n))
		sum += n
		s.Yield(code.Ask(5))
		s.Yield(term.Ask(fmt.Sprintf("Sum: %d", sum)))
	}
	s.Yield(s.Click("Done"))
	return nil
}
