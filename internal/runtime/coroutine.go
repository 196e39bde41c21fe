package runtime

import (
	"errors"

	"github.com/aretw0/tracer/pkg/domain"
	"github.com/aretw0/tracer/pkg/model"
	"github.com/aretw0/tracer/pkg/sim"
)

// abortSignal unwinds a suspended routine when its run is closed.
type abortSignal struct{}

// coroutine runs a routine on its own goroutine and exchanges steps and resume
// values with the caller over unbuffered channels, so that exactly one side
// runs at a time.
type coroutine struct {
	body     func(yield func(*sim.Step) model.Value) error
	steps    chan *sim.Step
	resume   chan model.Value
	done     chan struct{}
	quit     chan struct{}
	err      error
	panicked any
	started  bool
	finished bool
}

func newCoroutine(body func(yield func(*sim.Step) model.Value) error) *coroutine {
	return &coroutine{
		body:   body,
		steps:  make(chan *sim.Step),
		resume: make(chan model.Value),
		done:   make(chan struct{}),
		quit:   make(chan struct{}),
	}
}

func (c *coroutine) run() {
	defer close(c.done)
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, ok := r.(abortSignal); ok {
			return
		}
		if err := asConfigurationError(r); err != nil {
			c.err = err
			return
		}
		c.panicked = r
	}()
	c.err = c.body(c.yield)
}

func (c *coroutine) yield(step *sim.Step) model.Value {
	select {
	case c.steps <- step:
	case <-c.quit:
		panic(abortSignal{})
	}
	select {
	case v := <-c.resume:
		return v
	case <-c.quit:
		panic(abortSignal{})
	}
}

// next resumes the routine with v and returns its next step.
// It returns a nil step once the routine has returned. A panic inside the
// routine other than a configuration error is re-raised on the caller.
func (c *coroutine) next(v model.Value) (*sim.Step, error) {
	if c.finished {
		return nil, c.err
	}
	if !c.started {
		c.started = true
		go c.run()
	} else {
		c.resume <- v
	}
	select {
	case step := <-c.steps:
		return step, nil
	case <-c.done:
		c.finished = true
		if c.panicked != nil {
			panic(c.panicked)
		}
		return nil, c.err
	}
}

// close aborts a suspended routine and waits for its goroutine to exit.
func (c *coroutine) close() {
	if !c.started || c.finished {
		c.finished = true
		return
	}
	close(c.quit)
	<-c.done
	c.finished = true
}

// asConfigurationError returns r as an error when it is an authoring mistake.
func asConfigurationError(r any) error {
	err, ok := r.(error)
	if !ok {
		return nil
	}
	if errors.Is(err, domain.ErrConfiguration) || errors.Is(err, domain.ErrDanglingAddr) {
		return err
	}
	return nil
}

// guard runs fn on the caller's goroutine, converting configuration panics to errors.
func guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if err = asConfigurationError(r); err == nil {
				panic(r)
			}
		}
	}()
	fn()
	return nil
}
