package runner_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tracer"
	"github.com/aretw0/tracer/pkg/adapters/memory"
	"github.com/aretw0/tracer/pkg/model"
	"github.com/aretw0/tracer/pkg/runner"
	"github.com/aretw0/tracer/pkg/session"
	"github.com/aretw0/tracer/pkg/sim"
)

func increment(s *sim.Sim, _ any) error {
	vars := s.Frame()
	x := s.Yield(s.Ask(5))
	s.Yield(s.Pause("Now update x"))
	s.Yield(s.Set(s.Put(vars, "x", 0), x.AsInt()+1))
	return nil
}

func pointers(s *sim.Sim, _ any) error {
	vars := s.Frame()
	obj := s.Object()
	s.Add(obj)
	s.Put(obj, "value", 1)
	p := s.Put(vars, "p", nil)
	s.Assign(p, model.Null())
	s.Yield(s.Set(p, obj))
	s.Yield(s.Ask(obj))
	s.Yield(s.Click("Done"))
	return nil
}

func setup(t *testing.T, routine sim.Routine) (*tracer.Engine, *session.Manager, string) {
	t.Helper()
	ctx := context.Background()

	manager := session.NewManager(memory.NewStore())
	sess, err := manager.LoadOrStart(ctx, "s1", "test", nil)
	require.NoError(t, err)

	eng, err := tracer.New("test", routine)
	require.NoError(t, err)
	t.Cleanup(eng.Close)
	require.NoError(t, eng.Restore(ctx, sess.State))
	return eng, manager, sess.ID
}

func run(t *testing.T, eng *tracer.Engine, manager *session.Manager, id, script string) string {
	t.Helper()
	var out bytes.Buffer
	r := runner.NewRunner(
		runner.WithIO(strings.NewReader(script), &out),
		runner.WithSession(manager, id),
		runner.WithPauseDelay(0),
	)
	require.NoError(t, r.Run(context.Background(), eng))
	return out.String()
}

func TestRunner_Walkthrough(t *testing.T) {
	eng, manager, id := setup(t, increment)

	out := run(t, eng, manager, id, "score\ninput 4\nbogus\ninput 5\nhint\ninput 6\n")

	assert.Contains(t, out, "[0] Enter the value.")
	assert.Contains(t, out, "Score: 0/2")
	assert.Contains(t, out, "Not quite, try again.")
	assert.Contains(t, out, `unknown command "bogus"`)
	assert.Contains(t, out, "Now update x")
	assert.Contains(t, out, "Hint: input 6")
	assert.Contains(t, out, "Finished. Score: 2/2")
	assert.True(t, eng.Terminal())

	sess, err := manager.Load(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 2, sess.State.LastStep)
}

func TestRunner_ResumeAfterEOF(t *testing.T) {
	ctx := context.Background()
	eng, manager, id := setup(t, increment)

	out := run(t, eng, manager, id, "input 5\n")
	assert.NotContains(t, out, "Finished")

	sess, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, sess.State.LastStep, "the pause resolved before input ran out")

	resumed, err := tracer.New("test", increment)
	require.NoError(t, err)
	defer resumed.Close()
	require.NoError(t, resumed.Restore(ctx, sess.State))

	out = run(t, resumed, manager, id, "input 6\n")
	assert.Contains(t, out, "Finished. Score: 2/2")
}

func TestRunner_Quit(t *testing.T) {
	eng, manager, id := setup(t, increment)

	out := run(t, eng, manager, id, "quit\ninput 5\n")
	assert.NotContains(t, out, "Correct.")

	sess, err := manager.Load(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, -1, sess.State.LastStep)
}

func TestRunner_PointingCommands(t *testing.T) {
	eng, manager, id := setup(t, pointers)

	script := strings.Join([]string{
		"elements",
		"continue",
		"connect path:2 node:1",
		"connect path:2 node:2",
		"select Object 1",
		"click Nope",
		"click Done",
	}, "\n") + "\n"
	out := run(t, eng, manager, id, script)

	assert.Contains(t, out, "node:2")
	assert.Contains(t, out, "Object 1")
	assert.Contains(t, out, "This step needs an answer")
	assert.Equal(t, 2, strings.Count(out, "Not quite, try again."))
	assert.Contains(t, out, "Finished. Score: 3/3")
}
