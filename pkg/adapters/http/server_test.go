package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tracerhttp "github.com/aretw0/tracer/pkg/adapters/http"
	"github.com/aretw0/tracer/pkg/adapters/memory"
	"github.com/aretw0/tracer/pkg/domain"
	"github.com/aretw0/tracer/pkg/exercises"
	"github.com/aretw0/tracer/pkg/observability"
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

func newHandler(t *testing.T) http.Handler {
	t.Helper()
	catalog := exercises.Default()
	catalog.Register("increment", "Increment a variable", increment)

	promReg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(promReg)
	require.NoError(t, err)

	manager := session.NewManager(memory.NewStore())
	return tracerhttp.NewHandler(catalog, manager,
		tracerhttp.WithMetrics(promReg),
		tracerhttp.WithLifecycleHooks(metrics.Hooks()),
	)
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func act(t *testing.T, h http.Handler, body tracerhttp.ActionRequest) tracerhttp.ActionResponse {
	t.Helper()
	w := do(t, h, http.MethodPost, "/sessions/s1/actions", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[tracerhttp.ActionResponse](t, w)
}

func TestServer_SessionLifecycle(t *testing.T) {
	h := newHandler(t)

	w := do(t, h, http.MethodPost, "/sessions", tracerhttp.CreateRequest{Exercise: "increment", SessionID: "s1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	view := decode[tracerhttp.SessionView](t, w)
	assert.Equal(t, "s1", view.ID)
	require.NotNil(t, view.Step)
	assert.Equal(t, domain.StepInput, view.Step.Type)
	assert.Equal(t, "Enter the value.", view.Step.Prompt)
	assert.Equal(t, 2, view.Score.MaxScore)
	assert.Equal(t, -1, view.LastStep)

	resp := act(t, h, tracerhttp.ActionRequest{Type: "input", Text: "4"})
	assert.False(t, resp.Outcome.Correct)

	w = do(t, h, http.MethodPost, "/sessions/s1/actions", tracerhttp.ActionRequest{Type: tracerhttp.ActionContinue})
	assert.Equal(t, http.StatusConflict, w.Code, "an input step cannot be skipped")

	resp = act(t, h, tracerhttp.ActionRequest{Type: "input", Text: "5"})
	assert.True(t, resp.Outcome.Correct)
	require.NotNil(t, resp.Session.Step)
	assert.Equal(t, domain.StepPause, resp.Session.Step.Type)
	assert.Equal(t, 0, resp.Session.LastStep)

	resp = act(t, h, tracerhttp.ActionRequest{Type: tracerhttp.ActionContinue})
	require.NotNil(t, resp.Session.Step)
	assert.Equal(t, domain.StepInput, resp.Session.Step.Type)
	assert.NotEmpty(t, resp.Session.Step.Element)
	assert.Equal(t, 1, resp.Session.LastStep)

	w = do(t, h, http.MethodGet, "/sessions/s1/diagram", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `n1[["Variables 1<br/>x: 0"]]`)
	assert.Contains(t, w.Body.String(), "class n1 current;")

	resp = act(t, h, tracerhttp.ActionRequest{Type: "input", Text: " 6 "})
	assert.True(t, resp.Outcome.Correct)
	assert.True(t, resp.Session.Terminal)
	assert.Nil(t, resp.Session.Step)
	assert.Equal(t, domain.NewScore(2, 2), resp.Session.Score)

	w = do(t, h, http.MethodPost, "/sessions/s1/actions", tracerhttp.ActionRequest{Type: "input", Text: "7"})
	assert.Equal(t, http.StatusConflict, w.Code, "a finished run takes no more actions")

	w = do(t, h, http.MethodGet, "/sessions/s1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[tracerhttp.SessionView](t, w).Terminal)

	w = do(t, h, http.MethodGet, "/sessions/s1/playback", nil)
	require.Equal(t, http.StatusOK, w.Code)
	playback := decode[map[string][]string](t, w)["steps"]
	require.Len(t, playback, 3)
	assert.Equal(t, "Setting Variables 1.x to 6", playback[2])

	w = do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `tracer_runs_completed_total{exercise="increment"} 1`)
	assert.Contains(t, w.Body.String(), `tracer_actions_rejected_total{exercise="increment",type="input"} 1`)

	w = do(t, h, http.MethodDelete, "/sessions/s1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, h, http.MethodGet, "/sessions/s1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_Exercises(t *testing.T) {
	h := newHandler(t)

	w := do(t, h, http.MethodGet, "/exercises", nil)
	require.Equal(t, http.StatusOK, w.Code)
	names := decode[map[string][]string](t, w)["exercises"]
	assert.Contains(t, names, "increment")
	assert.Contains(t, names, "linear-search")
}

func TestServer_CreateErrors(t *testing.T) {
	h := newHandler(t)

	tests := []struct {
		name string
		body any
		want int
	}{
		{"missing exercise", tracerhttp.CreateRequest{}, http.StatusBadRequest},
		{"unknown exercise", tracerhttp.CreateRequest{Exercise: "sorting"}, http.StatusNotFound},
		{"bad data", tracerhttp.CreateRequest{Exercise: "linear-search", Data: map[string]any{"bogus": true}}, http.StatusUnprocessableEntity},
		{"malformed", "{", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/sessions", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}

	w := do(t, h, http.MethodGet, "/sessions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[map[string][]string](t, w)["sessions"], "rejected payloads are never stored")
}

func TestServer_SessionBelongsToOneExercise(t *testing.T) {
	h := newHandler(t)

	w := do(t, h, http.MethodPost, "/sessions", tracerhttp.CreateRequest{Exercise: "increment", SessionID: "s2"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, h, http.MethodPost, "/sessions", tracerhttp.CreateRequest{Exercise: "linear-search", SessionID: "s2"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestServer_RandomDataIsPinned(t *testing.T) {
	h := newHandler(t)

	w := do(t, h, http.MethodPost, "/sessions", tracerhttp.CreateRequest{Exercise: "linear-search"})
	require.Equal(t, http.StatusCreated, w.Code)
	view := decode[tracerhttp.SessionView](t, w)
	assert.NotEmpty(t, view.ID)

	first := do(t, h, http.MethodGet, "/sessions/"+view.ID, nil)
	second := do(t, h, http.MethodGet, "/sessions/"+view.ID, nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestStreamManager_Hooks(t *testing.T) {
	sm := tracerhttp.NewStreamManager()
	ch, cancel := sm.Subscribe("s1")
	defer cancel()

	hooks := sm.Hooks("s1")
	hooks.OnStepEnter(context.Background(), &domain.StepEvent{
		EventBase: domain.EventBase{Type: domain.EventStepEnter},
		Index:     3,
	})
	sm.Hooks("other").OnTerminal(context.Background(), &domain.TerminalEvent{})

	select {
	case msg := <-ch:
		assert.Contains(t, msg, `"index":3`)
		assert.Contains(t, msg, `"type":"step_enter"`)
	case <-time.After(time.Second):
		t.Fatal("no event broadcast")
	}
	assert.Empty(t, ch, "events of other sessions are not delivered")
}

func element(t *testing.T, view tracerhttp.SessionView, name string) domain.Element {
	t.Helper()
	for _, e := range view.Elements {
		if e.Name == name {
			return e.Element
		}
	}
	require.Failf(t, "element not found", "no element named %q", name)
	return domain.NoElement
}

func TestServer_GraphBFSPicksAcrossRequests(t *testing.T) {
	h := newHandler(t)

	data := exercises.GraphData{Vertices: 3, Edges: [][2]int{{0, 1}, {0, 2}, {1, 2}}}
	w := do(t, h, http.MethodPost, "/sessions", tracerhttp.CreateRequest{Exercise: "graph-bfs", SessionID: "s1", Data: data})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	view := decode[tracerhttp.SessionView](t, w)
	require.NotNil(t, view.Step)
	require.Equal(t, domain.StepSelect, view.Step.Type)

	resp := act(t, h, tracerhttp.ActionRequest{Type: "select", Element: element(t, view, "A")})
	require.True(t, resp.Outcome.Correct)
	require.NotNil(t, resp.Session.Step)
	assert.Equal(t, 2, resp.Session.Step.Remaining)

	ab, ac := element(t, resp.Session, "AB"), element(t, resp.Session, "AC")

	// Picking the second edge first drains the batch in declared order.
	resp = act(t, h, tracerhttp.ActionRequest{Type: "select", Element: ac})
	assert.True(t, resp.Outcome.Correct)
	require.NotNil(t, resp.Session.Step)
	assert.Equal(t, 1, resp.Session.Step.Remaining)

	resp = act(t, h, tracerhttp.ActionRequest{Type: "select", Element: ab})
	assert.False(t, resp.Outcome.Correct, "AB was drained by the first pick")
	assert.Equal(t, 1, resp.Session.Step.Remaining)

	resp = act(t, h, tracerhttp.ActionRequest{Type: "select", Element: ac})
	assert.True(t, resp.Outcome.Correct)
	require.NotNil(t, resp.Session.Step)
	assert.Equal(t, domain.StepPause, resp.Session.Step.Type)
	assert.Equal(t, "Finished A", resp.Session.Step.Prompt)
	assert.Equal(t, 2, resp.Session.LastStep)
}
