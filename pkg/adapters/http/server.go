package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/tracer"
	"github.com/aretw0/tracer/internal/logging"
	"github.com/aretw0/tracer/internal/presentation/graph"
	"github.com/aretw0/tracer/pkg/domain"
	"github.com/aretw0/tracer/pkg/exercises"
	"github.com/aretw0/tracer/pkg/model"
	"github.com/aretw0/tracer/pkg/observability"
	"github.com/aretw0/tracer/pkg/ports"
	"github.com/aretw0/tracer/pkg/runner"
	"github.com/aretw0/tracer/pkg/session"
	"github.com/aretw0/tracer/pkg/sim"
)

// ActionContinue is the action type resolving a pause, next or start step.
const ActionContinue = "continue"

// Server hosts exercise sessions. It keeps no engine between requests: each
// request restores one from the stored session and discards it afterwards.
type Server struct {
	Exercises ports.ExerciseLoader
	Sessions  *session.Manager
	Streams   *StreamManager

	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	gatherer prometheus.Gatherer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithLifecycleHooks registers hooks invoked for every live step event.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Server) {
		s.hooks = hooks
	}
}

// WithMetrics exposes g on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewServer creates a Server over the exercise catalog and session manager.
func NewServer(exercises ports.ExerciseLoader, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		Exercises: exercises,
		Sessions:  sessions,
		Streams:   NewStreamManager(),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHandler creates a new HTTP handler serving exercises from the catalog.
func NewHandler(exercises ports.ExerciseLoader, sessions *session.Manager, opts ...Option) http.Handler {
	return NewServer(exercises, sessions, opts...).Handler()
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/exercises", s.ListExercises)
	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/actions", s.SubmitAction)
			r.Get("/playback", s.Playback)
			r.Get("/diagram", s.Diagram)
			r.Get("/events", s.SubscribeEvents)
		})
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// StepView is the pending step as shown to a client.
type StepView struct {
	Index     int             `json:"index"`
	Type      domain.StepType `json:"type"`
	Prompt    string          `json:"prompt"`
	Secondary string          `json:"secondary,omitempty"`
	Element   domain.Element  `json:"element,omitempty"`
	Remaining int             `json:"remaining,omitempty"`
}

// SessionView is a session with its live run.
type SessionView struct {
	ID       string         `json:"id"`
	Exercise string         `json:"exercise"`
	Step     *StepView      `json:"step,omitempty"`
	Terminal bool           `json:"terminal"`
	Score    domain.Score   `json:"score"`
	LastStep int            `json:"last_step"`
	Elements []runner.Entry `json:"elements,omitempty"`
}

// ActionResponse is the result of POST /sessions/{id}/actions.
type ActionResponse struct {
	Outcome domain.Outcome `json:"outcome"`
	Session SessionView    `json:"session"`
}

// CreateRequest is the body of POST /sessions.
type CreateRequest struct {
	Exercise  string `json:"exercise"`
	SessionID string `json:"session_id,omitempty"`
	Data      any    `json:"data,omitempty"`
}

// ActionRequest is the body of POST /sessions/{id}/actions. Type is a step
// type or "continue". Value selects by value when no element is named.
type ActionRequest struct {
	Type    string         `json:"type"`
	Element domain.Element `json:"element,omitempty"`
	Value   *string        `json:"value,omitempty"`
	Text    string         `json:"text,omitempty"`
	Source  domain.Element `json:"source,omitempty"`
	Target  domain.Element `json:"target,omitempty"`
	Label   string         `json:"label,omitempty"`
}

func newView(sess *domain.Session, eng *tracer.Engine) SessionView {
	v := SessionView{
		ID:       sess.ID,
		Exercise: sess.Exercise,
		Terminal: eng.Terminal(),
		Score:    eng.Score(),
		LastStep: eng.State().LastStep,
		Elements: runner.Elements(eng),
	}
	if step := eng.Current(); step != nil {
		v.Step = &StepView{
			Index:     eng.Index(),
			Type:      step.Type,
			Prompt:    step.Prompt,
			Secondary: step.Secondary,
			Element:   step.Element,
			Remaining: step.Remaining(),
		}
	}
	return v
}

// eventMode selects which lifecycle events an opened engine reports.
type eventMode int

const (
	// eventsNone reports nothing, for read-only requests.
	eventsNone eventMode = iota
	// eventsAfterRestore reports events caused by the request only.
	eventsAfterRestore
	// eventsAll also reports the step presented by Restore, for a new session.
	eventsAll
)

// gate drops events until opened.
type gate struct {
	open  bool
	hooks domain.LifecycleHooks
}

func (g *gate) lifecycleHooks() domain.LifecycleHooks {
	step := func(fn func(context.Context, *domain.StepEvent)) func(context.Context, *domain.StepEvent) {
		return func(ctx context.Context, e *domain.StepEvent) {
			if g.open && fn != nil {
				fn(ctx, e)
			}
		}
	}
	return domain.LifecycleHooks{
		OnStepEnter:      step(g.hooks.OnStepEnter),
		OnStepResolved:   step(g.hooks.OnStepResolved),
		OnActionRejected: step(g.hooks.OnActionRejected),
		OnTerminal: func(ctx context.Context, e *domain.TerminalEvent) {
			if g.open && g.hooks.OnTerminal != nil {
				g.hooks.OnTerminal(ctx, e)
			}
		},
	}
}

// open restores an engine for sess.
func (s *Server) open(ctx context.Context, sess *domain.Session, mode eventMode) (*tracer.Engine, error) {
	routine, err := s.Exercises.Routine(sess.Exercise)
	if err != nil {
		return nil, err
	}
	g := &gate{open: mode == eventsAll}
	opts := []tracer.Option{tracer.WithLogger(s.logger.With("session_id", sess.ID))}
	if mode != eventsNone {
		g.hooks = observability.Combine(s.hooks, s.Streams.Hooks(sess.ID))
		opts = append(opts, tracer.WithLifecycleHooks(g.lifecycleHooks()))
	}
	eng, err := tracer.New(sess.Exercise, routine, opts...)
	if err != nil {
		return nil, err
	}
	if err := eng.Restore(ctx, sess.State); err != nil {
		eng.Close()
		return nil, err
	}
	g.open = true
	return eng, nil
}

// apply restores the session under its lock, runs fn against the live engine and saves the result.
func (s *Server) apply(ctx context.Context, id string, mode eventMode, fn func(context.Context, *tracer.Engine) (domain.Outcome, error)) (ActionResponse, error) {
	var resp ActionResponse
	_, err := s.Sessions.Update(ctx, id, func(ctx context.Context, sess *domain.Session) error {
		eng, err := s.open(ctx, sess, mode)
		if err != nil {
			return err
		}
		defer eng.Close()

		if fn != nil {
			if resp.Outcome, err = fn(ctx, eng); err != nil {
				return err
			}
		}
		sess.State = eng.State()
		resp.Session = newView(sess, eng)
		return nil
	})
	return resp, err
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "tracer-http",
		"version": strings.TrimSpace(tracer.Version),
	})
}

// ListExercises handles the GET /exercises request.
func (s *Server) ListExercises(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"exercises": s.Exercises.Names()})
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// CreateSession handles the POST /sessions request. An existing session with
// the same id and exercise is resumed rather than reset.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if body.Exercise == "" {
		writeError(w, http.StatusBadRequest, errors.New("exercise is required"))
		return
	}
	if err := s.check(r.Context(), body); err != nil {
		s.fail(w, r, err)
		return
	}

	id := body.SessionID
	if id == "" {
		id = session.NewID()
	}
	if _, err := s.Sessions.LoadOrStart(r.Context(), id, body.Exercise, body.Data); err != nil {
		s.fail(w, r, err)
		return
	}

	// Saving right away pins the data a random exercise drew for itself.
	resp, err := s.apply(r.Context(), id, eventsAll, nil)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("session started", "session_id", id, "exercise", body.Exercise)
	writeJSON(w, http.StatusCreated, resp.Session)
}

// check runs the exercise silently against the submitted data so a payload
// the routine rejects is never persisted.
func (s *Server) check(ctx context.Context, body CreateRequest) error {
	routine, err := s.Exercises.Routine(body.Exercise)
	if err != nil || body.Data == nil {
		return err
	}
	eng, err := tracer.New(body.Exercise, routine, tracer.WithLogger(s.logger))
	if err != nil {
		return err
	}
	defer eng.Close()
	_, err = eng.Count(ctx, body.Data)
	return err
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, eng, err := s.load(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer eng.Close()
	writeJSON(w, http.StatusOK, newView(sess, eng))
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubmitAction handles the POST /sessions/{id}/actions request.
func (s *Server) SubmitAction(w http.ResponseWriter, r *http.Request) {
	var body ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	var fn func(context.Context, *tracer.Engine) (domain.Outcome, error)
	if body.Type == ActionContinue {
		fn = func(ctx context.Context, eng *tracer.Engine) (domain.Outcome, error) {
			return eng.Continue(ctx)
		}
	} else {
		action, err := toAction(body)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		fn = func(ctx context.Context, eng *tracer.Engine) (domain.Outcome, error) {
			return eng.Submit(ctx, action)
		}
	}

	resp, err := s.apply(r.Context(), chi.URLParam(r, "id"), eventsAfterRestore, fn)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Playback handles the GET /sessions/{id}/playback request.
func (s *Server) Playback(w http.ResponseWriter, r *http.Request) {
	_, eng, err := s.load(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer eng.Close()

	steps, err := eng.Play(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"steps": steps})
}

// Diagram handles the GET /sessions/{id}/diagram request: a Mermaid flowchart
// of the live structures with the pending step's elements highlighted.
func (s *Server) Diagram(w http.ResponseWriter, r *http.Request) {
	_, eng, err := s.load(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer eng.Close()

	overlay := &graph.Overlay{}
	if step := eng.Current(); step != nil {
		overlay.Current = focus(step)
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(graph.GenerateMermaid(eng.Arena(), overlay)))
}

// focus lists the elements a step is about.
func focus(step *sim.Step) []domain.Element {
	var out []domain.Element
	for _, el := range append(slices.Clone(step.Elements), step.Element, step.Source, step.Target) {
		if el != domain.NoElement {
			out = append(out, el)
		}
	}
	return out
}

func (s *Server) load(r *http.Request) (*domain.Session, *tracer.Engine, error) {
	sess, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return nil, nil, err
	}
	eng, err := s.open(r.Context(), sess, eventsNone)
	if err != nil {
		return nil, nil, err
	}
	return sess, eng, nil
}

func toAction(body ActionRequest) (sim.Action, error) {
	t := domain.StepType(body.Type)
	if !t.Interactive() {
		return sim.Action{}, fmt.Errorf("unknown action type %q", body.Type)
	}
	text, err := runner.SanitizeInput(body.Text)
	if err != nil {
		return sim.Action{}, fmt.Errorf("invalid input: %w", err)
	}
	a := sim.Action{
		Type:    t,
		Element: body.Element,
		Text:    text,
		Source:  body.Source,
		Target:  body.Target,
		Label:   body.Label,
	}
	if body.Value != nil {
		a.Value = model.ParseScalar(*body.Value)
	}
	return a, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrUnknownExercise):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrTerminated),
		errors.Is(err, session.ErrExerciseMismatch):
		return http.StatusConflict
	case errors.Is(err, exercises.ErrInvalidData):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "status", status, "err", err)
	}
	writeError(w, status, err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
