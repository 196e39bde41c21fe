package domain

import "time"

// State is the persisted progress of one exercise.
// Nodes, paths and values are never stored: they are rebuilt by re-running the
// routine against Data, which is why routines must be deterministic given Data.
type State struct {
	// Data is the opaque payload the routine runs against (JSON-serializable).
	Data any `json:"data"`

	// LastStep is the index of the furthest resolved step, -1 if none.
	LastStep int `json:"lastStep"`
}

// NewState creates a fresh state for the given payload.
func NewState(data any) *State {
	return &State{
		Data:     data,
		LastStep: -1,
	}
}

// Session binds a State to the exercise it belongs to. Hosts persist sessions.
type Session struct {
	ID        string    `json:"id"`
	Exercise  string    `json:"exercise"`
	State     State     `json:"state"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession creates a session for an exercise with an empty state.
func NewSession(id, exercise string, data any) *Session {
	return &Session{
		ID:        id,
		Exercise:  exercise,
		State:     *NewState(data),
		UpdatedAt: time.Now().UTC(),
	}
}

// Score is the grading summary surfaced to a host.
type Score struct {
	MaxScore int  `json:"maxscore"`
	Achieved int  `json:"achieved"`
	Partial  bool `json:"partial"`
}

// NewScore computes the partial flag from the counts.
func NewScore(maxScore, achieved int) Score {
	return Score{
		MaxScore: maxScore,
		Achieved: achieved,
		Partial:  achieved < maxScore,
	}
}
