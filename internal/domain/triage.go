package domain

import (
	"fmt"
	"math"
	"time"
)

// State is the lifecycle stage of a triaged entity
type State string

const (
	StateInbox  State = "inbox"
	StateActive State = "active"
	StatePaused State = "paused"
	StateDone   State = "done"
)

// States lists every state in display order
var States = []State{StateInbox, StateActive, StatePaused, StateDone}

// Valid reports whether s is a known state
func (s State) Valid() bool {
	switch s {
	case StateInbox, StateActive, StatePaused, StateDone:
		return true
	}
	return false
}

// ParseState converts user input into a State
func ParseState(s string) (State, error) {
	st := State(s)
	if !st.Valid() {
		return "", &ValidationError{Field: "state", Message: fmt.Sprintf("unknown state %q", s)}
	}
	return st, nil
}

// Decision is the triage verdict
type Decision string

const (
	DecisionUndecided Decision = "undecided"
	DecisionDoNow     Decision = "doNow"
	DecisionSchedule  Decision = "schedule"
	DecisionDelegate  Decision = "delegate"
	DecisionDrop      Decision = "drop"
)

// Decisions lists every decision in display order
var Decisions = []Decision{DecisionUndecided, DecisionDoNow, DecisionSchedule, DecisionDelegate, DecisionDrop}

// Valid reports whether d is a known decision
func (d Decision) Valid() bool {
	switch d {
	case DecisionUndecided, DecisionDoNow, DecisionSchedule, DecisionDelegate, DecisionDrop:
		return true
	}
	return false
}

// ParseDecision converts user input into a Decision
func ParseDecision(s string) (Decision, error) {
	d := Decision(s)
	if !d.Valid() {
		return "", &ValidationError{Field: "decision", Message: fmt.Sprintf("unknown decision %q", s)}
	}
	return d, nil
}

// Signal bounds
const (
	MinWeight  = 0
	MaxWeight  = 10
	MinSignal  = 0.0
	MaxSignal  = 10.0
	SignalStep = 0.5
)

// TriageRecord holds the fields shared by inbox items, cases and attempts
type TriageRecord struct {
	Importance    int
	Urgency       int
	State         State
	Decision      Decision
	Benefit       float64
	Friction      float64
	NextReview    *time.Time
	NotifyEnabled bool
	Manual        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func newRecord(state State, now time.Time) TriageRecord {
	return TriageRecord{
		State:     state,
		Decision:  DecisionUndecided,
		Manual:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Triage returns the record itself so embedding types satisfy Triaged
func (r *TriageRecord) Triage() *TriageRecord {
	return r
}

// Touch marks a user-visible change
func (r *TriageRecord) Touch(now time.Time) {
	r.UpdatedAt = now
}

// HasNextReview reports whether a review date is set
func (r *TriageRecord) HasNextReview() bool {
	return r.NextReview != nil
}

// Validate rejects out-of-range weights and signals and unknown enum values.
// Values are never clamped.
func (r *TriageRecord) Validate() error {
	if err := ValidateWeight("importance", r.Importance); err != nil {
		return err
	}
	if err := ValidateWeight("urgency", r.Urgency); err != nil {
		return err
	}
	if err := ValidateSignal("benefit", r.Benefit); err != nil {
		return err
	}
	if err := ValidateSignal("friction", r.Friction); err != nil {
		return err
	}
	if !r.State.Valid() {
		return &ValidationError{Field: "state", Message: fmt.Sprintf("unknown state %q", r.State)}
	}
	if !r.Decision.Valid() {
		return &ValidationError{Field: "decision", Message: fmt.Sprintf("unknown decision %q", r.Decision)}
	}
	return nil
}

// ValidateWeight checks an importance/urgency value
func ValidateWeight(field string, v int) error {
	if v < MinWeight || v > MaxWeight {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be between %d and %d, got %d", MinWeight, MaxWeight, v),
		}
	}
	return nil
}

// ValidateSignal checks a benefit/friction value, including the 0.5 step
func ValidateSignal(field string, v float64) error {
	if math.IsNaN(v) || v < MinSignal || v > MaxSignal {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be between %.1f and %.1f, got %g", MinSignal, MaxSignal, v),
		}
	}
	if steps := v / SignalStep; steps != math.Trunc(steps) {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be a multiple of %.1f, got %g", SignalStep, v),
		}
	}
	return nil
}

func timePtr(t time.Time) *time.Time {
	return &t
}
