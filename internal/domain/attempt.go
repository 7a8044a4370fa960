package domain

import (
	"strings"
	"time"
)

// CanActivate reports whether candidateID may become the active attempt:
// false iff any other attempt in all is currently active.
func CanActivate(candidateID string, all []*Attempt) bool {
	for _, a := range all {
		if a.ID != candidateID && a.State == StateActive {
			return false
		}
	}
	return true
}

// CompletionValues are required to close an attempt
type CompletionValues struct {
	Decision Decision
	Benefit  float64
	Friction float64
	Outcome  string
}

// Validate checks a completion before anything is written
func (v CompletionValues) Validate() error {
	if !v.Decision.Valid() || v.Decision == DecisionUndecided {
		return &ValidationError{Field: "decision", Message: "decision must be chosen (not undecided)"}
	}
	if !HasContentLine(v.Outcome) {
		return &ValidationError{Field: "outcome", Message: "outcome needs at least one non-blank line"}
	}
	if err := ValidateSignal("benefit", v.Benefit); err != nil {
		return err
	}
	return ValidateSignal("friction", v.Friction)
}

// Complete closes the attempt from any state
func (a *Attempt) Complete(v CompletionValues, now time.Time) error {
	if err := v.Validate(); err != nil {
		return err
	}
	a.State = StateDone
	a.Decision = v.Decision
	a.Benefit = v.Benefit
	a.Friction = v.Friction
	a.Outcome = strings.TrimSpace(v.Outcome)
	a.NextReview = nil
	a.NotifyEnabled = false
	a.Touch(now)
	return nil
}

// Pause parks an active attempt until next
func (a *Attempt) Pause(next time.Time, now time.Time) error {
	if a.State != StateActive {
		return &ValidationError{Field: "state", Message: "only an active attempt can be paused, got " + string(a.State)}
	}
	if next.IsZero() {
		return &ValidationError{Field: "nextReview", Message: "pause needs a review date"}
	}
	a.State = StatePaused
	a.NextReview = timePtr(next)
	a.NotifyEnabled = true
	a.Touch(now)
	return nil
}

// AttemptEdit is a full replacement of the editable attempt fields
type AttemptEdit struct {
	Note       string
	Outcome    string
	Importance int
	Urgency    int
	State      State
	Decision   Decision
	Benefit    float64
	Friction   float64
	NextReview *time.Time
}

// EditFrom seeds an edit with the attempt's current values
func EditFrom(a *Attempt) AttemptEdit {
	return AttemptEdit{
		Note:       a.Note,
		Outcome:    a.Outcome,
		Importance: a.Importance,
		Urgency:    a.Urgency,
		State:      a.State,
		Decision:   a.Decision,
		Benefit:    a.Benefit,
		Friction:   a.Friction,
		NextReview: a.NextReview,
	}
}

// Activates reports whether applying e to a moves it into the active state
func (e AttemptEdit) Activates(a *Attempt) bool {
	return e.State == StateActive && a.State != StateActive
}

// ApplyEdit applies e wholesale or not at all. Done is terminal.
func (a *Attempt) ApplyEdit(e AttemptEdit, now time.Time) error {
	if a.State == StateDone && e.State != StateDone {
		return &ValidationError{Field: "state", Message: "a done attempt cannot be reopened"}
	}
	next := *a
	next.Note = strings.TrimSpace(e.Note)
	next.Outcome = strings.TrimSpace(e.Outcome)
	next.Importance = e.Importance
	next.Urgency = e.Urgency
	next.State = e.State
	next.Decision = e.Decision
	next.Benefit = e.Benefit
	next.Friction = e.Friction
	next.NextReview = e.NextReview
	next.NotifyEnabled = e.NextReview != nil
	if err := next.Validate(); err != nil {
		return err
	}
	next.Touch(now)
	*a = next
	return nil
}

// HasContentLine reports whether text has at least one non-blank line
func HasContentLine(text string) bool {
	for _, line := range strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' }) {
		if strings.TrimSpace(line) != "" {
			return true
		}
	}
	return false
}
