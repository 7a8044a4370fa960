package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Capture defaults applied to freshly captured thoughts
const (
	CaptureImportance = 5
	CaptureUrgency    = 3
)

// Kind names an entity kind; it prefixes reminder keys
type Kind string

const (
	KindInbox   Kind = "Inbox"
	KindCase    Kind = "Case"
	KindAttempt Kind = "Attempt"
)

// InboxItem is a captured thought waiting for triage
type InboxItem struct {
	ID      string
	Thought string
	Why     string
	TriageRecord
}

// NewInboxItem captures a thought. Both texts are trimmed and the thought
// must not be empty.
func NewInboxItem(thought, why string, now time.Time) (*InboxItem, error) {
	thought = strings.TrimSpace(thought)
	if thought == "" {
		return nil, &ValidationError{Field: "thought", Message: "thought is required"}
	}
	item := &InboxItem{
		ID:           uuid.NewString(),
		Thought:      thought,
		Why:          strings.TrimSpace(why),
		TriageRecord: newRecord(StateInbox, now),
	}
	item.Importance = CaptureImportance
	item.Urgency = CaptureUrgency
	return item, nil
}

// Case is a tracked piece of work that owns its attempts
type Case struct {
	ID      string
	Title   string
	Brief   string
	Details string
	TriageRecord

	// Attempts in creation order
	Attempts []*Attempt
}

// CaseFields are the user-editable fields of a case
type CaseFields struct {
	Title      string
	Brief      string
	Details    string
	Importance int
	Urgency    int
	Decision   Decision
	NextReview *time.Time
}

func (f CaseFields) normalized() CaseFields {
	f.Title = strings.TrimSpace(f.Title)
	f.Brief = strings.TrimSpace(f.Brief)
	f.Details = strings.TrimSpace(f.Details)
	if f.Decision == "" {
		f.Decision = DecisionUndecided
	}
	return f
}

// NewCase creates an active case. A reminder is wanted whenever a review
// date is given.
func NewCase(f CaseFields, now time.Time) (*Case, error) {
	f = f.normalized()
	c := &Case{
		ID:           uuid.NewString(),
		TriageRecord: newRecord(StateActive, now),
	}
	c.assign(f)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Edit replaces the editable fields. Nothing changes when validation fails.
func (c *Case) Edit(f CaseFields, now time.Time) error {
	f = f.normalized()
	next := *c
	next.assign(f)
	if err := next.Validate(); err != nil {
		return err
	}
	next.Touch(now)
	*c = next
	return nil
}

func (c *Case) assign(f CaseFields) {
	c.Title = f.Title
	c.Brief = f.Brief
	c.Details = f.Details
	c.Importance = f.Importance
	c.Urgency = f.Urgency
	c.Decision = f.Decision
	c.NextReview = f.NextReview
	c.NotifyEnabled = f.NextReview != nil
	c.Manual = true
}

// Validate checks the triage fields
func (c *Case) Validate() error {
	return c.TriageRecord.Validate()
}

// Attempt is a bounded effort under a case
type Attempt struct {
	ID      string
	CaseID  string
	Note    string
	Outcome string
	TriageRecord
}

// AttemptFields are the values chosen when starting an attempt
type AttemptFields struct {
	Note       string
	Decision   Decision
	Benefit    float64
	Friction   float64
	State      State
	NextReview *time.Time
}

// NewAttempt creates an attempt owned by caseID. The state defaults to
// active; activation must still pass the global guard before it is stored.
func NewAttempt(caseID string, f AttemptFields, now time.Time) (*Attempt, error) {
	if strings.TrimSpace(caseID) == "" {
		return nil, &ValidationError{Field: "caseID", Message: "case ID is required"}
	}
	if f.State == "" {
		f.State = StateActive
	}
	if f.Decision == "" {
		f.Decision = DecisionUndecided
	}
	a := &Attempt{
		ID:           uuid.NewString(),
		CaseID:       caseID,
		Note:         strings.TrimSpace(f.Note),
		TriageRecord: newRecord(f.State, now),
	}
	a.Decision = f.Decision
	a.Benefit = f.Benefit
	a.Friction = f.Friction
	a.NextReview = f.NextReview
	a.NotifyEnabled = f.NextReview != nil
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the triage fields
func (a *Attempt) Validate() error {
	return a.TriageRecord.Validate()
}

// Key formats the reminder key for an entity
func Key(kind Kind, id string) string {
	return fmt.Sprintf("%s:%s", kind, id)
}
