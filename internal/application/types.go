package application

import "attentionos/internal/domain"

// Re-export domain types for use by adapters
type (
	InboxItem        = domain.InboxItem
	Case             = domain.Case
	Attempt          = domain.Attempt
	State            = domain.State
	Decision         = domain.Decision
	CaseFields       = domain.CaseFields
	AttemptFields    = domain.AttemptFields
	AttemptEdit      = domain.AttemptEdit
	CompletionValues = domain.CompletionValues
)

// Re-export enum values for use by adapters
const (
	StateInbox  = domain.StateInbox
	StateActive = domain.StateActive
	StatePaused = domain.StatePaused
	StateDone   = domain.StateDone

	DecisionUndecided = domain.DecisionUndecided
	DecisionDoNow     = domain.DecisionDoNow
	DecisionSchedule  = domain.DecisionSchedule
	DecisionDelegate  = domain.DecisionDelegate
	DecisionDrop      = domain.DecisionDrop
)
