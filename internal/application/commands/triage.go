package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"attentionos/internal/application"
	"attentionos/internal/domain"
	"attentionos/internal/ports"
)

// TriageAction is one of the quick review actions
type TriageAction string

const (
	TriageDoNow    TriageAction = "do-now"
	TriageSchedule TriageAction = "schedule"
	TriageDrop     TriageAction = "drop"
)

// ParseTriageAction accepts the action names used on the command line
func ParseTriageAction(s string) (TriageAction, error) {
	switch a := TriageAction(strings.ToLower(strings.TrimSpace(s))); a {
	case TriageDoNow, TriageSchedule, TriageDrop:
		return a, nil
	case "donow", "do_now":
		return TriageDoNow, nil
	}
	return "", &application.ValidationError{
		Field:   "action",
		Message: fmt.Sprintf("unknown action %q (expected do-now, schedule or drop)", s),
	}
}

// ParseKind accepts an entity kind in any letter case
func ParseKind(s string) (domain.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "inbox", "item":
		return domain.KindInbox, nil
	case "case":
		return domain.KindCase, nil
	case "attempt":
		return domain.KindAttempt, nil
	}
	return "", &application.ValidationError{
		Field:   "kind",
		Message: fmt.Sprintf("unknown kind %q (expected inbox, case or attempt)", s),
	}
}

// TriageResult contains the result of a triage action
type TriageResult struct {
	Target  domain.Notifiable
	Applied bool
	Message string
}

// TriageCommand applies a quick action to an inbox item, case or attempt
type TriageCommand struct {
	deps   *Deps
	Kind   domain.Kind
	ID     string
	Action TriageAction
	Date   time.Time
}

// NewTriageCommand creates a new TriageCommand. Date is only used by schedule.
func NewTriageCommand(deps *Deps, kind domain.Kind, id string, action TriageAction, date time.Time) *TriageCommand {
	return &TriageCommand{
		deps:   deps,
		Kind:   kind,
		ID:     id,
		Action: action,
		Date:   date,
	}
}

// Validate checks the action and its arguments
func (c *TriageCommand) Validate() error {
	if err := application.ValidateRequired("itemID", c.ID); err != nil {
		return err
	}
	switch c.Kind {
	case domain.KindInbox, domain.KindCase, domain.KindAttempt:
	default:
		return &application.ValidationError{Field: "kind", Message: fmt.Sprintf("unknown kind %q", c.Kind)}
	}
	switch c.Action {
	case TriageDoNow, TriageDrop:
	case TriageSchedule:
		return application.ValidateDate("nextReview", c.Date)
	default:
		return &application.ValidationError{Field: "action", Message: fmt.Sprintf("unknown action %q", c.Action)}
	}
	return nil
}

// Execute runs the triage command. A do-now on a finished record is a no-op.
func (c *TriageCommand) Execute(ctx context.Context) (*TriageResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	now := c.deps.now()
	result := &TriageResult{}
	err := c.deps.Store.WithinTx(ctx, func(tx ports.TriageRepository) error {
		switch c.Kind {
		case domain.KindInbox:
			item, err := tx.GetInboxItem(ctx, c.ID)
			if err != nil {
				return err
			}
			result.Target = item
			if result.Applied = c.apply(&item.TriageRecord, now); result.Applied {
				return tx.SaveInboxItem(ctx, item)
			}
		case domain.KindCase:
			cs, err := tx.GetCase(ctx, c.ID)
			if err != nil {
				return err
			}
			result.Target = cs
			if result.Applied = c.apply(&cs.TriageRecord, now); result.Applied {
				return tx.SaveCase(ctx, cs)
			}
		case domain.KindAttempt:
			a, err := tx.GetAttempt(ctx, c.ID)
			if err != nil {
				return err
			}
			if c.Action == TriageDoNow && a.State != domain.StateActive && a.State != domain.StateDone {
				if err := guardActivation(ctx, tx, a.ID); err != nil {
					return err
				}
			}
			result.Target = a
			if result.Applied = c.apply(&a.TriageRecord, now); result.Applied {
				return tx.SaveAttempt(ctx, a)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to triage %s %s: %w", strings.ToLower(string(c.Kind)), c.ID, err)
	}

	if !result.Applied {
		result.Message = "Already done, nothing changed"
		return result, nil
	}
	c.deps.reconcile(ctx, result.Target)

	switch c.Action {
	case TriageSchedule:
		result.Message = fmt.Sprintf("Scheduled %s for %s", result.Target.NotificationTitle(), c.Date.Format("2006-01-02 15:04"))
	case TriageDrop:
		result.Message = fmt.Sprintf("Dropped %s", result.Target.NotificationTitle())
	default:
		result.Message = fmt.Sprintf("Do now: %s", result.Target.NotificationTitle())
	}
	return result, nil
}

func (c *TriageCommand) apply(r *domain.TriageRecord, now time.Time) bool {
	switch c.Action {
	case TriageSchedule:
		return domain.ApplySchedule(r, c.Date, now)
	case TriageDrop:
		return domain.ApplyDrop(r, now)
	default:
		return domain.ApplyDoNow(r, now)
	}
}
