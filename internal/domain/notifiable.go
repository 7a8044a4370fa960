package domain

import "time"

// Triaged is anything carrying a triage record
type Triaged interface {
	Triage() *TriageRecord
}

// Notifiable is the capability set the reminder synchronizer works against
type Notifiable interface {
	Triaged
	Kind() Kind
	Key() string
	NotificationTitle() string
	NotificationBody() string
}

var (
	_ Notifiable = (*InboxItem)(nil)
	_ Notifiable = (*Case)(nil)
	_ Notifiable = (*Attempt)(nil)
)

func (i *InboxItem) Kind() Kind  { return KindInbox }
func (i *InboxItem) Key() string { return Key(KindInbox, i.ID) }

func (i *InboxItem) NotificationTitle() string {
	return orFallback(i.Thought, "Inbox Review")
}

func (i *InboxItem) NotificationBody() string {
	return orFallback(i.Why, "Scheduled review is due.")
}

func (c *Case) Kind() Kind  { return KindCase }
func (c *Case) Key() string { return Key(KindCase, c.ID) }

func (c *Case) NotificationTitle() string {
	return orFallback(c.Title, "Case Review")
}

func (c *Case) NotificationBody() string {
	return orFallback(c.Brief, "Scheduled case review is due.")
}

func (a *Attempt) Kind() Kind  { return KindAttempt }
func (a *Attempt) Key() string { return Key(KindAttempt, a.ID) }

func (a *Attempt) NotificationTitle() string {
	return orFallback(a.Note, "Attempt Review")
}

func (a *Attempt) NotificationBody() string {
	return orFallback(a.Outcome, "Scheduled attempt review is due.")
}

func orFallback(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// ReminderAction is what the synchronizer must do for one entity
type ReminderAction int

const (
	ReminderCancel ReminderAction = iota
	ReminderSchedule
)

func (a ReminderAction) String() string {
	if a == ReminderSchedule {
		return "schedule"
	}
	return "cancel"
}

// ReminderPlan is a snapshot of the reminder an entity should have
type ReminderPlan struct {
	Action ReminderAction
	Key    string
	At     time.Time
	Title  string
	Body   string
}

// PlanReminder decides between scheduling and cancelling. A reminder exists
// only when notifications are globally on, the entity opted in, and a review
// date is set.
func PlanReminder(n Notifiable, globalEnabled bool) ReminderPlan {
	r := n.Triage()
	if !globalEnabled || !r.NotifyEnabled || r.NextReview == nil {
		return ReminderPlan{Action: ReminderCancel, Key: n.Key()}
	}
	return ReminderPlan{
		Action: ReminderSchedule,
		Key:    n.Key(),
		At:     *r.NextReview,
		Title:  n.NotificationTitle(),
		Body:   n.NotificationBody(),
	}
}

// SyncNotify makes the opt-in follow the presence of a review date
func SyncNotify(n Triaged) {
	r := n.Triage()
	r.NotifyEnabled = r.NextReview != nil
}
