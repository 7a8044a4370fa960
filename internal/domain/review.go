package domain

import "time"

// ClassifyDue returns items whose review date has passed, in input order.
// State and decision are ignored.
func ClassifyDue[T Triaged](items []T, now time.Time) []T {
	return filter(items, func(r *TriageRecord) bool {
		return r.NextReview != nil && !r.NextReview.After(now)
	})
}

// ClassifyInbox returns untriaged items without a review date
func ClassifyInbox[T Triaged](items []T) []T {
	return filter(items, func(r *TriageRecord) bool {
		return r.State == StateInbox && r.Decision == DecisionUndecided && r.NextReview == nil
	})
}

// ClassifyDoNow returns unfinished items marked do-now
func ClassifyDoNow[T Triaged](items []T) []T {
	return filter(items, func(r *TriageRecord) bool {
		return r.Decision == DecisionDoNow && r.State != StateDone
	})
}

// ClassifyScheduled returns unfinished scheduled items whose review is still ahead
func ClassifyScheduled[T Triaged](items []T, now time.Time) []T {
	return filter(items, func(r *TriageRecord) bool {
		return r.Decision == DecisionSchedule && r.State != StateDone &&
			r.NextReview != nil && r.NextReview.After(now)
	})
}

func filter[T Triaged](items []T, keep func(*TriageRecord) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it.Triage()) {
			out = append(out, it)
		}
	}
	return out
}

// ApplyDoNow is the quick "act now" action. It silently does nothing for a
// nil or finished record and reports whether it applied.
func ApplyDoNow(r *TriageRecord, now time.Time) bool {
	if r == nil || r.State == StateDone {
		return false
	}
	r.Decision = DecisionDoNow
	r.State = StateActive
	r.NextReview = nil
	r.NotifyEnabled = false
	r.Manual = true
	r.Touch(now)
	return true
}

// ApplySchedule defers the record to date with a reminder
func ApplySchedule(r *TriageRecord, date time.Time, now time.Time) bool {
	if r == nil || date.IsZero() {
		return false
	}
	r.Decision = DecisionSchedule
	r.NextReview = timePtr(date)
	r.NotifyEnabled = true
	r.Manual = true
	r.Touch(now)
	return true
}

// ApplyDrop closes the record
func ApplyDrop(r *TriageRecord, now time.Time) bool {
	if r == nil {
		return false
	}
	r.Decision = DecisionDrop
	r.State = StateDone
	r.NextReview = nil
	r.NotifyEnabled = false
	r.Manual = true
	r.Touch(now)
	return true
}
