package cmd

import (
	"fmt"
	"io"

	"attentionos/internal/domain"
)

const reviewLayout = "2006-01-02 15:04"

func formatRecord(r *domain.TriageRecord) string {
	s := fmt.Sprintf("[%s/%s i=%d u=%d]", r.State, r.Decision, r.Importance, r.Urgency)
	if r.NextReview != nil {
		s += " review " + r.NextReview.Local().Format(reviewLayout)
	}
	return s
}

func printInboxItem(w io.Writer, i *domain.InboxItem) {
	fmt.Fprintf(w, "  %s  %s  %s\n", i.ID, i.Thought, formatRecord(i.Triage()))
}

func printCase(w io.Writer, c *domain.Case) {
	fmt.Fprintf(w, "  %s  %s  %s  attempts=%d\n", c.ID, c.Title, formatRecord(c.Triage()), len(c.Attempts))
}

func printAttempt(w io.Writer, a *domain.Attempt) {
	fmt.Fprintf(w, "  %s  %s  %s\n", a.ID, a.NotificationTitle(), formatRecord(a.Triage()))
}
