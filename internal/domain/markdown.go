package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Export format constants
const (
	ExportSchema   = "attentionos.case/v1"
	ExportExt      = ".md"
	SnapshotLimit  = 3
	untitledCase   = "Untitled"
	untitledNote   = "Untitled attempt"
	pendingOutcome = "no outcome yet"
	dateLayout     = "2006-01-02"
	stampLayout    = "2006-01-02T15:04:05Z"
)

var filenameReplacer = strings.NewReplacer(
	"/", "-", "\\", "-", ":", "-", "?", "-", "%", "-",
	"*", "-", "|", "-", "\"", "-", "<", "-", ">", "-",
)

// ShortID derives the 8 hex character export identifier from a persistent ID
func ShortID(id string) string {
	h := sha256.Sum256([]byte(id))
	return hex.EncodeToString(h[:4])
}

// SanitizeTitle makes a case title safe for use in a filename
func SanitizeTitle(title string) string {
	s := strings.TrimSpace(filenameReplacer.Replace(singleLine(title)))
	if s == "" {
		return untitledCase
	}
	return s
}

// ExportFilename returns "<title>--<shortId>.md"
func ExportFilename(c *Case) string {
	return fmt.Sprintf("%s--%s%s", SanitizeTitle(c.Title), ShortID(c.ID), ExportExt)
}

// ExportSuffix is the filename tail shared by every export of a case,
// whatever its title was at the time
func ExportSuffix(id string) string {
	return "--" + ShortID(id) + ExportExt
}

// RenderCase renders a case and its attempts. The output depends only on
// the case, so re-exporting an unchanged case yields identical bytes.
func RenderCase(c *Case) (filename, content string) {
	var b strings.Builder

	b.WriteString("---\n")
	fmt.Fprintf(&b, "schema: %s\n", ExportSchema)
	fmt.Fprintf(&b, "id: %q\n", ShortID(c.ID))
	fmt.Fprintf(&b, "title: %s\n", yamlString(c.Title))
	fmt.Fprintf(&b, "importance: %d\n", c.Importance)
	fmt.Fprintf(&b, "urgency: %d\n", c.Urgency)
	fmt.Fprintf(&b, "decision: %s\n", c.Decision)
	if c.NextReview != nil {
		fmt.Fprintf(&b, "next_review: %s\n", stamp(*c.NextReview))
	} else {
		b.WriteString("next_review: \"\"\n")
	}
	fmt.Fprintf(&b, "updated_at: %s\n", stamp(c.UpdatedAt))
	b.WriteString("---\n\n")

	b.WriteString("## Brief\n\n")
	var brief []string
	for _, part := range []string{strings.TrimSpace(c.Brief), strings.TrimSpace(c.Details)} {
		if part != "" {
			brief = append(brief, part)
		}
	}
	if len(brief) > 0 {
		b.WriteString(strings.Join(brief, "\n\n"))
		b.WriteString("\n\n")
	}

	oldest := attemptsByCreation(c.Attempts)

	b.WriteString("## Snapshot\n\n")
	for i := len(oldest) - 1; i >= 0 && i >= len(oldest)-SnapshotLimit; i-- {
		b.WriteString(attemptLine(oldest[i]))
	}
	fmt.Fprintf(&b, "- Next step: %s\n\n", NextStep(c))

	b.WriteString("## Attempts\n\n")
	for _, a := range oldest {
		b.WriteString(attemptLine(a))
	}

	return ExportFilename(c), strings.TrimRight(b.String(), "\n") + "\n"
}

// NextStep derives the follow-up line of the snapshot
func NextStep(c *Case) string {
	switch {
	case c.NextReview != nil:
		return "Review on " + c.NextReview.UTC().Format(dateLayout)
	case c.Decision != DecisionUndecided && c.Decision != "":
		return "Decision: " + string(c.Decision)
	default:
		return "TBD"
	}
}

func attemptsByCreation(attempts []*Attempt) []*Attempt {
	out := make([]*Attempt, len(attempts))
	copy(out, attempts)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func attemptLine(a *Attempt) string {
	return fmt.Sprintf("- %s — %s — %s\n",
		a.CreatedAt.UTC().Format(dateLayout),
		orFallback(singleLine(a.Note), untitledNote),
		orFallback(singleLine(a.Outcome), pendingOutcome),
	)
}

// singleLine collapses line breaks so free text fits on one list line
func singleLine(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
	return strings.TrimSpace(s)
}

func yamlString(s string) string {
	s = strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
	return `"` + s + `"`
}

func stamp(t time.Time) string {
	return t.UTC().Format(stampLayout)
}
