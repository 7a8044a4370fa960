package application

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"attentionos/internal/domain"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "caseID" -> "case ID")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"itemID":     "item ID",
		"caseID":     "case ID",
		"attemptID":  "attempt ID",
		"nextReview": "review date",
		"thought":    "thought",
		"title":      "title",
		"outcome":    "outcome",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	return fieldName
}

// ValidateDate checks that a date was supplied
func ValidateDate(fieldName string, t time.Time) error {
	if t.IsZero() {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", formatFieldName(fieldName)),
		}
	}
	return nil
}

// ParseDecision validates a decision given as text
func ParseDecision(s string) (domain.Decision, error) {
	return domain.ParseDecision(strings.TrimSpace(s))
}

// ParseState validates a state given as text
func ParseState(s string) (domain.State, error) {
	return domain.ParseState(strings.TrimSpace(s))
}

// Date layouts accepted from users, most specific first
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate parses a user supplied date in local time. Relative forms
// "today", "tomorrow" and "+Nd" are resolved against now at 09:00.
func ParseDate(fieldName, s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, &ValidationError{Field: fieldName, Message: fmt.Sprintf("%s is required", formatFieldName(fieldName))}
	}

	morning := func(days int) time.Time {
		d := now.AddDate(0, 0, days)
		return time.Date(d.Year(), d.Month(), d.Day(), 9, 0, 0, 0, now.Location())
	}
	switch strings.ToLower(s) {
	case "today":
		return morning(0), nil
	case "tomorrow":
		return morning(1), nil
	}
	if days, ok := relativeDays(s); ok {
		return morning(days), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &ValidationError{
		Field:   fieldName,
		Message: fmt.Sprintf("cannot parse %q (use YYYY-MM-DD, YYYY-MM-DD HH:MM, today, tomorrow or +Nd)", s),
	}
}

// relativeDays matches the whole of "+Nd"
func relativeDays(s string) (int, bool) {
	rest, ok := strings.CutPrefix(s, "+")
	if !ok {
		return 0, false
	}
	rest, ok = strings.CutSuffix(strings.ToLower(rest), "d")
	if !ok || rest == "" || strings.ContainsAny(rest, "+-") {
		return 0, false
	}
	days, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return days, true
}

// ParseWeight converts a numeric input to an importance/urgency value.
// Fractions and non-finite numbers are rejected rather than truncated.
func ParseWeight(fieldName string, v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("must be a whole number, got %g", v),
		}
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("must be between %d and %d, got %g", domain.MinWeight, domain.MaxWeight, v),
		}
	}
	n := int(v)
	if err := domain.ValidateWeight(fieldName, n); err != nil {
		return 0, err
	}
	return n, nil
}
