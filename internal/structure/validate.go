package structure

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// DefaultMaxCodeLength is the item code width of the source system.
	DefaultMaxCodeLength = 16

	dateLayout = "2006-01-02"
)

var (
	codePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	earliestReferenceDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// ValidateItemCode trims raw and checks it against the source system's code rules.
func ValidateItemCode(raw string, maxLen int) (string, error) {
	if maxLen <= 0 {
		maxLen = DefaultMaxCodeLength
	}

	code := strings.TrimSpace(raw)
	if code == "" {
		return "", &ValidationError{Field: "item code", Reason: "must not be empty"}
	}
	if len(code) > maxLen {
		return "", &ValidationError{Field: "item code", Reason: fmt.Sprintf("must be at most %d characters", maxLen)}
	}
	if !codePattern.MatchString(code) {
		return "", &ValidationError{Field: "item code", Reason: "may only contain letters, digits, '.', '_' and '-'"}
	}
	return code, nil
}

// ValidateReferenceDate parses an optional YYYY-MM-DD date. An empty value
// yields the current day. Dates before 1900 or more than ten years after now
// are rejected.
func ValidateReferenceDate(raw string, now time.Time) (time.Time, error) {
	today := truncateDay(now)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return today, nil
	}

	if !datePattern.MatchString(raw) {
		return time.Time{}, &ValidationError{Field: "reference date", Reason: "must use the YYYY-MM-DD format"}
	}
	day, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "reference date", Reason: fmt.Sprintf("%q is not a calendar date", raw)}
	}

	latest := today.AddDate(10, 0, 0)
	if day.Before(earliestReferenceDate) || day.After(latest) {
		return time.Time{}, &ValidationError{
			Field:  "reference date",
			Reason: fmt.Sprintf("must be between %s and %s", earliestReferenceDate.Format(dateLayout), latest.Format(dateLayout)),
		}
	}
	return day, nil
}
