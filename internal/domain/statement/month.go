package statement

import (
	"fmt"
	"time"
)

// unknownMonthKey buckets transactions that have no usable date.
const unknownMonthKey = "unknown"

// Month is a calendar month key (year + month).
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses a "YYYY-MM" key. The error marks an invalid key the
// caller should surface as not-found.
func ParseMonth(key string) (Month, error) {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month key %q: %w", key, err)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// Key renders the "YYYY-MM" form.
func (m Month) Key() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Label renders a human-readable form, e.g. "February 2026".
func (m Month) Label() string {
	return fmt.Sprintf("%s %d", m.Month.String(), m.Year)
}

// Range returns the first and last day of the month.
func (m Month) Range() (start, end time.Time) {
	start = time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, -1)
	return start, end
}

// Contains reports whether the day of t falls inside the month.
func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Month
}

// monthKeyOf buckets a nullable date into a month key.
func monthKeyOf(t *time.Time) string {
	if t == nil {
		return unknownMonthKey
	}
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// monthLabelOf renders the label for a month key produced by monthKeyOf.
func monthLabelOf(key string) string {
	if key == unknownMonthKey {
		return "Unknown date"
	}
	m, err := ParseMonth(key)
	if err != nil {
		return key
	}
	return m.Label()
}
