package core

import (
	"fmt"
	"time"
)

// dateLayout is the only accepted wire and storage form for dates.
// Lexicographic order on this form coincides with chronological order,
// which the storage layer relies on for sorting and grouping.
const dateLayout = "2006-01-02"

// Date is a civil calendar date with no time-of-day or timezone component.
type Date struct {
	Year  int
	Month int
	Day   int
}

// ParseDate parses a strict YYYY-MM-DD date. Values that match the shape
// but are not real calendar dates (month 13, February 30th) are rejected.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	// time.Parse normalizes out-of-range components instead of failing,
	// so round-trip to catch inputs like 2024-02-30.
	if t.Format(dateLayout) != s {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, nil
}

// NewDate builds a Date from components without validation.
func NewDate(year, month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

func (d Date) Validate() error {
	if _, err := ParseDate(d.String()); err != nil {
		return err
	}
	return nil
}

// String renders the canonical YYYY-MM-DD form.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// MonthKey returns the YYYY-MM grouping key for monthly aggregation.
func (d Date) MonthKey() string {
	return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
}

// YearKey returns the YYYY grouping key for yearly aggregation.
func (d Date) YearKey() string {
	return fmt.Sprintf("%04d", d.Year)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// MarshalJSON renders the date as its canonical string form.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON parses a quoted YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("%w: %s", ErrInvalidDate, b)
	}
	parsed, err := ParseDate(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
