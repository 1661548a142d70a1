package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimestampLayout is the only accepted date format: "YYYY-MM-DD HH:mm:ss"
const TimestampLayout = "2006-01-02 15:04:05"

// DateParseError reports a timestamp that does not match TimestampLayout
type DateParseError struct {
	Field string
	Value string
	Err   error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("invalid %s '%s': expected format YYYY-MM-DD HH:mm:ss: %v", e.Field, e.Value, e.Err)
}

func (e *DateParseError) Unwrap() error {
	return e.Err
}

// ParseTimestamp parses a naive local timestamp. No timezone conversion is applied;
// the result is anchored in UTC so comparisons are purely wall-clock.
func ParseTimestamp(field, value string) (time.Time, error) {
	t, err := time.ParseInLocation(TimestampLayout, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return time.Time{}, &DateParseError{Field: field, Value: value, Err: err}
	}
	return t, nil
}

// FormatTimestamp renders t in TimestampLayout
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// Period is a closed interval [Start, End]
type Period struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// Bounds parses both ends of the period
func (p Period) Bounds() (start, end time.Time, err error) {
	start, err = ParseTimestamp("period start", p.Start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = ParseTimestamp("period end", p.End)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// QPeriod replaces the remanent of every transaction it covers with Fixed
type QPeriod struct {
	Period `yaml:",inline"`
	Fixed  decimal.Decimal `json:"fixed" yaml:"fixed"`
}

// PPeriod adds Extra to the remanent of every transaction it covers
type PPeriod struct {
	Period `yaml:",inline"`
	Extra  decimal.Decimal `json:"extra" yaml:"extra"`
}

// KPeriod is an evaluation window used to aggregate remanents
type KPeriod struct {
	Period `yaml:",inline"`
}

// KPeriodSum is the total remanent collected inside one K period
type KPeriodSum struct {
	Period KPeriod
	Amount decimal.Decimal
}

// Span is a pre-parsed period, used to avoid re-parsing bounds per comparison
type Span struct {
	Start time.Time
	End   time.Time
}

// NewSpan parses p into a Span
func NewSpan(p Period) (Span, error) {
	start, end, err := p.Bounds()
	if err != nil {
		return Span{}, err
	}
	return Span{Start: start, End: end}, nil
}

// Contains reports whether t lies in [Start, End]
func (s Span) Contains(t time.Time) bool {
	return !t.Before(s.Start) && !t.After(s.End)
}
