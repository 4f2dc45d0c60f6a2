// Package recurrence turns a stored recurrence rule into concrete,
// time-zone-correct occurrences on demand. Rules are validated tagged
// variants (one constraint shape per frequency); expansion is lazy and
// window queries seek in closed form instead of scanning from the start.
package recurrence

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

var ErrInvalidRule = errors.New("invalid recurrence rule")

// InvalidRuleError reports which field of a rule was rejected and why.
// It unwraps to ErrInvalidRule so callers can match the whole class.
type InvalidRuleError struct {
	Field  string
	Reason string
}

func (e *InvalidRuleError) Error() string {
	return fmt.Sprintf("invalid recurrence rule: %s: %s", e.Field, e.Reason)
}

func (e *InvalidRuleError) Unwrap() error { return ErrInvalidRule }

func invalid(field, reason string) error {
	return &InvalidRuleError{Field: field, Reason: reason}
}

// NthWeekday selects the n-th weekday of a month (n in 1..5, or -1 for
// the last one), e.g. {2, Tuesday} = second Tuesday.
type NthWeekday struct {
	N       int
	Weekday time.Weekday
}

// Rule describes how a series repeats. The zero value is not
// usable; construct one and pass it through Validate, or use Single.
//
// Exactly one bound applies: Count > 0, a non-zero Until, or neither
// (unbounded). Until is inclusive: a candidate falling exactly on it is
// emitted. Constraint fields are only meaningful for their frequency.
type Rule struct {
	Freq     Frequency
	Interval int
	Start    time.Time
	Location *time.Location

	Count int
	Until time.Time

	// Weekly: weekdays on which occurrences fall. Defaults to Start's weekday.
	Weekdays []time.Weekday

	// Monthly: either a fixed day of month (1..31) or an NthWeekday.
	// A month without the requested day is skipped, never rolled over.
	MonthDay int
	Nth      *NthWeekday

	// Yearly: month and day. Feb 29 occurs only in leap years.
	Month time.Month
	Day   int
}

// Single returns the degenerate rule yielding exactly the one occurrence
// at start. Non-recurring entities go through the same query path with it.
func Single(start time.Time) Rule {
	return Rule{
		Freq:     Daily,
		Interval: 1,
		Count:    1,
		Start:    start,
		Location: start.Location(),
	}
}

// Validate checks the rule and returns a normalized copy: the start
// anchor rebased into the rule's zone, constraint defaults filled in
// from the anchor, weekday sets deduplicated and ordered. The returned
// rule's start is always itself a valid occurrence; the generator never
// searches backward before it.
func (r Rule) Validate() (Rule, error) {
	switch r.Freq {
	case Daily, Weekly, Monthly, Yearly:
	default:
		return Rule{}, invalid("frequency", fmt.Sprintf("unknown frequency %q", string(r.Freq)))
	}

	if r.Interval < 1 {
		return Rule{}, invalid("interval", "must be at least 1")
	}
	if r.Start.IsZero() {
		return Rule{}, invalid("start", "required")
	}

	if r.Location == nil {
		r.Location = r.Start.Location()
	}
	r.Start = r.Start.In(r.Location)

	if r.Count < 0 {
		return Rule{}, invalid("count", "must be at least 1")
	}
	if r.Count > 0 && !r.Until.IsZero() {
		return Rule{}, invalid("until", "count and until are mutually exclusive")
	}
	if !r.Until.IsZero() {
		r.Until = r.Until.In(r.Location)
		if r.Until.Before(r.Start) {
			return Rule{}, invalid("until", "before start")
		}
	}

	if err := r.checkConstraintShape(); err != nil {
		return Rule{}, err
	}

	switch r.Freq {
	case Weekly:
		if len(r.Weekdays) == 0 {
			r.Weekdays = []time.Weekday{r.Start.Weekday()}
		} else {
			r.Weekdays = normalizeWeekdays(r.Weekdays)
		}
	case Monthly:
		if r.MonthDay == 0 && r.Nth == nil {
			r.MonthDay = r.Start.Day()
		}
		if r.MonthDay != 0 && (r.MonthDay < 1 || r.MonthDay > 31) {
			return Rule{}, invalid("month_day", "must be in 1..31")
		}
		if r.Nth != nil {
			if r.Nth.N != -1 && (r.Nth.N < 1 || r.Nth.N > 5) {
				return Rule{}, invalid("nth_weekday", "ordinal must be in 1..5 or -1 for last")
			}
			if r.Nth.Weekday < time.Sunday || r.Nth.Weekday > time.Saturday {
				return Rule{}, invalid("nth_weekday", "unknown weekday")
			}
		}
	case Yearly:
		if r.Month == 0 && r.Day == 0 {
			r.Month = r.Start.Month()
			r.Day = r.Start.Day()
		}
		if r.Month < time.January || r.Month > time.December {
			return Rule{}, invalid("month", "must be in 1..12")
		}
		maxDay := daysIn(2000, r.Month) // leap reference year, admits Feb 29
		if r.Day < 1 || r.Day > maxDay {
			return Rule{}, invalid("day", fmt.Sprintf("must be in 1..%d for %s", maxDay, r.Month))
		}
	}

	if err := r.checkStartMatches(); err != nil {
		return Rule{}, err
	}

	return r, nil
}

// checkConstraintShape rejects constraint fields that do not belong to
// the rule's frequency, eliminating invalid combinations by construction.
func (r Rule) checkConstraintShape() error {
	if r.Freq != Weekly && len(r.Weekdays) > 0 {
		return invalid("weekdays", "only valid for weekly rules")
	}
	if r.Freq != Monthly {
		if r.MonthDay != 0 {
			return invalid("month_day", "only valid for monthly rules")
		}
		if r.Nth != nil {
			return invalid("nth_weekday", "only valid for monthly rules")
		}
	}
	if r.Freq != Yearly && (r.Month != 0 || r.Day != 0) {
		return invalid("month", "month/day only valid for yearly rules")
	}
	if r.MonthDay != 0 && r.Nth != nil {
		return invalid("month_day", "day of month and nth weekday are mutually exclusive")
	}
	for _, wd := range r.Weekdays {
		if wd < time.Sunday || wd > time.Saturday {
			return invalid("weekdays", "unknown weekday")
		}
	}
	return nil
}

// checkStartMatches enforces the anchor invariant: the rule's own start
// must satisfy the rule's constraints.
func (r Rule) checkStartMatches() error {
	switch r.Freq {
	case Weekly:
		if !containsWeekday(r.Weekdays, r.Start.Weekday()) {
			return invalid("start", "start weekday is not in the weekday set")
		}
	case Monthly:
		if r.MonthDay != 0 && r.Start.Day() != r.MonthDay {
			return invalid("start", "start day does not match day-of-month constraint")
		}
		if r.Nth != nil {
			day, ok := nthWeekdayOfMonth(r.Start.Year(), r.Start.Month(), *r.Nth)
			if !ok || day != r.Start.Day() {
				return invalid("start", "start is not the requested nth weekday of its month")
			}
		}
	case Yearly:
		if r.Start.Month() != r.Month || r.Start.Day() != r.Day {
			return invalid("start", "start does not match month/day constraint")
		}
	}
	return nil
}

func normalizeWeekdays(in []time.Weekday) []time.Weekday {
	seen := make(map[time.Weekday]bool, len(in))
	out := make([]time.Weekday, 0, len(in))
	for _, wd := range in {
		if !seen[wd] {
			seen[wd] = true
			out = append(out, wd)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func containsWeekday(set []time.Weekday, wd time.Weekday) bool {
	for _, w := range set {
		if w == wd {
			return true
		}
	}
	return false
}

func daysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// nthWeekdayOfMonth resolves e.g. "second Tuesday of 2024-01" to a day
// number. ok is false when the month has no such weekday (n = 5).
func nthWeekdayOfMonth(year int, month time.Month, nth NthWeekday) (int, bool) {
	last := daysIn(year, month)
	if nth.N == -1 {
		lastWd := time.Date(year, month, last, 0, 0, 0, 0, time.UTC).Weekday()
		return last - int((lastWd-nth.Weekday+7)%7), true
	}
	firstWd := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()
	day := 1 + int((nth.Weekday-firstWd+7)%7) + (nth.N-1)*7
	if day > last {
		return 0, false
	}
	return day, true
}
