package recurrence

import "time"

// Generator walks a rule's candidate occurrence instants in chronological
// order. It is a pure function of the rule: two generators over the same
// rule produce identical sequences. Unbounded rules yield forever; the
// caller decides when to stop.
//
// Candidates are built with wall-clock arithmetic in the rule's zone, so
// a 09:00 daily series stays at 09:00 across daylight-saving transitions.
type Generator struct {
	rule    Rule
	period  int
	queue   []time.Time
	emitted int
	done    bool
}

// Generate returns a generator positioned before the rule's first occurrence.
func (r Rule) Generate() *Generator {
	g := &Generator{rule: r}
	g.loadPeriod()
	return g
}

// generateFrom returns a generator seeked near from using closed-form
// period arithmetic, so the cost of a window query does not depend on the
// distance between from and the rule's start. Only valid for rules without
// a count bound (a count bound makes the occurrence index part of the
// rule's semantics, so those are enumerated from the start).
func (r Rule) generateFrom(from time.Time) *Generator {
	g := &Generator{rule: r, period: r.seekPeriod(from)}
	g.loadPeriod()
	return g
}

// Next returns the next candidate instant, or ok=false once the rule's
// bound is exhausted.
func (g *Generator) Next() (time.Time, bool) {
	r := g.rule
	for {
		if g.done {
			return time.Time{}, false
		}
		if r.Count > 0 && g.emitted >= r.Count {
			g.done = true
			return time.Time{}, false
		}
		for len(g.queue) > 0 {
			t := g.queue[0]
			g.queue = g.queue[1:]
			if t.Before(r.Start) {
				continue
			}
			if !r.Until.IsZero() && t.After(r.Until) {
				g.done = true
				return time.Time{}, false
			}
			g.emitted++
			return t, true
		}
		g.period++
		if !r.Until.IsZero() && g.rule.periodFloor(g.period).After(r.Until) {
			g.done = true
			return time.Time{}, false
		}
		g.loadPeriod()
	}
}

func (g *Generator) loadPeriod() {
	g.queue = g.rule.candidatesIn(g.period)
}

// candidatesIn enumerates the constrained instants inside the p-th visited
// period, in chronological order and before start/bound filtering. A period
// may legitimately be empty: a monthly day-31 rule skips short months, a
// yearly Feb 29 rule skips common years.
func (r Rule) candidatesIn(p int) []time.Time {
	switch r.Freq {
	case Daily:
		return []time.Time{r.onDate(r.Start.Year(), r.Start.Month(), r.Start.Day()+p*r.Interval)}

	case Weekly:
		baseDay := r.Start.Day() - mondayOffset(r.Start.Weekday()) + p*r.Interval*7
		out := make([]time.Time, 0, len(r.Weekdays))
		for _, off := range weekdayOffsets(r.Weekdays) {
			out = append(out, r.onDate(r.Start.Year(), r.Start.Month(), baseDay+off))
		}
		return out

	case Monthly:
		mi := monthIndex(r.Start.Year(), r.Start.Month()) + p*r.Interval
		y, m := mi/12, time.Month(mi%12+1)
		day := r.MonthDay
		if r.Nth != nil {
			var ok bool
			day, ok = nthWeekdayOfMonth(y, m, *r.Nth)
			if !ok {
				return nil
			}
		}
		if day > daysIn(y, m) {
			return nil
		}
		return []time.Time{r.onDate(y, m, day)}

	case Yearly:
		y := r.Start.Year() + p*r.Interval
		if r.Day > daysIn(y, r.Month) {
			return nil
		}
		return []time.Time{r.onDate(y, r.Month, r.Day)}
	}
	return nil
}

// periodFloor is a lower bound (midnight, rule zone) for every candidate
// in period p, used to terminate until-bounded iteration across empty
// periods.
func (r Rule) periodFloor(p int) time.Time {
	switch r.Freq {
	case Daily:
		return time.Date(r.Start.Year(), r.Start.Month(), r.Start.Day()+p*r.Interval, 0, 0, 0, 0, r.Location)
	case Weekly:
		day := r.Start.Day() - mondayOffset(r.Start.Weekday()) + p*r.Interval*7
		return time.Date(r.Start.Year(), r.Start.Month(), day, 0, 0, 0, 0, r.Location)
	case Monthly:
		mi := monthIndex(r.Start.Year(), r.Start.Month()) + p*r.Interval
		return time.Date(mi/12, time.Month(mi%12+1), 1, 0, 0, 0, 0, r.Location)
	default:
		return time.Date(r.Start.Year()+p*r.Interval, time.January, 1, 0, 0, 0, 0, r.Location)
	}
}

// seekPeriod computes the index of the last period starting at or before
// from, clamped to the first period. O(1) for every frequency.
func (r Rule) seekPeriod(from time.Time) int {
	from = from.In(r.Location)
	var diff int
	switch r.Freq {
	case Daily:
		diff = civilDays(from) - civilDays(r.Start)
	case Weekly:
		diff = (civilDays(mondayOf(from)) - civilDays(mondayOf(r.Start))) / 7
	case Monthly:
		diff = monthIndex(from.Year(), from.Month()) - monthIndex(r.Start.Year(), r.Start.Month())
	case Yearly:
		diff = from.Year() - r.Start.Year()
	}
	p := floorDiv(diff, r.Interval)
	if p < 0 {
		p = 0
	}
	return p
}

// OccursAt reports whether t is a raw candidate occurrence of the rule
// (before any overlay). Closed-form except for count-bounded rules, which
// are enumerated since the bound depends on the occurrence index.
func (r Rule) OccursAt(t time.Time) bool {
	t = t.In(r.Location)
	if t.Before(r.Start) {
		return false
	}
	if !r.Until.IsZero() && t.After(r.Until) {
		return false
	}

	if r.Count > 0 {
		g := r.Generate()
		for {
			c, ok := g.Next()
			if !ok || c.After(t) {
				return false
			}
			if c.Equal(t) {
				return true
			}
		}
	}

	// Wall-clock identity: rebuilding the candidate on t's date must land
	// exactly on t (this also resolves DST-shifted instants consistently).
	if !r.onDate(t.Year(), t.Month(), t.Day()).Equal(t) {
		return false
	}

	switch r.Freq {
	case Daily:
		return (civilDays(t)-civilDays(r.Start))%r.Interval == 0
	case Weekly:
		if !containsWeekday(r.Weekdays, t.Weekday()) {
			return false
		}
		weeks := (civilDays(mondayOf(t)) - civilDays(mondayOf(r.Start))) / 7
		return weeks%r.Interval == 0
	case Monthly:
		if r.Nth != nil {
			day, ok := nthWeekdayOfMonth(t.Year(), t.Month(), *r.Nth)
			if !ok || day != t.Day() {
				return false
			}
		} else if t.Day() != r.MonthDay {
			return false
		}
		months := monthIndex(t.Year(), t.Month()) - monthIndex(r.Start.Year(), r.Start.Month())
		return months%r.Interval == 0
	case Yearly:
		if t.Month() != r.Month || t.Day() != r.Day {
			return false
		}
		return (t.Year()-r.Start.Year())%r.Interval == 0
	}
	return false
}

// onDate places the rule's wall-clock time-of-day onto the given civil
// date in the rule's zone. time.Date normalizes out-of-range days, which
// is what daily/weekly arithmetic relies on.
func (r Rule) onDate(year int, month time.Month, day int) time.Time {
	hh, mm, ss := r.Start.Clock()
	return time.Date(year, month, day, hh, mm, ss, r.Start.Nanosecond(), r.Location)
}

// mondayOffset maps a weekday to its offset from Monday (Mon=0 .. Sun=6).
// Weeks are anchored on Monday so multi-weekday rules enumerate a stable
// chronological order inside each week.
func mondayOffset(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

func weekdayOffsets(set []time.Weekday) []int {
	out := make([]int, 0, len(set))
	for _, wd := range set {
		out = append(out, mondayOffset(wd))
	}
	// Insertion sort; the set has at most seven entries.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func mondayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()-mondayOffset(t.Weekday()), 0, 0, 0, 0, t.Location())
}

func monthIndex(year int, month time.Month) int {
	return year*12 + int(month) - 1
}

// civilDays counts whole days since the Unix epoch for t's civil date,
// independent of zone offset or DST.
func civilDays(t time.Time) int {
	return int(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
