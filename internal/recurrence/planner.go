package recurrence

import (
	"sort"
	"time"
)

// Plan materializes the effective occurrences of a rule+overlay that fall
// inside the half-open window [from, to), in chronological order.
//
// Count-bounded rules are enumerated in full and filtered (the bound keeps
// that cheap); all other rules seek directly to the window, so cost is
// O(occurrences inside it) regardless of how far from lies past the start.
//
// Overrides are honored on both sides of the window edge: an occurrence
// retimed out of the window is excluded, one retimed into it from an
// original instant outside the window is included exactly once.
func Plan(r Rule, o Overlay, from, to time.Time) []Occurrence {
	if !to.After(from) {
		return nil
	}

	var out []Occurrence

	for _, c := range candidatesInWindow(r, from, to) {
		e, ok := o.at(c)
		if ok && e.Cancel {
			continue
		}
		eff := c
		if ok && e.NewStart != nil {
			eff = *e.NewStart
		}
		if eff.Before(from) || !eff.Before(to) {
			continue
		}
		out = append(out, Occurrence{Start: eff, Original: c, Overridden: ok})
	}

	// Overrides whose new start moved into the window from an original
	// instant outside it. The original must be a genuine occurrence of
	// the rule; stale exceptions pointing nowhere are ignored.
	for _, e := range o {
		if e.Cancel || e.NewStart == nil {
			continue
		}
		eff := *e.NewStart
		if eff.Before(from) || !eff.Before(to) {
			continue
		}
		if inWindow(e.Target, from, to) {
			continue // already handled above
		}
		if !r.OccursAt(e.Target) {
			continue
		}
		out = append(out, Occurrence{Start: eff, Original: e.Target, Overridden: true})
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].Original.Before(out[j].Original)
	})
	return out
}

func candidatesInWindow(r Rule, from, to time.Time) []time.Time {
	var out []time.Time
	if r.Count > 0 {
		g := r.Generate()
		for {
			c, ok := g.Next()
			if !ok {
				break
			}
			if inWindow(c, from, to) {
				out = append(out, c)
			}
		}
		return out
	}

	g := r.generateFrom(from)
	for {
		c, ok := g.Next()
		if !ok || !c.Before(to) {
			break
		}
		if !c.Before(from) {
			out = append(out, c)
		}
	}
	return out
}

func inWindow(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}
