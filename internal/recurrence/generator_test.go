package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustValidate(t *testing.T, r Rule) Rule {
	t.Helper()
	v, err := r.Validate()
	require.NoError(t, err)
	return v
}

func collect(t *testing.T, r Rule, max int) []time.Time {
	t.Helper()
	var out []time.Time
	g := r.Generate()
	for len(out) < max {
		c, ok := g.Next()
		if !ok {
			break
		}
		out = append(out, c)
	}
	return out
}

func TestGenerateRestartable(t *testing.T) {
	r := mustValidate(t, Rule{
		Freq: Weekly, Interval: 2, Start: date(2024, time.January, 1, 9, 0),
		Weekdays: []time.Weekday{time.Monday, time.Wednesday, time.Friday},
	})

	first := collect(t, r, 50)
	second := collect(t, r, 50)
	require.Len(t, first, 50)
	require.Equal(t, first, second)
}

func TestGenerateCountBound(t *testing.T) {
	r := mustValidate(t, Rule{Freq: Daily, Interval: 3, Start: date(2024, time.March, 1, 8, 30), Count: 7})

	got := collect(t, r, 100)
	require.Len(t, got, 7)
	for i, c := range got {
		assert.True(t, c.Equal(date(2024, time.March, 1+3*i, 8, 30)), "occurrence %d", i)
	}
}

func TestGenerateMonthlyDay31SkipsShortMonths(t *testing.T) {
	r := mustValidate(t, Rule{
		Freq: Monthly, Interval: 1, MonthDay: 31,
		Start: date(2024, time.January, 31, 0, 0),
		Until: date(2024, time.December, 31, 0, 0),
	})

	want := []time.Time{
		date(2024, time.January, 31, 0, 0),
		date(2024, time.March, 31, 0, 0),
		date(2024, time.May, 31, 0, 0),
		date(2024, time.July, 31, 0, 0),
		date(2024, time.August, 31, 0, 0),
		date(2024, time.October, 31, 0, 0),
		date(2024, time.December, 31, 0, 0),
	}
	got := collect(t, r, 100)
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, got[i].Equal(want[i]), "occurrence %d: got %v want %v", i, got[i], want[i])
	}
}

func TestGenerateBiweeklyMultiWeekday(t *testing.T) {
	r := mustValidate(t, Rule{
		Freq: Weekly, Interval: 2, Count: 4,
		Start:    date(2024, time.January, 1, 0, 0), // Monday
		Weekdays: []time.Weekday{time.Monday, time.Wednesday},
	})

	want := []time.Time{
		date(2024, time.January, 1, 0, 0),
		date(2024, time.January, 3, 0, 0),
		date(2024, time.January, 15, 0, 0),
		date(2024, time.January, 17, 0, 0),
	}
	got := collect(t, r, 10)
	require.Len(t, got, 4)
	for i := range want {
		assert.True(t, got[i].Equal(want[i]), "occurrence %d: got %v", i, got[i])
	}
}

func TestGenerateWeeklySkipsSameWeekBeforeStart(t *testing.T) {
	// Start on a Wednesday with Monday also selected: the Monday of the
	// starting week precedes the anchor and must not be emitted or counted.
	r := mustValidate(t, Rule{
		Freq: Weekly, Interval: 1, Count: 3,
		Start:    date(2024, time.January, 3, 12, 0), // Wednesday
		Weekdays: []time.Weekday{time.Monday, time.Wednesday},
	})

	want := []time.Time{
		date(2024, time.January, 3, 12, 0),
		date(2024, time.January, 8, 12, 0),
		date(2024, time.January, 10, 12, 0),
	}
	got := collect(t, r, 10)
	require.Len(t, got, 3)
	for i := range want {
		assert.True(t, got[i].Equal(want[i]), "occurrence %d: got %v", i, got[i])
	}
}

func TestGenerateYearlyLeapDay(t *testing.T) {
	r := mustValidate(t, Rule{Freq: Yearly, Interval: 1, Start: date(2024, time.February, 29, 10, 0), Count: 3})

	want := []time.Time{
		date(2024, time.February, 29, 10, 0),
		date(2028, time.February, 29, 10, 0),
		date(2032, time.February, 29, 10, 0),
	}
	got := collect(t, r, 10)
	require.Len(t, got, 3)
	for i := range want {
		assert.True(t, got[i].Equal(want[i]), "occurrence %d: got %v", i, got[i])
	}
}

func TestGenerateUntilInclusive(t *testing.T) {
	start := date(2024, time.June, 1, 18, 0)

	t.Run("candidate exactly at until is emitted", func(t *testing.T) {
		r := mustValidate(t, Rule{Freq: Daily, Interval: 1, Start: start, Until: date(2024, time.June, 3, 18, 0)})
		got := collect(t, r, 10)
		require.Len(t, got, 3)
	})

	t.Run("until mid-period cuts the next candidate", func(t *testing.T) {
		// Until at noon on the 3rd: that day's 18:00 candidate is past it.
		r := mustValidate(t, Rule{Freq: Daily, Interval: 1, Start: start, Until: date(2024, time.June, 3, 12, 0)})
		got := collect(t, r, 10)
		require.Len(t, got, 2)
	})
}

func TestGenerateKeepsWallClockAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// US spring-forward was 2024-03-10.
	start := time.Date(2024, time.March, 8, 9, 0, 0, 0, ny)
	r := mustValidate(t, Rule{Freq: Daily, Interval: 1, Start: start, Count: 5})

	got := collect(t, r, 10)
	require.Len(t, got, 5)
	for i, c := range got {
		assert.Equal(t, 9, c.Hour(), "occurrence %d keeps 09:00 wall time", i)
		assert.Equal(t, 8+i, c.Day())
	}
	// Across the transition the absolute gap shrinks to 23 hours.
	assert.Equal(t, 23*time.Hour, got[2].Sub(got[1]))
}

func TestGenerateMonthlyNthWeekday(t *testing.T) {
	// Second Tuesday, every month.
	r := mustValidate(t, Rule{
		Freq: Monthly, Interval: 1, Count: 4,
		Start: date(2024, time.January, 9, 9, 0),
		Nth:   &NthWeekday{N: 2, Weekday: time.Tuesday},
	})

	want := []time.Time{
		date(2024, time.January, 9, 9, 0),
		date(2024, time.February, 13, 9, 0),
		date(2024, time.March, 12, 9, 0),
		date(2024, time.April, 9, 9, 0),
	}
	got := collect(t, r, 10)
	require.Len(t, got, 4)
	for i := range want {
		assert.True(t, got[i].Equal(want[i]), "occurrence %d: got %v", i, got[i])
	}
}

func TestSingleYieldsExactlyOneOccurrence(t *testing.T) {
	start := date(2024, time.May, 14, 15, 30)
	r, err := Single(start).Validate()
	require.NoError(t, err)

	got := collect(t, r, 10)
	require.Len(t, got, 1)
	assert.True(t, got[0].Equal(start))
}

func TestOccursAt(t *testing.T) {
	r := mustValidate(t, Rule{
		Freq: Weekly, Interval: 2, Start: date(2024, time.January, 1, 9, 0),
		Weekdays: []time.Weekday{time.Monday, time.Wednesday},
	})

	assert.True(t, r.OccursAt(date(2024, time.January, 1, 9, 0)))
	assert.True(t, r.OccursAt(date(2024, time.January, 17, 9, 0)))
	assert.False(t, r.OccursAt(date(2024, time.January, 8, 9, 0)), "off-interval week")
	assert.False(t, r.OccursAt(date(2024, time.January, 2, 9, 0)), "unselected weekday")
	assert.False(t, r.OccursAt(date(2024, time.January, 15, 10, 0)), "wrong wall time")
	assert.False(t, r.OccursAt(date(2023, time.December, 18, 9, 0)), "before start")

	bounded := mustValidate(t, Rule{Freq: Daily, Interval: 1, Start: date(2024, time.January, 1, 9, 0), Count: 3})
	assert.True(t, bounded.OccursAt(date(2024, time.January, 3, 9, 0)))
	assert.False(t, bounded.OccursAt(date(2024, time.January, 4, 9, 0)), "past count bound")
}

func TestSeekPeriodMatchesFullScan(t *testing.T) {
	rules := []Rule{
		mustValidate(t, Rule{Freq: Daily, Interval: 3, Start: date(2024, time.January, 1, 9, 0)}),
		mustValidate(t, Rule{Freq: Weekly, Interval: 2, Start: date(2024, time.January, 1, 9, 0),
			Weekdays: []time.Weekday{time.Monday, time.Thursday}}),
		mustValidate(t, Rule{Freq: Monthly, Interval: 1, MonthDay: 31, Start: date(2024, time.January, 31, 9, 0)}),
		mustValidate(t, Rule{Freq: Yearly, Interval: 2, Start: date(2024, time.February, 29, 9, 0)}),
	}
	from := date(2031, time.June, 15, 0, 0)
	to := date(2032, time.June, 15, 0, 0)

	for _, r := range rules {
		// Reference: linear scan from the rule's start.
		var want []time.Time
		g := r.Generate()
		for {
			c, ok := g.Next()
			if !ok || !c.Before(to) {
				break
			}
			if !c.Before(from) {
				want = append(want, c)
			}
		}

		var got []time.Time
		s := r.generateFrom(from)
		for {
			c, ok := s.Next()
			if !ok || !c.Before(to) {
				break
			}
			if !c.Before(from) {
				got = append(got, c)
			}
		}

		require.Equal(t, len(want), len(got), "freq %s", r.Freq)
		for i := range want {
			assert.True(t, got[i].Equal(want[i]), "freq %s occurrence %d", r.Freq, i)
		}
	}
}

func TestSeekPeriodClampsBeforeStart(t *testing.T) {
	r := mustValidate(t, Rule{Freq: Daily, Interval: 1, Start: date(2024, time.January, 1, 9, 0)})
	assert.Equal(t, 0, r.seekPeriod(date(2020, time.January, 1, 0, 0)))
}
