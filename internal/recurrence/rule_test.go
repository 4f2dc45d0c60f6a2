package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestRuleValidate(t *testing.T) {
	start := date(2024, time.January, 1, 9, 0) // a Monday

	tests := []struct {
		name    string
		rule    Rule
		wantErr string
	}{
		{
			name: "valid daily",
			rule: Rule{Freq: Daily, Interval: 1, Start: start},
		},
		{
			name:    "zero interval",
			rule:    Rule{Freq: Daily, Interval: 0, Start: start},
			wantErr: "interval",
		},
		{
			name:    "unknown frequency",
			rule:    Rule{Freq: "hourly", Interval: 1, Start: start},
			wantErr: "frequency",
		},
		{
			name:    "missing start",
			rule:    Rule{Freq: Daily, Interval: 1},
			wantErr: "start",
		},
		{
			name:    "negative count",
			rule:    Rule{Freq: Daily, Interval: 1, Start: start, Count: -1},
			wantErr: "count",
		},
		{
			name:    "until before start",
			rule:    Rule{Freq: Daily, Interval: 1, Start: start, Until: start.Add(-time.Hour)},
			wantErr: "until",
		},
		{
			name:    "count and until together",
			rule:    Rule{Freq: Daily, Interval: 1, Start: start, Count: 3, Until: start.AddDate(0, 1, 0)},
			wantErr: "until",
		},
		{
			name:    "weekday set on a daily rule",
			rule:    Rule{Freq: Daily, Interval: 1, Start: start, Weekdays: []time.Weekday{time.Monday}},
			wantErr: "weekdays",
		},
		{
			name:    "month day on a weekly rule",
			rule:    Rule{Freq: Weekly, Interval: 1, Start: start, MonthDay: 15},
			wantErr: "month_day",
		},
		{
			name:    "month day out of range",
			rule:    Rule{Freq: Monthly, Interval: 1, Start: start, MonthDay: 32},
			wantErr: "month_day",
		},
		{
			name: "monthly day and nth weekday together",
			rule: Rule{Freq: Monthly, Interval: 1, Start: start, MonthDay: 1,
				Nth: &NthWeekday{N: 1, Weekday: time.Monday}},
			wantErr: "month_day",
		},
		{
			name:    "weekly start outside weekday set",
			rule:    Rule{Freq: Weekly, Interval: 1, Start: start, Weekdays: []time.Weekday{time.Tuesday}},
			wantErr: "start",
		},
		{
			name:    "monthly start not on constrained day",
			rule:    Rule{Freq: Monthly, Interval: 1, Start: start, MonthDay: 15},
			wantErr: "start",
		},
		{
			name:    "yearly start on wrong day",
			rule:    Rule{Freq: Yearly, Interval: 1, Start: start, Month: time.January, Day: 2},
			wantErr: "start",
		},
		{
			name: "yearly feb 29 allowed",
			rule: Rule{Freq: Yearly, Interval: 1, Start: date(2024, time.February, 29, 9, 0)},
		},
		{
			name:    "nth ordinal out of range",
			rule:    Rule{Freq: Monthly, Interval: 1, Start: start, Nth: &NthWeekday{N: 6, Weekday: time.Monday}},
			wantErr: "nth_weekday",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.rule.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.ErrorIs(t, err, ErrInvalidRule)
			var ire *InvalidRuleError
			require.ErrorAs(t, err, &ire)
			assert.Equal(t, tt.wantErr, ire.Field)
			assert.Zero(t, got)
		})
	}
}

func TestRuleValidateDefaults(t *testing.T) {
	start := date(2024, time.January, 15, 9, 0) // third Monday

	t.Run("weekly defaults to start weekday", func(t *testing.T) {
		r, err := Rule{Freq: Weekly, Interval: 1, Start: start}.Validate()
		require.NoError(t, err)
		assert.Equal(t, []time.Weekday{time.Monday}, r.Weekdays)
	})

	t.Run("monthly defaults to start day", func(t *testing.T) {
		r, err := Rule{Freq: Monthly, Interval: 1, Start: start}.Validate()
		require.NoError(t, err)
		assert.Equal(t, 15, r.MonthDay)
	})

	t.Run("yearly defaults to start month and day", func(t *testing.T) {
		r, err := Rule{Freq: Yearly, Interval: 1, Start: start}.Validate()
		require.NoError(t, err)
		assert.Equal(t, time.January, r.Month)
		assert.Equal(t, 15, r.Day)
	})

	t.Run("weekday set deduplicated and ordered", func(t *testing.T) {
		r, err := Rule{Freq: Weekly, Interval: 1, Start: start,
			Weekdays: []time.Weekday{time.Friday, time.Monday, time.Friday}}.Validate()
		require.NoError(t, err)
		assert.Equal(t, []time.Weekday{time.Monday, time.Friday}, r.Weekdays)
	})

	t.Run("start rebased into rule zone", func(t *testing.T) {
		ny, err := time.LoadLocation("America/New_York")
		require.NoError(t, err)
		r, err := Rule{Freq: Daily, Interval: 1, Start: start, Location: ny}.Validate()
		require.NoError(t, err)
		assert.Equal(t, ny, r.Start.Location())
		assert.True(t, r.Start.Equal(start))
	})

	t.Run("nil location falls back to start's zone", func(t *testing.T) {
		ny, err := time.LoadLocation("America/New_York")
		require.NoError(t, err)
		zoned := time.Date(2024, time.March, 8, 9, 0, 0, 0, ny)
		r, err := Rule{Freq: Daily, Interval: 1, Start: zoned}.Validate()
		require.NoError(t, err)
		assert.Equal(t, ny, r.Location)
		assert.Equal(t, 9, r.Start.Hour())
	})
}

func TestNthWeekdayOfMonth(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		nth   NthWeekday
		day   int
		ok    bool
	}{
		{"second tuesday jan 2024", 2024, time.January, NthWeekday{2, time.Tuesday}, 9, true},
		{"first monday jan 2024", 2024, time.January, NthWeekday{1, time.Monday}, 1, true},
		{"fifth friday feb 2024", 2024, time.February, NthWeekday{5, time.Friday}, 0, false},
		{"last day-of-week feb 2024", 2024, time.February, NthWeekday{-1, time.Thursday}, 29, true},
		{"last sunday mar 2024", 2024, time.March, NthWeekday{-1, time.Sunday}, 31, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day, ok := nthWeekdayOfMonth(tt.year, tt.month, tt.nth)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.day, day)
			}
		})
	}
}
