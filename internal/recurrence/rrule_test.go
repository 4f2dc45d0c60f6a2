package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRRule(t *testing.T) {
	monday := date(2024, time.January, 1, 9, 0)

	tests := []struct {
		name  string
		rrule string
		start time.Time
		want  Rule
	}{
		{
			name:  "plain daily",
			rrule: "FREQ=DAILY",
			start: monday,
			want:  Rule{Freq: Daily, Interval: 1},
		},
		{
			name:  "biweekly by day",
			rrule: "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,WE",
			start: monday,
			want:  Rule{Freq: Weekly, Interval: 2, Weekdays: []time.Weekday{time.Monday, time.Wednesday}},
		},
		{
			name:  "daily with count",
			rrule: "FREQ=DAILY;COUNT=10",
			start: monday,
			want:  Rule{Freq: Daily, Interval: 1, Count: 10},
		},
		{
			name:  "monthly by month day",
			rrule: "FREQ=MONTHLY;BYMONTHDAY=31",
			start: date(2024, time.January, 31, 9, 0),
			want:  Rule{Freq: Monthly, Interval: 1, MonthDay: 31},
		},
		{
			name:  "monthly second tuesday",
			rrule: "FREQ=MONTHLY;BYDAY=2TU",
			start: date(2024, time.January, 9, 9, 0),
			want:  Rule{Freq: Monthly, Interval: 1, Nth: &NthWeekday{N: 2, Weekday: time.Tuesday}},
		},
		{
			name:  "yearly by month and day",
			rrule: "FREQ=YEARLY;BYMONTH=2;BYMONTHDAY=29",
			start: date(2024, time.February, 29, 9, 0),
			want:  Rule{Freq: Yearly, Interval: 1, Month: time.February, Day: 29},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRRule(tt.rrule, tt.start)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Freq, got.Freq)
			assert.Equal(t, tt.want.Interval, got.Interval)
			assert.Equal(t, tt.want.Count, got.Count)
			assert.True(t, got.Start.Equal(tt.start))
			if tt.want.Weekdays != nil {
				assert.Equal(t, tt.want.Weekdays, got.Weekdays)
			}
			if tt.want.MonthDay != 0 {
				assert.Equal(t, tt.want.MonthDay, got.MonthDay)
			}
			if tt.want.Nth != nil {
				require.NotNil(t, got.Nth)
				assert.Equal(t, *tt.want.Nth, *got.Nth)
			}
			if tt.want.Month != 0 {
				assert.Equal(t, tt.want.Month, got.Month)
				assert.Equal(t, tt.want.Day, got.Day)
			}
		})
	}
}

func TestParseRRuleUntil(t *testing.T) {
	start := date(2024, time.January, 1, 9, 0)
	got, err := ParseRRule("FREQ=DAILY;UNTIL=20240201T090000Z", start)
	require.NoError(t, err)
	assert.True(t, got.Until.Equal(date(2024, time.February, 1, 9, 0)))
}

func TestParseRRuleRejectsUnsupported(t *testing.T) {
	monday := date(2024, time.January, 1, 9, 0)

	tests := []struct {
		name  string
		rrule string
		start time.Time
	}{
		{"garbage", "FREQ=SOMETIMES", monday},
		{"hourly frequency", "FREQ=HOURLY", monday},
		{"bysetpos", "FREQ=MONTHLY;BYDAY=MO;BYSETPOS=2", monday},
		{"byhour", "FREQ=DAILY;BYHOUR=9", monday},
		{"monthday on weekly", "FREQ=WEEKLY;BYMONTHDAY=5", monday},
		{"ordinal byday on weekly", "FREQ=WEEKLY;BYDAY=2MO", monday},
		{"plain byday on monthly", "FREQ=MONTHLY;BYDAY=MO", monday},
		{"negative monthday", "FREQ=MONTHLY;BYMONTHDAY=-1", date(2024, time.January, 31, 9, 0)},
		{"multiple monthdays", "FREQ=MONTHLY;BYMONTHDAY=1,15", date(2024, time.January, 1, 9, 0)},
		{"start not matching constraint", "FREQ=WEEKLY;BYDAY=TU", monday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRRule(tt.rrule, tt.start)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidRule)
		})
	}
}
