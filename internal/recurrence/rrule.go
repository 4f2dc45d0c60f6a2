package recurrence

import (
	"time"

	"github.com/teambition/rrule-go"
)

// ParseRRule converts a client-supplied RFC 5545 RRULE string (for example
// "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,WE") anchored at start into a validated
// Rule. Only the subset the engine supports is accepted; anything else is
// rejected up front rather than silently ignored.
func ParseRRule(s string, start time.Time) (Rule, error) {
	opt, err := rrule.StrToROption(s)
	if err != nil {
		return Rule{}, invalid("rrule", err.Error())
	}

	if len(opt.Bysetpos) > 0 || len(opt.Byyearday) > 0 || len(opt.Byweekno) > 0 ||
		len(opt.Byhour) > 0 || len(opt.Byminute) > 0 || len(opt.Bysecond) > 0 ||
		len(opt.Byeaster) > 0 {
		return Rule{}, invalid("rrule", "unsupported rule part")
	}

	r := Rule{
		Interval: opt.Interval,
		Start:    start,
		Location: start.Location(),
		Count:    opt.Count,
	}
	if r.Interval == 0 {
		r.Interval = 1
	}
	if !opt.Until.IsZero() {
		r.Until = opt.Until
	}

	switch opt.Freq {
	case rrule.DAILY:
		r.Freq = Daily
		if len(opt.Byweekday) > 0 || len(opt.Bymonthday) > 0 || len(opt.Bymonth) > 0 {
			return Rule{}, invalid("rrule", "daily rules take no BY* constraints")
		}

	case rrule.WEEKLY:
		r.Freq = Weekly
		if len(opt.Bymonthday) > 0 || len(opt.Bymonth) > 0 {
			return Rule{}, invalid("rrule", "weekly rules only support BYDAY")
		}
		for _, wd := range opt.Byweekday {
			if wd.N() != 0 {
				return Rule{}, invalid("rrule", "ordinal BYDAY is only valid for monthly rules")
			}
			r.Weekdays = append(r.Weekdays, goWeekday(wd))
		}

	case rrule.MONTHLY:
		r.Freq = Monthly
		if len(opt.Bymonth) > 0 {
			return Rule{}, invalid("rrule", "monthly rules take no BYMONTH")
		}
		switch {
		case len(opt.Bymonthday) > 1 || len(opt.Byweekday) > 1:
			return Rule{}, invalid("rrule", "monthly rules support a single BYMONTHDAY or BYDAY value")
		case len(opt.Bymonthday) == 1 && len(opt.Byweekday) == 1:
			return Rule{}, invalid("rrule", "BYMONTHDAY and BYDAY are mutually exclusive")
		case len(opt.Bymonthday) == 1:
			if opt.Bymonthday[0] < 1 {
				return Rule{}, invalid("rrule", "negative BYMONTHDAY is not supported")
			}
			r.MonthDay = opt.Bymonthday[0]
		case len(opt.Byweekday) == 1:
			wd := opt.Byweekday[0]
			if wd.N() == 0 {
				return Rule{}, invalid("rrule", "monthly BYDAY requires an ordinal, e.g. 2TU")
			}
			r.Nth = &NthWeekday{N: wd.N(), Weekday: goWeekday(wd)}
		}

	case rrule.YEARLY:
		r.Freq = Yearly
		if len(opt.Byweekday) > 0 {
			return Rule{}, invalid("rrule", "yearly rules take no BYDAY")
		}
		if len(opt.Bymonth) > 1 || len(opt.Bymonthday) > 1 {
			return Rule{}, invalid("rrule", "yearly rules support a single BYMONTH/BYMONTHDAY value")
		}
		if len(opt.Bymonth) == 1 {
			r.Month = time.Month(opt.Bymonth[0])
		}
		if len(opt.Bymonthday) == 1 {
			if opt.Bymonthday[0] < 1 {
				return Rule{}, invalid("rrule", "negative BYMONTHDAY is not supported")
			}
			r.Day = opt.Bymonthday[0]
		}
		// One of month/day given without the other: fill from the anchor.
		if r.Month != 0 && r.Day == 0 {
			r.Day = start.Day()
		}
		if r.Day != 0 && r.Month == 0 {
			r.Month = start.Month()
		}

	default:
		return Rule{}, invalid("rrule", "only DAILY, WEEKLY, MONTHLY and YEARLY frequencies are supported")
	}

	return r.Validate()
}

// goWeekday maps rrule's Monday-based weekday to time.Weekday.
func goWeekday(wd rrule.Weekday) time.Weekday {
	return time.Weekday((wd.Day() + 1) % 7)
}
