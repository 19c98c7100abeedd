package planner

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Timezone-naive calendar date
// =============================================================================

// DateLayout is the wire format of every date in the planner.
const DateLayout = "2006-01-02"

// Date is a calendar day with no time zone. The zero value is invalid.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return Date{t: t}, nil
}

// MustParseDate is ParseDate for literals; it panics on bad input.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DateOf drops the clock and zone of t, keeping its local calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func Today() Date { return DateOf(time.Now()) }

// Comparison
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int              { return d.t.Year() }
func (d Date) Month() time.Month      { return d.t.Month() }
func (d Date) Day() int               { return d.t.Day() }
func (d Date) Weekday() time.Weekday  { return d.t.Weekday() }
func (d Date) IsZero() bool           { return d.t.IsZero() }
func (d Date) Time() time.Time        { return d.t }
func (d Date) String() string         { return d.t.Format(DateLayout) }
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// EachDay returns every date in [start, end]. Empty when start is after end.
func EachDay(start, end Date) []Date {
	if start.After(end) {
		return nil
	}
	days := make([]Date, 0, DaysBetween(start, end)+1)
	for d := start; !d.After(end); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// DaysBetween returns the whole days from start to end.
func DaysBetween(from, to Date) int {
	return int((to.t.Unix() - from.t.Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

// BankHolidaySet indexes bank holidays by YYYY-MM-DD.
type BankHolidaySet map[string]Holiday

func NewBankHolidaySet(holidays []Holiday) BankHolidaySet {
	set := make(BankHolidaySet, len(holidays))
	for _, h := range holidays {
		set[h.Date] = h
	}
	return set
}

func (s BankHolidaySet) IsHoliday(d Date) bool {
	_, ok := s[d.String()]
	return ok
}

// IsWorkingDay is false on weekends and bank holidays.
func IsWorkingDay(d Date, bankHolidays BankHolidaySet) bool {
	if d.IsWeekend() {
		return false
	}
	if bankHolidays.IsHoliday(d) {
		return false
	}
	return true
}
