package planner

type EventKind string

const (
	EventHoliday  EventKind = "holiday"
	EventPlan     EventKind = "plan"
	EventVacation EventKind = "vacation"
)

type UpcomingEvent struct {
	Kind  EventKind `json:"type"`
	Title string    `json:"title"`
	Tag   Tag       `json:"tag,omitempty"`
	Notes string    `json:"notes,omitempty"`
}

type UpcomingDay struct {
	Date   string          `json:"date"`
	Events []UpcomingEvent `json:"events"`
}

// Upcoming lists, for each of the n days from `from`, the bank holiday, the
// plans and the vacation marker of that day. Days without events are skipped.
// The result is computed on demand and never cached.
func Upcoming(days map[string]DayRecord, bank BankHolidaySet, from Date, n int, includeBankHolidays bool) []UpcomingDay {
	out := []UpcomingDay{}
	for i := 0; i < n; i++ {
		date := from.AddDays(i).String()
		var events []UpcomingEvent

		if h, ok := bank[date]; ok && includeBankHolidays {
			events = append(events, UpcomingEvent{Kind: EventHoliday, Title: h.Name})
		}
		day := days[date]
		for _, p := range day.Plans {
			events = append(events, UpcomingEvent{Kind: EventPlan, Title: p.Title, Tag: p.Tag, Notes: p.Notes})
		}
		if day.IsVacation {
			events = append(events, UpcomingEvent{Kind: EventVacation, Title: "Vacation"})
		}

		if len(events) > 0 {
			out = append(out, UpcomingDay{Date: date, Events: events})
		}
	}
	return out
}

// CountEvents sums the events across days (header badge).
func CountEvents(days []UpcomingDay) int {
	n := 0
	for _, d := range days {
		n += len(d.Events)
	}
	return n
}
