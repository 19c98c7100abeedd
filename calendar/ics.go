// Package calendar converts planner data to and from iCalendar.
package calendar

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/warp/year-planner/internal/log"
	"github.com/warp/year-planner/planner"
)

const (
	productID = "-//warp//year-planner//EN"
	uidDomain = "year-planner"
	icsDate   = "20060102"
)

// ExportOptions controls what goes into an exported calendar.
type ExportOptions struct {
	IncludeHolidays bool
	Stamp           time.Time
}

// Export writes one all-day event per consolidated plan, spanning its first
// to last day, plus optionally one event per bank holiday.
func Export(plans []planner.ConsolidatedPlan, holidays []planner.Holiday, opts ExportOptions) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	stamp := opts.Stamp
	if stamp.IsZero() {
		stamp = time.Now().UTC()
	}

	for _, cp := range plans {
		start, err := planner.ParseDate(cp.StartDate)
		if err != nil {
			continue
		}
		end, err := planner.ParseDate(cp.EndDate)
		if err != nil {
			continue
		}

		ev := cal.AddEvent(cp.GroupID + "@" + uidDomain)
		ev.SetDtStampTime(stamp)
		ev.SetSummary(cp.Plan.Title)
		ev.SetAllDayStartAt(start.Time())
		// DTEND is exclusive for all-day events.
		ev.SetAllDayEndAt(end.AddDays(1).Time())
		ev.SetProperty(ical.ComponentPropertyCategories, string(cp.Plan.Tag))
		if cp.Plan.Notes != "" {
			ev.SetDescription(cp.Plan.Notes)
		}
		if cp.Plan.RequiresHoliday {
			ev.SetProperty(ical.ComponentPropertyTransp, "OPAQUE")
		} else {
			ev.SetProperty(ical.ComponentPropertyTransp, "TRANSPARENT")
		}
	}

	if opts.IncludeHolidays {
		for _, h := range holidays {
			d, err := planner.ParseDate(h.Date)
			if err != nil {
				continue
			}
			ev := cal.AddEvent("holiday-" + h.Date + "@" + uidDomain)
			ev.SetDtStampTime(stamp)
			ev.SetSummary(h.Name)
			ev.SetAllDayStartAt(d.Time())
			ev.SetAllDayEndAt(d.AddDays(1).Time())
			ev.SetProperty(ical.ComponentPropertyCategories, string(h.Type))
		}
	}

	return cal.Serialize()
}

// ImportHolidays reads all-day events from an ICS payload as bank holidays.
// Multi-day events yield one holiday per day. Timed events are skipped.
func ImportHolidays(r io.Reader, region string) ([]planner.Holiday, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read ics: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse ics: %w", err)
	}

	var out []planner.Holiday
	skipped := 0
	for _, ve := range cal.Events() {
		days, name, ok := holidayDays(ve)
		if !ok {
			skipped++
			continue
		}
		for _, d := range days {
			out = append(out, planner.Holiday{
				Date:   d.String(),
				Name:   name,
				Type:   planner.HolidayTypeBank,
				Region: region,
			})
		}
	}

	log.Info("ics holidays imported", "region", region, "holidays", len(out), "skipped", skipped)
	return out, nil
}

func holidayDays(ve *ical.VEvent) ([]planner.Date, string, bool) {
	startProp := ve.GetProperty(ical.ComponentPropertyDtStart)
	if startProp == nil {
		return nil, "", false
	}
	start, ok := allDayValue(startProp.Value)
	if !ok {
		return nil, "", false
	}

	end := start
	if endProp := ve.GetProperty(ical.ComponentPropertyDtEnd); endProp != nil {
		if exclusive, ok := allDayValue(endProp.Value); ok && exclusive.After(start) {
			end = exclusive.AddDays(-1)
		}
	}

	name := ""
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		name = p.Value
	}
	return planner.EachDay(start, end), name, true
}

// allDayValue parses a DATE value (YYYYMMDD). DATE-TIME values are rejected.
func allDayValue(v string) (planner.Date, bool) {
	v = strings.TrimSpace(v)
	if len(v) != len(icsDate) || strings.Contains(v, "T") {
		return planner.Date{}, false
	}
	t, err := time.Parse(icsDate, v)
	if err != nil {
		return planner.Date{}, false
	}
	return planner.DateOf(t), true
}
