package planner

import "sort"

// SpanishHolidays is the seed bank-holiday calendar (national, 2025-2026).
var SpanishHolidays = []Holiday{
	// 2025
	{Date: "2025-01-01", Name: "Año Nuevo", Type: HolidayTypeBank, Region: "ES"},
	{Date: "2025-01-06", Name: "Epifanía del Señor", Type: HolidayTypeBank, Region: "ES"},
	{Date: "2025-04-17", Name: "Jueves Santo", Type: HolidayTypeBank, Region: "ES"}, // regional adoption varies
	{Date: "2025-04-18", Name: "Viernes Santo", Type: HolidayTypeBank, Region: "ES"},
	{Date: "2025-05-01", Name: "Fiesta del Trabajo", Type: HolidayTypeBank, Region: "ES"},
	{Date: "2025-08-15", Name: "Asunción de la Virgen", Type: HolidayTypeBank, Region: "ES"},
	{Date: "2025-10-12", Name: "Fiesta Nacional de España", Type: HolidayTypeBank, Region: "ES"},
	{Date: "2025-11-01", Name: "Todos los Santos", Type: HolidayTypeBank, Region: "ES"},
	{Date: "2025-12-06", Name: "Día de la Constitución Española", Type: HolidayTypeBank, Region: "ES"},
	{Date: "2025-12-08", Name: "La Inmaculada Concepción", Type: HolidayTypeBank, Region: "ES"},
	{Date: "2025-12-25", Name: "Natividad del Señor", Type: HolidayTypeBank, Region: "ES"},

	// 2026
	{Date: "2026-01-01", Name: "Año Nuevo", Type: HolidayTypeBank, Region: "ES"},
	{Date: "2026-01-06", Name: "Epifanía del Señor", Type: HolidayTypeBank, Region: "ES"},
	{Date: "2026-04-02", Name: "Jueves Santo", Type: HolidayTypeBank, Region: "ES"},
	{Date: "2026-04-03", Name: "Viernes Santo", Type: HolidayTypeBank, Region: "ES"},
	{Date: "2026-05-01", Name: "Fiesta del Trabajo", Type: HolidayTypeBank, Region: "ES"},
	{Date: "2026-08-15", Name: "Asunción de la Virgen", Type: HolidayTypeBank, Region: "ES"},
	{Date: "2026-10-12", Name: "Fiesta Nacional de España", Type: HolidayTypeBank, Region: "ES"},
	{Date: "2026-11-01", Name: "Todos los Santos", Type: HolidayTypeBank, Region: "ES"},
	{Date: "2026-12-06", Name: "Día de la Constitución Española", Type: HolidayTypeBank, Region: "ES"},
	{Date: "2026-12-08", Name: "La Inmaculada Concepción", Type: HolidayTypeBank, Region: "ES"},
	{Date: "2026-12-25", Name: "Natividad del Señor", Type: HolidayTypeBank, Region: "ES"},
}

// HolidaysForRegion filters holidays by region. An empty region keeps all,
// and holidays without a region apply everywhere.
func HolidaysForRegion(holidays []Holiday, region string) []Holiday {
	out := make([]Holiday, 0, len(holidays))
	for _, h := range holidays {
		if region == "" || h.Region == "" || h.Region == region {
			out = append(out, h)
		}
	}
	return out
}

// MergeHolidays combines calendars, keeping the first holiday seen per date,
// sorted by date.
func MergeHolidays(calendars ...[]Holiday) []Holiday {
	seen := make(map[string]bool)
	var out []Holiday
	for _, cal := range calendars {
		for _, h := range cal {
			if seen[h.Date] {
				continue
			}
			seen[h.Date] = true
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
