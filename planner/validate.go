package planner

import (
	"fmt"
	"regexp"
	"strings"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidateDate checks the YYYY-MM-DD shape and that the day exists.
func ValidateDate(field, s string) (Date, error) {
	if !datePattern.MatchString(s) {
		return Date{}, &ValidationError{Field: field, Message: "invalid date format (use YYYY-MM-DD)"}
	}
	d, err := ParseDate(s)
	if err != nil {
		return Date{}, &ValidationError{Field: field, Message: "invalid date"}
	}
	return d, nil
}

// ValidateRange parses both ends of an inclusive range. An empty end means
// a single day.
func ValidateRange(start, end string) (Date, Date, error) {
	s, err := ValidateDate("start_date", start)
	if err != nil {
		return Date{}, Date{}, err
	}
	if end == "" {
		return s, s, nil
	}
	e, err := ValidateDate("end_date", end)
	if err != nil {
		return Date{}, Date{}, err
	}
	if err := checkSpan(s, e); err != nil {
		return Date{}, Date{}, err
	}
	return s, e, nil
}

// MaxRangeDays bounds how many days one plan may cover.
const MaxRangeDays = 366

func checkSpan(start, end Date) error {
	if start.After(end) {
		return ErrInvalidRange
	}
	if DaysBetween(start, end)+1 > MaxRangeDays {
		return &ValidationError{Field: "end_date", Message: fmt.Sprintf("range may cover at most %d days", MaxRangeDays)}
	}
	return nil
}

// ValidatePlan checks the user-editable fields of a plan.
func ValidatePlan(p Plan) error {
	if strings.TrimSpace(p.Title) == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if !p.Tag.Valid() {
		return &ValidationError{Field: "tag", Message: "unknown tag " + string(p.Tag)}
	}
	return nil
}

// ValidateSettings rejects negative allowances and malformed expiry dates.
func ValidateSettings(s HolidaySettings) error {
	if s.BaseAllowance.IsNegative() {
		return &ValidationError{Field: "baseAllowance", Message: "allowance must be non-negative"}
	}
	if s.RolloverDays.IsNegative() {
		return &ValidationError{Field: "rolloverDays", Message: "rollover days must be non-negative"}
	}
	if _, err := ValidateDate("rolloverExpiryDate", s.RolloverExpiryDate); err != nil {
		return err
	}
	return nil
}
