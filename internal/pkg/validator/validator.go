package validator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Clock time validation, 24h "HH:mm" with optional single-digit hour.
var clockTimeRegex = regexp.MustCompile(`^(0?[0-9]|1[0-9]|2[0-3]):[0-5][0-9]$`)

func IsValidClockTime(s string) bool {
	return clockTimeRegex.MatchString(s)
}

// ParseClockTime returns the hour and minute of a "HH:mm" string.
func ParseClockTime(s string) (hour, minute int, ok bool) {
	if !clockTimeRegex.MatchString(s) {
		return 0, 0, false
	}
	parts := strings.SplitN(s, ":", 2)
	hour, _ = strconv.Atoi(parts[0])
	minute, _ = strconv.Atoi(parts[1])
	return hour, minute, true
}

// Month-year period validation, "MM/YYYY".
var monthYearRegex = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{4}$`)

func IsValidMonthYear(s string) bool {
	return monthYearRegex.MatchString(s)
}

// ParseMonthYear parses "MM/YYYY" into month and year.
func ParseMonthYear(s string) (month, year int, err error) {
	if !monthYearRegex.MatchString(s) {
		return 0, 0, fmt.Errorf("invalid month-year %q: expected MM/YYYY", s)
	}
	parts := strings.SplitN(s, "/", 2)
	month, _ = strconv.Atoi(parts[0])
	year, _ = strconv.Atoi(parts[1])
	return month, year, nil
}

// UUID validation (any RFC 4122 version)
var uuidRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[1-7][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

func IsValidUUID(uuid string) bool {
	return uuidRegex.MatchString(strings.ToLower(uuid))
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}
