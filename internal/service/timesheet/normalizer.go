package timesheet

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/talenthr/payroll-backend-go/internal/domain/timesheet"
	"github.com/talenthr/payroll-backend-go/internal/pkg/validator"
)

// Normalizer validates raw clock times and computes worked hours for a single
// time entry. It fails closed: malformed entries contribute zero hours and
// are logged rather than aborting a whole payroll run.
type Normalizer struct {
	log *slog.Logger
}

func NewNormalizer(log *slog.Logger) *Normalizer {
	return &Normalizer{log: log}
}

// NormalizeTime left-pads the hour of an "H:mm" string to two digits.
// Unparsable input is returned unchanged.
func (n *Normalizer) NormalizeTime(raw string) string {
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return raw
	}
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return raw
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return raw
	}
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// WorkedHours computes the hours worked for one entry. An end time at or
// before the start time is read as crossing midnight. The declared break is
// subtracted only when it fits inside the worked span; an oversized break is
// ignored with a warning. The result is never negative.
func (n *Normalizer) WorkedHours(entry timesheet.TimeEntry) float64 {
	if entry.EndTime == nil {
		n.log.Warn("time entry has no end time, counting zero hours",
			slog.String("entry_id", entry.ID),
			slog.String("date", entry.Date.Format("2006-01-02")))
		return 0
	}

	startHour, startMinute, ok := validator.ParseClockTime(entry.StartTime)
	if !ok {
		n.log.Warn("malformed start time, counting zero hours",
			slog.String("entry_id", entry.ID),
			slog.String("start_time", entry.StartTime))
		return 0
	}
	endHour, endMinute, ok := validator.ParseClockTime(*entry.EndTime)
	if !ok {
		n.log.Warn("malformed end time, counting zero hours",
			slog.String("entry_id", entry.ID),
			slog.String("end_time", *entry.EndTime))
		return 0
	}

	startMinutes := startHour*60 + startMinute
	endMinutes := endHour*60 + endMinute
	if endMinutes <= startMinutes {
		// shift crosses midnight
		endMinutes += 24 * 60
	}

	totalMinutes := float64(endMinutes - startMinutes)
	if entry.BreakHours > 0 {
		breakMinutes := entry.BreakHours * 60
		if breakMinutes <= totalMinutes {
			totalMinutes -= breakMinutes
		} else {
			n.log.Warn("break exceeds worked span, ignoring break",
				slog.String("entry_id", entry.ID),
				slog.Float64("break_hours", entry.BreakHours),
				slog.Float64("span_minutes", totalMinutes))
		}
	}

	if totalMinutes < 0 {
		totalMinutes = 0
	}
	return totalMinutes / 60
}
