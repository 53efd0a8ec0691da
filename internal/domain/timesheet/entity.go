package timesheet

import (
	"time"
)

// EntryStatus is the review state of a time entry or absence record.
// The only legal transitions are pending -> approved and pending -> rejected;
// approved and rejected are terminal.
type EntryStatus string

const (
	StatusPending  EntryStatus = "pending"
	StatusApproved EntryStatus = "approved"
	StatusRejected EntryStatus = "rejected"
)

func (s EntryStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

func (s EntryStatus) CanTransitionTo(next EntryStatus) bool {
	if s != StatusPending {
		return false
	}
	return next == StatusApproved || next == StatusRejected
}

// AbsenceType discriminates absence records. Only paid leave accrues leave
// days; every other type accrues a per-day salary deduction.
type AbsenceType string

const (
	AbsenceIllness     AbsenceType = "illness"
	AbsencePaidLeave   AbsenceType = "paidLeave"
	AbsenceUnpaidLeave AbsenceType = "unpaidLeave"
	AbsenceOther       AbsenceType = "other"
)

func (t AbsenceType) Valid() bool {
	switch t {
	case AbsenceIllness, AbsencePaidLeave, AbsenceUnpaidLeave, AbsenceOther:
		return true
	}
	return false
}

// Deductible reports whether the absence type reduces pay.
func (t AbsenceType) Deductible() bool {
	return t != AbsencePaidLeave
}

// Timesheet is owned by one (employee, contract) pair and created lazily on
// the first entry.
type Timesheet struct {
	ID         string
	EmployeeID string
	ContractID string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TimeEntry is a single clock-in/out record. EndTime may be absent while a
// day is still open; such entries contribute zero worked hours.
type TimeEntry struct {
	ID            string
	TimesheetID   string
	Date          time.Time
	StartTime     string // "HH:mm"
	EndTime       *string
	BreakHours    float64
	OvertimeHours float64
	Status        EntryStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AbsenceRecord is a declared absence starting at Date and spanning
// DurationDays calendar days.
type AbsenceRecord struct {
	ID               string
	TimesheetID      string
	Type             AbsenceType
	Date             time.Time
	DurationDays     int
	JustificationRef *string
	Status           EntryStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Covers reports whether the absence spans the given calendar day.
func (a AbsenceRecord) Covers(day time.Time) bool {
	start := a.Date.Truncate(24 * time.Hour)
	end := start.AddDate(0, 0, a.DurationDays-1)
	d := day.Truncate(24 * time.Hour)
	return !d.Before(start) && !d.After(end)
}

// ClosedMonth marks a month as closed for a timesheet. At most one marker
// exists per (timesheet, month-year); once written it is never mutated.
type ClosedMonth struct {
	ID          string
	TimesheetID string
	MonthYear   string // "MM/YYYY"
	ClosedAt    time.Time
	ClosedBy    string
}
