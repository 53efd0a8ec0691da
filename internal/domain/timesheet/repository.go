package timesheet

import (
	"context"
	"time"
)

// TimesheetRepository defines data access methods for timesheets and the
// records they own.
type TimesheetRepository interface {
	// GetOrCreate returns the timesheet for the (employee, contract) pair,
	// creating it on first use.
	GetOrCreate(ctx context.Context, employeeID, contractID string) (Timesheet, error)
	GetByEmployeeAndContract(ctx context.Context, employeeID, contractID string) (Timesheet, error)

	// Time entries
	CreateEntry(ctx context.Context, entry TimeEntry) (TimeEntry, error)
	GetEntryByID(ctx context.Context, id string) (TimeEntry, error)
	UpdateEntryStatus(ctx context.Context, id string, status EntryStatus) error
	ListEntries(ctx context.Context, timesheetID string) ([]TimeEntry, error)
	ListEntriesInRange(ctx context.Context, timesheetID string, from, to time.Time) ([]TimeEntry, error)

	// Absence records
	CreateAbsence(ctx context.Context, absence AbsenceRecord) (AbsenceRecord, error)
	GetAbsenceByID(ctx context.Context, id string) (AbsenceRecord, error)
	UpdateAbsenceStatus(ctx context.Context, id string, status EntryStatus) error
	ListAbsences(ctx context.Context, timesheetID string) ([]AbsenceRecord, error)
	ListAbsencesInRange(ctx context.Context, timesheetID string, from, to time.Time) ([]AbsenceRecord, error)

	// Closed-month markers
	GetClosedMonth(ctx context.Context, timesheetID, monthYear string) (*ClosedMonth, error)
	CreateClosedMonth(ctx context.Context, marker ClosedMonth) (ClosedMonth, error)
	ListClosedMonths(ctx context.Context, timesheetID string) ([]ClosedMonth, error)
}
