package timesheet

import "context"

// TimesheetService defines business logic for timesheet capture and review.
type TimesheetService interface {
	// AddTimeEntry appends a pending clock-in/out record for the
	// authenticated employee.
	AddTimeEntry(ctx context.Context, req CreateTimeEntryRequest) (TimeEntryResponse, error)

	// AddAbsence appends a pending absence record for the authenticated
	// employee.
	AddAbsence(ctx context.Context, req CreateAbsenceRequest) (AbsenceResponse, error)

	// ApproveEntry / RejectEntry transition a pending time entry. Terminal
	// per entry: a record leaves pending at most once.
	ApproveEntry(ctx context.Context, id string) (TimeEntryResponse, error)
	RejectEntry(ctx context.Context, id string) (TimeEntryResponse, error)

	ApproveAbsence(ctx context.Context, id string) (AbsenceResponse, error)
	RejectAbsence(ctx context.Context, id string) (AbsenceResponse, error)

	// GetTimesheet returns the full timesheet for an (employee, contract)
	// pair, including closed-month markers.
	GetTimesheet(ctx context.Context, employeeID, contractID string) (TimesheetResponse, error)
}
