package timesheet

import "errors"

var (
	ErrTimesheetNotFound     = errors.New("timesheet not found")
	ErrEntryNotFound         = errors.New("time entry not found")
	ErrAbsenceNotFound       = errors.New("absence record not found")
	ErrEntryAlreadyProcessed = errors.New("entry has already been approved or rejected")

	ErrMonthAlreadyClosed   = errors.New("month is already closed for this timesheet")
	ErrPendingItemsExist    = errors.New("pending time entries or absences remain in the target month")
	ErrMonthBeforeContract  = errors.New("target month ends before the contract start date")
	ErrDateOutOfContract    = errors.New("date falls outside the contract's active window")
	ErrDateInFuture         = errors.New("date must not be in the future")
	ErrAbsenceTooFarAhead   = errors.New("absence date is more than 3 months in the future")
	ErrBreakExceedsWorkSpan = errors.New("break exceeds the worked span")
)
