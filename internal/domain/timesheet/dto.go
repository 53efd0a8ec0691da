package timesheet

import (
	"github.com/talenthr/payroll-backend-go/internal/pkg/validator"
)

type CreateTimeEntryRequest struct {
	ContractID string   `json:"-"`
	Date       string   `json:"date"`
	StartTime  string   `json:"start_time"`
	EndTime    *string  `json:"end_time,omitempty"`
	BreakHours *float64 `json:"break_hours,omitempty"`
}

func (r *CreateTimeEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ContractID) {
		errs = append(errs, validator.ValidationError{Field: "contract_id", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be YYYY-MM-DD"})
	}
	if !validator.IsValidClockTime(r.StartTime) {
		errs = append(errs, validator.ValidationError{Field: "start_time", Message: "must be HH:mm"})
	}
	if r.EndTime != nil && !validator.IsValidClockTime(*r.EndTime) {
		errs = append(errs, validator.ValidationError{Field: "end_time", Message: "must be HH:mm"})
	}
	if r.BreakHours != nil && *r.BreakHours < 0 {
		errs = append(errs, validator.ValidationError{Field: "break_hours", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateAbsenceRequest struct {
	ContractID       string  `json:"-"`
	Type             string  `json:"type"`
	Date             string  `json:"date"`
	DurationDays     int     `json:"duration_days"`
	JustificationRef *string `json:"justification_ref,omitempty"`
}

func (r *CreateAbsenceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ContractID) {
		errs = append(errs, validator.ValidationError{Field: "contract_id", Message: "is required"})
	}
	if !AbsenceType(r.Type).Valid() {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be one of illness, paidLeave, unpaidLeave, other"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be YYYY-MM-DD"})
	}
	if r.DurationDays < 1 {
		errs = append(errs, validator.ValidationError{Field: "duration_days", Message: "must be at least 1"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TimeEntryResponse struct {
	ID            string  `json:"id"`
	TimesheetID   string  `json:"timesheet_id"`
	Date          string  `json:"date"`
	StartTime     string  `json:"start_time"`
	EndTime       *string `json:"end_time,omitempty"`
	BreakHours    float64 `json:"break_hours"`
	WorkedHours   float64 `json:"worked_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	Status        string  `json:"status"`
}

type AbsenceResponse struct {
	ID               string  `json:"id"`
	TimesheetID      string  `json:"timesheet_id"`
	Type             string  `json:"type"`
	Date             string  `json:"date"`
	DurationDays     int     `json:"duration_days"`
	JustificationRef *string `json:"justification_ref,omitempty"`
	Status           string  `json:"status"`
}

type ClosedMonthResponse struct {
	MonthYear string `json:"month_year"`
	ClosedAt  string `json:"closed_at"`
	ClosedBy  string `json:"closed_by"`
}

type TimesheetResponse struct {
	ID           string                `json:"id"`
	EmployeeID   string                `json:"employee_id"`
	ContractID   string                `json:"contract_id"`
	Entries      []TimeEntryResponse   `json:"entries"`
	Absences     []AbsenceResponse     `json:"absences"`
	ClosedMonths []ClosedMonthResponse `json:"closed_months"`
}
