package response

import (
	"errors"
	"net/http"

	"github.com/talenthr/payroll-backend-go/internal/domain/actor"
	"github.com/talenthr/payroll-backend-go/internal/domain/contract"
	"github.com/talenthr/payroll-backend-go/internal/domain/payroll"
	"github.com/talenthr/payroll-backend-go/internal/domain/timesheet"
	"github.com/talenthr/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Actor errors
	case errors.Is(err, actor.ErrInvalidToken):
		Unauthorized(w, "Invalid or missing token")
	case errors.Is(err, actor.ErrEmployeeClaimMissing):
		Unauthorized(w, "Token carries no employee identity")
	case errors.Is(err, actor.ErrApproverRoleRequired):
		Forbidden(w, "Approver role required")
	case errors.Is(err, actor.ErrAdminRoleRequired):
		Forbidden(w, "Admin role required")
	case errors.Is(err, actor.ErrActorNotTimesheetUser):
		Forbidden(w, "Not allowed to act on this timesheet")

	// Contract domain errors
	case errors.Is(err, contract.ErrContractNotFound):
		NotFound(w, "Contract not found")
	case errors.Is(err, contract.ErrContractHasPayslips):
		Conflict(w, "Contract has payslips and cannot be deleted")
	case errors.Is(err, contract.ErrContractEndBeforeStart):
		BadRequest(w, "Contract end date precedes its start date", nil)

	// Timesheet domain errors
	case errors.Is(err, timesheet.ErrTimesheetNotFound):
		NotFound(w, "Timesheet not found")
	case errors.Is(err, timesheet.ErrEntryNotFound):
		NotFound(w, "Time entry not found")
	case errors.Is(err, timesheet.ErrAbsenceNotFound):
		NotFound(w, "Absence record not found")
	case errors.Is(err, timesheet.ErrEntryAlreadyProcessed):
		Conflict(w, "Record has already been approved or rejected")
	case errors.Is(err, timesheet.ErrMonthAlreadyClosed):
		Conflict(w, "Month is already closed")
	case errors.Is(err, timesheet.ErrPendingItemsExist):
		BadRequest(w, "Month has pending entries or absences", nil)
	case errors.Is(err, timesheet.ErrMonthBeforeContract):
		BadRequest(w, "Month ends before the contract starts", nil)
	case errors.Is(err, timesheet.ErrDateOutOfContract):
		BadRequest(w, "Date falls outside the contract period", nil)
	case errors.Is(err, timesheet.ErrDateInFuture):
		BadRequest(w, "Date is in the future", nil)
	case errors.Is(err, timesheet.ErrAbsenceTooFarAhead):
		BadRequest(w, "Absence is declared too far in advance", nil)
	case errors.Is(err, timesheet.ErrBreakExceedsWorkSpan):
		BadRequest(w, "Break exceeds the worked span", nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayslipNotFound):
		NotFound(w, "Payslip not found")
	case errors.Is(err, payroll.ErrPayslipAlreadyExists):
		Conflict(w, "Payslip already exists for this month")
	case errors.Is(err, payroll.ErrInvalidSalary):
		BadRequest(w, "Contract base salary is not a usable amount", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
