package payroll

import "context"

// PayrollService defines business logic for month closing and payslip access.
type PayrollService interface {
	// CloseMonth runs the month-closing workflow for an (employee, contract)
	// pair: it verifies the month is reviewable, computes the payslip and
	// persists it together with the closed-month marker in one transaction.
	// Closing is idempotent in the failure direction: a second call for the
	// same month fails with timesheet.ErrMonthAlreadyClosed.
	CloseMonth(ctx context.Context, req CloseMonthRequest) (CloseMonthResponse, error)

	GetPayslip(ctx context.Context, id string) (PayslipResponse, error)
	ListPayslips(ctx context.Context, contractID string) ([]PayslipResponse, error)
}
