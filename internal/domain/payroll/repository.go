package payroll

import "context"

// PayslipRepository defines data access methods for payslips. Payslips are
// write-once: there is intentionally no update or delete.
type PayslipRepository interface {
	Create(ctx context.Context, payslip Payslip) (Payslip, error)
	GetByID(ctx context.Context, id string) (Payslip, error)
	ListByContract(ctx context.Context, contractID string) ([]Payslip, error)
}
