package contract

import "context"

// ContractRepository defines data access methods for contracts.
type ContractRepository interface {
	Create(ctx context.Context, contract Contract) (Contract, error)
	GetByID(ctx context.Context, id string) (Contract, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Contract, error)
	Update(ctx context.Context, contract Contract) error
	Delete(ctx context.Context, id string) error

	// AppendPayslipRef records a payslip against the contract. Called inside
	// the month-closing transaction.
	AppendPayslipRef(ctx context.Context, contractID string, payslipID string) error
}
