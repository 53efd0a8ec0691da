package contract

import "context"

// ContractService defines business logic for contract administration.
type ContractService interface {
	Create(ctx context.Context, req CreateContractRequest) (ContractResponse, error)
	GetByID(ctx context.Context, id string) (ContractResponse, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]ContractResponse, error)
	Update(ctx context.Context, req UpdateContractRequest) (ContractResponse, error)

	// Delete removes a contract that has no payslips attached.
	Delete(ctx context.Context, id string) error
}
