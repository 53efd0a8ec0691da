package contract

import (
	"context"
	"fmt"

	"github.com/go-chi/jwtauth/v5"

	"github.com/talenthr/payroll-backend-go/internal/domain/actor"
	"github.com/talenthr/payroll-backend-go/internal/domain/contract"
	"github.com/talenthr/payroll-backend-go/internal/pkg/validator"
)

type ContractServiceImpl struct {
	contractRepo contract.ContractRepository
}

func NewContractService(contractRepo contract.ContractRepository) contract.ContractService {
	return &ContractServiceImpl{contractRepo: contractRepo}
}

func actorFromContext(ctx context.Context) (employeeID string, role actor.Role, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}
	employeeID, _ = claims["employee_id"].(string)
	roleClaim, _ := claims["role"].(string)
	role = actor.Role(roleClaim)
	if !role.Valid() {
		return "", "", actor.ErrInvalidToken
	}
	return employeeID, role, nil
}

func (s *ContractServiceImpl) Create(ctx context.Context, req contract.CreateContractRequest) (contract.ContractResponse, error) {
	if err := req.Validate(); err != nil {
		return contract.ContractResponse{}, err
	}

	_, role, err := actorFromContext(ctx)
	if err != nil {
		return contract.ContractResponse{}, err
	}
	if role != actor.RoleAdmin {
		return contract.ContractResponse{}, actor.ErrAdminRoleRequired
	}

	startDate, _ := validator.IsValidDate(req.StartDate)
	c := contract.Contract{
		EmployeeID: req.EmployeeID,
		Position:   req.Position,
		BaseSalary: req.BaseSalary,
		StartDate:  startDate,
	}
	if req.EndDate != nil {
		endDate, _ := validator.IsValidDate(*req.EndDate)
		c.EndDate = &endDate
	}

	created, err := s.contractRepo.Create(ctx, c)
	if err != nil {
		return contract.ContractResponse{}, fmt.Errorf("failed to create contract: %w", err)
	}
	return contract.ToResponse(created), nil
}

func (s *ContractServiceImpl) GetByID(ctx context.Context, id string) (contract.ContractResponse, error) {
	employeeID, role, err := actorFromContext(ctx)
	if err != nil {
		return contract.ContractResponse{}, err
	}

	c, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		return contract.ContractResponse{}, err
	}
	if c.EmployeeID != employeeID && !role.CanApprove() {
		return contract.ContractResponse{}, contract.ErrContractNotFound
	}
	return contract.ToResponse(c), nil
}

func (s *ContractServiceImpl) ListByEmployee(ctx context.Context, employeeID string) ([]contract.ContractResponse, error) {
	actorID, role, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if actorID != employeeID && !role.CanApprove() {
		return nil, actor.ErrActorNotTimesheetUser
	}

	contracts, err := s.contractRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	responses := make([]contract.ContractResponse, 0, len(contracts))
	for _, c := range contracts {
		responses = append(responses, contract.ToResponse(c))
	}
	return responses, nil
}

func (s *ContractServiceImpl) Update(ctx context.Context, req contract.UpdateContractRequest) (contract.ContractResponse, error) {
	if err := req.Validate(); err != nil {
		return contract.ContractResponse{}, err
	}

	_, role, err := actorFromContext(ctx)
	if err != nil {
		return contract.ContractResponse{}, err
	}
	if role != actor.RoleAdmin {
		return contract.ContractResponse{}, actor.ErrAdminRoleRequired
	}

	c, err := s.contractRepo.GetByID(ctx, req.ID)
	if err != nil {
		return contract.ContractResponse{}, err
	}

	if req.Position != nil {
		c.Position = req.Position
	}
	if req.BaseSalary != nil {
		c.BaseSalary = *req.BaseSalary
	}
	if req.EndDate != nil {
		endDate, _ := validator.IsValidDate(*req.EndDate)
		if endDate.Before(c.StartDate) {
			return contract.ContractResponse{}, contract.ErrContractEndBeforeStart
		}
		c.EndDate = &endDate
	}

	if err := s.contractRepo.Update(ctx, c); err != nil {
		return contract.ContractResponse{}, fmt.Errorf("failed to update contract: %w", err)
	}
	return contract.ToResponse(c), nil
}

func (s *ContractServiceImpl) Delete(ctx context.Context, id string) error {
	_, role, err := actorFromContext(ctx)
	if err != nil {
		return err
	}
	if role != actor.RoleAdmin {
		return actor.ErrAdminRoleRequired
	}

	return s.contractRepo.Delete(ctx, id)
}
