package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/talenthr/payroll-backend-go/internal/domain/contract"
	"github.com/talenthr/payroll-backend-go/internal/pkg/database"
)

type contractRepository struct {
	db *database.DB
}

func NewContractRepository(db *database.DB) contract.ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) Create(ctx context.Context, c contract.Contract) (contract.Contract, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO contracts (employee_id, position, base_salary, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, employee_id, position, base_salary, start_date, end_date, created_at, updated_at
	`

	var created contract.Contract
	err := q.QueryRow(ctx, query,
		c.EmployeeID, c.Position, c.BaseSalary, c.StartDate, c.EndDate,
	).Scan(
		&created.ID, &created.EmployeeID, &created.Position, &created.BaseSalary,
		&created.StartDate, &created.EndDate, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return contract.Contract{}, fmt.Errorf("failed to create contract: %w", err)
	}

	return created, nil
}

func (r *contractRepository) GetByID(ctx context.Context, id string) (contract.Contract, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, position, base_salary, start_date, end_date,
			   payslip_ids, created_at, updated_at
		FROM contracts
		WHERE id = $1
	`

	var c contract.Contract
	err := q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.EmployeeID, &c.Position, &c.BaseSalary,
		&c.StartDate, &c.EndDate, &c.PayslipIDs, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return contract.Contract{}, contract.ErrContractNotFound
		}
		return contract.Contract{}, fmt.Errorf("failed to get contract: %w", err)
	}

	return c, nil
}

func (r *contractRepository) ListByEmployee(ctx context.Context, employeeID string) ([]contract.Contract, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, position, base_salary, start_date, end_date, created_at, updated_at
		FROM contracts
		WHERE employee_id = $1
		ORDER BY start_date DESC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	defer rows.Close()

	var contracts []contract.Contract
	for rows.Next() {
		var c contract.Contract
		if err := rows.Scan(
			&c.ID, &c.EmployeeID, &c.Position, &c.BaseSalary,
			&c.StartDate, &c.EndDate, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}

func (r *contractRepository) Update(ctx context.Context, c contract.Contract) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE contracts
		SET position = $2, base_salary = $3, end_date = $4, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, c.ID, c.Position, c.BaseSalary, c.EndDate)
	if err != nil {
		return fmt.Errorf("failed to update contract: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return contract.ErrContractNotFound
	}
	return nil
}

func (r *contractRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	var refs int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM payslips WHERE contract_id = $1`, id).Scan(&refs); err != nil {
		return fmt.Errorf("failed to count payslip references: %w", err)
	}
	if refs > 0 {
		return contract.ErrContractHasPayslips
	}

	tag, err := q.Exec(ctx, `DELETE FROM contracts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contract: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return contract.ErrContractNotFound
	}
	return nil
}

func (r *contractRepository) AppendPayslipRef(ctx context.Context, contractID string, payslipID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE contracts
		SET payslip_ids = array_append(payslip_ids, $2), updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, contractID, payslipID)
	if err != nil {
		return fmt.Errorf("failed to append payslip reference: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return contract.ErrContractNotFound
	}
	return nil
}
