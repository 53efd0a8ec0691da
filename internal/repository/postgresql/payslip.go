package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/talenthr/payroll-backend-go/internal/domain/payroll"
	"github.com/talenthr/payroll-backend-go/internal/pkg/database"
)

type payslipRepository struct {
	db *database.DB
}

func NewPayslipRepository(db *database.DB) payroll.PayslipRepository {
	return &payslipRepository{db: db}
}

func (r *payslipRepository) Create(ctx context.Context, payslip payroll.Payslip) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	deductionsJSON, err := json.Marshal(payslip.Deductions)
	if err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to marshal deductions: %w", err)
	}
	detailsJSON, err := json.Marshal(payslip.Details)
	if err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to marshal details: %w", err)
	}

	query := `
		INSERT INTO payslips (id, employee_id, contract_id, month, year, gross_pay, net_pay, total_hours, overtime_hours, deductions, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`

	created := payslip
	err = q.QueryRow(ctx, query,
		payslip.ID, payslip.EmployeeID, payslip.ContractID, payslip.Month, payslip.Year,
		payslip.GrossPay, payslip.NetPay, payslip.TotalHours, payslip.OvertimeHours,
		deductionsJSON, detailsJSON,
	).Scan(&created.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "uk_payslip_contract_period") {
			return payroll.Payslip{}, payroll.ErrPayslipAlreadyExists
		}
		return payroll.Payslip{}, fmt.Errorf("failed to create payslip: %w", err)
	}
	return created, nil
}

func (r *payslipRepository) GetByID(ctx context.Context, id string) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, contract_id, month, year, gross_pay, net_pay, total_hours, overtime_hours, deductions, details, created_at
		FROM payslips
		WHERE id = $1
	`

	payslip, err := scanPayslip(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payslip{}, payroll.ErrPayslipNotFound
		}
		return payroll.Payslip{}, fmt.Errorf("failed to get payslip: %w", err)
	}
	return payslip, nil
}

func (r *payslipRepository) ListByContract(ctx context.Context, contractID string) ([]payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, contract_id, month, year, gross_pay, net_pay, total_hours, overtime_hours, deductions, details, created_at
		FROM payslips
		WHERE contract_id = $1
		ORDER BY year, month
	`

	rows, err := q.Query(ctx, query, contractID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips: %w", err)
	}
	defer rows.Close()

	var payslips []payroll.Payslip
	for rows.Next() {
		payslip, err := scanPayslip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payslip: %w", err)
		}
		payslips = append(payslips, payslip)
	}
	return payslips, rows.Err()
}

func scanPayslip(row pgx.Row) (payroll.Payslip, error) {
	var (
		payslip        payroll.Payslip
		deductionsJSON []byte
		detailsJSON    []byte
	)
	err := row.Scan(
		&payslip.ID, &payslip.EmployeeID, &payslip.ContractID, &payslip.Month, &payslip.Year,
		&payslip.GrossPay, &payslip.NetPay, &payslip.TotalHours, &payslip.OvertimeHours,
		&deductionsJSON, &detailsJSON, &payslip.CreatedAt,
	)
	if err != nil {
		return payroll.Payslip{}, err
	}
	if len(deductionsJSON) > 0 {
		if err := json.Unmarshal(deductionsJSON, &payslip.Deductions); err != nil {
			return payroll.Payslip{}, fmt.Errorf("failed to unmarshal deductions: %w", err)
		}
	}
	if len(detailsJSON) > 0 {
		if err := json.Unmarshal(detailsJSON, &payslip.Details); err != nil {
			return payroll.Payslip{}, fmt.Errorf("failed to unmarshal details: %w", err)
		}
	}
	return payslip, nil
}
