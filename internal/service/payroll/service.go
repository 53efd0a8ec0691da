package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"

	"github.com/talenthr/payroll-backend-go/internal/domain/actor"
	"github.com/talenthr/payroll-backend-go/internal/domain/contract"
	"github.com/talenthr/payroll-backend-go/internal/domain/payroll"
	"github.com/talenthr/payroll-backend-go/internal/domain/timesheet"
	"github.com/talenthr/payroll-backend-go/internal/pkg/database"
	"github.com/talenthr/payroll-backend-go/internal/pkg/validator"
)

type PayrollServiceImpl struct {
	txm           database.TxManager
	contractRepo  contract.ContractRepository
	timesheetRepo timesheet.TimesheetRepository
	payslipRepo   payroll.PayslipRepository
	calculator    *Calculator
	log           *slog.Logger
}

func NewPayrollService(
	txm database.TxManager,
	contractRepo contract.ContractRepository,
	timesheetRepo timesheet.TimesheetRepository,
	payslipRepo payroll.PayslipRepository,
	calculator *Calculator,
	log *slog.Logger,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		txm:           txm,
		contractRepo:  contractRepo,
		timesheetRepo: timesheetRepo,
		payslipRepo:   payslipRepo,
		calculator:    calculator,
		log:           log,
	}
}

// Helper to get the acting user and role from JWT context
func getApproverFromContext(ctx context.Context) (userID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	roleClaim, _ := claims["role"].(string)
	role := actor.Role(roleClaim)
	if !role.CanApprove() {
		return "", actor.ErrApproverRoleRequired
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", actor.ErrInvalidToken
	}
	return userID, nil
}

func (s *PayrollServiceImpl) CloseMonth(ctx context.Context, req payroll.CloseMonthRequest) (payroll.CloseMonthResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.CloseMonthResponse{}, err
	}

	approverID, err := getApproverFromContext(ctx)
	if err != nil {
		return payroll.CloseMonthResponse{}, err
	}

	month, year, err := validator.ParseMonthYear(req.MonthYear)
	if err != nil {
		return payroll.CloseMonthResponse{}, validator.ValidationErrors{{Field: "month_year", Message: err.Error()}}
	}

	c, err := s.contractRepo.GetByID(ctx, req.ContractID)
	if err != nil {
		return payroll.CloseMonthResponse{}, err
	}
	if c.EmployeeID != req.EmployeeID {
		return payroll.CloseMonthResponse{}, contract.ErrContractNotFound
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	if monthEnd.Before(c.StartDate.Truncate(24 * time.Hour)) {
		return payroll.CloseMonthResponse{}, timesheet.ErrMonthBeforeContract
	}

	ts, err := s.timesheetRepo.GetByEmployeeAndContract(ctx, req.EmployeeID, req.ContractID)
	if err != nil {
		return payroll.CloseMonthResponse{}, err
	}

	marker, err := s.timesheetRepo.GetClosedMonth(ctx, ts.ID, req.MonthYear)
	if err != nil {
		return payroll.CloseMonthResponse{}, err
	}
	if marker != nil {
		return payroll.CloseMonthResponse{}, timesheet.ErrMonthAlreadyClosed
	}

	entries, err := s.timesheetRepo.ListEntriesInRange(ctx, ts.ID, monthStart, monthEnd)
	if err != nil {
		return payroll.CloseMonthResponse{}, err
	}
	absences, err := s.timesheetRepo.ListAbsencesInRange(ctx, ts.ID, monthStart, monthEnd)
	if err != nil {
		return payroll.CloseMonthResponse{}, err
	}

	// Partial closing is disallowed: every record of the month must be
	// reviewed before the month can close.
	approvedEntries := make([]timesheet.TimeEntry, 0, len(entries))
	for _, e := range entries {
		if e.Status == timesheet.StatusPending {
			return payroll.CloseMonthResponse{}, timesheet.ErrPendingItemsExist
		}
		if e.Status == timesheet.StatusApproved {
			approvedEntries = append(approvedEntries, e)
		}
	}
	approvedAbsences := make([]timesheet.AbsenceRecord, 0, len(absences))
	for _, a := range absences {
		if a.Status == timesheet.StatusPending {
			return payroll.CloseMonthResponse{}, timesheet.ErrPendingItemsExist
		}
		if a.Status == timesheet.StatusApproved {
			approvedAbsences = append(approvedAbsences, a)
		}
	}

	bonuses := make([]payroll.BonusLine, 0, len(req.Bonuses))
	for _, b := range req.Bonuses {
		bonuses = append(bonuses, payroll.BonusLine{Label: b.Label, Amount: b.Amount})
	}

	result, err := s.calculator.Calculate(CalculationInput{
		Contract: c,
		Entries:  approvedEntries,
		Absences: approvedAbsences,
		Bonuses:  bonuses,
		Month:    month,
		Year:     year,
	})
	if err != nil {
		return payroll.CloseMonthResponse{}, err
	}

	draft := payroll.Payslip{
		ID:            uuid.New().String(),
		EmployeeID:    req.EmployeeID,
		ContractID:    req.ContractID,
		Month:         month,
		Year:          year,
		GrossPay:      result.GrossPay,
		NetPay:        result.NetPay,
		TotalHours:    result.TotalHours,
		OvertimeHours: result.OvertimeHours,
		Deductions:    result.Deductions,
		Details: payroll.PayslipDetails{
			NormalHours:     result.NormalHours,
			OvertimeHours:   result.OvertimeHours,
			PaidLeaveDays:   result.PaidLeaveDays,
			UnjustifiedDays: result.UnjustifiedDays,
			HourlyRate:      result.HourlyRate,
			BaseSalary:      result.BaseSalary,
			Absences:        result.Absences,
			Bonuses:         result.Bonuses,
		},
	}

	// Payslip, closed-month marker and contract reference commit or roll
	// back together. The unique index on (timesheet_id, month_year) is the
	// authority when two closings race: the loser surfaces
	// ErrMonthAlreadyClosed and nothing it wrote survives.
	var created payroll.Payslip
	err = s.txm.WithinTransaction(ctx, func(txCtx context.Context) error {
		created, err = s.payslipRepo.Create(txCtx, draft)
		if err != nil {
			return err
		}
		_, err = s.timesheetRepo.CreateClosedMonth(txCtx, timesheet.ClosedMonth{
			TimesheetID: ts.ID,
			MonthYear:   req.MonthYear,
			ClosedAt:    time.Now().UTC(),
			ClosedBy:    approverID,
		})
		if err != nil {
			return err
		}
		return s.contractRepo.AppendPayslipRef(txCtx, c.ID, created.ID)
	})
	if err != nil {
		s.log.Error("month closing failed",
			slog.String("employee_id", req.EmployeeID),
			slog.String("contract_id", req.ContractID),
			slog.String("month_year", req.MonthYear),
			slog.Any("error", err))
		return payroll.CloseMonthResponse{}, err
	}

	return payroll.CloseMonthResponse{
		PayslipID:       created.ID,
		MonthYear:       req.MonthYear,
		GrossPay:        result.GrossPay,
		NetPay:          result.NetPay,
		NormalHours:     result.NormalHours,
		OvertimeHours:   result.OvertimeHours,
		UnjustifiedDays: result.UnjustifiedDays,
	}, nil
}

// Helper to get the reading employee and role from JWT context. Payslips are
// visible to their owner and to approvers.
func getReaderFromContext(ctx context.Context) (employeeID string, role actor.Role, err error) {
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

func (s *PayrollServiceImpl) GetPayslip(ctx context.Context, id string) (payroll.PayslipResponse, error) {
	employeeID, role, err := getReaderFromContext(ctx)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	p, err := s.payslipRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}
	if p.EmployeeID != employeeID && !role.CanApprove() {
		return payroll.PayslipResponse{}, payroll.ErrPayslipNotFound
	}
	return payroll.ToPayslipResponse(p), nil
}

func (s *PayrollServiceImpl) ListPayslips(ctx context.Context, contractID string) ([]payroll.PayslipResponse, error) {
	employeeID, role, err := getReaderFromContext(ctx)
	if err != nil {
		return nil, err
	}

	c, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if c.EmployeeID != employeeID && !role.CanApprove() {
		return nil, contract.ErrContractNotFound
	}

	payslips, err := s.payslipRepo.ListByContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	responses := make([]payroll.PayslipResponse, 0, len(payslips))
	for _, p := range payslips {
		responses = append(responses, payroll.ToPayslipResponse(p))
	}
	return responses, nil
}
