package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/talenthr/payroll-backend-go/internal/pkg/validator"
)

type BonusInput struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

type CloseMonthRequest struct {
	EmployeeID string       `json:"-"`
	ContractID string       `json:"-"`
	MonthYear  string       `json:"month_year"`
	Bonuses    []BonusInput `json:"bonuses,omitempty"`
}

func (r *CloseMonthRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if validator.IsEmpty(r.ContractID) {
		errs = append(errs, validator.ValidationError{Field: "contract_id", Message: "is required"})
	}
	if !validator.IsValidMonthYear(r.MonthYear) {
		errs = append(errs, validator.ValidationError{Field: "month_year", Message: "must be MM/YYYY with month between 01 and 12"})
	}
	for _, b := range r.Bonuses {
		if b.Amount.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "bonuses", Message: "bonus amounts must be non-negative"})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CloseMonthResponse struct {
	PayslipID       string          `json:"payslip_id"`
	MonthYear       string          `json:"month_year"`
	GrossPay        decimal.Decimal `json:"gross_pay"`
	NetPay          decimal.Decimal `json:"net_pay"`
	NormalHours     float64         `json:"normal_hours"`
	OvertimeHours   float64         `json:"overtime_hours"`
	UnjustifiedDays int             `json:"unjustified_days"`
}

type PayslipResponse struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	ContractID    string          `json:"contract_id"`
	Month         int             `json:"month"`
	Year          int             `json:"year"`
	GrossPay      decimal.Decimal `json:"gross_pay"`
	NetPay        decimal.Decimal `json:"net_pay"`
	TotalHours    float64         `json:"total_hours"`
	OvertimeHours float64         `json:"overtime_hours"`
	Deductions    []DeductionLine `json:"deductions"`
	Details       PayslipDetails  `json:"details"`
}

func ToPayslipResponse(p Payslip) PayslipResponse {
	return PayslipResponse{
		ID:            p.ID,
		EmployeeID:    p.EmployeeID,
		ContractID:    p.ContractID,
		Month:         p.Month,
		Year:          p.Year,
		GrossPay:      p.GrossPay,
		NetPay:        p.NetPay,
		TotalHours:    p.TotalHours,
		OvertimeHours: p.OvertimeHours,
		Deductions:    p.Deductions,
		Details:       p.Details,
	}
}
