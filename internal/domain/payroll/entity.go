package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeductionLine is one itemized deduction on a payslip.
type DeductionLine struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// BonusLine is a one-off bonus included in gross pay.
type BonusLine struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// AbsenceLine records a deducted absence for display purposes.
type AbsenceLine struct {
	Type         string          `json:"type"`
	Date         string          `json:"date"`
	DurationDays int             `json:"duration_days"`
	Deduction    decimal.Decimal `json:"deduction"`
}

// PayslipDetails is the computation breakdown stored with the payslip.
type PayslipDetails struct {
	NormalHours     float64         `json:"normal_hours"`
	OvertimeHours   float64         `json:"overtime_hours"`
	PaidLeaveDays   int             `json:"paid_leave_days"`
	UnjustifiedDays int             `json:"unjustified_days"`
	HourlyRate      decimal.Decimal `json:"hourly_rate"`
	BaseSalary      decimal.Decimal `json:"base_salary"`
	Absences        []AbsenceLine   `json:"absences,omitempty"`
	Bonuses         []BonusLine     `json:"bonuses,omitempty"`
}

// Payslip is the derived result of closing a month. It is created exactly
// once per successful closing and never mutated afterward; corrections
// require a new payslip.
type Payslip struct {
	ID            string
	EmployeeID    string
	ContractID    string
	Month         int
	Year          int
	GrossPay      decimal.Decimal
	NetPay        decimal.Decimal
	TotalHours    float64
	OvertimeHours float64
	Deductions    []DeductionLine
	Details       PayslipDetails
	CreatedAt     time.Time
}
