package payroll

import "errors"

var (
	ErrPayslipNotFound      = errors.New("payslip not found")
	ErrPayslipAlreadyExists = errors.New("payslip already exists for this contract and period")
	ErrInvalidSalary        = errors.New("base salary is not a positive decimal")
)
