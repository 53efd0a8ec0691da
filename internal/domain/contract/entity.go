package contract

import "time"

// Contract is an employment relation between an employee and the company.
// BaseSalary is stored as entered (legacy imports contain values like
// "3 035,50") and coerced to a decimal by the payroll calculator.
type Contract struct {
	ID         string
	EmployeeID string
	Position   *string
	BaseSalary string
	StartDate  time.Time
	EndDate    *time.Time
	PayslipIDs []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ContainsDate reports whether d falls within the contract's active window
// [StartDate, EndDate]. An open-ended contract has no EndDate.
func (c Contract) ContainsDate(d time.Time) bool {
	day := d.Truncate(24 * time.Hour)
	start := c.StartDate.Truncate(24 * time.Hour)
	if day.Before(start) {
		return false
	}
	if c.EndDate != nil && day.After(c.EndDate.Truncate(24*time.Hour)) {
		return false
	}
	return true
}
