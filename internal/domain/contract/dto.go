package contract

import (
	"github.com/talenthr/payroll-backend-go/internal/pkg/validator"
)

type CreateContractRequest struct {
	EmployeeID string  `json:"employee_id"`
	Position   *string `json:"position,omitempty"`
	BaseSalary string  `json:"base_salary"`
	StartDate  string  `json:"start_date"`
	EndDate    *string `json:"end_date,omitempty"`
}

func (r *CreateContractRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if validator.IsEmpty(r.BaseSalary) {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "is required"})
	}

	start, ok := validator.IsValidDate(r.StartDate)
	if !ok {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be YYYY-MM-DD"})
	}
	if r.EndDate != nil {
		end, ok := validator.IsValidDate(*r.EndDate)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be YYYY-MM-DD"})
		} else if end.Before(start) {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must not precede start_date"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateContractRequest carries admin edits. Pay-rate-relevant fields
// (base salary, dates) are admin-only; the route enforces that.
type UpdateContractRequest struct {
	ID         string
	Position   *string `json:"position,omitempty"`
	BaseSalary *string `json:"base_salary,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`
}

func (r *UpdateContractRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.BaseSalary != nil && validator.IsEmpty(*r.BaseSalary) {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "must not be empty"})
	}
	if r.EndDate != nil {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be YYYY-MM-DD"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ContractResponse struct {
	ID         string   `json:"id"`
	EmployeeID string   `json:"employee_id"`
	Position   *string  `json:"position,omitempty"`
	BaseSalary string   `json:"base_salary"`
	StartDate  string   `json:"start_date"`
	EndDate    *string  `json:"end_date,omitempty"`
	PayslipIDs []string `json:"payslip_ids,omitempty"`
}

func ToResponse(c Contract) ContractResponse {
	resp := ContractResponse{
		ID:         c.ID,
		EmployeeID: c.EmployeeID,
		Position:   c.Position,
		BaseSalary: c.BaseSalary,
		StartDate:  c.StartDate.Format("2006-01-02"),
		PayslipIDs: c.PayslipIDs,
	}
	if c.EndDate != nil {
		end := c.EndDate.Format("2006-01-02")
		resp.EndDate = &end
	}
	return resp
}
