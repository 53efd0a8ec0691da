package actor

import "errors"

// Role is the authenticated caller's role as carried in the JWT claims.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleApprover Role = "approver"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleApprover, RoleAdmin:
		return true
	}
	return false
}

// CanApprove reports whether the role may validate or reject timesheet items
// and close months.
func (r Role) CanApprove() bool {
	return r == RoleApprover || r == RoleAdmin
}

var (
	ErrInvalidToken          = errors.New("invalid or missing token")
	ErrApproverRoleRequired  = errors.New("approver role required")
	ErrAdminRoleRequired     = errors.New("admin role required")
	ErrEmployeeClaimMissing  = errors.New("employee_id claim is missing or invalid")
	ErrActorNotTimesheetUser = errors.New("actor does not own this timesheet")
)
