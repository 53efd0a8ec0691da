package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/talenthr/payroll-backend-go/internal/domain/actor"
	"github.com/talenthr/payroll-backend-go/internal/handler/http/response"
)

// ApproverOnly requires the approver or admin role.
func ApproverOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, actor.ErrApproverRoleRequired)
			return
		}

		role, ok := claims["role"].(string)
		if !ok || !actor.Role(role).CanApprove() {
			response.HandleError(w, actor.ErrApproverRoleRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// AdminOnly requires the admin role.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, actor.ErrAdminRoleRequired)
			return
		}

		role, ok := claims["role"].(string)
		if !ok || actor.Role(role) != actor.RoleAdmin {
			response.HandleError(w, actor.ErrAdminRoleRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
