package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/talenthr/payroll-backend-go/internal/handler/http/middleware"
	"github.com/talenthr/payroll-backend-go/internal/pkg/jwt"
)

func NewRouter(
	jwtService jwt.Service,
	timesheetHandler TimesheetHandler,
	payrollHandler PayrollHandler,
	contractHandler ContractHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "talenthr-payroll"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/timesheets", func(r chi.Router) {
				r.Get("/{contractID}", timesheetHandler.GetTimesheet)
				r.Post("/{contractID}/entries", timesheetHandler.AddTimeEntry)
				r.Post("/{contractID}/absences", timesheetHandler.AddAbsence)

				// Approver or admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.ApproverOnly)
					r.Patch("/entries/{id}/validate", timesheetHandler.ApproveEntry)
					r.Patch("/entries/{id}/reject", timesheetHandler.RejectEntry)
					r.Patch("/absences/{id}/validate", timesheetHandler.ApproveAbsence)
					r.Patch("/absences/{id}/reject", timesheetHandler.RejectAbsence)
					r.Patch("/close-month/{employeeID}/{contractID}", payrollHandler.CloseMonth)
				})
			})

			r.Route("/payslips", func(r chi.Router) {
				r.Get("/", payrollHandler.ListPayslips)
				r.Get("/{id}", payrollHandler.GetPayslip)
			})

			r.Route("/contracts", func(r chi.Router) {
				r.Get("/my", contractHandler.ListMine)
				r.Get("/{id}", contractHandler.Get)

				// Approver or admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.ApproverOnly)
					r.Get("/employee/{employeeID}", contractHandler.ListByEmployee)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", contractHandler.Create)
					r.Put("/{id}", contractHandler.Update)
					r.Delete("/{id}", contractHandler.Delete)
				})
			})
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	return r
}
