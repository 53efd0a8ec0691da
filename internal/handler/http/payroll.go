package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/talenthr/payroll-backend-go/internal/domain/payroll"
	"github.com/talenthr/payroll-backend-go/internal/handler/http/response"
	"github.com/talenthr/payroll-backend-go/internal/pkg/validator"
)

type PayrollHandler interface {
	CloseMonth(w http.ResponseWriter, r *http.Request)
	GetPayslip(w http.ResponseWriter, r *http.Request)
	ListPayslips(w http.ResponseWriter, r *http.Request)
}

type PayrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &PayrollHandlerImpl{payrollService: payrollService}
}

// CloseMonth implements PayrollHandler.
func (h *PayrollHandlerImpl) CloseMonth(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	contractID := chi.URLParam(r, "contractID")
	if employeeID == "" || contractID == "" {
		response.BadRequest(w, "Employee ID and contract ID are required", nil)
		return
	}

	var req payroll.CloseMonthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("CloseMonth decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = employeeID
	req.ContractID = contractID

	result, err := h.payrollService.CloseMonth(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Month closed successfully", result)
}

// GetPayslip implements PayrollHandler.
func (h *PayrollHandlerImpl) GetPayslip(w http.ResponseWriter, r *http.Request) {
	payslipID := chi.URLParam(r, "id")
	if !validator.IsValidUUID(payslipID) {
		response.HandleError(w, payroll.ErrPayslipNotFound)
		return
	}

	payslip, err := h.payrollService.GetPayslip(r.Context(), payslipID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payslip)
}

// ListPayslips implements PayrollHandler.
func (h *PayrollHandlerImpl) ListPayslips(w http.ResponseWriter, r *http.Request) {
	contractID := r.URL.Query().Get("contract_id")
	if contractID == "" {
		response.BadRequest(w, "contract_id query parameter is required", nil)
		return
	}

	payslips, err := h.payrollService.ListPayslips(r.Context(), contractID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payslips)
}
