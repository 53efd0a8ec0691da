package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"

	"github.com/talenthr/payroll-backend-go/internal/domain/timesheet"
	"github.com/talenthr/payroll-backend-go/internal/handler/http/response"
)

type TimesheetHandler interface {
	AddTimeEntry(w http.ResponseWriter, r *http.Request)
	AddAbsence(w http.ResponseWriter, r *http.Request)
	GetTimesheet(w http.ResponseWriter, r *http.Request)

	ApproveEntry(w http.ResponseWriter, r *http.Request)
	RejectEntry(w http.ResponseWriter, r *http.Request)
	ApproveAbsence(w http.ResponseWriter, r *http.Request)
	RejectAbsence(w http.ResponseWriter, r *http.Request)
}

type TimesheetHandlerImpl struct {
	timesheetService timesheet.TimesheetService
}

func NewTimesheetHandler(timesheetService timesheet.TimesheetService) TimesheetHandler {
	return &TimesheetHandlerImpl{timesheetService: timesheetService}
}

// AddTimeEntry implements TimesheetHandler.
func (h *TimesheetHandlerImpl) AddTimeEntry(w http.ResponseWriter, r *http.Request) {
	contractID := chi.URLParam(r, "contractID")
	if contractID == "" {
		response.BadRequest(w, "Contract ID is required", nil)
		return
	}

	var req timesheet.CreateTimeEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("AddTimeEntry decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ContractID = contractID

	entry, err := h.timesheetService.AddTimeEntry(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Time entry recorded successfully", entry)
}

// AddAbsence implements TimesheetHandler.
func (h *TimesheetHandlerImpl) AddAbsence(w http.ResponseWriter, r *http.Request) {
	contractID := chi.URLParam(r, "contractID")
	if contractID == "" {
		response.BadRequest(w, "Contract ID is required", nil)
		return
	}

	var req timesheet.CreateAbsenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("AddAbsence decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ContractID = contractID

	absence, err := h.timesheetService.AddAbsence(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Absence recorded successfully", absence)
}

// GetTimesheet implements TimesheetHandler.
func (h *TimesheetHandlerImpl) GetTimesheet(w http.ResponseWriter, r *http.Request) {
	contractID := chi.URLParam(r, "contractID")
	if contractID == "" {
		response.BadRequest(w, "Contract ID is required", nil)
		return
	}

	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		slog.Error("Failed to get JWT claims", "error", err)
		response.Unauthorized(w, "Unauthorized")
		return
	}

	// Approvers may pass ?employee_id= to view someone else's sheet;
	// everyone else gets their own.
	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" {
		employeeID, _ = claims["employee_id"].(string)
	}

	sheet, err := h.timesheetService.GetTimesheet(r.Context(), employeeID, contractID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, sheet)
}

// ApproveEntry implements TimesheetHandler.
func (h *TimesheetHandlerImpl) ApproveEntry(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "id")
	if entryID == "" {
		response.BadRequest(w, "Entry ID is required", nil)
		return
	}

	entry, err := h.timesheetService.ApproveEntry(r.Context(), entryID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time entry approved successfully", entry)
}

// RejectEntry implements TimesheetHandler.
func (h *TimesheetHandlerImpl) RejectEntry(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "id")
	if entryID == "" {
		response.BadRequest(w, "Entry ID is required", nil)
		return
	}

	entry, err := h.timesheetService.RejectEntry(r.Context(), entryID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time entry rejected successfully", entry)
}

// ApproveAbsence implements TimesheetHandler.
func (h *TimesheetHandlerImpl) ApproveAbsence(w http.ResponseWriter, r *http.Request) {
	absenceID := chi.URLParam(r, "id")
	if absenceID == "" {
		response.BadRequest(w, "Absence ID is required", nil)
		return
	}

	absence, err := h.timesheetService.ApproveAbsence(r.Context(), absenceID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Absence approved successfully", absence)
}

// RejectAbsence implements TimesheetHandler.
func (h *TimesheetHandlerImpl) RejectAbsence(w http.ResponseWriter, r *http.Request) {
	absenceID := chi.URLParam(r, "id")
	if absenceID == "" {
		response.BadRequest(w, "Absence ID is required", nil)
		return
	}

	absence, err := h.timesheetService.RejectAbsence(r.Context(), absenceID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Absence rejected successfully", absence)
}
