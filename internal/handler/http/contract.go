package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"

	"github.com/talenthr/payroll-backend-go/internal/domain/contract"
	"github.com/talenthr/payroll-backend-go/internal/handler/http/response"
)

type ContractHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type ContractHandlerImpl struct {
	contractService contract.ContractService
}

func NewContractHandler(contractService contract.ContractService) ContractHandler {
	return &ContractHandlerImpl{contractService: contractService}
}

// Create implements ContractHandler.
func (h *ContractHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req contract.CreateContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create contract decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.contractService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Contract created successfully", created)
}

// Get implements ContractHandler.
func (h *ContractHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	contractID := chi.URLParam(r, "id")
	if contractID == "" {
		response.BadRequest(w, "Contract ID is required", nil)
		return
	}

	c, err := h.contractService.GetByID(r.Context(), contractID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, c)
}

// ListMine implements ContractHandler.
func (h *ContractHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		slog.Error("Failed to get JWT claims", "error", err)
		response.Unauthorized(w, "Unauthorized")
		return
	}
	employeeID, _ := claims["employee_id"].(string)

	contracts, err := h.contractService.ListByEmployee(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, contracts)
}

// ListByEmployee implements ContractHandler.
func (h *ContractHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	contracts, err := h.contractService.ListByEmployee(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, contracts)
}

// Update implements ContractHandler.
func (h *ContractHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	contractID := chi.URLParam(r, "id")
	if contractID == "" {
		response.BadRequest(w, "Contract ID is required", nil)
		return
	}

	var req contract.UpdateContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update contract decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = contractID

	updated, err := h.contractService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Contract updated successfully", updated)
}

// Delete implements ContractHandler.
func (h *ContractHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	contractID := chi.URLParam(r, "id")
	if contractID == "" {
		response.BadRequest(w, "Contract ID is required", nil)
		return
	}

	if err := h.contractService.Delete(r.Context(), contractID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Contract deleted successfully", nil)
}
