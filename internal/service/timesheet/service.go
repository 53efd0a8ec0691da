package timesheet

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"

	"github.com/talenthr/payroll-backend-go/internal/domain/actor"
	"github.com/talenthr/payroll-backend-go/internal/domain/contract"
	"github.com/talenthr/payroll-backend-go/internal/domain/timesheet"
	"github.com/talenthr/payroll-backend-go/internal/pkg/validator"
)

// maxAbsenceLeadMonths is how far ahead an absence may be declared.
const maxAbsenceLeadMonths = 3

type TimesheetServiceImpl struct {
	timesheetRepo timesheet.TimesheetRepository
	contractRepo  contract.ContractRepository
	normalizer    *Normalizer
}

func NewTimesheetService(
	timesheetRepo timesheet.TimesheetRepository,
	contractRepo contract.ContractRepository,
	normalizer *Normalizer,
) timesheet.TimesheetService {
	return &TimesheetServiceImpl{
		timesheetRepo: timesheetRepo,
		contractRepo:  contractRepo,
		normalizer:    normalizer,
	}
}

// Helper to get the acting employee and role from JWT context
func getActorFromContext(ctx context.Context) (employeeID string, role actor.Role, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	employeeID, _ = claims["employee_id"].(string)
	roleClaim, _ := claims["role"].(string)
	role = actor.Role(roleClaim)
	if !role.Valid() {
		return "", "", actor.ErrInvalidToken
	}

	return employeeID, role, nil
}

func (s *TimesheetServiceImpl) AddTimeEntry(ctx context.Context, req timesheet.CreateTimeEntryRequest) (timesheet.TimeEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.TimeEntryResponse{}, err
	}

	employeeID, _, err := getActorFromContext(ctx)
	if err != nil {
		return timesheet.TimeEntryResponse{}, err
	}
	if employeeID == "" {
		return timesheet.TimeEntryResponse{}, actor.ErrEmployeeClaimMissing
	}

	c, err := s.contractRepo.GetByID(ctx, req.ContractID)
	if err != nil {
		return timesheet.TimeEntryResponse{}, err
	}
	if c.EmployeeID != employeeID {
		return timesheet.TimeEntryResponse{}, contract.ErrContractNotFound
	}

	date, _ := validator.IsValidDate(req.Date)
	if err := s.checkEntryDate(date, c); err != nil {
		return timesheet.TimeEntryResponse{}, err
	}

	startTime := s.normalizer.NormalizeTime(req.StartTime)
	var endTime *string
	if req.EndTime != nil {
		normalized := s.normalizer.NormalizeTime(*req.EndTime)
		endTime = &normalized
	}

	breakHours := 1.0
	if req.BreakHours != nil {
		breakHours = *req.BreakHours
	}

	if endTime != nil {
		if err := checkBreakFitsSpan(startTime, *endTime, breakHours); err != nil {
			return timesheet.TimeEntryResponse{}, err
		}
	}

	ts, err := s.timesheetRepo.GetOrCreate(ctx, employeeID, req.ContractID)
	if err != nil {
		return timesheet.TimeEntryResponse{}, err
	}

	if err := s.checkMonthOpen(ctx, ts.ID, date); err != nil {
		return timesheet.TimeEntryResponse{}, err
	}

	entry := timesheet.TimeEntry{
		TimesheetID: ts.ID,
		Date:        date,
		StartTime:   startTime,
		EndTime:     endTime,
		BreakHours:  breakHours,
		Status:      timesheet.StatusPending,
	}

	created, err := s.timesheetRepo.CreateEntry(ctx, entry)
	if err != nil {
		return timesheet.TimeEntryResponse{}, fmt.Errorf("failed to create time entry: %w", err)
	}

	return s.mapEntryToResponse(created), nil
}

func (s *TimesheetServiceImpl) AddAbsence(ctx context.Context, req timesheet.CreateAbsenceRequest) (timesheet.AbsenceResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.AbsenceResponse{}, err
	}

	employeeID, _, err := getActorFromContext(ctx)
	if err != nil {
		return timesheet.AbsenceResponse{}, err
	}
	if employeeID == "" {
		return timesheet.AbsenceResponse{}, actor.ErrEmployeeClaimMissing
	}

	c, err := s.contractRepo.GetByID(ctx, req.ContractID)
	if err != nil {
		return timesheet.AbsenceResponse{}, err
	}
	if c.EmployeeID != employeeID {
		return timesheet.AbsenceResponse{}, contract.ErrContractNotFound
	}

	date, _ := validator.IsValidDate(req.Date)
	if date.Before(c.StartDate.Truncate(24 * time.Hour)) {
		return timesheet.AbsenceResponse{}, timesheet.ErrDateOutOfContract
	}
	if c.EndDate != nil && date.After(c.EndDate.Truncate(24*time.Hour)) {
		return timesheet.AbsenceResponse{}, timesheet.ErrDateOutOfContract
	}
	if date.After(time.Now().UTC().AddDate(0, maxAbsenceLeadMonths, 0)) {
		return timesheet.AbsenceResponse{}, timesheet.ErrAbsenceTooFarAhead
	}

	ts, err := s.timesheetRepo.GetOrCreate(ctx, employeeID, req.ContractID)
	if err != nil {
		return timesheet.AbsenceResponse{}, err
	}

	if err := s.checkMonthOpen(ctx, ts.ID, date); err != nil {
		return timesheet.AbsenceResponse{}, err
	}

	absence := timesheet.AbsenceRecord{
		TimesheetID:      ts.ID,
		Type:             timesheet.AbsenceType(req.Type),
		Date:             date,
		DurationDays:     req.DurationDays,
		JustificationRef: req.JustificationRef,
		Status:           timesheet.StatusPending,
	}

	created, err := s.timesheetRepo.CreateAbsence(ctx, absence)
	if err != nil {
		return timesheet.AbsenceResponse{}, fmt.Errorf("failed to create absence record: %w", err)
	}

	return mapAbsenceToResponse(created), nil
}

func (s *TimesheetServiceImpl) ApproveEntry(ctx context.Context, id string) (timesheet.TimeEntryResponse, error) {
	return s.transitionEntry(ctx, id, timesheet.StatusApproved)
}

func (s *TimesheetServiceImpl) RejectEntry(ctx context.Context, id string) (timesheet.TimeEntryResponse, error) {
	return s.transitionEntry(ctx, id, timesheet.StatusRejected)
}

func (s *TimesheetServiceImpl) transitionEntry(ctx context.Context, id string, next timesheet.EntryStatus) (timesheet.TimeEntryResponse, error) {
	_, role, err := getActorFromContext(ctx)
	if err != nil {
		return timesheet.TimeEntryResponse{}, err
	}
	if !role.CanApprove() {
		return timesheet.TimeEntryResponse{}, actor.ErrApproverRoleRequired
	}

	entry, err := s.timesheetRepo.GetEntryByID(ctx, id)
	if err != nil {
		return timesheet.TimeEntryResponse{}, err
	}

	if !entry.Status.CanTransitionTo(next) {
		return timesheet.TimeEntryResponse{}, timesheet.ErrEntryAlreadyProcessed
	}

	if err := s.checkMonthOpen(ctx, entry.TimesheetID, entry.Date); err != nil {
		return timesheet.TimeEntryResponse{}, err
	}

	if err := s.timesheetRepo.UpdateEntryStatus(ctx, id, next); err != nil {
		return timesheet.TimeEntryResponse{}, fmt.Errorf("failed to update entry status: %w", err)
	}

	entry.Status = next
	return s.mapEntryToResponse(entry), nil
}

func (s *TimesheetServiceImpl) ApproveAbsence(ctx context.Context, id string) (timesheet.AbsenceResponse, error) {
	return s.transitionAbsence(ctx, id, timesheet.StatusApproved)
}

func (s *TimesheetServiceImpl) RejectAbsence(ctx context.Context, id string) (timesheet.AbsenceResponse, error) {
	return s.transitionAbsence(ctx, id, timesheet.StatusRejected)
}

func (s *TimesheetServiceImpl) transitionAbsence(ctx context.Context, id string, next timesheet.EntryStatus) (timesheet.AbsenceResponse, error) {
	_, role, err := getActorFromContext(ctx)
	if err != nil {
		return timesheet.AbsenceResponse{}, err
	}
	if !role.CanApprove() {
		return timesheet.AbsenceResponse{}, actor.ErrApproverRoleRequired
	}

	absence, err := s.timesheetRepo.GetAbsenceByID(ctx, id)
	if err != nil {
		return timesheet.AbsenceResponse{}, err
	}

	if !absence.Status.CanTransitionTo(next) {
		return timesheet.AbsenceResponse{}, timesheet.ErrEntryAlreadyProcessed
	}

	if err := s.checkMonthOpen(ctx, absence.TimesheetID, absence.Date); err != nil {
		return timesheet.AbsenceResponse{}, err
	}

	if err := s.timesheetRepo.UpdateAbsenceStatus(ctx, id, next); err != nil {
		return timesheet.AbsenceResponse{}, fmt.Errorf("failed to update absence status: %w", err)
	}

	absence.Status = next
	return mapAbsenceToResponse(absence), nil
}

func (s *TimesheetServiceImpl) GetTimesheet(ctx context.Context, employeeID, contractID string) (timesheet.TimesheetResponse, error) {
	actorID, role, err := getActorFromContext(ctx)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	if actorID != employeeID && !role.CanApprove() {
		return timesheet.TimesheetResponse{}, actor.ErrActorNotTimesheetUser
	}

	ts, err := s.timesheetRepo.GetByEmployeeAndContract(ctx, employeeID, contractID)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	entries, err := s.timesheetRepo.ListEntries(ctx, ts.ID)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	absences, err := s.timesheetRepo.ListAbsences(ctx, ts.ID)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	closedMonths, err := s.timesheetRepo.ListClosedMonths(ctx, ts.ID)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	resp := timesheet.TimesheetResponse{
		ID:           ts.ID,
		EmployeeID:   ts.EmployeeID,
		ContractID:   ts.ContractID,
		Entries:      make([]timesheet.TimeEntryResponse, 0, len(entries)),
		Absences:     make([]timesheet.AbsenceResponse, 0, len(absences)),
		ClosedMonths: make([]timesheet.ClosedMonthResponse, 0, len(closedMonths)),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, s.mapEntryToResponse(e))
	}
	for _, a := range absences {
		resp.Absences = append(resp.Absences, mapAbsenceToResponse(a))
	}
	for _, m := range closedMonths {
		resp.ClosedMonths = append(resp.ClosedMonths, timesheet.ClosedMonthResponse{
			MonthYear: m.MonthYear,
			ClosedAt:  m.ClosedAt.Format(time.RFC3339),
			ClosedBy:  m.ClosedBy,
		})
	}
	return resp, nil
}

// checkEntryDate enforces the time-entry date invariants: never in the
// future, always inside the contract window.
func (s *TimesheetServiceImpl) checkEntryDate(date time.Time, c contract.Contract) error {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if date.After(today) {
		return timesheet.ErrDateInFuture
	}
	if !c.ContainsDate(date) {
		return timesheet.ErrDateOutOfContract
	}
	return nil
}

// checkMonthOpen blocks writes into a month that has already been closed.
func (s *TimesheetServiceImpl) checkMonthOpen(ctx context.Context, timesheetID string, date time.Time) error {
	monthYear := fmt.Sprintf("%02d/%04d", int(date.Month()), date.Year())
	marker, err := s.timesheetRepo.GetClosedMonth(ctx, timesheetID, monthYear)
	if err != nil {
		return err
	}
	if marker != nil {
		return timesheet.ErrMonthAlreadyClosed
	}
	return nil
}

// checkBreakFitsSpan rejects a declared break longer than the worked span.
func checkBreakFitsSpan(startTime, endTime string, breakHours float64) error {
	startHour, startMinute, ok := validator.ParseClockTime(startTime)
	if !ok {
		return validator.ValidationErrors{{Field: "start_time", Message: "must be HH:mm"}}
	}
	endHour, endMinute, ok := validator.ParseClockTime(endTime)
	if !ok {
		return validator.ValidationErrors{{Field: "end_time", Message: "must be HH:mm"}}
	}

	startMinutes := startHour*60 + startMinute
	endMinutes := endHour*60 + endMinute
	if endMinutes <= startMinutes {
		endMinutes += 24 * 60
	}
	if breakHours*60 > float64(endMinutes-startMinutes) {
		return timesheet.ErrBreakExceedsWorkSpan
	}
	return nil
}

func (s *TimesheetServiceImpl) mapEntryToResponse(e timesheet.TimeEntry) timesheet.TimeEntryResponse {
	return timesheet.TimeEntryResponse{
		ID:            e.ID,
		TimesheetID:   e.TimesheetID,
		Date:          e.Date.Format("2006-01-02"),
		StartTime:     e.StartTime,
		EndTime:       e.EndTime,
		BreakHours:    e.BreakHours,
		WorkedHours:   s.normalizer.WorkedHours(e),
		OvertimeHours: e.OvertimeHours,
		Status:        string(e.Status),
	}
}

func mapAbsenceToResponse(a timesheet.AbsenceRecord) timesheet.AbsenceResponse {
	return timesheet.AbsenceResponse{
		ID:               a.ID,
		TimesheetID:      a.TimesheetID,
		Type:             string(a.Type),
		Date:             a.Date.Format("2006-01-02"),
		DurationDays:     a.DurationDays,
		JustificationRef: a.JustificationRef,
		Status:           string(a.Status),
	}
}
