package payroll

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talenthr/payroll-backend-go/internal/domain/actor"
	"github.com/talenthr/payroll-backend-go/internal/domain/contract"
	"github.com/talenthr/payroll-backend-go/internal/domain/payroll"
	"github.com/talenthr/payroll-backend-go/internal/domain/timesheet"
	"github.com/talenthr/payroll-backend-go/internal/pkg/validator"
	timesheetService "github.com/talenthr/payroll-backend-go/internal/service/timesheet"
)

// ---- fakes ----

type fakeContractRepo struct {
	contracts map[string]contract.Contract
	appended  []string
	appendErr error
}

func (f *fakeContractRepo) Create(ctx context.Context, c contract.Contract) (contract.Contract, error) {
	return c, nil
}

func (f *fakeContractRepo) GetByID(ctx context.Context, id string) (contract.Contract, error) {
	c, ok := f.contracts[id]
	if !ok {
		return contract.Contract{}, contract.ErrContractNotFound
	}
	return c, nil
}

func (f *fakeContractRepo) ListByEmployee(ctx context.Context, employeeID string) ([]contract.Contract, error) {
	return nil, nil
}

func (f *fakeContractRepo) Update(ctx context.Context, c contract.Contract) error { return nil }

func (f *fakeContractRepo) Delete(ctx context.Context, id string) error { return nil }

func (f *fakeContractRepo) AppendPayslipRef(ctx context.Context, contractID, payslipID string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, payslipID)
	return nil
}

type fakeTimesheetRepo struct {
	sheets       map[string]timesheet.Timesheet // keyed employeeID+"/"+contractID
	entries      []timesheet.TimeEntry
	absences     []timesheet.AbsenceRecord
	closedMonths map[string]timesheet.ClosedMonth // keyed timesheetID+"/"+monthYear
}

func newFakeTimesheetRepo() *fakeTimesheetRepo {
	return &fakeTimesheetRepo{
		sheets:       make(map[string]timesheet.Timesheet),
		closedMonths: make(map[string]timesheet.ClosedMonth),
	}
}

func (f *fakeTimesheetRepo) GetOrCreate(ctx context.Context, employeeID, contractID string) (timesheet.Timesheet, error) {
	return f.GetByEmployeeAndContract(ctx, employeeID, contractID)
}

func (f *fakeTimesheetRepo) GetByEmployeeAndContract(ctx context.Context, employeeID, contractID string) (timesheet.Timesheet, error) {
	ts, ok := f.sheets[employeeID+"/"+contractID]
	if !ok {
		return timesheet.Timesheet{}, timesheet.ErrTimesheetNotFound
	}
	return ts, nil
}

func (f *fakeTimesheetRepo) CreateEntry(ctx context.Context, e timesheet.TimeEntry) (timesheet.TimeEntry, error) {
	f.entries = append(f.entries, e)
	return e, nil
}

func (f *fakeTimesheetRepo) GetEntryByID(ctx context.Context, id string) (timesheet.TimeEntry, error) {
	return timesheet.TimeEntry{}, timesheet.ErrEntryNotFound
}

func (f *fakeTimesheetRepo) UpdateEntryStatus(ctx context.Context, id string, status timesheet.EntryStatus) error {
	return nil
}

func (f *fakeTimesheetRepo) ListEntries(ctx context.Context, timesheetID string) ([]timesheet.TimeEntry, error) {
	return f.entries, nil
}

func (f *fakeTimesheetRepo) ListEntriesInRange(ctx context.Context, timesheetID string, from, to time.Time) ([]timesheet.TimeEntry, error) {
	var out []timesheet.TimeEntry
	for _, e := range f.entries {
		if !e.Date.Before(from) && !e.Date.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeTimesheetRepo) CreateAbsence(ctx context.Context, a timesheet.AbsenceRecord) (timesheet.AbsenceRecord, error) {
	f.absences = append(f.absences, a)
	return a, nil
}

func (f *fakeTimesheetRepo) GetAbsenceByID(ctx context.Context, id string) (timesheet.AbsenceRecord, error) {
	return timesheet.AbsenceRecord{}, timesheet.ErrAbsenceNotFound
}

func (f *fakeTimesheetRepo) UpdateAbsenceStatus(ctx context.Context, id string, status timesheet.EntryStatus) error {
	return nil
}

func (f *fakeTimesheetRepo) ListAbsences(ctx context.Context, timesheetID string) ([]timesheet.AbsenceRecord, error) {
	return f.absences, nil
}

func (f *fakeTimesheetRepo) ListAbsencesInRange(ctx context.Context, timesheetID string, from, to time.Time) ([]timesheet.AbsenceRecord, error) {
	var out []timesheet.AbsenceRecord
	for _, a := range f.absences {
		if !a.Date.Before(from) && !a.Date.After(to) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeTimesheetRepo) GetClosedMonth(ctx context.Context, timesheetID, monthYear string) (*timesheet.ClosedMonth, error) {
	m, ok := f.closedMonths[timesheetID+"/"+monthYear]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (f *fakeTimesheetRepo) CreateClosedMonth(ctx context.Context, marker timesheet.ClosedMonth) (timesheet.ClosedMonth, error) {
	key := marker.TimesheetID + "/" + marker.MonthYear
	if _, exists := f.closedMonths[key]; exists {
		return timesheet.ClosedMonth{}, timesheet.ErrMonthAlreadyClosed
	}
	f.closedMonths[key] = marker
	return marker, nil
}

func (f *fakeTimesheetRepo) ListClosedMonths(ctx context.Context, timesheetID string) ([]timesheet.ClosedMonth, error) {
	var out []timesheet.ClosedMonth
	for _, m := range f.closedMonths {
		if m.TimesheetID == timesheetID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakePayslipRepo struct {
	payslips  map[string]payroll.Payslip
	nextID    int
	createErr error
}

func newFakePayslipRepo() *fakePayslipRepo {
	return &fakePayslipRepo{payslips: make(map[string]payroll.Payslip)}
}

func (f *fakePayslipRepo) Create(ctx context.Context, p payroll.Payslip) (payroll.Payslip, error) {
	if f.createErr != nil {
		return payroll.Payslip{}, f.createErr
	}
	if p.ID == "" {
		f.nextID++
		p.ID = fmt.Sprintf("payslip-%d", f.nextID)
	}
	p.CreatedAt = time.Now()
	f.payslips[p.ID] = p
	return p, nil
}

func (f *fakePayslipRepo) GetByID(ctx context.Context, id string) (payroll.Payslip, error) {
	p, ok := f.payslips[id]
	if !ok {
		return payroll.Payslip{}, payroll.ErrPayslipNotFound
	}
	return p, nil
}

func (f *fakePayslipRepo) ListByContract(ctx context.Context, contractID string) ([]payroll.Payslip, error) {
	var out []payroll.Payslip
	for _, p := range f.payslips {
		if p.ContractID == contractID {
			out = append(out, p)
		}
	}
	return out, nil
}

// fakeTxManager runs fn directly and remembers state to undo on failure,
// mimicking rollback for the pieces the test inspects.
type fakeTxManager struct {
	timesheetRepo *fakeTimesheetRepo
	payslipRepo   *fakePayslipRepo
}

func (f *fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	closedBefore := make(map[string]timesheet.ClosedMonth, len(f.timesheetRepo.closedMonths))
	for k, v := range f.timesheetRepo.closedMonths {
		closedBefore[k] = v
	}
	payslipsBefore := make(map[string]payroll.Payslip, len(f.payslipRepo.payslips))
	for k, v := range f.payslipRepo.payslips {
		payslipsBefore[k] = v
	}

	if err := fn(ctx); err != nil {
		f.timesheetRepo.closedMonths = closedBefore
		f.payslipRepo.payslips = payslipsBefore
		return err
	}
	return nil
}

// ---- helpers ----

func contextWithClaims(t *testing.T, role string) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret-key"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"user_id":     "user-1",
		"employee_id": "emp-1",
		"role":        role,
		"type":        "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

type closeMonthFixture struct {
	svc           payroll.PayrollService
	contractRepo  *fakeContractRepo
	timesheetRepo *fakeTimesheetRepo
	payslipRepo   *fakePayslipRepo
}

func newCloseMonthFixture() *closeMonthFixture {
	contractRepo := &fakeContractRepo{contracts: map[string]contract.Contract{
		"con-1": {
			ID:         "con-1",
			EmployeeID: "emp-1",
			BaseSalary: "2200",
			StartDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}}
	timesheetRepo := newFakeTimesheetRepo()
	timesheetRepo.sheets["emp-1/con-1"] = timesheet.Timesheet{
		ID:         "ts-1",
		EmployeeID: "emp-1",
		ContractID: "con-1",
	}
	payslipRepo := newFakePayslipRepo()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	normalizer := timesheetService.NewNormalizer(logger)
	calculator := NewCalculator(normalizer, nil)
	txm := &fakeTxManager{timesheetRepo: timesheetRepo, payslipRepo: payslipRepo}

	svc := NewPayrollService(txm, contractRepo, timesheetRepo, payslipRepo, calculator, logger)
	return &closeMonthFixture{
		svc:           svc,
		contractRepo:  contractRepo,
		timesheetRepo: timesheetRepo,
		payslipRepo:   payslipRepo,
	}
}

func coveringAbsence() timesheet.AbsenceRecord {
	return timesheet.AbsenceRecord{
		TimesheetID:  "ts-1",
		Type:         timesheet.AbsencePaidLeave,
		Date:         time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		DurationDays: 28,
		Status:       timesheet.StatusApproved,
	}
}

// ---- tests ----

func TestCloseMonth(t *testing.T) {
	req := payroll.CloseMonthRequest{
		EmployeeID: "emp-1",
		ContractID: "con-1",
		MonthYear:  "02/2025",
	}

	t.Run("happy path writes payslip, marker and contract ref", func(t *testing.T) {
		f := newCloseMonthFixture()
		f.timesheetRepo.absences = append(f.timesheetRepo.absences, coveringAbsence())

		resp, err := f.svc.CloseMonth(contextWithClaims(t, "approver"), req)
		require.NoError(t, err)

		assert.NotEmpty(t, resp.PayslipID)
		assert.Equal(t, "02/2025", resp.MonthYear)
		assert.Equal(t, 0, resp.UnjustifiedDays)

		marker, ok := f.timesheetRepo.closedMonths["ts-1/02/2025"]
		require.True(t, ok)
		assert.Equal(t, "user-1", marker.ClosedBy)

		require.Len(t, f.contractRepo.appended, 1)
		assert.Equal(t, resp.PayslipID, f.contractRepo.appended[0])

		stored, err := f.payslipRepo.GetByID(context.Background(), resp.PayslipID)
		require.NoError(t, err)
		assert.Equal(t, 2, stored.Month)
		assert.Equal(t, 2025, stored.Year)
	})

	t.Run("second closing of the same month fails", func(t *testing.T) {
		f := newCloseMonthFixture()
		f.timesheetRepo.absences = append(f.timesheetRepo.absences, coveringAbsence())

		ctx := contextWithClaims(t, "approver")
		_, err := f.svc.CloseMonth(ctx, req)
		require.NoError(t, err)

		_, err = f.svc.CloseMonth(ctx, req)
		assert.ErrorIs(t, err, timesheet.ErrMonthAlreadyClosed)
		assert.Len(t, f.payslipRepo.payslips, 1)
	})

	t.Run("pending records block closing", func(t *testing.T) {
		f := newCloseMonthFixture()
		f.timesheetRepo.entries = append(f.timesheetRepo.entries, timesheet.TimeEntry{
			TimesheetID: "ts-1",
			Date:        time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC),
			StartTime:   "09:00",
			Status:      timesheet.StatusPending,
		})

		_, err := f.svc.CloseMonth(contextWithClaims(t, "approver"), req)
		assert.ErrorIs(t, err, timesheet.ErrPendingItemsExist)
		assert.Empty(t, f.payslipRepo.payslips)
	})

	t.Run("employee role cannot close", func(t *testing.T) {
		f := newCloseMonthFixture()

		_, err := f.svc.CloseMonth(contextWithClaims(t, "employee"), req)
		assert.ErrorIs(t, err, actor.ErrApproverRoleRequired)
	})

	t.Run("malformed month-year is a validation error", func(t *testing.T) {
		f := newCloseMonthFixture()

		bad := req
		bad.MonthYear = "13/2025"
		_, err := f.svc.CloseMonth(contextWithClaims(t, "approver"), bad)
		var validationErrs validator.ValidationErrors
		assert.ErrorAs(t, err, &validationErrs)
	})

	t.Run("month entirely before contract start fails", func(t *testing.T) {
		f := newCloseMonthFixture()

		early := req
		early.MonthYear = "12/2024"
		_, err := f.svc.CloseMonth(contextWithClaims(t, "approver"), early)
		assert.ErrorIs(t, err, timesheet.ErrMonthBeforeContract)
	})

	t.Run("contract owned by another employee is invisible", func(t *testing.T) {
		f := newCloseMonthFixture()

		other := req
		other.EmployeeID = "emp-2"
		_, err := f.svc.CloseMonth(contextWithClaims(t, "approver"), other)
		assert.ErrorIs(t, err, contract.ErrContractNotFound)
	})

	t.Run("failed contract update rolls everything back", func(t *testing.T) {
		f := newCloseMonthFixture()
		f.timesheetRepo.absences = append(f.timesheetRepo.absences, coveringAbsence())
		f.contractRepo.appendErr = errors.New("connection reset")

		_, err := f.svc.CloseMonth(contextWithClaims(t, "approver"), req)
		require.Error(t, err)

		assert.Empty(t, f.payslipRepo.payslips)
		assert.Empty(t, f.timesheetRepo.closedMonths)
	})
}

func TestGetPayslip(t *testing.T) {
	f := newCloseMonthFixture()
	f.timesheetRepo.absences = append(f.timesheetRepo.absences, coveringAbsence())

	ctx := contextWithClaims(t, "approver")
	resp, err := f.svc.CloseMonth(ctx, payroll.CloseMonthRequest{
		EmployeeID: "emp-1",
		ContractID: "con-1",
		MonthYear:  "02/2025",
	})
	require.NoError(t, err)

	got, err := f.svc.GetPayslip(ctx, resp.PayslipID)
	require.NoError(t, err)
	assert.Equal(t, resp.PayslipID, got.ID)
	assert.Equal(t, "emp-1", got.EmployeeID)

	_, err = f.svc.GetPayslip(ctx, "missing")
	assert.ErrorIs(t, err, payroll.ErrPayslipNotFound)
}

func TestListPayslips(t *testing.T) {
	f := newCloseMonthFixture()
	f.timesheetRepo.absences = append(f.timesheetRepo.absences, coveringAbsence())

	ctx := contextWithClaims(t, "approver")
	_, err := f.svc.CloseMonth(ctx, payroll.CloseMonthRequest{
		EmployeeID: "emp-1",
		ContractID: "con-1",
		MonthYear:  "02/2025",
	})
	require.NoError(t, err)

	payslips, err := f.svc.ListPayslips(ctx, "con-1")
	require.NoError(t, err)
	assert.Len(t, payslips, 1)
}
