package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/talenthr/payroll-backend-go/internal/domain/timesheet"
	"github.com/talenthr/payroll-backend-go/internal/pkg/database"
)

type timesheetRepository struct {
	db *database.DB
}

func NewTimesheetRepository(db *database.DB) timesheet.TimesheetRepository {
	return &timesheetRepository{db: db}
}

func (r *timesheetRepository) GetOrCreate(ctx context.Context, employeeID, contractID string) (timesheet.Timesheet, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO timesheets (employee_id, contract_id)
		VALUES ($1, $2)
		ON CONFLICT (employee_id, contract_id) DO UPDATE SET updated_at = timesheets.updated_at
		RETURNING id, employee_id, contract_id, created_at, updated_at
	`

	var ts timesheet.Timesheet
	err := q.QueryRow(ctx, query, employeeID, contractID).Scan(
		&ts.ID, &ts.EmployeeID, &ts.ContractID, &ts.CreatedAt, &ts.UpdatedAt,
	)
	if err != nil {
		return timesheet.Timesheet{}, fmt.Errorf("failed to get or create timesheet: %w", err)
	}
	return ts, nil
}

func (r *timesheetRepository) GetByEmployeeAndContract(ctx context.Context, employeeID, contractID string) (timesheet.Timesheet, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, contract_id, created_at, updated_at
		FROM timesheets
		WHERE employee_id = $1 AND contract_id = $2
	`

	var ts timesheet.Timesheet
	err := q.QueryRow(ctx, query, employeeID, contractID).Scan(
		&ts.ID, &ts.EmployeeID, &ts.ContractID, &ts.CreatedAt, &ts.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return timesheet.Timesheet{}, timesheet.ErrTimesheetNotFound
		}
		return timesheet.Timesheet{}, fmt.Errorf("failed to get timesheet: %w", err)
	}
	return ts, nil
}

// ========== TIME ENTRIES ==========

func (r *timesheetRepository) CreateEntry(ctx context.Context, entry timesheet.TimeEntry) (timesheet.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO time_entries (timesheet_id, date, start_time, end_time, break_hours, overtime_hours, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, timesheet_id, date, start_time, end_time, break_hours, overtime_hours, status, created_at, updated_at
	`

	var created timesheet.TimeEntry
	err := q.QueryRow(ctx, query,
		entry.TimesheetID, entry.Date, entry.StartTime, entry.EndTime,
		entry.BreakHours, entry.OvertimeHours, entry.Status,
	).Scan(
		&created.ID, &created.TimesheetID, &created.Date, &created.StartTime, &created.EndTime,
		&created.BreakHours, &created.OvertimeHours, &created.Status, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return timesheet.TimeEntry{}, fmt.Errorf("failed to create time entry: %w", err)
	}
	return created, nil
}

func (r *timesheetRepository) GetEntryByID(ctx context.Context, id string) (timesheet.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, timesheet_id, date, start_time, end_time, break_hours, overtime_hours, status, created_at, updated_at
		FROM time_entries
		WHERE id = $1
	`

	var entry timesheet.TimeEntry
	err := q.QueryRow(ctx, query, id).Scan(
		&entry.ID, &entry.TimesheetID, &entry.Date, &entry.StartTime, &entry.EndTime,
		&entry.BreakHours, &entry.OvertimeHours, &entry.Status, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return timesheet.TimeEntry{}, timesheet.ErrEntryNotFound
		}
		return timesheet.TimeEntry{}, fmt.Errorf("failed to get time entry: %w", err)
	}
	return entry, nil
}

func (r *timesheetRepository) UpdateEntryStatus(ctx context.Context, id string, status timesheet.EntryStatus) error {
	q := GetQuerier(ctx, r.db)

	// The status predicate makes the pending->terminal transition a single
	// atomic step; a concurrent approver loses cleanly.
	query := `
		UPDATE time_entries
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	tag, err := q.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update entry status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timesheet.ErrEntryAlreadyProcessed
	}
	return nil
}

func (r *timesheetRepository) ListEntries(ctx context.Context, timesheetID string) ([]timesheet.TimeEntry, error) {
	return r.listEntries(ctx, `
		SELECT id, timesheet_id, date, start_time, end_time, break_hours, overtime_hours, status, created_at, updated_at
		FROM time_entries
		WHERE timesheet_id = $1
		ORDER BY date, start_time
	`, timesheetID)
}

func (r *timesheetRepository) ListEntriesInRange(ctx context.Context, timesheetID string, from, to time.Time) ([]timesheet.TimeEntry, error) {
	return r.listEntries(ctx, `
		SELECT id, timesheet_id, date, start_time, end_time, break_hours, overtime_hours, status, created_at, updated_at
		FROM time_entries
		WHERE timesheet_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date, start_time
	`, timesheetID, from, to)
}

func (r *timesheetRepository) listEntries(ctx context.Context, query string, args ...interface{}) ([]timesheet.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	defer rows.Close()

	var entries []timesheet.TimeEntry
	for rows.Next() {
		var entry timesheet.TimeEntry
		if err := rows.Scan(
			&entry.ID, &entry.TimesheetID, &entry.Date, &entry.StartTime, &entry.EndTime,
			&entry.BreakHours, &entry.OvertimeHours, &entry.Status, &entry.CreatedAt, &entry.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// ========== ABSENCE RECORDS ==========

func (r *timesheetRepository) CreateAbsence(ctx context.Context, absence timesheet.AbsenceRecord) (timesheet.AbsenceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO absence_records (timesheet_id, type, date, duration_days, justification_ref, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, timesheet_id, type, date, duration_days, justification_ref, status, created_at, updated_at
	`

	var created timesheet.AbsenceRecord
	err := q.QueryRow(ctx, query,
		absence.TimesheetID, absence.Type, absence.Date, absence.DurationDays,
		absence.JustificationRef, absence.Status,
	).Scan(
		&created.ID, &created.TimesheetID, &created.Type, &created.Date, &created.DurationDays,
		&created.JustificationRef, &created.Status, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return timesheet.AbsenceRecord{}, fmt.Errorf("failed to create absence record: %w", err)
	}
	return created, nil
}

func (r *timesheetRepository) GetAbsenceByID(ctx context.Context, id string) (timesheet.AbsenceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, timesheet_id, type, date, duration_days, justification_ref, status, created_at, updated_at
		FROM absence_records
		WHERE id = $1
	`

	var absence timesheet.AbsenceRecord
	err := q.QueryRow(ctx, query, id).Scan(
		&absence.ID, &absence.TimesheetID, &absence.Type, &absence.Date, &absence.DurationDays,
		&absence.JustificationRef, &absence.Status, &absence.CreatedAt, &absence.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return timesheet.AbsenceRecord{}, timesheet.ErrAbsenceNotFound
		}
		return timesheet.AbsenceRecord{}, fmt.Errorf("failed to get absence record: %w", err)
	}
	return absence, nil
}

func (r *timesheetRepository) UpdateAbsenceStatus(ctx context.Context, id string, status timesheet.EntryStatus) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE absence_records
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	tag, err := q.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update absence status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timesheet.ErrEntryAlreadyProcessed
	}
	return nil
}

func (r *timesheetRepository) ListAbsences(ctx context.Context, timesheetID string) ([]timesheet.AbsenceRecord, error) {
	return r.listAbsences(ctx, `
		SELECT id, timesheet_id, type, date, duration_days, justification_ref, status, created_at, updated_at
		FROM absence_records
		WHERE timesheet_id = $1
		ORDER BY date
	`, timesheetID)
}

func (r *timesheetRepository) ListAbsencesInRange(ctx context.Context, timesheetID string, from, to time.Time) ([]timesheet.AbsenceRecord, error) {
	// An absence belongs to the range when any of its covered days falls
	// inside it, not only its start date.
	return r.listAbsences(ctx, `
		SELECT id, timesheet_id, type, date, duration_days, justification_ref, status, created_at, updated_at
		FROM absence_records
		WHERE timesheet_id = $1
		  AND date <= $3
		  AND date + (duration_days - 1) * INTERVAL '1 day' >= $2
		ORDER BY date
	`, timesheetID, from, to)
}

func (r *timesheetRepository) listAbsences(ctx context.Context, query string, args ...interface{}) ([]timesheet.AbsenceRecord, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list absence records: %w", err)
	}
	defer rows.Close()

	var absences []timesheet.AbsenceRecord
	for rows.Next() {
		var absence timesheet.AbsenceRecord
		if err := rows.Scan(
			&absence.ID, &absence.TimesheetID, &absence.Type, &absence.Date, &absence.DurationDays,
			&absence.JustificationRef, &absence.Status, &absence.CreatedAt, &absence.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan absence record: %w", err)
		}
		absences = append(absences, absence)
	}
	return absences, rows.Err()
}

// ========== CLOSED MONTHS ==========

func (r *timesheetRepository) GetClosedMonth(ctx context.Context, timesheetID, monthYear string) (*timesheet.ClosedMonth, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, timesheet_id, month_year, closed_at, closed_by
		FROM closed_months
		WHERE timesheet_id = $1 AND month_year = $2
	`

	var marker timesheet.ClosedMonth
	err := q.QueryRow(ctx, query, timesheetID, monthYear).Scan(
		&marker.ID, &marker.TimesheetID, &marker.MonthYear, &marker.ClosedAt, &marker.ClosedBy,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get closed-month marker: %w", err)
	}
	return &marker, nil
}

func (r *timesheetRepository) CreateClosedMonth(ctx context.Context, marker timesheet.ClosedMonth) (timesheet.ClosedMonth, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO closed_months (timesheet_id, month_year, closed_at, closed_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, timesheet_id, month_year, closed_at, closed_by
	`

	var created timesheet.ClosedMonth
	err := q.QueryRow(ctx, query,
		marker.TimesheetID, marker.MonthYear, marker.ClosedAt, marker.ClosedBy,
	).Scan(
		&created.ID, &created.TimesheetID, &created.MonthYear, &created.ClosedAt, &created.ClosedBy,
	)
	if err != nil {
		if strings.Contains(err.Error(), "uk_timesheet_month") {
			return timesheet.ClosedMonth{}, timesheet.ErrMonthAlreadyClosed
		}
		return timesheet.ClosedMonth{}, fmt.Errorf("failed to create closed-month marker: %w", err)
	}
	return created, nil
}

func (r *timesheetRepository) ListClosedMonths(ctx context.Context, timesheetID string) ([]timesheet.ClosedMonth, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, timesheet_id, month_year, closed_at, closed_by
		FROM closed_months
		WHERE timesheet_id = $1
		ORDER BY substring(month_year from 4), substring(month_year for 2)
	`

	rows, err := q.Query(ctx, query, timesheetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list closed months: %w", err)
	}
	defer rows.Close()

	var markers []timesheet.ClosedMonth
	for rows.Next() {
		var marker timesheet.ClosedMonth
		if err := rows.Scan(
			&marker.ID, &marker.TimesheetID, &marker.MonthYear, &marker.ClosedAt, &marker.ClosedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan closed-month marker: %w", err)
		}
		markers = append(markers, marker)
	}
	return markers, rows.Err()
}
