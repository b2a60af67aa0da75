package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/opsconsole/payroll-backend-go/internal/domain/timesheet"
	"github.com/opsconsole/payroll-backend-go/internal/pkg/database"
)

type timesheetRepository struct {
	db *database.DB
}

func NewTimesheetRepository(db *database.DB) timesheet.TimesheetRepository {
	return &timesheetRepository{db: db}
}

const timesheetColumns = `
	t.id, t.employee_id, t.date, t.clock_in, t.clock_out, t.break_minutes,
	t.day_type, t.adjustment_note, t.created_at, t.updated_at, e.name
`

func (r *timesheetRepository) Create(ctx context.Context, entry timesheet.Entry) (timesheet.Entry, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	query := `
		INSERT INTO timesheet_entries (id, employee_id, date, clock_in, clock_out, break_minutes, day_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, employee_id, date, clock_in, clock_out, break_minutes,
			day_type, adjustment_note, created_at, updated_at
	`

	var e timesheet.Entry
	err := r.db.Pool.QueryRow(ctx, query,
		entry.ID, entry.EmployeeID, entry.Date, entry.ClockIn, entry.ClockOut, entry.BreakMinutes, entry.DayType,
	).Scan(
		&e.ID, &e.EmployeeID, &e.Date, &e.ClockIn, &e.ClockOut, &e.BreakMinutes,
		&e.DayType, &e.AdjustmentNote, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return timesheet.Entry{}, fmt.Errorf("failed to create timesheet entry: %w", err)
	}

	return e, nil
}

func (r *timesheetRepository) Update(ctx context.Context, entry timesheet.Entry) (timesheet.Entry, error) {
	query := `
		UPDATE timesheet_entries
		SET clock_in = $2, clock_out = $3, break_minutes = $4, day_type = $5,
			adjustment_note = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING id, employee_id, date, clock_in, clock_out, break_minutes,
			day_type, adjustment_note, created_at, updated_at
	`

	var e timesheet.Entry
	err := r.db.Pool.QueryRow(ctx, query,
		entry.ID, entry.ClockIn, entry.ClockOut, entry.BreakMinutes, entry.DayType, entry.AdjustmentNote,
	).Scan(
		&e.ID, &e.EmployeeID, &e.Date, &e.ClockIn, &e.ClockOut, &e.BreakMinutes,
		&e.DayType, &e.AdjustmentNote, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return timesheet.Entry{}, timesheet.ErrEntryNotFound
		}
		return timesheet.Entry{}, fmt.Errorf("failed to update timesheet entry: %w", err)
	}

	return e, nil
}

func (r *timesheetRepository) GetByID(ctx context.Context, id string) (timesheet.Entry, error) {
	query := `
		SELECT ` + timesheetColumns + `
		FROM timesheet_entries t
		LEFT JOIN employees e ON e.id = t.employee_id
		WHERE t.id = $1
	`

	var e timesheet.Entry
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.EmployeeID, &e.Date, &e.ClockIn, &e.ClockOut, &e.BreakMinutes,
		&e.DayType, &e.AdjustmentNote, &e.CreatedAt, &e.UpdatedAt, &e.EmployeeName,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return timesheet.Entry{}, timesheet.ErrEntryNotFound
		}
		return timesheet.Entry{}, fmt.Errorf("failed to get timesheet entry: %w", err)
	}

	return e, nil
}

func (r *timesheetRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (timesheet.Entry, error) {
	query := `
		SELECT ` + timesheetColumns + `
		FROM timesheet_entries t
		LEFT JOIN employees e ON e.id = t.employee_id
		WHERE t.employee_id = $1 AND t.date = $2
	`

	var e timesheet.Entry
	err := r.db.Pool.QueryRow(ctx, query, employeeID, date).Scan(
		&e.ID, &e.EmployeeID, &e.Date, &e.ClockIn, &e.ClockOut, &e.BreakMinutes,
		&e.DayType, &e.AdjustmentNote, &e.CreatedAt, &e.UpdatedAt, &e.EmployeeName,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return timesheet.Entry{}, timesheet.ErrEntryNotFound
		}
		return timesheet.Entry{}, fmt.Errorf("failed to get timesheet entry: %w", err)
	}

	return e, nil
}

func (r *timesheetRepository) ListForEmployee(ctx context.Context, employeeID string, start, end time.Time) ([]timesheet.Entry, error) {
	query := `
		SELECT ` + timesheetColumns + `
		FROM timesheet_entries t
		LEFT JOIN employees e ON e.id = t.employee_id
		WHERE t.employee_id = $1 AND t.date BETWEEN $2 AND $3
		ORDER BY t.date
	`

	rows, err := r.db.Pool.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list timesheet entries: %w", err)
	}
	defer rows.Close()

	return scanTimesheetEntries(rows)
}

// ListForEmployees is one round trip for the whole batch.
func (r *timesheetRepository) ListForEmployees(ctx context.Context, employeeIDs []string, start, end time.Time) (map[string][]timesheet.Entry, error) {
	query := `
		SELECT ` + timesheetColumns + `
		FROM timesheet_entries t
		LEFT JOIN employees e ON e.id = t.employee_id
		WHERE t.employee_id = ANY($1) AND t.date BETWEEN $2 AND $3
		ORDER BY t.employee_id, t.date
	`

	rows, err := r.db.Pool.Query(ctx, query, employeeIDs, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list timesheet entries: %w", err)
	}
	defer rows.Close()

	entries, err := scanTimesheetEntries(rows)
	if err != nil {
		return nil, err
	}

	byEmployee := make(map[string][]timesheet.Entry, len(employeeIDs))
	for _, entry := range entries {
		byEmployee[entry.EmployeeID] = append(byEmployee[entry.EmployeeID], entry)
	}
	return byEmployee, nil
}

func scanTimesheetEntries(rows pgx.Rows) ([]timesheet.Entry, error) {
	var entries []timesheet.Entry
	for rows.Next() {
		var e timesheet.Entry
		err := rows.Scan(
			&e.ID, &e.EmployeeID, &e.Date, &e.ClockIn, &e.ClockOut, &e.BreakMinutes,
			&e.DayType, &e.AdjustmentNote, &e.CreatedAt, &e.UpdatedAt, &e.EmployeeName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timesheet entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate timesheet entries: %w", err)
	}
	return entries, nil
}
