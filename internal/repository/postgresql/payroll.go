package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/opsconsole/payroll-backend-go/internal/domain/payroll"
	"github.com/opsconsole/payroll-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const entryColumns = `
	p.id, p.employee_id, p.period_start, p.period_end,
	p.gross_pay, p.overtime_pay, p.deductions, p.advance_deductions, p.loan_deductions, p.net_pay,
	p.total_billable_minutes, p.total_regular_minutes, p.total_overtime_minutes, p.working_days, p.hourly_rate,
	p.status, p.paid_at, p.paid_by, p.created_at, p.updated_at, e.name, e.role
`

const entryJoin = `
	FROM payroll_entries p
	LEFT JOIN employees e ON e.id = p.employee_id
`

func scanEntry(row pgx.Row) (payroll.Entry, error) {
	var p payroll.Entry
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.PeriodStart, &p.PeriodEnd,
		&p.GrossPay, &p.OvertimePay, &p.Deductions, &p.AdvanceDeductions, &p.LoanDeductions, &p.NetPay,
		&p.TotalBillableMinutes, &p.TotalRegularMinutes, &p.TotalOvertimeMinutes, &p.WorkingDays, &p.HourlyRate,
		&p.Status, &p.PaidAt, &p.PaidBy, &p.CreatedAt, &p.UpdatedAt, &p.EmployeeName, &p.EmployeeRole,
	)
	return p, err
}

func (r *payrollRepository) GetEntry(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (payroll.Entry, error) {
	query := `SELECT ` + entryColumns + entryJoin + `
		WHERE p.employee_id = $1 AND p.period_start = $2 AND p.period_end = $3`

	entry, err := scanEntry(r.db.Pool.QueryRow(ctx, query, employeeID, periodStart, periodEnd))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Entry{}, payroll.ErrEntryNotFound
		}
		return payroll.Entry{}, fmt.Errorf("failed to get payroll entry: %w", err)
	}
	return entry, nil
}

func (r *payrollRepository) GetEntryByID(ctx context.Context, id string) (payroll.Entry, error) {
	query := `SELECT ` + entryColumns + entryJoin + ` WHERE p.id = $1`

	entry, err := scanEntry(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Entry{}, payroll.ErrEntryNotFound
		}
		return payroll.Entry{}, fmt.Errorf("failed to get payroll entry: %w", err)
	}
	return entry, nil
}

func (r *payrollRepository) GetPaidEntryCovering(ctx context.Context, employeeID string, date time.Time) (payroll.Entry, error) {
	query := `SELECT ` + entryColumns + entryJoin + `
		WHERE p.employee_id = $1 AND p.status = 'paid'
			AND p.period_start <= $2 AND p.period_end >= $2
		LIMIT 1`

	entry, err := scanEntry(r.db.Pool.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Entry{}, payroll.ErrEntryNotFound
		}
		return payroll.Entry{}, fmt.Errorf("failed to get paid payroll entry: %w", err)
	}
	return entry, nil
}

// SaveComputed is the single guarded read-modify-write against one ledger
// row. The row lock serializes concurrent recalculations and mark-paid calls
// on the same (employee, period) key; a row already frozen as paid is
// returned as-is unless allowPaid.
func (r *payrollRepository) SaveComputed(ctx context.Context, entry payroll.Entry, allowPaid bool) (payroll.Entry, error) {
	var saved payroll.Entry

	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		var existingID string
		var existingStatus payroll.Status
		err := tx.QueryRow(ctx, `
			SELECT id, status FROM payroll_entries
			WHERE employee_id = $1 AND period_start = $2 AND period_end = $3
			FOR UPDATE
		`, entry.EmployeeID, entry.PeriodStart, entry.PeriodEnd).Scan(&existingID, &existingStatus)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to lock payroll entry: %w", err)
		}

		if err == nil && existingStatus == payroll.StatusPaid && !allowPaid {
			frozen, err := scanEntry(tx.QueryRow(ctx, `SELECT `+entryColumns+entryJoin+` WHERE p.id = $1`, existingID))
			if err != nil {
				return fmt.Errorf("failed to get frozen payroll entry: %w", err)
			}
			saved = frozen
			return payroll.ErrEntryAlreadyPaid
		}

		query := `
			INSERT INTO payroll_entries (
				employee_id, period_start, period_end,
				gross_pay, overtime_pay, deductions, advance_deductions, loan_deductions, net_pay,
				total_billable_minutes, total_regular_minutes, total_overtime_minutes, working_days, hourly_rate,
				status
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, 'pending')
			ON CONFLICT (employee_id, period_start, period_end) DO UPDATE SET
				gross_pay = EXCLUDED.gross_pay,
				overtime_pay = EXCLUDED.overtime_pay,
				deductions = EXCLUDED.deductions,
				advance_deductions = EXCLUDED.advance_deductions,
				loan_deductions = EXCLUDED.loan_deductions,
				net_pay = EXCLUDED.net_pay,
				total_billable_minutes = EXCLUDED.total_billable_minutes,
				total_regular_minutes = EXCLUDED.total_regular_minutes,
				total_overtime_minutes = EXCLUDED.total_overtime_minutes,
				working_days = EXCLUDED.working_days,
				hourly_rate = EXCLUDED.hourly_rate,
				updated_at = NOW()
			RETURNING id, employee_id, period_start, period_end,
				gross_pay, overtime_pay, deductions, advance_deductions, loan_deductions, net_pay,
				total_billable_minutes, total_regular_minutes, total_overtime_minutes, working_days, hourly_rate,
				status, paid_at, paid_by, created_at, updated_at
		`

		var p payroll.Entry
		err = tx.QueryRow(ctx, query,
			entry.EmployeeID, entry.PeriodStart, entry.PeriodEnd,
			entry.GrossPay, entry.OvertimePay, entry.Deductions, entry.AdvanceDeductions, entry.LoanDeductions, entry.NetPay,
			entry.TotalBillableMinutes, entry.TotalRegularMinutes, entry.TotalOvertimeMinutes, entry.WorkingDays, entry.HourlyRate,
		).Scan(
			&p.ID, &p.EmployeeID, &p.PeriodStart, &p.PeriodEnd,
			&p.GrossPay, &p.OvertimePay, &p.Deductions, &p.AdvanceDeductions, &p.LoanDeductions, &p.NetPay,
			&p.TotalBillableMinutes, &p.TotalRegularMinutes, &p.TotalOvertimeMinutes, &p.WorkingDays, &p.HourlyRate,
			&p.Status, &p.PaidAt, &p.PaidBy, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert payroll entry: %w", err)
		}

		saved = p
		return nil
	})
	if err != nil {
		if errors.Is(err, payroll.ErrEntryAlreadyPaid) {
			return saved, payroll.ErrEntryAlreadyPaid
		}
		return payroll.Entry{}, err
	}

	return saved, nil
}

func (r *payrollRepository) MarkPaid(ctx context.Context, employeeID string, periodStart, periodEnd time.Time, paidBy string, paidAt time.Time) (payroll.Entry, error) {
	query := `
		UPDATE payroll_entries
		SET status = 'paid', paid_at = $4, paid_by = $5, updated_at = NOW()
		WHERE employee_id = $1 AND period_start = $2 AND period_end = $3
		RETURNING id, employee_id, period_start, period_end,
			gross_pay, overtime_pay, deductions, advance_deductions, loan_deductions, net_pay,
			total_billable_minutes, total_regular_minutes, total_overtime_minutes, working_days, hourly_rate,
			status, paid_at, paid_by, created_at, updated_at
	`

	var p payroll.Entry
	err := r.db.Pool.QueryRow(ctx, query, employeeID, periodStart, periodEnd, paidAt, paidBy).Scan(
		&p.ID, &p.EmployeeID, &p.PeriodStart, &p.PeriodEnd,
		&p.GrossPay, &p.OvertimePay, &p.Deductions, &p.AdvanceDeductions, &p.LoanDeductions, &p.NetPay,
		&p.TotalBillableMinutes, &p.TotalRegularMinutes, &p.TotalOvertimeMinutes, &p.WorkingDays, &p.HourlyRate,
		&p.Status, &p.PaidAt, &p.PaidBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Entry{}, payroll.ErrEntryNotFound
		}
		return payroll.Entry{}, fmt.Errorf("failed to mark payroll entry paid: %w", err)
	}

	return p, nil
}

func (r *payrollRepository) MarkUnpaid(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (payroll.Entry, error) {
	query := `
		UPDATE payroll_entries
		SET status = 'pending', paid_at = NULL, paid_by = NULL, updated_at = NOW()
		WHERE employee_id = $1 AND period_start = $2 AND period_end = $3 AND status = 'paid'
		RETURNING id, employee_id, period_start, period_end,
			gross_pay, overtime_pay, deductions, advance_deductions, loan_deductions, net_pay,
			total_billable_minutes, total_regular_minutes, total_overtime_minutes, working_days, hourly_rate,
			status, paid_at, paid_by, created_at, updated_at
	`

	var p payroll.Entry
	err := r.db.Pool.QueryRow(ctx, query, employeeID, periodStart, periodEnd).Scan(
		&p.ID, &p.EmployeeID, &p.PeriodStart, &p.PeriodEnd,
		&p.GrossPay, &p.OvertimePay, &p.Deductions, &p.AdvanceDeductions, &p.LoanDeductions, &p.NetPay,
		&p.TotalBillableMinutes, &p.TotalRegularMinutes, &p.TotalOvertimeMinutes, &p.WorkingDays, &p.HourlyRate,
		&p.Status, &p.PaidAt, &p.PaidBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			// Distinguish a missing row from one that is simply not paid.
			var status payroll.Status
			checkErr := r.db.Pool.QueryRow(ctx, `
				SELECT status FROM payroll_entries
				WHERE employee_id = $1 AND period_start = $2 AND period_end = $3
			`, employeeID, periodStart, periodEnd).Scan(&status)
			if checkErr == pgx.ErrNoRows {
				return payroll.Entry{}, payroll.ErrEntryNotFound
			}
			if checkErr != nil {
				return payroll.Entry{}, fmt.Errorf("failed to get payroll entry: %w", checkErr)
			}
			return payroll.Entry{}, payroll.ErrEntryNotPaid
		}
		return payroll.Entry{}, fmt.Errorf("failed to mark payroll entry unpaid: %w", err)
	}

	return p, nil
}

func (r *payrollRepository) ListEntries(ctx context.Context, periodStart, periodEnd time.Time) ([]payroll.Entry, error) {
	query := `SELECT ` + entryColumns + entryJoin + `
		WHERE p.period_start = $1 AND p.period_end = $2
		ORDER BY e.name`

	rows, err := r.db.Pool.Query(ctx, query, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll entries: %w", err)
	}
	defer rows.Close()

	var entries []payroll.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payroll entries: %w", err)
	}

	return entries, nil
}
