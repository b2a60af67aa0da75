package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/opsconsole/payroll-backend-go/internal/domain/deduction"
	"github.com/opsconsole/payroll-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type deductionRepository struct {
	db *database.DB
}

func NewDeductionRepository(db *database.DB) deduction.DeductionRepository {
	return &deductionRepository{db: db}
}

const deductionColumns = `
	id, employee_id, date, type, amount, COALESCE(description, ''), status, created_at
`

func (r *deductionRepository) ListActiveForEmployee(ctx context.Context, employeeID string, start, end time.Time) ([]deduction.Deduction, error) {
	query := `
		SELECT ` + deductionColumns + `
		FROM deductions
		WHERE employee_id = $1 AND status = 'active' AND date BETWEEN $2 AND $3
		ORDER BY date
	`

	rows, err := r.db.Pool.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list deductions: %w", err)
	}
	defer rows.Close()

	return scanDeductions(rows)
}

// ListActiveForEmployees is one round trip for the whole batch.
func (r *deductionRepository) ListActiveForEmployees(ctx context.Context, employeeIDs []string, start, end time.Time) (map[string][]deduction.Deduction, error) {
	query := `
		SELECT ` + deductionColumns + `
		FROM deductions
		WHERE employee_id = ANY($1) AND status = 'active' AND date BETWEEN $2 AND $3
		ORDER BY employee_id, date
	`

	rows, err := r.db.Pool.Query(ctx, query, employeeIDs, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list deductions: %w", err)
	}
	defer rows.Close()

	deductions, err := scanDeductions(rows)
	if err != nil {
		return nil, err
	}

	byEmployee := make(map[string][]deduction.Deduction, len(employeeIDs))
	for _, d := range deductions {
		byEmployee[d.EmployeeID] = append(byEmployee[d.EmployeeID], d)
	}
	return byEmployee, nil
}

func (r *deductionRepository) SumLoanDeductionsBefore(ctx context.Context, employeeID string, cutoff time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM deductions
		WHERE employee_id = $1 AND type = 'loan' AND status = 'active' AND date < $2
	`

	var sum decimal.Decimal
	err := r.db.Pool.QueryRow(ctx, query, employeeID, cutoff).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum loan deductions: %w", err)
	}

	return sum, nil
}

func (r *deductionRepository) GetActiveLoan(ctx context.Context, employeeID string) (deduction.Loan, error) {
	query := `
		SELECT id, employee_id, principal, date, status, created_at
		FROM loans
		WHERE employee_id = $1 AND status = 'active'
		ORDER BY date DESC
		LIMIT 1
	`

	var l deduction.Loan
	err := r.db.Pool.QueryRow(ctx, query, employeeID).Scan(
		&l.ID, &l.EmployeeID, &l.Principal, &l.Date, &l.Status, &l.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return deduction.Loan{}, deduction.ErrNoActiveLoan
		}
		return deduction.Loan{}, fmt.Errorf("failed to get active loan: %w", err)
	}

	return l, nil
}

func scanDeductions(rows pgx.Rows) ([]deduction.Deduction, error) {
	var deductions []deduction.Deduction
	for rows.Next() {
		var d deduction.Deduction
		err := rows.Scan(
			&d.ID, &d.EmployeeID, &d.Date, &d.Type, &d.Amount, &d.Description, &d.Status, &d.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deduction: %w", err)
		}
		deductions = append(deductions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deductions: %w", err)
	}
	return deductions, nil
}
