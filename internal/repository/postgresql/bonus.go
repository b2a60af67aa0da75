package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/opsconsole/payroll-backend-go/internal/domain/payroll"
	"github.com/opsconsole/payroll-backend-go/internal/pkg/database"
)

type bonusRepository struct {
	db *database.DB
}

func NewBonusRepository(db *database.DB) payroll.BonusRepository {
	return &bonusRepository{db: db}
}

// GetSetting returns the most recently created setting; older rows are kept
// as history.
func (r *bonusRepository) GetSetting(ctx context.Context) (payroll.BonusSetting, error) {
	query := `
		SELECT start_date, end_date, amount_per_day
		FROM bonus_settings
		ORDER BY created_at DESC
		LIMIT 1
	`

	var s payroll.BonusSetting
	err := r.db.Pool.QueryRow(ctx, query).Scan(&s.StartDate, &s.EndDate, &s.AmountPerDay)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.BonusSetting{}, payroll.ErrBonusSettingNotFound
		}
		return payroll.BonusSetting{}, fmt.Errorf("failed to get bonus setting: %w", err)
	}

	return s, nil
}

func (r *bonusRepository) ListWithdrawals(ctx context.Context, employeeID string) ([]payroll.BonusWithdrawal, error) {
	query := `
		SELECT id, employee_id, date, amount, status
		FROM bonus_withdrawals
		WHERE employee_id = $1
		ORDER BY date
	`

	rows, err := r.db.Pool.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bonus withdrawals: %w", err)
	}
	defer rows.Close()

	var withdrawals []payroll.BonusWithdrawal
	for rows.Next() {
		var w payroll.BonusWithdrawal
		if err := rows.Scan(&w.ID, &w.EmployeeID, &w.Date, &w.Amount, &w.Status); err != nil {
			return nil, fmt.Errorf("failed to scan bonus withdrawal: %w", err)
		}
		withdrawals = append(withdrawals, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bonus withdrawals: %w", err)
	}

	return withdrawals, nil
}
