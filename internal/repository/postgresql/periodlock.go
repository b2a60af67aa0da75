package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/opsconsole/payroll-backend-go/internal/domain/payroll"
	"github.com/opsconsole/payroll-backend-go/internal/pkg/database"
)

type periodLockRepository struct {
	db *database.DB
}

func NewPeriodLockRepository(db *database.DB) payroll.PeriodLockRepository {
	return &periodLockRepository{db: db}
}

// period_lock is a one-row table; the id = 1 check constraint keeps it that
// way.

func (r *periodLockRepository) Get(ctx context.Context) (payroll.PeriodLock, error) {
	query := `SELECT period_start, period_end, locked_by, locked_at FROM period_lock WHERE id = 1`

	var lock payroll.PeriodLock
	err := r.db.Pool.QueryRow(ctx, query).Scan(
		&lock.PeriodStart, &lock.PeriodEnd, &lock.LockedBy, &lock.LockedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PeriodLock{}, payroll.ErrNoPeriodLock
		}
		return payroll.PeriodLock{}, fmt.Errorf("failed to get period lock: %w", err)
	}

	return lock, nil
}

func (r *periodLockRepository) Set(ctx context.Context, lock payroll.PeriodLock) (payroll.PeriodLock, error) {
	query := `
		INSERT INTO period_lock (id, period_start, period_end, locked_by, locked_at)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			period_start = EXCLUDED.period_start,
			period_end = EXCLUDED.period_end,
			locked_by = EXCLUDED.locked_by,
			locked_at = EXCLUDED.locked_at
		RETURNING period_start, period_end, locked_by, locked_at
	`

	var saved payroll.PeriodLock
	err := r.db.Pool.QueryRow(ctx, query,
		lock.PeriodStart, lock.PeriodEnd, lock.LockedBy, lock.LockedAt,
	).Scan(&saved.PeriodStart, &saved.PeriodEnd, &saved.LockedBy, &saved.LockedAt)
	if err != nil {
		return payroll.PeriodLock{}, fmt.Errorf("failed to set period lock: %w", err)
	}

	return saved, nil
}

func (r *periodLockRepository) Clear(ctx context.Context) error {
	if _, err := r.db.Pool.Exec(ctx, `DELETE FROM period_lock WHERE id = 1`); err != nil {
		return fmt.Errorf("failed to clear period lock: %w", err)
	}
	return nil
}
