package payroll

import (
	"context"
	"time"
)

type PayrollRepository interface {
	GetEntry(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (Entry, error)
	GetEntryByID(ctx context.Context, id string) (Entry, error)

	// GetPaidEntryCovering returns the paid entry whose period contains the
	// given date, or ErrEntryNotFound.
	GetPaidEntryCovering(ctx context.Context, employeeID string, date time.Time) (Entry, error)

	// SaveComputed upserts a freshly computed entry inside one transaction,
	// locking the (employee, period) row first. If the stored row is already
	// paid it is returned untouched with ErrEntryAlreadyPaid, unless allowPaid
	// is set, in which case the computed amounts replace the stored ones while
	// status, paid_at and paid_by are preserved.
	SaveComputed(ctx context.Context, entry Entry, allowPaid bool) (Entry, error)

	MarkPaid(ctx context.Context, employeeID string, periodStart, periodEnd time.Time, paidBy string, paidAt time.Time) (Entry, error)
	MarkUnpaid(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (Entry, error)

	ListEntries(ctx context.Context, periodStart, periodEnd time.Time) ([]Entry, error)
}

type PeriodLockRepository interface {
	// Get returns the singleton lock, or ErrNoPeriodLock.
	Get(ctx context.Context) (PeriodLock, error)
	Set(ctx context.Context, lock PeriodLock) (PeriodLock, error)
	Clear(ctx context.Context) error
}

type BonusRepository interface {
	// GetSetting returns the bonus accrual setting, or ErrBonusSettingNotFound
	// when accrual is not configured.
	GetSetting(ctx context.Context) (BonusSetting, error)

	// ListWithdrawals returns all withdrawals for the employee, any status,
	// ordered by date.
	ListWithdrawals(ctx context.Context, employeeID string) ([]BonusWithdrawal, error)
}
