package payroll

import (
	"context"
	"time"
)

type PayrollService interface {
	// Recalculate recomputes one employee's entry for the period. Paid
	// entries are returned as stored without recomputation.
	Recalculate(ctx context.Context, req RecalculateRequest) (EntryResponse, error)

	// RecalculateBulk recomputes every requested employee (all active when
	// none given) with one shared timesheet fetch and one shared deduction
	// fetch for the period. Per-employee failures are collected, never fatal.
	RecalculateBulk(ctx context.Context, req BulkRecalculateRequest) ([]BulkEntryResult, error)

	// RecalculateForAdjustment recomputes a paid entry in place. Status,
	// paid_at and paid_by survive; the amounts reflect the adjusted data.
	RecalculateForAdjustment(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (EntryResponse, error)

	// MarkPaid recomputes each entry one final time and freezes it.
	MarkPaid(ctx context.Context, req MarkPaidRequest) ([]BulkEntryResult, error)
	MarkUnpaid(ctx context.Context, req MarkUnpaidRequest) (EntryResponse, error)

	ListEntries(ctx context.Context, periodStart, periodEnd string) ([]EntryResponse, error)
	GetSummary(ctx context.Context, periodStart, periodEnd string) (SummaryResponse, error)
	GetPayslipDetail(ctx context.Context, entryID string) (PayslipDetailResponse, error)

	// CurrentPeriod returns the locked period when a lock is set, otherwise
	// the rolling period containing today derived from the configured anchor.
	CurrentPeriod(ctx context.Context) (PeriodResponse, error)
	LockPeriod(ctx context.Context, req LockPeriodRequest) (PeriodResponse, error)
	UnlockPeriod(ctx context.Context) error

	// BonusSummary reports accrual up to asOf: working days inside the
	// setting window intersected with [Jan 1, asOf], minus non-rejected
	// withdrawals dated on or before asOf. Nil when accrual is unconfigured.
	BonusSummary(ctx context.Context, employeeID string, asOf time.Time) (*BonusSummaryResponse, error)
}
