package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enum
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// Entry is the ledger row: one per (employee, period). While pending it is
// overwritten on every recalculation; the instant it is marked paid its
// financial fields are frozen and recalculation returns it untouched.
type Entry struct {
	ID          string
	EmployeeID  string
	PeriodStart time.Time // inclusive
	PeriodEnd   time.Time // inclusive

	GrossPay          decimal.Decimal
	OvertimePay       decimal.Decimal
	Deductions        decimal.Decimal
	AdvanceDeductions decimal.Decimal
	LoanDeductions    decimal.Decimal
	NetPay            decimal.Decimal

	// Cached computation metadata
	TotalBillableMinutes int
	TotalRegularMinutes  int
	TotalOvertimeMinutes int
	WorkingDays          int
	HourlyRate           decimal.Decimal // rate used, derived for per-shift and monthly models

	Status Status
	PaidAt *time.Time
	PaidBy *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields
	EmployeeName *string
	EmployeeRole *string
}

// Covers reports whether the entry's period contains the given calendar day.
func (e Entry) Covers(date time.Time) bool {
	return !date.Before(e.PeriodStart) && !date.After(e.PeriodEnd)
}

// PeriodLock is the singleton override pinning which period is "current",
// independent of the rolling anchor calculation.
type PeriodLock struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	LockedBy    string
	LockedAt    time.Time
}

// BonusSetting is the daily bonus accrual rate with its effective window.
type BonusSetting struct {
	StartDate    time.Time
	EndDate      time.Time
	AmountPerDay decimal.Decimal
}

// WithdrawalStatus enum
type WithdrawalStatus string

const (
	WithdrawalStatusApproved WithdrawalStatus = "approved"
	WithdrawalStatusPending  WithdrawalStatus = "pending"
	WithdrawalStatusRejected WithdrawalStatus = "rejected"
)

// BonusWithdrawal is a payout against the accrued bonus balance. Rejected
// withdrawals never count against the balance.
type BonusWithdrawal struct {
	ID         string
	EmployeeID string
	Date       time.Time
	Amount     decimal.Decimal
	Status     WithdrawalStatus
}
