package deduction

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type DeductionRepository interface {
	// ListActiveForEmployee returns active (non-cancelled) deductions dated
	// within [start, end].
	ListActiveForEmployee(ctx context.Context, employeeID string, start, end time.Time) ([]Deduction, error)

	// ListActiveForEmployees is the bulk variant: one fetch per period for all
	// employees, keyed by employee ID.
	ListActiveForEmployees(ctx context.Context, employeeIDs []string, start, end time.Time) (map[string][]Deduction, error)

	// SumLoanDeductionsBefore totals active loan-type deduction amounts dated
	// strictly before the cutoff. Used for a loan's opening balance.
	SumLoanDeductionsBefore(ctx context.Context, employeeID string, cutoff time.Time) (decimal.Decimal, error)

	GetActiveLoan(ctx context.Context, employeeID string) (Loan, error)
}
