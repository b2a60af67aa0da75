package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/opsconsole/payroll-backend-go/internal/domain/deduction"
	"github.com/opsconsole/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// loanSummary reconciles the employee's active loan against the period:
// opening balance is the principal minus loan repayments from earlier
// periods, and the remaining balance nets out this period's repayments,
// floored at zero. Read-only; closing a fully repaid loan is an explicit
// action elsewhere.
func (s *PayrollServiceImpl) loanSummary(ctx context.Context, employeeID string, periodStart time.Time, periodDeductions decimal.Decimal) (*payroll.LoanSummaryResponse, error) {
	loan, err := s.DeductionRepository.GetActiveLoan(ctx, employeeID)
	if err != nil {
		if errors.Is(err, deduction.ErrNoActiveLoan) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active loan for employee %s: %w", employeeID, err)
	}

	prior, err := s.DeductionRepository.SumLoanDeductionsBefore(ctx, employeeID, periodStart)
	if err != nil {
		return nil, fmt.Errorf("failed to sum prior loan deductions for employee %s: %w", employeeID, err)
	}

	opening := loan.Principal.Sub(prior)
	remaining := opening.Sub(periodDeductions)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return &payroll.LoanSummaryResponse{
		LoanID:           loan.ID,
		Principal:        loan.Principal,
		OpeningBalance:   opening,
		PeriodDeductions: periodDeductions,
		RemainingBalance: remaining,
	}, nil
}
