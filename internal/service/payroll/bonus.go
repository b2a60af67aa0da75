package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/opsconsole/payroll-backend-go/internal/domain/payroll"
	"github.com/opsconsole/payroll-backend-go/internal/domain/timesheet"
	"github.com/shopspring/decimal"
)

// CountWorkingDays counts the days the employee was present, regardless of
// day type.
func CountWorkingDays(entries []timesheet.Entry) int {
	days := 0
	for _, entry := range entries {
		if entry.Worked() {
			days++
		}
	}
	return days
}

// BonusSummary implements payroll.PayrollService. Accrual counts working days
// inside the setting window clipped to the current year up to asOf, at the
// configured daily rate. Withdrawals reduce the balance unless rejected, and
// only when dated on or before asOf. Nil when accrual is not configured.
func (s *PayrollServiceImpl) BonusSummary(ctx context.Context, employeeID string, asOf time.Time) (*payroll.BonusSummaryResponse, error) {
	setting, err := s.bonusRepo.GetSetting(ctx)
	if err != nil {
		if errors.Is(err, payroll.ErrBonusSettingNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get bonus setting: %w", err)
	}

	yearStart := time.Date(asOf.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	windowStart := setting.StartDate
	if windowStart.Before(yearStart) {
		windowStart = yearStart
	}
	windowEnd := setting.EndDate
	if asOf.Before(windowEnd) {
		windowEnd = asOf
	}

	workingDays := 0
	if !windowEnd.Before(windowStart) {
		entries, err := s.TimesheetRepository.ListForEmployee(ctx, employeeID, windowStart, windowEnd)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch timesheet entries for employee %s: %w", employeeID, err)
		}
		workingDays = CountWorkingDays(entries)
	}

	accrued := decimal.NewFromInt(int64(workingDays)).Mul(setting.AmountPerDay)

	withdrawals, err := s.bonusRepo.ListWithdrawals(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bonus withdrawals for employee %s: %w", employeeID, err)
	}

	var withdrawn decimal.Decimal
	for _, w := range withdrawals {
		if w.Status == payroll.WithdrawalStatusRejected {
			continue
		}
		if w.Date.After(asOf) {
			continue
		}
		withdrawn = withdrawn.Add(w.Amount)
	}

	return &payroll.BonusSummaryResponse{
		WindowStart:  windowStart.Format("2006-01-02"),
		WindowEnd:    windowEnd.Format("2006-01-02"),
		WorkingDays:  workingDays,
		AmountPerDay: setting.AmountPerDay,
		Accrued:      accrued,
		Withdrawn:    withdrawn,
		Balance:      accrued.Sub(withdrawn),
	}, nil
}
