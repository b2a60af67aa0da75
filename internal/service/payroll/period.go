package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/opsconsole/payroll-backend-go/internal/domain/payroll"
	"github.com/opsconsole/payroll-backend-go/internal/pkg/validator"
)

// CurrentPeriod implements payroll.PayrollService. A set lock wins; otherwise
// the period is derived by rolling the configured anchor forward in
// cycle-length steps until it contains today.
func (s *PayrollServiceImpl) CurrentPeriod(ctx context.Context) (payroll.PeriodResponse, error) {
	lock, err := s.lockRepo.Get(ctx)
	if err == nil {
		return lockResponse(lock), nil
	}
	if !errors.Is(err, payroll.ErrNoPeriodLock) {
		return payroll.PeriodResponse{}, fmt.Errorf("failed to get period lock: %w", err)
	}

	start, end := s.rollingPeriod(s.now())
	return payroll.PeriodResponse{
		PeriodStart: start.Format("2006-01-02"),
		PeriodEnd:   end.Format("2006-01-02"),
		Locked:      false,
	}, nil
}

// LockPeriod implements payroll.PayrollService.
func (s *PayrollServiceImpl) LockPeriod(ctx context.Context, req payroll.LockPeriodRequest) (payroll.PeriodResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PeriodResponse{}, err
	}
	start, end, _ := validator.IsValidDateRange(req.PeriodStart, req.PeriodEnd)

	lock, err := s.lockRepo.Set(ctx, payroll.PeriodLock{
		PeriodStart: start,
		PeriodEnd:   end,
		LockedBy:    actorFromContext(ctx),
		LockedAt:    s.now().UTC(),
	})
	if err != nil {
		return payroll.PeriodResponse{}, fmt.Errorf("failed to set period lock: %w", err)
	}
	return lockResponse(lock), nil
}

// UnlockPeriod implements payroll.PayrollService.
func (s *PayrollServiceImpl) UnlockPeriod(ctx context.Context) error {
	if err := s.lockRepo.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear period lock: %w", err)
	}
	return nil
}

// rollingPeriod returns the cycle containing the given instant, anchored at
// the configured anchor date. Works for instants before the anchor too.
func (s *PayrollServiceImpl) rollingPeriod(at time.Time) (time.Time, time.Time) {
	today := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
	anchor := s.policy.AnchorDate
	cycle := s.policy.CycleDays

	days := int(today.Sub(anchor).Hours() / 24)
	cycles := days / cycle
	if days < 0 && days%cycle != 0 {
		cycles--
	}

	start := anchor.AddDate(0, 0, cycles*cycle)
	end := start.AddDate(0, 0, cycle-1)
	return start, end
}

func lockResponse(lock payroll.PeriodLock) payroll.PeriodResponse {
	lockedBy := lock.LockedBy
	lockedAt := lock.LockedAt.Format(time.RFC3339)
	return payroll.PeriodResponse{
		PeriodStart: lock.PeriodStart.Format("2006-01-02"),
		PeriodEnd:   lock.PeriodEnd.Format("2006-01-02"),
		Locked:      true,
		LockedBy:    &lockedBy,
		LockedAt:    &lockedAt,
	}
}
