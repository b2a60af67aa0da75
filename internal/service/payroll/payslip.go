package payroll

import (
	"context"
	"errors"
	"fmt"

	"github.com/opsconsole/payroll-backend-go/internal/domain/employee"
	"github.com/opsconsole/payroll-backend-go/internal/domain/payroll"
	"github.com/opsconsole/payroll-backend-go/internal/service/shift"
)

// GetPayslipDetail implements payroll.PayrollService. Enriches one ledger row
// with its per-day shift breakdown, the period's deduction lines, and the
// loan and bonus summaries.
func (s *PayrollServiceImpl) GetPayslipDetail(ctx context.Context, entryID string) (payroll.PayslipDetailResponse, error) {
	entry, err := s.payrollRepo.GetEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, payroll.ErrEntryNotFound) {
			return payroll.PayslipDetailResponse{}, payroll.ErrEntryNotFound
		}
		return payroll.PayslipDetailResponse{}, fmt.Errorf("failed to get payroll entry %s: %w", entryID, err)
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, entry.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return payroll.PayslipDetailResponse{}, employee.ErrEmployeeNotFound
		}
		return payroll.PayslipDetailResponse{}, fmt.Errorf("failed to get employee %s: %w", entry.EmployeeID, err)
	}

	timesheetEntries, err := s.TimesheetRepository.ListForEmployee(ctx, entry.EmployeeID, entry.PeriodStart, entry.PeriodEnd)
	if err != nil {
		return payroll.PayslipDetailResponse{}, fmt.Errorf("failed to fetch timesheet entries for employee %s: %w", entry.EmployeeID, err)
	}

	policy := s.shiftPolicyFor(emp)
	days := make([]payroll.DayBreakdownResponse, 0, len(timesheetEntries))
	for _, te := range timesheetEntries {
		res, err := shift.Calculate(shift.Input{
			StartTime:    te.ClockIn,
			EndTime:      te.ClockOut,
			BreakMinutes: te.BreakMinutes,
			DayType:      te.DayType,
		}, policy)
		if err != nil {
			return payroll.PayslipDetailResponse{}, fmt.Errorf("failed to calculate shift for employee %s on %s: %w",
				entry.EmployeeID, te.Date.Format("2006-01-02"), err)
		}
		days = append(days, payroll.DayBreakdownResponse{
			Date:                 te.Date.Format("2006-01-02"),
			DayType:              string(te.DayType),
			ClockIn:              te.ClockIn,
			ClockOut:             te.ClockOut,
			BreakMinutes:         te.BreakMinutes,
			TotalMinutes:         res.TotalMinutes,
			BillableMinutes:      res.BillableMinutes,
			RegularMinutes:       res.RegularMinutes,
			OvertimeMinutes:      res.OvertimeMinutes,
			DinnerBreakDeduction: res.DinnerBreakDeduction,
			NightStatus:          string(res.NightStatus),
		})
	}

	deductions, err := s.DeductionRepository.ListActiveForEmployee(ctx, entry.EmployeeID, entry.PeriodStart, entry.PeriodEnd)
	if err != nil {
		return payroll.PayslipDetailResponse{}, fmt.Errorf("failed to fetch deductions for employee %s: %w", entry.EmployeeID, err)
	}

	lines := make([]payroll.DeductionLineResponse, 0, len(deductions))
	for _, d := range deductions {
		lines = append(lines, payroll.DeductionLineResponse{
			ID:          d.ID,
			Date:        d.Date.Format("2006-01-02"),
			Type:        string(d.Type),
			Amount:      d.Amount,
			Description: d.Description,
		})
	}

	loanSummary, err := s.loanSummary(ctx, entry.EmployeeID, entry.PeriodStart, entry.LoanDeductions)
	if err != nil {
		return payroll.PayslipDetailResponse{}, err
	}

	bonusSummary, err := s.BonusSummary(ctx, entry.EmployeeID, entry.PeriodEnd)
	if err != nil {
		return payroll.PayslipDetailResponse{}, err
	}

	resp := toEntryResponse(entry)
	if resp.EmployeeName == "" {
		resp.EmployeeName = emp.Name
	}
	if resp.EmployeeRole == "" {
		resp.EmployeeRole = emp.Role
	}

	return payroll.PayslipDetailResponse{
		Entry:      resp,
		Days:       days,
		Deductions: lines,
		Loan:       loanSummary,
		Bonus:      bonusSummary,
	}, nil
}
