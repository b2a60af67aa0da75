package payroll

import (
	"fmt"
	"time"

	"github.com/opsconsole/payroll-backend-go/internal/domain/deduction"
	"github.com/opsconsole/payroll-backend-go/internal/domain/employee"
	"github.com/opsconsole/payroll-backend-go/internal/domain/payroll"
	"github.com/opsconsole/payroll-backend-go/internal/domain/timesheet"
	"github.com/opsconsole/payroll-backend-go/internal/service/shift"
	"github.com/shopspring/decimal"
)

var (
	sixty        = decimal.NewFromInt(60)
	overtimeRate = decimal.NewFromFloat(1.5)
	daysPerMonth = decimal.NewFromInt(30)
)

// shiftPolicyFor builds the calculator policy for one employee. The
// employee's own shift end is the overtime cutoff when configured; otherwise
// the engine-wide default applies.
func (s *PayrollServiceImpl) shiftPolicyFor(emp employee.Employee) shift.Policy {
	cutoff := s.policy.OvertimeCutoff
	if emp.ShiftEnd != "" {
		cutoff = emp.ShiftEnd
	}
	return shift.Policy{
		OvertimeCutoff: cutoff,
		DinnerStart:    s.policy.DinnerStart,
		DinnerEnd:      s.policy.DinnerEnd,
	}
}

// standardShiftMinutes computes the regular minutes of the employee's own
// configured shift, with the cutoff at the shift end so nothing counts as
// overtime. Zero when the employee has no configured shift.
func (s *PayrollServiceImpl) standardShiftMinutes(emp employee.Employee) (int, error) {
	if emp.ShiftStart == "" || emp.ShiftEnd == "" {
		return 0, nil
	}

	start := emp.ShiftStart
	end := emp.ShiftEnd
	res, err := shift.Calculate(shift.Input{
		StartTime:    &start,
		EndTime:      &end,
		BreakMinutes: emp.BreakMinutes,
		DayType:      timesheet.DayTypeWork,
	}, shift.Policy{
		OvertimeCutoff: emp.ShiftEnd,
		DinnerStart:    s.policy.DinnerStart,
		DinnerEnd:      s.policy.DinnerEnd,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to calculate standard shift for employee %s: %w", emp.ID, err)
	}
	return res.RegularMinutes, nil
}

// computeEntry runs the full aggregation for one employee and period: shift
// calculation per timesheet day, gross pay by the resolved pay model,
// overtime at 1.5x, then deduction subtotals and net pay.
func (s *PayrollServiceImpl) computeEntry(
	emp employee.Employee,
	entries []timesheet.Entry,
	deductions []deduction.Deduction,
	periodStart, periodEnd time.Time,
) (payroll.Entry, error) {
	model, err := emp.PayModel()
	if err != nil {
		return payroll.Entry{}, fmt.Errorf("employee %s: %w", emp.ID, err)
	}

	policy := s.shiftPolicyFor(emp)

	var regularMinutes, overtimeMinutes, billableMinutes, workingDays int
	for _, entry := range entries {
		res, err := shift.Calculate(shift.Input{
			StartTime:    entry.ClockIn,
			EndTime:      entry.ClockOut,
			BreakMinutes: entry.BreakMinutes,
			DayType:      entry.DayType,
		}, policy)
		if err != nil {
			return payroll.Entry{}, fmt.Errorf("failed to calculate shift for employee %s on %s: %w",
				emp.ID, entry.Date.Format("2006-01-02"), err)
		}
		regularMinutes += res.RegularMinutes
		overtimeMinutes += res.OvertimeMinutes
		billableMinutes += res.BillableMinutes
		if entry.Worked() {
			workingDays++
		}
	}

	standardHours := decimal.NewFromInt(int64(s.policy.StandardShiftHours))
	regular := decimal.NewFromInt(int64(regularMinutes))

	var gross, hourlyRate decimal.Decimal
	switch model.Kind {
	case employee.PayModelPerShift:
		standardMinutes, err := s.standardShiftMinutes(emp)
		if err != nil {
			return payroll.Entry{}, err
		}
		standardDailyHours := standardHours
		if standardMinutes > 0 {
			standardDailyHours = decimal.NewFromInt(int64(standardMinutes)).Div(sixty)
		}
		hourlyRate = model.Amount.Div(standardDailyHours)

		days := decimal.NewFromInt(int64(workingDays))
		expectedMinutes := standardMinutes * workingDays
		if expectedMinutes > 0 {
			// Pro-rate against the expected regular time for the period.
			gross = model.Amount.Mul(days).Mul(regular.Div(decimal.NewFromInt(int64(expectedMinutes))))
		} else {
			gross = model.Amount.Mul(days)
		}
	case employee.PayModelHourly:
		hourlyRate = model.Amount
		gross = model.Amount.Mul(regular.Div(sixty))
	case employee.PayModelMonthly:
		hourlyRate = model.Amount.Div(daysPerMonth).Div(standardHours)
		gross = model.Amount
	}

	gross = gross.Round(0)
	overtimePay := decimal.NewFromInt(int64(overtimeMinutes)).Div(sixty).Mul(hourlyRate).Mul(overtimeRate).Round(0)
	gross = gross.Add(overtimePay)

	var total, advance, loan decimal.Decimal
	for _, d := range deductions {
		total = total.Add(d.Amount)
		switch d.Type {
		case deduction.TypeAdvance:
			advance = advance.Add(d.Amount)
		case deduction.TypeLoan:
			loan = loan.Add(d.Amount)
		}
	}

	return payroll.Entry{
		EmployeeID:  emp.ID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,

		GrossPay:          gross,
		OvertimePay:       overtimePay,
		Deductions:        total,
		AdvanceDeductions: advance,
		LoanDeductions:    loan,
		NetPay:            gross.Sub(total).Round(0),

		TotalBillableMinutes: billableMinutes,
		TotalRegularMinutes:  regularMinutes,
		TotalOvertimeMinutes: overtimeMinutes,
		WorkingDays:          workingDays,
		HourlyRate:           hourlyRate,

		Status: payroll.StatusPending,
	}, nil
}
