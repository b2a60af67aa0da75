package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/opsconsole/payroll-backend-go/internal/domain/deduction"
	"github.com/opsconsole/payroll-backend-go/internal/domain/employee"
	"github.com/opsconsole/payroll-backend-go/internal/domain/payroll"
	"github.com/opsconsole/payroll-backend-go/internal/domain/timesheet"
	"github.com/opsconsole/payroll-backend-go/internal/pkg/validator"
)

// Policy carries the payroll knobs from configuration: the rolling period
// anchor, the cycle length, and the clock boundaries used by the shift
// calculator.
type Policy struct {
	AnchorDate         time.Time
	CycleDays          int
	OvertimeCutoff     string
	DinnerStart        string
	DinnerEnd          string
	StandardShiftHours int
}

type PayrollServiceImpl struct {
	employee.EmployeeRepository
	timesheet.TimesheetRepository
	deduction.DeductionRepository
	payrollRepo payroll.PayrollRepository
	lockRepo    payroll.PeriodLockRepository
	bonusRepo   payroll.BonusRepository
	policy      Policy

	now func() time.Time
}

func NewPayrollService(
	employeeRepo employee.EmployeeRepository,
	timesheetRepo timesheet.TimesheetRepository,
	deductionRepo deduction.DeductionRepository,
	payrollRepo payroll.PayrollRepository,
	lockRepo payroll.PeriodLockRepository,
	bonusRepo payroll.BonusRepository,
	policy Policy,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		EmployeeRepository:  employeeRepo,
		TimesheetRepository: timesheetRepo,
		DeductionRepository: deductionRepo,
		payrollRepo:         payrollRepo,
		lockRepo:            lockRepo,
		bonusRepo:           bonusRepo,
		policy:              policy,
		now:                 time.Now,
	}
}

// Recalculate implements payroll.PayrollService.
func (s *PayrollServiceImpl) Recalculate(ctx context.Context, req payroll.RecalculateRequest) (payroll.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.EntryResponse{}, err
	}
	periodStart, periodEnd, _ := validator.IsValidDateRange(req.PeriodStart, req.PeriodEnd)

	// Frozen entries short-circuit before any computation.
	existing, err := s.payrollRepo.GetEntry(ctx, req.EmployeeID, periodStart, periodEnd)
	if err == nil && existing.Status == payroll.StatusPaid {
		return toEntryResponse(existing), nil
	}
	if err != nil && !errors.Is(err, payroll.ErrEntryNotFound) {
		return payroll.EntryResponse{}, fmt.Errorf("failed to get payroll entry for employee %s: %w", req.EmployeeID, err)
	}

	saved, err := s.recalculateOne(ctx, req.EmployeeID, periodStart, periodEnd, false)
	if err != nil {
		return payroll.EntryResponse{}, err
	}
	return toEntryResponse(saved), nil
}

// RecalculateForAdjustment implements payroll.PayrollService. It recomputes a
// paid entry in place; status, paid_at and paid_by survive.
func (s *PayrollServiceImpl) RecalculateForAdjustment(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (payroll.EntryResponse, error) {
	saved, err := s.recalculateOne(ctx, employeeID, periodStart, periodEnd, true)
	if err != nil {
		return payroll.EntryResponse{}, err
	}
	return toEntryResponse(saved), nil
}

// recalculateOne fetches one employee's inputs, computes, and persists. The
// repository rejects the write against a paid entry unless allowPaid is set,
// returning the frozen row instead.
func (s *PayrollServiceImpl) recalculateOne(ctx context.Context, employeeID string, periodStart, periodEnd time.Time, allowPaid bool) (payroll.Entry, error) {
	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return payroll.Entry{}, employee.ErrEmployeeNotFound
		}
		return payroll.Entry{}, fmt.Errorf("failed to get employee %s: %w", employeeID, err)
	}

	entries, err := s.TimesheetRepository.ListForEmployee(ctx, employeeID, periodStart, periodEnd)
	if err != nil {
		return payroll.Entry{}, fmt.Errorf("failed to fetch timesheet entries for employee %s: %w", employeeID, err)
	}

	deductions, err := s.DeductionRepository.ListActiveForEmployee(ctx, employeeID, periodStart, periodEnd)
	if err != nil {
		return payroll.Entry{}, fmt.Errorf("failed to fetch deductions for employee %s: %w", employeeID, err)
	}

	computed, err := s.computeEntry(emp, entries, deductions, periodStart, periodEnd)
	if err != nil {
		return payroll.Entry{}, err
	}

	saved, err := s.payrollRepo.SaveComputed(ctx, computed, allowPaid)
	if err != nil {
		if errors.Is(err, payroll.ErrEntryAlreadyPaid) {
			// Lost the race against a mark-paid: the frozen row wins.
			return saved, nil
		}
		return payroll.Entry{}, fmt.Errorf("failed to save payroll entry for employee %s: %w", employeeID, err)
	}
	return saved, nil
}

// RecalculateBulk implements payroll.PayrollService. Timesheet entries and
// deductions are fetched once for the whole period, not once per employee.
func (s *PayrollServiceImpl) RecalculateBulk(ctx context.Context, req payroll.BulkRecalculateRequest) ([]payroll.BulkEntryResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	periodStart, periodEnd, _ := validator.IsValidDateRange(req.PeriodStart, req.PeriodEnd)

	var employees []employee.Employee
	var err error
	if len(req.EmployeeIDs) > 0 {
		employees, err = s.EmployeeRepository.GetByIDs(ctx, req.EmployeeIDs)
	} else {
		employees, err = s.EmployeeRepository.ListActive(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", err)
	}

	employeeIDs := make([]string, 0, len(employees))
	for _, emp := range employees {
		employeeIDs = append(employeeIDs, emp.ID)
	}

	entriesByEmployee, err := s.TimesheetRepository.ListForEmployees(ctx, employeeIDs, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timesheet entries: %w", err)
	}

	deductionsByEmployee, err := s.DeductionRepository.ListActiveForEmployees(ctx, employeeIDs, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deductions: %w", err)
	}

	results := make([]payroll.BulkEntryResult, 0, len(employees))
	for _, emp := range employees {
		result := payroll.BulkEntryResult{EmployeeID: emp.ID}

		computed, err := s.computeEntry(emp, entriesByEmployee[emp.ID], deductionsByEmployee[emp.ID], periodStart, periodEnd)
		if err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		saved, err := s.payrollRepo.SaveComputed(ctx, computed, false)
		if err != nil && !errors.Is(err, payroll.ErrEntryAlreadyPaid) {
			result.Error = fmt.Sprintf("failed to save payroll entry: %v", err)
			results = append(results, result)
			continue
		}

		resp := toEntryResponse(saved)
		result.Entry = &resp
		results = append(results, result)
	}

	return results, nil
}

// MarkPaid implements payroll.PayrollService. Each entry is recomputed one
// final time so the frozen numbers reflect the store at the moment of
// payment, then frozen.
func (s *PayrollServiceImpl) MarkPaid(ctx context.Context, req payroll.MarkPaidRequest) ([]payroll.BulkEntryResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	periodStart, periodEnd, _ := validator.IsValidDateRange(req.PeriodStart, req.PeriodEnd)

	paidBy := actorFromContext(ctx)
	paidAt := s.now().UTC()

	results := make([]payroll.BulkEntryResult, 0, len(req.EmployeeIDs))
	for _, employeeID := range req.EmployeeIDs {
		result := payroll.BulkEntryResult{EmployeeID: employeeID}

		if _, err := s.recalculateOne(ctx, employeeID, periodStart, periodEnd, false); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		entry, err := s.payrollRepo.MarkPaid(ctx, employeeID, periodStart, periodEnd, paidBy, paidAt)
		if err != nil {
			result.Error = fmt.Sprintf("failed to mark paid: %v", err)
			results = append(results, result)
			continue
		}

		resp := toEntryResponse(entry)
		result.Entry = &resp
		results = append(results, result)
	}

	return results, nil
}

// MarkUnpaid implements payroll.PayrollService. Reopens a paid entry to
// pending and clears paid_at; the stored financial figures stay as they were.
func (s *PayrollServiceImpl) MarkUnpaid(ctx context.Context, req payroll.MarkUnpaidRequest) (payroll.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.EntryResponse{}, err
	}
	periodStart, periodEnd, _ := validator.IsValidDateRange(req.PeriodStart, req.PeriodEnd)

	entry, err := s.payrollRepo.MarkUnpaid(ctx, req.EmployeeID, periodStart, periodEnd)
	if err != nil {
		if errors.Is(err, payroll.ErrEntryNotFound) || errors.Is(err, payroll.ErrEntryNotPaid) {
			return payroll.EntryResponse{}, err
		}
		return payroll.EntryResponse{}, fmt.Errorf("failed to mark payroll entry unpaid for employee %s: %w", req.EmployeeID, err)
	}
	return toEntryResponse(entry), nil
}

// ListEntries implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListEntries(ctx context.Context, periodStart, periodEnd string) ([]payroll.EntryResponse, error) {
	start, end, ok := validator.IsValidDateRange(periodStart, periodEnd)
	if !ok {
		return nil, payroll.ErrInvalidPeriod
	}

	entries, err := s.payrollRepo.ListEntries(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll entries: %w", err)
	}

	responses := make([]payroll.EntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, toEntryResponse(entry))
	}
	return responses, nil
}

// GetSummary implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetSummary(ctx context.Context, periodStart, periodEnd string) (payroll.SummaryResponse, error) {
	start, end, ok := validator.IsValidDateRange(periodStart, periodEnd)
	if !ok {
		return payroll.SummaryResponse{}, payroll.ErrInvalidPeriod
	}

	entries, err := s.payrollRepo.ListEntries(ctx, start, end)
	if err != nil {
		return payroll.SummaryResponse{}, fmt.Errorf("failed to list payroll entries: %w", err)
	}

	summary := payroll.SummaryResponse{
		PeriodStart:   start.Format("2006-01-02"),
		PeriodEnd:     end.Format("2006-01-02"),
		EmployeeCount: len(entries),
	}
	for _, entry := range entries {
		if entry.Status == payroll.StatusPaid {
			summary.PaidCount++
		} else {
			summary.PendingCount++
		}
		summary.TotalGross = summary.TotalGross.Add(entry.GrossPay)
		summary.TotalOvertime = summary.TotalOvertime.Add(entry.OvertimePay)
		summary.TotalDeductions = summary.TotalDeductions.Add(entry.Deductions)
		summary.TotalNet = summary.TotalNet.Add(entry.NetPay)
	}
	return summary, nil
}

// actorFromContext pulls the acting user out of the verified JWT claims.
// Callers outside an authenticated request are recorded as "system".
func actorFromContext(ctx context.Context) string {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "system"
	}
	if userID, ok := claims["user_id"].(string); ok && userID != "" {
		return userID
	}
	return "system"
}

func toEntryResponse(entry payroll.Entry) payroll.EntryResponse {
	resp := payroll.EntryResponse{
		ID:          entry.ID,
		EmployeeID:  entry.EmployeeID,
		PeriodStart: entry.PeriodStart.Format("2006-01-02"),
		PeriodEnd:   entry.PeriodEnd.Format("2006-01-02"),

		GrossPay:          entry.GrossPay,
		OvertimePay:       entry.OvertimePay,
		Deductions:        entry.Deductions,
		AdvanceDeductions: entry.AdvanceDeductions,
		LoanDeductions:    entry.LoanDeductions,
		NetPay:            entry.NetPay,

		TotalBillableMinutes: entry.TotalBillableMinutes,
		TotalRegularMinutes:  entry.TotalRegularMinutes,
		TotalOvertimeMinutes: entry.TotalOvertimeMinutes,
		WorkingDays:          entry.WorkingDays,
		HourlyRate:           entry.HourlyRate,

		Status: entry.Status,
		PaidBy: entry.PaidBy,
	}
	if entry.PaidAt != nil {
		paidAt := entry.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &paidAt
	}
	if entry.EmployeeName != nil {
		resp.EmployeeName = *entry.EmployeeName
	}
	if entry.EmployeeRole != nil {
		resp.EmployeeRole = *entry.EmployeeRole
	}
	return resp
}
