package timesheet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/opsconsole/payroll-backend-go/internal/domain/payroll"
	"github.com/opsconsole/payroll-backend-go/internal/domain/timesheet"
	"github.com/opsconsole/payroll-backend-go/internal/pkg/validator"
)

type TimesheetServiceImpl struct {
	timesheet.TimesheetRepository
	payrollRepo    payroll.PayrollRepository
	payrollService payroll.PayrollService
}

func NewTimesheetService(
	timesheetRepo timesheet.TimesheetRepository,
	payrollRepo payroll.PayrollRepository,
	payrollService payroll.PayrollService,
) timesheet.TimesheetService {
	return &TimesheetServiceImpl{
		TimesheetRepository: timesheetRepo,
		payrollRepo:         payrollRepo,
		payrollService:      payrollService,
	}
}

// ClockIn implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) ClockIn(ctx context.Context, req timesheet.ClockInRequest) (timesheet.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.EntryResponse{}, err
	}

	date, _ := validator.IsValidDate(req.Date)

	if err := s.guardPaidPeriod(ctx, req.EmployeeID, date); err != nil {
		return timesheet.EntryResponse{}, err
	}

	_, err := s.TimesheetRepository.GetByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err == nil {
		return timesheet.EntryResponse{}, timesheet.ErrAlreadyClockedIn
	}
	if !errors.Is(err, timesheet.ErrEntryNotFound) {
		return timesheet.EntryResponse{}, fmt.Errorf("failed to get timesheet entry: %w", err)
	}

	dayType := timesheet.DayTypeWork
	if req.DayType != "" {
		dayType = timesheet.DayType(req.DayType)
	}

	clockIn := req.Time
	entry := timesheet.Entry{
		EmployeeID: req.EmployeeID,
		Date:       date,
		ClockIn:    &clockIn,
		DayType:    dayType,
	}

	created, err := s.TimesheetRepository.Create(ctx, entry)
	if err != nil {
		return timesheet.EntryResponse{}, fmt.Errorf("failed to create timesheet entry: %w", err)
	}

	return toEntryResponse(created), nil
}

// ClockOut implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) ClockOut(ctx context.Context, req timesheet.ClockOutRequest) (timesheet.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.EntryResponse{}, err
	}

	date, _ := validator.IsValidDate(req.Date)

	if err := s.guardPaidPeriod(ctx, req.EmployeeID, date); err != nil {
		return timesheet.EntryResponse{}, err
	}

	entry, err := s.TimesheetRepository.GetByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err != nil {
		if errors.Is(err, timesheet.ErrEntryNotFound) {
			return timesheet.EntryResponse{}, timesheet.ErrNotClockedIn
		}
		return timesheet.EntryResponse{}, fmt.Errorf("failed to get timesheet entry: %w", err)
	}
	if !entry.Worked() {
		return timesheet.EntryResponse{}, timesheet.ErrNotClockedIn
	}

	clockOut := req.Time
	entry.ClockOut = &clockOut
	if req.BreakMinutes != nil {
		entry.BreakMinutes = *req.BreakMinutes
	}

	updated, err := s.TimesheetRepository.Update(ctx, entry)
	if err != nil {
		return timesheet.EntryResponse{}, fmt.Errorf("failed to update timesheet entry: %w", err)
	}

	return toEntryResponse(updated), nil
}

// UpdateEntry implements timesheet.TimesheetService. Edits landing inside a
// paid payroll period require the adjustment path, which recomputes the
// frozen entry in place while keeping its paid status.
func (s *TimesheetServiceImpl) UpdateEntry(ctx context.Context, req timesheet.UpdateEntryRequest) (timesheet.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.EntryResponse{}, err
	}

	entry, err := s.TimesheetRepository.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, timesheet.ErrEntryNotFound) {
			return timesheet.EntryResponse{}, timesheet.ErrEntryNotFound
		}
		return timesheet.EntryResponse{}, fmt.Errorf("failed to get timesheet entry: %w", err)
	}

	paidEntry, err := s.payrollRepo.GetPaidEntryCovering(ctx, entry.EmployeeID, entry.Date)
	inPaidPeriod := err == nil
	if err != nil && !errors.Is(err, payroll.ErrEntryNotFound) {
		return timesheet.EntryResponse{}, fmt.Errorf("failed to check payroll entry for employee %s: %w", entry.EmployeeID, err)
	}
	if inPaidPeriod && !req.Adjust {
		return timesheet.EntryResponse{}, timesheet.ErrPeriodAlreadyPaid
	}

	applyUpdate(&entry, req)
	if inPaidPeriod {
		entry.AdjustmentNote = req.AdjustmentReason
	}

	updated, err := s.TimesheetRepository.Update(ctx, entry)
	if err != nil {
		return timesheet.EntryResponse{}, fmt.Errorf("failed to update timesheet entry: %w", err)
	}

	if inPaidPeriod {
		_, err = s.payrollService.RecalculateForAdjustment(ctx, entry.EmployeeID, paidEntry.PeriodStart, paidEntry.PeriodEnd)
		if err != nil {
			return timesheet.EntryResponse{}, fmt.Errorf("failed to recalculate adjusted payroll entry: %w", err)
		}
	}

	return toEntryResponse(updated), nil
}

// ListEntries implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) ListEntries(ctx context.Context, employeeID, startDate, endDate string) ([]timesheet.EntryResponse, error) {
	start, end, ok := validator.IsValidDateRange(startDate, endDate)
	if !ok {
		return nil, validator.ValidationErrors{
			{Field: "date_range", Message: "must be a valid date range (YYYY-MM-DD)"},
		}
	}

	entries, err := s.TimesheetRepository.ListForEmployee(ctx, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list timesheet entries: %w", err)
	}

	responses := make([]timesheet.EntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, toEntryResponse(entry))
	}
	return responses, nil
}

// guardPaidPeriod rejects clock events landing inside an already paid period.
func (s *TimesheetServiceImpl) guardPaidPeriod(ctx context.Context, employeeID string, date time.Time) error {
	_, err := s.payrollRepo.GetPaidEntryCovering(ctx, employeeID, date)
	if err == nil {
		return timesheet.ErrPeriodAlreadyPaid
	}
	if !errors.Is(err, payroll.ErrEntryNotFound) {
		return fmt.Errorf("failed to check payroll entry for employee %s: %w", employeeID, err)
	}
	return nil
}

func applyUpdate(entry *timesheet.Entry, req timesheet.UpdateEntryRequest) {
	if req.ClockIn != nil {
		if *req.ClockIn == "" {
			entry.ClockIn = nil
		} else {
			entry.ClockIn = req.ClockIn
		}
	}
	if req.ClockOut != nil {
		if *req.ClockOut == "" {
			entry.ClockOut = nil
		} else {
			entry.ClockOut = req.ClockOut
		}
	}
	if req.BreakMinutes != nil {
		entry.BreakMinutes = *req.BreakMinutes
	}
	if req.DayType != nil {
		entry.DayType = timesheet.DayType(*req.DayType)
	}
}

func toEntryResponse(entry timesheet.Entry) timesheet.EntryResponse {
	resp := timesheet.EntryResponse{
		ID:             entry.ID,
		EmployeeID:     entry.EmployeeID,
		Date:           entry.Date.Format("2006-01-02"),
		ClockIn:        entry.ClockIn,
		ClockOut:       entry.ClockOut,
		BreakMinutes:   entry.BreakMinutes,
		DayType:        string(entry.DayType),
		AdjustmentNote: entry.AdjustmentNote,
	}
	if entry.EmployeeName != nil {
		resp.EmployeeName = *entry.EmployeeName
	}
	return resp
}
