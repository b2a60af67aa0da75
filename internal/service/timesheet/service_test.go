package timesheet

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/opsconsole/payroll-backend-go/internal/domain/payroll"
	"github.com/opsconsole/payroll-backend-go/internal/domain/timesheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTimesheetRepo struct {
	byID   map[string]timesheet.Entry
	nextID int
}

func newFakeTimesheetRepo() *fakeTimesheetRepo {
	return &fakeTimesheetRepo{byID: make(map[string]timesheet.Entry)}
}

func (f *fakeTimesheetRepo) Create(_ context.Context, entry timesheet.Entry) (timesheet.Entry, error) {
	f.nextID++
	entry.ID = fmt.Sprintf("ts-%d", f.nextID)
	f.byID[entry.ID] = entry
	return entry, nil
}

func (f *fakeTimesheetRepo) Update(_ context.Context, entry timesheet.Entry) (timesheet.Entry, error) {
	f.byID[entry.ID] = entry
	return entry, nil
}

func (f *fakeTimesheetRepo) GetByID(_ context.Context, id string) (timesheet.Entry, error) {
	entry, ok := f.byID[id]
	if !ok {
		return timesheet.Entry{}, timesheet.ErrEntryNotFound
	}
	return entry, nil
}

func (f *fakeTimesheetRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (timesheet.Entry, error) {
	for _, entry := range f.byID {
		if entry.EmployeeID == employeeID && entry.Date.Equal(date) {
			return entry, nil
		}
	}
	return timesheet.Entry{}, timesheet.ErrEntryNotFound
}

func (f *fakeTimesheetRepo) ListForEmployee(_ context.Context, employeeID string, start, end time.Time) ([]timesheet.Entry, error) {
	var out []timesheet.Entry
	for _, entry := range f.byID {
		if entry.EmployeeID == employeeID && !entry.Date.Before(start) && !entry.Date.After(end) {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (f *fakeTimesheetRepo) ListForEmployees(_ context.Context, _ []string, _, _ time.Time) (map[string][]timesheet.Entry, error) {
	return map[string][]timesheet.Entry{}, nil
}

type fakePayrollRepo struct {
	paidEntries []payroll.Entry
}

func (f *fakePayrollRepo) GetEntry(_ context.Context, _ string, _, _ time.Time) (payroll.Entry, error) {
	return payroll.Entry{}, payroll.ErrEntryNotFound
}

func (f *fakePayrollRepo) GetEntryByID(_ context.Context, _ string) (payroll.Entry, error) {
	return payroll.Entry{}, payroll.ErrEntryNotFound
}

func (f *fakePayrollRepo) GetPaidEntryCovering(_ context.Context, employeeID string, date time.Time) (payroll.Entry, error) {
	for _, entry := range f.paidEntries {
		if entry.EmployeeID == employeeID && entry.Covers(date) {
			return entry, nil
		}
	}
	return payroll.Entry{}, payroll.ErrEntryNotFound
}

func (f *fakePayrollRepo) SaveComputed(_ context.Context, entry payroll.Entry, _ bool) (payroll.Entry, error) {
	return entry, nil
}

func (f *fakePayrollRepo) MarkPaid(_ context.Context, _ string, _, _ time.Time, _ string, _ time.Time) (payroll.Entry, error) {
	return payroll.Entry{}, payroll.ErrEntryNotFound
}

func (f *fakePayrollRepo) MarkUnpaid(_ context.Context, _ string, _, _ time.Time) (payroll.Entry, error) {
	return payroll.Entry{}, payroll.ErrEntryNotFound
}

func (f *fakePayrollRepo) ListEntries(_ context.Context, _, _ time.Time) ([]payroll.Entry, error) {
	return nil, nil
}

type adjustCall struct {
	employeeID  string
	periodStart time.Time
	periodEnd   time.Time
}

// fakePayrollService only records adjustment recalculations; nothing else in
// the timesheet flow touches the payroll service.
type fakePayrollService struct {
	payroll.PayrollService
	adjustCalls []adjustCall
}

func (f *fakePayrollService) RecalculateForAdjustment(_ context.Context, employeeID string, periodStart, periodEnd time.Time) (payroll.EntryResponse, error) {
	f.adjustCalls = append(f.adjustCalls, adjustCall{employeeID, periodStart, periodEnd})
	return payroll.EntryResponse{}, nil
}

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func strPtr(s string) *string {
	return &s
}

type fixture struct {
	repo        *fakeTimesheetRepo
	payrollRepo *fakePayrollRepo
	payrollSvc  *fakePayrollService
	service     timesheet.TimesheetService
}

func newFixture() *fixture {
	f := &fixture{
		repo:        newFakeTimesheetRepo(),
		payrollRepo: &fakePayrollRepo{},
		payrollSvc:  &fakePayrollService{},
	}
	f.service = NewTimesheetService(f.repo, f.payrollRepo, f.payrollSvc)
	return f
}

func TestClockIn(t *testing.T) {
	f := newFixture()

	resp, err := f.service.ClockIn(context.Background(), timesheet.ClockInRequest{
		EmployeeID: "emp-1",
		Date:       "2026-01-06",
		Time:       "09:00",
	})
	require.NoError(t, err)

	assert.Equal(t, "emp-1", resp.EmployeeID)
	assert.Equal(t, "2026-01-06", resp.Date)
	require.NotNil(t, resp.ClockIn)
	assert.Equal(t, "09:00", *resp.ClockIn)
	assert.Equal(t, string(timesheet.DayTypeWork), resp.DayType)
}

func TestClockInTwiceRejected(t *testing.T) {
	f := newFixture()

	req := timesheet.ClockInRequest{EmployeeID: "emp-1", Date: "2026-01-06", Time: "09:00"}
	_, err := f.service.ClockIn(context.Background(), req)
	require.NoError(t, err)

	_, err = f.service.ClockIn(context.Background(), req)
	assert.ErrorIs(t, err, timesheet.ErrAlreadyClockedIn)
}

func TestClockInPaidPeriodRejected(t *testing.T) {
	f := newFixture()
	f.payrollRepo.paidEntries = []payroll.Entry{{
		EmployeeID:  "emp-1",
		PeriodStart: date("2026-01-05"),
		PeriodEnd:   date("2026-01-18"),
		Status:      payroll.StatusPaid,
	}}

	_, err := f.service.ClockIn(context.Background(), timesheet.ClockInRequest{
		EmployeeID: "emp-1",
		Date:       "2026-01-06",
		Time:       "09:00",
	})
	assert.ErrorIs(t, err, timesheet.ErrPeriodAlreadyPaid)
}

func TestClockOut(t *testing.T) {
	f := newFixture()

	_, err := f.service.ClockIn(context.Background(), timesheet.ClockInRequest{
		EmployeeID: "emp-1", Date: "2026-01-06", Time: "09:00",
	})
	require.NoError(t, err)

	breakMinutes := 45
	resp, err := f.service.ClockOut(context.Background(), timesheet.ClockOutRequest{
		EmployeeID:   "emp-1",
		Date:         "2026-01-06",
		Time:         "18:00",
		BreakMinutes: &breakMinutes,
	})
	require.NoError(t, err)

	require.NotNil(t, resp.ClockOut)
	assert.Equal(t, "18:00", *resp.ClockOut)
	assert.Equal(t, 45, resp.BreakMinutes)
}

func TestClockOutWithoutClockIn(t *testing.T) {
	f := newFixture()

	_, err := f.service.ClockOut(context.Background(), timesheet.ClockOutRequest{
		EmployeeID: "emp-1",
		Date:       "2026-01-06",
		Time:       "18:00",
	})
	assert.ErrorIs(t, err, timesheet.ErrNotClockedIn)
}

func TestUpdateEntry(t *testing.T) {
	f := newFixture()

	created, err := f.service.ClockIn(context.Background(), timesheet.ClockInRequest{
		EmployeeID: "emp-1", Date: "2026-01-06", Time: "09:00",
	})
	require.NoError(t, err)

	resp, err := f.service.UpdateEntry(context.Background(), timesheet.UpdateEntryRequest{
		ID:       created.ID,
		ClockOut: strPtr("17:30"),
		DayType:  strPtr(string(timesheet.DayTypeTravel)),
	})
	require.NoError(t, err)

	require.NotNil(t, resp.ClockOut)
	assert.Equal(t, "17:30", *resp.ClockOut)
	assert.Equal(t, string(timesheet.DayTypeTravel), resp.DayType)
	assert.Empty(t, f.payrollSvc.adjustCalls)
}

func TestUpdateEntryPaidPeriodRequiresAdjustment(t *testing.T) {
	f := newFixture()

	created, err := f.service.ClockIn(context.Background(), timesheet.ClockInRequest{
		EmployeeID: "emp-1", Date: "2026-01-06", Time: "09:00",
	})
	require.NoError(t, err)

	f.payrollRepo.paidEntries = []payroll.Entry{{
		EmployeeID:  "emp-1",
		PeriodStart: date("2026-01-05"),
		PeriodEnd:   date("2026-01-18"),
		Status:      payroll.StatusPaid,
	}}

	_, err = f.service.UpdateEntry(context.Background(), timesheet.UpdateEntryRequest{
		ID:       created.ID,
		ClockOut: strPtr("17:30"),
	})
	assert.ErrorIs(t, err, timesheet.ErrPeriodAlreadyPaid)
	assert.Empty(t, f.payrollSvc.adjustCalls)
}

func TestUpdateEntryAdjustmentRecalculatesPaidPeriod(t *testing.T) {
	f := newFixture()

	created, err := f.service.ClockIn(context.Background(), timesheet.ClockInRequest{
		EmployeeID: "emp-1", Date: "2026-01-06", Time: "09:00",
	})
	require.NoError(t, err)

	f.payrollRepo.paidEntries = []payroll.Entry{{
		EmployeeID:  "emp-1",
		PeriodStart: date("2026-01-05"),
		PeriodEnd:   date("2026-01-18"),
		Status:      payroll.StatusPaid,
	}}

	resp, err := f.service.UpdateEntry(context.Background(), timesheet.UpdateEntryRequest{
		ID:               created.ID,
		ClockOut:         strPtr("17:30"),
		Adjust:           true,
		AdjustmentReason: strPtr("missed clock out corrected"),
	})
	require.NoError(t, err)

	require.NotNil(t, resp.AdjustmentNote)
	assert.Equal(t, "missed clock out corrected", *resp.AdjustmentNote)

	require.Len(t, f.payrollSvc.adjustCalls, 1)
	call := f.payrollSvc.adjustCalls[0]
	assert.Equal(t, "emp-1", call.employeeID)
	assert.True(t, call.periodStart.Equal(date("2026-01-05")))
	assert.True(t, call.periodEnd.Equal(date("2026-01-18")))
}

func TestUpdateEntryAdjustmentRequiresReason(t *testing.T) {
	f := newFixture()

	_, err := f.service.UpdateEntry(context.Background(), timesheet.UpdateEntryRequest{
		ID:     "ts-1",
		Adjust: true,
	})
	assert.Error(t, err)
}
