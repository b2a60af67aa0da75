package payroll

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/opsconsole/payroll-backend-go/internal/domain/deduction"
	"github.com/opsconsole/payroll-backend-go/internal/domain/employee"
	"github.com/opsconsole/payroll-backend-go/internal/domain/payroll"
	"github.com/opsconsole/payroll-backend-go/internal/domain/timesheet"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes -----------------------------------------------------------------

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
	getCalls  int
	listCalls int
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	f.getCalls++
	emp, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeEmployeeRepo) GetByIDs(_ context.Context, ids []string) ([]employee.Employee, error) {
	f.listCalls++
	var out []employee.Employee
	for _, id := range ids {
		if emp, ok := f.employees[id]; ok {
			out = append(out, emp)
		}
	}
	return out, nil
}

func (f *fakeEmployeeRepo) ListActive(_ context.Context) ([]employee.Employee, error) {
	f.listCalls++
	var out []employee.Employee
	for _, emp := range f.employees {
		if emp.Status == employee.StatusActive {
			out = append(out, emp)
		}
	}
	return out, nil
}

type fakeTimesheetRepo struct {
	entries   map[string][]timesheet.Entry
	listCalls int
	bulkCalls int
}

func (f *fakeTimesheetRepo) Create(_ context.Context, e timesheet.Entry) (timesheet.Entry, error) {
	f.entries[e.EmployeeID] = append(f.entries[e.EmployeeID], e)
	return e, nil
}

func (f *fakeTimesheetRepo) Update(_ context.Context, e timesheet.Entry) (timesheet.Entry, error) {
	return e, nil
}

func (f *fakeTimesheetRepo) GetByID(_ context.Context, _ string) (timesheet.Entry, error) {
	return timesheet.Entry{}, timesheet.ErrEntryNotFound
}

func (f *fakeTimesheetRepo) GetByEmployeeAndDate(_ context.Context, _ string, _ time.Time) (timesheet.Entry, error) {
	return timesheet.Entry{}, timesheet.ErrEntryNotFound
}

func (f *fakeTimesheetRepo) ListForEmployee(_ context.Context, employeeID string, start, end time.Time) ([]timesheet.Entry, error) {
	f.listCalls++
	return inRange(f.entries[employeeID], start, end), nil
}

func (f *fakeTimesheetRepo) ListForEmployees(_ context.Context, employeeIDs []string, start, end time.Time) (map[string][]timesheet.Entry, error) {
	f.bulkCalls++
	out := make(map[string][]timesheet.Entry)
	for _, id := range employeeIDs {
		out[id] = inRange(f.entries[id], start, end)
	}
	return out, nil
}

func inRange(entries []timesheet.Entry, start, end time.Time) []timesheet.Entry {
	var out []timesheet.Entry
	for _, e := range entries {
		if !e.Date.Before(start) && !e.Date.After(end) {
			out = append(out, e)
		}
	}
	return out
}

type fakeDeductionRepo struct {
	deductions map[string][]deduction.Deduction
	loans      map[string]deduction.Loan
	priorSums  map[string]decimal.Decimal
	listCalls  int
	bulkCalls  int
}

func (f *fakeDeductionRepo) ListActiveForEmployee(_ context.Context, employeeID string, start, end time.Time) ([]deduction.Deduction, error) {
	f.listCalls++
	return dedInRange(f.deductions[employeeID], start, end), nil
}

func (f *fakeDeductionRepo) ListActiveForEmployees(_ context.Context, employeeIDs []string, start, end time.Time) (map[string][]deduction.Deduction, error) {
	f.bulkCalls++
	out := make(map[string][]deduction.Deduction)
	for _, id := range employeeIDs {
		out[id] = dedInRange(f.deductions[id], start, end)
	}
	return out, nil
}

func (f *fakeDeductionRepo) SumLoanDeductionsBefore(_ context.Context, employeeID string, _ time.Time) (decimal.Decimal, error) {
	return f.priorSums[employeeID], nil
}

func (f *fakeDeductionRepo) GetActiveLoan(_ context.Context, employeeID string) (deduction.Loan, error) {
	loan, ok := f.loans[employeeID]
	if !ok {
		return deduction.Loan{}, deduction.ErrNoActiveLoan
	}
	return loan, nil
}

func dedInRange(deds []deduction.Deduction, start, end time.Time) []deduction.Deduction {
	var out []deduction.Deduction
	for _, d := range deds {
		if d.Status == deduction.StatusActive && !d.Date.Before(start) && !d.Date.After(end) {
			out = append(out, d)
		}
	}
	return out
}

type fakePayrollRepo struct {
	entries map[string]payroll.Entry
	nextID  int
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{entries: make(map[string]payroll.Entry)}
}

func entryKey(employeeID string, start, end time.Time) string {
	return employeeID + "|" + start.Format("2006-01-02") + "|" + end.Format("2006-01-02")
}

func (f *fakePayrollRepo) GetEntry(_ context.Context, employeeID string, start, end time.Time) (payroll.Entry, error) {
	entry, ok := f.entries[entryKey(employeeID, start, end)]
	if !ok {
		return payroll.Entry{}, payroll.ErrEntryNotFound
	}
	return entry, nil
}

func (f *fakePayrollRepo) GetEntryByID(_ context.Context, id string) (payroll.Entry, error) {
	for _, entry := range f.entries {
		if entry.ID == id {
			return entry, nil
		}
	}
	return payroll.Entry{}, payroll.ErrEntryNotFound
}

func (f *fakePayrollRepo) GetPaidEntryCovering(_ context.Context, employeeID string, date time.Time) (payroll.Entry, error) {
	for _, entry := range f.entries {
		if entry.EmployeeID == employeeID && entry.Status == payroll.StatusPaid && entry.Covers(date) {
			return entry, nil
		}
	}
	return payroll.Entry{}, payroll.ErrEntryNotFound
}

func (f *fakePayrollRepo) SaveComputed(_ context.Context, entry payroll.Entry, allowPaid bool) (payroll.Entry, error) {
	key := entryKey(entry.EmployeeID, entry.PeriodStart, entry.PeriodEnd)
	existing, ok := f.entries[key]
	if ok {
		if existing.Status == payroll.StatusPaid && !allowPaid {
			return existing, payroll.ErrEntryAlreadyPaid
		}
		entry.ID = existing.ID
		entry.Status = existing.Status
		entry.PaidAt = existing.PaidAt
		entry.PaidBy = existing.PaidBy
	} else {
		f.nextID++
		entry.ID = fmt.Sprintf("entry-%d", f.nextID)
		entry.Status = payroll.StatusPending
	}
	f.entries[key] = entry
	return entry, nil
}

func (f *fakePayrollRepo) MarkPaid(_ context.Context, employeeID string, start, end time.Time, paidBy string, paidAt time.Time) (payroll.Entry, error) {
	key := entryKey(employeeID, start, end)
	entry, ok := f.entries[key]
	if !ok {
		return payroll.Entry{}, payroll.ErrEntryNotFound
	}
	entry.Status = payroll.StatusPaid
	entry.PaidAt = &paidAt
	entry.PaidBy = &paidBy
	f.entries[key] = entry
	return entry, nil
}

func (f *fakePayrollRepo) MarkUnpaid(_ context.Context, employeeID string, start, end time.Time) (payroll.Entry, error) {
	key := entryKey(employeeID, start, end)
	entry, ok := f.entries[key]
	if !ok {
		return payroll.Entry{}, payroll.ErrEntryNotFound
	}
	if entry.Status != payroll.StatusPaid {
		return payroll.Entry{}, payroll.ErrEntryNotPaid
	}
	entry.Status = payroll.StatusPending
	entry.PaidAt = nil
	entry.PaidBy = nil
	f.entries[key] = entry
	return entry, nil
}

func (f *fakePayrollRepo) ListEntries(_ context.Context, start, end time.Time) ([]payroll.Entry, error) {
	var out []payroll.Entry
	for _, entry := range f.entries {
		if entry.PeriodStart.Equal(start) && entry.PeriodEnd.Equal(end) {
			out = append(out, entry)
		}
	}
	return out, nil
}

type fakeLockRepo struct {
	lock *payroll.PeriodLock
}

func (f *fakeLockRepo) Get(_ context.Context) (payroll.PeriodLock, error) {
	if f.lock == nil {
		return payroll.PeriodLock{}, payroll.ErrNoPeriodLock
	}
	return *f.lock, nil
}

func (f *fakeLockRepo) Set(_ context.Context, lock payroll.PeriodLock) (payroll.PeriodLock, error) {
	f.lock = &lock
	return lock, nil
}

func (f *fakeLockRepo) Clear(_ context.Context) error {
	f.lock = nil
	return nil
}

type fakeBonusRepo struct {
	setting     *payroll.BonusSetting
	withdrawals map[string][]payroll.BonusWithdrawal
}

func (f *fakeBonusRepo) GetSetting(_ context.Context) (payroll.BonusSetting, error) {
	if f.setting == nil {
		return payroll.BonusSetting{}, payroll.ErrBonusSettingNotFound
	}
	return *f.setting, nil
}

func (f *fakeBonusRepo) ListWithdrawals(_ context.Context, employeeID string) ([]payroll.BonusWithdrawal, error) {
	return f.withdrawals[employeeID], nil
}

// --- fixtures --------------------------------------------------------------

type fixture struct {
	employees *fakeEmployeeRepo
	timesheet *fakeTimesheetRepo
	deduction *fakeDeductionRepo
	payroll   *fakePayrollRepo
	lock      *fakeLockRepo
	bonus     *fakeBonusRepo
	service   *PayrollServiceImpl
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		employees: &fakeEmployeeRepo{employees: make(map[string]employee.Employee)},
		timesheet: &fakeTimesheetRepo{entries: make(map[string][]timesheet.Entry)},
		deduction: &fakeDeductionRepo{
			deductions: make(map[string][]deduction.Deduction),
			loans:      make(map[string]deduction.Loan),
			priorSums:  make(map[string]decimal.Decimal),
		},
		payroll: newFakePayrollRepo(),
		lock:    &fakeLockRepo{},
		bonus:   &fakeBonusRepo{withdrawals: make(map[string][]payroll.BonusWithdrawal)},
	}

	svc := NewPayrollService(f.employees, f.timesheet, f.deduction, f.payroll, f.lock, f.bonus, Policy{
		AnchorDate:         date("2026-01-05"),
		CycleDays:          14,
		OvertimeCutoff:     "18:00",
		DinnerStart:        "20:00",
		DinnerEnd:          "21:00",
		StandardShiftHours: 8,
	})
	f.service = svc.(*PayrollServiceImpl)
	f.service.now = func() time.Time { return time.Date(2026, 1, 21, 10, 0, 0, 0, time.UTC) }
	return f
}

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func strPtr(s string) *string {
	return &s
}

func (f *fixture) addEmployee(emp employee.Employee) {
	if emp.Status == "" {
		emp.Status = employee.StatusActive
	}
	f.employees.employees[emp.ID] = emp
}

func (f *fixture) addDay(employeeID, day, clockIn, clockOut string, breakMinutes int) {
	f.timesheet.entries[employeeID] = append(f.timesheet.entries[employeeID], timesheet.Entry{
		ID:           fmt.Sprintf("ts-%s-%s", employeeID, day),
		EmployeeID:   employeeID,
		Date:         date(day),
		ClockIn:      strPtr(clockIn),
		ClockOut:     strPtr(clockOut),
		BreakMinutes: breakMinutes,
		DayType:      timesheet.DayTypeWork,
	})
}

func perShiftEmployee(id string) employee.Employee {
	return employee.Employee{
		ID:             id,
		Name:           "Asha",
		Role:           "Technician",
		PerShiftAmount: decPtr(500),
		ShiftStart:     "09:00",
		ShiftEnd:       "18:00",
		BreakMinutes:   60,
	}
}

// --- tests -----------------------------------------------------------------

func TestRecalculatePerShiftProRated(t *testing.T) {
	f := newFixture(t)
	f.addEmployee(perShiftEmployee("emp-1"))

	// 10 working days at 432 regular minutes each: 90% of the 480-minute
	// standard shift.
	for day := 5; day < 15; day++ {
		f.addDay("emp-1", fmt.Sprintf("2026-01-%02d", day), "09:00", "17:12", 60)
	}

	resp, err := f.service.Recalculate(context.Background(), payroll.RecalculateRequest{
		EmployeeID:  "emp-1",
		PeriodStart: "2026-01-05",
		PeriodEnd:   "2026-01-18",
	})
	require.NoError(t, err)

	assert.Equal(t, 10, resp.WorkingDays)
	assert.Equal(t, 4320, resp.TotalRegularMinutes)
	assert.Equal(t, 0, resp.TotalOvertimeMinutes)
	assert.True(t, resp.GrossPay.Equal(decimal.NewFromInt(4500)), "gross = %s", resp.GrossPay)
	assert.True(t, resp.NetPay.Equal(decimal.NewFromInt(4500)), "net = %s", resp.NetPay)
	assert.True(t, resp.HourlyRate.Equal(decimal.NewFromFloat(62.5)), "rate = %s", resp.HourlyRate)
	assert.Equal(t, payroll.StatusPending, resp.Status)
}

func TestRecalculateHourlyWithOvertime(t *testing.T) {
	f := newFixture(t)
	f.addEmployee(employee.Employee{
		ID:         "emp-2",
		Name:       "Ravi",
		HourlyRate: decPtr(100),
	})

	// 09:00-20:00 with a 60-minute break: 480 regular + 120 overtime.
	f.addDay("emp-2", "2026-01-06", "09:00", "20:00", 60)

	resp, err := f.service.Recalculate(context.Background(), payroll.RecalculateRequest{
		EmployeeID:  "emp-2",
		PeriodStart: "2026-01-05",
		PeriodEnd:   "2026-01-18",
	})
	require.NoError(t, err)

	assert.Equal(t, 480, resp.TotalRegularMinutes)
	assert.Equal(t, 120, resp.TotalOvertimeMinutes)
	// 800 regular + 300 overtime (2h x 100 x 1.5)
	assert.True(t, resp.OvertimePay.Equal(decimal.NewFromInt(300)), "overtime = %s", resp.OvertimePay)
	assert.True(t, resp.GrossPay.Equal(decimal.NewFromInt(1100)), "gross = %s", resp.GrossPay)
}

func TestRecalculateMonthlyFlat(t *testing.T) {
	f := newFixture(t)
	f.addEmployee(employee.Employee{
		ID:     "emp-3",
		Name:   "Mina",
		Salary: decPtr(24000),
	})
	f.addDay("emp-3", "2026-01-06", "09:00", "18:00", 60)

	resp, err := f.service.Recalculate(context.Background(), payroll.RecalculateRequest{
		EmployeeID:  "emp-3",
		PeriodStart: "2026-01-05",
		PeriodEnd:   "2026-01-18",
	})
	require.NoError(t, err)

	// Salary is flat regardless of days worked; rate is salary/30/8.
	assert.True(t, resp.GrossPay.Equal(decimal.NewFromInt(24000)), "gross = %s", resp.GrossPay)
	assert.True(t, resp.HourlyRate.Equal(decimal.NewFromInt(100)), "rate = %s", resp.HourlyRate)
}

func TestRecalculateSubtractsDeductions(t *testing.T) {
	f := newFixture(t)
	f.addEmployee(perShiftEmployee("emp-1"))
	for day := 5; day < 15; day++ {
		f.addDay("emp-1", fmt.Sprintf("2026-01-%02d", day), "09:00", "18:00", 60)
	}
	f.deduction.deductions["emp-1"] = []deduction.Deduction{
		{ID: "d-1", EmployeeID: "emp-1", Date: date("2026-01-07"), Type: deduction.TypeAdvance, Amount: decimal.NewFromInt(200), Status: deduction.StatusActive},
		{ID: "d-2", EmployeeID: "emp-1", Date: date("2026-01-10"), Type: deduction.TypeLoan, Amount: decimal.NewFromInt(300), Status: deduction.StatusActive},
		{ID: "d-3", EmployeeID: "emp-1", Date: date("2026-01-11"), Type: deduction.TypeLoan, Amount: decimal.NewFromInt(999), Status: deduction.StatusCancelled},
	}

	resp, err := f.service.Recalculate(context.Background(), payroll.RecalculateRequest{
		EmployeeID:  "emp-1",
		PeriodStart: "2026-01-05",
		PeriodEnd:   "2026-01-18",
	})
	require.NoError(t, err)

	assert.True(t, resp.GrossPay.Equal(decimal.NewFromInt(5000)), "gross = %s", resp.GrossPay)
	assert.True(t, resp.Deductions.Equal(decimal.NewFromInt(500)), "deductions = %s", resp.Deductions)
	assert.True(t, resp.AdvanceDeductions.Equal(decimal.NewFromInt(200)))
	assert.True(t, resp.LoanDeductions.Equal(decimal.NewFromInt(300)))
	assert.True(t, resp.NetPay.Equal(decimal.NewFromInt(4500)), "net = %s", resp.NetPay)
}

func TestRecalculateIdempotent(t *testing.T) {
	f := newFixture(t)
	f.addEmployee(perShiftEmployee("emp-1"))
	for day := 5; day < 15; day++ {
		f.addDay("emp-1", fmt.Sprintf("2026-01-%02d", day), "09:00", "18:00", 60)
	}

	req := payroll.RecalculateRequest{EmployeeID: "emp-1", PeriodStart: "2026-01-05", PeriodEnd: "2026-01-18"}
	first, err := f.service.Recalculate(context.Background(), req)
	require.NoError(t, err)
	second, err := f.service.Recalculate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, first.NetPay.Equal(second.NetPay))
	assert.Equal(t, first.Status, second.Status)
}

func TestRecalculateEmployeeNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Recalculate(context.Background(), payroll.RecalculateRequest{
		EmployeeID:  "ghost",
		PeriodStart: "2026-01-05",
		PeriodEnd:   "2026-01-18",
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestMarkPaidFreezesEntry(t *testing.T) {
	f := newFixture(t)
	f.addEmployee(perShiftEmployee("emp-1"))
	for day := 5; day < 15; day++ {
		f.addDay("emp-1", fmt.Sprintf("2026-01-%02d", day), "09:00", "18:00", 60)
	}

	results, err := f.service.MarkPaid(context.Background(), payroll.MarkPaidRequest{
		EmployeeIDs: []string{"emp-1"},
		PeriodStart: "2026-01-05",
		PeriodEnd:   "2026-01-18",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Empty(t, results[0].Error)
	require.NotNil(t, results[0].Entry)
	assert.Equal(t, payroll.StatusPaid, results[0].Entry.Status)
	assert.NotNil(t, results[0].Entry.PaidAt)
	frozenNet := results[0].Entry.NetPay

	// New deductions after payment must not touch the frozen figures.
	f.deduction.deductions["emp-1"] = []deduction.Deduction{
		{ID: "d-late", EmployeeID: "emp-1", Date: date("2026-01-10"), Type: deduction.TypeAdvance, Amount: decimal.NewFromInt(1000), Status: deduction.StatusActive},
	}

	fetchesBefore := f.timesheet.listCalls
	resp, err := f.service.Recalculate(context.Background(), payroll.RecalculateRequest{
		EmployeeID:  "emp-1",
		PeriodStart: "2026-01-05",
		PeriodEnd:   "2026-01-18",
	})
	require.NoError(t, err)

	assert.Equal(t, payroll.StatusPaid, resp.Status)
	assert.True(t, resp.NetPay.Equal(frozenNet), "net changed: %s != %s", resp.NetPay, frozenNet)
	assert.True(t, resp.Deductions.IsZero())
	assert.Equal(t, fetchesBefore, f.timesheet.listCalls, "frozen entry should short-circuit before fetching")
}

func TestRecalculateForAdjustmentUpdatesPaidEntry(t *testing.T) {
	f := newFixture(t)
	f.addEmployee(perShiftEmployee("emp-1"))
	for day := 5; day < 15; day++ {
		f.addDay("emp-1", fmt.Sprintf("2026-01-%02d", day), "09:00", "18:00", 60)
	}

	results, err := f.service.MarkPaid(context.Background(), payroll.MarkPaidRequest{
		EmployeeIDs: []string{"emp-1"},
		PeriodStart: "2026-01-05",
		PeriodEnd:   "2026-01-18",
	})
	require.NoError(t, err)
	require.Empty(t, results[0].Error)
	paidAt := results[0].Entry.PaidAt

	f.deduction.deductions["emp-1"] = []deduction.Deduction{
		{ID: "d-adj", EmployeeID: "emp-1", Date: date("2026-01-10"), Type: deduction.TypeAdvance, Amount: decimal.NewFromInt(1000), Status: deduction.StatusActive},
	}

	resp, err := f.service.RecalculateForAdjustment(context.Background(), "emp-1", date("2026-01-05"), date("2026-01-18"))
	require.NoError(t, err)

	assert.Equal(t, payroll.StatusPaid, resp.Status)
	assert.Equal(t, paidAt, resp.PaidAt)
	assert.True(t, resp.Deductions.Equal(decimal.NewFromInt(1000)))
	assert.True(t, resp.NetPay.Equal(decimal.NewFromInt(4000)), "net = %s", resp.NetPay)
}

func TestMarkUnpaidReopensEntry(t *testing.T) {
	f := newFixture(t)
	f.addEmployee(perShiftEmployee("emp-1"))
	f.addDay("emp-1", "2026-01-06", "09:00", "18:00", 60)

	_, err := f.service.MarkPaid(context.Background(), payroll.MarkPaidRequest{
		EmployeeIDs: []string{"emp-1"},
		PeriodStart: "2026-01-05",
		PeriodEnd:   "2026-01-18",
	})
	require.NoError(t, err)

	resp, err := f.service.MarkUnpaid(context.Background(), payroll.MarkUnpaidRequest{
		EmployeeID:  "emp-1",
		PeriodStart: "2026-01-05",
		PeriodEnd:   "2026-01-18",
	})
	require.NoError(t, err)

	assert.Equal(t, payroll.StatusPending, resp.Status)
	assert.Nil(t, resp.PaidAt)

	// Unpaid entries cannot be unpaid twice.
	_, err = f.service.MarkUnpaid(context.Background(), payroll.MarkUnpaidRequest{
		EmployeeID:  "emp-1",
		PeriodStart: "2026-01-05",
		PeriodEnd:   "2026-01-18",
	})
	assert.ErrorIs(t, err, payroll.ErrEntryNotPaid)
}

func TestRecalculateBulkSharesFetches(t *testing.T) {
	f := newFixture(t)
	f.addEmployee(perShiftEmployee("emp-1"))
	f.addEmployee(employee.Employee{ID: "emp-2", Name: "Ravi", HourlyRate: decPtr(100)})
	f.addEmployee(employee.Employee{ID: "emp-broken", Name: "Nopay"})
	for day := 5; day < 10; day++ {
		f.addDay("emp-1", fmt.Sprintf("2026-01-%02d", day), "09:00", "18:00", 60)
		f.addDay("emp-2", fmt.Sprintf("2026-01-%02d", day), "09:00", "18:00", 60)
	}

	results, err := f.service.RecalculateBulk(context.Background(), payroll.BulkRecalculateRequest{
		EmployeeIDs: []string{"emp-1", "emp-2", "emp-broken"},
		PeriodStart: "2026-01-05",
		PeriodEnd:   "2026-01-18",
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	byID := make(map[string]payroll.BulkEntryResult)
	for _, r := range results {
		byID[r.EmployeeID] = r
	}
	assert.Empty(t, byID["emp-1"].Error)
	assert.NotNil(t, byID["emp-1"].Entry)
	assert.Empty(t, byID["emp-2"].Error)
	assert.NotNil(t, byID["emp-2"].Entry)

	// One employee without a pay model fails alone.
	assert.Contains(t, byID["emp-broken"].Error, "no pay model")
	assert.Nil(t, byID["emp-broken"].Entry)

	// The whole batch runs on one timesheet fetch and one deduction fetch.
	assert.Equal(t, 1, f.timesheet.bulkCalls)
	assert.Equal(t, 0, f.timesheet.listCalls)
	assert.Equal(t, 1, f.deduction.bulkCalls)
	assert.Equal(t, 0, f.deduction.listCalls)
}

func TestGetPayslipDetailLoanReconciliation(t *testing.T) {
	f := newFixture(t)
	f.addEmployee(perShiftEmployee("emp-1"))
	for day := 5; day < 15; day++ {
		f.addDay("emp-1", fmt.Sprintf("2026-01-%02d", day), "09:00", "18:00", 60)
	}
	f.deduction.loans["emp-1"] = deduction.Loan{
		ID:         "loan-1",
		EmployeeID: "emp-1",
		Principal:  decimal.NewFromInt(10000),
		Status:     deduction.LoanStatusActive,
	}
	f.deduction.priorSums["emp-1"] = decimal.NewFromInt(2000)
	f.deduction.deductions["emp-1"] = []deduction.Deduction{
		{ID: "d-1", EmployeeID: "emp-1", Date: date("2026-01-08"), Type: deduction.TypeLoan, Amount: decimal.NewFromInt(1500), Status: deduction.StatusActive},
	}

	resp, err := f.service.Recalculate(context.Background(), payroll.RecalculateRequest{
		EmployeeID:  "emp-1",
		PeriodStart: "2026-01-05",
		PeriodEnd:   "2026-01-18",
	})
	require.NoError(t, err)

	detail, err := f.service.GetPayslipDetail(context.Background(), resp.ID)
	require.NoError(t, err)

	require.NotNil(t, detail.Loan)
	assert.True(t, detail.Loan.OpeningBalance.Equal(decimal.NewFromInt(8000)), "opening = %s", detail.Loan.OpeningBalance)
	assert.True(t, detail.Loan.PeriodDeductions.Equal(decimal.NewFromInt(1500)))
	assert.True(t, detail.Loan.RemainingBalance.Equal(decimal.NewFromInt(6500)), "remaining = %s", detail.Loan.RemainingBalance)

	assert.Len(t, detail.Days, 10)
	assert.Len(t, detail.Deductions, 1)
	assert.Equal(t, "Asha", detail.Entry.EmployeeName)
}

func TestBonusSummary(t *testing.T) {
	f := newFixture(t)
	f.addEmployee(perShiftEmployee("emp-1"))
	for day := 5; day < 17; day++ {
		f.addDay("emp-1", fmt.Sprintf("2026-01-%02d", day), "09:00", "18:00", 60)
	}
	// A no-show day never counts as a working day.
	f.timesheet.entries["emp-1"] = append(f.timesheet.entries["emp-1"], timesheet.Entry{
		ID: "ts-absent", EmployeeID: "emp-1", Date: date("2026-01-17"), DayType: timesheet.DayTypeWork,
	})

	f.bonus.setting = &payroll.BonusSetting{
		StartDate:    date("2026-01-01"),
		EndDate:      date("2026-12-31"),
		AmountPerDay: decimal.NewFromInt(50),
	}
	f.bonus.withdrawals["emp-1"] = []payroll.BonusWithdrawal{
		{ID: "w-1", EmployeeID: "emp-1", Date: date("2026-01-10"), Amount: decimal.NewFromInt(100), Status: payroll.WithdrawalStatusApproved},
		{ID: "w-2", EmployeeID: "emp-1", Date: date("2026-01-12"), Amount: decimal.NewFromInt(50), Status: payroll.WithdrawalStatusRejected},
		{ID: "w-3", EmployeeID: "emp-1", Date: date("2026-02-01"), Amount: decimal.NewFromInt(75), Status: payroll.WithdrawalStatusApproved},
	}

	summary, err := f.service.BonusSummary(context.Background(), "emp-1", date("2026-01-18"))
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.Equal(t, 12, summary.WorkingDays)
	assert.True(t, summary.Accrued.Equal(decimal.NewFromInt(600)), "accrued = %s", summary.Accrued)
	assert.True(t, summary.Withdrawn.Equal(decimal.NewFromInt(100)), "withdrawn = %s", summary.Withdrawn)
	assert.True(t, summary.Balance.Equal(decimal.NewFromInt(500)), "balance = %s", summary.Balance)
}

func TestBonusSummaryUnconfigured(t *testing.T) {
	f := newFixture(t)

	summary, err := f.service.BonusSummary(context.Background(), "emp-1", date("2026-01-18"))
	require.NoError(t, err)
	assert.Nil(t, summary)
}

func TestCurrentPeriodRollingAnchor(t *testing.T) {
	f := newFixture(t)

	// Anchor 2026-01-05, 14-day cycles, today 2026-01-21: second cycle.
	resp, err := f.service.CurrentPeriod(context.Background())
	require.NoError(t, err)

	assert.False(t, resp.Locked)
	assert.Equal(t, "2026-01-19", resp.PeriodStart)
	assert.Equal(t, "2026-02-01", resp.PeriodEnd)
}

func TestCurrentPeriodLockOverride(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.LockPeriod(context.Background(), payroll.LockPeriodRequest{
		PeriodStart: "2026-01-05",
		PeriodEnd:   "2026-01-18",
	})
	require.NoError(t, err)

	resp, err := f.service.CurrentPeriod(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.Locked)
	assert.Equal(t, "2026-01-05", resp.PeriodStart)
	assert.Equal(t, "2026-01-18", resp.PeriodEnd)
	require.NotNil(t, resp.LockedBy)
	assert.Equal(t, "system", *resp.LockedBy)

	require.NoError(t, f.service.UnlockPeriod(context.Background()))

	resp, err = f.service.CurrentPeriod(context.Background())
	require.NoError(t, err)
	assert.False(t, resp.Locked)
}

func TestGetSummaryTotals(t *testing.T) {
	f := newFixture(t)
	f.addEmployee(perShiftEmployee("emp-1"))
	f.addEmployee(employee.Employee{ID: "emp-2", Name: "Ravi", HourlyRate: decPtr(100)})
	for day := 5; day < 10; day++ {
		f.addDay("emp-1", fmt.Sprintf("2026-01-%02d", day), "09:00", "18:00", 60)
		f.addDay("emp-2", fmt.Sprintf("2026-01-%02d", day), "09:00", "18:00", 60)
	}

	_, err := f.service.RecalculateBulk(context.Background(), payroll.BulkRecalculateRequest{
		EmployeeIDs: []string{"emp-1", "emp-2"},
		PeriodStart: "2026-01-05",
		PeriodEnd:   "2026-01-18",
	})
	require.NoError(t, err)

	summary, err := f.service.GetSummary(context.Background(), "2026-01-05", "2026-01-18")
	require.NoError(t, err)

	assert.Equal(t, 2, summary.EmployeeCount)
	assert.Equal(t, 2, summary.PendingCount)
	assert.Equal(t, 0, summary.PaidCount)
	// emp-1: 5 shifts x 500 = 2500; emp-2: 40h x 100 = 4000.
	assert.True(t, summary.TotalGross.Equal(decimal.NewFromInt(6500)), "gross = %s", summary.TotalGross)
}
