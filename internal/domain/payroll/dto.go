package payroll

import (
	"github.com/opsconsole/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type RecalculateRequest struct {
	EmployeeID  string `json:"employee_id"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}

func (r RecalculateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "Employee ID is required"})
	}
	errs = append(errs, validatePeriod(r.PeriodStart, r.PeriodEnd)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BulkRecalculateRequest struct {
	// EmployeeIDs empty means all active employees.
	EmployeeIDs []string `json:"employee_ids"`
	PeriodStart string   `json:"period_start"`
	PeriodEnd   string   `json:"period_end"`
}

func (r BulkRecalculateRequest) Validate() error {
	errs := validatePeriod(r.PeriodStart, r.PeriodEnd)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MarkPaidRequest struct {
	EmployeeIDs []string `json:"employee_ids"`
	PeriodStart string   `json:"period_start"`
	PeriodEnd   string   `json:"period_end"`
}

func (r MarkPaidRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.EmployeeIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "employee_ids", Message: "At least one employee ID is required"})
	}
	errs = append(errs, validatePeriod(r.PeriodStart, r.PeriodEnd)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MarkUnpaidRequest struct {
	EmployeeID  string `json:"employee_id"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}

func (r MarkUnpaidRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "Employee ID is required"})
	}
	errs = append(errs, validatePeriod(r.PeriodStart, r.PeriodEnd)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LockPeriodRequest struct {
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}

func (r LockPeriodRequest) Validate() error {
	errs := validatePeriod(r.PeriodStart, r.PeriodEnd)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validatePeriod(start, end string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(start); !ok {
		errs = append(errs, validator.ValidationError{Field: "period_start", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if _, ok := validator.IsValidDate(end); !ok {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if len(errs) == 0 {
		if _, _, ok := validator.IsValidDateRange(start, end); !ok {
			errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must not be before period start"})
		}
	}

	return errs
}

type EntryResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	EmployeeRole string `json:"employee_role,omitempty"`
	PeriodStart  string `json:"period_start"`
	PeriodEnd    string `json:"period_end"`

	GrossPay          decimal.Decimal `json:"gross_pay"`
	OvertimePay       decimal.Decimal `json:"overtime_pay"`
	Deductions        decimal.Decimal `json:"deductions"`
	AdvanceDeductions decimal.Decimal `json:"advance_deductions"`
	LoanDeductions    decimal.Decimal `json:"loan_deductions"`
	NetPay            decimal.Decimal `json:"net_pay"`

	TotalBillableMinutes int             `json:"total_billable_minutes"`
	TotalRegularMinutes  int             `json:"total_regular_minutes"`
	TotalOvertimeMinutes int             `json:"total_overtime_minutes"`
	WorkingDays          int             `json:"working_days"`
	HourlyRate           decimal.Decimal `json:"hourly_rate"`

	Status Status  `json:"status"`
	PaidAt *string `json:"paid_at,omitempty"`
	PaidBy *string `json:"paid_by,omitempty"`
}

// BulkEntryResult carries one employee's outcome in a bulk operation. A
// failure for one employee never aborts the rest.
type BulkEntryResult struct {
	EmployeeID string         `json:"employee_id"`
	Entry      *EntryResponse `json:"entry,omitempty"`
	Error      string         `json:"error,omitempty"`
}

type PeriodResponse struct {
	PeriodStart string  `json:"period_start"`
	PeriodEnd   string  `json:"period_end"`
	Locked      bool    `json:"locked"`
	LockedBy    *string `json:"locked_by,omitempty"`
	LockedAt    *string `json:"locked_at,omitempty"`
}

type SummaryResponse struct {
	PeriodStart     string          `json:"period_start"`
	PeriodEnd       string          `json:"period_end"`
	EmployeeCount   int             `json:"employee_count"`
	PendingCount    int             `json:"pending_count"`
	PaidCount       int             `json:"paid_count"`
	TotalGross      decimal.Decimal `json:"total_gross"`
	TotalOvertime   decimal.Decimal `json:"total_overtime"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalNet        decimal.Decimal `json:"total_net"`
}

type DayBreakdownResponse struct {
	Date                 string  `json:"date"`
	DayType              string  `json:"day_type"`
	ClockIn              *string `json:"clock_in,omitempty"`
	ClockOut             *string `json:"clock_out,omitempty"`
	BreakMinutes         int     `json:"break_minutes"`
	TotalMinutes         int     `json:"total_minutes"`
	BillableMinutes      int     `json:"billable_minutes"`
	RegularMinutes       int     `json:"regular_minutes"`
	OvertimeMinutes      int     `json:"overtime_minutes"`
	DinnerBreakDeduction int     `json:"dinner_break_deduction"`
	NightStatus          string  `json:"night_status,omitempty"`
}

type DeductionLineResponse struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

type LoanSummaryResponse struct {
	LoanID           string          `json:"loan_id"`
	Principal        decimal.Decimal `json:"principal"`
	OpeningBalance   decimal.Decimal `json:"opening_balance"`
	PeriodDeductions decimal.Decimal `json:"period_deductions"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

type BonusSummaryResponse struct {
	WindowStart  string          `json:"window_start"`
	WindowEnd    string          `json:"window_end"`
	WorkingDays  int             `json:"working_days"`
	AmountPerDay decimal.Decimal `json:"amount_per_day"`
	Accrued      decimal.Decimal `json:"accrued"`
	Withdrawn    decimal.Decimal `json:"withdrawn"`
	Balance      decimal.Decimal `json:"balance"`
}

type PayslipDetailResponse struct {
	Entry      EntryResponse           `json:"entry"`
	Days       []DayBreakdownResponse  `json:"days"`
	Deductions []DeductionLineResponse `json:"deductions"`
	Loan       *LoanSummaryResponse    `json:"loan,omitempty"`
	Bonus      *BonusSummaryResponse   `json:"bonus,omitempty"`
}
