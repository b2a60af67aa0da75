package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enum
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusResigned Status = "resigned"
)

// Employee is consumed read-only by the payroll engine. Creation and editing
// happen elsewhere in the console; this package only resolves the pay model.
type Employee struct {
	ID   string
	Name string
	Role string

	// Pay model fields. At most one is authoritative; see PayModel().
	Salary         *decimal.Decimal
	HourlyRate     *decimal.Decimal
	PerShiftAmount *decimal.Decimal

	ShiftStart   string // "HH:MM", may be empty
	ShiftEnd     string // "HH:MM", may be empty
	BreakMinutes int    // standard daily break

	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PayModelKind enum
type PayModelKind string

const (
	PayModelPerShift PayModelKind = "per_shift"
	PayModelHourly   PayModelKind = "hourly"
	PayModelMonthly  PayModelKind = "monthly"
)

// PayModel is the resolved wage basis for an employee.
type PayModel struct {
	Kind   PayModelKind
	Amount decimal.Decimal
}

// PayModel resolves which pay field is authoritative. Precedence is per-shift
// amount, then hourly rate, then monthly salary. An employee with none set is
// rejected here rather than silently paid zero.
func (e Employee) PayModel() (PayModel, error) {
	if e.PerShiftAmount != nil && e.PerShiftAmount.IsPositive() {
		return PayModel{Kind: PayModelPerShift, Amount: *e.PerShiftAmount}, nil
	}
	if e.HourlyRate != nil && e.HourlyRate.IsPositive() {
		return PayModel{Kind: PayModelHourly, Amount: *e.HourlyRate}, nil
	}
	if e.Salary != nil && e.Salary.IsPositive() {
		return PayModel{Kind: PayModelMonthly, Amount: *e.Salary}, nil
	}
	return PayModel{}, ErrNoPayModel
}
