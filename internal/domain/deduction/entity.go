package deduction

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type enum. Closed set so the reconciler's filters stay exhaustive.
type Type string

const (
	TypeAdvance Type = "advance"
	TypeLoan    Type = "loan"
	TypePenalty Type = "penalty"
	TypeCustom  Type = "custom"
)

// Status enum
type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
)

// Deduction is a single amount withheld from an employee's pay, dated so it
// lands in exactly one payroll period. Loan-type deductions also count against
// the employee's loan balance.
type Deduction struct {
	ID          string
	EmployeeID  string
	Date        time.Time
	Type        Type
	Amount      decimal.Decimal
	Description string
	Status      Status
	CreatedAt   time.Time
}

// LoanStatus enum
type LoanStatus string

const (
	LoanStatusActive LoanStatus = "active"
	LoanStatusClosed LoanStatus = "closed"
)

// Loan is a principal advanced to an employee, repaid through loan-type
// deductions across periods. Closure is an explicit action, not automatic.
type Loan struct {
	ID         string
	EmployeeID string
	Principal  decimal.Decimal
	Date       time.Time
	Status     LoanStatus
	CreatedAt  time.Time
}
