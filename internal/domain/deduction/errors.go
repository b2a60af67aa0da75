package deduction

import "errors"

var (
	ErrDeductionNotFound = errors.New("deduction not found")
	ErrNoActiveLoan      = errors.New("employee has no active loan")
)
