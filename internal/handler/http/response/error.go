package response

import (
	"errors"
	"net/http"

	"github.com/opsconsole/payroll-backend-go/internal/domain/deduction"
	"github.com/opsconsole/payroll-backend-go/internal/domain/employee"
	"github.com/opsconsole/payroll-backend-go/internal/domain/payroll"
	"github.com/opsconsole/payroll-backend-go/internal/domain/timesheet"
	"github.com/opsconsole/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrNoPayModel):
		BadRequest(w, "Employee has no pay model configured", nil)

	// Timesheet domain errors
	case errors.Is(err, timesheet.ErrEntryNotFound):
		NotFound(w, "Timesheet entry not found")
	case errors.Is(err, timesheet.ErrAlreadyClockedIn):
		Conflict(w, "Employee already clocked in on this date")
	case errors.Is(err, timesheet.ErrNotClockedIn):
		Conflict(w, "Employee has not clocked in on this date")
	case errors.Is(err, timesheet.ErrPeriodAlreadyPaid):
		Conflict(w, "Period already paid; use the adjustment flow")
	case errors.Is(err, timesheet.ErrAdjustmentRequired):
		Conflict(w, "Adjustment reason required for paid period edits")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrEntryNotFound):
		NotFound(w, "Payroll entry not found")
	case errors.Is(err, payroll.ErrEntryAlreadyPaid):
		Conflict(w, "Payroll entry already paid")
	case errors.Is(err, payroll.ErrEntryNotPaid):
		Conflict(w, "Payroll entry is not paid")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)
	case errors.Is(err, payroll.ErrNoPeriodLock):
		NotFound(w, "No period lock is set")

	// Deduction domain errors
	case errors.Is(err, deduction.ErrDeductionNotFound):
		NotFound(w, "Deduction not found")
	case errors.Is(err, deduction.ErrNoActiveLoan):
		NotFound(w, "Employee has no active loan")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
