package timesheet

import "errors"

var (
	ErrEntryNotFound      = errors.New("timesheet entry not found")
	ErrAlreadyClockedIn   = errors.New("employee already clocked in for this date")
	ErrNotClockedIn       = errors.New("employee has not clocked in for this date")
	ErrPeriodAlreadyPaid  = errors.New("timesheet entry belongs to a paid payroll period")
	ErrAdjustmentRequired = errors.New("editing a paid period requires the adjustment path with a reason")
)
