package payroll

import "errors"

var (
	ErrEntryNotFound        = errors.New("payroll entry not found")
	ErrEntryAlreadyPaid     = errors.New("payroll entry already paid, cannot modify")
	ErrEntryNotPaid         = errors.New("payroll entry is not paid")
	ErrInvalidPeriod        = errors.New("invalid payroll period")
	ErrNoPeriodLock         = errors.New("no period lock is set")
	ErrBonusSettingNotFound = errors.New("bonus setting not found")
)
