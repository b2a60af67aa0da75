package timesheet

import "time"

// DayType enum
type DayType string

const (
	DayTypeWork   DayType = "work"
	DayTypeTravel DayType = "travel"
)

// Entry is one calendar day of raw clock data for one employee. Unique per
// (employee, date). Clock times are "HH:MM" wall-clock strings; nil means the
// event has not happened (absence, or still on shift).
type Entry struct {
	ID           string
	EmployeeID   string
	Date         time.Time // calendar day, midnight
	ClockIn      *string
	ClockOut     *string
	BreakMinutes int // actual break taken that day
	DayType      DayType

	// Set when the entry was changed through the adjustment path after its
	// payroll period was already paid.
	AdjustmentNote *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields
	EmployeeName *string
}

// Worked reports whether the employee was present that day, which is the
// qualifying condition for working-day counts.
func (e Entry) Worked() bool {
	return e.ClockIn != nil && *e.ClockIn != ""
}
