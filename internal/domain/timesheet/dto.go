package timesheet

import "github.com/opsconsole/payroll-backend-go/internal/pkg/validator"

type ClockInRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`    // "YYYY-MM-DD"
	Time       string `json:"time"`    // "HH:MM"
	DayType    string `json:"day_type"` // "work" or "travel", defaults to work
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if !validator.IsValidClock(r.Time) {
		errs = append(errs, validator.ValidationError{Field: "time", Message: "must be a valid clock time (HH:MM)"})
	}
	if r.DayType != "" && !validator.IsInSlice(r.DayType, []string{string(DayTypeWork), string(DayTypeTravel)}) {
		errs = append(errs, validator.ValidationError{Field: "day_type", Message: "must be 'work' or 'travel'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ClockOutRequest struct {
	EmployeeID   string `json:"employee_id"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	BreakMinutes *int   `json:"break_minutes,omitempty"`
}

func (r *ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if !validator.IsValidClock(r.Time) {
		errs = append(errs, validator.ValidationError{Field: "time", Message: "must be a valid clock time (HH:MM)"})
	}
	if r.BreakMinutes != nil && *r.BreakMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "break_minutes", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateEntryRequest edits an existing entry. Edits landing inside a paid
// payroll period are rejected unless Adjust is set with a reason.
type UpdateEntryRequest struct {
	ID           string  `json:"-"`
	ClockIn      *string `json:"clock_in,omitempty"`
	ClockOut     *string `json:"clock_out,omitempty"`
	BreakMinutes *int    `json:"break_minutes,omitempty"`
	DayType      *string `json:"day_type,omitempty"`

	Adjust           bool    `json:"adjust,omitempty"`
	AdjustmentReason *string `json:"adjustment_reason,omitempty"`
}

func (r *UpdateEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ClockIn != nil && *r.ClockIn != "" && !validator.IsValidClock(*r.ClockIn) {
		errs = append(errs, validator.ValidationError{Field: "clock_in", Message: "must be a valid clock time (HH:MM)"})
	}
	if r.ClockOut != nil && *r.ClockOut != "" && !validator.IsValidClock(*r.ClockOut) {
		errs = append(errs, validator.ValidationError{Field: "clock_out", Message: "must be a valid clock time (HH:MM)"})
	}
	if r.BreakMinutes != nil && *r.BreakMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "break_minutes", Message: "must be non-negative"})
	}
	if r.DayType != nil && !validator.IsInSlice(*r.DayType, []string{string(DayTypeWork), string(DayTypeTravel)}) {
		errs = append(errs, validator.ValidationError{Field: "day_type", Message: "must be 'work' or 'travel'"})
	}
	if r.Adjust && (r.AdjustmentReason == nil || validator.IsEmpty(*r.AdjustmentReason)) {
		errs = append(errs, validator.ValidationError{Field: "adjustment_reason", Message: "is required when adjusting a paid period"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EntryResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   string  `json:"employee_name,omitempty"`
	Date           string  `json:"date"`
	ClockIn        *string `json:"clock_in,omitempty"`
	ClockOut       *string `json:"clock_out,omitempty"`
	BreakMinutes   int     `json:"break_minutes"`
	DayType        string  `json:"day_type"`
	AdjustmentNote *string `json:"adjustment_note,omitempty"`
}
