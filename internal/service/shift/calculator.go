package shift

import (
	"fmt"
	"time"

	"github.com/opsconsole/payroll-backend-go/internal/domain/timesheet"
)

// NightStatus classifies how late a shift ran. Empty means a plain day shift.
type NightStatus string

const (
	NightStatusNone     NightStatus = ""
	NightStatusNight    NightStatus = "Night Shift"
	NightStatusExtended NightStatus = "Extended Night"
	NightStatusTravel   NightStatus = "Travel"
)

// nightThreshold is fixed at 20:00; the dinner window is configurable but the
// night badge is not.
const nightThreshold = 20 * 60

// Policy holds the clock boundaries that shape a day's split. All values are
// "HH:MM" wall-clock strings.
type Policy struct {
	OvertimeCutoff string
	DinnerStart    string
	DinnerEnd      string
}

type Input struct {
	StartTime    *string
	EndTime      *string
	BreakMinutes int
	DayType      timesheet.DayType
}

type Result struct {
	TotalMinutes         int
	BillableMinutes      int
	RegularMinutes       int
	OvertimeMinutes      int
	DinnerBreakDeduction int
	NightStatus          NightStatus
	DayType              timesheet.DayType
}

// Calculate converts one day's raw clock times into billable minutes.
//
// A missing start or end time is an unworked day and yields an all-zero
// result, not an error. When the end falls before the start the shift is
// treated as overnight and the end rolls into the next day. On work days the
// overtime cutoff splits the shift, break minutes come out of the regular
// half first and spill into overtime, and any dinner-window overlap inside
// the overtime half is deducted once. Travel days pay every worked minute as
// regular time.
func Calculate(in Input, policy Policy) (Result, error) {
	res := Result{DayType: in.DayType}

	if in.StartTime == nil || *in.StartTime == "" || in.EndTime == nil || *in.EndTime == "" {
		return res, nil
	}

	start, err := parseClock(*in.StartTime)
	if err != nil {
		return Result{}, err
	}
	end, err := parseClock(*in.EndTime)
	if err != nil {
		return Result{}, err
	}
	if end < start {
		end += 24 * 60
	}

	cutoff, err := parseClock(policy.OvertimeCutoff)
	if err != nil {
		return Result{}, err
	}
	dinnerStart, err := parseClock(policy.DinnerStart)
	if err != nil {
		return Result{}, err
	}
	dinnerEnd, err := parseClock(policy.DinnerEnd)
	if err != nil {
		return Result{}, err
	}

	res.TotalMinutes = end - start
	res.DinnerBreakDeduction = overlap(start, end, dinnerStart, dinnerEnd)

	switch {
	case end > 24*60:
		res.NightStatus = NightStatusExtended
	case end >= nightThreshold:
		res.NightStatus = NightStatusNight
	}

	if in.DayType == timesheet.DayTypeTravel {
		billable := res.TotalMinutes - in.BreakMinutes
		if billable < 0 {
			billable = 0
		}
		res.RegularMinutes = billable
		res.OvertimeMinutes = 0
		res.BillableMinutes = billable
		res.NightStatus = NightStatusTravel
		return res, nil
	}

	regular := 0
	if boundary := min(end, cutoff); boundary > start {
		regular = boundary - start
	}
	overtime := 0
	if otStart := max(start, cutoff); end > otStart {
		overtime = end - otStart
	}

	// Break comes out of regular time first, the remainder out of overtime.
	regular -= in.BreakMinutes
	if regular < 0 {
		overtime += regular
		regular = 0
		if overtime < 0 {
			overtime = 0
		}
	}

	if overtime > 0 {
		otDinner := overlap(max(start, cutoff), end, dinnerStart, dinnerEnd)
		if otDinner > res.DinnerBreakDeduction {
			otDinner = res.DinnerBreakDeduction
		}
		overtime -= otDinner
		if overtime < 0 {
			overtime = 0
		}
	}

	res.RegularMinutes = regular
	res.OvertimeMinutes = overtime
	res.BillableMinutes = regular + overtime

	// The night badge marks overtime worked past the cutoff, not a shift that
	// merely ended late with no payable overtime.
	if res.OvertimeMinutes == 0 {
		res.NightStatus = NightStatusNone
	}

	return res, nil
}

// overlap returns the length of the intersection of [aStart,aEnd) and
// [bStart,bEnd), never negative.
func overlap(aStart, aEnd, bStart, bEnd int) int {
	lo := max(aStart, bStart)
	hi := min(aEnd, bEnd)
	if hi <= lo {
		return 0
	}
	return hi - lo
}

func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}
