package timesheet

import "context"

type TimesheetService interface {
	ClockIn(ctx context.Context, req ClockInRequest) (EntryResponse, error)
	ClockOut(ctx context.Context, req ClockOutRequest) (EntryResponse, error)
	UpdateEntry(ctx context.Context, req UpdateEntryRequest) (EntryResponse, error)
	ListEntries(ctx context.Context, employeeID, startDate, endDate string) ([]EntryResponse, error)
}
