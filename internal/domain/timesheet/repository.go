package timesheet

import (
	"context"
	"time"
)

type TimesheetRepository interface {
	Create(ctx context.Context, entry Entry) (Entry, error)
	Update(ctx context.Context, entry Entry) (Entry, error)
	GetByID(ctx context.Context, id string) (Entry, error)
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Entry, error)
	ListForEmployee(ctx context.Context, employeeID string, start, end time.Time) ([]Entry, error)

	// ListForEmployees is the bulk variant: one fetch covering every employee
	// in a period, keyed by employee ID. Bulk recalculation depends on this
	// being a single store round trip.
	ListForEmployees(ctx context.Context, employeeIDs []string, start, end time.Time) (map[string][]Entry, error)
}
