package employee

import "context"

// EmployeeRepository defines read-only access to the employee store. The
// payroll engine never mutates employees.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByIDs(ctx context.Context, ids []string) ([]Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)
}
