package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrNoPayModel       = errors.New("employee has no pay model configured")
)
