package project

import "fmt"

// NotFoundError reports an operation against a project ID the store does
// not hold.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("project not found: %s", e.ID)
}
