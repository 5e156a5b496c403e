package resume

import "fmt"

// NotFoundError reports a mutation that referenced a section ID not present
// in the document. Mutations that return it leave the document unchanged;
// callers may treat it as a no-op.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("section not found: %s", e.ID)
}

// FieldError reports an update addressed to an unknown field name.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("unknown field: %s", e.Field)
}

// IndexError reports a skill update with an out-of-range index.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("skill index %d out of range (len %d)", e.Index, e.Len)
}
