// Package store defines the persistence boundary for projects and
// provides file-backed and PostgreSQL-backed implementations.
package store

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-builder/internal/project"
)

// Store persists whole projects. Both implementations treat a missing
// project as (nil, nil) rather than an error, so callers decide whether
// a miss is fatal.
type Store interface {
	SaveProject(ctx context.Context, p project.Project) error
	LoadProject(ctx context.Context, id string) (*project.Project, error)
	DeleteProject(ctx context.Context, id string) error
	ListMetadata(ctx context.Context) ([]project.Metadata, error)
}

// PersistenceError wraps a storage failure with the operation and
// project it concerned.
type PersistenceError struct {
	Op    string
	ID    string
	Cause error
}

func (e *PersistenceError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("store: %s failed: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("store: %s failed for project %s: %v", e.Op, e.ID, e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}
