package store

import (
	"context"

	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/project"
)

// DBStore adapts the PostgreSQL DAO to the Store interface.
type DBStore struct {
	db *db.DB
}

// NewDBStore wraps an open database connection.
func NewDBStore(database *db.DB) *DBStore {
	return &DBStore{db: database}
}

func (s *DBStore) SaveProject(ctx context.Context, p project.Project) error {
	if err := s.db.SaveProject(ctx, p); err != nil {
		return &PersistenceError{Op: "save", ID: p.ID, Cause: err}
	}
	return nil
}

func (s *DBStore) LoadProject(ctx context.Context, id string) (*project.Project, error) {
	p, err := s.db.GetProject(ctx, id)
	if err != nil {
		return nil, &PersistenceError{Op: "load", ID: id, Cause: err}
	}
	return p, nil
}

func (s *DBStore) DeleteProject(ctx context.Context, id string) error {
	if _, err := s.db.DeleteProject(ctx, id); err != nil {
		return &PersistenceError{Op: "delete", ID: id, Cause: err}
	}
	return nil
}

func (s *DBStore) ListMetadata(ctx context.Context) ([]project.Metadata, error) {
	metas, err := s.db.ListProjectMetadata(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list", Cause: err}
	}
	return metas, nil
}
