package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jonathan/resume-builder/internal/project"
	"github.com/jonathan/resume-builder/schemas"
)

// FileStore persists each project as a JSON file in a directory. Writes
// go through a temp file and rename so a crash mid-write never leaves a
// half-written project behind. Loads validate against the project
// schema before unmarshalling.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns a store
// rooted at it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (fs *FileStore) path(id string) string {
	return filepath.Join(fs.dir, id+".json")
}

// SaveProject writes the project atomically to <dir>/<id>.json.
func (fs *FileStore) SaveProject(_ context.Context, p project.Project) error {
	if err := validID(p.ID); err != nil {
		return &PersistenceError{Op: "save", ID: p.ID, Cause: err}
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return &PersistenceError{Op: "save", ID: p.ID, Cause: err}
	}

	tmp, err := os.CreateTemp(fs.dir, "."+p.ID+"-*.tmp")
	if err != nil {
		return &PersistenceError{Op: "save", ID: p.ID, Cause: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &PersistenceError{Op: "save", ID: p.ID, Cause: err}
	}
	if err := tmp.Close(); err != nil {
		return &PersistenceError{Op: "save", ID: p.ID, Cause: err}
	}
	if err := os.Rename(tmp.Name(), fs.path(p.ID)); err != nil {
		return &PersistenceError{Op: "save", ID: p.ID, Cause: err}
	}
	return nil
}

// LoadProject reads and validates a project file. A missing file is not
// an error; a file that fails schema validation is.
func (fs *FileStore) LoadProject(_ context.Context, id string) (*project.Project, error) {
	if err := validID(id); err != nil {
		return nil, &PersistenceError{Op: "load", ID: id, Cause: err}
	}
	data, err := os.ReadFile(fs.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &PersistenceError{Op: "load", ID: id, Cause: err}
	}

	if err := schemas.ValidateProject(data); err != nil {
		return nil, &PersistenceError{Op: "load", ID: id, Cause: err}
	}

	var p project.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, &PersistenceError{Op: "load", ID: id, Cause: err}
	}
	return &p, nil
}

// DeleteProject removes the project file. Deleting a project that does
// not exist is a no-op.
func (fs *FileStore) DeleteProject(_ context.Context, id string) error {
	if err := validID(id); err != nil {
		return &PersistenceError{Op: "delete", ID: id, Cause: err}
	}
	if err := os.Remove(fs.path(id)); err != nil && !os.IsNotExist(err) {
		return &PersistenceError{Op: "delete", ID: id, Cause: err}
	}
	return nil
}

// ListMetadata scans the directory and returns metadata for every valid
// project file, most recently updated first. Unreadable or invalid
// files are skipped rather than failing the whole listing.
func (fs *FileStore) ListMetadata(ctx context.Context) ([]project.Metadata, error) {
	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		return nil, &PersistenceError{Op: "list", Cause: err}
	}

	var metas []project.Metadata
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".") {
			continue
		}
		p, err := fs.LoadProject(ctx, strings.TrimSuffix(name, ".json"))
		if err != nil || p == nil {
			continue
		}
		metas = append(metas, p.Meta())
	}

	sort.Slice(metas, func(i, j int) bool {
		if metas[i].UpdatedAt != metas[j].UpdatedAt {
			return metas[i].UpdatedAt > metas[j].UpdatedAt
		}
		return metas[i].ID < metas[j].ID
	})
	return metas, nil
}

// validID rejects ids that would escape the store directory or collide
// with temp files.
func validID(id string) error {
	if id == "" {
		return fmt.Errorf("empty project id")
	}
	if strings.ContainsAny(id, "/\\") || strings.Contains(id, "..") || strings.HasPrefix(id, ".") {
		return fmt.Errorf("invalid project id %q", id)
	}
	return nil
}
