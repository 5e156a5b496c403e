package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jonathan/resume-builder/internal/project"
)

// SaveProject inserts or updates a project row. The resume document and
// style settings are stored as JSONB so their shapes can evolve without
// schema migrations.
func (db *DB) SaveProject(ctx context.Context, p project.Project) error {
	resumeJSON, err := json.Marshal(p.Resume)
	if err != nil {
		return fmt.Errorf("failed to marshal resume: %w", err)
	}
	stylesJSON, err := json.Marshal(p.Styles)
	if err != nil {
		return fmt.Errorf("failed to marshal styles: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO projects (id, name, template, resume, styles, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET
			name = $2, template = $3, resume = $4, styles = $5, updated_at = $7`,
		p.ID, p.Name, string(p.Template), resumeJSON, stylesJSON, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save project %s: %w", p.ID, err)
	}
	return nil
}

// GetProject retrieves a project by ID. Returns nil without error when
// no row exists.
func (db *DB) GetProject(ctx context.Context, id string) (*project.Project, error) {
	var (
		p          project.Project
		tmpl       string
		resumeJSON []byte
		stylesJSON []byte
	)
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, template, resume, styles, created_at, updated_at
		 FROM projects WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Name, &tmpl, &resumeJSON, &stylesJSON, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project %s: %w", id, err)
	}

	p.Template, err = project.ParseTemplate(tmpl)
	if err != nil {
		return nil, fmt.Errorf("project %s has invalid template: %w", id, err)
	}
	if err := json.Unmarshal(resumeJSON, &p.Resume); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resume for project %s: %w", id, err)
	}
	if err := json.Unmarshal(stylesJSON, &p.Styles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal styles for project %s: %w", id, err)
	}
	return &p, nil
}

// DeleteProject removes a project row. Returns the number of rows
// deleted so callers can distinguish a miss from a delete.
func (db *DB) DeleteProject(ctx context.Context, id string) (int64, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete project %s: %w", id, err)
	}
	return tag.RowsAffected(), nil
}

// ListProjectMetadata retrieves id, name, template and update time for
// all projects, most recently updated first. The resume and styles
// columns are deliberately not read; metadata powers the project picker
// and must stay cheap as documents grow.
func (db *DB) ListProjectMetadata(ctx context.Context) ([]project.Metadata, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, template, updated_at
		 FROM projects ORDER BY updated_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var metas []project.Metadata
	for rows.Next() {
		var (
			m    project.Metadata
			tmpl string
		)
		if err := rows.Scan(&m.ID, &m.Name, &tmpl, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project metadata: %w", err)
		}
		m.Template = project.Template(tmpl)
		metas = append(metas, m)
	}
	return metas, nil
}
