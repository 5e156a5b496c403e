// Package project wraps a resume document, its style overrides, and a
// template selection into a saved project, and provides the application
// state container that all edits flow through.
package project

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/style"
)

// Template selects one of the three interchangeable visual skins.
type Template string

const (
	TemplateClassic  Template = "classic"
	TemplateModern   Template = "modern"
	TemplateCreative Template = "creative"
)

// Templates returns all known templates.
func Templates() []Template {
	return []Template{TemplateClassic, TemplateModern, TemplateCreative}
}

// ParseTemplate validates a wire-level template name.
func ParseTemplate(s string) (Template, error) {
	switch Template(s) {
	case TemplateClassic, TemplateModern, TemplateCreative:
		return Template(s), nil
	}
	return "", fmt.Errorf("unknown template: %s", s)
}

// Project is one saved resume: document content, style overrides, and a
// template selection. Timestamps are epoch milliseconds to match the
// persisted wire shape.
type Project struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Template  Template        `json:"template"`
	Resume    resume.Document `json:"resume"`
	Styles    style.Settings  `json:"styles"`
	CreatedAt int64           `json:"createdAt"`
	UpdatedAt int64           `json:"updatedAt"`
}

// Metadata is the listing view of a project.
type Metadata struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Template  Template `json:"template"`
	UpdatedAt int64    `json:"updatedAt"`
}

// Meta returns the listing view of the project.
func (p Project) Meta() Metadata {
	return Metadata{ID: p.ID, Name: p.Name, Template: p.Template, UpdatedAt: p.UpdatedAt}
}

// Clone returns a deep copy of the project.
func (p Project) Clone() Project {
	out := p
	out.Resume = p.Resume.Clone()
	return out
}

// New creates a project seeded with the sample resume and default styles.
func New(tmpl Template, name string) Project {
	if name == "" {
		name = "Untitled Resume"
	}
	now := time.Now().UnixMilli()
	return Project{
		ID:        uuid.NewString(),
		Name:      name,
		Template:  tmpl,
		Resume:    resume.Sample(),
		Styles:    style.Defaults(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
