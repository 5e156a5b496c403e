// Package types provides request and response shapes for the resume
// builder HTTP API.
package types

import (
	"github.com/go-playground/validator/v10"
)

// CreateProjectRequest creates a new project from a template.
type CreateProjectRequest struct {
	Name     string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Template string `json:"template" validate:"required,oneof=classic modern creative"`
}

// RenameProjectRequest renames a project or switches its template.
type RenameProjectRequest struct {
	Name     string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Template string `json:"template,omitempty" validate:"omitempty,oneof=classic modern creative"`
}

// HeaderRequest updates the resume header fields. Nil fields are left
// untouched, so a client can patch a single contact line.
type HeaderRequest struct {
	Name     *string `json:"name,omitempty"`
	Title    *string `json:"title,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Location *string `json:"location,omitempty"`
	LinkedIn *string `json:"linkedin,omitempty"`
}

// AddSectionRequest appends a new section to the resume.
type AddSectionRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=200"`
	Content string `json:"content,omitempty"`
}

// SectionFieldRequest updates one field of an existing section.
type SectionFieldRequest struct {
	Field string `json:"field" validate:"required,oneof=title content"`
	Value string `json:"value"`
}

// StylePatchRequest changes part of one style role. All fields are
// optional; size clamping happens in the style package.
type StylePatchRequest struct {
	Size  *int    `json:"size,omitempty" validate:"omitempty,min=1,max=200"`
	Color *string `json:"color,omitempty" validate:"omitempty,hexcolor,len=7"`
	Bold  *bool   `json:"bold,omitempty"`
}

// SkillsRequest replaces the skills list.
type SkillsRequest struct {
	Skills []string `json:"skills" validate:"required,dive,min=1,max=100"`
}

// Validate validates the CreateProjectRequest using the validator.
func (r *CreateProjectRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the RenameProjectRequest using the validator.
func (r *RenameProjectRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the AddSectionRequest using the validator.
func (r *AddSectionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the SectionFieldRequest using the validator.
func (r *SectionFieldRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the StylePatchRequest using the validator.
func (r *StylePatchRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the SkillsRequest using the validator.
func (r *SkillsRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
