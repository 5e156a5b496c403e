package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jonathan/resume-builder/internal/project"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/style"
	"github.com/jonathan/resume-builder/internal/types"
)

// commitProject applies a pure operation to the project and writes the
// result through to persistence. If the write fails, the in-memory
// state is restored so memory and storage never drift apart.
func (s *Server) commitProject(ctx context.Context, id string, op func(project.Project) (project.Project, error)) (project.Project, error) {
	before, ok := s.state.Get(id)
	if !ok {
		return project.Project{}, &project.NotFoundError{ID: id}
	}

	updated, err := s.state.Update(id, op)
	if err != nil {
		return project.Project{}, err
	}

	if err := s.persist.SaveProject(ctx, updated); err != nil {
		s.state.Put(before)
		return project.Project{}, err
	}
	return updated, nil
}

// decodeBody decodes a JSON request body, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// handleListProjects returns metadata for all projects, most recently
// updated first.
func (s *Server) handleListProjects(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, s.state.List())
}

// handleCreateProject creates a new project from a template and makes
// it current.
func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req types.CreateProjectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	p := s.state.Create(project.Template(req.Template), req.Name)
	if err := s.persist.SaveProject(r.Context(), p); err != nil {
		s.state.Delete(p.ID)
		errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	jsonResponse(w, http.StatusCreated, p)
}

// handleGetProject returns a full project document.
func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, ok := s.state.Get(id)
	if !ok {
		errorResponse(w, http.StatusNotFound, (&project.NotFoundError{ID: id}).Error())
		return
	}
	jsonResponse(w, http.StatusOK, p)
}

// handleRenameProject renames a project and/or switches its template.
func (s *Server) handleRenameProject(w http.ResponseWriter, r *http.Request) {
	var req types.RenameProjectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	updated, err := s.commitProject(r.Context(), r.PathValue("id"), func(p project.Project) (project.Project, error) {
		if req.Name != "" {
			p.Name = req.Name
		}
		if req.Template != "" {
			tmpl, err := project.ParseTemplate(req.Template)
			if err != nil {
				return project.Project{}, err
			}
			p.Template = tmpl
		}
		return p, nil
	})
	if err != nil {
		errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// handleDeleteProject removes a project from state and persistence.
func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.state.Get(id); !ok {
		errorResponse(w, http.StatusNotFound, (&project.NotFoundError{ID: id}).Error())
		return
	}
	if err := s.persist.DeleteProject(r.Context(), id); err != nil {
		errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.state.Delete(id)
	jsonResponse(w, http.StatusOK, map[string]string{"id": id})
}

// handleUpdateHeader patches the resume header: name, title, and
// contact fields. Absent fields are untouched.
func (s *Server) handleUpdateHeader(w http.ResponseWriter, r *http.Request) {
	var req types.HeaderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	updated, err := s.commitProject(r.Context(), r.PathValue("id"), func(p project.Project) (project.Project, error) {
		doc := p.Resume
		if req.Name != nil {
			doc = doc.SetName(*req.Name)
		}
		if req.Title != nil {
			doc = doc.SetTitle(*req.Title)
		}
		contact := map[resume.ContactField]*string{
			resume.ContactEmail:    req.Email,
			resume.ContactPhone:    req.Phone,
			resume.ContactLocation: req.Location,
			resume.ContactLinkedIn: req.LinkedIn,
		}
		for field, value := range contact {
			if value == nil {
				continue
			}
			var err error
			doc, err = doc.SetContactField(field, *value)
			if err != nil {
				return project.Project{}, err
			}
		}
		p.Resume = doc
		return p, nil
	})
	if err != nil {
		errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// handleAddSection appends a new section to the resume.
func (s *Server) handleAddSection(w http.ResponseWriter, r *http.Request) {
	var req types.AddSectionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	updated, err := s.commitProject(r.Context(), r.PathValue("id"), func(p project.Project) (project.Project, error) {
		doc, _ := p.Resume.AddSection(req.Title, req.Content)
		p.Resume = doc
		return p, nil
	})
	if err != nil {
		errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	jsonResponse(w, http.StatusCreated, updated)
}

// handleUpdateSection sets one field (title or content) of a section.
func (s *Server) handleUpdateSection(w http.ResponseWriter, r *http.Request) {
	var req types.SectionFieldRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}
	field, err := resume.ParseSectionField(req.Field)
	if err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	sid := r.PathValue("sid")
	updated, err := s.commitProject(r.Context(), r.PathValue("id"), func(p project.Project) (project.Project, error) {
		doc, err := p.Resume.SetSectionField(sid, field, req.Value)
		if err != nil {
			return project.Project{}, err
		}
		p.Resume = doc
		return p, nil
	})
	if err != nil {
		errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// handleDeleteSection removes a section; remaining sections keep their
// relative order.
func (s *Server) handleDeleteSection(w http.ResponseWriter, r *http.Request) {
	sid := r.PathValue("sid")
	updated, err := s.commitProject(r.Context(), r.PathValue("id"), func(p project.Project) (project.Project, error) {
		doc, err := p.Resume.DeleteSection(sid)
		if err != nil {
			return project.Project{}, err
		}
		p.Resume = doc
		return p, nil
	})
	if err != nil {
		errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// handleDuplicateSection clones a section directly after its source.
func (s *Server) handleDuplicateSection(w http.ResponseWriter, r *http.Request) {
	sid := r.PathValue("sid")
	updated, err := s.commitProject(r.Context(), r.PathValue("id"), func(p project.Project) (project.Project, error) {
		doc, _, err := p.Resume.DuplicateSection(sid)
		if err != nil {
			return project.Project{}, err
		}
		p.Resume = doc
		return p, nil
	})
	if err != nil {
		errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	jsonResponse(w, http.StatusCreated, updated)
}

// handleMoveSectionUp swaps a section with its predecessor. Moving the
// first section up is a no-op, not an error.
func (s *Server) handleMoveSectionUp(w http.ResponseWriter, r *http.Request) {
	s.moveSection(w, r, resume.Document.MoveSectionUp)
}

// handleMoveSectionDown swaps a section with its successor. Moving the
// last section down is a no-op, not an error.
func (s *Server) handleMoveSectionDown(w http.ResponseWriter, r *http.Request) {
	s.moveSection(w, r, resume.Document.MoveSectionDown)
}

func (s *Server) moveSection(w http.ResponseWriter, r *http.Request, move func(resume.Document, string) (resume.Document, error)) {
	sid := r.PathValue("sid")
	updated, err := s.commitProject(r.Context(), r.PathValue("id"), func(p project.Project) (project.Project, error) {
		doc, err := move(p.Resume, sid)
		if err != nil {
			return project.Project{}, err
		}
		p.Resume = doc
		return p, nil
	})
	if err != nil {
		errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// handleUpdateStyle patches one style role. Sizes outside the role's
// bounds are clamped; malformed colors are rejected.
func (s *Server) handleUpdateStyle(w http.ResponseWriter, r *http.Request) {
	role, err := style.ParseRole(r.PathValue("role"))
	if err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var req types.StylePatchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	updated, err := s.commitProject(r.Context(), r.PathValue("id"), func(p project.Project) (project.Project, error) {
		styles, err := p.Styles.Apply(role, style.Patch{
			SizePx:   req.Size,
			ColorHex: req.Color,
			Bold:     req.Bold,
		})
		if err != nil {
			return project.Project{}, err
		}
		p.Styles = styles
		return p, nil
	})
	if err != nil {
		errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// handleResetStyles restores all five roles to their defaults. The
// document itself is untouched.
func (s *Server) handleResetStyles(w http.ResponseWriter, r *http.Request) {
	updated, err := s.commitProject(r.Context(), r.PathValue("id"), func(p project.Project) (project.Project, error) {
		p.Styles = p.Styles.Reset()
		return p, nil
	})
	if err != nil {
		errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// handleUpdateSkills replaces the skills list.
func (s *Server) handleUpdateSkills(w http.ResponseWriter, r *http.Request) {
	var req types.SkillsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	updated, err := s.commitProject(r.Context(), r.PathValue("id"), func(p project.Project) (project.Project, error) {
		p.Resume = p.Resume.SetSkills(req.Skills)
		return p, nil
	})
	if err != nil {
		errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}
