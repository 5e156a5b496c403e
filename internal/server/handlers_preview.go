package server

import (
	"fmt"
	"net/http"

	"github.com/jonathan/resume-builder/internal/pagination"
	"github.com/jonathan/resume-builder/internal/project"
	"github.com/jonathan/resume-builder/internal/render"
)

// pageBreaks estimates break positions for the project. Client-reported
// measurements from the preview socket take precedence; without them
// the server-side text heuristic is used.
func (s *Server) pageBreaks(p project.Project) []int {
	if hm := s.hub.Heights(p.ID); hm != nil {
		return s.estimator.Estimate(p.Resume, hm)
	}
	return s.estimator.Estimate(p.Resume, pagination.NewTextMeasurer(p.Styles))
}

// handlePreview renders the project with its active template and
// returns the HTML document used for on-screen preview.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, ok := s.state.Get(id)
	if !ok {
		errorResponse(w, http.StatusNotFound, (&project.NotFoundError{ID: id}).Error())
		return
	}

	html, err := s.renderer.Render(p.Template, p.Resume, p.Styles, render.Options{Breaks: s.pageBreaks(p)})
	if err != nil {
		errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, html)
}

// handlePageBreaks returns estimated page break positions and the
// resulting page count.
func (s *Server) handlePageBreaks(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, ok := s.state.Get(id)
	if !ok {
		errorResponse(w, http.StatusNotFound, (&project.NotFoundError{ID: id}).Error())
		return
	}

	breaks := s.pageBreaks(p)
	if breaks == nil {
		breaks = []int{}
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"breaks": breaks,
		"pages":  pagination.PageCount(breaks),
	})
}

// handleExportPDF renders the project and prints it to PDF through a
// headless browser. The render is audited first so a template bug can
// never silently drop a section from the exported document.
func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, ok := s.state.Get(id)
	if !ok {
		errorResponse(w, http.StatusNotFound, (&project.NotFoundError{ID: id}).Error())
		return
	}

	html, err := s.renderer.Render(p.Template, p.Resume, p.Styles, render.Options{Breaks: s.pageBreaks(p)})
	if err != nil {
		errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if err := render.AuditSections(html, p.Resume); err != nil {
		errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	pdf, err := s.exporter.PDF(r.Context(), html)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", p.Name+".pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

// handlePreviewSocket upgrades to a WebSocket that carries measurement
// reports from the client and break estimates back.
func (s *Server) handlePreviewSocket(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.state.Get(id); !ok {
		errorResponse(w, http.StatusNotFound, (&project.NotFoundError{ID: id}).Error())
		return
	}
	s.hub.Serve(w, r, id, s.state)
}
