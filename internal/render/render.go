package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/jonathan/resume-builder/internal/project"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/style"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Renderer renders a document plus style overrides to a standalone HTML
// page. The skin only changes layout and decoration; every skin accepts
// the identical (document, styles) input and honors every role override.
type Renderer struct {
	tmpl      *template.Template
	markdown  goldmark.Markdown
	sanitizer *bluemonday.Policy
}

// New parses the embedded skin templates.
func New() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, &TemplateError{Message: "failed to parse skin templates", Cause: err}
	}
	return &Renderer{
		tmpl:      tmpl,
		markdown:  goldmark.New(),
		sanitizer: bluemonday.UGCPolicy(),
	}, nil
}

// Options carries per-render parameters that are not part of the
// document itself.
type Options struct {
	// Breaks lists section indices that start a new page. Used to emit
	// visual page-break markers; empty means a single page.
	Breaks []int
}

// RoleStyle is a role's setting translated to CSS-ready values.
type RoleStyle struct {
	SizePx int
	Color  string
	Weight string
}

// StyleView exposes all five roles to the skin templates.
type StyleView struct {
	Name    RoleStyle
	Title   RoleStyle
	Contact RoleStyle
	Header  RoleStyle
	Body    RoleStyle
}

// SectionView is one section prepared for a skin: content is already
// markdown-rendered and sanitized.
type SectionView struct {
	ID          string
	Title       string
	Body        template.HTML
	BreakBefore bool
}

// ViewModel is the input every skin template receives.
type ViewModel struct {
	Name     string
	Title    string
	Contact  *resume.Contact
	Skills   []string
	Sections []SectionView
	Styles   StyleView
}

// Render produces the HTML page for one skin. Section content is treated
// as Markdown and sanitized before injection, so user input can never
// smuggle markup into the page.
func (r *Renderer) Render(skin project.Template, doc resume.Document, styles style.Settings, opts Options) (string, error) {
	vm, err := r.buildViewModel(doc, styles, opts)
	if err != nil {
		return "", err
	}

	name := string(skin) + ".tmpl"
	if r.tmpl.Lookup(name) == nil {
		return "", &TemplateError{Message: fmt.Sprintf("unknown skin: %s", skin)}
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, vm); err != nil {
		return "", &TemplateError{Message: fmt.Sprintf("failed to execute skin %s", skin), Cause: err}
	}
	return buf.String(), nil
}

func (r *Renderer) buildViewModel(doc resume.Document, styles style.Settings, opts Options) (*ViewModel, error) {
	breakAt := make(map[int]bool, len(opts.Breaks))
	for _, i := range opts.Breaks {
		breakAt[i] = true
	}

	sections := make([]SectionView, 0, len(doc.Sections))
	for i, sec := range doc.Sections {
		body, err := r.renderContent(sec.Content)
		if err != nil {
			return nil, &RenderError{
				Message: fmt.Sprintf("failed to render section %s", sec.ID),
				Cause:   err,
			}
		}
		sections = append(sections, SectionView{
			ID:          sec.ID,
			Title:       sec.Title,
			Body:        body,
			BreakBefore: breakAt[i],
		})
	}

	return &ViewModel{
		Name:     doc.Name,
		Title:    doc.Title,
		Contact:  doc.Contact,
		Skills:   doc.Skills,
		Sections: sections,
		Styles:   styleView(styles),
	}, nil
}

// renderContent converts Markdown content to sanitized HTML.
func (r *Renderer) renderContent(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	clean := r.sanitizer.SanitizeBytes(buf.Bytes())
	return template.HTML(clean), nil
}

func styleView(s style.Settings) StyleView {
	return StyleView{
		Name:    roleStyle(s.Name),
		Title:   roleStyle(s.Title),
		Contact: roleStyle(s.Contact),
		Header:  roleStyle(s.Header),
		Body:    roleStyle(s.Body),
	}
}

func roleStyle(s style.Setting) RoleStyle {
	weight := "normal"
	if s.Bold {
		weight = "bold"
	}
	return RoleStyle{SizePx: s.SizePx, Color: s.ColorHex, Weight: weight}
}
