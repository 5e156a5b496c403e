package render

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/resume-builder/internal/resume"
)

// AuditSections verifies that every section of the document appears
// exactly once in the rendered HTML, and that nothing else claims to be a
// section. Run before export so a skin bug can never silently drop
// content from the PDF.
func AuditSections(html string, doc resume.Document) error {
	root, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return &RenderError{Message: "failed to parse rendered output", Cause: err}
	}

	counts := make(map[string]int)
	root.Find("[data-section-id]").Each(func(_ int, sel *goquery.Selection) {
		id, _ := sel.Attr("data-section-id")
		counts[id]++
	})

	var problems []string
	for _, sec := range doc.Sections {
		switch counts[sec.ID] {
		case 1:
			// ok
		case 0:
			problems = append(problems, fmt.Sprintf("section %s missing from output", sec.ID))
		default:
			problems = append(problems, fmt.Sprintf("section %s rendered %d times", sec.ID, counts[sec.ID]))
		}
		delete(counts, sec.ID)
	}
	for id := range counts {
		problems = append(problems, fmt.Sprintf("unexpected section %s in output", id))
	}

	if len(problems) > 0 {
		return &RenderError{Message: strings.Join(problems, "; ")}
	}
	return nil
}
