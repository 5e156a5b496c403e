// Package pagination estimates where page breaks fall in a rendered resume.
//
// The estimate is advisory and purely visual: it tells the preview and the
// PDF exporter where content would overflow a fixed-size page. It never
// affects the authoritative section order and is never persisted.
package pagination

import "github.com/jonathan/resume-builder/internal/resume"

// PageHeight is the fixed page budget in layout units: an 11-inch US
// Letter page at 96dpi.
const PageHeight = 1056

// PageWidth is the matching 8.5-inch page width at 96dpi.
const PageWidth = 816

// Measurer reports rendered heights for the document header block and for
// individual sections, in the same layout units as PageHeight. A zero
// height means "not measured yet"; the estimator degrades to no breaks
// rather than guessing.
type Measurer interface {
	HeaderHeight(doc resume.Document) int
	SectionHeight(doc resume.Document, sec resume.Section) int
}

// Estimator computes page-break estimates against a fixed page budget.
type Estimator struct {
	PageHeight int
}

// New returns an estimator with the default page budget.
func New() *Estimator {
	return &Estimator{PageHeight: PageHeight}
}

// Estimate returns the indices of sections that start a new page.
// Estimation is best-effort: a nil measurer, an oversized header, or
// all-zero measurements yield no breaks, never an error.
func (e *Estimator) Estimate(doc resume.Document, m Measurer) []int {
	if m == nil || len(doc.Sections) == 0 {
		return nil
	}
	budget := e.PageHeight - m.HeaderHeight(doc)
	if budget <= 0 {
		return nil
	}
	heights := make([]int, len(doc.Sections))
	for i, sec := range doc.Sections {
		heights[i] = m.SectionHeight(doc, sec)
	}
	return Compute(budget, heights)
}

// Compute walks section heights in order, accumulating against the
// per-page budget. A section that would overflow the running page gets a
// break before it and seeds the next page with its own height. A single
// section taller than the whole budget still starts a fresh page; the
// overflow within that page is accepted, never split further.
func Compute(budget int, heights []int) []int {
	if budget <= 0 {
		return nil
	}
	measured := false
	for _, h := range heights {
		if h > 0 {
			measured = true
			break
		}
	}
	if !measured {
		// Layout not ready; a stale preview beats a bogus one.
		return nil
	}

	var breaks []int
	current := 0
	for i, h := range heights {
		if current+h > budget {
			breaks = append(breaks, i)
			current = h
		} else {
			current += h
		}
	}
	return breaks
}

// PageCount is the number of fixed-size pages the estimate implies.
func PageCount(breaks []int) int {
	return len(breaks) + 1
}
