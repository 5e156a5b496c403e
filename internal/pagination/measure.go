package pagination

import (
	"strings"

	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/style"
)

// HeightMap is a Measurer backed by client-reported measurements, keyed
// by section ID. The preview channel feeds it with the heights the
// browser actually laid out. Unreported sections measure as zero.
type HeightMap struct {
	Header   int
	Sections map[string]int
}

// HeaderHeight implements Measurer.
func (h *HeightMap) HeaderHeight(resume.Document) int {
	return h.Header
}

// SectionHeight implements Measurer.
func (h *HeightMap) SectionHeight(_ resume.Document, sec resume.Section) int {
	return h.Sections[sec.ID]
}

// Layout constants for the server-side text heuristic. The content column
// is the page width minus the editor's 40px padding on each side.
const (
	contentWidth   = PageWidth - 2*40
	lineSpacing    = 1.5 // multiplier applied to the font size per text line
	sectionSpacing = 24  // vertical margin around each section block
	headerPadding  = 56  // header block padding plus divider
	// Average glyph advance relative to font size. Wide enough to
	// overestimate slightly; a premature break reads better than an
	// overflowing page.
	charWidthRatio = 0.55
)

// TextMeasurer estimates rendered heights from the text itself and the
// active style settings. It is used for export and whenever no browser
// measurements have arrived, so the estimator core stays testable without
// a rendering surface.
type TextMeasurer struct {
	Styles style.Settings
	Width  int
}

// NewTextMeasurer returns a heuristic measurer for the given styles.
func NewTextMeasurer(styles style.Settings) *TextMeasurer {
	return &TextMeasurer{Styles: styles, Width: contentWidth}
}

// HeaderHeight implements Measurer: one line each for name and title,
// one for the contact row when present, plus block padding.
func (m *TextMeasurer) HeaderHeight(doc resume.Document) int {
	h := headerPadding
	h += lineHeight(m.Styles.Name.SizePx)
	h += lineHeight(m.Styles.Title.SizePx)
	if doc.Contact != nil {
		h += lineHeight(m.Styles.Contact.SizePx)
	}
	return h
}

// SectionHeight implements Measurer: a header line plus wrapped body
// lines at the body font size.
func (m *TextMeasurer) SectionHeight(_ resume.Document, sec resume.Section) int {
	h := sectionSpacing
	h += lineHeight(m.Styles.Header.SizePx)
	h += m.textLines(sec.Content) * lineHeight(m.Styles.Body.SizePx)
	return h
}

// textLines estimates how many lines the content wraps to at the current
// body size and column width. Explicit newlines each start a line.
func (m *TextMeasurer) textLines(content string) int {
	width := m.Width
	if width <= 0 {
		width = contentWidth
	}
	perLine := int(float64(width) / (float64(m.Styles.Body.SizePx) * charWidthRatio))
	if perLine < 1 {
		perLine = 1
	}
	lines := 0
	for _, para := range strings.Split(content, "\n") {
		n := len([]rune(strings.TrimSpace(para)))
		lines += 1 + n/perLine
	}
	return lines
}

func lineHeight(sizePx int) int {
	return int(float64(sizePx) * lineSpacing)
}
