package pagination

import (
	"testing"

	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_BreakBeforeOverflowingSection(t *testing.T) {
	breaks := Compute(1000, []int{800, 800})
	assert.Equal(t, []int{1}, breaks, "second section starts page 2")
}

func TestCompute_EverythingFits(t *testing.T) {
	breaks := Compute(1000, []int{200, 200, 200})
	assert.Empty(t, breaks)
}

func TestCompute_OverflowingSectionSeedsNextPage(t *testing.T) {
	// 400 + 500 overflows at index 1; 500 seeds page 2, then 500+600
	// overflows again at index 2.
	breaks := Compute(1000, []int{400, 500, 600})
	assert.Equal(t, []int{1, 2}, breaks)
}

func TestCompute_SectionTallerThanPage(t *testing.T) {
	// An oversized section still starts a fresh page and is not split;
	// overflow within its page is accepted.
	breaks := Compute(1000, []int{300, 1500, 100})
	assert.Equal(t, []int{1}, breaks)
}

func TestCompute_EmptyHeights(t *testing.T) {
	assert.Empty(t, Compute(1000, nil))
	assert.Empty(t, Compute(1000, []int{}))
}

func TestCompute_ZeroMeasurementsMeanNoBreaks(t *testing.T) {
	// Before layout is ready every element measures zero; the estimate
	// must default to "no breaks" rather than erroring.
	assert.Empty(t, Compute(1000, []int{0, 0, 0}))
}

func TestCompute_NonPositiveBudget(t *testing.T) {
	assert.Empty(t, Compute(0, []int{100, 200}))
	assert.Empty(t, Compute(-50, []int{100, 200}))
}

func TestCompute_ExactFit(t *testing.T) {
	// A section landing exactly on the budget does not break.
	breaks := Compute(1000, []int{600, 400, 10})
	assert.Equal(t, []int{2}, breaks)
}

func docWithSections(ids ...string) resume.Document {
	doc := resume.Document{Name: "n", Title: "t"}
	for _, id := range ids {
		doc.Sections = append(doc.Sections, resume.Section{ID: id, Title: id, Content: "c"})
	}
	return doc
}

func TestEstimate_UsesReportedHeights(t *testing.T) {
	doc := docWithSections("a", "b")
	m := &HeightMap{
		Header:   56,
		Sections: map[string]int{"a": 800, "b": 800},
	}
	e := &Estimator{PageHeight: 1056}
	assert.Equal(t, []int{1}, e.Estimate(doc, m))
}

func TestEstimate_NilMeasurer(t *testing.T) {
	assert.Nil(t, New().Estimate(docWithSections("a"), nil))
}

func TestEstimate_EmptyDocument(t *testing.T) {
	m := &HeightMap{Header: 100}
	assert.Nil(t, New().Estimate(resume.Document{}, m))
}

func TestEstimate_HeaderConsumesWholePage(t *testing.T) {
	doc := docWithSections("a", "b")
	m := &HeightMap{Header: 2000, Sections: map[string]int{"a": 10, "b": 10}}
	assert.Nil(t, New().Estimate(doc, m))
}

func TestEstimate_UnreportedSectionsMeasureZero(t *testing.T) {
	doc := docWithSections("a", "b", "c")
	m := &HeightMap{Header: 0, Sections: map[string]int{"a": 500}}
	assert.Empty(t, New().Estimate(doc, m))
}

func TestPageCount(t *testing.T) {
	require.Equal(t, 1, PageCount(nil))
	require.Equal(t, 3, PageCount([]int{1, 4}))
}
