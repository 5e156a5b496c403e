package project

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances one millisecond per reading so UpdatedAt bumps are
// observable without sleeping.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Millisecond)
	return c.t
}

func newTestStore() (*Store, *fakeClock) {
	clock := &fakeClock{t: time.UnixMilli(1_700_000_000_000)}
	s := NewStore()
	s.now = clock.Now
	return s, clock
}

func TestStore_CreateAndGet(t *testing.T) {
	s, _ := newTestStore()
	p := s.Create(TemplateClassic, "My Resume")

	got, ok := s.Get(p.ID)
	require.True(t, ok)
	assert.Equal(t, "My Resume", got.Name)
	assert.Equal(t, TemplateClassic, got.Template)
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
	assert.NotEmpty(t, got.Resume.Sections, "seeded with the sample resume")

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, p.ID, cur.ID)
}

func TestStore_CreateDefaultName(t *testing.T) {
	s, _ := newTestStore()
	p := s.Create(TemplateModern, "")
	assert.Equal(t, "Untitled Resume", p.Name)
}

func TestStore_UpdateBumpsUpdatedAt(t *testing.T) {
	s, _ := newTestStore()
	p := s.Create(TemplateClassic, "r")

	got, err := s.Update(p.ID, func(p Project) (Project, error) {
		p.Resume = p.Resume.SetName("New Name")
		return p, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.Resume.Name)
	assert.Greater(t, got.UpdatedAt, p.UpdatedAt)
	assert.Equal(t, p.CreatedAt, got.CreatedAt)
}

func TestStore_UpdateErrorLeavesProjectUnchanged(t *testing.T) {
	s, _ := newTestStore()
	p := s.Create(TemplateClassic, "r")
	before, _ := s.Get(p.ID)

	_, err := s.Update(p.ID, func(p Project) (Project, error) {
		doc, err := p.Resume.DeleteSection("does-not-exist")
		p.Resume = doc
		return p, err
	})
	var nf *resume.NotFoundError
	require.ErrorAs(t, err, &nf)

	after, _ := s.Get(p.ID)
	assert.Empty(t, cmp.Diff(before, after))
}

func TestStore_UpdateUnknownProject(t *testing.T) {
	s, _ := newTestStore()
	_, err := s.Update("nope", func(p Project) (Project, error) { return p, nil })
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestStore_SectionOpsFlowThroughUpdate(t *testing.T) {
	s, _ := newTestStore()
	p := s.Create(TemplateCreative, "r")

	got, err := s.Update(p.ID, func(p Project) (Project, error) {
		doc, _, err := p.Resume.DuplicateSection("summary")
		p.Resume = doc
		return p, err
	})
	require.NoError(t, err)
	assert.Len(t, got.Resume.Sections, len(p.Resume.Sections)+1)
	assert.Greater(t, got.UpdatedAt, p.UpdatedAt, "every mutation updates the owning project")
}

func TestStore_StyleResetNeverTouchesContent(t *testing.T) {
	s, _ := newTestStore()
	p := s.Create(TemplateClassic, "r")

	size := 44
	_, err := s.Update(p.ID, func(p Project) (Project, error) {
		styles, err := p.Styles.Apply(style.RoleName, style.Patch{SizePx: &size})
		p.Styles = styles
		return p, err
	})
	require.NoError(t, err)

	got, err := s.Update(p.ID, func(p Project) (Project, error) {
		p.Styles = p.Styles.Reset()
		return p, nil
	})
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(style.Defaults(), got.Styles))
	assert.Empty(t, cmp.Diff(p.Resume, got.Resume), "resetStyles leaves document content alone")
}

func TestStore_SubscriberNotifiedAfterCommit(t *testing.T) {
	s, _ := newTestStore()
	var seen []string
	s.Subscribe(func(p Project) {
		seen = append(seen, p.Resume.Name)
	})

	p := s.Create(TemplateClassic, "r")
	_, err := s.Update(p.ID, func(p Project) (Project, error) {
		p.Resume = p.Resume.SetName("after-edit")
		return p, nil
	})
	require.NoError(t, err)
	require.Len(t, seen, 2, "create + update")
	assert.Equal(t, "after-edit", seen[1])
}

func TestStore_SubscriberNotNotifiedOnFailedUpdate(t *testing.T) {
	s, _ := newTestStore()
	p := s.Create(TemplateClassic, "r")

	calls := 0
	s.Subscribe(func(Project) { calls++ })

	_, err := s.Update(p.ID, func(p Project) (Project, error) {
		doc, err := p.Resume.DeleteSection("missing")
		p.Resume = doc
		return p, err
	})
	require.Error(t, err)
	assert.Zero(t, calls)
}

func TestStore_DeleteAndCurrentFallback(t *testing.T) {
	s, _ := newTestStore()
	first := s.Create(TemplateClassic, "first")
	second := s.Create(TemplateModern, "second")

	require.True(t, s.Delete(second.ID))
	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, first.ID, cur.ID)

	require.True(t, s.Delete(first.ID))
	_, ok = s.Current()
	assert.False(t, ok)
	assert.False(t, s.Delete(first.ID), "double delete reports false")
}

func TestStore_ListOrderedByUpdatedAt(t *testing.T) {
	s, _ := newTestStore()
	a := s.Create(TemplateClassic, "a")
	b := s.Create(TemplateModern, "b")

	_, err := s.Update(a.ID, func(p Project) (Project, error) {
		p.Name = "a-edited"
		return p, nil
	})
	require.NoError(t, err)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID, "most recently updated first")
	assert.Equal(t, "a-edited", list[0].Name)
	assert.Equal(t, b.ID, list[1].ID)
}

func TestStore_GetReturnsSnapshot(t *testing.T) {
	s, _ := newTestStore()
	p := s.Create(TemplateClassic, "r")

	got, _ := s.Get(p.ID)
	got.Resume.Sections[0].Content = "mutated outside the store"

	again, _ := s.Get(p.ID)
	assert.NotEqual(t, "mutated outside the store", again.Resume.Sections[0].Content)
}

func TestParseTemplate(t *testing.T) {
	for _, tmpl := range Templates() {
		got, err := ParseTemplate(string(tmpl))
		require.NoError(t, err)
		assert.Equal(t, tmpl, got)
	}
	_, err := ParseTemplate("fancy")
	assert.Error(t, err)
}
