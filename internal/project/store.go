package project

import (
	"sort"
	"sync"
	"time"
)

// Store is the explicit application state container. It replaces the
// ambient global store of the original editor: every document or style
// mutation goes through Update, which applies a pure operation to a
// snapshot, bumps UpdatedAt, and notifies subscribers with the committed
// result. There is one logical writer per project; the mutex only guards
// against concurrent HTTP handlers.
type Store struct {
	mu       sync.Mutex
	projects map[string]Project
	order    []string
	current  string
	subs     []func(Project)

	// now is swappable for tests.
	now func() time.Time
}

// NewStore returns an empty state container.
func NewStore() *Store {
	return &Store{
		projects: make(map[string]Project),
		now:      time.Now,
	}
}

// Subscribe registers a callback invoked with a snapshot of the project
// after every committed mutation. Callbacks run outside the store lock.
func (s *Store) Subscribe(fn func(Project)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Create adds a fresh project and makes it current.
func (s *Store) Create(tmpl Template, name string) Project {
	p := New(tmpl, name)
	now := s.clock()
	p.CreatedAt = now
	p.UpdatedAt = now

	s.mu.Lock()
	s.projects[p.ID] = p
	s.order = append([]string{p.ID}, s.order...)
	s.current = p.ID
	s.mu.Unlock()

	s.notify(p)
	return p.Clone()
}

// Put inserts or replaces a project loaded from persistence without
// touching its timestamps.
func (s *Store) Put(p Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[p.ID]; !ok {
		s.order = append(s.order, p.ID)
	}
	s.projects[p.ID] = p.Clone()
}

// Get returns a snapshot of the project, if present.
func (s *Store) Get(id string) (Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return Project{}, false
	}
	return p.Clone(), true
}

// Delete removes the project. If it was current, the most recently
// created remaining project becomes current.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return false
	}
	delete(s.projects, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.current == id {
		s.current = ""
		if len(s.order) > 0 {
			s.current = s.order[0]
		}
	}
	return true
}

// List returns metadata for all projects, most recently updated first.
func (s *Store) List() []Metadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Metadata, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p.Meta())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt != out[j].UpdatedAt {
			return out[i].UpdatedAt > out[j].UpdatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Current returns the current project, if any.
func (s *Store) Current() (Project, bool) {
	s.mu.Lock()
	id := s.current
	s.mu.Unlock()
	if id == "" {
		return Project{}, false
	}
	return s.Get(id)
}

// SetCurrent marks a project as the one being edited.
func (s *Store) SetCurrent(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return false
	}
	s.current = id
	return true
}

// Update applies a pure operation to a snapshot of the project. If the
// operation succeeds the result is committed with a bumped UpdatedAt and
// subscribers are notified; if it fails the stored project is unchanged.
func (s *Store) Update(id string, op func(Project) (Project, error)) (Project, error) {
	s.mu.Lock()
	cur, ok := s.projects[id]
	if !ok {
		s.mu.Unlock()
		return Project{}, &NotFoundError{ID: id}
	}

	next, err := op(cur.Clone())
	if err != nil {
		s.mu.Unlock()
		return Project{}, err
	}
	next.ID = cur.ID
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = s.clock()
	s.projects[id] = next
	s.mu.Unlock()

	s.notify(next)
	return next.Clone(), nil
}

// Replace commits an externally prepared snapshot (e.g. a full PUT from
// the client), bumping UpdatedAt.
func (s *Store) Replace(p Project) (Project, error) {
	return s.Update(p.ID, func(Project) (Project, error) {
		return p, nil
	})
}

func (s *Store) clock() int64 {
	return s.now().UnixMilli()
}

func (s *Store) notify(p Project) {
	s.mu.Lock()
	subs := make([]func(Project), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(p.Clone())
	}
}
