package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// envelope mirrors the API response wrapper: {"data": ...} on success,
// {"message": ...} on failure.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func newTestServer(t *testing.T, dir string) *Server {
	t.Helper()
	cfg := config.Defaults()
	cfg.DataDir = dir
	cfg.RateLimitPerMinute = 0 // not under test here
	s, err := New(cfg)
	require.NoError(t, err)
	return s
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	}
	return rec, env
}

func createProject(t *testing.T, h http.Handler, tmpl, name string) project.Project {
	t.Helper()
	rec, env := doJSON(t, h, "POST", "/api/projects", map[string]string{"template": tmpl, "name": name})
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	var p project.Project
	require.NoError(t, json.Unmarshal(env.Data, &p))
	return p
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	rec, env := doJSON(t, s.Handler(), "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))
}

func TestCreateProject(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	p := createProject(t, s.Handler(), "modern", "My Resume")

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "My Resume", p.Name)
	assert.Equal(t, project.TemplateModern, p.Template)
	assert.NotEmpty(t, p.Resume.Sections, "new projects start from the sample resume")
}

func TestCreateProject_DefaultsNameAndRejectsBadTemplate(t *testing.T) {
	s := newTestServer(t, t.TempDir())

	p := createProject(t, s.Handler(), "classic", "")
	assert.Equal(t, "Untitled Resume", p.Name)

	rec, env := doJSON(t, s.Handler(), "POST", "/api/projects", map[string]string{"template": "bogus"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Message, "validation error")
}

func TestGetProject_And404(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	p := createProject(t, s.Handler(), "creative", "x")

	rec, env := doJSON(t, s.Handler(), "GET", "/api/projects/"+p.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var got project.Project
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, p.ID, got.ID)

	rec, env = doJSON(t, s.Handler(), "GET", "/api/projects/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, env.Message)
}

func TestListProjectsMetadata(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	h := s.Handler()
	a := createProject(t, h, "classic", "A")
	b := createProject(t, h, "modern", "B")

	rec, env := doJSON(t, h, "GET", "/api/projects/metadata", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var metas []project.Metadata
	require.NoError(t, json.Unmarshal(env.Data, &metas))
	require.Len(t, metas, 2)
	// Most recently updated first; metadata carries no document body.
	assert.Equal(t, b.ID, metas[0].ID)
	assert.Equal(t, a.ID, metas[1].ID)
}

func TestRenameProject(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	h := s.Handler()
	p := createProject(t, h, "classic", "Before")

	rec, env := doJSON(t, h, "PUT", "/api/projects/"+p.ID, map[string]string{"name": "After", "template": "creative"})
	require.Equal(t, http.StatusOK, rec.Code)

	var got project.Project
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "After", got.Name)
	assert.Equal(t, project.TemplateCreative, got.Template)
	assert.GreaterOrEqual(t, got.UpdatedAt, p.UpdatedAt)
}

func TestDeleteProject(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	h := s.Handler()
	p := createProject(t, h, "classic", "doomed")

	rec, _ := doJSON(t, h, "DELETE", "/api/projects/"+p.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, h, "GET", "/api/projects/"+p.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = doJSON(t, h, "DELETE", "/api/projects/"+p.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateHeader(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	h := s.Handler()
	p := createProject(t, h, "classic", "x")

	name := "Dana Scully"
	email := "dana@example.com"
	rec, env := doJSON(t, h, "PUT", "/api/projects/"+p.ID+"/header", map[string]any{
		"name":  name,
		"email": email,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var got project.Project
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, name, got.Resume.Name)
	require.NotNil(t, got.Resume.Contact)
	assert.Equal(t, email, got.Resume.Contact.Email)
	// Untouched fields keep their values.
	assert.Equal(t, p.Resume.Title, got.Resume.Title)
	assert.Equal(t, p.Resume.Contact.Phone, got.Resume.Contact.Phone)
}

func TestSectionLifecycle(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	h := s.Handler()
	p := createProject(t, h, "modern", "x")
	base := len(p.Resume.Sections)

	// Add
	rec, env := doJSON(t, h, "POST", "/api/projects/"+p.ID+"/sections", map[string]string{
		"title":   "Certifications",
		"content": "AWS Solutions Architect",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var got project.Project
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got.Resume.Sections, base+1)
	added := got.Resume.Sections[base]
	assert.Equal(t, "Certifications", added.Title)

	// Update content
	rec, env = doJSON(t, h, "PUT", fmt.Sprintf("/api/projects/%s/sections/%s", p.ID, added.ID), map[string]string{
		"field": "content",
		"value": "AWS Solutions Architect, 2025",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "AWS Solutions Architect, 2025", got.Resume.Sections[base].Content)

	// Duplicate lands right after the source with a fresh id
	rec, env = doJSON(t, h, "POST", fmt.Sprintf("/api/projects/%s/sections/%s/duplicate", p.ID, added.ID), nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got.Resume.Sections, base+2)
	dup := got.Resume.Sections[base+1]
	assert.NotEqual(t, added.ID, dup.ID)
	assert.Equal(t, added.Title, dup.Title)

	// Move the duplicate up
	rec, env = doJSON(t, h, "POST", fmt.Sprintf("/api/projects/%s/sections/%s/move-up", p.ID, dup.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, dup.ID, got.Resume.Sections[base].ID)

	// Delete it
	rec, env = doJSON(t, h, "DELETE", fmt.Sprintf("/api/projects/%s/sections/%s", p.ID, dup.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got.Resume.Sections, base+1)
	assert.Equal(t, added.ID, got.Resume.Sections[base].ID)
}

func TestSectionOps_UnknownSection(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	h := s.Handler()
	p := createProject(t, h, "classic", "x")

	rec, env := doJSON(t, h, "PUT", "/api/projects/"+p.ID+"/sections/ghost", map[string]string{
		"field": "title", "value": "x",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, env.Message, "ghost")

	rec, _ = doJSON(t, h, "DELETE", "/api/projects/"+p.ID+"/sections/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMoveFirstSectionUpIsNoOp(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	h := s.Handler()
	p := createProject(t, h, "classic", "x")
	first := p.Resume.Sections[0]

	rec, env := doJSON(t, h, "POST", fmt.Sprintf("/api/projects/%s/sections/%s/move-up", p.ID, first.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got project.Project
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, first.ID, got.Resume.Sections[0].ID)
}

func TestUpdateStyle_ClampsSizeAndRejectsBadColor(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	h := s.Handler()
	p := createProject(t, h, "classic", "x")

	// Size below the name role floor clamps to 20.
	size := 5
	rec, env := doJSON(t, h, "PUT", "/api/projects/"+p.ID+"/styles/name", map[string]any{"size": size})
	require.Equal(t, http.StatusOK, rec.Code)
	var got project.Project
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, 20, got.Styles.Name.SizePx)

	// Malformed color is rejected and nothing changes.
	rec, env = doJSON(t, h, "PUT", "/api/projects/"+p.ID+"/styles/name", map[string]any{"color": "#zzzzzz"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, env.Message)

	rec, env = doJSON(t, h, "GET", "/api/projects/"+p.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "#000000", got.Styles.Name.ColorHex)

	// Unknown role is a 400.
	rec, _ = doJSON(t, h, "PUT", "/api/projects/"+p.ID+"/styles/footnote", map[string]any{"size": 12})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResetStyles_LeavesDocumentAlone(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	h := s.Handler()
	p := createProject(t, h, "classic", "x")

	size := 30
	bold := false
	rec, _ := doJSON(t, h, "PUT", "/api/projects/"+p.ID+"/styles/header", map[string]any{"size": size, "bold": bold})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := doJSON(t, h, "POST", "/api/projects/"+p.ID+"/styles/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got project.Project
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, 18, got.Styles.Header.SizePx)
	assert.True(t, got.Styles.Header.Bold)
	assert.Equal(t, p.Resume.Sections, got.Resume.Sections)
}

func TestUpdateSkills(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	h := s.Handler()
	p := createProject(t, h, "creative", "x")

	rec, env := doJSON(t, h, "PUT", "/api/projects/"+p.ID+"/skills", map[string]any{
		"skills": []string{"Go", "PostgreSQL", "Kubernetes"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var got project.Project
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, []string{"Go", "PostgreSQL", "Kubernetes"}, got.Resume.Skills)

	rec, _ = doJSON(t, h, "PUT", "/api/projects/"+p.ID+"/skills", map[string]any{
		"skills": []string{"Go", ""},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProjectsSurviveRestart(t *testing.T) {
	dir := t.TempDir()
	s := newTestServer(t, dir)
	p := createProject(t, s.Handler(), "modern", "Persistent")

	title := "Staff Engineer"
	rec, _ := doJSON(t, s.Handler(), "PUT", "/api/projects/"+p.ID+"/header", map[string]any{"title": title})
	require.Equal(t, http.StatusOK, rec.Code)

	// A fresh server over the same directory sees the edited project.
	s2 := newTestServer(t, dir)
	rec, env := doJSON(t, s2.Handler(), "GET", "/api/projects/"+p.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got project.Project
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Persistent", got.Name)
	assert.Equal(t, title, got.Resume.Title)
}

func TestRateLimitHeadersAnd429(t *testing.T) {
	cfg := config.Defaults()
	cfg.DataDir = t.TempDir()
	cfg.RateLimitPerMinute = 2
	s, err := New(cfg)
	require.NoError(t, err)

	h := s.Handler()
	rec, _ := doJSON(t, h, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))

	doJSON(t, h, "GET", "/health", nil)
	rec, env := doJSON(t, h, "GET", "/health", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, env.Message, "Rate limit")
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}
