package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/jonathan/resume-builder/internal/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlePreview_ReturnsHTML(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	h := s.Handler()
	p := createProject(t, h, "modern", "x")

	req := httptest.NewRequest("GET", "/api/projects/"+p.ID+"/preview", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	for _, sec := range p.Resume.Sections {
		assert.Contains(t, body, `data-section-id="`+sec.ID+`"`)
	}
}

func TestHandlePreview_UnknownProject(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	rec, env := doJSON(t, s.Handler(), "GET", "/api/projects/nope/preview", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, env.Message)
}

func TestHandlePageBreaks(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	h := s.Handler()
	p := createProject(t, h, "classic", "x")

	rec, env := doJSON(t, h, "GET", "/api/projects/"+p.ID+"/page-breaks", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Breaks []int `json:"breaks"`
		Pages  int   `json:"pages"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.NotNil(t, got.Breaks)
	assert.Equal(t, pagination.PageCount(got.Breaks), got.Pages)
	assert.GreaterOrEqual(t, got.Pages, 1)
}

func dialPreview(t *testing.T, ts *httptest.Server, projectID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/projects/" + projectID + "/preview/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestPreviewSocket_MeasureGetsBreaks(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	p := createProject(t, s.Handler(), "classic", "x")
	conn := dialPreview(t, ts, p.ID)
	defer conn.Close()

	// Two 800px sections against a 1056px page with a 56px header:
	// the second section starts page two.
	sections := make(map[string]int)
	for i, sec := range p.Resume.Sections {
		if i < 2 {
			sections[sec.ID] = 800
		} else {
			sections[sec.ID] = 0
		}
	}
	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":     "measure",
		"header":   56,
		"sections": sections,
	}))

	var reply breaksMessage
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "breaks", reply.Type)
	assert.Equal(t, []int{1}, reply.Breaks)
	assert.Equal(t, 2, reply.Pages)

	// The reported heights now also drive the HTTP estimate.
	rec, env := doJSON(t, s.Handler(), "GET", "/api/projects/"+p.ID+"/page-breaks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Breaks []int `json:"breaks"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, []int{1}, got.Breaks)
}

func TestPreviewSocket_EditPushesUpdate(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	p := createProject(t, s.Handler(), "classic", "x")
	conn := dialPreview(t, ts, p.ID)
	defer conn.Close()

	rec, _ := doJSON(t, s.Handler(), "PUT", "/api/projects/"+p.ID+"/header", map[string]any{"title": "Principal Engineer"})
	require.Equal(t, http.StatusOK, rec.Code)

	var push breaksMessage
	require.NoError(t, conn.ReadJSON(&push))
	assert.Equal(t, "update", push.Type)
	assert.GreaterOrEqual(t, push.Pages, 1)
	assert.NotZero(t, push.UpdatedAt)
}

func TestPreviewSocket_UnknownProject(t *testing.T) {
	s := newTestServer(t, t.TempDir())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/projects/ghost/preview/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
