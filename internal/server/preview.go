package server

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/jonathan/resume-builder/internal/pagination"
	"github.com/jonathan/resume-builder/internal/project"
)

// measureMessage is sent by the client after it lays out the preview:
// real pixel heights for the header and each section.
type measureMessage struct {
	Type     string         `json:"type"`
	Header   int            `json:"header"`
	Sections map[string]int `json:"sections"`
}

// breaksMessage carries break estimates to the client. Type is
// "breaks" for a reply to a measurement and "update" when pushed after
// a committed mutation.
type breaksMessage struct {
	Type      string `json:"type"`
	Breaks    []int  `json:"breaks"`
	Pages     int    `json:"pages"`
	UpdatedAt int64  `json:"updatedAt,omitempty"`
}

// Hub tracks live preview connections per project and the latest
// client-reported measurements. Measurements survive the connection
// that reported them, so HTTP break estimates stay accurate between
// socket sessions.
type Hub struct {
	estimator *pagination.Estimator
	upgrader  websocket.Upgrader

	mu      sync.Mutex
	conns   map[string]map[*websocket.Conn]bool
	heights map[string]*pagination.HeightMap
	closed  bool
}

// NewHub returns an empty hub.
func NewHub(estimator *pagination.Estimator) *Hub {
	return &Hub{
		estimator: estimator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients are served from arbitrary dev origins;
			// auth happens at the HTTP layer before the upgrade.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns:   make(map[string]map[*websocket.Conn]bool),
		heights: make(map[string]*pagination.HeightMap),
	}
}

// Heights returns the latest client-reported measurements for the
// project, or nil when none have arrived yet.
func (h *Hub) Heights(projectID string) *pagination.HeightMap {
	h.mu.Lock()
	defer h.mu.Unlock()
	hm, ok := h.heights[projectID]
	if !ok {
		return nil
	}
	clone := pagination.HeightMap{Header: hm.Header, Sections: make(map[string]int, len(hm.Sections))}
	for id, v := range hm.Sections {
		clone.Sections[id] = v
	}
	return &clone
}

// Serve upgrades the request and runs the read loop for one client.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, projectID string, state *project.Store) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	if !h.register(projectID, conn) {
		conn.Close()
		return
	}
	defer h.unregister(projectID, conn)

	for {
		var msg measureMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
		if msg.Type != "measure" {
			continue
		}

		hm := &pagination.HeightMap{Header: msg.Header, Sections: msg.Sections}
		h.mu.Lock()
		h.heights[projectID] = hm
		h.mu.Unlock()

		p, ok := state.Get(projectID)
		if !ok {
			return
		}
		breaks := h.estimator.Estimate(p.Resume, hm)
		h.send(conn, breaksMessage{
			Type:   "breaks",
			Breaks: orEmpty(breaks),
			Pages:  pagination.PageCount(breaks),
		})
	}
}

// ProjectUpdated pushes fresh break estimates to every preview of the
// project. Estimates reuse the last reported measurements, which may be
// stale for edited sections; the client re-measures and reports back.
func (h *Hub) ProjectUpdated(p project.Project) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns[p.ID]))
	for conn := range h.conns[p.ID] {
		conns = append(conns, conn)
	}
	hm := h.heights[p.ID]
	h.mu.Unlock()

	if len(conns) == 0 {
		return
	}

	var breaks []int
	if hm != nil {
		breaks = h.estimator.Estimate(p.Resume, hm)
	} else {
		breaks = h.estimator.Estimate(p.Resume, pagination.NewTextMeasurer(p.Styles))
	}

	msg := breaksMessage{
		Type:      "update",
		Breaks:    orEmpty(breaks),
		Pages:     pagination.PageCount(breaks),
		UpdatedAt: p.UpdatedAt,
	}
	for _, conn := range conns {
		h.send(conn, msg)
	}
}

// Close drops all connections.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for _, conns := range h.conns {
		for conn := range conns {
			conn.Close()
		}
	}
	h.conns = make(map[string]map[*websocket.Conn]bool)
}

func (h *Hub) register(projectID string, conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	if h.conns[projectID] == nil {
		h.conns[projectID] = make(map[*websocket.Conn]bool)
	}
	h.conns[projectID][conn] = true
	return true
}

func (h *Hub) unregister(projectID string, conn *websocket.Conn) {
	h.mu.Lock()
	if conns := h.conns[projectID]; conns != nil {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.conns, projectID)
		}
	}
	h.mu.Unlock()
	conn.Close()
}

// send serializes writes; gorilla connections do not allow concurrent
// writers.
func (h *Hub) send(conn *websocket.Conn, msg breaksMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("WebSocket write failed: %v", err)
	}
}

func orEmpty(breaks []int) []int {
	if breaks == nil {
		return []int{}
	}
	return breaks
}
