// Package live pushes calendar change events to connected browsers
// over WebSocket so open calendars refresh without polling.
package live

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/harborlane/clinic-calendar/pkg/logging"
)

// Event is pushed to subscribed clients when tenant data changes.
type Event struct {
	Type      string `json:"type"` // "appointments_changed", "settings_changed", "pong", "error"
	OrgID     string `json:"org_id,omitempty"`
	Date      string `json:"date,omitempty"` // YYYY-MM-DD of the changed day, when known
	Timestamp string `json:"timestamp,omitempty"`
}

type inbound struct {
	Type string `json:"type"` // "ping"
}

type wsConn struct {
	conn *websocket.Conn
}

// ConnectionMetrics tracks the per-tenant connection gauge.
type ConnectionMetrics interface {
	ConnectionOpened(orgID string)
	ConnectionClosed(orgID string)
}

// Hub tracks WebSocket subscribers per tenant.
type Hub struct {
	logger  *logging.Logger
	metrics ConnectionMetrics

	mu   sync.RWMutex
	subs map[string]map[string]*wsConn // orgID -> connID -> connection
}

// NewHub creates an empty hub.
func NewHub(logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default()
	}
	return &Hub{
		logger: logger,
		subs:   make(map[string]map[string]*wsConn),
	}
}

// SetMetrics wires the connection gauge; nil disables it.
func (h *Hub) SetMetrics(m ConnectionMetrics) {
	h.metrics = m
}

func generateConnID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return uuid.New().String()
	}
	return hex.EncodeToString(b)
}

// HandleWebSocket upgrades to WebSocket and subscribes the client to
// its tenant's events.
// GET /ws/calendar?org=...
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Hub) serveWS(conn *websocket.Conn, r *http.Request) {
	orgID := r.URL.Query().Get("org")
	if orgID == "" {
		_ = websocket.JSON.Send(conn, Event{Type: "error"})
		return
	}

	connID := generateConnID()
	wsc := &wsConn{conn: conn}

	h.mu.Lock()
	if h.subs[orgID] == nil {
		h.subs[orgID] = make(map[string]*wsConn)
	}
	h.subs[orgID][connID] = wsc
	h.mu.Unlock()
	if h.metrics != nil {
		h.metrics.ConnectionOpened(orgID)
	}

	defer func() {
		h.mu.Lock()
		delete(h.subs[orgID], connID)
		if len(h.subs[orgID]) == 0 {
			delete(h.subs, orgID)
		}
		h.mu.Unlock()
		if h.metrics != nil {
			h.metrics.ConnectionClosed(orgID)
		}
	}()

	h.logger.Info("live: connection opened", "org_id", orgID, "conn_id", connID)

	for {
		var msg inbound
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("live: connection closed", "org_id", orgID, "error", err)
			return
		}
		if msg.Type == "ping" {
			_ = websocket.JSON.Send(conn, Event{Type: "pong"})
		}
	}
}

// Broadcast sends an event to every subscriber of the tenant.
func (h *Hub) Broadcast(orgID string, evt Event) {
	evt.OrgID = orgID
	if evt.Timestamp == "" {
		evt.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	h.mu.RLock()
	conns := make([]*wsConn, 0, len(h.subs[orgID]))
	for _, wsc := range h.subs[orgID] {
		conns = append(conns, wsc)
	}
	h.mu.RUnlock()

	for _, wsc := range conns {
		_ = websocket.JSON.Send(wsc.conn, evt)
	}
}

// AppointmentsChanged notifies the tenant's open calendars that the
// snapshot for a day is stale.
func (h *Hub) AppointmentsChanged(orgID, date string) {
	h.Broadcast(orgID, Event{Type: "appointments_changed", Date: date})
}

// SettingsChanged notifies the tenant's open calendars that clinic
// settings or appearance changed.
func (h *Hub) SettingsChanged(orgID string) {
	h.Broadcast(orgID, Event{Type: "settings_changed"})
}

// Subscribers returns the number of active connections for a tenant.
func (h *Hub) Subscribers(orgID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[orgID])
}
