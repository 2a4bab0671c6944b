package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// Client represents a connected WebSocket client watching a run.
type Client struct {
	conn  *websocket.Conn
	runID string
	send  chan []byte
}

// Hub maintains the set of active clients grouped by run.
type Hub struct {
	rooms map[string]map[*Client]bool // runID -> clients
	mu    sync.RWMutex
}

// GameHub is the process-wide hub instance.
var GameHub = NewHub()

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]bool),
	}
}

// BroadcastToRun sends a message to every client watching the given run.
func (h *Hub) BroadcastToRun(runID string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[runID] {
		select {
		case client.send <- data:
		default:
			// Client's buffer is full
			log.Printf("[WS] Dropping message for run %s (buffer full)", runID)
		}
	}
}

// Watchers returns the number of clients following a run.
func (h *Hub) Watchers(runID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[runID])
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[c.runID] == nil {
		h.rooms[c.runID] = make(map[*Client]bool)
	}
	h.rooms[c.runID][c] = true
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.rooms[c.runID]; ok {
		if room[c] {
			delete(room, c)
			close(c.send)
		}
		if len(room) == 0 {
			delete(h.rooms, c.runID)
		}
	}
}

// ServeProgress upgrades the request and streams run progress events until
// the client disconnects. runID comes from the route.
func (h *Hub) ServeProgress(w http.ResponseWriter, r *http.Request, runID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade failed for run %s: %v", runID, err)
		return
	}

	client := &Client{conn: conn, runID: runID, send: make(chan []byte, 64)}
	h.add(client)
	log.Printf("[WS] Client joined run %s (%d watching)", runID, h.Watchers(runID))

	go client.writePump()
	client.readPump(h)
}

// readPump drains the connection so pings are answered; watchers never send
// anything meaningful.
func (c *Client) readPump(h *Hub) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("WebSocket write error for run %s: %v", c.runID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
