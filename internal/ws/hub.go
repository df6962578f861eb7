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

// Client represents a connected WebSocket client watching one tournament
type Client struct {
	conn         *websocket.Conn
	tournamentID int
	send         chan []byte
}

// Hub maintains the set of clients subscribed per tournament
type Hub struct {
	rooms map[int]map[*Client]struct{} // tournamentID -> clients
	mu    sync.RWMutex
}

// FeedHub is the process-wide hub for the live participant feed
var FeedHub = NewHub()

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{rooms: make(map[int]map[*Client]struct{})}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[c.tournamentID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[c.tournamentID] = room
	}
	room[c] = struct{}{}
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.rooms[c.tournamentID]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, c.tournamentID)
		}
	}
}

// BroadcastToTournament sends a message to all clients watching a tournament
func (h *Hub) BroadcastToTournament(tournamentID int, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[tournamentID] {
		select {
		case client.send <- data:
		default:
			// Client's buffer is full
			log.Printf("[WS] send buffer full for tournament %d subscriber, dropping message", tournamentID)
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
				log.Printf("WebSocket write error for tournament %d subscriber: %v", c.tournamentID, err)
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

// readPump discards inbound frames and unregisters the client on close.
// The feed is one-way; reading is only needed to process control frames.
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

// Serve upgrades the request and registers the client for a tournament feed
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, tournamentID int) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		conn:         conn,
		tournamentID: tournamentID,
		send:         make(chan []byte, 16),
	}
	h.add(client)

	go client.writePump()
	go client.readPump(h)
	return nil
}
