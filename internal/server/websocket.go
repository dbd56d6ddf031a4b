package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"draw-guess/internal/game"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	wsWriteWait      = 10 * time.Second
	wsPongWait       = 60 * time.Second
	wsPingPeriod     = (wsPongWait * 9) / 10
	wsMaxMessageSize = 64 * 1024
)

// wsClient is one websocket connection. Outbound frames go through send and
// are written by writePump alone.
type wsClient struct {
	id        string
	conn      *websocket.Conn
	send      chan []byte
	limiter   *rate.Limiter
	done      chan struct{}
	closeOnce sync.Once
}

func (c *wsClient) enqueue(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- data:
		return true
	default:
		log.Printf("ws send buffer full conn=%s", c.id)
		c.close()
		return false
	}
}

func (c *wsClient) sendJSON(payload any) bool {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ws marshal failed conn=%s error=%v", c.id, err)
		return false
	}
	return c.enqueue(data)
}

func (c *wsClient) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

type wsHub struct {
	mu      sync.Mutex
	clients map[string]*wsClient
}

func newWSHub() *wsHub {
	return &wsHub{
		clients: make(map[string]*wsClient),
	}
}

func (h *wsHub) Add(client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.id] = client
}

func (h *wsHub) Remove(id string) {
	h.mu.Lock()
	client, ok := h.clients[id]
	delete(h.clients, id)
	h.mu.Unlock()
	if ok {
		client.close()
	}
}

func (h *wsHub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *wsHub) Send(id string, payload any) {
	h.mu.Lock()
	client := h.clients[id]
	h.mu.Unlock()
	if client == nil {
		return
	}
	client.sendJSON(payload)
}

// Broadcast queues payload for each listed connection, in order.
func (h *wsHub) Broadcast(ids []string, payload any) {
	if len(ids) == 0 {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ws marshal failed error=%v", err)
		return
	}
	h.mu.Lock()
	clients := make([]*wsClient, 0, len(ids))
	for _, id := range ids {
		if client := h.clients[id]; client != nil {
			clients = append(clients, client)
		}
	}
	h.mu.Unlock()
	for _, client := range clients {
		client.enqueue(data)
	}
}

// BroadcastAll queues payload for every connection except one.
func (h *wsHub) BroadcastAll(except string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ws marshal failed error=%v", err)
		return
	}
	h.mu.Lock()
	clients := make([]*wsClient, 0, len(h.clients))
	for id, client := range h.clients {
		if id != except {
			clients = append(clients, client)
		}
	}
	h.mu.Unlock()
	for _, client := range clients {
		client.enqueue(data)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (s *Server) handleWebsocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	client := &wsClient{
		id:      uuid.NewString(),
		conn:    conn,
		send:    make(chan []byte, s.cfg.SendBuffer),
		limiter: rate.NewLimiter(rate.Limit(s.cfg.RequestsPerSecond), s.cfg.RequestBurst),
		done:    make(chan struct{}),
	}
	log.Printf("ws connected conn=%s remote=%s", client.id, c.Request.RemoteAddr)
	s.hub.Add(client)
	go s.writeWS(client)
	go s.readWS(client)
}

func (s *Server) readWS(client *wsClient) {
	defer s.hub.Remove(client.id)
	defer s.disconnect(client)

	client.conn.SetReadLimit(wsMaxMessageSize)
	_ = client.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		_, payload, err := client.conn.ReadMessage()
		if err != nil {
			log.Printf("ws disconnected conn=%s error=%v", client.id, err)
			return
		}
		var frame inboundFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			client.sendJSON(responseFrame{
				Type: frameResponse,
				Data: game.Errorf(game.KindValidation, "malformed frame: %v", err),
			})
			continue
		}
		s.dispatch(client, frame)
	}
}

func (s *Server) writeWS(client *wsClient) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()
	defer client.close()
	for {
		select {
		case data := <-client.send:
			_ = client.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := client.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-client.done:
			return
		}
	}
}
