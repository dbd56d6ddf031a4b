package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"draw-guess/internal/game"

	"github.com/gorilla/websocket"
)

const (
	notificationBuffer = 256
	defaultCallTimeout = 10 * time.Second
)

var ErrClosed = errors.New("client: connection closed")

// Notification is a server push that is not a response to a request.
type Notification struct {
	Type string
	Data json.RawMessage
}

type frame struct {
	ID      int             `json:"id"`
	Type    string          `json:"type"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

type errorData struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Conn speaks the coordinator's request/response protocol over one
// websocket. Responses are matched to requests by id; everything else is
// delivered on Notifications.
type Conn struct {
	ws      *websocket.Conn
	timeout time.Duration

	writeMu sync.Mutex

	mu      sync.Mutex
	nextID  int
	pending map[int]chan frame
	err     error

	notes chan Notification
	done  chan struct{}
}

func Dial(ctx context.Context, url string) (*Conn, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	c := &Conn{
		ws:      ws,
		timeout: defaultCallTimeout,
		pending: make(map[int]chan frame),
		notes:   make(chan Notification, notificationBuffer),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Notifications is closed once the connection goes away.
func (c *Conn) Notifications() <-chan Notification {
	return c.notes
}

func (c *Conn) Done() <-chan struct{} {
	return c.done
}

func (c *Conn) Close() error {
	c.writeMu.Lock()
	_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()
	return c.ws.Close()
}

// Call sends a request and waits for its response. A failed response comes
// back as a *game.Error; on success the data is decoded into out when out is
// not nil.
func (c *Conn) Call(ctx context.Context, kind string, data any, out any) error {
	c.mu.Lock()
	if c.err != nil {
		err := c.err
		c.mu.Unlock()
		return err
	}
	c.nextID++
	id := c.nextID
	reply := make(chan frame, 1)
	c.pending[id] = reply
	c.mu.Unlock()

	payload := map[string]any{"id": id, "type": kind}
	if data != nil {
		payload["data"] = data
	}
	c.writeMu.Lock()
	err := c.ws.WriteJSON(payload)
	c.writeMu.Unlock()
	if err != nil {
		c.forget(id)
		return fmt.Errorf("send %s: %w", kind, err)
	}

	select {
	case resp := <-reply:
		if !resp.Success {
			var e errorData
			if err := json.Unmarshal(resp.Data, &e); err != nil {
				return fmt.Errorf("%s failed: %s", kind, resp.Data)
			}
			return game.Errorf(game.Kind(e.Name), "%s", e.Message)
		}
		if out != nil && len(resp.Data) > 0 {
			if err := json.Unmarshal(resp.Data, out); err != nil {
				return fmt.Errorf("decode %s response: %w", kind, err)
			}
		}
		return nil
	case <-c.done:
		return ErrClosed
	case <-ctx.Done():
		c.forget(id)
		return ctx.Err()
	}
}

func (c *Conn) forget(id int) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

func (c *Conn) readLoop() {
	defer func() {
		c.mu.Lock()
		if c.err == nil {
			c.err = ErrClosed
		}
		c.mu.Unlock()
		close(c.done)
		close(c.notes)
	}()
	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("client read failed error=%v", err)
			}
			return
		}
		var f frame
		if err := json.Unmarshal(payload, &f); err != nil {
			log.Printf("client decode failed error=%v", err)
			continue
		}
		if f.Type == "response" {
			c.mu.Lock()
			reply, ok := c.pending[f.ID]
			delete(c.pending, f.ID)
			c.mu.Unlock()
			if ok {
				reply <- f
			}
			continue
		}
		select {
		case c.notes <- Notification{Type: f.Type, Data: f.Data}:
		default:
			log.Printf("client notification dropped type=%s reason=buffer_full", f.Type)
		}
	}
}

func (c *Conn) call(kind string, data any, out any) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	return c.Call(ctx, kind, data, out)
}

func (c *Conn) CreateSession(name string, settings game.Settings) error {
	body := map[string]any{"name": name}
	if settings != nil {
		body["settings"] = settings
	}
	return c.call("create-session", body, nil)
}

func (c *Conn) JoinSession(name, displayName string) (game.Snapshot, error) {
	var snap game.Snapshot
	err := c.call("join-session", map[string]any{"name": name, "displayName": displayName}, &snap)
	return snap, err
}

func (c *Conn) LeaveSession() error {
	return c.call("leave-session", nil, nil)
}

func (c *Conn) StartGame() error {
	return c.call("start-game", nil, nil)
}

func (c *Conn) ListSessions(pageSize, pageIndex int) ([]game.Summary, error) {
	var out []game.Summary
	err := c.call("list-sessions", map[string]any{"pageSize": pageSize, "pageIndex": pageIndex}, &out)
	return out, err
}

// GuessWord reports whether the server considered a miss close.
func (c *Conn) GuessWord(word string) (bool, error) {
	var ack struct {
		Close bool `json:"close"`
	}
	err := c.call("guess-word", map[string]any{"word": word}, &ack)
	return ack.Close, err
}

func (c *Conn) Guess(word string) error {
	_, err := c.GuessWord(word)
	return err
}

func (c *Conn) StartShape(coords []game.Coord, tool game.Tool) error {
	return c.call("start-shape", map[string]any{
		"coords": coords,
		"tool": map[string]any{
			"color":  tool.Color.Label,
			"weight": tool.Weight,
		},
	}, nil)
}

func (c *Conn) PushCoords(coords []game.Coord) error {
	return c.call("push-coords", map[string]any{"coords": coords}, nil)
}
