package server

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"draw-guess/internal/config"
	"draw-guess/internal/game"

	"github.com/gorilla/websocket"
)

const wsTimeout = 5 * time.Second

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test; listen unavailable: %v", err)
	}
	ts := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	ts.Start()
	return ts
}

// sequenceWords hands out the given words in order, then repeats the last.
func sequenceWords(words ...string) game.WordSource {
	var mu sync.Mutex
	next := 0
	return game.WordSourceFunc(func() string {
		mu.Lock()
		defer mu.Unlock()
		word := words[next]
		if next < len(words)-1 {
			next++
		}
		return word
	})
}

func newCoordinator(t *testing.T, words ...string) (*Server, *httptest.Server) {
	t.Helper()
	if len(words) == 0 {
		words = []string{"apple", "banana", "cherry"}
	}
	srv := New(nil, config.Default(), sequenceWords(words...))
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)
	t.Cleanup(srv.Close)
	return srv, ts
}

type wsFrame struct {
	ID      int             `json:"id"`
	Type    string          `json:"type"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

type wsErrorData struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// testClient drives one websocket connection. Notifications read while
// waiting for a response are kept until a test asks for them.
type testClient struct {
	t       *testing.T
	conn    *websocket.Conn
	nextID  int
	pending []wsFrame
}

func dial(t *testing.T, ts *httptest.Server) *testClient {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Skipf("skipping test; websocket dial unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return &testClient{t: t, conn: conn}
}

func (c *testClient) readFrame(timeout time.Duration) wsFrame {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))
	_, payload, err := c.conn.ReadMessage()
	if err != nil {
		c.t.Fatalf("read websocket message: %v", err)
	}
	var frame wsFrame
	if err := json.Unmarshal(payload, &frame); err != nil {
		c.t.Fatalf("decode websocket message %s: %v", payload, err)
	}
	return frame
}

// call sends a request and returns its response frame.
func (c *testClient) call(requestType string, data any) wsFrame {
	c.t.Helper()
	c.nextID++
	id := c.nextID
	payload := map[string]any{"id": id, "type": requestType}
	if data != nil {
		payload["data"] = data
	}
	if err := c.conn.WriteJSON(payload); err != nil {
		c.t.Fatalf("write %s: %v", requestType, err)
	}
	deadline := time.Now().Add(wsTimeout)
	for {
		frame := c.readFrame(time.Until(deadline))
		if frame.Type == frameResponse && frame.ID == id {
			return frame
		}
		c.pending = append(c.pending, frame)
	}
}

// mustCall fails the test unless the request succeeds.
func (c *testClient) mustCall(requestType string, data any) wsFrame {
	c.t.Helper()
	frame := c.call(requestType, data)
	if !frame.Success {
		c.t.Fatalf("%s failed: %s", requestType, frame.Data)
	}
	return frame
}

// callError expects the request to fail with the given error name.
func (c *testClient) callError(requestType string, data any, name string) wsErrorData {
	c.t.Helper()
	frame := c.call(requestType, data)
	if frame.Success {
		c.t.Fatalf("expected %s to fail with %s, got success %s", requestType, name, frame.Data)
	}
	var errData wsErrorData
	if err := json.Unmarshal(frame.Data, &errData); err != nil {
		c.t.Fatalf("decode error payload %s: %v", frame.Data, err)
	}
	if errData.Name != name {
		c.t.Fatalf("expected %s error from %s, got %s (%s)", name, requestType, errData.Name, errData.Message)
	}
	return errData
}

// expect returns the next notification of the given type, skipping nothing:
// any other notification that arrives first fails the test.
func (c *testClient) expect(notificationType string) wsFrame {
	c.t.Helper()
	var frame wsFrame
	if len(c.pending) > 0 {
		frame = c.pending[0]
		c.pending = c.pending[1:]
	} else {
		frame = c.readFrame(wsTimeout)
	}
	if frame.Type != notificationType {
		c.t.Fatalf("expected %s notification, got %s %s", notificationType, frame.Type, frame.Data)
	}
	return frame
}

func (c *testClient) expectNone(timeout time.Duration) {
	c.t.Helper()
	if len(c.pending) > 0 {
		c.t.Fatalf("expected no notification, have %s", c.pending[0].Type)
	}
	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))
	if _, payload, err := c.conn.ReadMessage(); err == nil {
		c.t.Fatalf("expected no websocket message within %s, got %s", timeout, payload)
	} else {
		netErr, ok := err.(net.Error)
		if !ok || !netErr.Timeout() {
			c.t.Fatalf("expected websocket timeout, got %v", err)
		}
	}
}

func decodeData[T any](t *testing.T, frame wsFrame) T {
	t.Helper()
	var value T
	if err := json.Unmarshal(frame.Data, &value); err != nil {
		t.Fatalf("decode %s data %s: %v", frame.Type, frame.Data, err)
	}
	return value
}

// joinedRoom creates room1 and joins the named members in order; the first
// becomes owner.
func joinedRoom(t *testing.T, ts *httptest.Server, names ...string) []*testClient {
	t.Helper()
	clients := make([]*testClient, 0, len(names))
	for i, name := range names {
		client := dial(t, ts)
		if i == 0 {
			client.mustCall(requestCreateSession, map[string]any{"name": "room1"})
		}
		client.mustCall(requestJoinSession, map[string]any{"displayName": name, "name": "room1"})
		for _, earlier := range clients {
			joined := earlier.expect(notifyMemberJoined)
			member := decodeData[game.MemberState](t, joined)
			if member.Name != name {
				t.Fatalf("expected member-joined for %s, got %s", name, member.Name)
			}
		}
		clients = append(clients, client)
	}
	return clients
}
