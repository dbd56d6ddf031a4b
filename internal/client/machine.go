package client

import (
	"sync"

	"draw-guess/internal/game"
)

// DefaultCoordPack is how many points a drawer collects before sending them.
const DefaultCoordPack = 10

type State int

const (
	StateIdle State = iota
	StateDrawing
	StateGuessing
	stateCount
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDrawing:
		return "drawing"
	case StateGuessing:
		return "guessing"
	default:
		return "unknown"
	}
}

type ToolKind int

const (
	ToolPencil ToolKind = iota
	ToolHighlighter
	ToolEraser
)

// Sender carries the drawer's strokes and the guesser's words to the server.
type Sender interface {
	StartShape(coords []game.Coord, tool game.Tool) error
	PushCoords(coords []game.Coord) error
	Guess(word string) error
}

// stateBehavior is one row of the state table.
type stateBehavior struct {
	enter func(m *Machine)
	exit  func(m *Machine)
	// remote reports whether strokes from the server are applied to the
	// local canvas in this state.
	remote bool
}

var stateTable = [stateCount]stateBehavior{
	StateIdle: {
		enter:  func(*Machine) {},
		exit:   func(*Machine) {},
		remote: true,
	},
	StateDrawing: {
		enter: func(m *Machine) {
			m.canvas.Clear()
			m.queue = m.queue[:0]
			m.penDown = false
			m.firstPack = true
		},
		exit: func(m *Machine) {
			m.penDown = false
		},
	},
	StateGuessing: {
		enter: func(m *Machine) {
			m.canvas.Clear()
		},
		exit:   func(*Machine) {},
		remote: true,
	},
}

// Machine tracks one player's view of a game: whose turn it is, the local
// copy of the canvas, and the strokes waiting to be sent. It is safe for use
// from the notification goroutine and a driver goroutine at once.
type Machine struct {
	mu        sync.Mutex
	user      string
	state     State
	canvas    *game.Buffer
	sender    Sender
	packSize  int
	tool      game.Tool
	tools     map[ToolKind]game.Tool
	queue     []game.Coord
	penDown   bool
	firstPack bool
	word      string
	started   bool
}

// NewMachine starts in the guessing state, the same as a player who joins a
// room where someone else may already be drawing.
func NewMachine(user string, color game.Color, sender Sender, packSize int) *Machine {
	if packSize <= 0 {
		packSize = DefaultCoordPack
	}
	m := &Machine{
		user:     user,
		state:    StateGuessing,
		canvas:   game.NewBuffer(game.DefaultCanvasPoints),
		sender:   sender,
		packSize: packSize,
		tools: map[ToolKind]game.Tool{
			ToolPencil:      game.Pencil(),
			ToolHighlighter: game.Highlighter(color),
			ToolEraser:      game.Eraser(),
		},
	}
	m.tool = m.tools[ToolPencil]
	return m
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Machine) Started() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

func (m *Machine) Tool() game.Tool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tool
}

// Word is the secret word while this player draws.
func (m *Machine) Word() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.word
}

func (m *Machine) Shapes() []game.Shape {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.canvas.Shapes()
}

func (m *Machine) changeState(next State) {
	stateTable[m.state].exit(m)
	m.state = next
	stateTable[m.state].enter(m)
}

func (m *Machine) SetTool(kind ToolKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tool, ok := m.tools[kind]
	if !ok {
		return game.Errorf(game.KindUnknownTool, "Tool unknown: %d", kind)
	}
	m.tool = tool
	return nil
}

func (m *Machine) HandleGameStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = true
}

// HandleTurnChange moves to drawing when current is this player and to
// guessing otherwise.
func (m *Machine) HandleTurnChange(current string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = true
	m.changeState(StateIdle)
	m.word = ""
	if current == m.user {
		m.changeState(StateDrawing)
		return
	}
	m.changeState(StateGuessing)
}

func (m *Machine) HandleWordToDraw(word string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.word = word
}

func (m *Machine) HandleGameEnded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = false
	m.word = ""
	m.changeState(StateIdle)
}

// HandleShapeStarted replays a remote stroke. The drawer's own strokes are
// already on its canvas, so it ignores them.
func (m *Machine) HandleShapeStarted(coords []game.Coord, tool game.Tool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !stateTable[m.state].remote || len(coords) == 0 {
		return
	}
	m.canvas.AddShape(coords[0], tool)
	for _, c := range coords[1:] {
		_ = m.canvas.PushCoord(c)
	}
}

func (m *Machine) HandleCoords(coords []game.Coord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !stateTable[m.state].remote {
		return
	}
	for _, c := range coords {
		if err := m.canvas.PushCoord(c); err != nil {
			return
		}
	}
}

// PenDown begins a new shape at c.
func (m *Machine) PenDown(c game.Coord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateDrawing {
		return m.wrongState("start a shape", StateDrawing)
	}
	m.canvas.AddShape(c, m.tool)
	m.queue = append(m.queue[:0], c)
	m.penDown = true
	m.firstPack = true
	return nil
}

// PenMove extends the current shape and sends a pack once it is full.
func (m *Machine) PenMove(c game.Coord) error {
	m.mu.Lock()
	if m.state != StateDrawing {
		err := m.wrongState("draw", StateDrawing)
		m.mu.Unlock()
		return err
	}
	if !m.penDown {
		m.mu.Unlock()
		return nil
	}
	_ = m.canvas.PushCoord(c)
	m.queue = append(m.queue, c)
	var out outbound
	if len(m.queue) >= m.packSize {
		out = m.takePack()
	}
	m.mu.Unlock()
	return out.send(m.sender)
}

// PenUp sends whatever is still queued.
func (m *Machine) PenUp() error {
	m.mu.Lock()
	if m.state != StateDrawing {
		err := m.wrongState("send coordinates", StateDrawing)
		m.mu.Unlock()
		return err
	}
	m.penDown = false
	out := m.takePack()
	m.mu.Unlock()
	return out.send(m.sender)
}

func (m *Machine) SendGuess(word string) error {
	m.mu.Lock()
	if m.state != StateGuessing {
		err := m.wrongState("guess", StateGuessing)
		m.mu.Unlock()
		return err
	}
	m.mu.Unlock()
	return m.sender.Guess(word)
}

// outbound is a pack taken off the queue. It is sent after the machine's
// lock is released so notifications can be handled while the request waits.
type outbound struct {
	coords []game.Coord
	tool   *game.Tool
}

func (m *Machine) takePack() outbound {
	if len(m.queue) == 0 {
		return outbound{}
	}
	out := outbound{coords: append([]game.Coord(nil), m.queue...)}
	m.queue = m.queue[:0]
	if m.firstPack {
		m.firstPack = false
		tool := m.tool
		out.tool = &tool
	}
	return out
}

func (o outbound) send(sender Sender) error {
	if len(o.coords) == 0 {
		return nil
	}
	if o.tool != nil {
		return sender.StartShape(o.coords, *o.tool)
	}
	return sender.PushCoords(o.coords)
}

func (m *Machine) wrongState(action string, want State) error {
	return game.Errorf(game.KindWrongState, "User %q tried to %s but was %s, not %s.", m.user, action, m.state, want)
}
