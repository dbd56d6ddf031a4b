package client

import (
	"encoding/json"
	"sync"
	"testing"

	"draw-guess/internal/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentPack struct {
	coords []game.Coord
	tool   *game.Tool
}

type recordingSender struct {
	mu      sync.Mutex
	packs   []sentPack
	guesses []string
}

func (r *recordingSender) StartShape(coords []game.Coord, tool game.Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.packs = append(r.packs, sentPack{coords: coords, tool: &tool})
	return nil
}

func (r *recordingSender) PushCoords(coords []game.Coord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.packs = append(r.packs, sentPack{coords: coords})
	return nil
}

func (r *recordingSender) Guess(word string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guesses = append(r.guesses, word)
	return nil
}

func newTestMachine(packSize int) (*Machine, *recordingSender) {
	sender := &recordingSender{}
	return NewMachine("alice", game.Color{Label: "is-red", Hex: "#c40233"}, sender, packSize), sender
}

func TestMachineStartsGuessing(t *testing.T) {
	m, sender := newTestMachine(3)
	assert.Equal(t, StateGuessing, m.State())
	require.NoError(t, m.SendGuess("apple"))
	assert.Equal(t, []string{"apple"}, sender.guesses)

	err := m.PenDown(game.Coord{X: 1, Y: 1})
	assert.True(t, game.IsKind(err, game.KindWrongState))
}

func TestMachineTurnChanges(t *testing.T) {
	m, _ := newTestMachine(3)

	m.HandleTurnChange("alice")
	assert.Equal(t, StateDrawing, m.State())
	assert.True(t, m.Started())
	m.HandleWordToDraw("apple")
	assert.Equal(t, "apple", m.Word())

	err := m.SendGuess("apple")
	assert.True(t, game.IsKind(err, game.KindWrongState))

	m.HandleTurnChange("bob")
	assert.Equal(t, StateGuessing, m.State())
	assert.Empty(t, m.Word())

	m.HandleGameEnded()
	assert.Equal(t, StateIdle, m.State())
	assert.False(t, m.Started())
	assert.True(t, game.IsKind(m.SendGuess("apple"), game.KindWrongState))
	assert.True(t, game.IsKind(m.PenUp(), game.KindWrongState))
}

func TestMachineSendsPacks(t *testing.T) {
	m, sender := newTestMachine(3)
	m.HandleTurnChange("alice")

	require.NoError(t, m.SetTool(ToolHighlighter))
	require.NoError(t, m.PenDown(game.Coord{X: 0, Y: 0}))
	require.NoError(t, m.PenMove(game.Coord{X: 1, Y: 1}))
	require.Empty(t, sender.packs)
	require.NoError(t, m.PenMove(game.Coord{X: 2, Y: 2}))
	require.Len(t, sender.packs, 1)
	require.NoError(t, m.PenMove(game.Coord{X: 3, Y: 3}))
	require.NoError(t, m.PenUp())
	require.Len(t, sender.packs, 2)

	first, second := sender.packs[0], sender.packs[1]
	require.NotNil(t, first.tool)
	assert.Equal(t, "#c40233", first.tool.Color.Hex)
	assert.Equal(t, float64(20), first.tool.Weight)
	assert.Equal(t, []game.Coord{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}, first.coords)
	assert.Nil(t, second.tool)
	assert.Equal(t, []game.Coord{{X: 3, Y: 3}}, second.coords)

	shapes := m.Shapes()
	require.Len(t, shapes, 1)
	assert.Len(t, shapes[0].Coords, 4)

	require.NoError(t, m.PenMove(game.Coord{X: 9, Y: 9}))
	require.NoError(t, m.PenUp())
	assert.Len(t, sender.packs, 2)
}

func TestMachineTools(t *testing.T) {
	m, _ := newTestMachine(0)
	assert.Equal(t, game.Pencil(), m.Tool())
	require.NoError(t, m.SetTool(ToolEraser))
	assert.Equal(t, game.Eraser(), m.Tool())

	err := m.SetTool(ToolKind(42))
	assert.True(t, game.IsKind(err, game.KindUnknownTool))
	assert.Equal(t, game.Eraser(), m.Tool())
}

func TestMachineAppliesRemoteStrokes(t *testing.T) {
	m, _ := newTestMachine(3)
	m.HandleTurnChange("bob")

	shape, err := json.Marshal(map[string]any{
		"coords": []game.Coord{{X: 1, Y: 1}, {X: 2, Y: 2}},
		"tool":   game.Pencil(),
	})
	require.NoError(t, err)
	require.NoError(t, m.Apply(Notification{Type: "shape-started", Data: shape}))
	require.NoError(t, m.Apply(Notification{Type: "coords-pushed", Data: json.RawMessage(`[{"x":3,"y":3}]`)}))

	shapes := m.Shapes()
	require.Len(t, shapes, 1)
	assert.Len(t, shapes[0].Coords, 3)
	assert.Equal(t, game.Pencil(), shapes[0].Tool)

	require.NoError(t, m.Apply(Notification{Type: "turn-changed", Data: json.RawMessage(`{"previous":"bob","current":"alice","deadline":"2026-01-01T00:00:00Z"}`)}))
	assert.Equal(t, StateDrawing, m.State())
	assert.Empty(t, m.Shapes())

	require.NoError(t, m.Apply(Notification{Type: "coords-pushed", Data: json.RawMessage(`[{"x":3,"y":3}]`)}))
	assert.Empty(t, m.Shapes())

	require.NoError(t, m.Apply(Notification{Type: "word-to-draw", Data: json.RawMessage(`"cherry"`)}))
	assert.Equal(t, "cherry", m.Word())
	require.NoError(t, m.Apply(Notification{Type: "member-joined", Data: json.RawMessage(`{}`)}))
	assert.Error(t, m.Apply(Notification{Type: "turn-changed", Data: json.RawMessage(`"nope"`)}))
}
