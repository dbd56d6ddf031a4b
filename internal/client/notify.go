package client

import (
	"encoding/json"
	"fmt"
	"time"

	"draw-guess/internal/game"
)

type turnChanged struct {
	Previous string    `json:"previous"`
	Current  string    `json:"current"`
	Deadline time.Time `json:"deadline"`
}

type shapeStarted struct {
	Coords []game.Coord `json:"coords"`
	Tool   game.Tool    `json:"tool"`
}

// Apply feeds one server notification into the machine. Notifications the
// machine has no use for are ignored.
func (m *Machine) Apply(n Notification) error {
	switch n.Type {
	case "game-started":
		m.HandleGameStarted()
	case "game-ended":
		m.HandleGameEnded()
	case "turn-changed":
		var body turnChanged
		if err := json.Unmarshal(n.Data, &body); err != nil {
			return fmt.Errorf("decode %s: %w", n.Type, err)
		}
		m.HandleTurnChange(body.Current)
	case "word-to-draw":
		var word string
		if err := json.Unmarshal(n.Data, &word); err != nil {
			return fmt.Errorf("decode %s: %w", n.Type, err)
		}
		m.HandleWordToDraw(word)
	case "shape-started":
		var body shapeStarted
		if err := json.Unmarshal(n.Data, &body); err != nil {
			return fmt.Errorf("decode %s: %w", n.Type, err)
		}
		m.HandleShapeStarted(body.Coords, body.Tool)
	case "coords-pushed":
		var coords []game.Coord
		if err := json.Unmarshal(n.Data, &coords); err != nil {
			return fmt.Errorf("decode %s: %w", n.Type, err)
		}
		m.HandleCoords(coords)
	}
	return nil
}
