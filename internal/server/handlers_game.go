package server

import (
	"log"
	"time"

	"draw-guess/internal/game"
)

type turnChangedPayload struct {
	Previous string    `json:"previous"`
	Current  string    `json:"current"`
	Deadline time.Time `json:"deadline"`
}

type guessAttemptedPayload struct {
	Name    string `json:"name"`
	Word    string `json:"word"`
	Success bool   `json:"success"`
}

type guessAckPayload struct {
	Close bool `json:"close"`
}

type shapeStartedPayload struct {
	Coords []game.Coord `json:"coords"`
	Tool   game.Tool    `json:"tool"`
}

// closeGuessDistance is the largest edit distance reported back to a guesser
// as a near miss.
const closeGuessDistance = 2

func (s *Server) handleStartGame(req *request) error {
	if err := bindData(req, &emptyRequest{}, nil); err != nil {
		return err
	}
	return s.withMembership(req.client, func(session *game.Session, member string) error {
		if err := requireOwner(session, member); err != nil {
			return err
		}
		if session.HasGameStarted() {
			return game.Errorf(game.KindGameAlreadyStarted, "Game in room %q has already started.", session.Name())
		}
		// StartGame hands out the first turn itself. That announcement waits
		// until the caller is acknowledged and the others know the game began.
		var held []func()
		holding := true
		onTurn := s.turnListener(session)
		err := session.StartGame(s.words, func(previous, current string, deadline time.Time) {
			if holding {
				held = append(held, func() { onTurn(previous, current, deadline) })
				return
			}
			onTurn(previous, current, deadline)
		}, s.guessListener(session))
		holding = false
		if err != nil {
			return err
		}
		req.ack(nil)
		s.emit(session, member, notifyGameStarted, nil)
		for _, announce := range held {
			announce()
		}
		log.Printf("game started session=%s owner=%s members=%d", session.Name(), member, len(session.MemberNames()))
		s.events.Record(session.Name(), member, eventGameStarted, EventPayload{Owner: member})
		return nil
	})
}

func (s *Server) handleGuessWord(req *request) error {
	var body guessWordRequest
	if err := bindData(req, &body, guessMessages); err != nil {
		return err
	}
	return s.withMembership(req.client, func(session *game.Session, member string) error {
		if session.HasGameStarted() && session.CurrentlyDrawing() == member {
			return game.Errorf(game.KindUserNotPermitted, "User %q is drawing in room %q and cannot guess.", member, session.Name())
		}
		if err := requireStarted(session); err != nil {
			return err
		}
		evaluator := session.Evaluator()
		near := body.Word != evaluator.Word() && evaluator.Closeness(body.Word) <= closeGuessDistance
		req.ack(guessAckPayload{Close: near})
		evaluator.Guess(member, body.Word)
		return nil
	})
}

func (s *Server) handleStartShape(req *request) error {
	var body startShapeRequest
	if err := bindData(req, &body, drawingMessages); err != nil {
		return err
	}
	if err := s.checkCoordPack(body.Coords); err != nil {
		return err
	}
	tool, err := resolveTool(body.Tool)
	if err != nil {
		return err
	}
	return s.withMembership(req.client, func(session *game.Session, member string) error {
		if err := requireDrawer(session, member); err != nil {
			return err
		}
		if err := requireStarted(session); err != nil {
			return err
		}
		session.StartShape(body.Coords, tool)
		req.ack(nil)
		s.emit(session, member, notifyShapeStarted, shapeStartedPayload{Coords: body.Coords, Tool: tool})
		return nil
	})
}

func (s *Server) handlePushCoords(req *request) error {
	var body pushCoordsRequest
	if err := bindData(req, &body, drawingMessages); err != nil {
		return err
	}
	if err := s.checkCoordPack(body.Coords); err != nil {
		return err
	}
	return s.withMembership(req.client, func(session *game.Session, member string) error {
		if err := requireDrawer(session, member); err != nil {
			return err
		}
		if err := requireStarted(session); err != nil {
			return err
		}
		if err := session.PushCoordPack(body.Coords); err != nil {
			return err
		}
		req.ack(nil)
		s.emit(session, member, notifyCoordsPushed, body.Coords)
		return nil
	})
}

// turnListener announces every rotation to the whole session and hands the
// new drawer the secret word. It runs under the session's lock, both for
// rotations caused by requests and for expired deadlines.
func (s *Server) turnListener(session *game.Session) game.TurnListener {
	return func(previous, current string, deadline time.Time) {
		if session.Closed() {
			return
		}
		log.Printf("turn changed session=%s previous=%s current=%s", session.Name(), previous, current)
		d := deadline
		s.events.Record(session.Name(), current, eventTurnChanged, EventPayload{Previous: previous, Current: current, Deadline: &d})
		s.emitAll(session, notifyTurnChanged, turnChangedPayload{
			Previous: previous,
			Current:  current,
			Deadline: deadline,
		})
		if evaluator := session.Evaluator(); evaluator != nil {
			s.emitTo(session, current, notifyWordToDraw, evaluator.Word())
		}
	}
}

// guessListener broadcasts every attempt and rotates the turn on a hit.
func (s *Server) guessListener(session *game.Session) game.GuessListener {
	return func(member, word string, success bool) {
		s.events.Record(session.Name(), member, eventGuessAttempted, EventPayload{Guess: word, Success: success})
		s.emitAll(session, notifyGuessAttempted, guessAttemptedPayload{
			Name:    member,
			Word:    word,
			Success: success,
		})
		if success {
			if scheduler := session.Scheduler(); scheduler != nil && scheduler.Running() {
				scheduler.ScheduleNext()
			}
		}
	}
}
