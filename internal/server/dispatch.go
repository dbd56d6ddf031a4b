package server

import (
	"errors"
	"log"

	"draw-guess/internal/game"
)

type handlerFunc func(s *Server, req *request) error

var handlers = map[string]handlerFunc{
	requestListSessions:   (*Server).handleListSessionsWS,
	requestGetSession:     (*Server).handleGetSessionWS,
	requestCreateSession:  (*Server).handleCreateSession,
	requestJoinSession:    (*Server).handleJoinSession,
	requestLeaveSession:   (*Server).handleLeaveSession,
	requestKickMember:     (*Server).handleKickMember,
	requestChangeOwner:    (*Server).handleChangeOwner,
	requestUpdateSettings: (*Server).handleUpdateSettings,
	requestStartGame:      (*Server).handleStartGame,
	requestGuessWord:      (*Server).handleGuessWord,
	requestStartShape:     (*Server).handleStartShape,
	requestPushCoords:     (*Server).handlePushCoords,
}

// request is one inbound frame being handled. A handler acknowledges it at
// most once; the dispatcher acknowledges on the handler's behalf when it
// returns without having replied.
type request struct {
	id      int
	kind    string
	frame   inboundFrame
	client  *wsClient
	replied bool
}

func (r *request) ack(payload any) {
	if r.replied {
		return
	}
	r.replied = true
	r.client.sendJSON(responseFrame{
		ID:      r.id,
		Type:    frameResponse,
		Success: true,
		Data:    payload,
	})
}

func (r *request) fail(err error) {
	if r.replied {
		return
	}
	r.replied = true
	r.client.sendJSON(responseFrame{
		ID:      r.id,
		Type:    frameResponse,
		Success: false,
		Data:    asDomainError(err),
	})
}

func (s *Server) dispatch(client *wsClient, frame inboundFrame) {
	req := &request{
		id:     frame.ID,
		kind:   frame.Type,
		frame:  frame,
		client: client,
	}
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("ws request panicked conn=%s type=%s error=%v", client.id, frame.Type, rec)
			req.fail(game.Errorf(game.KindInternal, "Request %q failed.", frame.Type))
		}
	}()

	if !client.limiter.Allow() {
		req.fail(game.Errorf(game.KindRateLimited, "Too many requests."))
		return
	}
	handler, ok := handlers[frame.Type]
	if !ok {
		req.fail(game.Errorf(game.KindValidation, "Unknown request type %q.", frame.Type))
		return
	}
	if err := handler(s, req); err != nil {
		if req.replied {
			log.Printf("ws request failed after reply conn=%s type=%s error=%v", client.id, frame.Type, err)
			return
		}
		req.fail(err)
		return
	}
	req.ack(nil)
}

// asDomainError maps anything that is not already a domain error to an
// opaque internal error.
func asDomainError(err error) *game.Error {
	var domainErr *game.Error
	if errors.As(err, &domainErr) {
		return domainErr
	}
	log.Printf("unexpected error=%v", err)
	return game.Errorf(game.KindInternal, "Internal error.")
}
