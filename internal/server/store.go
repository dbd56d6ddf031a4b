package server

import (
	"draw-guess/internal/game"
)

// withSession runs fn while holding the named session's lock. A session that
// was removed between lookup and locking is reported as not found.
func (s *Server) withSession(name string, fn func(session *game.Session) error) error {
	session, err := s.sessions.Get(name)
	if err != nil {
		return err
	}
	session.Lock()
	defer session.Unlock()
	if session.Closed() {
		return game.Errorf(game.KindRoomNotFound, "Room %q not found.", name)
	}
	return fn(session)
}

// withMembership resolves the session the connection is joined to and runs fn
// under that session's lock. The binding is checked again once the lock is
// held because a kick may have removed it in the meantime.
func (s *Server) withMembership(client *wsClient, fn func(session *game.Session, member string) error) error {
	binding, err := s.registry.Lookup(client.id)
	if err != nil {
		return err
	}
	err = s.withSession(binding.Session, func(session *game.Session) error {
		current, err := s.registry.Lookup(client.id)
		if err != nil {
			return err
		}
		if current != binding || !session.IsMember(binding.Member) {
			return game.Errorf(game.KindConnectionNotInSession, "Connection %q does not belong to any room.", client.id)
		}
		return fn(session, binding.Member)
	})
	if game.IsKind(err, game.KindRoomNotFound) {
		return game.Errorf(game.KindConnectionNotInSession, "Connection %q does not belong to any room.", client.id)
	}
	return err
}

// requireUnbound fails for a connection that already belongs to a room.
func (s *Server) requireUnbound(client *wsClient) error {
	if existing, err := s.registry.Lookup(client.id); err == nil {
		return game.Errorf(game.KindConnectionAlreadyInSession,
			"Connection %s is already associated with user %q in room %q.", client.id, existing.Member, existing.Session)
	}
	return nil
}

func requireOwner(session *game.Session, member string) error {
	if session.Owner() != member {
		return game.Errorf(game.KindUserNotPermitted, "User %q is not an owner of room %q.", member, session.Name())
	}
	return nil
}

func requireDrawer(session *game.Session, member string) error {
	if session.CurrentlyDrawing() != member {
		return game.Errorf(game.KindUserNotPermitted, "User %q is not drawing in room %q.", member, session.Name())
	}
	return nil
}

func requireStarted(session *game.Session) error {
	if !session.HasGameStarted() {
		return game.Errorf(game.KindGameNotStarted, "Game in room %q has not started.", session.Name())
	}
	return nil
}
