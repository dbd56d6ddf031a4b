package server

import (
	"draw-guess/internal/game"
)

// The helpers below are called with the session's lock held, which keeps
// each recipient's view of a session in order.

// emit notifies every member of the session except the named one.
func (s *Server) emit(session *game.Session, except, name string, data any) {
	members := session.MemberNames()
	ids := make([]string, 0, len(members))
	for _, member := range members {
		if member == except {
			continue
		}
		if conn, ok := s.registry.ConnectionOf(session.Name(), member); ok {
			ids = append(ids, conn)
		}
	}
	s.hub.Broadcast(ids, notification(name, data))
}

// emitAll notifies every member of the session.
func (s *Server) emitAll(session *game.Session, name string, data any) {
	s.emit(session, "", name, data)
}

// emitTo notifies a single member.
func (s *Server) emitTo(session *game.Session, member, name string, data any) {
	if conn, ok := s.registry.ConnectionOf(session.Name(), member); ok {
		s.hub.Send(conn, notification(name, data))
	}
}
