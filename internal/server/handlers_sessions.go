package server

import (
	"log"

	"draw-guess/internal/game"
)

func (s *Server) handleListSessionsWS(req *request) error {
	var body listSessionsRequest
	if err := bindData(req, &body, listMessages); err != nil {
		return err
	}
	req.ack(s.sessions.List(*body.PageSize, *body.PageIndex))
	return nil
}

func (s *Server) handleGetSessionWS(req *request) error {
	var body sessionNameRequest
	if err := bindData(req, &body, nameMessages); err != nil {
		return err
	}
	return s.withSession(body.Name, func(session *game.Session) error {
		req.ack(session.Snapshot())
		return nil
	})
}

// handleCreateSession registers an empty session. The creator is not joined;
// whoever joins first becomes owner.
func (s *Server) handleCreateSession(req *request) error {
	var body createSessionRequest
	if err := bindData(req, &body, nameMessages); err != nil {
		return err
	}
	if err := s.requireUnbound(req.client); err != nil {
		return err
	}
	session, err := s.sessions.Create(body.Name, body.Settings)
	if err != nil {
		return err
	}
	session.Lock()
	defer session.Unlock()
	summary := session.Summary()
	log.Printf("session created session=%s conn=%s", session.Name(), req.client.id)
	s.events.Record(session.Name(), "", eventSessionCreated, EventPayload{Settings: body.Settings})
	req.ack(nil)
	s.hub.BroadcastAll(req.client.id, notification(notifySessionCreated, summary))
	return nil
}

func (s *Server) handleJoinSession(req *request) error {
	var body joinSessionRequest
	if err := bindData(req, &body, nameMessages); err != nil {
		return err
	}
	if err := s.requireUnbound(req.client); err != nil {
		return err
	}
	return s.withSession(body.Name, func(session *game.Session) error {
		member, err := session.AddMember(body.DisplayName)
		if err != nil {
			return err
		}
		if err := s.registry.Bind(req.client.id, session.Name(), member.Name); err != nil {
			_, _ = session.RemoveMember(member.Name)
			return err
		}
		log.Printf("member joined session=%s member=%s conn=%s", session.Name(), member.Name, req.client.id)
		s.events.Record(session.Name(), member.Name, eventMemberJoined, EventPayload{Owner: session.Owner()})
		req.ack(session.Snapshot())
		s.emit(session, member.Name, notifyMemberJoined, member)
		return nil
	})
}

func (s *Server) handleLeaveSession(req *request) error {
	if err := bindData(req, &emptyRequest{}, nil); err != nil {
		return err
	}
	return s.withMembership(req.client, func(session *game.Session, member string) error {
		req.ack(nil)
		return s.removeMember(session, member, req.client.id, "left", member)
	})
}

func (s *Server) handleKickMember(req *request) error {
	var body kickMemberRequest
	if err := bindData(req, &body, nameMessages); err != nil {
		return err
	}
	return s.withMembership(req.client, func(session *game.Session, member string) error {
		if err := requireOwner(session, member); err != nil {
			return err
		}
		if body.TargetName == member {
			return game.Errorf(game.KindIllegalOperation, "User %q cannot kick themselves from room %q.", member, session.Name())
		}
		if !session.IsMember(body.TargetName) {
			return game.Errorf(game.KindUserNotInRoom, "User %q is not a member of the room %q.", body.TargetName, session.Name())
		}
		conn, _ := s.registry.ConnectionOf(session.Name(), body.TargetName)
		req.ack(nil)
		if conn != "" {
			s.hub.Send(conn, notification(notifyKicked, map[string]string{
				"name": session.Name(),
				"by":   member,
			}))
		}
		s.events.Record(session.Name(), body.TargetName, eventMemberKicked, EventPayload{Owner: member})
		return s.removeMember(session, body.TargetName, conn, "kicked", member)
	})
}

func (s *Server) handleChangeOwner(req *request) error {
	var body changeOwnerRequest
	if err := bindData(req, &body, nameMessages); err != nil {
		return err
	}
	return s.withMembership(req.client, func(session *game.Session, member string) error {
		if err := requireOwner(session, member); err != nil {
			return err
		}
		if err := session.SetOwner(body.NewOwnerName); err != nil {
			return err
		}
		log.Printf("owner changed session=%s from=%s to=%s", session.Name(), member, body.NewOwnerName)
		s.events.Record(session.Name(), member, eventOwnerChanged, EventPayload{Owner: body.NewOwnerName})
		req.ack(nil)
		s.emit(session, member, notifyOwnerChanged, body.NewOwnerName)
		return nil
	})
}

func (s *Server) handleUpdateSettings(req *request) error {
	var body updateSettingsRequest
	if err := bindData(req, &body, settingsMessages); err != nil {
		return err
	}
	return s.withMembership(req.client, func(session *game.Session, member string) error {
		if err := requireOwner(session, member); err != nil {
			return err
		}
		if err := session.UpdateSettings(body.Settings); err != nil {
			return err
		}
		settings := session.Settings()
		log.Printf("settings updated session=%s member=%s max_members=%d", session.Name(), member, session.MaxMembers())
		s.events.Record(session.Name(), member, eventSettingsUpdated, EventPayload{Settings: settings})
		req.ack(nil)
		s.emit(session, member, notifySettingsUpdated, settings)
		return nil
	})
}

// disconnect treats a closed connection like a leave request.
func (s *Server) disconnect(client *wsClient) {
	err := s.withMembership(client, func(session *game.Session, member string) error {
		return s.removeMember(session, member, client.id, "disconnected", member)
	})
	if err != nil && !game.IsKind(err, game.KindConnectionNotInSession) {
		log.Printf("disconnect cleanup failed conn=%s error=%v", client.id, err)
	}
}

// removeMember takes member out of the session and tells everyone but actor.
// The last member out removes the session from the directory.
func (s *Server) removeMember(session *game.Session, member, conn, reason, actor string) error {
	removal, err := session.RemoveMember(member)
	if err != nil {
		return err
	}
	if conn != "" {
		s.registry.Unbind(conn)
	}
	log.Printf("member removed session=%s member=%s reason=%s", session.Name(), member, reason)
	s.events.Record(session.Name(), member, eventMemberLeft, EventPayload{Reason: reason})

	if reason == "kicked" {
		s.emit(session, actor, notifyMemberKicked, member)
	} else {
		s.emit(session, actor, notifyMemberLeft, member)
	}
	if removal.OwnerChanged && !removal.Empty {
		s.events.Record(session.Name(), removal.NewOwner, eventOwnerChanged, EventPayload{Owner: removal.NewOwner, Reason: reason})
		s.emitAll(session, notifyOwnerChanged, removal.NewOwner)
	}
	if removal.GameEnded {
		log.Printf("game ended session=%s reason=not_enough_members", session.Name())
		s.events.Record(session.Name(), "", eventGameEnded, EventPayload{Reason: "not_enough_members"})
		s.emitAll(session, notifyGameEnded, nil)
	}
	if removal.Empty {
		return s.sessions.Remove(session.Name())
	}
	return nil
}
