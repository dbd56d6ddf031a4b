package server

import "encoding/json"

// Requests a client may send.
const (
	requestListSessions   = "list-sessions"
	requestGetSession     = "get-session"
	requestCreateSession  = "create-session"
	requestJoinSession    = "join-session"
	requestLeaveSession   = "leave-session"
	requestKickMember     = "kick-member"
	requestChangeOwner    = "change-owner"
	requestUpdateSettings = "update-settings"
	requestStartGame      = "start-game"
	requestGuessWord      = "guess-word"
	requestStartShape     = "start-shape"
	requestPushCoords     = "push-coords"
)

// Notifications the server pushes.
const (
	notifySessionCreated  = "session-created"
	notifyMemberJoined    = "member-joined"
	notifyMemberLeft      = "member-left"
	notifyOwnerChanged    = "owner-changed"
	notifyMemberKicked    = "member-kicked"
	notifyKicked          = "kicked"
	notifySettingsUpdated = "settings-updated"
	notifyGameStarted     = "game-started"
	notifyGameEnded       = "game-ended"
	notifyTurnChanged     = "turn-changed"
	notifyGuessAttempted  = "guess-attempted"
	notifyShapeStarted    = "shape-started"
	notifyCoordsPushed    = "coords-pushed"
	notifyWordToDraw      = "word-to-draw"
)

const frameResponse = "response"

type inboundFrame struct {
	ID   int             `json:"id"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type responseFrame struct {
	ID      int    `json:"id"`
	Type    string `json:"type"`
	Success bool   `json:"success"`
	Data    any    `json:"data"`
}

type notificationFrame struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

func notification(name string, data any) notificationFrame {
	return notificationFrame{Type: name, Data: data}
}
