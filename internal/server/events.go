package server

import "time"

// Event types written to the activity log.
const (
	eventSessionCreated  = "session_created"
	eventMemberJoined    = "member_joined"
	eventMemberLeft      = "member_left"
	eventMemberKicked    = "member_kicked"
	eventOwnerChanged    = "owner_changed"
	eventSettingsUpdated = "settings_updated"
	eventGameStarted     = "game_started"
	eventGameEnded       = "game_ended"
	eventTurnChanged     = "turn_changed"
	eventGuessAttempted  = "guess_attempted"
	eventSessionRemoved  = "session_removed"
)

type EventPayload struct {
	Owner    string         `json:"owner,omitempty"`
	Target   string         `json:"target,omitempty"`
	Previous string         `json:"previous,omitempty"`
	Current  string         `json:"current,omitempty"`
	Deadline *time.Time     `json:"deadline,omitempty"`
	Guess    string         `json:"guess,omitempty"`
	Success  bool           `json:"success,omitempty"`
	Settings map[string]any `json:"settings,omitempty"`
	Reason   string         `json:"reason,omitempty"`
}
