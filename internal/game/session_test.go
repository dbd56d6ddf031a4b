package game

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDefaults() Defaults {
	d := DefaultSettings()
	d.TurnDuration = time.Hour
	return d
}

func newTestSession(t *testing.T, members ...string) *Session {
	t.Helper()
	s, err := NewSession("room1", nil, testDefaults())
	require.NoError(t, err)
	for _, m := range members {
		_, err := s.AddMember(m)
		require.NoError(t, err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestSessionFirstJoinerOwns(t *testing.T) {
	s := newTestSession(t)
	assert.Empty(t, s.Owner())

	member, err := s.AddMember("alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", s.Owner())
	assert.Equal(t, Pencil(), member.CurrentTool)
	assert.False(t, member.CanDraw)

	_, err = s.AddMember("bob")
	require.NoError(t, err)
	assert.Equal(t, "alice", s.Owner())
	assert.Equal(t, []string{"alice", "bob"}, s.MemberNames())

	_, err = s.AddMember("bob")
	assert.ErrorIs(t, err, ErrUserAlreadyInRoom)
}

func TestSessionColorsAreUnique(t *testing.T) {
	s := newTestSession(t)
	seen := map[string]bool{}
	for _, name := range []string{"m1", "m2", "m3", "m4", "m5", "m6", "m7", "m8", "m9"} {
		member, err := s.AddMember(name)
		require.NoError(t, err)
		assert.False(t, seen[member.Color], "color %s handed out twice", member.Color)
		seen[member.Color] = true
	}
	_, err := s.AddMember("m10")
	assert.ErrorIs(t, err, ErrRoomAlreadyFull)

	_, err = s.RemoveMember("m3")
	require.NoError(t, err)
	member, err := s.AddMember("m10")
	require.NoError(t, err)
	assert.NotEmpty(t, member.Color)
}

func TestSessionMaxMembersSetting(t *testing.T) {
	s, err := NewSession("room1", Settings{SettingMaxMembers: float64(2)}, testDefaults())
	require.NoError(t, err)
	_, err = s.AddMember("alice")
	require.NoError(t, err)
	_, err = s.AddMember("bob")
	require.NoError(t, err)
	_, err = s.AddMember("carol")
	assert.ErrorIs(t, err, ErrRoomAlreadyFull)

	err = s.UpdateSettings(Settings{SettingMaxMembers: 1})
	assert.ErrorIs(t, err, ErrIllegalOperation)
	assert.Equal(t, 2, s.MaxMembers())

	require.NoError(t, s.UpdateSettings(Settings{SettingMaxMembers: json.Number("3"), "theme": "dark"}))
	assert.Equal(t, 3, s.MaxMembers())
	assert.Equal(t, "dark", s.Settings()["theme"])
}

func TestSessionSettingsValidation(t *testing.T) {
	for name, settings := range map[string]Settings{
		"string":   {SettingMaxMembers: "five"},
		"fraction": {SettingMaxMembers: 2.5},
		"zero":     {SettingMaxMembers: 0},
		"too many": {SettingMaxMembers: 10},
		"negative": {SettingPointsForSuccess: -5},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewSession("room1", settings, testDefaults())
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestSessionRemoveMemberPassesOwnership(t *testing.T) {
	s := newTestSession(t, "alice", "bob")

	removal, err := s.RemoveMember("alice")
	require.NoError(t, err)
	assert.True(t, removal.OwnerChanged)
	assert.Equal(t, "bob", removal.NewOwner)
	assert.Equal(t, "bob", s.Owner())
	assert.False(t, removal.Empty)

	removal, err = s.RemoveMember("bob")
	require.NoError(t, err)
	assert.True(t, removal.Empty)
	assert.Empty(t, s.Owner())

	_, err = s.RemoveMember("bob")
	assert.ErrorIs(t, err, ErrUserNotInRoom)
}

func TestSessionSetOwner(t *testing.T) {
	s := newTestSession(t, "alice", "bob")
	require.NoError(t, s.SetOwner("bob"))
	assert.Equal(t, "bob", s.Owner())
	assert.ErrorIs(t, s.SetOwner("zed"), ErrUserNotInRoom)
}

func TestSessionStartGame(t *testing.T) {
	s := newTestSession(t, "alice", "bob", "carol")
	var turns []string
	require.NoError(t, s.StartGame(cyclingWords("cat", "dog"), func(_, current string, _ time.Time) {
		turns = append(turns, current)
	}, nil))

	assert.True(t, s.HasGameStarted())
	assert.Equal(t, "alice", s.CurrentlyDrawing())
	assert.False(t, s.DrawingEndTime().IsZero())
	assert.Equal(t, []string{"alice"}, turns)
	alice, _ := s.MemberData("alice")
	assert.True(t, alice.CanDraw)

	assert.ErrorIs(t, s.StartGame(cyclingWords("cat"), nil, nil), ErrGameAlreadyStarted)

	s.StartShape([]Coord{{1, 1}, {2, 2}}, Eraser())
	assert.Equal(t, 2, s.Canvas().Size())
	alice, _ = s.MemberData("alice")
	assert.Equal(t, Eraser(), alice.CurrentTool)

	s.Scheduler().ScheduleNext()
	assert.Equal(t, "bob", s.CurrentlyDrawing())
	assert.Equal(t, 0, s.Canvas().Size())
	alice, _ = s.MemberData("alice")
	bob, _ := s.MemberData("bob")
	assert.False(t, alice.CanDraw)
	assert.True(t, bob.CanDraw)
}

func TestSessionScoring(t *testing.T) {
	s := newTestSession(t, "alice", "bob")
	require.NoError(t, s.StartGame(cyclingWords("cat", "dog"), nil, nil))

	assert.False(t, s.Evaluator().Guess("bob", "cow"))
	bob, _ := s.MemberData("bob")
	assert.Equal(t, -1, bob.Score)

	assert.True(t, s.Evaluator().Guess("bob", "cat"))
	bob, _ = s.MemberData("bob")
	assert.Equal(t, 99, bob.Score)
	assert.Equal(t, "dog", s.Evaluator().Word())
}

func TestSessionGameEndsWhenTooFewMembers(t *testing.T) {
	s := newTestSession(t, "alice", "bob")
	require.NoError(t, s.StartGame(cyclingWords("cat"), nil, nil))

	removal, err := s.RemoveMember("alice")
	require.NoError(t, err)
	assert.True(t, removal.GameEnded)
	assert.False(t, s.HasGameStarted())
	assert.Empty(t, s.CurrentlyDrawing())
	assert.Nil(t, s.Scheduler())
	assert.Nil(t, s.Evaluator())

	_, err = s.AddMember("carol")
	require.NoError(t, err)
	require.NoError(t, s.StartGame(cyclingWords("cat"), nil, nil))
	assert.Equal(t, "bob", s.CurrentlyDrawing())
}

func TestSessionDrawerLeavingRotates(t *testing.T) {
	s := newTestSession(t, "alice", "bob", "carol")
	require.NoError(t, s.StartGame(cyclingWords("cat"), nil, nil))

	removal, err := s.RemoveMember("alice")
	require.NoError(t, err)
	assert.False(t, removal.GameEnded)
	assert.Equal(t, "bob", s.CurrentlyDrawing())
}

func TestSessionJoinDuringGameQueues(t *testing.T) {
	s := newTestSession(t, "alice", "bob")
	require.NoError(t, s.StartGame(cyclingWords("cat"), nil, nil))

	_, err := s.AddMember("carol")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "alice", "carol"}, s.Scheduler().Queue())
}

func TestSessionSnapshot(t *testing.T) {
	s := newTestSession(t, "alice", "bob")
	snap := s.Snapshot()
	assert.Equal(t, "room1", snap.Name)
	assert.Equal(t, "alice", snap.Owner)
	require.Len(t, snap.Members, 2)
	assert.Equal(t, "bob", snap.Members[1].Name)
	assert.Nil(t, snap.DrawingEndTime)
	assert.Empty(t, snap.Drawing)

	require.NoError(t, s.StartGame(cyclingWords("secretword"), nil, nil))
	raw, err := json.Marshal(s.Snapshot())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secretword")
	assert.Contains(t, string(raw), `"currentlyDrawingUser":"alice"`)

	summary := s.Summary()
	assert.Equal(t, 2, summary.Members)
	assert.True(t, summary.HasGameStarted)
}
