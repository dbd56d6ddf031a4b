package game

import (
	"encoding/json"
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

const (
	DefaultMaxMembers       = 9
	DefaultPointsForSuccess = 100
	DefaultPointsForFailure = 1
)

// Recognised keys of the settings bag. Anything else is stored and echoed
// back untouched.
const (
	SettingMaxMembers       = "maxMembersCount"
	SettingPointsForSuccess = "pointsForSuccessfulGuess"
	SettingPointsForFailure = "pointsForUnsuccessfulGuess"
)

type Settings map[string]any

// Defaults are applied where a session's settings do not override them.
type Defaults struct {
	MaxMembers       int
	PointsForSuccess int
	PointsForFailure int
	CanvasPoints     int
	TurnDuration     time.Duration
}

func DefaultSettings() Defaults {
	return Defaults{
		MaxMembers:       DefaultMaxMembers,
		PointsForSuccess: DefaultPointsForSuccess,
		PointsForFailure: DefaultPointsForFailure,
		CanvasPoints:     DefaultCanvasPoints,
		TurnDuration:     DefaultTurnDuration,
	}
}

type MemberState struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	CanDraw     bool   `json:"canDraw"`
	Score       int    `json:"score"`
	CurrentTool Tool   `json:"currentTool"`
}

// Removal describes the side effects of taking a member out of a session.
type Removal struct {
	OwnerChanged bool
	NewOwner     string
	GameEnded    bool
	Empty        bool
}

// Session is one game room. Its mutex is the serialisation domain for the
// session and for the scheduler and evaluator it owns: every exported method
// other than Lock and Unlock expects the caller to hold it.
type Session struct {
	mu sync.Mutex

	name      string
	seq       uint64
	createdAt time.Time
	defaults  Defaults

	owner   string
	order   []string
	members map[string]*MemberState
	colors  map[string]Color
	unused  *Palette

	settings      Settings
	maxMembers    int
	pointsSuccess int
	pointsFailure int

	started    bool
	drawing    string
	drawingEnd time.Time
	canvas     *Buffer

	scheduler *Scheduler
	guesses   *GuessEvaluator
	closed    bool
}

func NewSession(name string, settings Settings, defaults Defaults) (*Session, error) {
	if defaults.MaxMembers <= 0 || defaults.MaxMembers > MainColors.Len() {
		defaults.MaxMembers = DefaultMaxMembers
	}
	s := &Session{
		name:      name,
		createdAt: time.Now().UTC(),
		defaults:  defaults,
		members:   make(map[string]*MemberState),
		colors:    make(map[string]Color),
		unused:    MainColors.Clone(),
		canvas:    NewBuffer(defaults.CanvasPoints),
	}
	if err := s.applySettings(settings); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) Lock() {
	s.mu.Lock()
}

func (s *Session) Unlock() {
	s.mu.Unlock()
}

func (s *Session) Name() string {
	return s.name
}

func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Session) Owner() string {
	return s.owner
}

func (s *Session) HasGameStarted() bool {
	return s.started
}

func (s *Session) CurrentlyDrawing() string {
	return s.drawing
}

func (s *Session) DrawingEndTime() time.Time {
	return s.drawingEnd
}

func (s *Session) Closed() bool {
	return s.closed
}

func (s *Session) Scheduler() *Scheduler {
	return s.scheduler
}

func (s *Session) Evaluator() *GuessEvaluator {
	return s.guesses
}

func (s *Session) Canvas() *Buffer {
	return s.canvas
}

func (s *Session) MaxMembers() int {
	return s.maxMembers
}

func (s *Session) Settings() Settings {
	out := make(Settings, len(s.settings))
	for k, v := range s.settings {
		out[k] = v
	}
	return out
}

func (s *Session) IsMember(name string) bool {
	_, ok := s.members[name]
	return ok
}

// MemberNames lists members in join order.
func (s *Session) MemberNames() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Session) MemberData(name string) (MemberState, error) {
	member, ok := s.members[name]
	if !ok {
		return MemberState{}, s.notInRoom(name)
	}
	return *member, nil
}

func (s *Session) AddMember(name string) (MemberState, error) {
	if _, ok := s.members[name]; ok {
		return MemberState{}, newError(KindUserAlreadyInRoom,
			"User %q is already a member of the room %q.", name, s.name)
	}
	if len(s.order) >= s.maxMembers {
		return MemberState{}, newError(KindRoomAlreadyFull, "Room %q is already full.", s.name)
	}
	color, ok := s.unused.RandomColor()
	if !ok {
		return MemberState{}, newError(KindRoomAlreadyFull, "Room %q has no free colors left.", s.name)
	}
	s.unused.Remove(color.Hex)
	s.colors[name] = color

	member := &MemberState{
		Name:        name,
		Color:       color.Hex,
		CurrentTool: Pencil(),
	}
	s.members[name] = member
	s.order = append(s.order, name)
	if s.scheduler != nil {
		s.scheduler.AddUser(name)
	}
	if s.owner == "" {
		s.owner = name
	}
	return *member, nil
}

func (s *Session) RemoveMember(name string) (Removal, error) {
	if _, ok := s.members[name]; !ok {
		return Removal{}, s.notInRoom(name)
	}
	var result Removal

	s.unused.Add(s.colors[name])
	delete(s.colors, name)
	delete(s.members, name)
	kept := s.order[:0]
	for _, member := range s.order {
		if member != name {
			kept = append(kept, member)
		}
	}
	s.order = kept

	if name == s.owner {
		s.owner = ""
		if len(s.order) > 0 {
			s.owner = s.order[rand.IntN(len(s.order))]
		}
		result.OwnerChanged = true
		result.NewOwner = s.owner
	}

	if s.scheduler != nil {
		s.scheduler.RemoveUser(name)
		if !s.scheduler.Running() {
			s.endGame()
			result.GameEnded = true
		}
	}
	result.Empty = len(s.order) == 0
	return result, nil
}

func (s *Session) SetOwner(name string) error {
	if _, ok := s.members[name]; !ok {
		return s.notInRoom(name)
	}
	s.owner = name
	return nil
}

func (s *Session) UpdateSettings(settings Settings) error {
	return s.applySettings(settings)
}

// StartGame builds the scheduler and evaluator, wires the session's own
// listeners ahead of the extra ones supplied by the caller and hands the
// first turn out.
func (s *Session) StartGame(words WordSource, onTurn TurnListener, onGuess GuessListener) error {
	if s.started {
		return newError(KindGameAlreadyStarted, "Game in room %q has already started.", s.name)
	}
	scheduler := NewScheduler(s, s.order, s.defaults.TurnDuration)
	scheduler.OnTurnChange(s.turnChanged)
	if onTurn != nil {
		scheduler.OnTurnChange(onTurn)
	}
	guesses := NewGuessEvaluator(words)
	guesses.OnGuess(s.guessed)
	if onGuess != nil {
		guesses.OnGuess(onGuess)
	}

	s.scheduler = scheduler
	s.guesses = guesses
	if err := scheduler.Start(); err != nil {
		s.scheduler = nil
		s.guesses = nil
		return err
	}
	s.started = true
	return nil
}

func (s *Session) StartShape(coords []Coord, tool Tool) {
	for i, c := range coords {
		if i == 0 {
			s.canvas.AddShape(c, tool)
			continue
		}
		_ = s.canvas.PushCoord(c)
	}
	if member, ok := s.members[s.drawing]; ok && len(coords) > 0 {
		member.CurrentTool = tool
	}
}

func (s *Session) PushCoordPack(coords []Coord) error {
	for _, c := range coords {
		if err := s.canvas.PushCoord(c); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) ClearDrawing() {
	s.canvas.Clear()
}

// Close stops the scheduler. Handlers that still hold a pointer to a closed
// session treat it as gone.
func (s *Session) Close() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	s.closed = true
}

type Snapshot struct {
	Name                 string        `json:"name"`
	Owner                string        `json:"owner"`
	Members              []MemberState `json:"members"`
	Settings             Settings      `json:"settings"`
	CreatedAt            time.Time     `json:"createdAt"`
	HasGameStarted       bool          `json:"hasGameStarted"`
	CurrentlyDrawingUser string        `json:"currentlyDrawingUser"`
	DrawingEndTime       *time.Time    `json:"drawingEndTime"`
	Drawing              []Shape       `json:"drawing"`
}

// Snapshot is the wire view of the session. It never carries the secret word.
func (s *Session) Snapshot() Snapshot {
	members := make([]MemberState, 0, len(s.order))
	for _, name := range s.order {
		members = append(members, *s.members[name])
	}
	snap := Snapshot{
		Name:                 s.name,
		Owner:                s.owner,
		Members:              members,
		Settings:             s.Settings(),
		CreatedAt:            s.createdAt,
		HasGameStarted:       s.started,
		CurrentlyDrawingUser: s.drawing,
		Drawing:              s.canvas.Shapes(),
	}
	if !s.drawingEnd.IsZero() {
		end := s.drawingEnd
		snap.DrawingEndTime = &end
	}
	return snap
}

type Summary struct {
	Name           string    `json:"name"`
	Owner          string    `json:"owner"`
	Members        int       `json:"members"`
	MaxMembers     int       `json:"maxMembersCount"`
	CreatedAt      time.Time `json:"createdAt"`
	HasGameStarted bool      `json:"hasGameStarted"`
}

func (s *Session) Summary() Summary {
	return Summary{
		Name:           s.name,
		Owner:          s.owner,
		Members:        len(s.order),
		MaxMembers:     s.maxMembers,
		CreatedAt:      s.createdAt,
		HasGameStarted: s.started,
	}
}

func (s *Session) turnChanged(previous, current string, deadline time.Time) {
	if member, ok := s.members[previous]; ok {
		member.CanDraw = false
	}
	if member, ok := s.members[current]; ok {
		member.CanDraw = true
	}
	s.drawing = current
	s.drawingEnd = deadline
	s.canvas.Clear()
}

func (s *Session) guessed(name, _ string, success bool) {
	member, ok := s.members[name]
	if !ok {
		return
	}
	if success {
		member.Score += s.pointsSuccess
	} else {
		member.Score -= s.pointsFailure
	}
}

// endGame drops the scheduler and evaluator once too few members remain to
// take turns, which lets the owner start a fresh game later.
func (s *Session) endGame() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	if member, ok := s.members[s.drawing]; ok {
		member.CanDraw = false
	}
	s.scheduler = nil
	s.guesses = nil
	s.started = false
	s.drawing = ""
	s.drawingEnd = time.Time{}
	s.canvas.Clear()
}

func (s *Session) applySettings(settings Settings) error {
	maxMembers := s.defaults.MaxMembers
	pointsSuccess := s.defaults.PointsForSuccess
	pointsFailure := s.defaults.PointsForFailure

	if raw, ok := settings[SettingMaxMembers]; ok {
		value, ok := settingInt(raw)
		if !ok || value < 1 || value > MainColors.Len() {
			return newError(KindValidation, "%s must be an integer between 1 and %d.", SettingMaxMembers, MainColors.Len())
		}
		maxMembers = value
	}
	if raw, ok := settings[SettingPointsForSuccess]; ok {
		value, ok := settingInt(raw)
		if !ok || value < 0 {
			return newError(KindValidation, "%s must be a non-negative integer.", SettingPointsForSuccess)
		}
		pointsSuccess = value
	}
	if raw, ok := settings[SettingPointsForFailure]; ok {
		value, ok := settingInt(raw)
		if !ok || value < 0 {
			return newError(KindValidation, "%s must be a non-negative integer.", SettingPointsForFailure)
		}
		pointsFailure = value
	}
	if maxMembers < len(s.order) {
		return newError(KindIllegalOperation,
			"Room %q already has %d members; %s cannot be lowered to %d.", s.name, len(s.order), SettingMaxMembers, maxMembers)
	}

	stored := make(Settings, len(settings))
	for k, v := range settings {
		stored[k] = v
	}
	s.settings = stored
	s.maxMembers = maxMembers
	s.pointsSuccess = pointsSuccess
	s.pointsFailure = pointsFailure
	return nil
}

func (s *Session) notInRoom(name string) error {
	return newError(KindUserNotInRoom, "User %q is not a member of the room %q.", name, s.name)
}

func settingInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
