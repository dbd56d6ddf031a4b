package game

import (
	"sort"
	"sync"
)

// Directory is the set of live sessions keyed by name. Its lock is always
// taken after a session's lock, never before.
type Directory struct {
	mu       sync.Mutex
	defaults Defaults
	sessions map[string]*Session
	seq      uint64
	onRemove []func(*Session)
}

func NewDirectory(defaults Defaults) *Directory {
	return &Directory{
		defaults: defaults,
		sessions: make(map[string]*Session),
	}
}

func (d *Directory) Defaults() Defaults {
	return d.defaults
}

// OnRemove registers a callback run after a session leaves the directory.
func (d *Directory) OnRemove(fn func(*Session)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onRemove = append(d.onRemove, fn)
}

func (d *Directory) Create(name string, settings Settings) (*Session, error) {
	session, err := NewSession(name, settings, d.defaults)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.sessions[name]; ok {
		return nil, newError(KindRoomAlreadyExists, "Room %q already exists.", name)
	}
	d.seq++
	session.seq = d.seq
	d.sessions[name] = session
	return session, nil
}

func (d *Directory) Get(name string) (*Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	session, ok := d.sessions[name]
	if !ok {
		return nil, newError(KindRoomNotFound, "Room %q not found.", name)
	}
	return session, nil
}

func (d *Directory) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sessions)
}

// List pages through sessions newest first. Out-of-range pages are empty.
func (d *Directory) List(pageSize, pageIndex int) []Summary {
	d.mu.Lock()
	sessions := make([]*Session, 0, len(d.sessions))
	for _, session := range d.sessions {
		sessions = append(sessions, session)
	}
	d.mu.Unlock()

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].seq > sessions[j].seq
	})
	if pageSize <= 0 || pageIndex < 0 {
		return []Summary{}
	}
	// Compared by division so huge sizes or indexes cannot overflow.
	if pageIndex > 0 && pageSize > (len(sessions)-1)/pageIndex {
		return []Summary{}
	}
	start := pageSize * pageIndex
	if start >= len(sessions) {
		return []Summary{}
	}
	end := start + min(pageSize, len(sessions)-start)

	out := make([]Summary, 0, end-start)
	for _, session := range sessions[start:end] {
		session.Lock()
		if !session.closed {
			out = append(out, session.Summary())
		}
		session.Unlock()
	}
	return out
}

// Remove notifies removal listeners and drops the named session. The caller
// holds that session's lock, so the session is closed before anyone else can
// observe it.
func (d *Directory) Remove(name string) error {
	d.mu.Lock()
	session, ok := d.sessions[name]
	if !ok {
		d.mu.Unlock()
		return newError(KindRoomNotFound, "Room %q not found.", name)
	}
	delete(d.sessions, name)
	listeners := append([]func(*Session){}, d.onRemove...)
	d.mu.Unlock()

	session.Close()
	for _, fn := range listeners {
		fn(session)
	}
	return nil
}
