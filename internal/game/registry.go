package game

import (
	"sort"
	"sync"
)

// Binding ties a connection to one member of one session.
type Binding struct {
	Session string
	Member  string
}

// Registry maps connections to the member they act as. A reverse index keyed
// by session and member is kept alongside so kicks resolve the target's
// connection without scanning.
type Registry struct {
	mu       sync.RWMutex
	bindings map[string]Binding
	bySess   map[string]map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		bindings: make(map[string]Binding),
		bySess:   make(map[string]map[string]string),
	}
}

func (r *Registry) Bind(conn, session, member string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.bindings[conn]; ok {
		return newError(KindConnectionAlreadyInSession,
			"Connection %s is already associated with user %q in room %q.", conn, existing.Member, existing.Session)
	}
	r.bindings[conn] = Binding{Session: session, Member: member}
	members := r.bySess[session]
	if members == nil {
		members = make(map[string]string)
		r.bySess[session] = members
	}
	members[member] = conn
	return nil
}

func (r *Registry) Lookup(conn string) (Binding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	binding, ok := r.bindings[conn]
	if !ok {
		return Binding{}, newError(KindConnectionNotInSession, "Connection %q does not belong to any room.", conn)
	}
	return binding, nil
}

// Unbind reports the binding that was removed, if any.
func (r *Registry) Unbind(conn string) (Binding, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	binding, ok := r.bindings[conn]
	if !ok {
		return Binding{}, false
	}
	delete(r.bindings, conn)
	if members := r.bySess[binding.Session]; members != nil {
		if members[binding.Member] == conn {
			delete(members, binding.Member)
		}
		if len(members) == 0 {
			delete(r.bySess, binding.Session)
		}
	}
	return binding, true
}

func (r *Registry) ConnectionOf(session, member string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.bySess[session][member]
	return conn, ok
}

// Connections lists the connections bound to a session in a stable order.
func (r *Registry) Connections(session string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := r.bySess[session]
	conns := make([]string, 0, len(members))
	for _, conn := range members {
		conns = append(conns, conn)
	}
	sort.Strings(conns)
	return conns
}
