package server

import (
	"encoding/json"
	"log"
	"sync"

	"draw-guess/internal/db"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const eventQueueSize = 1024

// eventRecorder appends activity events to the database from a single
// goroutine so handlers never wait on it. Without a database it does
// nothing.
type eventRecorder struct {
	db     *gorm.DB
	queue  chan db.Event
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
}

func newEventRecorder(conn *gorm.DB) *eventRecorder {
	r := &eventRecorder{db: conn}
	if conn == nil {
		return r
	}
	r.queue = make(chan db.Event, eventQueueSize)
	r.done = make(chan struct{})
	go r.run()
	return r
}

func (r *eventRecorder) Record(session, member, eventType string, payload EventPayload) {
	if r == nil || r.db == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("event marshal failed session=%s type=%s error=%v", session, eventType, err)
		return
	}
	event := db.Event{
		Session: session,
		Member:  member,
		Type:    eventType,
		Payload: datatypes.JSON(data),
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	select {
	case r.queue <- event:
	default:
		log.Printf("event dropped session=%s type=%s reason=queue_full", session, eventType)
	}
}

func (r *eventRecorder) run() {
	defer close(r.done)
	for event := range r.queue {
		if err := r.db.Create(&event).Error; err != nil {
			log.Printf("event persist failed session=%s type=%s error=%v", event.Session, event.Type, err)
		}
	}
}

// Close flushes queued events. Later records are discarded.
func (r *eventRecorder) Close() {
	if r == nil || r.db == nil {
		return
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()
	<-r.done
}
