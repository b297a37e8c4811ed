package realtime

import (
	"sync"

	"go.uber.org/zap"
)

// Envelope is the wire frame delivered to subscribed sessions.
type Envelope struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

// MetricsRecorder receives hub lifecycle counters. The prometheus collector
// implements it; tests pass nil.
type MetricsRecorder interface {
	SessionOpened()
	SessionClosed()
	RoomCount(n int)
	EventPublished(event string)
}

// Hub tracks active sessions and their room subscriptions. A session only
// appears here once it has authenticated; rejected sessions never register
// and therefore can never join a room.
type Hub struct {
	mu       sync.RWMutex
	sessions map[*Session]struct{}
	rooms    map[string]map[*Session]struct{}

	metrics MetricsRecorder
	logger  *zap.SugaredLogger
}

func NewHub(metrics MetricsRecorder, logger *zap.SugaredLogger) *Hub {
	return &Hub{
		sessions: make(map[*Session]struct{}),
		rooms:    make(map[string]map[*Session]struct{}),
		metrics:  metrics,
		logger:   logger,
	}
}

// Register adds an authenticated session to the hub.
func (h *Hub) Register(s *Session) {
	h.mu.Lock()
	h.sessions[s] = struct{}{}
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.SessionOpened()
	}
}

// Unregister drops the session and releases all of its room subscriptions.
// No further events are delivered to it.
func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	if _, ok := h.sessions[s]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.sessions, s)
	for room, members := range h.rooms {
		delete(members, s)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	roomCount := len(h.rooms)
	h.mu.Unlock()

	s.closeSend()

	if h.metrics != nil {
		h.metrics.SessionClosed()
		h.metrics.RoomCount(roomCount)
	}
}

// JoinRoom subscribes the session to a room. Joining twice is a no-op.
// Sessions unknown to the hub (never registered or already unregistered)
// cannot join.
func (h *Hub) JoinRoom(s *Session, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions[s]; !ok {
		return
	}
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Session]struct{})
		h.rooms[room] = members
	}
	members[s] = struct{}{}

	if h.metrics != nil {
		h.metrics.RoomCount(len(h.rooms))
	}
}

// LeaveRoom unsubscribes the session from a room.
func (h *Hub) LeaveRoom(s *Session, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(members, s)
	if len(members) == 0 {
		delete(h.rooms, room)
	}

	if h.metrics != nil {
		h.metrics.RoomCount(len(h.rooms))
	}
}

// Publish delivers an event to every session currently subscribed to room.
// Delivery is at-most-once: a session whose send buffer is full misses the
// event rather than blocking the publisher.
func (h *Hub) Publish(room, event string, payload interface{}) {
	env := Envelope{Event: event, Payload: payload}

	h.mu.RLock()
	members := make([]*Session, 0, len(h.rooms[room]))
	for s := range h.rooms[room] {
		members = append(members, s)
	}
	h.mu.RUnlock()

	for _, s := range members {
		if !s.enqueue(env) {
			h.logger.Warnw("dropping event for slow session",
				"user_id", s.UserID(),
				"room", room,
				"event", event,
			)
		}
	}

	if h.metrics != nil {
		h.metrics.EventPublished(event)
	}
}

// BroadcastAll delivers an event to every connected session regardless of
// room membership.
func (h *Hub) BroadcastAll(event string, payload interface{}) {
	env := Envelope{Event: event, Payload: payload}

	h.mu.RLock()
	sessions := make([]*Session, 0, len(h.sessions))
	for s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()

	for _, s := range sessions {
		if !s.enqueue(env) {
			h.logger.Warnw("dropping broadcast for slow session",
				"user_id", s.UserID(),
				"event", event,
			)
		}
	}

	if h.metrics != nil {
		h.metrics.EventPublished(event)
	}
}

// SessionCount reports the number of authenticated sessions.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// InRoom reports whether the session is currently subscribed to room.
func (h *Hub) InRoom(s *Session, room string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.rooms[room][s]
	return ok
}
