package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"taskdeck/internal/core/domain"
	"taskdeck/internal/core/services"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type sessionState int

const (
	stateConnecting sessionState = iota
	stateAuthenticating
	stateActive
	stateRejected
	stateDisconnected
)

// clientMessage is the inbound frame format. The first frame must be an
// auth message; after that the client may join and leave project rooms.
type clientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type authPayload struct {
	Token string `json:"token"`
}

type roomPayload struct {
	ProjectID string `json:"projectId"`
}

// Session is one live websocket connection. It reaches the hub only after
// its handshake credential verifies; a rejected session is closed without
// ever joining a room.
type Session struct {
	conn *websocket.Conn
	hub  *Hub

	userID domain.UserID

	sendMu sync.Mutex
	send   chan Envelope
	closed bool

	mu    sync.Mutex
	state sessionState

	pingInterval time.Duration
	pongTimeout  time.Duration
	writeTimeout time.Duration
	authTimeout  time.Duration

	logger *zap.SugaredLogger
}

func newSession(conn *websocket.Conn, hub *Hub, cfg SessionConfig, logger *zap.SugaredLogger) *Session {
	return &Session{
		conn:         conn,
		hub:          hub,
		send:         make(chan Envelope, cfg.SendBuffer),
		state:        stateConnecting,
		pingInterval: cfg.PingInterval,
		pongTimeout:  cfg.PongTimeout,
		writeTimeout: cfg.WriteTimeout,
		authTimeout:  cfg.AuthTimeout,
		logger:       logger,
	}
}

// SessionConfig carries the transport tuning knobs for one session.
type SessionConfig struct {
	PingInterval  time.Duration
	PongTimeout   time.Duration
	WriteTimeout  time.Duration
	AuthTimeout   time.Duration
	SendBuffer    int
	MaxMessageLen int64
}

func (s *Session) UserID() domain.UserID {
	return s.userID
}

func (s *Session) setState(state sessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Session) currentState() sessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// enqueue offers an event to the session's send buffer without blocking.
// Returns false when the buffer is full or the session is closing.
func (s *Session) enqueue(env Envelope) bool {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	if s.closed {
		return false
	}
	select {
	case s.send <- env:
		return true
	default:
		return false
	}
}

func (s *Session) closeSend() {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.send)
	}
}

// authenticate reads the mandatory first frame and verifies its token.
// The credential travels in the frame payload, not the HTTP header.
func (s *Session) authenticate(authService services.AuthService) bool {
	s.setState(stateAuthenticating)

	s.conn.SetReadDeadline(time.Now().Add(s.authTimeout))

	var msg clientMessage
	if err := s.conn.ReadJSON(&msg); err != nil {
		s.setState(stateRejected)
		return false
	}
	if msg.Type != "auth" {
		s.setState(stateRejected)
		return false
	}

	var payload authPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.Token == "" {
		s.setState(stateRejected)
		return false
	}

	claims, err := authService.ValidateToken(payload.Token)
	if err != nil {
		s.setState(stateRejected)
		return false
	}

	s.userID = claims.UserID()
	s.setState(stateActive)
	return true
}

// run services the session until the transport drops. The caller must have
// registered the session with the hub first.
func (s *Session) run() {
	go s.writePump()

	s.conn.SetReadDeadline(time.Now().Add(s.pongTimeout))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(s.pongTimeout))
		return nil
	})

	for {
		var msg clientMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Infow("session read error", "user_id", s.userID, "error", err)
			}
			break
		}
		s.conn.SetReadDeadline(time.Now().Add(s.pongTimeout))
		s.handleMessage(msg)
	}

	s.hub.Unregister(s)
	s.setState(stateDisconnected)
}

func (s *Session) handleMessage(msg clientMessage) {
	switch msg.Type {
	case "joinProject":
		var payload roomPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.ProjectID == "" {
			return
		}
		s.hub.JoinRoom(s, payload.ProjectID)
	case "leaveProject":
		var payload roomPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.ProjectID == "" {
			return
		}
		s.hub.LeaveRoom(s, payload.ProjectID)
	default:
		s.logger.Debugw("unknown message type", "user_id", s.userID, "type", msg.Type)
	}
}

// writePump drains the send buffer onto the wire and keeps the connection
// alive with pings. It exits when the buffer is closed by Unregister.
func (s *Session) writePump() {
	ticker := time.NewTicker(s.pingInterval)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case env, ok := <-s.send:
			if !ok {
				s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
			if err := s.conn.WriteJSON(env); err != nil {
				s.logger.Infow("session write error", "user_id", s.userID, "error", err)
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
