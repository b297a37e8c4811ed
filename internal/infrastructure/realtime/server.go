package realtime

import (
	"net/http"

	"taskdeck/internal/core/services"
	"taskdeck/pkg/config"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Should be configured properly for production
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Server upgrades websocket requests and drives the session lifecycle:
// connect, authenticate against the first frame, then serve until the
// transport drops.
type Server struct {
	hub         *Hub
	authService services.AuthService
	cfg         SessionConfig
	logger      *zap.SugaredLogger
}

func NewServer(hub *Hub, authService services.AuthService, cfg *config.Config, logger *zap.SugaredLogger) *Server {
	return &Server{
		hub:         hub,
		authService: authService,
		cfg: SessionConfig{
			PingInterval:  cfg.Realtime.PingInterval,
			PongTimeout:   cfg.Realtime.PongTimeout,
			WriteTimeout:  cfg.Realtime.WriteTimeout,
			AuthTimeout:   cfg.Realtime.AuthTimeout,
			SendBuffer:    cfg.Realtime.SendBuffer,
			MaxMessageLen: cfg.Realtime.MaxMessageLen,
		},
		logger: logger,
	}
}

func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Errorw("websocket upgrade failed", "error", err)
		return
	}

	if s.cfg.MaxMessageLen > 0 {
		conn.SetReadLimit(s.cfg.MaxMessageLen)
	}

	session := newSession(conn, s.hub, s.cfg, s.logger)

	if !session.authenticate(s.authService) {
		s.logger.Infow("session rejected", "remote_addr", r.RemoteAddr)
		conn.Close()
		return
	}

	s.hub.Register(session)
	// Every authenticated session listens on a private room named after its
	// own user id, used for direct user-targeted events.
	s.hub.JoinRoom(session, string(session.UserID()))

	s.logger.Infow("session connected", "user_id", session.UserID())

	session.run()

	s.logger.Infow("session disconnected", "user_id", session.UserID())
}
