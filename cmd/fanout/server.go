package main

import (
	"net/http"
	"slices"

	"github.com/fridaygt/fridaygt/common/logger"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Server upgrades watchers and hands them to the hub
type Server struct {
	hub      *Hub
	upgrader websocket.Upgrader
	log      *logger.Logger
}

// NewServer creates a new Server. An empty allowedOrigins accepts any origin;
// requests without an Origin header (non-browser clients) are always accepted.
func NewServer(hub *Hub, allowedOrigins []string, log *logger.Logger) *Server {
	return &Server{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowedOrigins) == 0 || origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
		log: log,
	}
}

// HandleWebSocket handles WebSocket upgrade and registration
// URL: /ws?parent={raceId or runListId}
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	parent, err := uuid.Parse(r.URL.Query().Get("parent"))
	if err != nil {
		http.Error(w, "parent query parameter must be a race or run list id", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response
		s.log.Debug("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	client := NewClient(s.hub, conn, parent, s.log)
	if !s.hub.Register(client) {
		conn.Close()
		return
	}

	s.log.Debug("websocket connected", "parent_id", parent, "remote", r.RemoteAddr)

	go client.writePump()
	go client.readPump()
}
