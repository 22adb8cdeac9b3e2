package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/steelburn/ai-stack-build/daemon/domain"
	"github.com/steelburn/ai-stack-build/daemon/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleSnapshotStream upgrades to a websocket connection and streams
// every Snapshot the Collection Scheduler publishes on the pubsub Hub as
// JSON, for dashboard clients that want a push feed instead of polling
// /api/status.
func (s *Server) handleSnapshotStream(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "snapshot stream unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ch := s.hub.Sub(domain.SnapshotTopic)
	defer s.hub.Unsub(ch, domain.SnapshotTopic)

	clientIP := r.RemoteAddr
	logger.Blue("snapshot stream connected: %s", clientIP)
	defer logger.Blue("snapshot stream closed: %s", clientIP)

	for msg := range ch {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteJSON(msg); err != nil {
			return
		}
	}
}
