// internal/handlers/events_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"impostor/internal/game"
	"impostor/internal/middleware"
	"impostor/internal/notify"
)

// handleEvents upgrades the request to a websocket and streams the room's
// events to the client until either side goes away. The feed is read-only;
// anything the client sends is discarded.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	// Reject unknown rooms before paying for the upgrade.
	if _, err := s.engine.MaskedState(r.Context(), code, ""); err != nil {
		if errors.Is(err, game.ErrRoomNotFound) {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}
		s.writeError(w, err)
		return
	}

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.log.WithError(err).Warn("websocket accept error")
		return
	}
	defer c.Close(websocket.StatusInternalError, "handler finished")

	remoteAddr := r.RemoteAddr
	middleware.LogWebSocketConnect(s.log, remoteAddr, code)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sub := s.hub.Subscribe(code)
	defer s.hub.Unsubscribe(code, sub)

	go s.eventWritePump(ctx, c, sub)

	// Read loop exists only to observe the close handshake.
	var readErr error
	for {
		if _, _, readErr = c.Read(ctx); readErr != nil {
			break
		}
	}
	middleware.LogWebSocketDisconnect(s.log, remoteAddr, code, readErr)
	c.Close(websocket.StatusNormalClosure, "bye")
}

// eventWritePump forwards hub events onto the wire and pings periodically so
// dead connections are detected even on quiet rooms.
func (s *Server) eventWritePump(ctx context.Context, c *websocket.Conn, sub *notify.Subscriber) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				s.log.WithError(err).Warn("failed to marshal event")
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
