// internal/handlers/server.go
package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"impostor/internal/game"
	"impostor/internal/notify"
)

// Server holds the engine and the event hub behind the HTTP surface. Every
// route is a thin translation onto one engine operation.
type Server struct {
	engine *game.Engine
	hub    *notify.Hub
	log    *logrus.Logger
}

func NewServer(engine *game.Engine, hub *notify.Hub, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.New()
	}
	return &Server{engine: engine, hub: hub, log: logger}
}

// Routes wires the full route table onto a method-pattern ServeMux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/game", s.handleCreateGame)
	mux.HandleFunc("GET /api/game/public", s.handleListPublic)

	mux.HandleFunc("POST /api/game/{code}/join", s.handleJoin)
	mux.HandleFunc("POST /api/game/{code}/leave", s.handleLeave)
	mux.HandleFunc("POST /api/game/{code}/kick", s.handleKick)
	mux.HandleFunc("POST /api/game/{code}/start-round", s.handleStartRound)
	mux.HandleFunc("POST /api/game/{code}/next-round", s.handleNextRound)
	mux.HandleFunc("POST /api/game/{code}/end-round", s.handleEndRound)
	mux.HandleFunc("POST /api/game/{code}/next-turn", s.handleNextTurn)
	mux.HandleFunc("POST /api/game/{code}/impostor-found", s.handleImpostorFound)
	mux.HandleFunc("POST /api/game/{code}/close", s.handleClose)
	mux.HandleFunc("GET /api/game/{code}/state", s.handleState)
	mux.HandleFunc("GET /api/game/{code}/events", s.handleEvents)
	mux.HandleFunc("GET /api/game/{code}/qr", s.handleQR)

	mux.HandleFunc("GET /api/player/{playerId}/status", s.handleStatus)

	return mux
}
