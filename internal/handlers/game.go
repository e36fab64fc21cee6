// internal/handlers/game.go
package handlers

import (
	"net/http"

	"impostor/internal/game"
)

type createGameRequest struct {
	HostName         string   `json:"hostName"`
	HostPlayerID     string   `json:"hostPlayerId"`
	Words            []string `json:"words"`
	Categories       []string `json:"categories"`
	ImpostorCountMin int      `json:"impostorCountMin"`
	ImpostorCountMax int      `json:"impostorCountMax"`
	ShareCategories  bool     `json:"shareCategories"`
	AllowAllKick     bool     `json:"allowAllKick"`
	IsPublic         bool     `json:"isPublic"`
}

type createGameResponse struct {
	Code     string `json:"code"`
	PlayerID string `json:"playerId"`
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "bad request payload", http.StatusBadRequest)
		return
	}

	code, hostID, err := s.engine.CreateRoom(r.Context(), game.CreateOptions{
		HostPlayerID:     req.HostPlayerID,
		HostName:         req.HostName,
		Words:            req.Words,
		Categories:       req.Categories,
		ImpostorCountMin: req.ImpostorCountMin,
		ImpostorCountMax: req.ImpostorCountMax,
		ShareCategories:  req.ShareCategories,
		AllowAllKick:     req.AllowAllKick,
		IsPublic:         req.IsPublic,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createGameResponse{Code: code, PlayerID: hostID})
}

func (s *Server) handleListPublic(w http.ResponseWriter, r *http.Request) {
	listing, err := s.engine.ListPublicRooms(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if listing == nil {
		listing = []game.PublicRoom{}
	}
	writeJSON(w, http.StatusOK, listing)
}

type joinRequest struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "bad request payload", http.StatusBadRequest)
		return
	}

	playerID, err := s.engine.JoinRoom(r.Context(), r.PathValue("code"), req.PlayerID, req.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"playerId": playerID})
}

type playerRequest struct {
	PlayerID string `json:"playerId"`
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "bad request payload", http.StatusBadRequest)
		return
	}

	if err := s.engine.LeaveRoom(r.Context(), r.PathValue("code"), req.PlayerID); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type kickRequest struct {
	PlayerID       string `json:"playerId"`
	TargetPlayerID string `json:"targetPlayerId"`
}

func (s *Server) handleKick(w http.ResponseWriter, r *http.Request) {
	var req kickRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "bad request payload", http.StatusBadRequest)
		return
	}

	err := s.engine.KickPlayer(r.Context(), r.PathValue("code"), req.PlayerID, req.TargetPlayerID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleStartRound(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.StartRound(r.Context(), r.PathValue("code")); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleNextRound(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.NextRound(r.Context(), r.PathValue("code")); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleEndRound(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.EndRound(r.Context(), r.PathValue("code")); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleNextTurn(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "bad request payload", http.StatusBadRequest)
		return
	}

	if err := s.engine.NextTurn(r.Context(), r.PathValue("code"), req.PlayerID); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleImpostorFound(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "bad request payload", http.StatusBadRequest)
		return
	}

	allFound, err := s.engine.ReportImpostorFound(r.Context(), r.PathValue("code"), req.PlayerID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{
		"success":           true,
		"allImpostorsFound": allFound,
	})
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.CloseRoom(r.Context(), r.PathValue("code")); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	st, err := s.engine.MaskedState(r.Context(), r.PathValue("code"), r.URL.Query().Get("playerId"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.engine.Status(r.Context(), r.PathValue("playerId"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
