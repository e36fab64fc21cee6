package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"impostor/internal/game"
	"impostor/internal/room"
)

// decodeJSON decodes the request body into dst. An empty body decodes to the
// zero value; anything else malformed is a client error.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && err.Error() != "EOF" {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps the engine and repository error taxonomy onto HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrRoomNotFound),
		errors.Is(err, game.ErrPlayerNotFound),
		errors.Is(err, room.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrValidation),
		errors.Is(err, game.ErrInvalidState):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, room.ErrConflict),
		errors.Is(err, room.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.WithError(err).Error("request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
