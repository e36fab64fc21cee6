// internal/handlers/qr.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/skip2/go-qrcode"

	"impostor/internal/game"
)

const qrSize = 320

// handleQR renders a PNG QR code pointing at the room's join URL so the host
// can put the code on a screen instead of spelling it out.
func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	if _, err := s.engine.MaskedState(r.Context(), code, ""); err != nil {
		if errors.Is(err, game.ErrRoomNotFound) {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}
		s.writeError(w, err)
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	url := scheme + "://" + r.Host + "/join/" + code

	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		s.log.WithError(err).Error("qr generation failed")
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}
