// internal/middleware/logging.go

package middleware

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LogMiddleware logs every request with its method, path, status and
// duration. Websocket upgrade requests are passed through unwrapped; those
// connections log their own lifecycle.
func LogMiddleware(logger *logrus.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Upgrade") == "websocket" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": time.Since(start),
				"remote":   r.RemoteAddr,
			}).Info("HTTP Request")
		})
	}
}

// LogWebSocketConnect logs a client joining a room's event feed.
func LogWebSocketConnect(logger *logrus.Logger, remoteAddr, code string) {
	logger.WithFields(logrus.Fields{
		"remote": remoteAddr,
		"code":   code,
	}).Info("WebSocket connected")
}

// LogWebSocketDisconnect logs a client dropping off a room's event feed.
func LogWebSocketDisconnect(logger *logrus.Logger, remoteAddr, code string, err error) {
	fields := logrus.Fields{
		"remote": remoteAddr,
		"code":   code,
	}
	if err != nil {
		fields["error"] = err
	}
	logger.WithFields(fields).Info("WebSocket disconnected")
}
