package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	applog "github.com/Nikhil-Prakash-AT/expense-tracker-backend/internal/log"
)

// authedHandler receives the resolved user ID as an explicit parameter so
// the identity requirement stays visible at every call site.
type authedHandler func(w http.ResponseWriter, r *http.Request, userID string)

// requireAuth is the authorization gate. The Authorization header must be
// exactly "Bearer <token>"; a missing or malformed header fails before the
// verifier runs. Every verifier failure, including a token whose subject no
// longer resolves to a stored user, collapses into the same message.
func (s *Server) requireAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeMessage(w, http.StatusUnauthorized, "Not authorized, no token")
			return
		}

		userID, err := s.tokens.Verify(token)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}

		if _, err := s.users.GetUserByID(r.Context(), userID); err != nil {
			slog.WarnContext(r.Context(), "Token subject resolves to no user",
				applog.FieldComponent, applog.ComponentAuth,
				applog.FieldOperation, applog.OpVerify,
				applog.FieldUserID, userID)
			writeMessage(w, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}

		next(w, r, userID)
	}
}

// withRequestLog adds security headers, a request ID and start/completion
// logging to a handler.
func (s *Server) withRequestLog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := generateRequestID()

		slog.InfoContext(r.Context(), "Request started",
			applog.FieldComponent, applog.ComponentHTTP,
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldClientIP, r.RemoteAddr,
			applog.FieldUserAgent, r.Header.Get("User-Agent"))

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(r.Context(), "Request completed",
			applog.FieldComponent, applog.ComponentHTTP,
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, time.Since(start).Milliseconds())
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
