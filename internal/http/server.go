// Package http exposes the JSON API: the authorization gate, the expense
// routes and the user lifecycle routes.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/Nikhil-Prakash-AT/expense-tracker-backend/internal/core"
	"github.com/Nikhil-Prakash-AT/expense-tracker-backend/internal/services"
)

// ExpenseService is the subset of the expense service the handlers call.
type ExpenseService interface {
	Create(ctx context.Context, userID string, in services.EntryInput) (core.Entry, error)
	List(ctx context.Context, userID string) ([]core.Entry, error)
	Summary(ctx context.Context, userID string) (core.Summary, error)
	Update(ctx context.Context, userID, id string, patch services.EntryPatch) (core.Entry, error)
	Delete(ctx context.Context, userID, id string) error
}

// UserStore resolves and persists user records.
type UserStore interface {
	CreateUser(ctx context.Context, u core.User) error
	GetUserByEmail(ctx context.Context, email string) (core.User, error)
	GetUserByID(ctx context.Context, id string) (core.User, error)
}

// TokenManager issues and verifies bearer tokens.
type TokenManager interface {
	Issue(userID string) (string, error)
	Verify(token string) (string, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	http.Server
	expenses   ExpenseService
	users      UserStore
	tokens     TokenManager
	pinger     Pinger
	bcryptCost int
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, expenses ExpenseService, users UserStore, tokens TokenManager, pinger Pinger, bcryptCost int) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		expenses:   expenses,
		users:      users,
		tokens:     tokens,
		pinger:     pinger,
		bcryptCost: bcryptCost,
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/auth/register", s.withRequestLog(s.handleRegister))
	mux.HandleFunc("POST /api/auth/login", s.withRequestLog(s.handleLogin))
	mux.HandleFunc("GET /api/auth/me", s.withRequestLog(s.requireAuth(s.handleMe)))

	mux.HandleFunc("POST /api/expenses", s.withRequestLog(s.requireAuth(s.handleCreateExpense)))
	mux.HandleFunc("GET /api/expenses", s.withRequestLog(s.requireAuth(s.handleListExpenses)))
	mux.HandleFunc("GET /api/expenses/summary", s.withRequestLog(s.requireAuth(s.handleExpenseSummary)))
	mux.HandleFunc("PUT /api/expenses/{id}", s.withRequestLog(s.requireAuth(s.handleUpdateExpense)))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.withRequestLog(s.requireAuth(s.handleDeleteExpense)))

	return s
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.pinger.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
