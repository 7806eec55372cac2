package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Nikhil-Prakash-AT/expense-tracker-backend/internal/auth"
	"github.com/Nikhil-Prakash-AT/expense-tracker-backend/internal/core"
	applog "github.com/Nikhil-Prakash-AT/expense-tracker-backend/internal/log"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

type profileResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Please add all fields")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Please add all fields")
		return
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to hash password", applog.FieldError, err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	user := core.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := s.users.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, core.ErrEmailTaken) {
			writeMessage(w, http.StatusBadRequest, "User already exists")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to create user", applog.FieldError, err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to issue token", applog.FieldError, err, applog.FieldUserID, user.ID)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Token: token,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	user, err := s.users.GetUserByEmail(r.Context(), strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to look up user", applog.FieldError, err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to issue token", applog.FieldError, err, applog.FieldUserID, user.ID)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Token: token,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, userID string) {
	user, err := s.users.GetUserByID(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to look up user", applog.FieldError, err, applog.FieldUserID, userID)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	})
}
