package http

import (
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"outgo/internal/auth"
	"outgo/internal/core"
)

const minPasswordLength = 8

type authResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

type userView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	name := sanitizeInput(req.Name)
	email := strings.ToLower(sanitizeInput(req.Email))

	if name == "" {
		writeError(w, http.StatusUnprocessableEntity, "name is required")
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid email address")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeError(w, http.StatusUnprocessableEntity, "password must be at least 8 characters")
		return
	}

	user, token, err := s.auth.Signup(r.Context(), name, email, req.Password)
	switch {
	case errors.Is(err, auth.ErrEmailTaken), errors.Is(err, auth.ErrNameTaken):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "signup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not create account")
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: viewUser(user)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	email := strings.ToLower(sanitizeInput(req.Email))

	user, token, err := s.auth.Login(r.Context(), email, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not log in")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, User: viewUser(user)})
}

func viewUser(u core.User) userView {
	return userView{ID: u.ID, Name: u.Name, Email: u.Email}
}
