// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/memojo/auth"
	"github.com/danielhkuo/memojo/middleware"
	"github.com/danielhkuo/memojo/models"
)

type AuthHandler struct {
	gate *auth.Gate
}

func NewAuthHandler(gate *auth.Gate) *AuthHandler {
	return &AuthHandler{gate: gate}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	slog.Info("login attempt", "username", req.Username, "remote", middleware.GetClientIP(r))

	token, err := h.gate.Login(req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		slog.Warn("login failed", "username", req.Username, "remote", middleware.GetClientIP(r))
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		slog.Error("failed to issue token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	h.gate.SetSessionCookies(w, token)

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Message: "Authentication successful",
		Token:   token,
	})
}

// Logout handles POST /api/auth/logout.
// Only the cookies are cleared; an issued token stays valid until it expires.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.gate.ClearSessionCookies(w)
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Logout successful"})
}

// Status handles GET /api/auth/status. Must be wrapped with RequireAuth.
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AuthStatusResponse{
		Authenticated: true,
		Username:      id.Username,
	})
}
