// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/memojo/cliparse"
	"github.com/danielhkuo/memojo/middleware"
	"github.com/danielhkuo/memojo/models"
)

// StatusHandler answers the health and status checks
type StatusHandler struct {
	cfg cliparse.Config
}

func NewStatusHandler(cfg cliparse.Config) *StatusHandler {
	return &StatusHandler{cfg: cfg}
}

// Status handles GET /api/status
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	message := "Backend server is running!"
	if h.cfg.Mode == cliparse.ModeDemo {
		message = "Test server is running!"
	}
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: message})
}

// Health handles GET /health
func (h *StatusHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
