// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/memojo/auth"
	"github.com/danielhkuo/memojo/middleware"
	"github.com/danielhkuo/memojo/store"
)

type AdminHandler struct {
	store store.Store
}

func NewAdminHandler(s store.Store) *AdminHandler {
	return &AdminHandler{store: s}
}

// DumpStore handles GET /api/db. Must be wrapped with RequireAuth.
func (h *AdminHandler) DumpStore(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.store.Snapshot(r.Context())
	if err != nil {
		slog.Error("failed to read store", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		slog.Info("store dumped", "username", id.Username, "features", len(snapshot.Votes))
	}

	middleware.JSONResponse(w, http.StatusOK, snapshot)
}
