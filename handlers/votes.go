// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/memojo/middleware"
	"github.com/danielhkuo/memojo/models"
	"github.com/danielhkuo/memojo/store"
)

type VoteHandler struct {
	store store.Store
}

func NewVoteHandler(s store.Store) *VoteHandler {
	return &VoteHandler{store: s}
}

// RecordVote handles POST /api/vote
func (h *VoteHandler) RecordVote(w http.ResponseWriter, r *http.Request) {
	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.FeatureID = strings.TrimSpace(req.FeatureID)
	req.VoteType = strings.TrimSpace(req.VoteType)

	// Validate input
	if req.FeatureID == "" || req.VoteType == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Missing featureId or voteType")
		return
	}
	if !models.IsValidVoteType(req.VoteType) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid voteType")
		return
	}

	tally, err := h.store.RecordVote(r.Context(), req.FeatureID, req.VoteType)
	if errors.Is(err, models.ErrInvalidVoteType) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid voteType")
		return
	}
	if err != nil {
		slog.Error("failed to record vote", "error", err, "feature_id", req.FeatureID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("vote recorded", "feature_id", req.FeatureID, "vote_type", req.VoteType)

	middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{
		Message: "Vote recorded",
		Votes:   tally,
	})
}

// RecordSubscription handles POST /api/subscribe
func (h *VoteHandler) RecordSubscription(w http.ResponseWriter, r *http.Request) {
	var req models.SubscribeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.FeatureID = strings.TrimSpace(req.FeatureID)
	req.Platform = strings.TrimSpace(req.Platform)

	if req.Email == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Email is required")
		return
	}
	key := models.SubscriptionKey(req.FeatureID, req.Platform)
	if key == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Either featureId or platform is required for subscription")
		return
	}

	added, err := h.store.RecordSubscription(r.Context(), key, req.Email)
	if err != nil {
		slog.Error("failed to record subscription", "error", err, "key", key)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !added {
		middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
			Message: "Email already subscribed for this feature/platform.",
		})
		return
	}

	slog.Info("subscription recorded", "key", key)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "Subscription successful",
	})
}
