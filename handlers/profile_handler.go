package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"sullendaAPI/internal/profile"
	"sullendaAPI/middleware"
)

type ProfileStore interface {
	Get(ctx context.Context, ownerID string) (*profile.Profile, error)
	Update(ctx context.Context, ownerID string, req profile.UpdateRequest) (*profile.Profile, error)
}

type ProfileHandler struct {
	store ProfileStore
	log   *zap.Logger
}

func NewProfileHandler(store ProfileStore, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{store: store, log: log}
}

// GET /api/v1/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	p, err := h.store.Get(ctx, clerkID)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, p)
}

// PATCH /api/v1/profile - Partial update of name, weightKg and heightCm
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req profile.UpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, err := h.store.Update(ctx, clerkID, req)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, p)
}
