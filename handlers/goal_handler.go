package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"sullendaAPI/internal/goal"
	"sullendaAPI/internal/stats"
	"sullendaAPI/middleware"
)

type GoalStore interface {
	Enable(ctx context.Context, ownerID string, t goal.Type, target *float64, today string) (*goal.Goal, error)
	Disable(ctx context.Context, ownerID string, t goal.Type, today string) (*goal.Goal, error)
}

type GoalEvaluator interface {
	Today() string
	Goals(ctx context.Context, ownerID string) ([]stats.GoalStatus, error)
}

type GoalHandler struct {
	goals GoalStore
	stats GoalEvaluator
	log   *zap.Logger
}

func NewGoalHandler(goals GoalStore, stats GoalEvaluator, log *zap.Logger) *GoalHandler {
	return &GoalHandler{goals: goals, stats: stats, log: log}
}

type enableGoalRequest struct {
	TargetValue *float64 `json:"targetValue"`
}

// GET /api/v1/goals - Active goals with progress for the current week
func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	statuses, err := h.stats.Goals(ctx, clerkID)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, statuses)
}

// PUT /api/v1/goals/{type} - Enable a goal or change its target.
// An empty body re-enables the stored goal with its previous target.
func (h *GoalHandler) Enable(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	t, err := goal.ParseType(mux.Vars(r)["type"])
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	var req enableGoalRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	g, err := h.goals.Enable(ctx, clerkID, t, req.TargetValue, h.stats.Today())
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, g)
}

// DELETE /api/v1/goals/{type} - Disable a goal. The record is kept.
func (h *GoalHandler) Disable(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	t, err := goal.ParseType(mux.Vars(r)["type"])
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	g, err := h.goals.Disable(ctx, clerkID, t, h.stats.Today())
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, g)
}
