package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"sullendaAPI/internal/drink"
	"sullendaAPI/internal/window"
	"sullendaAPI/middleware"
)

type DrinkLogStore interface {
	Create(ctx context.Context, p drink.NewEntryParams) (*drink.Entry, error)
	GetByDate(ctx context.Context, ownerID, date string) ([]drink.Entry, error)
	GetByRange(ctx context.Context, ownerID string, w window.Window) ([]drink.Entry, error)
	GetByMonth(ctx context.Context, ownerID string, year, month int) ([]drink.Entry, error)
	Update(ctx context.Context, ownerID, id string, servings *float64, note *string) (*drink.Entry, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type LimitChecker interface {
	Today() string
	CheckWeeklyLimit(ctx context.Context, added drink.Entry) error
}

type DrinkLogHandler struct {
	store  DrinkLogStore
	limits LimitChecker
	log    *zap.Logger
}

func NewDrinkLogHandler(store DrinkLogStore, limits LimitChecker, log *zap.Logger) *DrinkLogHandler {
	return &DrinkLogHandler{store: store, limits: limits, log: log}
}

type createDrinkRequest struct {
	Date     string         `json:"date"`
	Category drink.Category `json:"category"`
	Servings float64        `json:"servings"`
	Note     *string        `json:"note"`
}

type updateDrinkRequest struct {
	Servings *float64 `json:"servings"`
	Note     *string  `json:"note"`
}

type referenceRow struct {
	Category drink.Category `json:"category"`
	drink.Spec
}

// GET /api/v1/drinks/reference - Serving sizes and strengths per category
func (h *DrinkLogHandler) Reference(w http.ResponseWriter, r *http.Request) {
	table := drink.Reference()
	rows := make([]referenceRow, 0, len(drink.Categories))
	for _, c := range drink.Categories {
		rows = append(rows, referenceRow{Category: c, Spec: table[c]})
	}
	respondWithJSON(w, http.StatusOK, rows)
}

// POST /api/v1/drinks - Log a drink. Date defaults to today.
func (h *DrinkLogHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req createDrinkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Date == "" {
		req.Date = h.limits.Today()
	}

	entry, err := h.store.Create(ctx, drink.NewEntryParams{
		OwnerID:  clerkID,
		Date:     req.Date,
		Category: req.Category,
		Servings: req.Servings,
		Note:     req.Note,
	})
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	if err := h.limits.CheckWeeklyLimit(ctx, *entry); err != nil {
		h.log.Warn("Weekly limit check failed", zap.String("owner_id", clerkID), zap.Error(err))
	}

	respondWithJSON(w, http.StatusCreated, entry)
}

// GET /api/v1/drinks - List entries by ?date=, ?start=&end= or ?year=&month=.
// With no filter it lists today's entries.
func (h *DrinkLogHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	q := r.URL.Query()
	var (
		entries []drink.Entry
		err     error
	)
	switch {
	case q.Get("start") != "" || q.Get("end") != "":
		var rng window.Window
		rng, err = window.Range(q.Get("start"), q.Get("end"))
		if err == nil {
			entries, err = h.store.GetByRange(ctx, clerkID, rng)
		}
	case q.Get("year") != "" || q.Get("month") != "":
		year, yErr := strconv.Atoi(q.Get("year"))
		month, mErr := strconv.Atoi(q.Get("month"))
		if yErr != nil || mErr != nil {
			respondWithError(w, http.StatusBadRequest, "Query parameters 'year' and 'month' must be numbers")
			return
		}
		entries, err = h.store.GetByMonth(ctx, clerkID, year, month)
	default:
		date := q.Get("date")
		if date == "" {
			date = h.limits.Today()
		}
		entries, err = h.store.GetByDate(ctx, clerkID, date)
	}
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, entries)
}

// PATCH /api/v1/drinks/{id} - Edit servings and/or note
func (h *DrinkLogHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req updateDrinkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Servings == nil && req.Note == nil {
		respondWithError(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	entry, err := h.store.Update(ctx, clerkID, mux.Vars(r)["id"], req.Servings, req.Note)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, entry)
}

// DELETE /api/v1/drinks/{id}
func (h *DrinkLogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := h.store.Delete(ctx, clerkID, mux.Vars(r)["id"]); err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Drink log deleted"})
}
