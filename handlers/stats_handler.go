package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"sullendaAPI/internal/calendar"
	"sullendaAPI/internal/stats"
	"sullendaAPI/internal/window"
	"sullendaAPI/middleware"
)

type StatsProvider interface {
	Today() string
	Report(ctx context.Context, ownerID string, q stats.Query) (*stats.Report, error)
	Calendar(ctx context.Context, ownerID string, year, month int) (*calendar.CalendarResponse, error)
	Home(ctx context.Context, ownerID string) (*stats.Home, error)
}

type StatsHandler struct {
	stats StatsProvider
	log   *zap.Logger
}

func NewStatsHandler(stats StatsProvider, log *zap.Logger) *StatsHandler {
	return &StatsHandler{stats: stats, log: log}
}

// GET /api/v1/stats?period=day|week|month|last7|last30|range
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	q := r.URL.Query()
	query := stats.Query{
		Period: stats.Period(q.Get("period")),
		Date:   q.Get("date"),
		Start:  q.Get("start"),
		End:    q.Get("end"),
	}
	var err error
	if query.Year, err = optionalInt(q.Get("year")); err != nil {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'year' must be a number")
		return
	}
	if query.Month, err = optionalInt(q.Get("month")); err != nil {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'month' must be a number")
		return
	}

	report, err := h.stats.Report(ctx, clerkID, query)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}

// GET /api/v1/calendar?year=&month= - Month grid, defaults to the current month
func (h *StatsHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	today, err := window.ParseDate(h.stats.Today())
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}
	year, month := today.Year(), int(today.Month())

	q := r.URL.Query()
	if v := q.Get("year"); v != "" {
		if year, err = strconv.Atoi(v); err != nil {
			respondWithError(w, http.StatusBadRequest, "Query parameter 'year' must be a number")
			return
		}
	}
	if v := q.Get("month"); v != "" {
		if month, err = strconv.Atoi(v); err != nil {
			respondWithError(w, http.StatusBadRequest, "Query parameter 'month' must be a number")
			return
		}
	}

	cal, err := h.stats.Calendar(ctx, clerkID, year, month)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, cal)
}

// GET /api/v1/home - Today's total, this week's report and goal progress
func (h *StatsHandler) GetHome(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	home, err := h.stats.Home(ctx, clerkID)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, home)
}

func optionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
