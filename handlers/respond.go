package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"sullendaAPI/internal/drink"
	"sullendaAPI/internal/goal"
	"sullendaAPI/internal/notification"
	"sullendaAPI/internal/profile"
	"sullendaAPI/internal/stats"
	"sullendaAPI/internal/window"
	"sullendaAPI/services"
)

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithServiceError maps engine and store errors to a status code.
// Validation messages are safe to echo; anything unexpected is logged and
// hidden behind a generic message.
func respondWithServiceError(w http.ResponseWriter, log *zap.Logger, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		log.Error("Request failed", zap.Error(err))
		respondWithError(w, code, "Internal server error")
		return
	}
	respondWithError(w, code, err.Error())
}

func statusFor(err error) int {
	var (
		cfgErr   *drink.ConfigurationError
		rangeErr *window.InvalidRangeError
		goalErr  *goal.InvalidGoalStateError
	)
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrPushDropped):
		return http.StatusServiceUnavailable
	case errors.As(err, &cfgErr),
		errors.As(err, &rangeErr),
		errors.As(err, &goalErr),
		errors.Is(err, drink.ErrInvalidServings),
		errors.Is(err, drink.ErrNegativeServings),
		errors.Is(err, drink.ErrInvalidDate),
		errors.Is(err, window.ErrInvalidMonth),
		errors.Is(err, window.ErrInvalidLength),
		errors.Is(err, window.ErrUnsupportedWeekDay),
		errors.Is(err, stats.ErrUnknownPeriod),
		errors.Is(err, notification.ErrInvalidDevice),
		errors.Is(err, profile.ErrInvalidProfile):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// decodeJSON rejects unknown fields so typos in a request body surface as 400s.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
