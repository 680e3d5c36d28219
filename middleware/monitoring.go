package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

type HTTPMetrics struct {
	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	authRejections *prometheus.CounterVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),
		authRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_rejections_total",
				Help: "Total number of unauthorized requests",
			},
			[]string{"reason"},
		),
	}
	reg.MustRegister(m.requests, m.duration, m.authRejections)
	return m
}

// Middleware labels requests by route template so /drinks/{id} stays one series.
func (m *HTTPMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(ww, r)

		path := routeTemplate(r)
		m.requests.WithLabelValues(path, r.Method, strconv.Itoa(ww.statusCode)).Inc()
		m.duration.WithLabelValues(path, r.Method).Observe(time.Since(start).Seconds())

		switch ww.statusCode {
		case http.StatusUnauthorized:
			m.authRejections.WithLabelValues("401_unauthorized").Inc()
		case http.StatusForbidden:
			m.authRejections.WithLabelValues("403_forbidden").Inc()
		}
	})
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// BasicAuthMiddleware protects /metrics. Empty credentials lock it entirely.
func BasicAuthMiddleware(user, pass string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, p, ok := r.BasicAuth()
			if !ok || user == "" || u != user || p != pass {
				w.Header().Set("WWW-Authenticate", `Basic realm="Metrics"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
