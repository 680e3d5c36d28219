package services

import "github.com/prometheus/client_golang/prometheus"

var (
	drinkLogsWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drink_logs_written_total",
			Help: "Drink log writes by operation and category",
		},
		[]string{"op", "category"},
	)
	goalTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goal_transitions_total",
			Help: "Goal enable/disable/update transitions",
		},
		[]string{"type", "transition"},
	)
	pushesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_notifications_total",
			Help: "Push notifications by kind and result",
		},
		[]string{"kind", "result"},
	)
)

// RegisterMetrics registers the domain counters. Call once from main.go.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(drinkLogsWritten, goalTransitions, pushesSent)
}
