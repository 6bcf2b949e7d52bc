package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymcore_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymcore_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymcore_registrations_total",
			Help: "Total number of package registrations committed",
		},
		[]string{"kind"},
	)

	UpgradeCreditAmount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gymcore_upgrade_credit_amount",
			Help:    "Distribution of computed upgrade credit amounts",
			Buckets: prometheus.ExponentialBuckets(10000, 4, 8),
		},
	)

	RegistrationPausesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymcore_registration_pauses_total",
			Help: "Total number of registration pauses",
		},
	)

	RegistrationReactivationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymcore_registration_reactivations_total",
			Help: "Total number of registration reactivations",
		},
	)

	WorkflowStepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymcore_workflow_steps_total",
			Help: "Total number of onboarding workflow steps completed",
		},
		[]string{"step"},
	)

	WorkflowCompletionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymcore_workflow_completions_total",
			Help: "Total number of onboarding workflows completed",
		},
	)

	WorkflowResetsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymcore_workflow_resets_total",
			Help: "Total number of onboarding workflow resets",
		},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymcore_notifications_total",
			Help: "Total number of outcome notifications",
		},
		[]string{"event", "outcome"},
	)

	NotifyQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gymcore_notify_queue_length",
			Help: "Current length of the notification queue",
		},
	)

	ActiveRegistrations = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gymcore_active_registrations",
			Help: "Number of registrations by status",
		},
		[]string{"status"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordRegistration(kind string) {
	RegistrationsTotal.WithLabelValues(kind).Inc()
}

func RecordUpgradeCredit(amount float64) {
	UpgradeCreditAmount.Observe(amount)
}

func RecordPause() {
	RegistrationPausesTotal.Inc()
}

func RecordReactivation() {
	RegistrationReactivationsTotal.Inc()
}

func RecordWorkflowStep(step string) {
	WorkflowStepsTotal.WithLabelValues(step).Inc()
}

func RecordWorkflowCompletion() {
	WorkflowCompletionsTotal.Inc()
}

func RecordWorkflowReset() {
	WorkflowResetsTotal.Inc()
}

func RecordNotification(event, outcome string) {
	NotificationsTotal.WithLabelValues(event, outcome).Inc()
}

func SetNotifyQueueLength(length float64) {
	NotifyQueueLength.Set(length)
}

func SetActiveRegistrations(status string, count float64) {
	ActiveRegistrations.WithLabelValues(status).Set(count)
}
