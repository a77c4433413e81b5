// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type prometheusMetrics struct {
	activeDuels           prometheus.GaugeVec
	notificationsEnqueued prometheus.CounterVec
	eventsDropped         prometheus.CounterVec
	functionElapsedTime   prometheus.HistogramVec
}

func setupPrometheusMetrics(registry *prometheus.Registry) prometheusMetrics {
	factory := promauto.With(registry)

	activeDuels := factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ab_dueln_active_duels",
			Help: "A gauge of duels currently tracked as in progress per user",
		}, []string{"user_id"})

	notificationsEnqueued := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ab_dueln_notifications_enqueued",
			Help: "A counter of pending notifications enqueued by type",
		}, []string{"user_id", "type"})

	eventsDropped := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ab_dueln_events_dropped",
			Help: "A counter of change events dropped before processing, by reason",
		}, []string{"user_id", "reason"})

	//nolint:promlinter
	functionElapsedTime := factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ab_dueln_function_elapsed_time_ms",
			Help:    "A histogram of engine entry point elapsed time in milliseconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}, []string{"user_id", "function"})

	return prometheusMetrics{
		activeDuels:           *activeDuels,
		notificationsEnqueued: *notificationsEnqueued,
		eventsDropped:         *eventsDropped,
		functionElapsedTime:   *functionElapsedTime,
	}
}

func (metrics prometheusMetrics) ActiveDuels(userID string, count int) {
	metrics.activeDuels.With(prometheus.Labels{"user_id": userID}).Set(float64(count))
}

func (metrics prometheusMetrics) NotificationEnqueued(userID string, notificationType string) {
	metrics.notificationsEnqueued.With(prometheus.Labels{"user_id": userID, "type": notificationType}).Add(float64(1))
}

func (metrics prometheusMetrics) EventDropped(userID string, reason string) {
	metrics.eventsDropped.With(prometheus.Labels{"user_id": userID, "reason": reason}).Add(float64(1))
}

func (metrics prometheusMetrics) AddFunctionElapsedTimeMs(userID, function string, elapsedTime time.Duration) {
	metrics.functionElapsedTime.With(prometheus.Labels{"user_id": userID, "function": function}).Observe(float64(elapsedTime.Milliseconds()))
}
