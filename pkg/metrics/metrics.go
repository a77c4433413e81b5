// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type DuelNotifyMetrics interface {
	ActiveDuels(userID string, count int)
	NotificationEnqueued(userID string, notificationType string)
	EventDropped(userID string, reason string)
	AddFunctionElapsedTimeMs(userID, function string, elapsedTime time.Duration)
}

func NewMetrics(registry *prometheus.Registry) DuelNotifyMetrics {
	return setupPrometheusMetrics(registry)
}
