// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package testsetup

import (
	"time"

	"github.com/AccelByte/extend-duel-notifier/pkg/metrics"
)

type stubMetricsCollection struct{}

func (s stubMetricsCollection) ActiveDuels(userID string, count int) {
}

func (s stubMetricsCollection) NotificationEnqueued(userID string, notificationType string) {
}

func (s stubMetricsCollection) EventDropped(userID string, reason string) {
}

func (s stubMetricsCollection) AddFunctionElapsedTimeMs(userID, function string, elapsedTime time.Duration) {
}

func NewMetrics() metrics.DuelNotifyMetrics {
	return stubMetricsCollection{}
}
