// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package duelnotifier

import (
	"sync"

	pie "github.com/elliotchance/pie/v2"

	"github.com/AccelByte/extend-duel-notifier/pkg/models"
)

// notificationQueue is the append-only pending notification queue. Insertion
// order is preserved; mark-as-read flips a flag without removing the entry.
// Eviction and expiry cleanup belong to the consumer, not the queue.
type notificationQueue struct {
	mutex sync.RWMutex
	items []models.PendingNotification
}

func newNotificationQueue() *notificationQueue {
	return &notificationQueue{}
}

func (q *notificationQueue) append(notification models.PendingNotification) {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	q.items = append(q.items, notification)
}

// all returns the queued notifications in insertion order.
func (q *notificationQueue) all() []models.PendingNotification {
	q.mutex.RLock()
	defer q.mutex.RUnlock()
	result := make([]models.PendingNotification, len(q.items))
	copy(result, q.items)
	return result
}

// filter returns the queued notifications matching keep, in insertion order.
func (q *notificationQueue) filter(keep func(models.PendingNotification) bool) []models.PendingNotification {
	q.mutex.RLock()
	defer q.mutex.RUnlock()
	return pie.Filter(q.items, keep)
}

// markRead sets the read flag on the notification with the given id.
func (q *notificationQueue) markRead(notificationID string) bool {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	for i := range q.items {
		if q.items[i].ID == notificationID {
			q.items[i].Read = true
			return true
		}
	}
	return false
}

func (q *notificationQueue) length() int {
	q.mutex.RLock()
	defer q.mutex.RUnlock()
	return len(q.items)
}

func (q *notificationQueue) clear() {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	q.items = nil
}
