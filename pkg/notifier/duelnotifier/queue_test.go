// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package duelnotifier

import (
	"testing"
	"time"

	"github.com/AccelByte/extend-duel-notifier/pkg/constants"
	"github.com/AccelByte/extend-duel-notifier/pkg/models"
	"github.com/AccelByte/extend-duel-notifier/pkg/testsetup"
	. "github.com/onsi/gomega"
)

func queuedNotification(notificationType models.NotificationType, duelID string) models.PendingNotification {
	return models.NewPendingNotification("u1", notificationType, "title", "body",
		models.NotificationData{DuelID: duelID}, time.Hour, constants.PriorityNormal)
}

func TestNotificationQueue_PreservesInsertionOrder(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)

	queue := newNotificationQueue()
	queue.append(queuedNotification(models.NotificationMatchStarted, "d1"))
	queue.append(queuedNotification(models.NotificationMatchEnded, "d1"))
	queue.append(queuedNotification(models.NotificationMatchStarted, "d2"))

	all := queue.all()
	g.Expect(len(all)).To(Equal(3))
	g.Expect(all[0].Type).To(Equal(models.NotificationMatchStarted))
	g.Expect(all[1].Type).To(Equal(models.NotificationMatchEnded))
	g.Expect(all[2].Data.DuelID).To(Equal("d2"))
	g.Expect(queue.length()).To(Equal(3))
}

func TestNotificationQueue_AllReturnsACopy(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)

	queue := newNotificationQueue()
	queue.append(queuedNotification(models.NotificationMatchStarted, "d1"))

	all := queue.all()
	all[0].Read = true

	g.Expect(queue.all()[0].Read).To(BeFalse())
}

func TestNotificationQueue_Filter(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)

	queue := newNotificationQueue()
	queue.append(queuedNotification(models.NotificationMatchStarted, "d1"))
	queue.append(queuedNotification(models.NotificationMatchEnded, "d1"))
	queue.append(queuedNotification(models.NotificationMatchStarted, "d2"))

	started := queue.filter(func(n models.PendingNotification) bool {
		return n.Type == models.NotificationMatchStarted
	})
	g.Expect(len(started)).To(Equal(2))
	g.Expect(started[0].Data.DuelID).To(Equal("d1"))
	g.Expect(started[1].Data.DuelID).To(Equal("d2"))
}

func TestNotificationQueue_MarkReadKeepsEntry(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)

	queue := newNotificationQueue()
	notification := queuedNotification(models.NotificationMatchStarted, "d1")
	queue.append(notification)

	g.Expect(queue.markRead(notification.ID)).To(BeTrue())
	g.Expect(queue.markRead("missing")).To(BeFalse())

	all := queue.all()
	g.Expect(len(all)).To(Equal(1))
	g.Expect(all[0].Read).To(BeTrue())
}

func TestNotificationQueue_ULIDsSortInInsertionOrder(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)

	queue := newNotificationQueue()
	for i := 0; i < 5; i++ {
		queue.append(queuedNotification(models.NotificationMatchStarted, "d1"))
	}

	all := queue.all()
	for i := 1; i < len(all); i++ {
		g.Expect(all[i-1].ID < all[i].ID).To(BeTrue())
	}
}
