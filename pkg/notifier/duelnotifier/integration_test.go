// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package duelnotifier

import (
	"testing"

	"github.com/AccelByte/extend-duel-notifier/pkg/models"
	"github.com/AccelByte/extend-duel-notifier/pkg/testsetup"
	"github.com/AccelByte/extend-duel-notifier/pkg/transport"
	. "github.com/onsi/gomega"
)

// TestDuelNotifier_OverLocalBroker drives a full duel lifecycle through the
// in-process broker instead of the synchronous emit helpers, exercising the
// subscribe ack, the consume loop, and reconnect after a transport drop.
func TestDuelNotifier_OverLocalBroker(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)

	broker := transport.NewLocalBroker(16)
	engine := New(nil, testUserID, broker, testsetup.NewMetrics())

	g.Expect(engine.Connect(g.TestScope)).To(Succeed())
	g.Eventually(engine.IsConnected).Should(BeTrue())
	g.Expect(broker.SubscriptionCount()).To(Equal(1))

	broker.EmitInsert(g.TestScope, testUserID, duelRecord("d1", models.DuelStatusInProgress))
	broker.EmitUpdate(g.TestScope, testUserID, duelRecord("d1", models.DuelStatusInProgress), nil)

	g.Eventually(func() int {
		return len(engine.FilterNotifications(byType(models.NotificationMatchStarted)))
	}).Should(Equal(1))
	g.Consistently(func() int {
		return len(engine.PendingNotifications())
	}).Should(Equal(1))

	// transport drop flips the engine to disconnected
	broker.Drop(g.TestScope, testUserID)
	g.Eventually(engine.IsConnected).Should(BeFalse())
	g.Expect(broker.SubscriptionCount()).To(Equal(0))

	// emits while disconnected never reach the engine
	broker.EmitUpdate(g.TestScope, testUserID, duelRecord("d1", models.DuelStatusEnded), nil)
	g.Consistently(func() int {
		return len(engine.FilterNotifications(byType(models.NotificationMatchEnded)))
	}).Should(Equal(0))

	g.Expect(engine.Reconnect(g.TestScope)).To(Succeed())
	g.Eventually(engine.IsConnected).Should(BeTrue())

	broker.EmitUpdate(g.TestScope, testUserID, duelRecord("d1", models.DuelStatusEnded), duelRecord("d1", models.DuelStatusInProgress))
	g.Eventually(func() int {
		return len(engine.FilterNotifications(byType(models.NotificationMatchEnded)))
	}).Should(Equal(1))
	g.Eventually(func() int {
		return len(engine.FilterNotifications(byType(models.NotificationVerificationReminder)))
	}).Should(Equal(1))

	state, ok := engine.ActiveMatchNotification("d1")
	g.Expect(ok).To(BeTrue())
	g.Expect(state.Status).To(Equal(models.MatchStateEnded))
}
