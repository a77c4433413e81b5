// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package transport

import (
	"testing"

	"github.com/AccelByte/extend-duel-notifier/pkg/notifier"
	"github.com/AccelByte/extend-duel-notifier/pkg/testsetup"
	. "github.com/onsi/gomega"
)

func TestLocalBroker_SubscribeDeliversAckFirst(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)

	broker := NewLocalBroker(8)
	subscription, err := broker.Subscribe(g.TestScope, "u1")
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(subscription.ID()).ToNot(BeEmpty())
	g.Expect(broker.SubscriptionCount()).To(Equal(1))

	event := <-subscription.Events()
	g.Expect(event.Kind).To(Equal(notifier.EventSubscribed))
}

func TestLocalBroker_DeliversInEmitOrderToMatchingUserOnly(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)

	broker := NewLocalBroker(8)
	mine, _ := broker.Subscribe(g.TestScope, "u1")
	other, _ := broker.Subscribe(g.TestScope, "u2")

	g.Expect((<-mine.Events()).Kind).To(Equal(notifier.EventSubscribed))
	g.Expect((<-other.Events()).Kind).To(Equal(notifier.EventSubscribed))

	broker.EmitInsert(g.TestScope, "u1", notifier.Record{"id": "d1", "status": "proposed"})
	broker.EmitUpdate(g.TestScope, "u1", notifier.Record{"id": "d1", "status": "in_progress"}, notifier.Record{"id": "d1", "status": "proposed"})

	first := <-mine.Events()
	g.Expect(first.Kind).To(Equal(notifier.EventInsert))
	g.Expect(first.Envelope.New["status"]).To(Equal("proposed"))

	second := <-mine.Events()
	g.Expect(second.Kind).To(Equal(notifier.EventUpdate))
	g.Expect(second.Envelope.New["status"]).To(Equal("in_progress"))
	g.Expect(second.Envelope.Old["status"]).To(Equal("proposed"))

	// the other user's stream saw nothing
	g.Expect(len(other.Events())).To(Equal(0))
}

func TestLocalBroker_DeepCopiesEmittedRecords(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)

	broker := NewLocalBroker(8)
	subscription, _ := broker.Subscribe(g.TestScope, "u1")
	<-subscription.Events() // subscribed

	record := notifier.Record{"id": "d1", "status": "proposed"}
	broker.EmitInsert(g.TestScope, "u1", record)
	record["status"] = "cancelled"

	event := <-subscription.Events()
	g.Expect(event.Envelope.New["status"]).To(Equal("proposed"))
}

func TestLocalBroker_UnsubscribeClosesStream(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)

	broker := NewLocalBroker(8)
	subscription, _ := broker.Subscribe(g.TestScope, "u1")
	<-subscription.Events() // subscribed

	subscription.Unsubscribe()
	g.Expect(broker.SubscriptionCount()).To(Equal(0))

	event, open := <-subscription.Events()
	g.Expect(open).To(BeTrue())
	g.Expect(event.Kind).To(Equal(notifier.EventClosed))

	_, open = <-subscription.Events()
	g.Expect(open).To(BeFalse())

	// emits after unsubscribe never reach the stream
	broker.EmitInsert(g.TestScope, "u1", notifier.Record{"id": "d1", "status": "proposed"})
}

func TestLocalBroker_DropClosesUserSubscriptions(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)

	broker := NewLocalBroker(8)
	mine, _ := broker.Subscribe(g.TestScope, "u1")
	other, _ := broker.Subscribe(g.TestScope, "u2")
	<-mine.Events()
	<-other.Events()

	broker.Drop(g.TestScope, "u1")
	g.Expect(broker.SubscriptionCount()).To(Equal(1))

	event := <-mine.Events()
	g.Expect(event.Kind).To(Equal(notifier.EventClosed))
	_, open := <-mine.Events()
	g.Expect(open).To(BeFalse())

	g.Expect(len(other.Events())).To(Equal(0))
}

func TestLocalBroker_RefuseSubscribeDeliversClosedWithoutAck(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)

	broker := NewLocalBroker(8)
	broker.RefuseSubscribe = true

	subscription, err := broker.Subscribe(g.TestScope, "u1")
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(broker.SubscriptionCount()).To(Equal(0))

	event := <-subscription.Events()
	g.Expect(event.Kind).To(Equal(notifier.EventClosed))
	_, open := <-subscription.Events()
	g.Expect(open).To(BeFalse())

	// the flag is one-shot
	retry, _ := broker.Subscribe(g.TestScope, "u1")
	g.Expect((<-retry.Events()).Kind).To(Equal(notifier.EventSubscribed))
}

func TestLocalBroker_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)

	broker := NewLocalBroker(1)
	subscription, _ := broker.Subscribe(g.TestScope, "u1")

	// the subscribed ack occupies the single buffer slot, so both emits drop
	broker.EmitInsert(g.TestScope, "u1", notifier.Record{"id": "d1", "status": "proposed"})
	broker.EmitInsert(g.TestScope, "u1", notifier.Record{"id": "d2", "status": "proposed"})

	g.Expect((<-subscription.Events()).Kind).To(Equal(notifier.EventSubscribed))
	g.Expect(len(subscription.Events())).To(Equal(0))
}

func TestLocalBroker_FanOutBeyondPooledCapacity(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)

	broker := NewLocalBroker(4)
	subscriptions := make([]notifier.Subscription, 0, 6)
	for i := 0; i < 6; i++ {
		subscription, err := broker.Subscribe(g.TestScope, "u1")
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect((<-subscription.Events()).Kind).To(Equal(notifier.EventSubscribed))
		subscriptions = append(subscriptions, subscription)
	}

	// two emits so the second reuses the pooled slice the first one grew
	broker.EmitInsert(g.TestScope, "u1", notifier.Record{"id": "d1", "status": "proposed"})
	broker.EmitInsert(g.TestScope, "u1", notifier.Record{"id": "d2", "status": "proposed"})

	for _, subscription := range subscriptions {
		g.Expect((<-subscription.Events()).Envelope.New["id"]).To(Equal("d1"))
		g.Expect((<-subscription.Events()).Envelope.New["id"]).To(Equal("d2"))
	}
}
