// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package transport provides event transport implementations for the duel
// notifier. LocalBroker is the in-process implementation used by the debug
// surface and by tests; the managed realtime service is wired in by the
// hosting application behind the same interface.
package transport

import (
	"sync"

	"github.com/mitchellh/copystructure"
	"github.com/sirupsen/logrus"
	"gopkg.in/typ.v4/sync2"

	"github.com/AccelByte/extend-duel-notifier/pkg/common"
	"github.com/AccelByte/extend-duel-notifier/pkg/envelope"
	"github.com/AccelByte/extend-duel-notifier/pkg/notifier"
)

// LocalBroker is an in-memory EventTransport. Emitted records are deep-copied
// before delivery so a caller mutating its map after Emit cannot reach
// subscriber state. Delivery order per subscription matches emit order.
type LocalBroker struct {
	mutex         sync.Mutex
	subscriptions map[string]*localSubscription
	bufferSize    int

	// targetPool holds reusable fan-out slices to reduce garbage collector
	targetPool *sync2.Pool[[]*localSubscription]

	// RefuseSubscribe makes the next Subscribe deliver closed without a
	// preceding subscribed, modeling a subscription that cannot be established.
	RefuseSubscribe bool
}

// NewLocalBroker returns a broker whose subscriptions buffer up to bufferSize
// undelivered events each.
func NewLocalBroker(bufferSize int) *LocalBroker {
	if bufferSize <= 0 {
		bufferSize = 32
	}
	return &LocalBroker{
		subscriptions: map[string]*localSubscription{},
		bufferSize:    bufferSize,
		targetPool: &sync2.Pool[[]*localSubscription]{
			New: func() []*localSubscription {
				return make([]*localSubscription, 0, 4)
			},
		},
	}
}

type localSubscription struct {
	id     string
	userID string
	broker *LocalBroker

	mutex  sync.Mutex
	events chan notifier.TransportEvent
	closed bool
}

func (s *localSubscription) ID() string {
	return s.id
}

func (s *localSubscription) Events() <-chan notifier.TransportEvent {
	return s.events
}

// Unsubscribe delivers closed and closes the event channel. No event is
// delivered on this subscription after it returns.
func (s *localSubscription) Unsubscribe() {
	s.broker.mutex.Lock()
	delete(s.broker.subscriptions, s.id)
	s.broker.mutex.Unlock()

	s.finish()
}

func (s *localSubscription) finish() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.send(notifier.TransportEvent{Kind: notifier.EventClosed})
	close(s.events)
}

// send delivers without blocking. A full buffer means the consumer stopped
// draining, which models realtime delivery being unavailable, so the event
// is dropped.
func (s *localSubscription) send(event notifier.TransportEvent) {
	select {
	case s.events <- event:
	default:
		logrus.WithField("subscriptionID", s.id).Warnf("event buffer full, dropping %s event", event.Kind)
	}
}

func (s *localSubscription) deliver(event notifier.TransportEvent) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return
	}
	s.send(event)
}

// Subscribe opens a stream for the user's duel change events. The subscribed
// acknowledgment is delivered on the event channel before Subscribe returns.
func (b *LocalBroker) Subscribe(scope *envelope.Scope, userID string) (notifier.Subscription, error) {
	subscription := &localSubscription{
		id:     common.GenerateUUID(),
		userID: userID,
		broker: b,
		events: make(chan notifier.TransportEvent, b.bufferSize),
	}
	scope.SetAttributes(envelope.SubscriptionIDTag, subscription.id)
	scope.SetAttributes(envelope.UserIDTag, userID)

	b.mutex.Lock()
	if b.RefuseSubscribe {
		b.RefuseSubscribe = false
		b.mutex.Unlock()
		scope.Log.WithField("subscriptionID", subscription.id).Warn("subscription refused")
		subscription.finish()
		return subscription, nil
	}
	b.subscriptions[subscription.id] = subscription
	b.mutex.Unlock()

	subscription.deliver(notifier.TransportEvent{Kind: notifier.EventSubscribed})
	scope.Log.WithField("subscriptionID", subscription.id).Info("local subscription established")

	return subscription, nil
}

// EmitInsert delivers an insert change event to every subscription for the user.
func (b *LocalBroker) EmitInsert(scope *envelope.Scope, userID string, record notifier.Record) {
	b.emit(scope, userID, notifier.TransportEvent{
		Kind:     notifier.EventInsert,
		Envelope: &notifier.ChangeEnvelope{New: snapshotRecord(record)},
	})
}

// EmitUpdate delivers an update change event, with the prior snapshot when available.
func (b *LocalBroker) EmitUpdate(scope *envelope.Scope, userID string, newRecord, oldRecord notifier.Record) {
	b.emit(scope, userID, notifier.TransportEvent{
		Kind:     notifier.EventUpdate,
		Envelope: &notifier.ChangeEnvelope{New: snapshotRecord(newRecord), Old: snapshotRecord(oldRecord)},
	})
}

// Drop closes every subscription for the user as if the transport failed.
func (b *LocalBroker) Drop(scope *envelope.Scope, userID string) {
	b.mutex.Lock()
	dropped := make([]*localSubscription, 0, len(b.subscriptions))
	for id, subscription := range b.subscriptions {
		if subscription.userID == userID {
			dropped = append(dropped, subscription)
			delete(b.subscriptions, id)
		}
	}
	b.mutex.Unlock()

	for _, subscription := range dropped {
		scope.Log.WithField("subscriptionID", subscription.id).Warn("dropping subscription")
		subscription.finish()
	}
}

// SubscriptionCount returns the number of live subscriptions.
func (b *LocalBroker) SubscriptionCount() int {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return len(b.subscriptions)
}

func (b *LocalBroker) emit(scope *envelope.Scope, userID string, event notifier.TransportEvent) {
	targets := b.targetPool.Get()[:0]
	defer func() {
		// Return the grown slice, not the pre-append header, and drop the
		// subscription pointers so the pool does not pin them.
		for i := range targets {
			targets[i] = nil
		}
		b.targetPool.Put(targets[:0])
	}()

	b.mutex.Lock()
	for _, subscription := range b.subscriptions {
		if subscription.userID == userID {
			targets = append(targets, subscription)
		}
	}
	b.mutex.Unlock()

	if len(targets) == 0 {
		scope.Log.WithField("userID", userID).Debugf("no subscription for user, %s event not delivered", event.Kind)
		return
	}
	for _, subscription := range targets {
		subscription.deliver(event)
	}
}

// snapshotRecord deep-copies a raw record so the emitter cannot mutate it
// after delivery. A record that cannot be copied is delivered as nil and
// dropped downstream by record validation.
func snapshotRecord(record notifier.Record) notifier.Record {
	if record == nil {
		return nil
	}
	copied, err := copystructure.Copy(map[string]interface{}(record))
	if err != nil {
		logrus.Warnf("failed to snapshot record: %v", err)
		return nil
	}
	return notifier.Record(copied.(map[string]interface{}))
}
