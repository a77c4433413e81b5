// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package testsetup

import (
	"sync"
	"time"

	"github.com/AccelByte/extend-duel-notifier/pkg/common"
	"github.com/AccelByte/extend-duel-notifier/pkg/envelope"
	"github.com/AccelByte/extend-duel-notifier/pkg/notifier"
)

// StubEventTransport replays a scripted event sequence on subscribe. The
// subscribed ack is delivered first unless SkipSubscribedAck is set, which
// models a subscription that never establishes.
type StubEventTransport struct {
	Events            []notifier.TransportEvent
	PerEventDelay     time.Duration
	SkipSubscribedAck bool
}

func (s StubEventTransport) Subscribe(scope *envelope.Scope, userID string) (notifier.Subscription, error) {
	subscription := &stubSubscription{
		id:     common.GenerateUUID(),
		events: make(chan notifier.TransportEvent),
		stop:   make(chan struct{}),
	}
	go subscription.replay(s)
	return subscription, nil
}

type stubSubscription struct {
	id     string
	events chan notifier.TransportEvent
	stop   chan struct{}
	once   sync.Once
}

// replay feeds the scripted events until the script runs out or Unsubscribe
// stops it, then closes the event channel.
func (s *stubSubscription) replay(transport StubEventTransport) {
	defer close(s.events)

	if !transport.SkipSubscribedAck {
		if !s.deliver(notifier.TransportEvent{Kind: notifier.EventSubscribed}) {
			return
		}
	}
	for _, event := range transport.Events {
		if transport.PerEventDelay > 0 {
			select {
			case <-time.After(transport.PerEventDelay):
			case <-s.stop:
				return
			}
		}
		if !s.deliver(event) {
			return
		}
	}
}

func (s *stubSubscription) deliver(event notifier.TransportEvent) bool {
	select {
	case s.events <- event:
		return true
	case <-s.stop:
		return false
	}
}

func (s *stubSubscription) ID() string {
	return s.id
}

func (s *stubSubscription) Events() <-chan notifier.TransportEvent {
	return s.events
}

// Unsubscribe stops the replay goroutine and lets it close the event channel.
func (s *stubSubscription) Unsubscribe() {
	s.once.Do(func() {
		close(s.stop)
	})
}
