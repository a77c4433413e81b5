// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package duelnotifier

import (
	"sync"
)

// connectionSupervisor tracks whether the engine's realtime subscription is
// live. Initial state is disconnected; it flips on the subscribed/closed
// lifecycle events of the currently active subscription only, so lifecycle
// events from a stale subscription cannot flip state after a reconnect.
type connectionSupervisor struct {
	mutex       sync.RWMutex
	connected   bool
	activeSubID string
}

func newConnectionSupervisor() *connectionSupervisor {
	return &connectionSupervisor{}
}

// setActiveSubscription nominates the subscription whose lifecycle events are
// authoritative. The state stays disconnected until that subscription acks.
func (s *connectionSupervisor) setActiveSubscription(subscriptionID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.activeSubID = subscriptionID
	s.connected = false
}

// markConnected records the subscribed ack. Acks from stale subscriptions are
// ignored; returns whether the state changed.
func (s *connectionSupervisor) markConnected(subscriptionID string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if subscriptionID != s.activeSubID || s.connected {
		return false
	}
	s.connected = true
	return true
}

// markDisconnected records a closed subscription. Closure of a stale
// subscription is ignored; returns whether the state changed.
func (s *connectionSupervisor) markDisconnected(subscriptionID string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if subscriptionID != s.activeSubID || !s.connected {
		return false
	}
	s.connected = false
	return true
}

// forceDisconnect unconditionally enters the disconnected state and forgets
// the active subscription. Used by simulated connection loss and reset.
func (s *connectionSupervisor) forceDisconnect() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.connected = false
	s.activeSubID = ""
}

// isActiveSubscription reports whether the subscription is the one whose
// events the engine currently honors.
func (s *connectionSupervisor) isActiveSubscription(subscriptionID string) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return subscriptionID == s.activeSubID
}

func (s *connectionSupervisor) isConnected() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.connected
}
