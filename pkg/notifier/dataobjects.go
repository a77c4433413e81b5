// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package notifier provides the core interfaces and data structures for the
// duel notification engine in the AccelByte extend-duel-notifier system.
package notifier

import (
	"github.com/AccelByte/extend-duel-notifier/pkg/models"
)

// Record is a raw duel row snapshot as delivered by the realtime transport.
// Field names and value types are owned by the backend; records are validated
// into models.DuelRecord before any engine logic touches them.
type Record map[string]interface{}

// EventKind discriminates the typed events a subscription delivers.
type EventKind string

const (
	// EventSubscribed signals the subscription is established and live.
	EventSubscribed EventKind = "subscribed"
	// EventClosed signals the subscription ended, either by an explicit
	// unsubscribe or a transport failure. Delivered without a preceding
	// EventSubscribed when the subscription could not be established.
	EventClosed EventKind = "closed"
	// EventInsert carries a newly inserted duel row.
	EventInsert EventKind = "insert"
	// EventUpdate carries an updated duel row, with the prior snapshot when
	// the transport has it.
	EventUpdate EventKind = "update"
)

// ChangeEnvelope wraps the record snapshots of one change event. Old is nil
// for inserts and for updates where the transport did not retain the prior row.
type ChangeEnvelope struct {
	New Record
	Old Record
}

// TransportEvent is one element of a subscription's event stream. Envelope is
// nil for the subscribed/closed lifecycle kinds.
type TransportEvent struct {
	Kind     EventKind
	Envelope *ChangeEnvelope
}

// CrossDeviceEvent is a gamification event synthesized outside the duel
// change stream, used for levelUp and achievement notifications.
type CrossDeviceEvent struct {
	UserID      string
	Type        models.NotificationType
	Title       string
	Body        string
	NewLevel    int
	Achievement string
}
