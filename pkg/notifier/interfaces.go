// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package notifier

import (
	"github.com/AccelByte/extend-duel-notifier/pkg/envelope"
	"github.com/AccelByte/extend-duel-notifier/pkg/models"
)

/*
NotificationEngine is a thing that turns a stream of duel change events into a
queue of user-visible notifications. When the engine connects, it subscribes
through the EventTransport for the current user and consumes the typed event
stream in delivery order: lifecycle events drive the connection state, and
insert/update events flow into ReceiveDuelPayload.

ReceiveDuelPayload never returns an error. Malformed records, events received
while disconnected, and re-delivered transitions all degrade to counted no-ops
because at-least-once realtime delivery makes duplicates and gaps normal. The
engine guarantees at most one matchStarted notification per duel and at most
one matchEnded/verificationReminder pair per duel, and tracks distinct duels
independently.
*/
type NotificationEngine interface {
	// Connect subscribes to the transport for the engine's user and starts
	// consuming events. The engine stays Disconnected until the transport
	// acknowledges the subscription.
	Connect(scope *envelope.Scope) error

	// Reconnect re-establishes the subscription after a connection loss.
	// There is no automatic retry; the consumer decides when to call it.
	Reconnect(scope *envelope.Scope) error

	// ReceiveDuelPayload processes one change envelope. No-op while
	// disconnected or when the new record is malformed.
	ReceiveDuelPayload(scope *envelope.Scope, changeEnvelope ChangeEnvelope)

	// EmitRemoteDuelInsert synthesizes an insert envelope and processes it.
	// Debug/test entry point, gated the same way as transport delivery.
	EmitRemoteDuelInsert(scope *envelope.Scope, record Record)

	// EmitRemoteDuelUpdate synthesizes an update envelope and processes it.
	EmitRemoteDuelUpdate(scope *envelope.Scope, newRecord, oldRecord Record)

	// EmitCrossDeviceEvent enqueues a gamification notification (levelUp,
	// achievement) outside the duel change stream.
	EmitCrossDeviceEvent(scope *envelope.Scope, event CrossDeviceEvent)

	// SimulateConnectionLoss forces the engine into the Disconnected state
	// and tears down the active subscription.
	SimulateConnectionLoss(scope *envelope.Scope)

	// IsConnected reports the supervisor's current state.
	IsConnected() bool

	// PendingNotifications returns the queued notifications in insertion order.
	PendingNotifications() []models.PendingNotification

	// FilterNotifications returns the queued notifications matching the predicate,
	// preserving insertion order.
	FilterNotifications(keep func(models.PendingNotification) bool) []models.PendingNotification

	// MarkNotificationRead sets the read flag on a queued notification.
	// Returns false when no notification has the given id.
	MarkNotificationRead(notificationID string) bool

	// ActiveMatchNotification returns the tracked match state for a duel id.
	ActiveMatchNotification(duelID string) (models.MatchNotificationState, bool)

	// ActiveMatchNotifications returns the tracked state of every duel the
	// engine has seen go live, keyed by duel id.
	ActiveMatchNotifications() map[string]models.MatchNotificationState

	// Reset tears down the subscription and clears all local state. Tests use
	// it for isolation; production uses it on sign-out.
	Reset(scope *envelope.Scope)
}

// EventTransport provides a mechanism for the engine to receive duel change
// events for a user. Implementations are swappable; production backs onto the
// managed realtime service, tests use the in-memory broker.
type EventTransport interface {
	// Subscribe opens a change event stream for duels involving the user.
	// The returned subscription delivers events in upstream order on a
	// single channel. No ordering holds across distinct subscriptions.
	Subscribe(scope *envelope.Scope, userID string) (Subscription, error)
}

// Subscription is one live event stream obtained from an EventTransport.
type Subscription interface {
	// ID identifies this subscription for logging and unsubscribe bookkeeping.
	ID() string

	// Events returns the stream. The channel is closed after EventClosed is
	// delivered; no events arrive after Unsubscribe returns.
	Events() <-chan TransportEvent

	// Unsubscribe stops delivery and closes the event channel.
	Unsubscribe()
}
