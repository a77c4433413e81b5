// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package constants

import "time"

const (
	// SubscribeAckTimeLimit is how long a consumer waits for the subscribed
	// acknowledgment before treating the subscription as failed.
	SubscribeAckTimeLimit = 10 * time.Second
)

const (
	ReceivePayloadFunction = "receiveDuelPayload"
	CrossDeviceFunction    = "emitCrossDeviceEvent"
	SubscribeFunction      = "subscribe"
)

const (
	// Drop reason constants.
	DropReasonDisconnected        = "drop_disconnected"
	DropReasonMissingDuelID       = "drop_missing_duel_id"
	DropReasonMissingStatus       = "drop_missing_status"
	DropReasonUnknownStatus       = "drop_unknown_status"
	DropReasonTerminalState       = "drop_terminal_state"
	DropReasonDuplicateTransition = "drop_duplicate_transition"
	DropReasonCancelled           = "drop_cancelled"
	DropReasonPingThrottled       = "drop_ping_throttled"
	DropReasonStaleVerification   = "drop_stale_verification"
	DropReasonStaleSubscription   = "drop_stale_subscription"
)

const (
	// Record action values carried in the realtime payload.
	ActionPing = "ping"
)

const (
	PriorityLow    = 0
	PriorityNormal = 1
	PriorityHigh   = 2
)
