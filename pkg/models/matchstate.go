// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package models

import (
	"time"
)

// MatchState is the locally-tracked lifecycle stage of a duel the engine has
// seen go live. It is narrower than DuelStatus: the engine only tracks duels
// from the moment they enter play.
type MatchState string

const (
	MatchStateInProgress MatchState = "inProgress"
	MatchStateEnded      MatchState = "ended"
	MatchStateCompleted  MatchState = "completed"
	MatchStateForfeited  MatchState = "forfeited"
)

// IsTerminal returns true once the match can accept no further transitions.
func (s MatchState) IsTerminal() bool {
	return s == MatchStateEnded || s == MatchStateCompleted || s == MatchStateForfeited
}

// MatchNotificationState tracks one duel's match lifecycle from the engine's
// perspective. Entries are created on the first in-progress snapshot, mutated
// on later events for the same duel id, and kept after reaching a terminal
// state for historical display. Re-delivery of a terminal status is a no-op.
type MatchNotificationState struct {
	DuelID       string
	GameType     string
	Status       MatchState
	StartTime    time.Time
	EndTime      *time.Time
	LastPingTime *time.Time
	PingCount    int

	// VerificationNotified records that a verificationSuccess or
	// verificationFailed notification already went out for this duel, so a
	// re-delivered verification update cannot notify twice.
	VerificationNotified bool
}
