// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package models provides the data structures shared by the duel notifier
// engine, its state store, and the transport boundary.
package models

import (
	"time"

	"github.com/AccelByte/extend-duel-notifier/pkg/utils"
)

// DuelStatus is the status carried by a duel row on the backend. The
// notifier receives these as snapshots through change events and never
// writes them back.
type DuelStatus string

const (
	DuelStatusProposed   DuelStatus = "proposed"
	DuelStatusAccepted   DuelStatus = "accepted"
	DuelStatusDeclined   DuelStatus = "declined"
	DuelStatusInProgress DuelStatus = "in_progress"
	DuelStatusEnded      DuelStatus = "ended"
	DuelStatusCompleted  DuelStatus = "completed"
	DuelStatusCancelled  DuelStatus = "cancelled"
	DuelStatusExpired    DuelStatus = "expired"
	DuelStatusDisputed   DuelStatus = "disputed"
	DuelStatusForfeited  DuelStatus = "forfeited"
)

// knownDuelStatuses is the set of statuses the backend is allowed to deliver.
var knownDuelStatuses = []DuelStatus{
	DuelStatusProposed,
	DuelStatusAccepted,
	DuelStatusDeclined,
	DuelStatusInProgress,
	DuelStatusEnded,
	DuelStatusCompleted,
	DuelStatusCancelled,
	DuelStatusExpired,
	DuelStatusDisputed,
	DuelStatusForfeited,
}

// IsTerminal returns true when no further engine-relevant transitions are
// expected for a duel in this status.
func (s DuelStatus) IsTerminal() bool {
	switch s {
	case DuelStatusEnded, DuelStatusCompleted, DuelStatusForfeited,
		DuelStatusCancelled, DuelStatusExpired, DuelStatusDeclined:
		return true
	}
	return false
}

// VerificationStatus is the proof-verification state attached to an ended duel.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationFailed   VerificationStatus = "failed"
)

// DuelRecord is the validated form of a raw duel row snapshot. Raw records
// arrive as string-keyed maps from the realtime transport; ParseDuelRecord is
// the only place those maps are read.
type DuelRecord struct {
	ID                 string
	Status             DuelStatus
	ChallengerID       string
	OpponentID         string
	GameType           string
	GameMode           string
	Action             string
	Reason             string
	WinnerID           string
	VerificationStatus VerificationStatus
	PingNumber         int
	UpdatedAt          time.Time
}

// ParseDuelRecord validates a raw record snapshot at the transport boundary.
// Missing id or status makes the record unusable and returns a validation
// error; every other field is optional because the upstream event shape is
// not contractually guaranteed.
func ParseDuelRecord(raw map[string]interface{}) (DuelRecord, error) {
	record := DuelRecord{}

	record.ID = utils.GetMapValueString(raw, "id")
	if record.ID == "" {
		return record, ValidationErrorMissingDuelID
	}

	status := utils.GetMapValueString(raw, "status")
	if status == "" {
		return record, ValidationErrorMissingStatus
	}
	record.Status = DuelStatus(status)
	if !utils.Contains(knownDuelStatuses, record.Status) {
		return record, ValidationErrorUnknownStatus
	}

	record.ChallengerID = utils.GetMapValueString(raw, "challenger_id")
	record.OpponentID = utils.GetMapValueString(raw, "opponent_id")
	record.GameType = utils.GetMapValueString(raw, "game_type")
	record.GameMode = utils.GetMapValueString(raw, "game_mode")
	record.Action = utils.GetMapValueString(raw, "action")
	record.Reason = utils.GetMapValueString(raw, "reason")
	record.WinnerID = utils.GetMapValueString(raw, "winner_id")
	record.VerificationStatus = VerificationStatus(utils.GetMapValueString(raw, "verification_status"))

	if ping, ok := utils.GetMapValueInt(raw, "ping_number"); ok {
		record.PingNumber = ping
	}
	if ts, ok := utils.GetMapValueTime(raw, "updated_at"); ok {
		record.UpdatedAt = ts
	}

	return record, nil
}

// Participants returns the non-empty participant ids of the duel.
func (r DuelRecord) Participants() []string {
	ids := make([]string, 0, 2)
	if r.ChallengerID != "" {
		ids = append(ids, r.ChallengerID)
	}
	if r.OpponentID != "" {
		ids = append(ids, r.OpponentID)
	}
	return ids
}
