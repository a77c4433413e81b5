// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package models

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// NotificationType enumerates every user-visible notification the engine can
// produce. Values match the raw values the mobile client already stores, so
// they stay camelCase on the wire.
type NotificationType string

const (
	NotificationDuelChallenge        NotificationType = "duelChallenge"
	NotificationDuelAccepted         NotificationType = "duelAccepted"
	NotificationDuelDeclined         NotificationType = "duelDeclined"
	NotificationMatchStarted         NotificationType = "matchStarted"
	NotificationMatchProgress        NotificationType = "matchProgress"
	NotificationMatchEnded           NotificationType = "matchEnded"
	NotificationVerificationReminder NotificationType = "verificationReminder"
	NotificationVerificationSuccess  NotificationType = "verificationSuccess"
	NotificationVerificationFailed   NotificationType = "verificationFailed"
	NotificationDuelForfeited        NotificationType = "duelForfeited"
	NotificationDuelExpired          NotificationType = "duelExpired"
	NotificationMatchTimeout         NotificationType = "matchTimeout"
	NotificationDispute              NotificationType = "dispute"
	NotificationLevelUp              NotificationType = "levelUp"
	NotificationAchievement          NotificationType = "achievement"
)

// NotificationData is the structured payload attached to a notification.
// All fields are optional; which ones are set depends on the type.
type NotificationData struct {
	DuelID       string `json:"duelId,omitempty"`
	ChallengerID string `json:"challengerId,omitempty"`
	OpponentID   string `json:"opponentId,omitempty"`
	GameType     string `json:"gameType,omitempty"`
	GameMode     string `json:"gameMode,omitempty"`
	Action       string `json:"action,omitempty"`
	Reason       string `json:"reason,omitempty"`
	IsWinner     *bool  `json:"isWinner,omitempty"`
	NewLevel     int    `json:"newLevel,omitempty"`
	PingNumber   int    `json:"pingNumber,omitempty"`
}

// PendingNotification is one queued user-visible notification awaiting
// delivery. The id is a ULID so ids sort in insertion order.
type PendingNotification struct {
	ID           string
	UserID       string
	Type         NotificationType
	Title        string
	Body         string
	Data         NotificationData
	ScheduledFor time.Time
	ExpiresAt    time.Time
	Read         bool
	DeliveredAt  *time.Time
	Priority     int
}

// NewPendingNotification builds a notification scheduled for now.
func NewPendingNotification(userID string, notificationType NotificationType, title, body string, data NotificationData, expiry time.Duration, priority int) PendingNotification {
	now := time.Now().UTC()
	return PendingNotification{
		ID:           ulid.Make().String(),
		UserID:       userID,
		Type:         notificationType,
		Title:        title,
		Body:         body,
		Data:         data,
		ScheduledFor: now,
		ExpiresAt:    now.Add(expiry),
		Priority:     priority,
	}
}

// IsExpired reports whether the notification's validity window has passed.
// Expired entries stay in the queue; the consumer decides whether to show them.
func (n PendingNotification) IsExpired(now time.Time) bool {
	return now.After(n.ExpiresAt)
}
