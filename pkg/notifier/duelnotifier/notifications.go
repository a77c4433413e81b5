// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package duelnotifier

import (
	"fmt"

	"github.com/AccelByte/extend-duel-notifier/pkg/constants"
	"github.com/AccelByte/extend-duel-notifier/pkg/models"
)

// recordData maps a validated duel record into the structured payload every
// duel notification carries.
func recordData(record models.DuelRecord) models.NotificationData {
	return models.NotificationData{
		DuelID:       record.ID,
		ChallengerID: record.ChallengerID,
		OpponentID:   record.OpponentID,
		GameType:     record.GameType,
		GameMode:     record.GameMode,
		Action:       record.Action,
		Reason:       record.Reason,
	}
}

func gameLabel(record models.DuelRecord) string {
	if record.GameType == "" {
		return "1v1"
	}
	return record.GameType
}

// notificationContent returns the title, body, and priority for a duel
// notification type. Content strings are what the mobile client displays
// verbatim on the lock screen.
func notificationContent(notificationType models.NotificationType, record models.DuelRecord) (title, body string, priority int) {
	switch notificationType {
	case models.NotificationDuelChallenge:
		return "New Challenge!",
			fmt.Sprintf("You have been challenged to a %s duel", gameLabel(record)),
			constants.PriorityHigh
	case models.NotificationDuelAccepted:
		return "Challenge Accepted",
			fmt.Sprintf("Your %s challenge was accepted", gameLabel(record)),
			constants.PriorityNormal
	case models.NotificationDuelDeclined:
		return "Challenge Declined",
			fmt.Sprintf("Your %s challenge was declined", gameLabel(record)),
			constants.PriorityLow
	case models.NotificationMatchStarted:
		return "Match Started!",
			fmt.Sprintf("Your %s duel is live, good luck!", gameLabel(record)),
			constants.PriorityHigh
	case models.NotificationMatchProgress:
		return "Match In Progress",
			fmt.Sprintf("Your %s duel is still going", gameLabel(record)),
			constants.PriorityLow
	case models.NotificationMatchEnded:
		return "Match Ended",
			fmt.Sprintf("Your %s duel has ended", gameLabel(record)),
			constants.PriorityHigh
	case models.NotificationVerificationReminder:
		return "Submit Your Result",
			"Capture your end screen to verify the match result",
			constants.PriorityHigh
	case models.NotificationVerificationSuccess:
		return "Result Verified",
			fmt.Sprintf("Your %s duel result has been verified", gameLabel(record)),
			constants.PriorityNormal
	case models.NotificationVerificationFailed:
		return "Verification Failed",
			"We could not verify your match result, try submitting again",
			constants.PriorityHigh
	case models.NotificationDuelForfeited:
		return "Duel Forfeited",
			fmt.Sprintf("Your %s duel ended in a forfeit", gameLabel(record)),
			constants.PriorityNormal
	case models.NotificationDuelExpired:
		return "Challenge Expired",
			fmt.Sprintf("Your %s challenge expired before it was answered", gameLabel(record)),
			constants.PriorityLow
	case models.NotificationDispute:
		return "Result Disputed",
			fmt.Sprintf("The result of your %s duel is under dispute", gameLabel(record)),
			constants.PriorityHigh
	default:
		return "1v1 Mobile", "", constants.PriorityNormal
	}
}
