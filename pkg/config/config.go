// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

type Config struct {
	PingNotifyMinIntervalSecond      int  `env:"PING_NOTIFY_MIN_INTERVAL_SECOND"      envDefault:"0"     envDocs:"minimum gap between matchProgress ping notifications per duel in second (0 disables ping notifications)"`
	NotificationExpirySecond         int  `env:"NOTIFICATION_EXPIRY_SECOND"           envDefault:"86400" envDocs:"how long a pending notification stays valid before its expiry timestamp in second"`
	VerificationReminderDelaySecond  int  `env:"VERIFICATION_REMINDER_DELAY_SECOND"   envDefault:"0"     envDocs:"delay applied to the verificationReminder scheduled-for timestamp after a match ends in second"`
	EventChannelBufferSize           int  `env:"EVENT_CHANNEL_BUFFER_SIZE"            envDefault:"32"    envDocs:"buffer size of the per-subscription event channel"`
	NotifyChallengeOpponentOnly      bool `env:"NOTIFY_CHALLENGE_OPPONENT_ONLY"       envDefault:"true"  envDocs:"if true duelChallenge notifications target only the opponent, not both participants"`
}
