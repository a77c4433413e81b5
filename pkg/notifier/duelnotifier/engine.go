// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package duelnotifier provides the default implementation of the
// NotificationEngine interface. This package contains the duel lifecycle
// state machine that turns raw change events into pending notifications.
package duelnotifier

import (
	"sync"
	"time"

	"github.com/AccelByte/extend-duel-notifier/pkg/common"
	"github.com/AccelByte/extend-duel-notifier/pkg/config"
	"github.com/AccelByte/extend-duel-notifier/pkg/constants"
	"github.com/AccelByte/extend-duel-notifier/pkg/envelope"
	"github.com/AccelByte/extend-duel-notifier/pkg/metrics"
	"github.com/AccelByte/extend-duel-notifier/pkg/models"
	"github.com/AccelByte/extend-duel-notifier/pkg/notifier"
)

// duelNotifier implements the NotificationEngine interface. One instance
// serves one signed-in user; tests construct a fresh instance per case
// instead of sharing a process-wide engine.
type duelNotifier struct {
	cfg               *config.Config
	userID            string
	transport         notifier.EventTransport
	metricsCollection metrics.DuelNotifyMetrics

	supervisor *connectionSupervisor
	store      *duelStateStore
	queue      *notificationQueue

	// lastStatus remembers the most recent backend status seen per duel id,
	// covering the pre-match phase (proposed/accepted/declined) that has no
	// MatchNotificationState entry yet. It is what makes re-delivered
	// pre-match snapshots no-ops.
	lastStatus map[string]models.DuelStatus

	// processMutex serializes event processing so a read-modify-write for one
	// duel id never interleaves with another event.
	processMutex sync.Mutex
	subMutex     sync.Mutex
	subscription notifier.Subscription
}

// New returns a duelNotifier of the NotificationEngine interface.
// This is the main constructor for creating a new engine instance.
func New(cfg *config.Config, userID string, transport notifier.EventTransport, metricsCollection metrics.DuelNotifyMetrics) notifier.NotificationEngine {
	if cfg == nil {
		cfg = &config.Config{NotificationExpirySecond: 86400, EventChannelBufferSize: 32, NotifyChallengeOpponentOnly: true}
	}
	return &duelNotifier{
		cfg:               cfg,
		userID:            userID,
		transport:         transport,
		metricsCollection: metricsCollection,
		supervisor:        newConnectionSupervisor(),
		store:             newDuelStateStore(),
		queue:             newNotificationQueue(),
		lastStatus:        map[string]models.DuelStatus{},
	}
}

// Connect subscribes to the transport and starts the consume loop. Any
// previous subscription is torn down first so events never arrive on two
// streams at once.
func (e *duelNotifier) Connect(rootScope *envelope.Scope) error {
	scope := rootScope.NewChildScope("duelNotifier.Connect")
	defer scope.Finish()

	startTime := time.Now()
	defer func() {
		e.metricsCollection.AddFunctionElapsedTimeMs(e.userID, constants.SubscribeFunction, time.Since(startTime))
	}()

	e.teardownSubscription()

	subscription, err := e.transport.Subscribe(scope, e.userID)
	if err != nil {
		scope.Log.WithField("userID", e.userID).Errorf("failed to subscribe: %v", err)
		return err
	}

	e.subMutex.Lock()
	e.subscription = subscription
	e.supervisor.setActiveSubscription(subscription.ID())
	e.subMutex.Unlock()

	go e.consume(scope, subscription)

	scope.Log.WithField("subscriptionID", subscription.ID()).Info("NOTIFIER: subscription started")

	return nil
}

// Reconnect re-subscribes after a connection loss. The caller decides when,
// typically on app foreground resume; the engine never retries on its own.
func (e *duelNotifier) Reconnect(rootScope *envelope.Scope) error {
	scope := rootScope.NewChildScope("duelNotifier.Reconnect")
	defer scope.Finish()

	scope.Log.Info("NOTIFIER: reconnect requested")

	return e.Connect(scope)
}

// SimulateConnectionLoss forces the disconnected state and tears down the
// active subscription. Events arriving afterwards are dropped until Reconnect.
func (e *duelNotifier) SimulateConnectionLoss(rootScope *envelope.Scope) {
	scope := rootScope.NewChildScope("duelNotifier.SimulateConnectionLoss")
	defer scope.Finish()

	e.supervisor.forceDisconnect()
	e.teardownSubscription()

	scope.Log.Warn("NOTIFIER: connection loss simulated")
}

func (e *duelNotifier) IsConnected() bool {
	return e.supervisor.isConnected()
}

// Reset tears down the subscription and clears all local state.
func (e *duelNotifier) Reset(rootScope *envelope.Scope) {
	scope := rootScope.NewChildScope("duelNotifier.Reset")
	defer scope.Finish()

	e.supervisor.forceDisconnect()
	e.teardownSubscription()

	e.processMutex.Lock()
	e.store.clear()
	e.queue.clear()
	e.lastStatus = map[string]models.DuelStatus{}
	e.processMutex.Unlock()

	e.metricsCollection.ActiveDuels(e.userID, 0)
	scope.Log.Info("NOTIFIER: state reset")
}

func (e *duelNotifier) teardownSubscription() {
	e.subMutex.Lock()
	subscription := e.subscription
	e.subscription = nil
	e.subMutex.Unlock()

	if subscription != nil {
		subscription.Unsubscribe()
	}
}

// consume drains one subscription's event stream in delivery order. The loop
// exits when the transport closes the channel.
func (e *duelNotifier) consume(scope *envelope.Scope, subscription notifier.Subscription) {
	for event := range subscription.Events() {
		switch event.Kind {
		case notifier.EventSubscribed:
			if e.supervisor.markConnected(subscription.ID()) {
				scope.Log.WithField("subscriptionID", subscription.ID()).Info("NOTIFIER: connected")
			}
		case notifier.EventClosed:
			if e.supervisor.markDisconnected(subscription.ID()) {
				scope.Log.WithField("subscriptionID", subscription.ID()).Warn("NOTIFIER: subscription closed")
			}
		case notifier.EventInsert, notifier.EventUpdate:
			if event.Envelope == nil {
				continue
			}
			// A torn-down subscription whose stream is still draining must
			// not feed a reconnected engine.
			if !e.supervisor.isActiveSubscription(subscription.ID()) {
				e.metricsCollection.EventDropped(e.userID, constants.DropReasonStaleSubscription)
				scope.Log.WithField("subscriptionID", subscription.ID()).Debug("change event from stale subscription, dropping")
				continue
			}
			e.ReceiveDuelPayload(scope, *event.Envelope)
		}
	}
}

// ReceiveDuelPayload processes one change envelope through the duel state
// machine. All failure conditions degrade to counted no-ops: the notification
// stream stays available even when upstream delivery misbehaves.
func (e *duelNotifier) ReceiveDuelPayload(rootScope *envelope.Scope, changeEnvelope notifier.ChangeEnvelope) {
	scope := rootScope.NewChildScope("duelNotifier.ReceiveDuelPayload")
	defer scope.Finish()

	startTime := time.Now()
	defer func() {
		e.metricsCollection.AddFunctionElapsedTimeMs(e.userID, constants.ReceivePayloadFunction, time.Since(startTime))
	}()

	if !e.supervisor.isConnected() {
		e.metricsCollection.EventDropped(e.userID, constants.DropReasonDisconnected)
		scope.Log.Debug("disconnected, dropping change event")
		return
	}

	if changeEnvelope.New == nil {
		e.metricsCollection.EventDropped(e.userID, constants.DropReasonMissingDuelID)
		scope.Log.WithField("errorCode", models.ValidationErrorCode(models.ValidationErrorEmptyRecord)).Warn("dropping change event without a new record")
		return
	}

	record, err := models.ParseDuelRecord(changeEnvelope.New)
	if err != nil {
		e.metricsCollection.EventDropped(e.userID, dropReasonForValidation(err))
		scope.Log.WithField("errorCode", models.ValidationErrorCode(err)).
			Warnf("dropping malformed record: %v, payload: %s", err, common.LogJSONFormatter(changeEnvelope.New))
		return
	}

	var oldRecord *models.DuelRecord
	if changeEnvelope.Old != nil {
		if parsed, parseErr := models.ParseDuelRecord(changeEnvelope.Old); parseErr == nil {
			oldRecord = &parsed
		}
	}

	scope.SetAttributes(envelope.DuelIDTag, record.ID)

	e.processMutex.Lock()
	e.apply(scope, record, oldRecord)
	e.processMutex.Unlock()

	e.metricsCollection.ActiveDuels(e.userID, e.store.countInProgress())
}

// apply runs the per-duel transition rules. Callers hold processMutex, so a
// read-modify-write for one duel id can never interleave with another event.
func (e *duelNotifier) apply(scope *envelope.Scope, record models.DuelRecord, oldRecord *models.DuelRecord) {
	switch record.Status {
	case models.DuelStatusProposed:
		e.applyProposed(scope, record)
	case models.DuelStatusAccepted:
		e.applyAccepted(scope, record)
	case models.DuelStatusDeclined:
		e.applyDeclined(scope, record)
	case models.DuelStatusInProgress:
		e.applyInProgress(scope, record)
	case models.DuelStatusEnded:
		e.applyEnded(scope, record, oldRecord, models.MatchStateEnded)
	case models.DuelStatusCompleted:
		e.applyEnded(scope, record, oldRecord, models.MatchStateCompleted)
	case models.DuelStatusForfeited:
		e.applyForfeited(scope, record)
	case models.DuelStatusCancelled:
		e.applyCancelled(scope, record)
	case models.DuelStatusExpired:
		e.applyExpired(scope, record)
	case models.DuelStatusDisputed:
		e.applyDisputed(scope, record)
	}

	e.lastStatus[record.ID] = record.Status
}

// applyProposed handles first-contact challenge delivery: a proposed duel the
// engine has never seen notifies the user even though there is no local match
// state yet. When the signed-in user is the challenger there is nothing to
// surface; the challenge banner belongs on the opponent's device.
func (e *duelNotifier) applyProposed(scope *envelope.Scope, record models.DuelRecord) {
	if _, seen := e.lastStatus[record.ID]; seen {
		e.dropDuplicate(scope, record)
		return
	}

	if e.cfg.NotifyChallengeOpponentOnly && record.ChallengerID == e.userID {
		scope.Log.WithField("duelID", record.ID).Debug("own challenge proposed, not notifying self")
		return
	}

	e.enqueue(scope, models.NotificationDuelChallenge, record)
}

func (e *duelNotifier) applyAccepted(scope *envelope.Scope, record models.DuelRecord) {
	if e.lastStatus[record.ID] == models.DuelStatusAccepted {
		e.dropDuplicate(scope, record)
		return
	}

	e.enqueue(scope, models.NotificationDuelAccepted, record)
}

func (e *duelNotifier) applyDeclined(scope *envelope.Scope, record models.DuelRecord) {
	if e.lastStatus[record.ID] == models.DuelStatusDeclined {
		e.dropDuplicate(scope, record)
		return
	}

	e.enqueue(scope, models.NotificationDuelDeclined, record)
}

// applyInProgress creates the tracked match state on the first in-progress
// snapshot and absorbs every repeat. Repeats carrying the ping action refresh
// the ping bookkeeping and may emit a throttled matchProgress notification;
// plain repeats are the core dedup case and change nothing.
func (e *duelNotifier) applyInProgress(scope *envelope.Scope, record models.DuelRecord) {
	state, hasState := e.store.get(record.ID)

	if hasState && state.Status.IsTerminal() {
		e.dropTerminal(scope, record)
		return
	}

	now := time.Now().UTC()

	if hasState && state.Status == models.MatchStateInProgress {
		if record.Action != constants.ActionPing {
			e.dropDuplicate(scope, record)
			return
		}

		notify := e.shouldNotifyPing(state, now)
		state.PingCount++
		state.LastPingTime = &now
		e.store.put(state)

		if !notify {
			e.metricsCollection.EventDropped(e.userID, constants.DropReasonPingThrottled)
			scope.Log.WithField("duelID", record.ID).Debug("ping notification throttled")
			return
		}

		pingRecord := record
		pingRecord.PingNumber = state.PingCount
		e.enqueue(scope, models.NotificationMatchProgress, pingRecord)
		return
	}

	e.store.put(models.MatchNotificationState{
		DuelID:    record.ID,
		GameType:  record.GameType,
		Status:    models.MatchStateInProgress,
		StartTime: now,
	})

	e.enqueue(scope, models.NotificationMatchStarted, record)

	scope.Log.WithField("duelID", record.ID).Info("NOTIFIER: match started")
}

// applyEnded transitions a live match to its terminal state, enqueueing
// matchEnded and verificationReminder exactly once per duel. A terminal
// re-delivery is a no-op, except that a verification outcome arriving on the
// same row is still honored.
func (e *duelNotifier) applyEnded(scope *envelope.Scope, record models.DuelRecord, oldRecord *models.DuelRecord, target models.MatchState) {
	state, hasState := e.store.get(record.ID)

	if hasState && state.Status.IsTerminal() {
		e.maybeNotifyVerification(scope, record, oldRecord, state)
		e.dropTerminal(scope, record)
		return
	}

	now := time.Now().UTC()
	if !hasState {
		// Unknown duel id on an ended snapshot: implicit create. The start
		// went unseen, likely during a disconnection window.
		state = models.MatchNotificationState{
			DuelID:   record.ID,
			GameType: record.GameType,
		}
		scope.Log.WithField("duelID", record.ID).Info("ended snapshot for untracked duel, creating state")
	}
	state.Status = target
	state.EndTime = &now
	e.store.put(state)

	e.enqueue(scope, models.NotificationMatchEnded, record)
	e.enqueueReminder(scope, record)

	scope.Log.WithField("duelID", record.ID).Info("NOTIFIER: match ended")
}

func (e *duelNotifier) applyForfeited(scope *envelope.Scope, record models.DuelRecord) {
	state, hasState := e.store.get(record.ID)

	if hasState && state.Status.IsTerminal() {
		e.dropTerminal(scope, record)
		return
	}

	now := time.Now().UTC()
	if !hasState {
		state = models.MatchNotificationState{
			DuelID:   record.ID,
			GameType: record.GameType,
		}
	}
	state.Status = models.MatchStateForfeited
	state.EndTime = &now
	e.store.put(state)

	e.enqueue(scope, models.NotificationDuelForfeited, record)

	scope.Log.WithField("duelID", record.ID).Info("NOTIFIER: duel forfeited")
}

// applyCancelled records the terminal status without notifying: both parties
// initiated the cancellation, so there is nothing to tell either of them.
func (e *duelNotifier) applyCancelled(scope *envelope.Scope, record models.DuelRecord) {
	if e.lastStatus[record.ID] == models.DuelStatusCancelled {
		e.dropDuplicate(scope, record)
		return
	}

	e.metricsCollection.EventDropped(e.userID, constants.DropReasonCancelled)
	scope.Log.WithField("duelID", record.ID).Debug("duel cancelled, no notification")
}

func (e *duelNotifier) applyExpired(scope *envelope.Scope, record models.DuelRecord) {
	if e.lastStatus[record.ID] == models.DuelStatusExpired {
		e.dropDuplicate(scope, record)
		return
	}

	e.enqueue(scope, models.NotificationDuelExpired, record)
}

// applyDisputed notifies the user but leaves the tracked match state alone:
// disputes arrive after the match already reached a terminal state.
func (e *duelNotifier) applyDisputed(scope *envelope.Scope, record models.DuelRecord) {
	if e.lastStatus[record.ID] == models.DuelStatusDisputed {
		e.dropDuplicate(scope, record)
		return
	}

	e.enqueue(scope, models.NotificationDispute, record)
}

// maybeNotifyVerification emits verificationSuccess or verificationFailed
// when a terminal duel's verification outcome lands, at most once per duel.
func (e *duelNotifier) maybeNotifyVerification(scope *envelope.Scope, record models.DuelRecord, oldRecord *models.DuelRecord, state models.MatchNotificationState) {
	if record.VerificationStatus != models.VerificationVerified && record.VerificationStatus != models.VerificationFailed {
		return
	}
	if state.VerificationNotified {
		e.metricsCollection.EventDropped(e.userID, constants.DropReasonStaleVerification)
		return
	}
	if oldRecord != nil && oldRecord.VerificationStatus == record.VerificationStatus {
		// Not a transition, the prior snapshot already carried this outcome.
		e.metricsCollection.EventDropped(e.userID, constants.DropReasonStaleVerification)
		return
	}

	notificationType := models.NotificationVerificationSuccess
	if record.VerificationStatus == models.VerificationFailed {
		notificationType = models.NotificationVerificationFailed
	}

	e.enqueue(scope, notificationType, record)

	state.VerificationNotified = true
	e.store.put(state)

	scope.Log.WithField("duelID", record.ID).Infof("NOTIFIER: verification %s", record.VerificationStatus)
}

// shouldNotifyPing applies the minimum-interval throttle between
// matchProgress notifications. Interval zero disables them entirely; the
// matchStarted dedup is unconditional either way.
func (e *duelNotifier) shouldNotifyPing(state models.MatchNotificationState, now time.Time) bool {
	if e.cfg.PingNotifyMinIntervalSecond <= 0 {
		return false
	}
	if state.LastPingTime == nil {
		return true
	}
	return now.Sub(*state.LastPingTime) >= time.Duration(e.cfg.PingNotifyMinIntervalSecond)*time.Second
}

// EmitRemoteDuelInsert synthesizes an insert envelope and processes it. It is
// gated by the connection supervisor exactly like transport delivery.
func (e *duelNotifier) EmitRemoteDuelInsert(scope *envelope.Scope, record notifier.Record) {
	e.ReceiveDuelPayload(scope, notifier.ChangeEnvelope{New: record})
}

// EmitRemoteDuelUpdate synthesizes an update envelope and processes it.
func (e *duelNotifier) EmitRemoteDuelUpdate(scope *envelope.Scope, newRecord, oldRecord notifier.Record) {
	e.ReceiveDuelPayload(scope, notifier.ChangeEnvelope{New: newRecord, Old: oldRecord})
}

// EmitCrossDeviceEvent enqueues a gamification notification. These do not
// ride the duel change stream, so the connection gate does not apply.
func (e *duelNotifier) EmitCrossDeviceEvent(rootScope *envelope.Scope, event notifier.CrossDeviceEvent) {
	scope := rootScope.NewChildScope("duelNotifier.EmitCrossDeviceEvent")
	defer scope.Finish()

	startTime := time.Now()
	defer func() {
		e.metricsCollection.AddFunctionElapsedTimeMs(e.userID, constants.CrossDeviceFunction, time.Since(startTime))
	}()

	userID := event.UserID
	if userID == "" {
		userID = e.userID
	}

	title := event.Title
	body := event.Body
	priority := constants.PriorityNormal
	switch event.Type {
	case models.NotificationLevelUp:
		if title == "" {
			title = "Level Up!"
		}
	case models.NotificationAchievement:
		if title == "" {
			title = "Achievement Unlocked"
		}
	default:
		scope.Log.Warnf("unsupported cross-device notification type %q", event.Type)
		return
	}

	notification := models.NewPendingNotification(userID, event.Type, title, body, models.NotificationData{
		NewLevel: event.NewLevel,
		Reason:   event.Achievement,
	}, e.notificationExpiry(), priority)

	e.queue.append(notification)
	e.metricsCollection.NotificationEnqueued(userID, string(event.Type))
	scope.Log.WithField("userID", userID).Infof("NOTIFIER: cross-device %s enqueued", event.Type)
}

func (e *duelNotifier) PendingNotifications() []models.PendingNotification {
	return e.queue.all()
}

func (e *duelNotifier) FilterNotifications(keep func(models.PendingNotification) bool) []models.PendingNotification {
	return e.queue.filter(keep)
}

func (e *duelNotifier) MarkNotificationRead(notificationID string) bool {
	return e.queue.markRead(notificationID)
}

func (e *duelNotifier) ActiveMatchNotification(duelID string) (models.MatchNotificationState, bool) {
	return e.store.get(duelID)
}

func (e *duelNotifier) ActiveMatchNotifications() map[string]models.MatchNotificationState {
	return e.store.snapshot()
}

// enqueue appends exactly one notification for the signed-in user per
// logically distinct transition.
func (e *duelNotifier) enqueue(scope *envelope.Scope, notificationType models.NotificationType, record models.DuelRecord) {
	title, body, priority := notificationContent(notificationType, record)
	data := recordData(record)
	data.PingNumber = record.PingNumber
	if record.WinnerID != "" && (notificationType == models.NotificationMatchEnded || notificationType == models.NotificationVerificationSuccess) {
		isWinner := e.userID == record.WinnerID
		data.IsWinner = &isWinner
	}

	notification := models.NewPendingNotification(e.userID, notificationType, title, body, data, e.notificationExpiry(), priority)
	e.queue.append(notification)
	e.metricsCollection.NotificationEnqueued(e.userID, string(notificationType))

	scope.Log.WithField("duelID", record.ID).Infof("NOTIFIER: %s enqueued", notificationType)
}

// enqueueReminder enqueues the verificationReminder, applying the configured
// scheduled-for delay so the reminder can trail the match end.
func (e *duelNotifier) enqueueReminder(scope *envelope.Scope, record models.DuelRecord) {
	title, body, priority := notificationContent(models.NotificationVerificationReminder, record)
	delay := time.Duration(e.cfg.VerificationReminderDelaySecond) * time.Second

	notification := models.NewPendingNotification(e.userID, models.NotificationVerificationReminder, title, body, recordData(record), e.notificationExpiry(), priority)
	notification.ScheduledFor = notification.ScheduledFor.Add(delay)
	e.queue.append(notification)
	e.metricsCollection.NotificationEnqueued(e.userID, string(models.NotificationVerificationReminder))

	scope.Log.WithField("duelID", record.ID).Info("NOTIFIER: verificationReminder enqueued")
}

func (e *duelNotifier) notificationExpiry() time.Duration {
	expiry := e.cfg.NotificationExpirySecond
	if expiry <= 0 {
		expiry = 86400
	}
	return time.Duration(expiry) * time.Second
}

func (e *duelNotifier) dropDuplicate(scope *envelope.Scope, record models.DuelRecord) {
	e.metricsCollection.EventDropped(e.userID, constants.DropReasonDuplicateTransition)
	scope.Log.WithField("duelID", record.ID).Debugf("duplicate %s transition absorbed", record.Status)
}

func (e *duelNotifier) dropTerminal(scope *envelope.Scope, record models.DuelRecord) {
	e.metricsCollection.EventDropped(e.userID, constants.DropReasonTerminalState)
	scope.Log.WithField("duelID", record.ID).Debugf("%s delivered after terminal state, ignored", record.Status)
}

func dropReasonForValidation(err error) string {
	switch err {
	case models.ValidationErrorMissingDuelID:
		return constants.DropReasonMissingDuelID
	case models.ValidationErrorMissingStatus:
		return constants.DropReasonMissingStatus
	case models.ValidationErrorUnknownStatus:
		return constants.DropReasonUnknownStatus
	default:
		return constants.DropReasonMissingDuelID
	}
}
