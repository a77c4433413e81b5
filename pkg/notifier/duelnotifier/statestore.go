// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package duelnotifier

import (
	"sync"

	"github.com/AccelByte/extend-duel-notifier/pkg/models"
)

// duelStateStore is the in-memory map of duel id to tracked match state.
// Only the engine mutates it, under the engine's processing mutex; the store
// carries its own read lock so accessors can run concurrently with processing.
// Entries are never removed except by clear.
type duelStateStore struct {
	mutex  sync.RWMutex
	states map[string]*models.MatchNotificationState
}

func newDuelStateStore() *duelStateStore {
	return &duelStateStore{
		states: map[string]*models.MatchNotificationState{},
	}
}

// get returns a copy of the tracked state for a duel id.
func (s *duelStateStore) get(duelID string) (models.MatchNotificationState, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	state, ok := s.states[duelID]
	if !ok {
		return models.MatchNotificationState{}, false
	}
	return *state, true
}

// put stores the state for its duel id, replacing any existing entry.
func (s *duelStateStore) put(state models.MatchNotificationState) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	stored := state
	s.states[state.DuelID] = &stored
}

// snapshot returns a copy of every tracked state keyed by duel id.
func (s *duelStateStore) snapshot() map[string]models.MatchNotificationState {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	result := make(map[string]models.MatchNotificationState, len(s.states))
	for duelID, state := range s.states {
		result[duelID] = *state
	}
	return result
}

// countInProgress returns how many tracked duels are currently live.
func (s *duelStateStore) countInProgress() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	count := 0
	for _, state := range s.states {
		if state.Status == models.MatchStateInProgress {
			count++
		}
	}
	return count
}

func (s *duelStateStore) clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.states = map[string]*models.MatchNotificationState{}
}
