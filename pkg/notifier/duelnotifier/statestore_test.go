// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package duelnotifier

import (
	"testing"
	"time"

	"github.com/AccelByte/extend-duel-notifier/pkg/models"
	"github.com/AccelByte/extend-duel-notifier/pkg/testsetup"
	. "github.com/onsi/gomega"
)

func TestDuelStateStore_GetMissing(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)

	store := newDuelStateStore()
	_, ok := store.get("d1")
	g.Expect(ok).To(BeFalse())
}

func TestDuelStateStore_PutReplacesAndGetReturnsCopy(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)

	store := newDuelStateStore()
	store.put(models.MatchNotificationState{
		DuelID:    "d1",
		GameType:  "Test",
		Status:    models.MatchStateInProgress,
		StartTime: time.Now().UTC(),
	})

	state, ok := store.get("d1")
	g.Expect(ok).To(BeTrue())
	g.Expect(state.Status).To(Equal(models.MatchStateInProgress))

	// mutating the returned copy does not touch the stored entry
	state.Status = models.MatchStateEnded
	stored, _ := store.get("d1")
	g.Expect(stored.Status).To(Equal(models.MatchStateInProgress))

	state.Status = models.MatchStateCompleted
	store.put(state)
	stored, _ = store.get("d1")
	g.Expect(stored.Status).To(Equal(models.MatchStateCompleted))
}

func TestDuelStateStore_SnapshotAndCount(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)

	store := newDuelStateStore()
	store.put(models.MatchNotificationState{DuelID: "d1", Status: models.MatchStateInProgress})
	store.put(models.MatchNotificationState{DuelID: "d2", Status: models.MatchStateInProgress})
	store.put(models.MatchNotificationState{DuelID: "d3", Status: models.MatchStateEnded})

	snapshot := store.snapshot()
	g.Expect(len(snapshot)).To(Equal(3))
	g.Expect(snapshot["d3"].Status).To(Equal(models.MatchStateEnded))
	g.Expect(store.countInProgress()).To(Equal(2))

	store.clear()
	g.Expect(len(store.snapshot())).To(Equal(0))
	g.Expect(store.countInProgress()).To(Equal(0))
}
