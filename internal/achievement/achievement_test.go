package achievement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/petcare/internal/model"
	"github.com/mmeshcher/petcare/internal/notify"
)

func items() []model.Achievement {
	return []model.Achievement{
		{Key: "feeding_novice", Title: "Feeding Novice", Goal: 10, Reward: 20},
		{Key: "feeding_expert", Title: "Feeding Expert", Goal: 100, Reward: 100},
		{Key: "saver", Title: "Saver", Goal: 1000, Reward: 100},
	}
}

func newTracker() (*Tracker, *notify.Outbox) {
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	o := notify.NewOutbox(10)
	return NewTracker(items(), o, func() time.Time { return now }), o
}

func TestIncrementUnlocksAtGoal(t *testing.T) {
	tr, outbox := newTracker()
	ctx := context.Background()

	for i := 0; i < 9; i++ {
		unlocked, err := tr.Increment(ctx, "feeding_novice", 1)
		require.NoError(t, err)
		require.False(t, unlocked)
	}

	unlocked, err := tr.Increment(ctx, "feeding_novice", 1)
	require.NoError(t, err)
	assert.True(t, unlocked)

	a, err := tr.Get("feeding_novice")
	require.NoError(t, err)
	assert.True(t, a.Unlocked)
	assert.NotNil(t, a.UnlockedAt)
	assert.Equal(t, 10, a.Progress)

	recent := tr.DrainRecent()
	require.Len(t, recent, 1)
	assert.Equal(t, "feeding_novice", recent[0].Key)
	assert.Empty(t, tr.DrainRecent())
	assert.Len(t, outbox.List(), 1)
}

func TestProgressClampedToGoal(t *testing.T) {
	tr, _ := newTracker()
	ctx := context.Background()

	unlocked, err := tr.Increment(ctx, "feeding_novice", 500)
	require.NoError(t, err)
	assert.True(t, unlocked)

	a, _ := tr.Get("feeding_novice")
	assert.Equal(t, 10, a.Progress)
}

func TestUnlockIsMonotonic(t *testing.T) {
	tr, outbox := newTracker()
	ctx := context.Background()

	_, _ = tr.Set(ctx, "saver", 1200)
	unlocked, err := tr.Set(ctx, "saver", 10)
	require.NoError(t, err)
	assert.False(t, unlocked)

	a, _ := tr.Get("saver")
	assert.True(t, a.Unlocked)
	assert.Equal(t, 1000, a.Progress)

	again, _ := tr.Set(ctx, "saver", 5000)
	assert.False(t, again, "already unlocked achievement must not unlock twice")
	assert.Len(t, outbox.List(), 1)
}

func TestSetNeverDecreasesProgress(t *testing.T) {
	tr, _ := newTracker()
	ctx := context.Background()

	_, _ = tr.Set(ctx, "saver", 600)
	_, _ = tr.Set(ctx, "saver", 200)

	a, _ := tr.Get("saver")
	assert.Equal(t, 600, a.Progress)
}

func TestUnknownKey(t *testing.T) {
	tr, _ := newTracker()
	ctx := context.Background()

	_, err := tr.Increment(ctx, "feeding", 1)
	assert.ErrorIs(t, err, ErrNotFound, "keys must match exactly, never by prefix")

	_, err = tr.Set(ctx, "nope", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMerge(t *testing.T) {
	unlockedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	stored := []model.Achievement{
		{Key: "feeding_novice", Goal: 10, Progress: 10, Unlocked: true, UnlockedAt: &unlockedAt},
		{Key: "saver", Goal: 2000, Progress: 1500},
	}

	merged := Merge(stored, items())

	require.Len(t, merged, 3)
	assert.True(t, merged[0].Unlocked)
	assert.Equal(t, 10, merged[0].Progress)
	assert.Equal(t, 0, merged[1].Progress)
	assert.False(t, merged[2].Unlocked)
	assert.Equal(t, 999, merged[2].Progress, "progress clamps below the new goal")

	tr := NewTracker(merged, nil, nil)
	assert.Equal(t, 1, tr.Unlocked())
	unlocked, err := tr.Set(context.Background(), "saver", 1500)
	require.NoError(t, err)
	assert.True(t, unlocked)
}

func TestCloneIsIndependent(t *testing.T) {
	tr, _ := newTracker()
	ctx := context.Background()

	c := tr.Clone()
	unlocked, err := c.Increment(ctx, "feeding_novice", 10)
	require.NoError(t, err)
	require.True(t, unlocked)
	assert.Equal(t, 1, c.Unlocked())

	a, err := tr.Get("feeding_novice")
	require.NoError(t, err)
	assert.Equal(t, 0, a.Progress)
	assert.Zero(t, tr.Unlocked())
	assert.Empty(t, tr.DrainRecent())
}
