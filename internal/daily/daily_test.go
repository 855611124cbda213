package daily

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/petcare/internal/model"
)

func seeded() []model.DailyActivity {
	return []model.DailyActivity{
		{ID: "morning_walk", Title: "Morning Walk", RewardMin: 5, RewardMax: 15},
		{ID: "puzzle", Title: "Solve a Puzzle", RewardMin: 10, RewardMax: 10},
	}
}

func TestComplete(t *testing.T) {
	b := NewBoard(seeded(), time.UTC, rand.New(rand.NewPCG(7, 7)))
	day := time.Date(2026, 7, 10, 8, 0, 0, 0, time.UTC)

	reward, err := b.Complete("morning_walk", day)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, reward, 5)
	assert.LessOrEqual(t, reward, 15)

	_, err = b.Complete("morning_walk", day.Add(15*time.Hour))
	assert.ErrorIs(t, err, ErrAlreadyCompleted)

	_, err = b.Complete("morning_walk", day.Add(16*time.Hour))
	assert.NoError(t, err, "next calendar day must be allowed")
}

func TestComplete_FixedRewardAndUnknown(t *testing.T) {
	b := NewBoard(seeded(), time.UTC, nil)
	now := time.Date(2026, 7, 10, 8, 0, 0, 0, time.UTC)

	reward, err := b.Complete("puzzle", now)
	require.NoError(t, err)
	assert.Equal(t, 10, reward)

	_, err = b.Complete("juggling", now)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRewardAlwaysInRange(t *testing.T) {
	b := NewBoard(seeded(), time.UTC, rand.New(rand.NewPCG(1, 1)))
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 200; i++ {
		reward, err := b.Complete("morning_walk", start.AddDate(0, 0, i))
		require.NoError(t, err)
		if reward < 5 || reward > 15 {
			t.Fatalf("reward %d out of [5,15]", reward)
		}
	}
}

func TestMerge(t *testing.T) {
	done := time.Date(2026, 7, 9, 8, 0, 0, 0, time.UTC)
	stored := []model.DailyActivity{
		{ID: "morning_walk", Title: "Old Title", RewardMin: 1, RewardMax: 2, LastCompletedAt: &done},
		{ID: "retired", Title: "Retired"},
	}

	merged := Merge(stored, seeded())

	require.Len(t, merged, 2)
	assert.Equal(t, "Morning Walk", merged[0].Title)
	require.NotNil(t, merged[0].LastCompletedAt)
	assert.True(t, done.Equal(*merged[0].LastCompletedAt))
	assert.Nil(t, merged[1].LastCompletedAt)
}
