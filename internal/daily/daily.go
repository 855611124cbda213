// Package daily реализует ежедневные задания, выполнимые раз в календарный день.
package daily

import (
	"errors"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/mmeshcher/petcare/internal/clock"
	"github.com/mmeshcher/petcare/internal/model"
)

var (
	// ErrNotFound возвращается для неизвестного задания.
	ErrNotFound = errors.New("daily activity not found")
	// ErrAlreadyCompleted возвращается при повторном выполнении в тот же календарный день.
	ErrAlreadyCompleted = errors.New("daily activity already completed today")
)

// Board хранит ежедневные задания и отметки их выполнения.
type Board struct {
	activities []model.DailyActivity
	loc        *time.Location
	rng        *rand.Rand
}

// NewBoard создаёт доску заданий. rng задаёт источник случайной награды.
func NewBoard(activities []model.DailyActivity, loc *time.Location, rng *rand.Rand) *Board {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Board{
		activities: slices.Clone(activities),
		loc:        loc,
		rng:        rng,
	}
}

// Clone возвращает копию доски с тем же источником случайности.
func (b *Board) Clone() *Board {
	c := *b
	c.activities = slices.Clone(b.activities)
	return &c
}

// Activities возвращает копию заданий с отметками выполнения.
func (b *Board) Activities() []model.DailyActivity {
	return slices.Clone(b.activities)
}

// Available сообщает, можно ли выполнить задание в момент now.
func (b *Board) Available(a model.DailyActivity, now time.Time) bool {
	return a.LastCompletedAt == nil || !clock.SameDay(*a.LastCompletedAt, now, b.loc)
}

// Complete отмечает задание выполненным и возвращает награду из диапазона
// [RewardMin, RewardMax].
func (b *Board) Complete(id string, now time.Time) (int, error) {
	i := slices.IndexFunc(b.activities, func(a model.DailyActivity) bool { return a.ID == id })
	if i < 0 {
		return 0, ErrNotFound
	}
	a := &b.activities[i]
	if !b.Available(*a, now) {
		return 0, ErrAlreadyCompleted
	}

	completed := now
	a.LastCompletedAt = &completed
	return b.reward(*a), nil
}

func (b *Board) reward(a model.DailyActivity) int {
	lo, hi := a.RewardMin, a.RewardMax
	if hi < lo {
		lo, hi = hi, lo
	}
	if hi <= lo {
		return lo
	}
	return lo + b.rng.IntN(hi-lo+1)
}

// Merge добавляет в сохранённый список задания каталога, которых в нём нет,
// и обновляет их описание и диапазон наград. Отметки выполнения сохраняются.
func Merge(stored, seeded []model.DailyActivity) []model.DailyActivity {
	byID := make(map[string]model.DailyActivity, len(stored))
	for _, a := range stored {
		byID[a.ID] = a
	}
	out := make([]model.DailyActivity, 0, len(seeded))
	for _, a := range seeded {
		if prev, ok := byID[a.ID]; ok {
			a.LastCompletedAt = prev.LastCompletedAt
		}
		out = append(out, a)
	}
	return out
}
