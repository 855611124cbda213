// Package minigame отслеживает перезарядку мини-игр и рассчитывает награды.
package minigame

import (
	"errors"
	"maps"
	"time"

	"github.com/mmeshcher/petcare/internal/model"
)

// ErrOnCooldown возвращается при попытке сыграть до окончания перезарядки.
var ErrOnCooldown = errors.New("minigame is on cooldown")

// Затраты и эффекты одной игры.
const (
	EnergyCost     = 10.0
	HappinessBoost = 10.0
	XPPerGame      = 10
)

// Tracker хранит время последней игры для каждой мини-игры.
type Tracker struct {
	lastPlayed map[string]time.Time
}

// NewTracker создаёт трекер из сохранённого состояния.
func NewTracker(lastPlayed map[string]time.Time) *Tracker {
	m := make(map[string]time.Time, len(lastPlayed))
	maps.Copy(m, lastPlayed)
	return &Tracker{lastPlayed: m}
}

// Snapshot возвращает копию состояния для сохранения.
func (t *Tracker) Snapshot() map[string]time.Time {
	return maps.Clone(t.lastPlayed)
}

// Clone возвращает независимую копию трекера.
func (t *Tracker) Clone() *Tracker {
	return NewTracker(t.lastPlayed)
}

// CanPlay сообщает, доступна ли игра в момент now.
func (t *Tracker) CanPlay(g model.Minigame, now time.Time) bool {
	last, ok := t.lastPlayed[g.ID]
	if !ok {
		return true
	}
	return now.Sub(last) >= g.Cooldown()
}

// TimeUntilAvailable возвращает неотрицательное время до окончания перезарядки.
func (t *Tracker) TimeUntilAvailable(g model.Minigame, now time.Time) time.Duration {
	last, ok := t.lastPlayed[g.ID]
	if !ok {
		return 0
	}
	remaining := g.Cooldown() - now.Sub(last)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Record отмечает игру в момент now. Если игра ещё на перезарядке,
// возвращает ErrOnCooldown и ничего не меняет.
func (t *Tracker) Record(g model.Minigame, now time.Time) error {
	if !t.CanPlay(g, now) {
		return ErrOnCooldown
	}
	t.lastPlayed[g.ID] = now
	return nil
}

// Reward рассчитывает награду за игру: база плюс доля базы по счёту 0..100.
func Reward(g model.Minigame, score int) int {
	score = min(max(score, 0), 100)
	return g.RewardBase + g.RewardBase*score/100
}

// Availability описывает доступность мини-игры.
type Availability struct {
	model.Minigame
	CanPlay          bool `json:"canPlay"`
	SecondsRemaining int  `json:"secondsRemaining"`
}

// Availabilities возвращает доступность всех игр каталога на момент now.
func (t *Tracker) Availabilities(games []model.Minigame, now time.Time) []Availability {
	out := make([]Availability, 0, len(games))
	for _, g := range games {
		remaining := t.TimeUntilAvailable(g, now)
		out = append(out, Availability{
			Minigame:         g,
			CanPlay:          t.CanPlay(g, now),
			SecondsRemaining: int((remaining + time.Second - 1) / time.Second),
		})
	}
	return out
}
