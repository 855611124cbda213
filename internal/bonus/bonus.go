// Package bonus реализует ежедневный бонус с серией последовательных дней.
package bonus

import (
	"time"

	"github.com/mmeshcher/petcare/internal/model"
)

// Status описывает состояние ежедневного бонуса.
type Status string

const (
	StatusNeverClaimed   Status = "never-claimed"
	StatusClaimedToday   Status = "claimed-today"
	StatusClaimAvailable Status = "claim-available"
)

// DefaultTable задаёт награду по длине серии: table[streak-1].
var DefaultTable = []int{10, 15, 20, 25, 30, 40, 50}

// Result описывает исход попытки получить бонус.
type Result struct {
	Claimed bool `json:"claimed"`
	Reward  int  `json:"reward"`
	Streak  int  `json:"streak"`
}

// Tracker применяет правила бонуса к состоянию, сравнивая календарные дни
// в часовом поясе loc.
type Tracker struct {
	table []int
	loc   *time.Location
}

// NewTracker создаёт трекер. Пустая таблица заменяется DefaultTable,
// nil-пояс заменяется time.Local.
func NewTracker(table []int, loc *time.Location) *Tracker {
	if len(table) == 0 {
		table = DefaultTable
	}
	if loc == nil {
		loc = time.Local
	}
	return &Tracker{table: table, loc: loc}
}

// Status возвращает состояние бонуса на момент now.
func (t *Tracker) Status(s model.BonusState, now time.Time) Status {
	if s.LastClaimAt == nil {
		return StatusNeverClaimed
	}
	if t.dayDiff(*s.LastClaimAt, now) == 0 {
		return StatusClaimedToday
	}
	return StatusClaimAvailable
}

// Claim пытается получить бонус. Повторная попытка в тот же календарный день
// возвращает нулевую награду без изменений. Если прошлый бонус получен вчера,
// серия растёт на единицу, иначе начинается заново.
func (t *Tracker) Claim(s *model.BonusState, now time.Time) Result {
	if s.LastClaimAt != nil {
		switch diff := t.dayDiff(*s.LastClaimAt, now); {
		case diff == 0:
			return Result{Streak: s.Streak}
		case diff == 1:
			s.Streak++
		default:
			s.Streak = 1
		}
	} else {
		s.Streak = 1
	}

	if s.Streak > s.LongestStreak {
		s.LongestStreak = s.Streak
	}
	claimed := now
	s.LastClaimAt = &claimed

	return Result{Claimed: true, Reward: t.Reward(s.Streak), Streak: s.Streak}
}

// Reward возвращает награду для серии streak, ограниченную последним элементом таблицы.
func (t *Tracker) Reward(streak int) int {
	if streak <= 0 {
		return 0
	}
	if streak > len(t.table) {
		return t.table[len(t.table)-1]
	}
	return t.table[streak-1]
}

// NextReward возвращает награду, которую принесёт следующий бонус, если получить его в now.
func (t *Tracker) NextReward(s model.BonusState, now time.Time) int {
	switch t.Status(s, now) {
	case StatusNeverClaimed:
		return t.Reward(1)
	case StatusClaimedToday:
		return 0
	}
	if t.dayDiff(*s.LastClaimAt, now) == 1 {
		return t.Reward(s.Streak + 1)
	}
	return t.Reward(1)
}

// dayDiff возвращает число календарных дней от a до b в поясе трекера.
func (t *Tracker) dayDiff(a, b time.Time) int {
	ay, am, ad := a.In(t.loc).Date()
	by, bm, bd := b.In(t.loc).Date()
	da := time.Date(ay, am, ad, 12, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 12, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
