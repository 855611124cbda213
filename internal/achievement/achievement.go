// Package achievement отслеживает прогресс достижений по стабильным ключам.
package achievement

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/mmeshcher/petcare/internal/model"
	"github.com/mmeshcher/petcare/internal/notify"
)

// ErrNotFound возвращается для неизвестного ключа достижения.
var ErrNotFound = errors.New("achievement not found")

// Tracker обновляет прогресс достижений. Прогресс не превышает цели,
// а открытое достижение больше не меняется.
type Tracker struct {
	items    []model.Achievement
	recent   []model.Achievement
	notifier notify.Notifier
	now      func() time.Time
}

// NewTracker создаёт трекер из сохранённого списка достижений.
func NewTracker(items []model.Achievement, notifier notify.Notifier, now func() time.Time) *Tracker {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if now == nil {
		now = time.Now
	}
	return &Tracker{
		items:    slices.Clone(items),
		notifier: notifier,
		now:      now,
	}
}

// Clone возвращает независимую копию трекера вместе с очередью недавних.
func (t *Tracker) Clone() *Tracker {
	c := *t
	c.items = slices.Clone(t.items)
	c.recent = slices.Clone(t.recent)
	return &c
}

// All возвращает копию всех достижений.
func (t *Tracker) All() []model.Achievement {
	return slices.Clone(t.items)
}

// Get возвращает достижение по ключу.
func (t *Tracker) Get(key string) (model.Achievement, error) {
	i := t.index(key)
	if i < 0 {
		return model.Achievement{}, ErrNotFound
	}
	return t.items[i], nil
}

// Increment увеличивает прогресс на delta. Возвращает true, если достижение
// открылось этим вызовом.
func (t *Tracker) Increment(ctx context.Context, key string, delta int) (bool, error) {
	i := t.index(key)
	if i < 0 {
		return false, ErrNotFound
	}
	if delta <= 0 {
		return false, nil
	}
	return t.apply(ctx, i, t.items[i].Progress+delta), nil
}

// Set выставляет абсолютный прогресс. Прогресс не уменьшается.
func (t *Tracker) Set(ctx context.Context, key string, value int) (bool, error) {
	i := t.index(key)
	if i < 0 {
		return false, ErrNotFound
	}
	return t.apply(ctx, i, value), nil
}

// DrainRecent возвращает недавно открытые достижения и очищает очередь.
func (t *Tracker) DrainRecent() []model.Achievement {
	out := t.recent
	t.recent = nil
	return out
}

// Unlocked возвращает число открытых достижений.
func (t *Tracker) Unlocked() int {
	n := 0
	for _, a := range t.items {
		if a.Unlocked {
			n++
		}
	}
	return n
}

func (t *Tracker) apply(ctx context.Context, i int, progress int) bool {
	a := &t.items[i]
	if a.Unlocked {
		return false
	}
	progress = min(progress, a.Goal)
	if progress <= a.Progress {
		return false
	}
	a.Progress = progress
	if a.Progress < a.Goal {
		return false
	}

	now := t.now()
	a.Unlocked = true
	a.UnlockedAt = &now
	t.recent = append(t.recent, *a)
	t.notifier.Notify(ctx, model.Notification{
		Title:     "Achievement unlocked!",
		Body:      fmt.Sprintf("%s: %s (+%d coins)", a.Title, a.Description, a.Reward),
		CreatedAt: now,
	})
	return true
}

func (t *Tracker) index(key string) int {
	return slices.IndexFunc(t.items, func(a model.Achievement) bool { return a.Key == key })
}

// Merge добавляет в сохранённый список достижения каталога, которых в нём нет,
// обновляет описание, цель и награду и сохраняет прогресс. Открытые
// достижения остаются открытыми; прогресс закрытых ограничивается значением
// goal-1, чтобы открытие прошло через Tracker и выдало награду.
func Merge(stored, seeded []model.Achievement) []model.Achievement {
	byKey := make(map[string]model.Achievement, len(stored))
	for _, a := range stored {
		byKey[a.Key] = a
	}
	out := make([]model.Achievement, 0, len(seeded))
	for _, a := range seeded {
		if prev, ok := byKey[a.Key]; ok {
			a.Unlocked = prev.Unlocked
			a.UnlockedAt = prev.UnlockedAt
			a.Progress = min(max(prev.Progress, 0), a.Goal-1)
			if a.Unlocked {
				a.Progress = a.Goal
			}
		}
		out = append(out, a)
	}
	return out
}
