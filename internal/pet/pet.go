// Package pet реализует симуляцию питомца: убывание характеристик со временем,
// действия ухода, рост уровня и эволюцию.
package pet

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmeshcher/petcare/internal/config"
	"github.com/mmeshcher/petcare/internal/model"
)

// Опыт за действия ухода.
const (
	XPFeed  = 10
	XPPlay  = 15
	XPClean = 5
	XPSleep = 5
	XPHeal  = 5
)

// Rules содержит параметры симуляции.
type Rules struct {
	Decay                config.DecayRates
	HealthDecayThreshold float64
	XPPerLevel           int
	LevelsPerStage       int
}

// RulesFromBalance строит правила симуляции из игрового баланса.
func RulesFromBalance(b config.Balance) Rules {
	return Rules{
		Decay:                b.Decay,
		HealthDecayThreshold: b.HealthDecayThreshold,
		XPPerLevel:           b.XPPerLevel,
		LevelsPerStage:       b.LevelsPerStage,
	}
}

// DefaultRules возвращает правила для баланса по умолчанию.
func DefaultRules() Rules {
	return RulesFromBalance(config.DefaultBalance())
}

// New создаёт нового питомца первого уровня.
func New(name, species string, now time.Time, startingBalance int) model.Pet {
	return model.Pet{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(name),
		Species:        strings.TrimSpace(species),
		BornAt:         now,
		Stage:          model.StageBaby,
		Stats:          model.DefaultStats(),
		Level:          1,
		Balance:        startingBalance,
		Accessories:    []model.Accessory{},
		LastObservedAt: now,
	}
}

// Normalize чинит состояние, прочитанное из хранилища или резервной копии:
// приводит характеристики к диапазону и восстанавливает инварианты.
func Normalize(p *model.Pet) {
	p.Stats = p.Stats.Clamped()
	if p.Level < 1 {
		p.Level = 1
	}
	if p.Experience < 0 {
		p.Experience = 0
	}
	if p.Balance < 0 {
		p.Balance = 0
	}
	if p.Stage == "" {
		p.Stage = model.StageBaby
	}

	seen := make(map[model.Slot]bool, len(p.Accessories))
	out := make([]model.Accessory, 0, len(p.Accessories))
	// при дублях слота побеждает последний надетый аксессуар
	for i := len(p.Accessories) - 1; i >= 0; i-- {
		a := p.Accessories[i]
		if seen[a.Slot] {
			continue
		}
		seen[a.Slot] = true
		out = append([]model.Accessory{a}, out...)
	}
	p.Accessories = out
}

// Age возвращает возраст питомца на момент now.
func Age(p model.Pet, now time.Time) time.Duration {
	if now.Before(p.BornAt) {
		return 0
	}
	return now.Sub(p.BornAt)
}
