package pet

import (
	"github.com/mmeshcher/petcare/internal/model"
)

// ActionResult описывает последствия действия ухода.
type ActionResult struct {
	XPGained     int               `json:"xpGained"`
	LevelsGained int               `json:"levelsGained"`
	Level        int               `json:"level"`
	Evolved      bool              `json:"evolved"`
	Stage        model.GrowthStage `json:"stage"`
}

// Фиксированные изменения характеристик для действий без предметов.
const (
	cleanCleanliness = 40.0
	cleanHappiness   = 5.0
	sleepEnergy      = 50.0
	sleepHunger      = 5.0
	playEnergyCost   = 10.0
	playHungerCost   = 5.0
)

// Feed кормит питомца едой food.
func Feed(p *model.Pet, food model.Item, r Rules) ActionResult {
	s := &p.Stats
	s.Hunger = model.Clamp(s.Hunger + food.Nutrition)
	s.Happiness = model.Clamp(s.Happiness + food.Fun - food.Bitterness)
	s.Health = model.Clamp(s.Health + food.Health)
	return AwardExperience(p, XPFeed, r)
}

// Play играет с питомцем игрушкой toy.
func Play(p *model.Pet, toy model.Item, r Rules) ActionResult {
	s := &p.Stats
	s.Happiness = model.Clamp(s.Happiness + toy.Fun)
	s.Energy = model.Clamp(s.Energy - playEnergyCost)
	s.Hunger = model.Clamp(s.Hunger - playHungerCost)
	return AwardExperience(p, XPPlay, r)
}

// Clean моет питомца.
func Clean(p *model.Pet, r Rules) ActionResult {
	s := &p.Stats
	s.Cleanliness = model.Clamp(s.Cleanliness + cleanCleanliness)
	s.Happiness = model.Clamp(s.Happiness + cleanHappiness)
	return AwardExperience(p, XPClean, r)
}

// Sleep укладывает питомца спать.
func Sleep(p *model.Pet, r Rules) ActionResult {
	s := &p.Stats
	s.Energy = model.Clamp(s.Energy + sleepEnergy)
	s.Hunger = model.Clamp(s.Hunger - sleepHunger)
	return AwardExperience(p, XPSleep, r)
}

// Heal лечит питомца лекарством medicine.
func Heal(p *model.Pet, medicine model.Item, r Rules) ActionResult {
	s := &p.Stats
	s.Health = model.Clamp(s.Health + medicine.Health)
	s.Happiness = model.Clamp(s.Happiness - medicine.Bitterness)
	return AwardExperience(p, XPHeal, r)
}

// Exercise применяет затраты и радость от мини-игры.
func Exercise(p *model.Pet, energyCost, happiness float64, xp int, r Rules) ActionResult {
	s := &p.Stats
	s.Energy = model.Clamp(s.Energy - energyCost)
	s.Happiness = model.Clamp(s.Happiness + happiness)
	return AwardExperience(p, xp, r)
}

// AwardExperience начисляет опыт и повышает уровень, пока накопленный опыт
// не меньше level*XPPerLevel. Каждый LevelsPerStage-й уровень продвигает стадию.
func AwardExperience(p *model.Pet, xp int, r Rules) ActionResult {
	if xp > 0 {
		p.Experience += xp
	}
	if p.Level < 1 {
		p.Level = 1
	}

	res := ActionResult{XPGained: max(xp, 0)}
	for r.XPPerLevel > 0 && p.Experience >= p.Level*r.XPPerLevel {
		p.Level++
		res.LevelsGained++
		if r.LevelsPerStage > 0 && p.Level%r.LevelsPerStage == 0 {
			next := p.Stage.Next()
			if next != p.Stage {
				p.Stage = next
				res.Evolved = true
			}
		}
	}
	res.Level = p.Level
	res.Stage = p.Stage
	return res
}
