package pet

import (
	"math"
	"time"

	"github.com/mmeshcher/petcare/internal/model"
)

// ApplyDecay уменьшает характеристики пропорционально прошедшему времени.
// Если голод, чистота или энергия опустились ниже порога, дополнительно
// убывает здоровье. Неположительный интервал ничего не меняет.
func ApplyDecay(p *model.Pet, elapsed time.Duration, r Rules) {
	if elapsed <= 0 {
		return
	}
	hours := elapsed.Hours()

	s := &p.Stats
	s.Hunger = math.Max(0, s.Hunger-r.Decay.Hunger*hours)
	s.Happiness = math.Max(0, s.Happiness-r.Decay.Happiness*hours)
	s.Cleanliness = math.Max(0, s.Cleanliness-r.Decay.Cleanliness*hours)
	s.Energy = math.Max(0, s.Energy-r.Decay.Energy*hours)

	if s.Hunger < r.HealthDecayThreshold ||
		s.Cleanliness < r.HealthDecayThreshold ||
		s.Energy < r.HealthDecayThreshold {
		s.Health = math.Max(0, s.Health-r.Decay.Health*hours)
	}
}

// Observe применяет убывание с момента последнего наблюдения до now и
// сдвигает отметку наблюдения. Время назад не отматывается.
func Observe(p *model.Pet, now time.Time, r Rules) {
	if p.LastObservedAt.IsZero() {
		p.LastObservedAt = now
		return
	}
	if !now.After(p.LastObservedAt) {
		return
	}
	ApplyDecay(p, now.Sub(p.LastObservedAt), r)
	p.LastObservedAt = now
}

// LowStats возвращает названия характеристик ниже порога threshold.
func LowStats(s model.Stats, threshold float64) []string {
	var low []string
	if s.Hunger < threshold {
		low = append(low, "hunger")
	}
	if s.Happiness < threshold {
		low = append(low, "happiness")
	}
	if s.Health < threshold {
		low = append(low, "health")
	}
	if s.Cleanliness < threshold {
		low = append(low, "cleanliness")
	}
	if s.Energy < threshold {
		low = append(low, "energy")
	}
	return low
}
