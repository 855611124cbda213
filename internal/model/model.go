// Package model содержит доменные сущности сервиса petcare.
package model

import "time"

// StatMin и StatMax задают допустимый диапазон характеристик питомца.
const (
	StatMin = 0.0
	StatMax = 100.0
)

// GrowthStage описывает стадию развития питомца.
type GrowthStage string

const (
	StageBaby  GrowthStage = "baby"
	StageChild GrowthStage = "child"
	StageTeen  GrowthStage = "teen"
	StageAdult GrowthStage = "adult"
)

// Next возвращает следующую стадию развития. Взрослая стадия терминальна.
func (s GrowthStage) Next() GrowthStage {
	switch s {
	case StageBaby:
		return StageChild
	case StageChild:
		return StageTeen
	default:
		return StageAdult
	}
}

// Stats содержит пять характеристик питомца, каждая в диапазоне [0,100].
type Stats struct {
	Hunger      float64 `json:"hunger"`
	Happiness   float64 `json:"happiness"`
	Health      float64 `json:"health"`
	Cleanliness float64 `json:"cleanliness"`
	Energy      float64 `json:"energy"`
}

// Clamped возвращает копию характеристик, приведённых к диапазону [0,100].
func (s Stats) Clamped() Stats {
	return Stats{
		Hunger:      Clamp(s.Hunger),
		Happiness:   Clamp(s.Happiness),
		Health:      Clamp(s.Health),
		Cleanliness: Clamp(s.Cleanliness),
		Energy:      Clamp(s.Energy),
	}
}

// Clamp приводит значение характеристики к диапазону [0,100].
func Clamp(v float64) float64 {
	if v < StatMin {
		return StatMin
	}
	if v > StatMax {
		return StatMax
	}
	return v
}

// Slot описывает позицию аксессуара на теле питомца.
type Slot string

const (
	SlotHead Slot = "head"
	SlotEyes Slot = "eyes"
	SlotNeck Slot = "neck"
	SlotBack Slot = "back"
)

// Accessory описывает надетый на питомца аксессуар.
type Accessory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slot Slot   `json:"slot"`
}

// Pet представляет питомца и всё его изменяемое состояние.
type Pet struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Species        string      `json:"species"`
	BornAt         time.Time   `json:"bornAt"`
	Stage          GrowthStage `json:"stage"`
	Stats          Stats       `json:"stats"`
	Experience     int         `json:"experience"`
	Level          int         `json:"level"`
	Balance        int         `json:"balance"`
	Accessories    []Accessory `json:"accessories"`
	LastObservedAt time.Time   `json:"lastObservedAt"`
}

// DefaultStats возвращает характеристики только что созданного питомца.
func DefaultStats() Stats {
	return Stats{
		Hunger:      80,
		Happiness:   80,
		Health:      100,
		Cleanliness: 80,
		Energy:      100,
	}
}

// Direction описывает направление движения средств.
type Direction string

const (
	DirectionEarned Direction = "earned"
	DirectionSpent  Direction = "spent"
)

// Transaction описывает неизменяемую запись о начислении или списании монет.
type Transaction struct {
	ID          string    `json:"id"`
	Amount      int       `json:"amount"`
	Description string    `json:"description"`
	Direction   Direction `json:"direction"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Achievement описывает достижение и прогресс по нему.
type Achievement struct {
	Key         string     `json:"key"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Goal        int        `json:"goal"`
	Progress    int        `json:"progress"`
	Reward      int        `json:"reward"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlockedAt,omitempty"`
}

// DailyActivity описывает ежедневное задание с диапазоном награды.
type DailyActivity struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	RewardMin       int        `json:"rewardMin"`
	RewardMax       int        `json:"rewardMax"`
	LastCompletedAt *time.Time `json:"lastCompletedAt,omitempty"`
}

// Difficulty описывает сложность мини-игры.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Minigame описывает мини-игру из каталога.
type Minigame struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Difficulty      Difficulty `json:"difficulty"`
	RewardBase      int        `json:"rewardBase"`
	CooldownMinutes int        `json:"cooldownMinutes"`
}

// Cooldown возвращает длительность перезарядки мини-игры.
func (m Minigame) Cooldown() time.Duration {
	return time.Duration(m.CooldownMinutes) * time.Minute
}

// ItemKind описывает назначение предмета.
type ItemKind string

const (
	ItemFood     ItemKind = "food"
	ItemToy      ItemKind = "toy"
	ItemMedicine ItemKind = "medicine"
)

// Item описывает предмет из каталога магазина.
type Item struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Kind       ItemKind `json:"kind"`
	Nutrition  float64  `json:"nutrition"`
	Fun        float64  `json:"fun"`
	Health     float64  `json:"health"`
	Bitterness float64  `json:"bitterness"`
	Price      int      `json:"price"`
}

// AccessoryItem описывает аксессуар из каталога магазина.
type AccessoryItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slot  Slot   `json:"slot"`
	Price int    `json:"price"`
}

// BonusState содержит состояние ежедневного бонуса.
type BonusState struct {
	Streak        int        `json:"streak"`
	LongestStreak int        `json:"longestStreak"`
	LastClaimAt   *time.Time `json:"lastClaimAt,omitempty"`
}

// Notification описывает уведомление для пользователя.
type Notification struct {
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}
