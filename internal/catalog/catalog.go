// Package catalog содержит неизменяемые справочники игры: предметы, аксессуары,
// мини-игры, ежедневные задания и достижения.
package catalog

import (
	"errors"
	"slices"

	"github.com/mmeshcher/petcare/internal/model"
)

// ErrNotFound возвращается, если запись отсутствует в справочнике.
var ErrNotFound = errors.New("catalog entry not found")

// Catalog объединяет все справочники. Методы возвращают копии, поэтому
// потребители не могут изменить общий экземпляр.
type Catalog struct {
	items        []model.Item
	accessories  []model.AccessoryItem
	minigames    []model.Minigame
	dailies      []model.DailyActivity
	achievements []model.Achievement
}

// Seed создаёт справочники по умолчанию.
func Seed() *Catalog {
	return &Catalog{
		items:        SeedItems(),
		accessories:  SeedAccessories(),
		minigames:    SeedMinigames(),
		dailies:      SeedDailyActivities(),
		achievements: SeedAchievements(),
	}
}

// Items возвращает все предметы магазина.
func (c *Catalog) Items() []model.Item { return slices.Clone(c.items) }

// Accessories возвращает все аксессуары магазина.
func (c *Catalog) Accessories() []model.AccessoryItem { return slices.Clone(c.accessories) }

// Minigames возвращает все мини-игры.
func (c *Catalog) Minigames() []model.Minigame { return slices.Clone(c.minigames) }

// DailyActivities возвращает исходный список ежедневных заданий.
func (c *Catalog) DailyActivities() []model.DailyActivity { return slices.Clone(c.dailies) }

// Achievements возвращает исходный список достижений без прогресса.
func (c *Catalog) Achievements() []model.Achievement { return slices.Clone(c.achievements) }

// Item ищет предмет по идентификатору и проверяет его назначение.
func (c *Catalog) Item(id string, kind model.ItemKind) (model.Item, error) {
	for _, it := range c.items {
		if it.ID == id && it.Kind == kind {
			return it, nil
		}
	}
	return model.Item{}, ErrNotFound
}

// Accessory ищет аксессуар по идентификатору.
func (c *Catalog) Accessory(id string) (model.AccessoryItem, error) {
	for _, a := range c.accessories {
		if a.ID == id {
			return a, nil
		}
	}
	return model.AccessoryItem{}, ErrNotFound
}

// Minigame ищет мини-игру по идентификатору.
func (c *Catalog) Minigame(id string) (model.Minigame, error) {
	for _, m := range c.minigames {
		if m.ID == id {
			return m, nil
		}
	}
	return model.Minigame{}, ErrNotFound
}

// SeedItems возвращает еду, игрушки и лекарства.
func SeedItems() []model.Item {
	return []model.Item{
		{ID: "apple", Name: "Apple", Kind: model.ItemFood, Nutrition: 15, Fun: 2, Health: 2, Price: 0},
		{ID: "kibble", Name: "Kibble", Kind: model.ItemFood, Nutrition: 20, Price: 5},
		{ID: "fish", Name: "Fish", Kind: model.ItemFood, Nutrition: 30, Fun: 5, Health: 5, Price: 12},
		{ID: "cake", Name: "Cake", Kind: model.ItemFood, Nutrition: 25, Fun: 15, Health: -5, Price: 20},
		{ID: "broccoli", Name: "Broccoli", Kind: model.ItemFood, Nutrition: 15, Health: 10, Bitterness: 5, Price: 8},

		{ID: "ball", Name: "Ball", Kind: model.ItemToy, Fun: 15, Price: 0},
		{ID: "yarn", Name: "Yarn", Kind: model.ItemToy, Fun: 20, Price: 10},
		{ID: "robot", Name: "Robot", Kind: model.ItemToy, Fun: 35, Price: 40},

		{ID: "vitamins", Name: "Vitamins", Kind: model.ItemMedicine, Health: 15, Bitterness: 2, Price: 15},
		{ID: "syrup", Name: "Syrup", Kind: model.ItemMedicine, Health: 30, Bitterness: 8, Price: 25},
	}
}

// SeedAccessories возвращает аксессуары.
func SeedAccessories() []model.AccessoryItem {
	return []model.AccessoryItem{
		{ID: "party_hat", Name: "Party Hat", Slot: model.SlotHead, Price: 30},
		{ID: "crown", Name: "Crown", Slot: model.SlotHead, Price: 150},
		{ID: "sunglasses", Name: "Sunglasses", Slot: model.SlotEyes, Price: 40},
		{ID: "bow_tie", Name: "Bow Tie", Slot: model.SlotNeck, Price: 25},
		{ID: "scarf", Name: "Scarf", Slot: model.SlotNeck, Price: 35},
		{ID: "cape", Name: "Cape", Slot: model.SlotBack, Price: 80},
	}
}

// SeedMinigames возвращает мини-игры. Перезарядка зависит от сложности.
func SeedMinigames() []model.Minigame {
	return []model.Minigame{
		{ID: "catch_ball", Title: "Catch the Ball", Difficulty: model.DifficultyEasy, RewardBase: 5, CooldownMinutes: 5},
		{ID: "memory_match", Title: "Memory Match", Difficulty: model.DifficultyMedium, RewardBase: 12, CooldownMinutes: 15},
		{ID: "treasure_hunt", Title: "Treasure Hunt", Difficulty: model.DifficultyHard, RewardBase: 25, CooldownMinutes: 30},
	}
}

// SeedDailyActivities возвращает ежедневные задания.
func SeedDailyActivities() []model.DailyActivity {
	return []model.DailyActivity{
		{ID: "morning_walk", Title: "Morning Walk", RewardMin: 5, RewardMax: 15},
		{ID: "brush_teeth", Title: "Brush Teeth", RewardMin: 3, RewardMax: 8},
		{ID: "puzzle", Title: "Solve a Puzzle", RewardMin: 10, RewardMax: 25},
		{ID: "photo_shoot", Title: "Photo Shoot", RewardMin: 8, RewardMax: 20},
	}
}

// Ключи достижений.
const (
	AchFeedingNovice = "feeding_novice"
	AchFeedingExpert = "feeding_expert"
	AchPlayful       = "playful"
	AchCleanFreak    = "clean_freak"
	AchSleepyhead    = "sleepyhead"
	AchLevel5        = "level_5"
	AchLevel10       = "level_10"
	AchStreak7       = "streak_7"
	AchMinigameFan   = "minigame_fan"
	AchDailyDevotee  = "daily_devotee"
	AchFashionista   = "fashionista"
	AchSaver         = "saver"
)

// SeedAchievements возвращает достижения без прогресса.
func SeedAchievements() []model.Achievement {
	return []model.Achievement{
		{Key: AchFeedingNovice, Title: "Feeding Novice", Description: "Feed your pet 10 times", Goal: 10, Reward: 20},
		{Key: AchFeedingExpert, Title: "Feeding Expert", Description: "Feed your pet 100 times", Goal: 100, Reward: 100},
		{Key: AchPlayful, Title: "Playful", Description: "Play with your pet 25 times", Goal: 25, Reward: 40},
		{Key: AchCleanFreak, Title: "Clean Freak", Description: "Clean your pet 20 times", Goal: 20, Reward: 30},
		{Key: AchSleepyhead, Title: "Sleepyhead", Description: "Put your pet to sleep 10 times", Goal: 10, Reward: 20},
		{Key: AchLevel5, Title: "Growing Up", Description: "Reach level 5", Goal: 5, Reward: 50},
		{Key: AchLevel10, Title: "Seasoned", Description: "Reach level 10", Goal: 10, Reward: 100},
		{Key: AchStreak7, Title: "Loyal Friend", Description: "Claim the daily bonus 7 days in a row", Goal: 7, Reward: 70},
		{Key: AchMinigameFan, Title: "Minigame Fan", Description: "Play 10 minigames", Goal: 10, Reward: 30},
		{Key: AchDailyDevotee, Title: "Daily Devotee", Description: "Complete 10 daily activities", Goal: 10, Reward: 30},
		{Key: AchFashionista, Title: "Fashionista", Description: "Buy 3 accessories", Goal: 3, Reward: 25},
		{Key: AchSaver, Title: "Saver", Description: "Hold 1000 coins", Goal: 1000, Reward: 100},
	}
}
