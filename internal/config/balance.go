package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DecayRates задаёт убывание характеристик в час.
type DecayRates struct {
	Hunger      float64 `yaml:"hunger"`
	Happiness   float64 `yaml:"happiness"`
	Cleanliness float64 `yaml:"cleanliness"`
	Energy      float64 `yaml:"energy"`
	Health      float64 `yaml:"health"`
}

// Balance содержит игровые константы, которые можно переопределить YAML-файлом.
type Balance struct {
	Decay DecayRates `yaml:"decay"`
	// Порог, ниже которого голод, чистота или энергия начинают отнимать здоровье.
	HealthDecayThreshold float64 `yaml:"health_decay_threshold"`
	// Порог, при пересечении которого отправляется уведомление.
	LowStatThreshold float64 `yaml:"low_stat_threshold"`

	XPPerLevel     int `yaml:"xp_per_level"`
	LevelsPerStage int `yaml:"levels_per_stage"`

	StartingBalance int   `yaml:"starting_balance"`
	HistoryCap      int   `yaml:"history_cap"`
	BonusTable      []int `yaml:"bonus_table"`
}

// DefaultBalance возвращает игровой баланс по умолчанию.
func DefaultBalance() Balance {
	return Balance{
		Decay: DecayRates{
			Hunger:      4,
			Happiness:   3,
			Cleanliness: 2.5,
			Energy:      2,
			Health:      2,
		},
		HealthDecayThreshold: 20,
		LowStatThreshold:     20,
		XPPerLevel:           100,
		LevelsPerStage:       5,
		StartingBalance:      100,
		HistoryCap:           100,
		BonusTable:           []int{10, 15, 20, 25, 30, 40, 50},
	}
}

// LoadBalance читает баланс из YAML-файла поверх значений по умолчанию.
// Пустой путь возвращает значения по умолчанию.
func LoadBalance(path string) (Balance, error) {
	b := DefaultBalance()
	if path == "" {
		return b, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Balance{}, fmt.Errorf("read balance file: %w", err)
	}
	if err := yaml.Unmarshal(data, &b); err != nil {
		return Balance{}, fmt.Errorf("parse balance file: %w", err)
	}
	if err := b.Validate(); err != nil {
		return Balance{}, err
	}
	return b, nil
}

// Validate проверяет согласованность значений баланса.
func (b Balance) Validate() error {
	if b.XPPerLevel <= 0 {
		return errors.New("xp_per_level must be positive")
	}
	if b.LevelsPerStage <= 0 {
		return errors.New("levels_per_stage must be positive")
	}
	if b.HistoryCap <= 0 {
		return errors.New("history_cap must be positive")
	}
	if len(b.BonusTable) == 0 {
		return errors.New("bonus_table must not be empty")
	}
	if b.StartingBalance < 0 {
		return errors.New("starting_balance must not be negative")
	}
	d := b.Decay
	if d.Hunger < 0 || d.Happiness < 0 || d.Cleanliness < 0 || d.Energy < 0 || d.Health < 0 {
		return errors.New("decay rates must not be negative")
	}
	return nil
}
