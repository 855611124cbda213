package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/petcare/internal/bonus"
	"github.com/mmeshcher/petcare/internal/catalog"
	"github.com/mmeshcher/petcare/internal/ledger"
	"github.com/mmeshcher/petcare/internal/minigame"
	"github.com/mmeshcher/petcare/internal/model"
	"github.com/mmeshcher/petcare/internal/pet"
)

// BalanceView описывает баланс и итоги по операциям.
type BalanceView struct {
	Balance int `json:"balance"`
	Earned  int `json:"earned"`
	Spent   int `json:"spent"`
}

// BonusView описывает состояние ежедневного бонуса.
type BonusView struct {
	Status        bonus.Status `json:"status"`
	Streak        int          `json:"streak"`
	LongestStreak int          `json:"longestStreak"`
	NextReward    int          `json:"nextReward"`
	LastClaimAt   *time.Time   `json:"lastClaimAt,omitempty"`
}

// MinigameResult описывает исход мини-игры.
type MinigameResult struct {
	Reward           int              `json:"reward"`
	Action           pet.ActionResult `json:"action"`
	NextAvailableAt  time.Time        `json:"nextAvailableAt"`
	SecondsRemaining int              `json:"secondsRemaining"`
}

// DailyView описывает ежедневное задание и его доступность сегодня.
type DailyView struct {
	model.DailyActivity
	Available bool `json:"available"`
}

// CatalogView описывает содержимое магазина.
type CatalogView struct {
	Food        []model.Item          `json:"food"`
	Toys        []model.Item          `json:"toys"`
	Medicine    []model.Item          `json:"medicine"`
	Accessories []model.AccessoryItem `json:"accessories"`
	Minigames   []model.Minigame      `json:"minigames"`
}

// Balance возвращает баланс питомца.
func (s *Service) Balance(_ context.Context) (BalanceView, error) {
	var v BalanceView
	err := s.read(func(time.Time) {
		earned, spent := s.ledger.Totals()
		v = BalanceView{Balance: s.ledger.Balance(), Earned: earned, Spent: spent}
	})
	return v, err
}

// Transactions возвращает историю операций, самые новые в конце.
func (s *Service) Transactions(_ context.Context) ([]model.Transaction, error) {
	var txs []model.Transaction
	err := s.read(func(time.Time) {
		txs = s.ledger.History()
	})
	return txs, err
}

// BonusStatus возвращает состояние ежедневного бонуса.
func (s *Service) BonusStatus(_ context.Context) (BonusView, error) {
	var v BonusView
	err := s.read(func(now time.Time) {
		v = BonusView{
			Status:        s.bonus.Status(s.bonusState, now),
			Streak:        s.bonusState.Streak,
			LongestStreak: s.bonusState.LongestStreak,
			NextReward:    s.bonus.NextReward(s.bonusState, now),
			LastClaimAt:   s.bonusState.LastClaimAt,
		}
	})
	return v, err
}

// ClaimBonus получает ежедневный бонус. Повторная попытка в тот же день
// возвращает нулевую награду без ошибки.
func (s *Service) ClaimBonus(ctx context.Context) (bonus.Result, error) {
	var res bonus.Result
	err := s.mutate(ctx, func(now time.Time) error {
		res = s.bonus.Claim(&s.bonusState, now)
		if !res.Claimed {
			return nil
		}
		if err := s.earn(ctx, res.Reward, fmt.Sprintf("Daily bonus (day %d)", res.Streak)); err != nil {
			return err
		}
		s.reach(ctx, catalog.AchStreak7, res.Streak)
		return nil
	})
	return res, err
}

// Minigames возвращает каталог мини-игр с их доступностью.
func (s *Service) Minigames(_ context.Context) []minigame.Availability {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cooldowns.Availabilities(s.catalog.Minigames(), s.clock.Now())
}

// PlayMinigame засчитывает игру gameID со счётом score (0..100).
func (s *Service) PlayMinigame(ctx context.Context, gameID string, score int) (MinigameResult, error) {
	var res MinigameResult
	err := s.mutate(ctx, func(now time.Time) error {
		g, err := s.catalog.Minigame(gameID)
		if err != nil {
			return err
		}
		if err := s.cooldowns.Record(g, now); err != nil {
			return err
		}

		pet.Observe(&s.pet, now, s.rules)
		res.Action = pet.Exercise(&s.pet, minigame.EnergyCost, minigame.HappinessBoost, minigame.XPPerGame, s.rules)
		res.Reward = minigame.Reward(g, score)
		if res.Reward > 0 {
			if err := s.earn(ctx, res.Reward, "Minigame: "+g.Title); err != nil {
				return err
			}
		}
		res.NextAvailableAt = now.Add(g.Cooldown())
		res.SecondsRemaining = int(g.Cooldown() / time.Second)

		s.increment(ctx, catalog.AchMinigameFan, 1)
		s.afterAction(ctx, res.Action)
		return nil
	})
	return res, err
}

// Dailies возвращает ежедневные задания с отметкой доступности.
func (s *Service) Dailies(_ context.Context) ([]DailyView, error) {
	var out []DailyView
	err := s.read(func(now time.Time) {
		for _, a := range s.dailies.Activities() {
			out = append(out, DailyView{DailyActivity: a, Available: s.dailies.Available(a, now)})
		}
	})
	return out, err
}

// CompleteDaily выполняет ежедневное задание и начисляет награду.
func (s *Service) CompleteDaily(ctx context.Context, id string) (int, error) {
	var reward int
	err := s.mutate(ctx, func(now time.Time) error {
		r, err := s.dailies.Complete(id, now)
		if err != nil {
			return err
		}
		reward = r
		if reward > 0 {
			if err := s.earn(ctx, reward, "Daily activity: "+id); err != nil {
				return err
			}
		}
		s.increment(ctx, catalog.AchDailyDevotee, 1)
		return nil
	})
	return reward, err
}

// Achievements возвращает все достижения с прогрессом.
func (s *Service) Achievements(_ context.Context) []model.Achievement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.achievements.All()
}

// AchievementCounts возвращает число открытых достижений и их общее число.
func (s *Service) AchievementCounts(_ context.Context) (unlocked, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.achievements.Unlocked(), len(s.achievements.All())
}

// RecentAchievements возвращает и очищает очередь недавно открытых достижений.
func (s *Service) RecentAchievements(_ context.Context) []model.Achievement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.achievements.DrainRecent()
}

// Notifications возвращает последние уведомления.
func (s *Service) Notifications(_ context.Context) []model.Notification {
	return s.outbox.List()
}

// Catalog возвращает содержимое магазина.
func (s *Service) Catalog(_ context.Context) CatalogView {
	v := CatalogView{
		Accessories: s.catalog.Accessories(),
		Minigames:   s.catalog.Minigames(),
	}
	for _, it := range s.catalog.Items() {
		switch it.Kind {
		case model.ItemFood:
			v.Food = append(v.Food, it)
		case model.ItemToy:
			v.Toys = append(v.Toys, it)
		case model.ItemMedicine:
			v.Medicine = append(v.Medicine, it)
		}
	}
	return v
}

// buy списывает цену предмета. Бесплатные предметы ничего не списывают.
func (s *Service) buy(ctx context.Context, price int, description string) error {
	if price <= 0 {
		return nil
	}
	if !s.ledger.CanAfford(price) {
		return fmt.Errorf("%w: %s costs %d", ledger.ErrInsufficientFunds, description, price)
	}
	if _, err := s.ledger.Spend(price, description); err != nil {
		return err
	}
	s.afterBalanceChange(ctx)
	return nil
}

func (s *Service) earn(ctx context.Context, amount int, description string) error {
	if _, err := s.ledger.Earn(amount, description); err != nil {
		return err
	}
	s.afterBalanceChange(ctx)
	return nil
}

// afterBalanceChange зеркалирует баланс кошелька в питомца.
func (s *Service) afterBalanceChange(ctx context.Context) {
	s.pet.Balance = s.ledger.Balance()
	s.reach(ctx, catalog.AchSaver, s.pet.Balance)
}

func (s *Service) increment(ctx context.Context, key string, delta int) {
	unlocked, err := s.achievements.Increment(ctx, key, delta)
	s.rewardUnlock(ctx, key, unlocked, err)
}

func (s *Service) reach(ctx context.Context, key string, value int) {
	unlocked, err := s.achievements.Set(ctx, key, value)
	s.rewardUnlock(ctx, key, unlocked, err)
}

// rewardUnlock начисляет награду за только что открытое достижение.
func (s *Service) rewardUnlock(ctx context.Context, key string, unlocked bool, err error) {
	if err != nil {
		s.logger.Warn("achievement progress failed", zap.String("key", key), zap.Error(err))
		return
	}
	if !unlocked {
		return
	}
	a, err := s.achievements.Get(key)
	if err != nil || a.Reward <= 0 {
		return
	}
	if err := s.earn(ctx, a.Reward, "Achievement: "+a.Title); err != nil {
		s.logger.Warn("achievement reward failed", zap.String("key", key), zap.Error(err))
	}
}
