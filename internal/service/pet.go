package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/petcare/internal/catalog"
	"github.com/mmeshcher/petcare/internal/ledger"
	"github.com/mmeshcher/petcare/internal/model"
	"github.com/mmeshcher/petcare/internal/pet"
	"github.com/mmeshcher/petcare/internal/validation"
)

// Onboard создаёт питомца. Повторный вызов возвращает ErrPetExists.
func (s *Service) Onboard(ctx context.Context, name, species string) (model.Pet, error) {
	name, err := validation.PetName(name)
	if err != nil {
		return model.Pet{}, err
	}
	species, err = validation.PetSpecies(species)
	if err != nil {
		return model.Pet{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.onboarded {
		return model.Pet{}, ErrPetExists
	}

	s.resetState()
	now := s.clock.Now()
	s.pet = pet.New(name, species, now, s.balance.StartingBalance)
	s.pet.LastObservedAt = now
	s.ledger = ledger.New(s.pet.Balance, nil, s.balance.HistoryCap, s.clock.Now)
	s.onboarded = true

	if err := s.commitOnboarding(ctx); err != nil {
		s.resetState()
		return model.Pet{}, err
	}

	s.logger.Info("pet onboarded",
		zap.String("id", s.pet.ID),
		zap.String("species", s.pet.Species),
	)
	s.notify(ctx, "Welcome!", fmt.Sprintf("Say hello to %s the %s.", s.pet.Name, s.pet.Species))
	return clonePet(s.pet), nil
}

// commitOnboarding сохраняет состояние вместе с флагом создания и версией схемы.
func (s *Service) commitOnboarding(ctx context.Context) error {
	if err := s.persist(ctx); err != nil {
		return err
	}
	if err := s.store.SetOnboarded(ctx, true); err != nil {
		return fmt.Errorf("save onboarding flag: %w", err)
	}
	if err := s.store.SetSchemaVersion(ctx, SchemaVersion); err != nil {
		return fmt.Errorf("save schema version: %w", err)
	}
	return nil
}

// Pet возвращает питомца с учётом убывания характеристик на текущий момент.
func (s *Service) Pet(_ context.Context) (model.Pet, error) {
	var p model.Pet
	err := s.read(func(now time.Time) {
		p = clonePet(s.pet)
		pet.Observe(&p, now, s.rules)
	})
	return p, err
}

// Rename меняет имя питомца.
func (s *Service) Rename(ctx context.Context, name string) (model.Pet, error) {
	name, err := validation.PetName(name)
	if err != nil {
		return model.Pet{}, err
	}
	var p model.Pet
	err = s.mutate(ctx, func(time.Time) error {
		s.pet.Name = name
		p = clonePet(s.pet)
		return nil
	})
	return p, err
}

// Feed кормит питомца едой itemID, оплачивая её при необходимости.
func (s *Service) Feed(ctx context.Context, itemID string) (pet.ActionResult, error) {
	var res pet.ActionResult
	err := s.mutate(ctx, func(now time.Time) error {
		food, err := s.catalog.Item(itemID, model.ItemFood)
		if err != nil {
			return err
		}
		if err := s.buy(ctx, food.Price, "Food: "+food.Name); err != nil {
			return err
		}
		pet.Observe(&s.pet, now, s.rules)
		res = pet.Feed(&s.pet, food, s.rules)
		s.increment(ctx, catalog.AchFeedingNovice, 1)
		s.increment(ctx, catalog.AchFeedingExpert, 1)
		s.afterAction(ctx, res)
		return nil
	})
	return res, err
}

// Play играет с питомцем игрушкой itemID.
func (s *Service) Play(ctx context.Context, itemID string) (pet.ActionResult, error) {
	var res pet.ActionResult
	err := s.mutate(ctx, func(now time.Time) error {
		toy, err := s.catalog.Item(itemID, model.ItemToy)
		if err != nil {
			return err
		}
		if err := s.buy(ctx, toy.Price, "Toy: "+toy.Name); err != nil {
			return err
		}
		pet.Observe(&s.pet, now, s.rules)
		res = pet.Play(&s.pet, toy, s.rules)
		s.increment(ctx, catalog.AchPlayful, 1)
		s.afterAction(ctx, res)
		return nil
	})
	return res, err
}

// Clean моет питомца.
func (s *Service) Clean(ctx context.Context) (pet.ActionResult, error) {
	var res pet.ActionResult
	err := s.mutate(ctx, func(now time.Time) error {
		pet.Observe(&s.pet, now, s.rules)
		res = pet.Clean(&s.pet, s.rules)
		s.increment(ctx, catalog.AchCleanFreak, 1)
		s.afterAction(ctx, res)
		return nil
	})
	return res, err
}

// Sleep укладывает питомца спать.
func (s *Service) Sleep(ctx context.Context) (pet.ActionResult, error) {
	var res pet.ActionResult
	err := s.mutate(ctx, func(now time.Time) error {
		pet.Observe(&s.pet, now, s.rules)
		res = pet.Sleep(&s.pet, s.rules)
		s.increment(ctx, catalog.AchSleepyhead, 1)
		s.afterAction(ctx, res)
		return nil
	})
	return res, err
}

// Heal лечит питомца лекарством itemID.
func (s *Service) Heal(ctx context.Context, itemID string) (pet.ActionResult, error) {
	var res pet.ActionResult
	err := s.mutate(ctx, func(now time.Time) error {
		medicine, err := s.catalog.Item(itemID, model.ItemMedicine)
		if err != nil {
			return err
		}
		if err := s.buy(ctx, medicine.Price, "Medicine: "+medicine.Name); err != nil {
			return err
		}
		pet.Observe(&s.pet, now, s.rules)
		res = pet.Heal(&s.pet, medicine, s.rules)
		s.afterAction(ctx, res)
		return nil
	})
	return res, err
}

// EquipAccessory покупает аксессуар и надевает его, заменяя занимавший слот.
// Уже надетый аксессуар повторно не оплачивается.
func (s *Service) EquipAccessory(ctx context.Context, accessoryID string) (model.Pet, error) {
	var p model.Pet
	err := s.mutate(ctx, func(time.Time) error {
		item, err := s.catalog.Accessory(accessoryID)
		if err != nil {
			return err
		}
		if !pet.Wears(s.pet, item.ID) {
			if err := s.buy(ctx, item.Price, "Accessory: "+item.Name); err != nil {
				return err
			}
			pet.Equip(&s.pet, item)
			s.increment(ctx, catalog.AchFashionista, 1)
		}
		p = clonePet(s.pet)
		return nil
	})
	return p, err
}

// UnequipAccessory снимает аксессуар из слота.
func (s *Service) UnequipAccessory(ctx context.Context, slot model.Slot) (model.Pet, error) {
	slot = model.Slot(strings.ToLower(strings.TrimSpace(string(slot))))
	switch slot {
	case model.SlotHead, model.SlotEyes, model.SlotNeck, model.SlotBack:
	default:
		return model.Pet{}, ErrInvalidSlot
	}

	var p model.Pet
	err := s.mutate(ctx, func(time.Time) error {
		if !pet.Unequip(&s.pet, slot) {
			return ErrSlotEmpty
		}
		p = clonePet(s.pet)
		return nil
	})
	return p, err
}

// afterAction реагирует на рост уровня и эволюцию.
func (s *Service) afterAction(ctx context.Context, res pet.ActionResult) {
	if res.LevelsGained > 0 {
		s.notify(ctx, "Level up!", fmt.Sprintf("%s reached level %d.", s.pet.Name, res.Level))
		s.reach(ctx, catalog.AchLevel5, res.Level)
		s.reach(ctx, catalog.AchLevel10, res.Level)
	}
	if res.Evolved {
		s.notify(ctx, "Your pet evolved!", fmt.Sprintf("%s is now a %s.", s.pet.Name, res.Stage))
		s.logger.Info("pet evolved",
			zap.String("id", s.pet.ID),
			zap.String("stage", string(res.Stage)),
		)
	}
}

// refreshLowStats забывает о характеристиках, вернувшихся выше порога,
// чтобы следующее падение снова породило уведомление.
func (s *Service) refreshLowStats() {
	current := map[string]bool{}
	for _, name := range pet.LowStats(s.pet.Stats, s.balance.LowStatThreshold) {
		current[name] = true
	}
	for name := range s.low {
		if !current[name] {
			delete(s.low, name)
		}
	}
}

// checkLowStats уведомляет о характеристиках, впервые опустившихся ниже порога.
func (s *Service) checkLowStats(ctx context.Context) {
	s.refreshLowStats()
	for _, name := range pet.LowStats(s.pet.Stats, s.balance.LowStatThreshold) {
		if s.low[name] {
			continue
		}
		s.low[name] = true
		s.notify(ctx, lowStatTitle(name), fmt.Sprintf("%s needs attention: %s is low.", s.pet.Name, name))
	}
}

func lowStatTitle(stat string) string {
	switch stat {
	case "hunger":
		return "Your pet is hungry"
	case "happiness":
		return "Your pet is sad"
	case "health":
		return "Your pet is sick"
	case "cleanliness":
		return "Your pet is dirty"
	case "energy":
		return "Your pet is tired"
	default:
		return "Your pet needs attention"
	}
}

func clonePet(p model.Pet) model.Pet {
	p.Accessories = append([]model.Accessory{}, p.Accessories...)
	return p
}
