// Package service реализует бизнес-логику сервиса petcare: загрузку и
// сохранение состояния, действия ухода, экономику и фоновые циклы.
package service

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/petcare/internal/achievement"
	"github.com/mmeshcher/petcare/internal/bonus"
	"github.com/mmeshcher/petcare/internal/catalog"
	"github.com/mmeshcher/petcare/internal/clock"
	"github.com/mmeshcher/petcare/internal/cloudsync"
	"github.com/mmeshcher/petcare/internal/config"
	"github.com/mmeshcher/petcare/internal/daily"
	"github.com/mmeshcher/petcare/internal/ledger"
	"github.com/mmeshcher/petcare/internal/minigame"
	"github.com/mmeshcher/petcare/internal/model"
	"github.com/mmeshcher/petcare/internal/notify"
	"github.com/mmeshcher/petcare/internal/pet"
	"github.com/mmeshcher/petcare/internal/repository"
)

// SchemaVersion задаёт текущую версию схемы сохранённых данных.
const SchemaVersion = 2

var (
	// ErrNoPet возвращается, если питомец ещё не создан.
	ErrNoPet = errors.New("pet not found")
	// ErrPetExists возвращается при повторном создании питомца.
	ErrPetExists = errors.New("pet already exists")
	// ErrSlotEmpty возвращается при попытке снять аксессуар из пустого слота.
	ErrSlotEmpty = errors.New("accessory slot is empty")
	// ErrInvalidSlot возвращается для неизвестного слота.
	ErrInvalidSlot = errors.New("unknown accessory slot")
)

// Store описывает контракт хранилища состояния, используемый сервисом.
type Store interface {
	Close() error
	Onboarded(ctx context.Context) (bool, error)
	SetOnboarded(ctx context.Context, v bool) error
	SchemaVersion(ctx context.Context) (int, error)
	SetSchemaVersion(ctx context.Context, v int) error
	LoadPet(ctx context.Context) (model.Pet, error)
	LoadTransactions(ctx context.Context) ([]model.Transaction, error)
	LoadAchievements(ctx context.Context) ([]model.Achievement, error)
	LoadDailies(ctx context.Context) ([]model.DailyActivity, error)
	LoadCooldowns(ctx context.Context) (map[string]time.Time, error)
	LoadBonus(ctx context.Context) (model.BonusState, error)
	SaveAll(ctx context.Context, snap repository.Snapshot) error
	Reset(ctx context.Context) error
}

// Options содержит необязательные зависимости сервиса.
type Options struct {
	Balance  config.Balance
	Clock    clock.Clock
	Location *time.Location
	Rand     *rand.Rand
	Logger   *zap.Logger
	Notifier notify.Notifier
	Cloud    *cloudsync.Client
}

// Service содержит бизнес-логику petcare. Все операции сериализуются мьютексом.
type Service struct {
	mu sync.Mutex

	store    Store
	catalog  *catalog.Catalog
	balance  config.Balance
	rules    pet.Rules
	clock    clock.Clock
	loc      *time.Location
	rng      *rand.Rand
	logger   *zap.Logger
	outbox   *notify.Outbox
	notifier notify.Notifier
	bonus    *bonus.Tracker
	cloud    *cloudsync.Client

	onboarded    bool
	pet          model.Pet
	ledger       *ledger.Ledger
	achievements *achievement.Tracker
	dailies      *daily.Board
	cooldowns    *minigame.Tracker
	bonusState   model.BonusState
	low          map[string]bool
	cloudPause   time.Time
}

// NewService создаёт сервис поверх хранилища store и справочников cat.
// Состояние читается отдельно вызовом Load.
func NewService(store Store, cat *catalog.Catalog, opts Options) *Service {
	if opts.Balance.XPPerLevel == 0 {
		opts.Balance = config.DefaultBalance()
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if cat == nil {
		cat = catalog.Seed()
	}

	outbox := notify.NewOutbox(notify.DefaultOutboxSize)
	var notifier notify.Notifier = outbox
	if opts.Notifier != nil {
		notifier = notify.Multi{outbox, opts.Notifier}
	}

	s := &Service{
		store:    store,
		catalog:  cat,
		balance:  opts.Balance,
		rules:    pet.RulesFromBalance(opts.Balance),
		clock:    opts.Clock,
		loc:      opts.Location,
		rng:      opts.Rand,
		logger:   opts.Logger,
		outbox:   outbox,
		notifier: notifier,
		bonus:    bonus.NewTracker(opts.Balance.BonusTable, opts.Location),
		cloud:    opts.Cloud,
	}
	s.resetState()
	return s
}

// Close закрывает хранилище.
func (s *Service) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

// resetState возвращает состояние к «питомца нет».
func (s *Service) resetState() {
	s.onboarded = false
	s.pet = model.Pet{}
	s.ledger = ledger.New(0, nil, s.balance.HistoryCap, s.clock.Now)
	s.achievements = achievement.NewTracker(s.catalog.Achievements(), s.notifier, s.clock.Now)
	s.dailies = daily.NewBoard(s.catalog.DailyActivities(), s.loc, s.rng)
	s.cooldowns = minigame.NewTracker(nil)
	s.bonusState = model.BonusState{}
	s.low = map[string]bool{}
}

// Load читает состояние из хранилища. Повреждённые значения заменяются
// значениями по умолчанию с предупреждением в логе. Убывание характеристик
// за время простоя применяется сразу.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetState()

	onboarded, err := s.store.Onboarded(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrDecode) {
			return fmt.Errorf("load onboarding flag: %w", err)
		}
		s.logger.Warn("stored onboarding flag is corrupted, starting over", zap.Error(err))
		onboarded = false
	}

	version, err := s.store.SchemaVersion(ctx)
	if err != nil {
		s.logger.Warn("stored schema version is corrupted", zap.Error(err))
		version = 0
	}

	if !onboarded {
		return nil
	}

	p, err := s.store.LoadPet(ctx)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrDecode):
		s.logger.Warn("stored pet is missing or corrupted, starting over", zap.Error(err))
		return nil
	default:
		return fmt.Errorf("load pet: %w", err)
	}
	pet.Normalize(&p)

	txs, err := s.store.LoadTransactions(ctx)
	if err := s.fallback("transactions", err); err != nil {
		return err
	}
	achs, err := s.store.LoadAchievements(ctx)
	if err := s.fallback("achievements", err); err != nil {
		return err
	}
	dailies, err := s.store.LoadDailies(ctx)
	if err := s.fallback("dailies", err); err != nil {
		return err
	}
	cooldowns, err := s.store.LoadCooldowns(ctx)
	if err := s.fallback("cooldowns", err); err != nil {
		return err
	}
	bonusState, err := s.store.LoadBonus(ctx)
	if err := s.fallback("bonus", err); err != nil {
		return err
	}

	if len(achs) == 0 {
		achs = s.catalog.Achievements()
	}
	if len(dailies) == 0 {
		dailies = s.catalog.DailyActivities()
	}
	if version < SchemaVersion {
		s.logger.Info("migrating stored state",
			zap.Int("from", version),
			zap.Int("to", SchemaVersion),
		)
		achs = achievement.Merge(achs, s.catalog.Achievements())
		dailies = daily.Merge(dailies, s.catalog.DailyActivities())
	}

	s.onboarded = true
	s.pet = p
	s.ledger = ledger.New(p.Balance, txs, s.balance.HistoryCap, s.clock.Now)
	s.pet.Balance = s.ledger.Balance()
	s.achievements = achievement.NewTracker(achs, s.notifier, s.clock.Now)
	s.dailies = daily.NewBoard(dailies, s.loc, s.rng)
	s.cooldowns = minigame.NewTracker(cooldowns)
	s.bonusState = bonusState

	pet.Observe(&s.pet, s.clock.Now(), s.rules)
	for _, name := range pet.LowStats(s.pet.Stats, s.balance.LowStatThreshold) {
		s.low[name] = true
	}

	if version < SchemaVersion {
		if err := s.persist(ctx); err != nil {
			return err
		}
		if err := s.store.SetSchemaVersion(ctx, SchemaVersion); err != nil {
			return fmt.Errorf("save schema version: %w", err)
		}
	}
	return nil
}

// fallback пропускает отсутствующие и повреждённые значения.
func (s *Service) fallback(key string, err error) error {
	switch {
	case err == nil, errors.Is(err, repository.ErrNotFound):
		return nil
	case errors.Is(err, repository.ErrDecode):
		s.logger.Warn("stored value is corrupted, using defaults",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil
	default:
		return fmt.Errorf("load %s: %w", key, err)
	}
}

func (s *Service) snapshot() repository.Snapshot {
	return repository.Snapshot{
		Pet:          s.pet,
		Transactions: s.ledger.History(),
		Achievements: s.achievements.All(),
		Dailies:      s.dailies.Activities(),
		Cooldowns:    s.cooldowns.Snapshot(),
		Bonus:        s.bonusState,
	}
}

func (s *Service) persist(ctx context.Context) error {
	if !s.onboarded {
		return nil
	}
	if err := s.store.SaveAll(ctx, s.snapshot()); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// checkpoint хранит копию изменяемого состояния для отката.
type checkpoint struct {
	onboarded    bool
	pet          model.Pet
	ledger       *ledger.Ledger
	achievements *achievement.Tracker
	dailies      *daily.Board
	cooldowns    *minigame.Tracker
	bonusState   model.BonusState
	low          map[string]bool
}

func (s *Service) checkpoint() checkpoint {
	b := s.bonusState
	if b.LastClaimAt != nil {
		t := *b.LastClaimAt
		b.LastClaimAt = &t
	}
	return checkpoint{
		onboarded:    s.onboarded,
		pet:          clonePet(s.pet),
		ledger:       s.ledger.Clone(),
		achievements: s.achievements.Clone(),
		dailies:      s.dailies.Clone(),
		cooldowns:    s.cooldowns.Clone(),
		bonusState:   b,
		low:          maps.Clone(s.low),
	}
}

func (s *Service) rollback(c checkpoint) {
	s.onboarded = c.onboarded
	s.pet = c.pet
	s.ledger = c.ledger
	s.achievements = c.achievements
	s.dailies = c.dailies
	s.cooldowns = c.cooldowns
	s.bonusState = c.bonusState
	s.low = c.low
}

// mutate выполняет изменение состояния питомца и сохраняет результат.
// Если изменение или сохранение не удалось, состояние откатывается.
func (s *Service) mutate(ctx context.Context, fn func(now time.Time) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.onboarded {
		return ErrNoPet
	}
	cp := s.checkpoint()
	if err := fn(s.clock.Now()); err != nil {
		s.rollback(cp)
		return err
	}
	s.refreshLowStats()
	if err := s.persist(ctx); err != nil {
		s.rollback(cp)
		return err
	}
	return nil
}

// read выполняет fn под мьютексом, требуя наличия питомца.
func (s *Service) read(fn func(now time.Time)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.onboarded {
		return ErrNoPet
	}
	fn(s.clock.Now())
	return nil
}

func (s *Service) notify(ctx context.Context, title, body string) {
	s.notifier.Notify(ctx, model.Notification{
		Title:     title,
		Body:      body,
		CreatedAt: s.clock.Now(),
	})
}
