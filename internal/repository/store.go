package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mmeshcher/petcare/internal/model"
)

// Ключи хранилища.
const (
	KeyPet           = "pet"
	KeyTransactions  = "transactions"
	KeyAchievements  = "achievements"
	KeyDailies       = "dailies"
	KeyOnboarded     = "onboarded"
	KeyCooldowns     = "cooldowns"
	KeyBonus         = "bonus"
	KeySchemaVersion = "schema_version"
)

// AllKeys перечисляет все ключи, которые удаляет Reset.
var AllKeys = []string{
	KeyPet, KeyTransactions, KeyAchievements, KeyDailies,
	KeyOnboarded, KeyCooldowns, KeyBonus, KeySchemaVersion,
}

// Snapshot содержит полное сохраняемое состояние.
type Snapshot struct {
	Pet          model.Pet
	Transactions []model.Transaction
	Achievements []model.Achievement
	Dailies      []model.DailyActivity
	Cooldowns    map[string]time.Time
	Bonus        model.BonusState
}

// Store предоставляет типизированный доступ к KV.
type Store struct {
	kv KV
}

// NewStore создаёт Store поверх kv.
func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Close закрывает нижележащее хранилище.
func (s *Store) Close() error {
	return s.kv.Close()
}

func load[T any](ctx context.Context, kv KV, key string) (T, error) {
	var v T
	raw, err := kv.Get(ctx, key)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %s: %v", ErrDecode, key, err)
	}
	return v, nil
}

func save(ctx context.Context, kv KV, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return kv.Put(ctx, key, raw)
}

// LoadPet читает питомца.
func (s *Store) LoadPet(ctx context.Context) (model.Pet, error) {
	return load[model.Pet](ctx, s.kv, KeyPet)
}

// SavePet сохраняет питомца.
func (s *Store) SavePet(ctx context.Context, p model.Pet) error {
	return save(ctx, s.kv, KeyPet, p)
}

// LoadTransactions читает историю операций.
func (s *Store) LoadTransactions(ctx context.Context) ([]model.Transaction, error) {
	return load[[]model.Transaction](ctx, s.kv, KeyTransactions)
}

// SaveTransactions сохраняет историю операций.
func (s *Store) SaveTransactions(ctx context.Context, txs []model.Transaction) error {
	return save(ctx, s.kv, KeyTransactions, txs)
}

// LoadAchievements читает достижения с прогрессом.
func (s *Store) LoadAchievements(ctx context.Context) ([]model.Achievement, error) {
	return load[[]model.Achievement](ctx, s.kv, KeyAchievements)
}

// SaveAchievements сохраняет достижения с прогрессом.
func (s *Store) SaveAchievements(ctx context.Context, items []model.Achievement) error {
	return save(ctx, s.kv, KeyAchievements, items)
}

// LoadDailies читает ежедневные задания.
func (s *Store) LoadDailies(ctx context.Context) ([]model.DailyActivity, error) {
	return load[[]model.DailyActivity](ctx, s.kv, KeyDailies)
}

// SaveDailies сохраняет ежедневные задания.
func (s *Store) SaveDailies(ctx context.Context, items []model.DailyActivity) error {
	return save(ctx, s.kv, KeyDailies, items)
}

// LoadCooldowns читает время последних игр.
func (s *Store) LoadCooldowns(ctx context.Context) (map[string]time.Time, error) {
	return load[map[string]time.Time](ctx, s.kv, KeyCooldowns)
}

// SaveCooldowns сохраняет время последних игр.
func (s *Store) SaveCooldowns(ctx context.Context, m map[string]time.Time) error {
	return save(ctx, s.kv, KeyCooldowns, m)
}

// LoadBonus читает состояние ежедневного бонуса.
func (s *Store) LoadBonus(ctx context.Context) (model.BonusState, error) {
	return load[model.BonusState](ctx, s.kv, KeyBonus)
}

// SaveBonus сохраняет состояние ежедневного бонуса.
func (s *Store) SaveBonus(ctx context.Context, b model.BonusState) error {
	return save(ctx, s.kv, KeyBonus, b)
}

// Onboarded сообщает, завершено ли создание питомца. Без ключа возвращает false.
func (s *Store) Onboarded(ctx context.Context) (bool, error) {
	v, err := load[bool](ctx, s.kv, KeyOnboarded)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return v, err
}

// SetOnboarded записывает флаг создания питомца.
func (s *Store) SetOnboarded(ctx context.Context, v bool) error {
	return save(ctx, s.kv, KeyOnboarded, v)
}

// SchemaVersion возвращает версию схемы данных; 0, если она не записана.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	v, err := load[int](ctx, s.kv, KeySchemaVersion)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	return v, err
}

// SetSchemaVersion записывает версию схемы данных.
func (s *Store) SetSchemaVersion(ctx context.Context, v int) error {
	return save(ctx, s.kv, KeySchemaVersion, v)
}

// SaveAll записывает снимок целиком.
func (s *Store) SaveAll(ctx context.Context, snap Snapshot) error {
	if err := s.SavePet(ctx, snap.Pet); err != nil {
		return err
	}
	if err := s.SaveTransactions(ctx, snap.Transactions); err != nil {
		return err
	}
	if err := s.SaveAchievements(ctx, snap.Achievements); err != nil {
		return err
	}
	if err := s.SaveDailies(ctx, snap.Dailies); err != nil {
		return err
	}
	if err := s.SaveCooldowns(ctx, snap.Cooldowns); err != nil {
		return err
	}
	return s.SaveBonus(ctx, snap.Bonus)
}

// Reset удаляет все ключи.
func (s *Store) Reset(ctx context.Context) error {
	for _, key := range AllKeys {
		if err := s.kv.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
