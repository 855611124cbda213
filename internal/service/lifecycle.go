package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/petcare/internal/backup"
	"github.com/mmeshcher/petcare/internal/cloudsync"
	"github.com/mmeshcher/petcare/internal/ledger"
	"github.com/mmeshcher/petcare/internal/model"
	"github.com/mmeshcher/petcare/internal/pet"
)

// Интервалы фоновых циклов по умолчанию.
const (
	DefaultDecayInterval    = 60 * time.Second
	DefaultAutosaveInterval = 300 * time.Second
)

// Tick применяет убывание характеристик на текущий момент и уведомляет о
// характеристиках, опустившихся ниже порога. Состояние не сохраняется:
// этим занимается автосохранение.
func (s *Service) Tick(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.onboarded {
		return
	}
	pet.Observe(&s.pet, s.clock.Now(), s.rules)
	s.checkLowStats(ctx)
}

// Save сохраняет состояние целиком.
func (s *Service) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(ctx)
}

// Run запускает циклы убывания и автосохранения до отмены ctx.
// При остановке состояние сохраняется.
func (s *Service) Run(ctx context.Context, decayEvery, autosaveEvery time.Duration) error {
	if decayEvery <= 0 {
		decayEvery = DefaultDecayInterval
	}
	if autosaveEvery <= 0 {
		autosaveEvery = DefaultAutosaveInterval
	}

	decay := s.clock.NewTicker(decayEvery)
	defer decay.Stop()
	autosave := s.clock.NewTicker(autosaveEvery)
	defer autosave.Stop()

	for {
		select {
		case <-ctx.Done():
			return s.finalSave()
		case <-decay.C():
			s.Tick(ctx)
		case <-autosave.C():
			if err := s.Save(ctx); err != nil {
				s.logger.Error("autosave failed", zap.Error(err))
			}
		}
	}
}

func (s *Service) finalSave() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Save(ctx); err != nil {
		s.logger.Error("final save failed", zap.Error(err))
		return err
	}
	return nil
}

// BackupSnapshot возвращает снимок питомца и серии бонусов для резервной копии.
func (s *Service) BackupSnapshot(_ context.Context) (backup.Snapshot, error) {
	var snap backup.Snapshot
	err := s.read(func(now time.Time) {
		p := clonePet(s.pet)
		pet.Observe(&p, now, s.rules)
		snap = backup.Snapshot{
			ExportedAt:  now,
			Pet:         p,
			Streak:      s.bonusState.Streak,
			LastBonusAt: s.bonusState.LastClaimAt,
		}
	})
	return snap, err
}

// ExportBackup возвращает документ резервной копии.
func (s *Service) ExportBackup(ctx context.Context) ([]byte, error) {
	snap, err := s.BackupSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return backup.Marshal(snap)
}

// ImportBackup заменяет питомца и серию бонусов содержимым резервной копии.
func (s *Service) ImportBackup(ctx context.Context, r io.Reader) (model.Pet, error) {
	snap, err := backup.Decode(r)
	if err != nil {
		return model.Pet{}, err
	}
	return s.RestoreSnapshot(ctx, snap)
}

// RestoreSnapshot заменяет питомца и серию бонусов снимком snap.
// Прогресс достижений, заданий и история операций сохраняются.
func (s *Service) RestoreSnapshot(ctx context.Context, snap backup.Snapshot) (model.Pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := s.checkpoint()
	now := s.clock.Now()
	p := clonePet(snap.Pet)
	if p.LastObservedAt.IsZero() || p.LastObservedAt.After(now) {
		p.LastObservedAt = now
	}
	if p.BornAt.IsZero() {
		p.BornAt = now
	}

	s.pet = p
	s.ledger = ledger.New(p.Balance, s.ledger.History(), s.balance.HistoryCap, s.clock.Now)
	s.pet.Balance = s.ledger.Balance()
	s.bonusState.Streak = snap.Streak
	s.bonusState.LastClaimAt = snap.LastBonusAt
	s.bonusState.LongestStreak = max(s.bonusState.LongestStreak, snap.Streak)
	s.low = map[string]bool{}
	s.onboarded = true

	if err := s.commitOnboarding(ctx); err != nil {
		s.rollback(cp)
		return model.Pet{}, err
	}

	s.logger.Info("backup imported", zap.String("id", p.ID), zap.Time("exportedAt", snap.ExportedAt))
	return clonePet(s.pet), nil
}

// Reset удаляет питомца и всё сохранённое состояние.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset store: %w", err)
	}
	s.resetState()
	s.outbox.Clear()
	s.cloudPause = time.Time{}
	s.logger.Info("state reset")
	return nil
}

// StartCloudSync запускает фоновую выгрузку резервной копии в облако каждые interval.
// Без настроенного клиента ничего не делает.
func (s *Service) StartCloudSync(ctx context.Context, interval time.Duration) {
	if s.cloud == nil {
		return
	}
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	ticker := s.clock.NewTicker(interval)
	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C():
				if err := s.SyncNow(ctx); err != nil && !errors.Is(err, ErrNoPet) {
					s.logger.Warn("cloud sync failed", zap.Error(err))
				}
			}
		}
	}()
}

// SyncNow выгружает резервную копию в облако под идентификатором питомца.
// После ответа 429 выгрузки пропускаются до истечения Retry-After.
func (s *Service) SyncNow(ctx context.Context) error {
	if s.cloud == nil {
		return cloudsync.ErrNotConfigured
	}

	s.mu.Lock()
	pause := s.cloudPause
	id := s.pet.ID
	onboarded := s.onboarded
	now := s.clock.Now()
	s.mu.Unlock()

	if !onboarded {
		return ErrNoPet
	}
	if now.Before(pause) {
		return nil
	}

	doc, err := s.ExportBackup(ctx)
	if err != nil {
		return err
	}

	retryAfter, err := s.cloud.Upload(ctx, id, doc)
	if errors.Is(err, cloudsync.ErrRateLimited) {
		s.mu.Lock()
		s.cloudPause = now.Add(retryAfter)
		s.mu.Unlock()
		s.logger.Info("cloud sync rate limited", zap.Duration("retryAfter", retryAfter))
		return nil
	}
	return err
}

// RestoreFromCloud загружает резервную копию recordID из облака и импортирует её.
func (s *Service) RestoreFromCloud(ctx context.Context, recordID string) (model.Pet, error) {
	if s.cloud == nil {
		return model.Pet{}, cloudsync.ErrNotConfigured
	}
	doc, _, err := s.cloud.Download(ctx, recordID)
	if err != nil {
		return model.Pet{}, err
	}
	return s.ImportBackup(ctx, bytes.NewReader(doc))
}
