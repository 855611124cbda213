// Package notify доставляет пользователю уведомления о событиях питомца.
package notify

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/mmeshcher/petcare/internal/model"
)

// DefaultOutboxSize задаёт число хранимых уведомлений.
const DefaultOutboxSize = 50

// Notifier доставляет уведомление. Доставка не блокирует вызывающего и не
// возвращает ошибок: уведомления не критичны для состояния игры.
type Notifier interface {
	Notify(ctx context.Context, n model.Notification)
}

// LogNotifier записывает уведомления в лог.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier создаёт LogNotifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify записывает уведомление в лог.
func (l *LogNotifier) Notify(_ context.Context, n model.Notification) {
	l.logger.Info("notification",
		zap.String("title", n.Title),
		zap.String("body", n.Body),
		zap.Time("createdAt", n.CreatedAt),
	)
}

// Outbox хранит последние уведомления для выдачи через API.
type Outbox struct {
	mu    sync.Mutex
	items []model.Notification
	size  int
}

// NewOutbox создаёт Outbox на size уведомлений.
func NewOutbox(size int) *Outbox {
	if size <= 0 {
		size = DefaultOutboxSize
	}
	return &Outbox{size: size}
}

// Notify добавляет уведомление, вытесняя самое старое при переполнении.
func (o *Outbox) Notify(_ context.Context, n model.Notification) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.items = append(o.items, n)
	if over := len(o.items) - o.size; over > 0 {
		o.items = slices.Delete(o.items, 0, over)
	}
}

// List возвращает копию накопленных уведомлений, самые новые в конце.
func (o *Outbox) List() []model.Notification {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Clone(o.items)
}

// Clear удаляет накопленные уведомления.
func (o *Outbox) Clear() {
	o.mu.Lock()
	o.items = nil
	o.mu.Unlock()
}

// Multi рассылает уведомление всем получателям.
type Multi []Notifier

// Notify передаёт уведомление каждому получателю по порядку.
func (m Multi) Notify(ctx context.Context, n model.Notification) {
	for _, nt := range m {
		if nt != nil {
			nt.Notify(ctx, n)
		}
	}
}

// Nop отбрасывает уведомления.
type Nop struct{}

// Notify ничего не делает.
func (Nop) Notify(context.Context, model.Notification) {}
