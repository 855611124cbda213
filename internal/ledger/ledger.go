// Package ledger реализует кошелёк питомца: начисления, списания и
// ограниченную историю операций.
package ledger

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmeshcher/petcare/internal/model"
)

// DefaultHistoryCap задаёт размер истории по умолчанию.
const DefaultHistoryCap = 100

var (
	// ErrInvalidAmount возвращается при неположительной сумме операции.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrInsufficientFunds возвращается при попытке списать больше, чем есть на балансе.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Ledger хранит баланс и историю операций. Не потокобезопасен:
// сериализацию обеспечивает вызывающая сторона.
type Ledger struct {
	balance int
	history []model.Transaction
	cap     int
	now     func() time.Time
}

// New создаёт кошелёк с начальным балансом и историей. История обрезается до historyCap.
func New(balance int, history []model.Transaction, historyCap int, now func() time.Time) *Ledger {
	if historyCap <= 0 {
		historyCap = DefaultHistoryCap
	}
	if balance < 0 {
		balance = 0
	}
	if now == nil {
		now = time.Now
	}
	l := &Ledger{
		balance: balance,
		history: slices.Clone(history),
		cap:     historyCap,
		now:     now,
	}
	l.trim()
	return l
}

// Balance возвращает текущий баланс.
func (l *Ledger) Balance() int { return l.balance }

// History возвращает копию истории, самые новые записи в конце.
func (l *Ledger) History() []model.Transaction { return slices.Clone(l.history) }

// Earn начисляет amount монет.
func (l *Ledger) Earn(amount int, description string) (model.Transaction, error) {
	if amount <= 0 {
		return model.Transaction{}, ErrInvalidAmount
	}
	l.balance += amount
	return l.append(amount, description, model.DirectionEarned), nil
}

// Spend списывает amount монет. При ошибке состояние не меняется.
func (l *Ledger) Spend(amount int, description string) (model.Transaction, error) {
	if amount <= 0 {
		return model.Transaction{}, ErrInvalidAmount
	}
	if amount > l.balance {
		return model.Transaction{}, ErrInsufficientFunds
	}
	l.balance -= amount
	return l.append(amount, description, model.DirectionSpent), nil
}

// Clone возвращает независимую копию кошелька.
func (l *Ledger) Clone() *Ledger {
	c := *l
	c.history = slices.Clone(l.history)
	return &c
}

// CanAfford сообщает, хватает ли средств на покупку.
func (l *Ledger) CanAfford(amount int) bool {
	return amount <= l.balance
}

// Totals возвращает суммы всех начислений и списаний в сохранённой истории.
func (l *Ledger) Totals() (earned, spent int) {
	for _, tx := range l.history {
		switch tx.Direction {
		case model.DirectionEarned:
			earned += tx.Amount
		case model.DirectionSpent:
			spent += tx.Amount
		}
	}
	return earned, spent
}

func (l *Ledger) append(amount int, description string, dir model.Direction) model.Transaction {
	tx := model.Transaction{
		ID:          uuid.NewString(),
		Amount:      amount,
		Description: strings.TrimSpace(description),
		Direction:   dir,
		CreatedAt:   l.now(),
	}
	l.history = append(l.history, tx)
	l.trim()
	return tx
}

func (l *Ledger) trim() {
	if over := len(l.history) - l.cap; over > 0 {
		l.history = slices.Delete(l.history, 0, over)
	}
}
