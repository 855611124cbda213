package ledger

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mmeshcher/petcare/internal/model"
)

func fixedNow() time.Time {
	return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
}

func TestEarn(t *testing.T) {
	l := New(0, nil, 0, fixedNow)

	tx, err := l.Earn(25, "daily bonus")
	if err != nil {
		t.Fatalf("Earn error: %v", err)
	}
	if l.Balance() != 25 {
		t.Fatalf("Balance = %d, want 25", l.Balance())
	}
	if tx.Direction != model.DirectionEarned || tx.Amount != 25 || tx.ID == "" {
		t.Fatalf("unexpected transaction: %+v", tx)
	}
	if !tx.CreatedAt.Equal(fixedNow()) {
		t.Fatalf("CreatedAt = %v, want %v", tx.CreatedAt, fixedNow())
	}

	if _, err := l.Earn(0, "nothing"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("Earn(0) err = %v, want ErrInvalidAmount", err)
	}
}

func TestSpend(t *testing.T) {
	tests := []struct {
		name        string
		balance     int
		amount      int
		wantErr     error
		wantBalance int
	}{
		{name: "enough funds", balance: 50, amount: 20, wantBalance: 30},
		{name: "exact balance", balance: 50, amount: 50, wantBalance: 0},
		{name: "insufficient", balance: 10, amount: 11, wantErr: ErrInsufficientFunds, wantBalance: 10},
		{name: "zero amount", balance: 10, amount: 0, wantErr: ErrInvalidAmount, wantBalance: 10},
		{name: "negative amount", balance: 10, amount: -5, wantErr: ErrInvalidAmount, wantBalance: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.balance, nil, 0, fixedNow)

			_, err := l.Spend(tt.amount, "item")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Spend err = %v, want %v", err, tt.wantErr)
			}
			if l.Balance() != tt.wantBalance {
				t.Fatalf("Balance = %d, want %d", l.Balance(), tt.wantBalance)
			}
			if tt.wantErr != nil && len(l.History()) != 0 {
				t.Fatalf("failed spend must not append history")
			}
		})
	}
}

func TestHistoryCap(t *testing.T) {
	l := New(0, nil, 5, fixedNow)

	for i := 1; i <= 8; i++ {
		if _, err := l.Earn(i, fmt.Sprintf("earn %d", i)); err != nil {
			t.Fatalf("Earn error: %v", err)
		}
	}

	h := l.History()
	if len(h) != 5 {
		t.Fatalf("len(history) = %d, want 5", len(h))
	}
	if h[0].Amount != 4 || h[4].Amount != 8 {
		t.Fatalf("history must keep the newest entries, got first=%d last=%d", h[0].Amount, h[4].Amount)
	}
	if l.Balance() != 36 {
		t.Fatalf("Balance = %d, want 36", l.Balance())
	}
}

func TestNewTrimsLoadedHistory(t *testing.T) {
	history := make([]model.Transaction, 150)
	for i := range history {
		history[i] = model.Transaction{Amount: i + 1, Direction: model.DirectionEarned}
	}

	l := New(10, history, DefaultHistoryCap, fixedNow)

	h := l.History()
	if len(h) != DefaultHistoryCap {
		t.Fatalf("len(history) = %d, want %d", len(h), DefaultHistoryCap)
	}
	if h[0].Amount != 51 {
		t.Fatalf("oldest kept amount = %d, want 51", h[0].Amount)
	}
}

func TestTotals(t *testing.T) {
	l := New(100, nil, 0, fixedNow)
	_, _ = l.Earn(30, "a")
	_, _ = l.Spend(50, "b")
	_, _ = l.Spend(500, "too much")

	earned, spent := l.Totals()
	if earned != 30 || spent != 50 {
		t.Fatalf("Totals = (%d, %d), want (30, 50)", earned, spent)
	}
	if !l.CanAfford(80) || l.CanAfford(81) {
		t.Fatalf("CanAfford mismatch for balance %d", l.Balance())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	l := New(50, nil, 0, fixedNow)
	if _, err := l.Earn(10, "bonus"); err != nil {
		t.Fatalf("Earn: %v", err)
	}

	c := l.Clone()
	if _, err := c.Spend(60, "crown"); err != nil {
		t.Fatalf("Spend on clone: %v", err)
	}

	if l.Balance() != 60 || len(l.History()) != 1 {
		t.Fatalf("original changed: balance %d, history %d", l.Balance(), len(l.History()))
	}
	if c.CanAfford(1) {
		t.Fatalf("clone balance = %d, want 0", c.Balance())
	}
	if !l.CanAfford(60) || l.CanAfford(61) {
		t.Fatalf("CanAfford disagrees with balance %d", l.Balance())
	}
}
