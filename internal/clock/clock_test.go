package clock

import (
	"testing"
	"time"
)

func TestFakeClockAdvance(t *testing.T) {
	start := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	c := NewFakeClock(start)

	c.Advance(90 * time.Second)

	if got := c.Now(); !got.Equal(start.Add(90 * time.Second)) {
		t.Fatalf("Now() = %v, want %v", got, start.Add(90*time.Second))
	}
}

func TestFakeTickerFiresOnBoundary(t *testing.T) {
	start := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	c := NewFakeClock(start)
	tk := c.NewTicker(time.Minute)
	defer tk.Stop()

	c.Advance(59 * time.Second)
	select {
	case <-tk.C():
		t.Fatalf("ticker fired before its period")
	default:
	}

	c.Advance(time.Second)
	select {
	case got := <-tk.C():
		if !got.Equal(start.Add(time.Minute)) {
			t.Fatalf("tick = %v, want %v", got, start.Add(time.Minute))
		}
	default:
		t.Fatalf("ticker did not fire at its period")
	}
}

func TestFakeTickerStop(t *testing.T) {
	c := NewFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	tk := c.NewTicker(time.Second)

	if c.Tickers() != 1 {
		t.Fatalf("Tickers() = %d, want 1", c.Tickers())
	}

	tk.Stop()
	c.Advance(5 * time.Second)

	select {
	case <-tk.C():
		t.Fatalf("stopped ticker fired")
	default:
	}
	if c.Tickers() != 0 {
		t.Fatalf("Tickers() = %d, want 0", c.Tickers())
	}
}
