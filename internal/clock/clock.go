// Package clock абстрагирует время и периодические тики, чтобы симуляция
// тестировалась без ожидания реального времени.
package clock

import (
	"sync"
	"time"
)

// Clock возвращает текущее время и создаёт тикеры.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker доставляет тики в канал C до вызова Stop.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// RealClock использует системное время.
type RealClock struct{}

// Now возвращает текущее системное время.
func (RealClock) Now() time.Time { return time.Now() }

// NewTicker создаёт тикер поверх time.Ticker.
func (RealClock) NewTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

type realTicker struct {
	t *time.Ticker
}

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// FakeClock детерминирован: время меняется только через Set и Advance,
// а тикеры срабатывают при переходе через свои границы.
type FakeClock struct {
	mu      sync.Mutex
	t       time.Time
	tickers []*fakeTicker
}

// NewFakeClock создаёт FakeClock с начальным временем start.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{t: start}
}

// Now возвращает текущее виртуальное время.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Set переставляет виртуальное время без срабатывания тикеров.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	for _, tk := range c.tickers {
		tk.next = t.Add(tk.period)
	}
	c.mu.Unlock()
}

// Advance сдвигает виртуальное время на d и отправляет тики всем тикерам,
// чьи границы оказались в пройденном интервале.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	now := c.t
	active := c.tickers[:0]
	for _, tk := range c.tickers {
		if tk.stopped {
			continue
		}
		active = append(active, tk)
		for !tk.next.After(now) {
			select {
			case tk.ch <- tk.next:
			default:
				// как и time.Ticker, пропускаем тик при медленном получателе
			}
			tk.next = tk.next.Add(tk.period)
		}
	}
	c.tickers = active
	c.mu.Unlock()
}

// NewTicker создаёт виртуальный тикер с периодом d.
func (c *FakeClock) NewTicker(d time.Duration) Ticker {
	if d <= 0 {
		panic("clock: non-positive ticker period")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	tk := &fakeTicker{
		clock:  c,
		period: d,
		next:   c.t.Add(d),
		ch:     make(chan time.Time, 1),
	}
	c.tickers = append(c.tickers, tk)
	return tk
}

// Tickers возвращает число активных тикеров.
func (c *FakeClock) Tickers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, tk := range c.tickers {
		if !tk.stopped {
			n++
		}
	}
	return n
}

type fakeTicker struct {
	clock   *FakeClock
	period  time.Duration
	next    time.Time
	ch      chan time.Time
	stopped bool
}

func (t *fakeTicker) C() <-chan time.Time { return t.ch }

func (t *fakeTicker) Stop() {
	t.clock.mu.Lock()
	t.stopped = true
	t.clock.mu.Unlock()
}

// SameDay сообщает, приходятся ли a и b на один календарный день в поясе loc.
// nil-пояс означает time.Local.
func SameDay(a, b time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
