package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Histogram keeps a running count and sum of observed durations.
type Histogram struct {
	count Counter
	sumNs Counter
}

func (h *Histogram) Observe(d time.Duration) {
	h.count.Inc()
	if d > 0 {
		h.sumNs.Add(uint64(d))
	}
}

func (h *Histogram) Count() uint64 {
	return h.count.Load()
}

func (h *Histogram) Mean() time.Duration {
	n := h.count.Load()
	if n == 0 {
		return 0
	}
	return time.Duration(h.sumNs.Load() / n)
}

// Checkout groups the counters the checkout engine reports.
type Checkout struct {
	Attempts       Counter
	Orders         Counter
	FreeOrders     Counter
	CouponsApplied Counter
	CouponsDropped Counter
	// Latency covers every attempt, failed ones included.
	Latency Histogram

	mu       sync.Mutex
	failures map[string]*Counter
}

func NewCheckout() *Checkout {
	return &Checkout{failures: map[string]*Counter{}}
}

// Fail records a failed checkout under the given error kind.
func (m *Checkout) Fail(kind string) {
	m.mu.Lock()
	c, ok := m.failures[kind]
	if !ok {
		c = &Counter{}
		m.failures[kind] = c
	}
	m.mu.Unlock()

	c.Inc()
}

type Snapshot struct {
	Attempts       uint64            `json:"attempts"`
	Orders         uint64            `json:"orders"`
	FreeOrders     uint64            `json:"freeOrders"`
	CouponsApplied uint64            `json:"couponsApplied"`
	CouponsDropped uint64            `json:"couponsDropped"`
	Failures       map[string]uint64 `json:"failures"`
	MeanLatencyMs  float64           `json:"meanLatencyMs"`
}

func (m *Checkout) Snapshot() Snapshot {
	s := Snapshot{
		Attempts:       m.Attempts.Load(),
		Orders:         m.Orders.Load(),
		FreeOrders:     m.FreeOrders.Load(),
		CouponsApplied: m.CouponsApplied.Load(),
		CouponsDropped: m.CouponsDropped.Load(),
		Failures:       map[string]uint64{},
		MeanLatencyMs:  float64(m.Latency.Mean()) / float64(time.Millisecond),
	}

	m.mu.Lock()
	for k, c := range m.failures {
		s.Failures[k] = c.Load()
	}
	m.mu.Unlock()

	return s
}
