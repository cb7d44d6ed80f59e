// Package health polls the backend health endpoint and exposes a
// global degraded flag. Contexts subscribe to flips of the flag to
// re-fetch when the backend comes back.
package health

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/campusrec/campusrec/internal/metrics"
)

// Checker is the slice of the API client the monitor needs.
type Checker interface {
	Health(ctx context.Context) error
}

// DefaultInterval is how often the backend is probed.
const DefaultInterval = 30 * time.Second

// Monitor periodically probes the backend and tracks reachability.
type Monitor struct {
	checker  Checker
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger

	degraded atomic.Bool

	subMu   sync.Mutex
	subs    map[int]chan struct{}
	nextSub int

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewMonitor creates a monitor. A non-positive interval falls back to
// DefaultInterval. The monitor starts optimistic: the backend is
// considered reachable until a probe says otherwise.
func NewMonitor(checker Checker, interval time.Duration, logger *slog.Logger) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{
		checker:  checker,
		interval: interval,
		timeout:  interval / 2,
		logger:   logger,
		subs:     make(map[int]chan struct{}),
		stopChan: make(chan struct{}),
	}
}

// Start probes once immediately, then on every tick until Stop.
func (m *Monitor) Start() {
	m.probe()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.probe()
			case <-m.stopChan:
				return
			}
		}
	}()
	m.logger.Debug("health monitor started", "interval", m.interval)
}

// Stop halts the poller and waits for it to exit. Safe to call twice.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopChan) })
	m.wg.Wait()
}

// Degraded reports whether the last probe failed.
func (m *Monitor) Degraded() bool {
	return m.degraded.Load()
}

// CheckNow runs a probe immediately and reports the resulting flag.
func (m *Monitor) CheckNow(ctx context.Context) bool {
	m.check(ctx)
	return m.degraded.Load()
}

// Subscribe returns a channel that signals every time the degraded
// flag flips, plus a cancel function.
func (m *Monitor) Subscribe() (<-chan struct{}, func()) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	id := m.nextSub
	m.nextSub++
	ch := make(chan struct{}, 1)
	m.subs[id] = ch

	cancel := func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		if _, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (m *Monitor) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	m.check(ctx)
}

// check updates the flag and notifies subscribers only when the flag
// actually flips.
func (m *Monitor) check(ctx context.Context) {
	err := m.checker.Health(ctx)
	nowDegraded := err != nil

	wasDegraded := m.degraded.Swap(nowDegraded)

	if nowDegraded {
		metrics.BackendUp.Set(0)
	} else {
		metrics.BackendUp.Set(1)
	}

	if nowDegraded != wasDegraded {
		if nowDegraded {
			m.logger.Warn("backend degraded", "error", err)
		} else {
			m.logger.Info("backend recovered")
		}
		m.notify()
	}
}

func (m *Monitor) notify() {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	for _, ch := range m.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
