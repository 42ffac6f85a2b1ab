package health

import (
	"context"
	"sync"
	"time"

	"github.com/vietddude/crosspay/internal/core/domain"
)

// Source is the state the monitor inspects.
type Source interface {
	Ping(ctx context.Context) error
	Addresses(ctx context.Context) []domain.AddressEntry
	Transactions(ctx context.Context) []domain.TxRecord
	PeekSession(ctx context.Context) domain.AdminSession
	Keys(ctx context.Context) ([]string, error)
}

// Monitor derives a health report from the local store.
type Monitor struct {
	source     Source
	ttl        time.Duration
	lastCheck  time.Time
	lastReport *Report
	mu         sync.Mutex
}

// NewMonitor creates a new health monitor. Reports are cached for ttl.
func NewMonitor(source Source, ttl time.Duration) *Monitor {
	return &Monitor{source: source, ttl: ttl}
}

// CheckHealth returns the current report.
func (m *Monitor) CheckHealth(ctx context.Context) Report {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lastReport != nil && time.Since(m.lastCheck) < m.ttl {
		return *m.lastReport
	}

	report := Report{Status: StatusHealthy}
	if err := m.source.Ping(ctx); err != nil {
		report.Status = StatusCritical
		report.StorageError = err.Error()
	} else {
		report.Addresses = len(m.source.Addresses(ctx))
		report.Transactions = len(m.source.Transactions(ctx))
		report.AdminLoggedIn = m.source.PeekSession(ctx).IsAuthenticated
		if keys, err := m.source.Keys(ctx); err == nil {
			report.StoredKeys = keys
		}

		// Without curated addresses every destination is treated as high risk.
		if report.Addresses == 0 {
			report.Status = StatusDegraded
		}
	}

	m.lastCheck = time.Now()
	m.lastReport = &report
	return report
}
