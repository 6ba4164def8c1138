package ttl

import "time"

// Manager holds the optional default TTL and clock source, and implements
// the expiration math every TTL operation is built on.
type Manager struct {
	defaultTTL *time.Duration
	clock      Clock
}

// NewManager builds a Manager. A nil defaultTTL means entries without a
// per-key duration never expire. A nil clock uses time.Now.
func NewManager(defaultTTL *time.Duration, clock Clock) *Manager {
	if clock == nil {
		clock = systemClock{}
	}
	return &Manager{defaultTTL: defaultTTL, clock: clock}
}

// CalculateExpiration returns duration.Or(defaultTTL).Map(now + d), or nil
// if neither duration nor a default TTL is configured.
func (m *Manager) CalculateExpiration(duration *time.Duration) *int64 {
	d := duration
	if d == nil {
		d = m.defaultTTL
	}
	if d == nil {
		return nil
	}
	expiresAt := m.clock.NowMillis() + d.Milliseconds()
	return &expiresAt
}

// IsExpired reports whether expiresAt has passed. A nil expiresAt never
// expires.
func (m *Manager) IsExpired(expiresAt *int64) bool {
	if expiresAt == nil {
		return false
	}
	return m.clock.NowMillis() >= *expiresAt
}

// NowMillis exposes the manager's clock for callers building TtlEntry
// values directly.
func (m *Manager) NowMillis() int64 {
	return m.clock.NowMillis()
}
