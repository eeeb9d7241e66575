package session

import "sync"

// Manager owns the live session. Every change is handed to the AutoSaver.
type Manager struct {
	mu    sync.RWMutex
	cur   *Snapshot
	saver *AutoSaver
}

// NewManager starts from initial. saver may be nil for an unsaved session.
func NewManager(initial *Snapshot, saver *AutoSaver) *Manager {
	if initial == nil {
		initial = New()
	}
	return &Manager{cur: initial, saver: saver}
}

// Get returns a copy of the current session.
func (m *Manager) Get() *Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur.Clone()
}

// Set replaces the session and returns a copy of it.
func (m *Manager) Set(s *Snapshot) *Snapshot {
	return m.Update(func(cur *Snapshot) { *cur = *s.Clone() })
}

// Update applies fn to the session and schedules a save. It returns a copy
// of the updated session.
func (m *Manager) Update(fn func(*Snapshot)) *Snapshot {
	m.mu.Lock()
	fn(m.cur)
	out := m.cur.Clone()
	m.mu.Unlock()

	if m.saver != nil {
		m.saver.Touch(out)
	}
	return out
}
