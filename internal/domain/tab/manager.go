package tab

import (
	"sync"

	"github.com/denis333rus/censornet/internal/infrastructure/monitoring"
	"github.com/denis333rus/censornet/internal/shared/id"
)

// Manager owns tab lifecycle and fans tab-state updates out to watchers.
type Manager struct {
	mu      sync.RWMutex
	tabs    map[string]*Tab // Protected by mu
	order   []string        // Creation order, protected by mu
	subs    map[uint64]chan State
	nextSub uint64
	metrics *monitoring.Metrics
}

// NewManager creates a tab manager.
func NewManager() *Manager {
	return &Manager{
		tabs: make(map[string]*Tab),
		subs: make(map[uint64]chan State),
	}
}

// WithMetrics adds metrics tracking to the manager.
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Open creates a new tab on the start page.
func (m *Manager) Open() *Tab {
	t := &Tab{
		ID:         id.NewTabID(),
		Title:      HomeTitle,
		CurrentURL: "",
	}
	t.GoHome(true)

	m.mu.Lock()
	m.tabs[t.ID] = t
	m.order = append(m.order, t.ID)
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.TabsOpen.Inc()
	}
	m.Publish(t)
	return t
}

// Get retrieves a tab by ID.
func (m *Manager) Get(id string) (*Tab, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tabs[id]
	return t, ok
}

// List returns snapshots of all tabs in creation order.
func (m *Manager) List() []State {
	m.mu.RLock()
	tabs := make([]*Tab, 0, len(m.tabs))
	for _, id := range m.order {
		if t, ok := m.tabs[id]; ok {
			tabs = append(tabs, t)
		}
	}
	m.mu.RUnlock()

	states := make([]State, len(tabs))
	for i, t := range tabs {
		states[i] = t.Snapshot()
	}
	return states
}

// Close discards a tab; pending delayed completions are invalidated so
// they cannot land on a dead tab.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	t, ok := m.tabs[id]
	if ok {
		delete(m.tabs, id)
		for i, oid := range m.order {
			if oid == id {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
	}
	m.mu.Unlock()

	if !ok {
		return false
	}
	t.CancelPending()
	if m.metrics != nil {
		m.metrics.TabsOpen.Dec()
	}
	return true
}

// Len returns the number of open tabs.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tabs)
}

// Subscribe registers a watcher for tab-state updates. The returned
// cancel function must be called to release the subscription.
func (m *Manager) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 64)

	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch
	m.mu.Unlock()

	cancel := func() {
		m.mu.Lock()
		if sub, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(sub)
		}
		m.mu.Unlock()
	}
	return ch, cancel
}

// Publish fans the tab's current snapshot out to all watchers. Slow
// watchers drop updates rather than block state transitions.
func (m *Manager) Publish(t *Tab) {
	state := t.Snapshot()

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, ch := range m.subs {
		select {
		case ch <- state:
		default:
		}
	}
}
