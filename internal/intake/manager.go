package intake

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Manager hands out one Wizard per user, all sharing a draft store.
type Manager struct {
	mu      sync.Mutex
	store   DraftStore
	logger  logrus.FieldLogger
	wizards map[uint]*Wizard
}

func NewManager(store DraftStore, logger logrus.FieldLogger) *Manager {
	return &Manager{store: store, logger: logger, wizards: map[uint]*Wizard{}}
}

func (m *Manager) For(userID uint) *Wizard {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wizards[userID]
	if !ok {
		w = NewWizard(userID, m.store, m.logger)
		m.wizards[userID] = w
	}
	return w
}

// Drop forgets the user's wizard. The saved draft stays in the store.
func (m *Manager) Drop(userID uint) {
	m.mu.Lock()
	delete(m.wizards, userID)
	m.mu.Unlock()
}
