package state

import (
	"context"
	"sync"
)

// Manager хранит сессии в памяти процесса
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session // telegramID -> Session
}

// NewManager создаёт новый менеджер состояний
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[int64]*Session),
	}
}

// Get получает копию сессии пользователя
func (sm *Manager) Get(_ context.Context, telegramID int64) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.sessions[telegramID].Clone(), nil
}

// Save сохраняет сессию. Пустая сессия удаляется
func (sm *Manager) Save(_ context.Context, telegramID int64, s *Session) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if s.IsEmpty() {
		delete(sm.sessions, telegramID)
		return nil
	}
	sm.sessions[telegramID] = s.Clone()
	return nil
}

// Clear очищает состояние и данные пользователя
func (sm *Manager) Clear(_ context.Context, telegramID int64) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.sessions, telegramID)
	return nil
}

// Len количество активных сессий
func (sm *Manager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return len(sm.sessions)
}
