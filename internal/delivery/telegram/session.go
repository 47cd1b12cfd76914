package telegram

import (
	"sync"

	"github.com/google/uuid"

	"github.com/aliskhannn/brain-recall/internal/domain/entities"
)

// reviewState is an open review in one chat.
type reviewState struct {
	userID  uuid.UUID
	topic   *entities.Topic
	session *entities.ReviewSession
}

// SessionStorage keeps the open review of each chat in memory.
type SessionStorage struct {
	mu     sync.RWMutex
	states map[int64]*reviewState
}

func NewSessionStorage() *SessionStorage {
	return &SessionStorage{
		states: make(map[int64]*reviewState),
	}
}

func (s *SessionStorage) Store(chatID int64, st *reviewState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[chatID] = st
}

func (s *SessionStorage) Get(chatID int64) *reviewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[chatID]
}

func (s *SessionStorage) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, chatID)
}
