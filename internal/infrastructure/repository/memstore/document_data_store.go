package memstore

import (
	"context"
	"sync"

	"github.com/edgeledger/loanintel/internal/core/domain"
)

// DocumentDataStore keeps analysis working sets and chat transcripts
// in process memory.
type DocumentDataStore struct {
	mu       sync.RWMutex
	data     map[string]*domain.DocumentData
	messages map[string][]domain.ChatMessage
}

func NewDocumentDataStore() *DocumentDataStore {
	return &DocumentDataStore{
		data:     make(map[string]*domain.DocumentData),
		messages: make(map[string][]domain.ChatMessage),
	}
}

func (s *DocumentDataStore) Put(_ context.Context, data *domain.DocumentData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *data
	s.data[data.FileID] = &cp
	return nil
}

func (s *DocumentDataStore) Get(_ context.Context, fileID string) (*domain.DocumentData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.data[fileID]
	if !ok {
		return nil, nil
	}
	cp := *data
	return &cp, nil
}

func (s *DocumentDataStore) AppendMessage(_ context.Context, msg domain.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages[msg.FileID] = append(s.messages[msg.FileID], msg)
	return nil
}

func (s *DocumentDataStore) Transcript(_ context.Context, fileID string) ([]domain.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[fileID]
	out := make([]domain.ChatMessage, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *DocumentDataStore) Clear(_ context.Context, fileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, fileID)
	delete(s.messages, fileID)
	return nil
}
