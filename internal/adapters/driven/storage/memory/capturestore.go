package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/serplot/internal/core/domain"
	"github.com/custodia-labs/serplot/internal/core/ports/driven"
)

// Ensure CaptureStore implements the interface.
var _ driven.CaptureStore = (*CaptureStore)(nil)

// CaptureStore is an in-memory implementation of driven.CaptureStore.
type CaptureStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.CaptureSession
	records  map[string][]domain.CapturedRecord
}

// NewCaptureStore creates a new in-memory capture store.
func NewCaptureStore() *CaptureStore {
	return &CaptureStore{
		sessions: make(map[string]domain.CaptureSession),
		records:  make(map[string][]domain.CapturedRecord),
	}
}

// CreateSession stores a new session.
func (s *CaptureStore) CreateSession(_ context.Context, session *domain.CaptureSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	return nil
}

// EndSession marks a session finished.
func (s *CaptureStore) EndSession(_ context.Context, id string, endedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return domain.ErrNotFound
	}
	session.EndedAt = endedAt
	s.sessions[id] = session
	return nil
}

// AppendRecords adds records to a session.
func (s *CaptureStore) AppendRecords(_ context.Context, sessionID string, records []domain.CapturedRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return domain.ErrNotFound
	}
	for _, r := range records {
		r.Values = slices.Clone(r.Values)
		s.records[sessionID] = append(s.records[sessionID], r)
	}
	session.RecordCount += len(records)
	s.sessions[sessionID] = session
	return nil
}

// GetSession retrieves a session by ID.
func (s *CaptureStore) GetSession(_ context.Context, id string) (*domain.CaptureSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &session, nil
}

// ListSessions returns all sessions, newest first.
func (s *CaptureStore) ListSessions(_ context.Context) ([]domain.CaptureSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.CaptureSession, 0, len(s.sessions))
	for _, session := range s.sessions {
		result = append(result, session)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartedAt.After(result[j].StartedAt)
	})
	return result, nil
}

// ListRecords returns a session's records in sequence order.
func (s *CaptureStore) ListRecords(_ context.Context, sessionID string, limit int) ([]domain.CapturedRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return nil, domain.ErrNotFound
	}
	records := s.records[sessionID]
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return slices.Clone(records), nil
}

// DeleteSession removes a session and its records.
func (s *CaptureStore) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.sessions, id)
	delete(s.records, id)
	return nil
}
