package services

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/serplot/internal/core/domain"
	"github.com/custodia-labs/serplot/internal/core/ports/driven"
	"github.com/custodia-labs/serplot/internal/core/ports/driving"
	"github.com/custodia-labs/serplot/internal/logger"
)

// Ensure CaptureService implements the interface.
var _ driving.CaptureService = (*CaptureService)(nil)

// DefaultCaptureBatch is how many records are buffered before a write.
const DefaultCaptureBatch = 64

// CaptureService records framed lines into capture sessions.
// At most one session records at a time.
type CaptureService struct {
	store     driven.CaptureStore
	batchSize int
	now       func() time.Time

	mu     sync.Mutex
	active *domain.CaptureSession
	seq    int64
	buffer []domain.CapturedRecord
}

// NewCaptureService creates a capture service backed by store.
func NewCaptureService(store driven.CaptureStore) *CaptureService {
	return &CaptureService{
		store:     store,
		batchSize: DefaultCaptureBatch,
		now:       time.Now,
	}
}

// Begin starts a new session.
func (s *CaptureService) Begin(
	ctx context.Context,
	label string,
	settings domain.SerialSettings,
) (*domain.CaptureSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		return nil, domain.ErrCaptureActive
	}

	session := &domain.CaptureSession{
		ID:        uuid.New().String(),
		Label:     label,
		Port:      settings.Port,
		Baud:      settings.Baud,
		StartedAt: s.now(),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create capture session: %w", err)
	}

	logger.Info("capture: started session %s on %s", session.ID, session.Port)
	s.active = session
	s.seq = 0
	s.buffer = s.buffer[:0]

	copied := *session
	return &copied, nil
}

// End flushes and closes the active session.
func (s *CaptureService) End(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return domain.ErrCaptureInactive
	}

	flushErr := s.flush(ctx)

	endedAt := s.now()
	if err := s.store.EndSession(ctx, s.active.ID, endedAt); err != nil {
		return fmt.Errorf("end capture session: %w", err)
	}

	logger.Info("capture: ended session %s after %d records", s.active.ID, s.seq)
	s.active = nil
	return flushErr
}

// Active returns a copy of the recording session, or nil.
func (s *CaptureService) Active() *domain.CaptureSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return nil
	}
	copied := *s.active
	copied.RecordCount = int(s.seq)
	return &copied
}

// Record buffers one line. It is a no-op when nothing is recording.
func (s *CaptureService) Record(ctx context.Context, raw string, values []int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return nil
	}

	s.seq++
	s.buffer = append(s.buffer, domain.CapturedRecord{
		Seq:        s.seq,
		ReceivedAt: at,
		Raw:        raw,
		Values:     slices.Clone(values),
	})

	if len(s.buffer) >= s.batchSize {
		return s.flush(ctx)
	}
	return nil
}

// Flush writes buffered records to the store.
func (s *CaptureService) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flush(ctx)
}

// flush writes the buffer (caller must hold lock).
// The buffer is kept on failure so a later flush can retry.
func (s *CaptureService) flush(ctx context.Context) error {
	if s.active == nil || len(s.buffer) == 0 {
		return nil
	}
	if err := s.store.AppendRecords(ctx, s.active.ID, s.buffer); err != nil {
		return fmt.Errorf("write capture records: %w", err)
	}
	s.buffer = s.buffer[:0]
	return nil
}

// List returns every stored session, newest first.
func (s *CaptureService) List(ctx context.Context) ([]domain.CaptureSession, error) {
	return s.store.ListSessions(ctx)
}

// Export writes each raw line of a session followed by a newline, so the
// output can be replayed with a file: port.
func (s *CaptureService) Export(ctx context.Context, id string, w io.Writer) (int, error) {
	if err := s.flushIfActive(ctx, id); err != nil {
		return 0, err
	}

	records, err := s.store.ListRecords(ctx, id, 0)
	if err != nil {
		return 0, err
	}

	for i, r := range records {
		if _, err := io.WriteString(w, r.Raw+"\n"); err != nil {
			return i, fmt.Errorf("write record %d: %w", r.Seq, err)
		}
	}
	return len(records), nil
}

func (s *CaptureService) flushIfActive(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil && s.active.ID == id {
		return s.flush(ctx)
	}
	return nil
}

// Delete removes a session. The recording session cannot be deleted.
func (s *CaptureService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	recording := s.active != nil && s.active.ID == id
	s.mu.Unlock()

	if recording {
		return domain.ErrCaptureActive
	}
	return s.store.DeleteSession(ctx, id)
}
