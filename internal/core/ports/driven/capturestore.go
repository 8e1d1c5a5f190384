package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/serplot/internal/core/domain"
)

// CaptureStore persists recorded sessions and their records.
type CaptureStore interface {
	// CreateSession stores a new session.
	CreateSession(ctx context.Context, session *domain.CaptureSession) error

	// EndSession marks a session finished.
	// Returns domain.ErrNotFound if the session doesn't exist.
	EndSession(ctx context.Context, id string, endedAt time.Time) error

	// AppendRecords adds records to a session and bumps its record count.
	AppendRecords(ctx context.Context, sessionID string, records []domain.CapturedRecord) error

	// GetSession retrieves a session by ID.
	// Returns domain.ErrNotFound if the session doesn't exist.
	GetSession(ctx context.Context, id string) (*domain.CaptureSession, error)

	// ListSessions returns all sessions, newest first.
	ListSessions(ctx context.Context) ([]domain.CaptureSession, error)

	// ListRecords returns a session's records in sequence order.
	// A limit of zero or less returns every record.
	ListRecords(ctx context.Context, sessionID string, limit int) ([]domain.CapturedRecord, error)

	// DeleteSession removes a session and its records.
	// Returns domain.ErrNotFound if the session doesn't exist.
	DeleteSession(ctx context.Context, id string) error
}
