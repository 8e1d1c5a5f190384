package driving

import (
	"context"
	"io"
	"time"

	"github.com/custodia-labs/serplot/internal/core/domain"
)

// CaptureService records received lines into sessions.
type CaptureService interface {
	// Begin starts a new session for the given port.
	// Returns domain.ErrCaptureActive if one is already recording.
	Begin(ctx context.Context, label string, settings domain.SerialSettings) (*domain.CaptureSession, error)

	// End flushes and closes the active session.
	// Returns domain.ErrCaptureInactive when nothing is recording.
	End(ctx context.Context) error

	// Active returns the recording session, or nil.
	Active() *domain.CaptureSession

	// Record buffers one line for the active session.
	// It is a no-op when nothing is recording.
	Record(ctx context.Context, raw string, values []int64, at time.Time) error

	// Flush writes buffered records to the store.
	Flush(ctx context.Context) error

	// List returns every stored session, newest first.
	List(ctx context.Context) ([]domain.CaptureSession, error)

	// Export writes a session's raw lines to w and returns how many were written.
	Export(ctx context.Context, id string, w io.Writer) (int, error)

	// Delete removes a session.
	Delete(ctx context.Context, id string) error
}
