package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/serplot/internal/core/domain"
	"github.com/custodia-labs/serplot/internal/core/framing"
	"github.com/custodia-labs/serplot/internal/core/ports/driven"
	"github.com/custodia-labs/serplot/internal/core/ports/driving"
	"github.com/custodia-labs/serplot/internal/core/series"
	"github.com/custodia-labs/serplot/internal/logger"
)

// Ensure AcquisitionService implements the interface.
var _ driving.AcquisitionService = (*AcquisitionService)(nil)

// ReadBufferSize is the size of each transport read.
const ReadBufferSize = 512

// AcquisitionService runs the read loop: transport bytes go through a
// Framer, each record is ingested into a series.Store, and, while a capture
// session is recording, the raw record is handed to the CaptureService.
type AcquisitionService struct {
	opener   driven.TransportOpener
	settings driving.SettingsService
	capture  driving.CaptureService
	now      func() time.Time

	mu          sync.Mutex
	store       *series.Store
	running     bool
	cancel      context.CancelFunc
	done        chan struct{}
	serial      domain.SerialSettings
	startedAt   time.Time
	lastError   string
	autoCapture bool

	bytesRead   atomic.Int64
	ingested    atomic.Int64
	empty       atomic.Int64
	parseErrors atomic.Int64
}

// NewAcquisitionService creates an acquisition service.
// capture may be nil, in which case records are never captured.
func NewAcquisitionService(
	opener driven.TransportOpener,
	settings driving.SettingsService,
	capture driving.CaptureService,
) *AcquisitionService {
	return &AcquisitionService{
		opener:   opener,
		settings: settings,
		capture:  capture,
		now:      time.Now,
	}
}

// Start opens the port and launches the read loop.
// The loop runs until Stop is called, ctx is cancelled, or the transport
// fails or ends.
func (s *AcquisitionService) Start(ctx context.Context, serial domain.SerialSettings) error {
	if err := serial.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return domain.ErrAlreadyRunning
	}
	s.reap()

	cfg, err := s.settings.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if err := cfg.Plot.Window.Validate(); err != nil {
		return fmt.Errorf("plot settings: %w", err)
	}

	transport, err := s.opener.Open(ctx, serial)
	if err != nil {
		return fmt.Errorf("opening port %s: %w", serial.Port, err)
	}

	s.store = series.NewStore(series.StoreConfig{
		Policy:        cfg.Plot.Window,
		InitialSeries: cfg.Plot.InitialSeries,
	})
	s.serial = serial
	s.startedAt = s.now()
	s.lastError = ""
	s.bytesRead.Store(0)
	s.ingested.Store(0)
	s.empty.Store(0)
	s.parseErrors.Store(0)

	s.autoCapture = false
	if s.capture != nil && cfg.Capture.AutoStart && s.capture.Active() == nil {
		if _, err := s.capture.Begin(ctx, "", serial); err != nil {
			logger.Warn("acquisition: auto capture: %v", err)
		} else {
			s.autoCapture = true
		}
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	logger.Info("acquisition: reading %s at %s baud (%s)", serial.Port, serial.Baud, cfg.Plot.Window)
	go s.run(loopCtx, transport, s.store, s.done)
	return nil
}

// reap releases a loop that ended on its own (caller must hold lock).
func (s *AcquisitionService) reap() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
}

// Stop cancels the read loop, waits for it and flushes the capture buffer.
func (s *AcquisitionService) Stop() error {
	s.mu.Lock()
	if s.cancel == nil {
		s.mu.Unlock()
		return domain.ErrNotRunning
	}
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	autoCapture := s.autoCapture
	s.autoCapture = false
	s.mu.Unlock()

	cancel()
	<-done

	if s.capture == nil {
		return nil
	}
	ctx := context.Background()
	if autoCapture {
		if err := s.capture.End(ctx); err != nil && !errors.Is(err, domain.ErrCaptureInactive) {
			return fmt.Errorf("end capture: %w", err)
		}
		return nil
	}
	if err := s.capture.Flush(ctx); err != nil {
		return fmt.Errorf("flush capture: %w", err)
	}
	return nil
}

// Running reports whether the read loop is active.
func (s *AcquisitionService) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Snapshot returns a consistent copy of every series.
// It is empty before the first Start.
func (s *AcquisitionService) Snapshot() domain.Snapshot {
	s.mu.Lock()
	store := s.store
	s.mu.Unlock()

	if store == nil {
		return domain.Snapshot{}
	}
	return store.SnapshotAll()
}

// Status returns loop counters and the last error.
func (s *AcquisitionService) Status() domain.AcquisitionStatus {
	s.mu.Lock()
	status := domain.AcquisitionStatus{
		Running:   s.running,
		Port:      s.serial.Port,
		Baud:      s.serial.Baud,
		StartedAt: s.startedAt,
		LastError: s.lastError,
	}
	store := s.store
	s.mu.Unlock()

	status.BytesRead = s.bytesRead.Load()
	status.RecordsIngested = s.ingested.Load()
	status.EmptyRecords = s.empty.Load()
	status.ParseErrors = s.parseErrors.Load()
	if store != nil {
		status.SeriesCount = store.Len()
		status.Position = store.Position()
	}
	return status
}

// Clear drops every point and rewinds the shared position.
func (s *AcquisitionService) Clear() {
	s.mu.Lock()
	store := s.store
	s.mu.Unlock()

	if store != nil {
		store.Reset()
	}
}

func (s *AcquisitionService) run(
	ctx context.Context,
	transport driven.Transport,
	store *series.Store,
	done chan struct{},
) {
	defer close(done)
	defer func() {
		if err := transport.Close(); err != nil {
			logger.Debug("acquisition: close transport: %v", err)
		}
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	framer := framing.NewFramer()
	buf := make([]byte, ReadBufferSize)

	for ctx.Err() == nil {
		n, err := transport.Read(ctx, buf)
		if n > 0 {
			s.bytesRead.Add(int64(n))
			for record := range framer.Feed(buf[:n]) {
				s.ingest(ctx, store, record)
			}
		}
		if err == nil {
			continue
		}

		switch {
		case ctx.Err() != nil, errors.Is(err, driven.ErrTransportClosed):
		case errors.Is(err, driven.ErrEndOfStream):
			// A final line without a terminator still counts.
			if rest := framer.Pending(); len(rest) > 0 {
				s.ingest(ctx, store, string(rest))
				framer.Reset()
			}
			logger.Info("acquisition: end of stream")
		default:
			logger.Error("acquisition: read: %v", err)
			s.setLastError(err)
		}
		return
	}
}

func (s *AcquisitionService) ingest(ctx context.Context, store *series.Store, record string) {
	res, err := store.Ingest(record)

	var perr *domain.ParseError
	switch {
	case errors.As(err, &perr):
		s.parseErrors.Add(1)
		s.setLastError(err)
		logger.Warn("acquisition: dropped record %q: %v", record, err)
	case err != nil:
		s.setLastError(err)
		return
	case res.Empty:
		s.empty.Add(1)
		return
	default:
		s.ingested.Add(1)
	}

	if s.capture != nil {
		if err := s.capture.Record(ctx, record, res.Values, s.now()); err != nil {
			logger.Warn("acquisition: capture: %v", err)
		}
	}
}

func (s *AcquisitionService) setLastError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = err.Error()
}
