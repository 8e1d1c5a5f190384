package tui

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/custodia-labs/serplot/internal/core/domain"
	"github.com/custodia-labs/serplot/internal/core/ports/driving"
)

// MockAcquisitionService implements driving.AcquisitionService for testing.
type MockAcquisitionService struct {
	mu       sync.Mutex
	running  bool
	starts   []domain.SerialSettings
	stops    int
	cleared  int
	startErr error
	snapshot domain.Snapshot
	status   domain.AcquisitionStatus
}

var _ driving.AcquisitionService = (*MockAcquisitionService)(nil)

func (m *MockAcquisitionService) Start(_ context.Context, s domain.SerialSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.startErr != nil {
		return m.startErr
	}
	if m.running {
		return domain.ErrAlreadyRunning
	}
	m.starts = append(m.starts, s)
	m.running = true
	m.status.Running = true
	return nil
}

func (m *MockAcquisitionService) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return domain.ErrNotRunning
	}
	m.stops++
	m.running = false
	m.status.Running = false
	return nil
}

func (m *MockAcquisitionService) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *MockAcquisitionService) Snapshot() domain.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot
}

func (m *MockAcquisitionService) Status() domain.AcquisitionStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *MockAcquisitionService) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleared++
	m.snapshot = domain.Snapshot{Series: make([][]domain.Point, len(m.snapshot.Series)), Policy: m.snapshot.Policy}
}

// setSnapshot replaces what the next Snapshot call returns.
func (m *MockAcquisitionService) setSnapshot(s domain.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = s
}

// endLoop simulates the read loop exiting on its own.
func (m *MockAcquisitionService) endLoop(lastError string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running = false
	m.status.Running = false
	m.status.LastError = lastError
}

// MockCaptureService implements driving.CaptureService for testing.
type MockCaptureService struct {
	active *domain.CaptureSession
	begun  int
	ended  int
}

var _ driving.CaptureService = (*MockCaptureService)(nil)

func (m *MockCaptureService) Begin(_ context.Context, label string, s domain.SerialSettings) (*domain.CaptureSession, error) {
	if m.active != nil {
		return nil, domain.ErrCaptureActive
	}
	m.begun++
	m.active = &domain.CaptureSession{ID: "session-1", Label: label, Port: s.Port, Baud: s.Baud, StartedAt: time.Now()}
	cp := *m.active
	return &cp, nil
}

func (m *MockCaptureService) End(_ context.Context) error {
	if m.active == nil {
		return domain.ErrCaptureInactive
	}
	m.ended++
	m.active = nil
	return nil
}

func (m *MockCaptureService) Active() *domain.CaptureSession {
	if m.active == nil {
		return nil
	}
	cp := *m.active
	return &cp
}

func (m *MockCaptureService) Record(context.Context, string, []int64, time.Time) error { return nil }
func (m *MockCaptureService) Flush(context.Context) error                            { return nil }
func (m *MockCaptureService) List(context.Context) ([]domain.CaptureSession, error)  { return nil, nil }
func (m *MockCaptureService) Export(context.Context, string, io.Writer) (int, error) { return 0, nil }
func (m *MockCaptureService) Delete(context.Context, string) error                   { return nil }

// MockPortService implements driving.PortService for testing.
type MockPortService struct {
	ports []domain.PortInfo
	err   error
}

var _ driving.PortService = (*MockPortService)(nil)

func (m *MockPortService) List(context.Context) ([]domain.PortInfo, error) {
	return m.ports, m.err
}
