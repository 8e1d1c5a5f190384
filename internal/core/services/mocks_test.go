package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/serplot/internal/core/domain"
	"github.com/custodia-labs/serplot/internal/core/ports/driven"
)

// --- Mock implementations for service testing ---

// mockTransport replays scripted chunks, then returns endErr.
// With endErr nil it reports (0, nil) until the context is cancelled.
type mockTransport struct {
	mu     sync.Mutex
	chunks [][]byte
	endErr error
	closed bool
}

var _ driven.Transport = (*mockTransport)(nil)

func newMockTransport(endErr error, chunks ...string) *mockTransport {
	t := &mockTransport{endErr: endErr}
	for _, c := range chunks {
		t.chunks = append(t.chunks, []byte(c))
	}
	return t
}

func (m *mockTransport) Read(ctx context.Context, p []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, driven.ErrTransportClosed
	}
	if len(m.chunks) == 0 && m.endErr == nil {
		// Idle, like a serial read timing out.
		m.mu.Unlock()
		time.Sleep(time.Millisecond)
		m.mu.Lock()
		return 0, nil
	}
	if len(m.chunks) > 0 {
		n := copy(p, m.chunks[0])
		if n < len(m.chunks[0]) {
			m.chunks[0] = m.chunks[0][n:]
		} else {
			m.chunks = m.chunks[1:]
		}
		return n, nil
	}
	return 0, m.endErr
}

func (m *mockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockTransport) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// mockOpener hands out a prepared transport.
type mockOpener struct {
	mu        sync.Mutex
	transport driven.Transport
	err       error
	opened    []domain.SerialSettings
}

var _ driven.TransportOpener = (*mockOpener)(nil)

func (m *mockOpener) Open(_ context.Context, settings domain.SerialSettings) (driven.Transport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opened = append(m.opened, settings)
	if m.err != nil {
		return nil, m.err
	}
	return m.transport, nil
}

// mockEnumerator returns fixed ports.
type mockEnumerator struct {
	ports []domain.PortInfo
	err   error
}

var _ driven.PortEnumerator = (*mockEnumerator)(nil)

func (m *mockEnumerator) ListPorts(_ context.Context) ([]domain.PortInfo, error) {
	return m.ports, m.err
}

// failingCaptureStore fails every write.
type failingCaptureStore struct {
	driven.CaptureStore
}

var errStoreDown = errors.New("store down")

func (failingCaptureStore) AppendRecords(context.Context, string, []domain.CapturedRecord) error {
	return errStoreDown
}
