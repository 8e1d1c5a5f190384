// Package serialport reads records from a real serial device through
// go.bug.st/serial and lists the devices attached to the machine.
package serialport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/custodia-labs/serplot/internal/core/domain"
	"github.com/custodia-labs/serplot/internal/core/ports/driven"
)

// ReadTimeout bounds each blocking read so cancellation is noticed promptly.
const ReadTimeout = time.Second

// openFunc matches serial.Open.
type openFunc func(name string, mode *serial.Mode) (serial.Port, error)

// Transport is an open serial device.
type Transport struct {
	name string
	port serial.Port

	mu     sync.Mutex
	closed bool
}

var _ driven.Transport = (*Transport)(nil)

// Open opens name at baud, 8N1, and discards anything already buffered.
func Open(name string, baud domain.Baud) (*Transport, error) {
	return open(serial.Open, name, baud)
}

func open(openPort openFunc, name string, baud domain.Baud) (*Transport, error) {
	port, err := openPort(name, &serial.Mode{
		BaudRate: int(baud),
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}

	if err := port.SetReadTimeout(ReadTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", name, err)
	}
	if err := port.ResetInputBuffer(); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("reset input buffer on %s: %w", name, err)
	}

	return &Transport{name: name, port: port}, nil
}

// Read returns whatever arrived within ReadTimeout.
// A timeout surfaces as (0, nil).
func (t *Transport) Read(ctx context.Context, p []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	n, err := t.port.Read(p)
	if err == nil {
		return n, nil
	}

	if t.isClosed() || isPortClosed(err) {
		return n, driven.ErrTransportClosed
	}
	return n, fmt.Errorf("read %s: %w", t.name, err)
}

// Close closes the device. Closing twice is a no-op.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	return t.port.Close()
}

func (t *Transport) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

func isPortClosed(err error) bool {
	var perr *serial.PortError
	return errors.As(err, &perr) && perr.Code() == serial.PortClosed
}
