package replay

import (
	"context"
	"io"
	"sync"
)

const pumpBufferSize = 4096

// pump reads from a blocking reader on its own goroutine so that a
// cancelled context or Close can interrupt a Read that would otherwise wait
// forever, for example on an idle pipe.
type pump struct {
	chunks chan []byte
	done   chan struct{}
	once   sync.Once

	mu   sync.Mutex
	buf  []byte
	err  error
	stop bool
}

func newPump(r io.Reader) *pump {
	p := &pump{
		chunks: make(chan []byte),
		done:   make(chan struct{}),
	}
	go p.loop(r)
	return p
}

func (p *pump) loop(r io.Reader) {
	defer close(p.chunks)
	for {
		buf := make([]byte, pumpBufferSize)
		n, err := r.Read(buf)
		if n > 0 {
			select {
			case p.chunks <- buf[:n]:
			case <-p.done:
				return
			}
		}
		if err != nil {
			p.mu.Lock()
			p.err = err
			p.mu.Unlock()
			return
		}
	}
}

func (p *pump) Read(b []byte) (int, error) {
	return p.ReadContext(context.Background(), b)
}

// ReadContext is Read that also gives up when ctx is done.
func (p *pump) ReadContext(ctx context.Context, b []byte) (int, error) {
	p.mu.Lock()
	if len(p.buf) > 0 {
		n := copy(b, p.buf)
		p.buf = p.buf[n:]
		p.mu.Unlock()
		return n, nil
	}
	p.mu.Unlock()

	select {
	case chunk, ok := <-p.chunks:
		if !ok {
			p.mu.Lock()
			defer p.mu.Unlock()
			if p.stop {
				return 0, io.ErrClosedPipe
			}
			return 0, p.err
		}
		n := copy(b, chunk)
		p.mu.Lock()
		p.buf = chunk[n:]
		p.mu.Unlock()
		return n, nil
	case <-p.done:
		return 0, io.ErrClosedPipe
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Close releases pending reads. The wrapped reader is left open.
func (p *pump) Close() error {
	p.once.Do(func() {
		p.mu.Lock()
		p.stop = true
		p.mu.Unlock()
		close(p.done)
	})
	return nil
}
