package transport

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/serplot/internal/adapters/driven/transport/replay"
	"github.com/custodia-labs/serplot/internal/adapters/driven/transport/synthetic"
	"github.com/custodia-labs/serplot/internal/core/domain"
	"github.com/custodia-labs/serplot/internal/core/ports/driven"
)

type stubTransport struct{ name string }

func (stubTransport) Read(context.Context, []byte) (int, error) { return 0, nil }
func (stubTransport) Close() error                              { return nil }

func newTestRouter(piped bool) (*Router, *[]string) {
	var opened []string
	r := NewRouter(Options{
		Synthetic: func() synthetic.Config { return synthetic.Config{Interval: -1} },
		Replay:    replay.Config{Interval: -1},
	})
	r.openSerial = func(name string, baud domain.Baud) (driven.Transport, error) {
		opened = append(opened, name+"@"+baud.String())
		return stubTransport{name: name}, nil
	}
	r.openStdin = func(replay.Config) (driven.Transport, error) {
		opened = append(opened, "stdin")
		return stubTransport{name: "-"}, nil
	}
	r.stdinPiped = func() bool { return piped }
	return r, &opened
}

func TestRouter_OpenSynthetic(t *testing.T) {
	r, opened := newTestRouter(false)

	tr, err := r.Open(context.Background(), domain.SerialSettings{Port: "synthetic", Baud: domain.Baud9600})

	require.NoError(t, err)
	assert.IsType(t, &synthetic.Transport{}, tr)
	assert.Empty(t, *opened)

	buf := make([]byte, 64)
	n, err := tr.Read(context.Background(), buf)
	require.NoError(t, err)
	assert.Equal(t, "0, 50, ", string(buf[:n]))
}

func TestRouter_OpenFile(t *testing.T) {
	r, _ := newTestRouter(false)
	path := filepath.Join(t.TempDir(), "rec.txt")
	require.NoError(t, os.WriteFile(path, []byte("1\n"), 0o600))

	tr, err := r.Open(context.Background(), domain.SerialSettings{Port: "file:" + path, Baud: domain.Baud9600})

	require.NoError(t, err)
	defer tr.Close()
	assert.IsType(t, &replay.Transport{}, tr)
}

func TestRouter_OpenStdinAndSerial(t *testing.T) {
	r, opened := newTestRouter(true)
	ctx := context.Background()

	_, err := r.Open(ctx, domain.SerialSettings{Port: "-", Baud: domain.Baud9600})
	require.NoError(t, err)
	_, err = r.Open(ctx, domain.SerialSettings{Port: "/dev/ttyACM0", Baud: domain.Baud115200})
	require.NoError(t, err)

	assert.Equal(t, []string{"stdin", "/dev/ttyACM0@115200"}, *opened)
}

func TestRouter_OpenCancelled(t *testing.T) {
	r, opened := newTestRouter(false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Open(ctx, domain.SerialSettings{Port: "/dev/ttyACM0", Baud: domain.Baud9600})

	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, *opened)
}

func TestRouter_ListPorts(t *testing.T) {
	r, _ := newTestRouter(false)
	ports, err := r.ListPorts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.PortInfo{{ID: "synthetic", Label: synthetic.Label, Kind: domain.PortKindSynthetic}}, ports)

	r, _ = newTestRouter(true)
	ports, err = r.ListPorts(context.Background())
	require.NoError(t, err)
	require.Len(t, ports, 2)
	assert.Equal(t, domain.PortInfo{ID: "-", Label: "Standard input", Kind: domain.PortKindStdin}, ports[1])
}
