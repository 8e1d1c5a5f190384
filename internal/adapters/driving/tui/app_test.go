package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/serplot/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/serplot/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/serplot/internal/core/domain"
)

var testSerial = domain.SerialSettings{Port: "synthetic", Baud: domain.Baud115200}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newTestApp(t *testing.T, opts Options) (*App, *MockAcquisitionService, *MockCaptureService) {
	t.Helper()
	acq := &MockAcquisitionService{}
	capture := &MockCaptureService{}
	if opts.Serial.Port == "" {
		opts.Serial = testSerial
	}
	app, err := NewApp(&Ports{
		Acquisition: acq,
		Capture:     capture,
		Ports: &MockPortService{ports: []domain.PortInfo{
			{ID: "synthetic", Kind: domain.PortKindSynthetic},
			{ID: "/dev/ttyACM0", Kind: domain.PortKindSerial},
		}},
	}, opts)
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	return app, acq, capture
}

// send delivers msg and then every message its command produces, one level
// deep, so request/response pairs complete.
func send(app *App, msg tea.Msg) tea.Cmd {
	_, cmd := app.Update(msg)
	if cmd == nil {
		return nil
	}
	if out := cmd(); out != nil {
		if _, isQuit := out.(tea.QuitMsg); !isQuit {
			app.Update(out)
		}
	}
	return cmd
}

func TestNewApp_Success(t *testing.T) {
	app, _, _ := newTestApp(t, Options{})

	assert.Equal(t, testSerial, app.Serial())
	assert.False(t, app.Frozen())
	assert.Nil(t, app.Recording())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{}, Options{})

	assert.ErrorIs(t, err, ErrMissingAcquisitionService)
	assert.Nil(t, app)
}

func TestNewApp_DefaultSerial(t *testing.T) {
	app, err := NewApp(&Ports{Acquisition: &MockAcquisitionService{}}, Options{})

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings().Serial, app.Serial())
}

func TestApp_WithContext(t *testing.T) {
	app, _, _ := newTestApp(t, Options{})
	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Equal(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_InitAutoStart(t *testing.T) {
	app, _, _ := newTestApp(t, Options{AutoStart: true})

	cmd := app.Init()

	assert.NotNil(t, cmd)
	assert.Equal(t, status.StateStarting, app.StatusBar().State())
}

func TestApp_ToggleStartsAndStops(t *testing.T) {
	app, acq, _ := newTestApp(t, Options{})

	send(app, runeKey('s'))

	assert.True(t, acq.Running())
	assert.Equal(t, []domain.SerialSettings{testSerial}, acq.starts)
	assert.Equal(t, status.StateRunning, app.StatusBar().State())

	send(app, runeKey('s'))

	assert.False(t, acq.Running())
	assert.Equal(t, 1, acq.stops)
	assert.Equal(t, status.StateStopped, app.StatusBar().State())
}

func TestApp_StartErrorIsShown(t *testing.T) {
	app, acq, _ := newTestApp(t, Options{})
	acq.startErr = errors.New("opening port synthetic: busy")

	send(app, runeKey('s'))

	require.Error(t, app.Err())
	assert.Equal(t, status.StateError, app.StatusBar().State())
	assert.Contains(t, app.StatusBar().Message(), "busy")
}

func TestApp_NextPortAndBaudWhileStopped(t *testing.T) {
	app, _, _ := newTestApp(t, Options{})
	app.Update(messages.PortsLoaded{Ports: []domain.PortInfo{{ID: "synthetic"}, {ID: "/dev/ttyACM0"}}})

	send(app, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "/dev/ttyACM0", app.Serial().Port)

	send(app, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "synthetic", app.Serial().Port)

	send(app, runeKey('b'))
	assert.Equal(t, domain.Baud128000, app.Serial().Baud)
}

func TestApp_PortAndBaudLockedWhileRunning(t *testing.T) {
	app, _, _ := newTestApp(t, Options{})
	send(app, runeKey('s'))

	send(app, tea.KeyMsg{Type: tea.KeyTab})
	send(app, runeKey('b'))

	assert.Equal(t, testSerial, app.Serial())
	assert.ErrorIs(t, app.Err(), ErrStopFirst)
}

func TestApp_TickRefreshesSnapshot(t *testing.T) {
	app, acq, _ := newTestApp(t, Options{})
	snap := domain.Snapshot{
		Series:   [][]domain.Point{{{Position: 0, Value: 4}}},
		Position: 1,
		Policy:   domain.PositionWindow(30),
	}
	acq.setSnapshot(snap)

	_, cmd := app.Update(messages.Tick{Time: time.Now()})

	assert.NotNil(t, cmd, "tick reschedules itself")
	assert.Equal(t, snap, app.Snapshot())
}

func TestApp_FreezeHoldsSnapshot(t *testing.T) {
	app, acq, _ := newTestApp(t, Options{})
	first := domain.Snapshot{Series: [][]domain.Point{{{Position: 0, Value: 1}}}, Position: 1}
	acq.setSnapshot(first)
	app.Update(messages.Tick{})

	send(app, tea.KeyMsg{Type: tea.KeySpace})
	require.True(t, app.Frozen())

	acq.setSnapshot(domain.Snapshot{Series: [][]domain.Point{{{Position: 1, Value: 2}}}, Position: 2})
	app.Update(messages.Tick{})
	assert.Equal(t, first, app.Snapshot())

	send(app, tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, app.Frozen())
	assert.Equal(t, int64(2), app.Snapshot().Position)
}

func TestApp_Clear(t *testing.T) {
	app, acq, _ := newTestApp(t, Options{})
	acq.setSnapshot(domain.Snapshot{Series: [][]domain.Point{{{Position: 0, Value: 1}}}, Position: 1})

	send(app, runeKey('c'))

	assert.Equal(t, 1, acq.cleared)
	assert.Empty(t, app.Snapshot().Series[0])
}

func TestApp_RecordToggle(t *testing.T) {
	app, _, capture := newTestApp(t, Options{})

	send(app, runeKey('r'))
	require.NotNil(t, app.Recording())
	assert.Equal(t, "synthetic", app.Recording().Port)

	send(app, runeKey('r'))
	assert.Nil(t, app.Recording())
	assert.Equal(t, 1, capture.begun)
	assert.Equal(t, 1, capture.ended)
}

func TestApp_RecordWithoutCaptureService(t *testing.T) {
	app, err := NewApp(&Ports{Acquisition: &MockAcquisitionService{}}, Options{})
	require.NoError(t, err)

	send(app, runeKey('r'))

	assert.ErrorIs(t, app.Err(), ErrCaptureUnavailable)
}

func TestApp_QuitStopsEverything(t *testing.T) {
	app, acq, capture := newTestApp(t, Options{})
	send(app, runeKey('s'))
	send(app, runeKey('r'))

	cmd := send(app, runeKey('q'))

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.False(t, acq.Running())
	assert.Nil(t, capture.Active())
}

func TestApp_QuitWhenIdle(t *testing.T) {
	app, _, _ := newTestApp(t, Options{})

	cmd := send(app, tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.NoError(t, app.Err())
}

func TestApp_LoopEndingWithErrorIsShown(t *testing.T) {
	app, acq, _ := newTestApp(t, Options{})
	send(app, runeKey('s'))
	app.Update(messages.Tick{})

	acq.endLoop("read /dev/ttyACM0: device gone")
	app.Update(messages.Tick{})

	assert.Equal(t, status.StateError, app.StatusBar().State())
	assert.Contains(t, app.StatusBar().Message(), "device gone")
}

func TestApp_LoopEndingCleanlyStops(t *testing.T) {
	app, acq, _ := newTestApp(t, Options{})
	send(app, runeKey('s'))
	app.Update(messages.Tick{})

	acq.endLoop("")
	app.Update(messages.Tick{})

	assert.Equal(t, status.StateStopped, app.StatusBar().State())
}

func TestApp_PortsLoadError(t *testing.T) {
	app, _, _ := newTestApp(t, Options{})

	app.Update(messages.PortsLoaded{Err: errors.New("no enumerator")})

	assert.Equal(t, status.StateError, app.StatusBar().State())
}

func TestApp_View(t *testing.T) {
	acq := &MockAcquisitionService{}
	app, err := NewApp(&Ports{Acquisition: acq}, Options{Serial: testSerial})
	require.NoError(t, err)

	assert.Equal(t, "Initialising...", app.View())

	app.SetDimensions(100, 30)
	view := app.View()
	assert.Contains(t, view, "serplot")
	assert.Contains(t, view, "synthetic @ 115200")
	assert.Contains(t, view, "STOPPED")
	assert.Contains(t, view, "Waiting for data")
}

func TestApp_ViewHelp(t *testing.T) {
	app, _, _ := newTestApp(t, Options{})

	send(app, runeKey('?'))

	assert.Contains(t, app.View(), "next baud")
}

func TestApp_ViewRecordingAndFrozen(t *testing.T) {
	app, _, _ := newTestApp(t, Options{})
	send(app, runeKey('r'))
	send(app, tea.KeyMsg{Type: tea.KeySpace})

	view := app.View()

	assert.Contains(t, view, "REC")
	assert.Contains(t, view, "FROZEN")
}

func TestNextPort(t *testing.T) {
	ports := []domain.PortInfo{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	assert.Equal(t, "b", nextPort(ports, "a"))
	assert.Equal(t, "a", nextPort(ports, "c"))
	assert.Equal(t, "a", nextPort(ports, "missing"))
	assert.Equal(t, "x", nextPort(nil, "x"))
}
