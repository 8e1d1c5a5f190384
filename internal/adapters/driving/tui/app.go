package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/serplot/internal/adapters/driving/tui/components/chart"
	"github.com/custodia-labs/serplot/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/serplot/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/serplot/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/serplot/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/serplot/internal/core/domain"
)

// DefaultRefresh is how often the plot is redrawn.
const DefaultRefresh = 50 * time.Millisecond

// Rows used by everything except the chart: header, chart border, legend,
// status bar.
const chromeHeight = 5

// Options configures an App.
type Options struct {
	// Serial is the port and baud selected at launch.
	Serial domain.SerialSettings

	// AutoStart starts acquisition as soon as the program runs.
	AutoStart bool

	// Record begins a capture session before the first start.
	Record bool

	// Refresh is the redraw interval. Zero means DefaultRefresh.
	Refresh time.Duration
}

// App is the plotter following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	opts   Options
	styles *styles.Styles
	keymap *keymap.KeyMap

	status *status.Bar
	chart  *chart.Chart
	help   help.Model

	serial    domain.SerialSettings
	portList  []domain.PortInfo
	snapshot  domain.Snapshot
	stats     domain.AcquisitionStatus
	recording *domain.CaptureSession

	starting bool
	frozen   bool
	showHelp bool
	err      error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a plotter with the given ports.
func NewApp(ports *Ports, opts Options) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if opts.Refresh <= 0 {
		opts.Refresh = DefaultRefresh
	}
	if opts.Serial.Port == "" {
		opts.Serial = domain.DefaultSettings().Serial
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	h := help.New()
	h.ShowAll = true

	return &App{
		ports:  ports,
		ctx:    context.Background(),
		opts:   opts,
		styles: s,
		keymap: km,
		status: status.NewBar(s, km),
		chart:  chart.New(s, 80, 24-chromeHeight),
		help:   h,
		serial: opts.Serial,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle("serplot"),
		a.loadPorts(),
		a.tick(),
	}
	if a.opts.Record {
		cmds = append(cmds, a.beginCapture())
	}
	if a.opts.AutoStart {
		a.starting = true
		a.status.SetState(status.StateStarting)
		cmds = append(cmds, a.start())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.Tick:
		a.refresh()
		return a, a.tick()

	case messages.PortsLoaded:
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.portList = msg.Ports
		return a, nil

	case messages.AcquisitionStarted:
		a.starting = false
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.err = nil
		a.status.SetMessage("")
		a.status.SetState(status.StateRunning)
		a.refresh()
		return a, nil

	case messages.AcquisitionStopped:
		if msg.Err != nil && !errors.Is(msg.Err, domain.ErrNotRunning) {
			a.setError(msg.Err)
			return a, nil
		}
		a.status.SetState(status.StateStopped)
		a.refresh()
		return a, nil

	case messages.CaptureChanged:
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.recording = msg.Session
		return a, nil

	case messages.ErrorOccurred:
		a.setError(msg.Err)
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()

	switch {
	case keymap.Matches(k, a.keymap.Quit):
		a.shutdown()
		return a, tea.Quit

	case keymap.Matches(k, a.keymap.Help):
		a.showHelp = !a.showHelp

	case keymap.Matches(k, a.keymap.Toggle):
		if a.starting {
			return a, nil
		}
		if a.ports.Acquisition.Running() {
			return a, a.stop()
		}
		a.starting = true
		a.status.SetState(status.StateStarting)
		return a, a.start()

	case keymap.Matches(k, a.keymap.Clear):
		a.ports.Acquisition.Clear()
		a.snapshot = a.ports.Acquisition.Snapshot()

	case keymap.Matches(k, a.keymap.Record):
		if a.recording != nil {
			return a, a.endCapture()
		}
		return a, a.beginCapture()

	case keymap.Matches(k, a.keymap.Freeze):
		a.frozen = !a.frozen
		if !a.frozen {
			a.refresh()
		}

	case keymap.Matches(k, a.keymap.NextPort):
		if a.locked() {
			a.setError(ErrStopFirst)
			return a, nil
		}
		a.serial.Port = nextPort(a.portList, a.serial.Port)

	case keymap.Matches(k, a.keymap.NextBaud):
		if a.locked() {
			a.setError(ErrStopFirst)
			return a, nil
		}
		a.serial.Baud = a.serial.Baud.Next()
	}

	return a, nil
}

func (a *App) locked() bool {
	return a.starting || a.ports.Acquisition.Running()
}

// nextPort returns the port after current, or the first port when current is
// not listed.
func nextPort(ports []domain.PortInfo, current string) string {
	if len(ports) == 0 {
		return current
	}
	for i, p := range ports {
		if p.ID == current {
			return ports[(i+1)%len(ports)].ID
		}
	}
	return ports[0].ID
}

// refresh pulls counters and, unless frozen, a new snapshot.
func (a *App) refresh() {
	stats := a.ports.Acquisition.Status()
	wasRunning := a.stats.Running
	a.stats = stats
	a.status.SetStats(stats)

	if !a.frozen {
		a.snapshot = a.ports.Acquisition.Snapshot()
	}

	// The loop ended on its own: end of replay or a read failure.
	if wasRunning && !stats.Running && !a.starting {
		if stats.LastError != "" && a.status.State() == status.StateRunning {
			a.setError(errors.New(stats.LastError))
		} else if a.status.State() == status.StateRunning {
			a.status.SetState(status.StateStopped)
		}
	}
	if a.ports.Capture != nil {
		a.recording = a.ports.Capture.Active()
	}
}

func (a *App) setError(err error) {
	a.err = err
	a.status.SetState(status.StateError)
	a.status.SetMessage(err.Error())
}

// shutdown stops acquisition and ends any capture before quitting.
func (a *App) shutdown() {
	if err := a.ports.Acquisition.Stop(); err != nil && !errors.Is(err, domain.ErrNotRunning) {
		a.err = err
	}
	if a.ports.Capture != nil && a.ports.Capture.Active() != nil {
		if err := a.ports.Capture.End(a.ctx); err != nil {
			a.err = err
		}
	}
}

func (a *App) tick() tea.Cmd {
	return tea.Tick(a.opts.Refresh, func(t time.Time) tea.Msg {
		return messages.Tick{Time: t}
	})
}

func (a *App) loadPorts() tea.Cmd {
	if a.ports.Ports == nil {
		return nil
	}
	ctx := a.ctx
	svc := a.ports.Ports
	return func() tea.Msg {
		ports, err := svc.List(ctx)
		return messages.PortsLoaded{Ports: ports, Err: err}
	}
}

func (a *App) start() tea.Cmd {
	ctx := a.ctx
	serial := a.serial
	acq := a.ports.Acquisition
	return func() tea.Msg {
		return messages.AcquisitionStarted{Serial: serial, Err: acq.Start(ctx, serial)}
	}
}

func (a *App) stop() tea.Cmd {
	acq := a.ports.Acquisition
	return func() tea.Msg {
		return messages.AcquisitionStopped{Err: acq.Stop()}
	}
}

func (a *App) beginCapture() tea.Cmd {
	if a.ports.Capture == nil {
		return func() tea.Msg { return messages.ErrorOccurred{Err: ErrCaptureUnavailable} }
	}
	ctx := a.ctx
	serial := a.serial
	capture := a.ports.Capture
	return func() tea.Msg {
		session, err := capture.Begin(ctx, "", serial)
		return messages.CaptureChanged{Session: session, Err: err}
	}
}

func (a *App) endCapture() tea.Cmd {
	if a.ports.Capture == nil {
		return nil
	}
	ctx := a.ctx
	capture := a.ports.Capture
	return func() tea.Msg {
		return messages.CaptureChanged{Err: capture.End(ctx)}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(a.renderHeader())
	b.WriteString("\n")

	if a.showHelp {
		keys := a.help.View(a.keymap)
		b.WriteString(a.styles.Chart.Width(a.width - 2).Render(keys))
	} else {
		b.WriteString(a.styles.Chart.Render(a.chart.View(a.snapshot)))
	}
	b.WriteString("\n")
	b.WriteString(a.chart.Legend(a.snapshot))
	b.WriteString("\n")
	b.WriteString(a.status.View())
	return b.String()
}

func (a *App) renderHeader() string {
	parts := []string{
		a.styles.Title.Render("serplot"),
		a.styles.Port.Render(fmt.Sprintf("%s @ %s", a.serial.Port, a.serial.Baud)),
	}

	switch {
	case a.starting:
		parts = append(parts, a.styles.Stopped.Render("OPENING"))
	case a.stats.Running:
		parts = append(parts, a.styles.Running.Render("● RUNNING"))
	default:
		parts = append(parts, a.styles.Stopped.Render("○ STOPPED"))
	}
	if a.frozen {
		parts = append(parts, a.styles.Frozen.Render("FROZEN"))
	}
	if a.recording != nil {
		parts = append(parts, a.styles.Recording.Render(fmt.Sprintf("REC %d", a.recording.RecordCount)))
	}
	if a.snapshot.Policy.Kind != "" {
		parts = append(parts, a.styles.Muted.Render(a.snapshot.Policy.String()))
	}
	return strings.Join(parts, "  ")
}

// SetDimensions resizes every component.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.status.SetWidth(width)
	a.help.Width = width - 4
	// The chart border takes two columns and two rows.
	a.chart.SetSize(width-2, height-chromeHeight-1)
}

// Serial returns the port and baud the next start will use.
func (a *App) Serial() domain.SerialSettings {
	return a.serial
}

// Frozen reports whether the display is held.
func (a *App) Frozen() bool {
	return a.frozen
}

// Recording returns the active capture session, or nil.
func (a *App) Recording() *domain.CaptureSession {
	return a.recording
}

// Err returns the last error shown.
func (a *App) Err() error {
	return a.err
}

// Snapshot returns the snapshot on screen.
func (a *App) Snapshot() domain.Snapshot {
	return a.snapshot
}

// StatusBar returns the status bar component.
func (a *App) StatusBar() *status.Bar {
	return a.status
}
