// Package status provides the status bar component for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/serplot/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/serplot/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/serplot/internal/core/domain"
)

// State represents the acquisition state for display.
type State string

const (
	StateStopped  State = "stopped"
	StateStarting State = "starting"
	StateRunning  State = "running"
	StateError    State = "error"
)

// Bar displays acquisition counters and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	stats   domain.AcquisitionStatus
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateStopped,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	switch s.state {
	case StateStarting:
		return s.styles.Muted.Render("Opening port...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render("Error: " + s.message)
		}
		return s.styles.Error.Render("Error")
	case StateRunning, StateStopped:
		if s.message != "" {
			return s.styles.Normal.Render(s.message)
		}
		if s.stats.BytesRead == 0 && s.state == StateStopped {
			return s.styles.Muted.Render("Stopped")
		}
		return s.styles.Normal.Render(s.counters())
	}
	return s.styles.Muted.Render("Stopped")
}

func (s *Bar) counters() string {
	text := fmt.Sprintf("%d records, %d series, %d bytes", s.stats.RecordsIngested, s.stats.SeriesCount, s.stats.BytesRead)
	if s.stats.ParseErrors > 0 {
		text += fmt.Sprintf(", %d dropped", s.stats.ParseErrors)
	}
	return text
}

func (s *Bar) renderRight() string {
	var bindings []key.Binding
	if s.state == StateRunning {
		bindings = s.keymap.ShortHelp()
	} else {
		bindings = s.keymap.StoppedHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a message shown instead of the counters.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetStats updates the counters.
func (s *Bar) SetStats(stats domain.AcquisitionStatus) {
	s.stats = stats
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to its initial state.
func (s *Bar) Clear() {
	s.state = StateStopped
	s.message = ""
	s.stats = domain.AcquisitionStatus{}
}
