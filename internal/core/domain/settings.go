package domain

import (
	"fmt"
	"strconv"
)

const unknownDescription = "Unknown"

// Baud is a serial line rate in bits per second.
type Baud int

// Standard baud rates offered for selection.
const (
	Baud110    Baud = 110
	Baud300    Baud = 300
	Baud600    Baud = 600
	Baud1200   Baud = 1200
	Baud2400   Baud = 2400
	Baud4800   Baud = 4800
	Baud9600   Baud = 9600
	Baud14400  Baud = 14400
	Baud19200  Baud = 19200
	Baud38400  Baud = 38400
	Baud57600  Baud = 57600
	Baud115200 Baud = 115200
	Baud128000 Baud = 128000
	Baud256000 Baud = 256000
)

// DefaultBaud is used when nothing else is configured.
const DefaultBaud = Baud115200

// AllBauds returns the standard baud rates in ascending order.
func AllBauds() []Baud {
	return []Baud{
		Baud110, Baud300, Baud600, Baud1200, Baud2400, Baud4800, Baud9600,
		Baud14400, Baud19200, Baud38400, Baud57600, Baud115200, Baud128000, Baud256000,
	}
}

// IsValid returns true if the baud is one of the standard rates.
func (b Baud) IsValid() bool {
	for _, v := range AllBauds() {
		if v == b {
			return true
		}
	}
	return false
}

// Next returns the following standard rate, wrapping around.
func (b Baud) Next() Baud {
	all := AllBauds()
	for i, v := range all {
		if v == b {
			return all[(i+1)%len(all)]
		}
	}
	return DefaultBaud
}

// String returns the rate as a decimal string.
func (b Baud) String() string {
	return strconv.Itoa(int(b))
}

// Well-known port identifiers that do not name a device node.
const (
	// PortSynthetic selects the built-in signal generator.
	PortSynthetic = "synthetic"

	// PortStdin selects records piped on standard input.
	PortStdin = "-"

	// PortFilePrefix prefixes a replay file path, e.g. "file:capture.txt".
	PortFilePrefix = "file:"
)

// SerialSettings selects the device to read from.
type SerialSettings struct {
	// Port is the port identifier (device path or a well-known identifier).
	Port string

	// Baud is the line rate. Ignored by virtual ports.
	Baud Baud
}

// Validate checks the serial settings.
func (s SerialSettings) Validate() error {
	if s.Port == "" {
		return fmt.Errorf("%w: port is required", ErrInvalidInput)
	}
	if !s.Baud.IsValid() {
		return fmt.Errorf("%w: unsupported baud %d", ErrInvalidInput, s.Baud)
	}
	return nil
}

// PlotSettings configures the series store.
type PlotSettings struct {
	// Window is the eviction policy for every series.
	Window WindowPolicy

	// InitialSeries is how many series exist before any record arrives.
	InitialSeries int
}

// SyntheticMode selects the generator's waveform.
type SyntheticMode string

// Available synthetic modes.
const (
	// SyntheticRamp increments every channel by one per line.
	SyntheticRamp SyntheticMode = "ramp"

	// SyntheticRandom draws every channel uniformly from a range.
	SyntheticRandom SyntheticMode = "random"
)

// IsValid returns true if the mode is recognised.
func (m SyntheticMode) IsValid() bool {
	return m == SyntheticRamp || m == SyntheticRandom
}

// SyntheticSettings configures the built-in signal generator.
type SyntheticSettings struct {
	// Mode selects the waveform.
	Mode SyntheticMode

	// IntervalMs is the delay between generated lines.
	IntervalMs int
}

// CaptureSettings configures record capture.
type CaptureSettings struct {
	// AutoStart begins a capture session whenever acquisition starts.
	AutoStart bool
}

// Settings holds all application settings.
type Settings struct {
	Serial    SerialSettings
	Plot      PlotSettings
	Synthetic SyntheticSettings
	Capture   CaptureSettings
}

// DefaultSettings returns settings with sensible defaults.
// The lookback of 30 positions matches the classic plotter behaviour.
func DefaultSettings() Settings {
	return Settings{
		Serial: SerialSettings{
			Port: PortSynthetic,
			Baud: DefaultBaud,
		},
		Plot: PlotSettings{
			Window:        WindowPolicy{Kind: WindowPosition, MaxPoints: 500, MaxAge: 30},
			InitialSeries: 1,
		},
		Synthetic: SyntheticSettings{
			Mode:       SyntheticRamp,
			IntervalMs: 50,
		},
	}
}

// Validate checks every section.
func (s *Settings) Validate() error {
	if err := s.Serial.Validate(); err != nil {
		return fmt.Errorf("serial: %w", err)
	}
	if err := s.Plot.Window.Validate(); err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	if s.Plot.InitialSeries < 0 {
		return fmt.Errorf("plot: %w: initial series must not be negative", ErrInvalidInput)
	}
	if !s.Synthetic.Mode.IsValid() {
		return fmt.Errorf("synthetic: %w: unknown mode %q", ErrInvalidInput, s.Synthetic.Mode)
	}
	if s.Synthetic.IntervalMs < 1 {
		return fmt.Errorf("synthetic: %w: interval must be at least 1ms", ErrInvalidInput)
	}
	return nil
}
