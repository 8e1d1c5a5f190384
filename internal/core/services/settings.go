package services

import (
	"fmt"

	"github.com/custodia-labs/serplot/internal/core/domain"
	"github.com/custodia-labs/serplot/internal/core/ports/driven"
	"github.com/custodia-labs/serplot/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keySerialPort        = "serial.port"
	keySerialBaud        = "serial.baud"
	keyPlotPolicy        = "plot.policy"
	keyPlotMaxPoints     = "plot.max_points"
	keyPlotMaxAge        = "plot.max_age"
	keyPlotInitialSeries = "plot.initial_series"
	keyCaptureEnabled    = "capture.enabled"
	keySyntheticInterval = "synthetic.interval_ms"
	keySyntheticMode     = "synthetic.mode"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
// Missing or unrecognised values fall back to the defaults.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		Serial: domain.SerialSettings{
			Port: s.getString(keySerialPort, defaults.Serial.Port),
			Baud: s.getBaud(defaults.Serial.Baud),
		},
		Plot: domain.PlotSettings{
			Window: domain.WindowPolicy{
				Kind:      s.getWindowKind(defaults.Plot.Window.Kind),
				MaxPoints: s.getInt(keyPlotMaxPoints, defaults.Plot.Window.MaxPoints),
				MaxAge:    int64(s.getInt(keyPlotMaxAge, int(defaults.Plot.Window.MaxAge))),
			},
			InitialSeries: s.getInt(keyPlotInitialSeries, defaults.Plot.InitialSeries),
		},
		Synthetic: domain.SyntheticSettings{
			Mode:       s.getSyntheticMode(defaults.Synthetic.Mode),
			IntervalMs: s.getInt(keySyntheticInterval, defaults.Synthetic.IntervalMs),
		},
		Capture: domain.CaptureSettings{
			AutoStart: s.getBool(keyCaptureEnabled, defaults.Capture.AutoStart),
		},
	}

	return settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{keySerialPort, settings.Serial.Port},
		{keySerialBaud, int(settings.Serial.Baud)},
		{keyPlotPolicy, settings.Plot.Window.Kind.String()},
		{keyPlotMaxPoints, settings.Plot.Window.MaxPoints},
		{keyPlotMaxAge, int(settings.Plot.Window.MaxAge)},
		{keyPlotInitialSeries, settings.Plot.InitialSeries},
		{keyCaptureEnabled, settings.Capture.AutoStart},
		{keySyntheticInterval, settings.Synthetic.IntervalMs},
		{keySyntheticMode, string(settings.Synthetic.Mode)},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getBaud(defaultVal domain.Baud) domain.Baud {
	baud := domain.Baud(s.configStore.GetInt(keySerialBaud))
	if !baud.IsValid() {
		return defaultVal
	}
	return baud
}

func (s *SettingsService) getWindowKind(defaultVal domain.WindowKind) domain.WindowKind {
	kind := domain.WindowKind(s.configStore.GetString(keyPlotPolicy))
	if !kind.IsValid() {
		return defaultVal
	}
	return kind
}

func (s *SettingsService) getSyntheticMode(defaultVal domain.SyntheticMode) domain.SyntheticMode {
	mode := domain.SyntheticMode(s.configStore.GetString(keySyntheticMode))
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}
