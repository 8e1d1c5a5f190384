package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/serplot/internal/core/domain"
)

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestYesNo(t *testing.T) {
	assert.Equal(t, "yes", yesNo(true))
	assert.Equal(t, "no", yesNo(false))
}

func TestSettingsCmd_ShowDefaults(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Port: synthetic")
	assert.Contains(t, out, "Baud: 115200")
	assert.Contains(t, out, "Max age: 30")
	assert.Contains(t, out, "Mode: ramp")
	assert.Contains(t, out, "Automatic: no")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsCmd_WithoutSubcommandShows(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Current Settings")
}

func TestSettingsCmd_NotConfigured(t *testing.T) {
	SetServices(nil)

	_, err := execute(t, "settings", "show")

	assert.ErrorIs(t, err, errSettingsNotConfigured)
}

func TestSettingsSerialCmd_Flags(t *testing.T) {
	svc := setupTestServices(t)

	out, err := execute(t, "settings", "serial", "--port", "/dev/ttyACM0", "--baud", "9600")

	require.NoError(t, err)
	assert.Contains(t, out, "/dev/ttyACM0 @ 9600 baud")
	settings, err := svc.settings.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.SerialSettings{Port: "/dev/ttyACM0", Baud: domain.Baud9600}, settings.Serial)
}

func TestSettingsSerialCmd_RejectsBadBaud(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "settings", "serial", "--baud", "1234")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsSerialCmd_Prompt(t *testing.T) {
	svc := setupTestServices(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetIn(strings.NewReader("1\n7\n"))
	rootCmd.SetArgs([]string{"settings", "serial"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
	}()

	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, buf.String(), "Select Port")
	assert.Contains(t, buf.String(), "Select Baud Rate")
	settings, err := svc.settings.Get()
	require.NoError(t, err)
	assert.Equal(t, "synthetic", settings.Serial.Port)
	assert.Equal(t, domain.Baud9600, settings.Serial.Baud)
}

func TestSettingsPlotCmd(t *testing.T) {
	svc := setupTestServices(t)

	out, err := execute(t, "settings", "plot", "--policy", "count", "--max-points", "200", "--initial-series", "4")

	require.NoError(t, err)
	assert.Contains(t, out, "count(200)")
	settings, err := svc.settings.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.CountWindow(200).Kind, settings.Plot.Window.Kind)
	assert.Equal(t, 200, settings.Plot.Window.MaxPoints)
	assert.Equal(t, 4, settings.Plot.InitialSeries)
}

func TestSettingsPlotCmd_UnknownPolicy(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "settings", "plot", "--policy", "sliding")

	assert.ErrorContains(t, err, `unknown policy "sliding"`)
}

func TestSettingsPlotCmd_RejectsZeroAge(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "settings", "plot", "--max-age", "0")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsSyntheticCmd(t *testing.T) {
	svc := setupTestServices(t)

	out, err := execute(t, "settings", "synthetic", "--mode", "random", "--interval", "20")

	require.NoError(t, err)
	assert.Contains(t, out, "random every 20ms")
	settings, err := svc.settings.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.SyntheticRandom, settings.Synthetic.Mode)
}

func TestSettingsCaptureCmd(t *testing.T) {
	svc := setupTestServices(t)

	out, err := execute(t, "settings", "capture", "--auto")

	require.NoError(t, err)
	assert.Contains(t, out, "Automatic capture: yes")
	settings, err := svc.settings.Get()
	require.NoError(t, err)
	assert.True(t, settings.Capture.AutoStart)
}
