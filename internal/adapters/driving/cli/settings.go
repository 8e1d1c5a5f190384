package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/serplot/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the saved serial, plot, generator and capture settings.

Settings live in ~/.serplot/config.toml. A running plot picks up edits to that
file the next time acquisition starts.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSerialCmd = &cobra.Command{
	Use:   "serial",
	Short: "Set the default port and baud rate",
	Long: `Set the port and baud rate used when --port and --baud are not given.

Without flags, lists the available ports and prompts for a choice.`,
	RunE: runSettingsSerial,
}

var settingsPlotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Set the plot window",
	Long: `Set how much history every series keeps.

Policies:
  position  - keep points from the last --max-age positions (default)
  count     - keep the newest --max-points points of each series`,
	RunE: runSettingsPlot,
}

var settingsSyntheticCmd = &cobra.Command{
	Use:   "synthetic",
	Short: "Configure the built-in signal generator",
	RunE:  runSettingsSynthetic,
}

var settingsCaptureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Configure automatic capture",
	RunE:  runSettingsCapture,
}

var (
	settingsPort          string
	settingsBaud          int
	settingsPolicy        string
	settingsMaxPoints     int
	settingsMaxAge        int64
	settingsInitialSeries int
	settingsSynthMode     string
	settingsSynthInterval int
	settingsCaptureAuto   bool
)

func init() {
	settingsSerialCmd.Flags().StringVarP(&settingsPort, "port", "p", "", "default port")
	settingsSerialCmd.Flags().IntVarP(&settingsBaud, "baud", "b", 0, "default baud rate")

	settingsPlotCmd.Flags().StringVar(&settingsPolicy, "policy", "", "window policy: position or count")
	settingsPlotCmd.Flags().IntVar(&settingsMaxPoints, "max-points", 0, "points kept per series by the count policy")
	settingsPlotCmd.Flags().Int64Var(&settingsMaxAge, "max-age", 0, "positions kept by the position policy")
	settingsPlotCmd.Flags().IntVar(&settingsInitialSeries, "initial-series", 0, "series shown before data arrives")

	settingsSyntheticCmd.Flags().StringVar(&settingsSynthMode, "mode", "", "waveform: ramp or random")
	settingsSyntheticCmd.Flags().IntVar(&settingsSynthInterval, "interval", 0, "milliseconds between generated lines")

	settingsCaptureCmd.Flags().BoolVar(&settingsCaptureAuto, "auto", false, "record every acquisition run")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSerialCmd)
	settingsCmd.AddCommand(settingsPlotCmd)
	settingsCmd.AddCommand(settingsSyntheticCmd)
	settingsCmd.AddCommand(settingsCaptureCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Serial]")
	cmd.Printf("  Port: %s\n", settings.Serial.Port)
	cmd.Printf("  Baud: %s\n", settings.Serial.Baud)
	cmd.Println()

	cmd.Println("[Plot]")
	cmd.Printf("  Policy: %s\n", settings.Plot.Window.Kind.Description())
	switch settings.Plot.Window.Kind {
	case domain.WindowCount:
		cmd.Printf("  Max points: %d\n", settings.Plot.Window.MaxPoints)
	default:
		cmd.Printf("  Max age: %d\n", settings.Plot.Window.MaxAge)
	}
	cmd.Printf("  Initial series: %d\n", settings.Plot.InitialSeries)
	cmd.Println()

	cmd.Println("[Synthetic]")
	cmd.Printf("  Mode: %s\n", settings.Synthetic.Mode)
	cmd.Printf("  Interval: %dms\n", settings.Synthetic.IntervalMs)
	cmd.Println()

	cmd.Println("[Capture]")
	cmd.Printf("  Automatic: %s\n", yesNo(settings.Capture.AutoStart))
	cmd.Println()

	if err := settings.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsSerial(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	portSet := cmd.Flags().Changed("port")
	baudSet := cmd.Flags().Changed("baud")
	if portSet {
		settings.Serial.Port = settingsPort
	}
	if baudSet {
		settings.Serial.Baud = domain.Baud(settingsBaud)
	}

	if !portSet && !baudSet {
		if err := promptSerial(cmd, &settings.Serial); err != nil {
			return err
		}
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Printf("Serial settings saved: %s @ %s baud\n", settings.Serial.Port, settings.Serial.Baud)
	return nil
}

// promptSerial asks for a port and a baud rate on the command's input.
func promptSerial(cmd *cobra.Command, serial *domain.SerialSettings) error {
	if portService == nil {
		return errPortsNotConfigured
	}
	ports, err := portService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list ports: %w", err)
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	current := 1
	cmd.Println("Select Port")
	cmd.Println("-----------")
	for i, p := range ports {
		if p.ID == serial.Port {
			current = i + 1
		}
		cmd.Printf("  %d. %s (%s)\n", i+1, p.ID, p.Label)
	}
	if len(ports) > 0 {
		cmd.Printf("\nEnter choice [%d]: ", current)
		idx := parseChoice(readLine(reader), len(ports), current)
		serial.Port = ports[idx-1].ID
	}

	bauds := domain.AllBauds()
	currentBaud := len(bauds)
	for i, b := range bauds {
		if b == serial.Baud {
			currentBaud = i + 1
		}
	}
	cmd.Println()
	cmd.Println("Select Baud Rate")
	cmd.Println("----------------")
	for i, b := range bauds {
		cmd.Printf("  %d. %s\n", i+1, b)
	}
	cmd.Printf("\nEnter choice [%d]: ", currentBaud)
	serial.Baud = bauds[parseChoice(readLine(reader), len(bauds), currentBaud)-1]
	cmd.Println()
	return nil
}

func runSettingsPlot(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if cmd.Flags().Changed("policy") {
		kind := domain.WindowKind(strings.ToLower(settingsPolicy))
		if !kind.IsValid() {
			return fmt.Errorf("unknown policy %q (use position or count)", settingsPolicy)
		}
		settings.Plot.Window.Kind = kind
	}
	if cmd.Flags().Changed("max-points") {
		settings.Plot.Window.MaxPoints = settingsMaxPoints
	}
	if cmd.Flags().Changed("max-age") {
		settings.Plot.Window.MaxAge = settingsMaxAge
	}
	if cmd.Flags().Changed("initial-series") {
		settings.Plot.InitialSeries = settingsInitialSeries
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Printf("Plot window set to %s, %d initial series\n", settings.Plot.Window, settings.Plot.InitialSeries)
	return nil
}

func runSettingsSynthetic(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if cmd.Flags().Changed("mode") {
		settings.Synthetic.Mode = domain.SyntheticMode(strings.ToLower(settingsSynthMode))
	}
	if cmd.Flags().Changed("interval") {
		settings.Synthetic.IntervalMs = settingsSynthInterval
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Printf("Synthetic generator: %s every %dms\n", settings.Synthetic.Mode, settings.Synthetic.IntervalMs)
	return nil
}

func runSettingsCapture(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if cmd.Flags().Changed("auto") {
		settings.Capture.AutoStart = settingsCaptureAuto
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Printf("Automatic capture: %s\n", yesNo(settings.Capture.AutoStart))
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
