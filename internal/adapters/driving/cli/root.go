// Package cli provides the serplot command line.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/serplot/internal/core/ports/driving"
	"github.com/custodia-labs/serplot/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

var (
	verbose   bool
	ephemeral bool
)

// Services holds the driving ports the commands use.
type Services struct {
	Acquisition driving.AcquisitionService
	Capture     driving.CaptureService
	Settings    driving.SettingsService
	Ports       driving.PortService
}

// BootstrapOptions are the global flags the composition root needs.
type BootstrapOptions struct {
	// Ephemeral keeps settings and captures in memory only.
	Ephemeral bool
}

// Bootstrap builds the services once flags are parsed.
// The returned cleanup runs after the command finishes.
type Bootstrap func(opts BootstrapOptions) (*Services, func(), error)

var (
	acquisitionService driving.AcquisitionService
	captureService     driving.CaptureService
	settingsService    driving.SettingsService
	portService        driving.PortService

	bootstrap Bootstrap
	cleanup   func()
)

var rootCmd = &cobra.Command{
	Use:   "serplot",
	Short: "Plot comma-separated integers from a serial port in the terminal",
	Long: `serplot reads newline-terminated records of comma-separated integers from
a serial device and plots one line per field, live, in the terminal.

Besides device paths (/dev/ttyUSB0, COM3) a port may be:
  synthetic    - the built-in signal generator
  file:PATH    - replay a recorded file
  -            - records piped on standard input`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if bootstrap == nil {
			return nil
		}
		svcs, done, err := bootstrap(BootstrapOptions{Ephemeral: ephemeral})
		if err != nil {
			return err
		}
		SetServices(svcs)
		cleanup = done
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print diagnostic output")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep settings and captures in memory only")
}

// SetServices installs the services used by every command.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	acquisitionService = s.Acquisition
	captureService = s.Capture
	settingsService = s.Settings
	portService = s.Ports
}

// SetBootstrap installs the function that builds services after flag parsing.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if cleanup != nil {
		cleanup()
		cleanup = nil
	}
	return err
}

var (
	errAcquisitionNotConfigured = errors.New("acquisition service not configured")
	errCaptureNotConfigured     = errors.New("capture service not configured")
	errSettingsNotConfigured    = errors.New("settings service not configured")
	errPortsNotConfigured       = errors.New("port service not configured")
)
