package cli

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/serplot/internal/adapters/driving/tui"
	"github.com/custodia-labs/serplot/internal/core/domain"
	"github.com/custodia-labs/serplot/internal/logger"
)

var (
	plotPort   string
	plotBaud   int
	plotRecord bool
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Plot a port live in the terminal",
	Long: `Open a port and plot every comma-separated field as its own line.

Each record advances the x axis by one position. Lines that fail to parse are
dropped and counted in the status bar.

Controls:
  s      - Start / stop reading
  c      - Clear the plot
  r      - Start / end a capture session
  space  - Freeze the display
  tab    - Next port (while stopped)
  b      - Next baud rate (while stopped)
  ?      - Toggle help
  q      - Quit`,
	Args: cobra.NoArgs,
	RunE: runPlot,
}

func init() {
	addSerialFlags(plotCmd, &plotPort, &plotBaud)
	plotCmd.Flags().BoolVar(&plotRecord, "record", false, "capture the session from the start")
	rootCmd.AddCommand(plotCmd)
}

func runPlot(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if acquisitionService == nil {
		return errAcquisitionNotConfigured
	}

	serial, err := resolveSerial(cmd, plotPort, plotBaud)
	if err != nil {
		return err
	}

	app, err := tui.NewApp(&tui.Ports{
		Acquisition: acquisitionService,
		Capture:     captureService,
		Ports:       portService,
	}, tui.Options{
		Serial:    serial,
		AutoStart: true,
		Record:    plotRecord,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if serial.Port == domain.PortStdin {
		// Records arrive on stdin, so keys have to come from the terminal.
		opts = append(opts, tea.WithInputTTY())
	}

	// Log lines would tear the alternate screen.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)

	if _, err := tea.NewProgram(app, opts...).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return app.Err()
}
