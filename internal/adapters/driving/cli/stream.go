package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/serplot/internal/core/domain"
)

var (
	streamPort     string
	streamBaud     int
	streamInterval time.Duration
	streamDuration time.Duration
)

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Print the latest values without the plot",
	Long: `Read from a port and print the newest value of every series at a fixed
interval. Useful over SSH, in scripts, or to check a device before plotting.

Stops on Ctrl+C, after --duration, or when a replay reaches its end.`,
	Args: cobra.NoArgs,
	RunE: runStream,
}

func init() {
	addSerialFlags(streamCmd, &streamPort, &streamBaud)
	streamCmd.Flags().DurationVar(&streamInterval, "interval", 500*time.Millisecond, "time between printed lines")
	streamCmd.Flags().DurationVar(&streamDuration, "duration", 0, "stop after this long (0 runs until interrupted)")
	rootCmd.AddCommand(streamCmd)
}

func addSerialFlags(cmd *cobra.Command, port *string, baud *int) {
	cmd.Flags().StringVarP(port, "port", "p", "", "port to read from (default from settings)")
	cmd.Flags().IntVarP(baud, "baud", "b", 0, "baud rate (default from settings)")
}

// resolveSerial starts from the saved serial settings and applies the flags
// the user set.
func resolveSerial(cmd *cobra.Command, port string, baud int) (domain.SerialSettings, error) {
	serial := domain.DefaultSettings().Serial
	if settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return serial, fmt.Errorf("failed to get settings: %w", err)
		}
		serial = settings.Serial
	}
	if cmd.Flags().Changed("port") {
		serial.Port = port
	}
	if cmd.Flags().Changed("baud") {
		serial.Baud = domain.Baud(baud)
	}
	return serial, serial.Validate()
}

func runStream(cmd *cobra.Command, _ []string) error {
	if acquisitionService == nil {
		return errAcquisitionNotConfigured
	}
	if streamInterval <= 0 {
		return errors.New("interval must be positive")
	}

	serial, err := resolveSerial(cmd, streamPort, streamBaud)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	if streamDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, streamDuration)
		defer cancel()
	}

	if err := acquisitionService.Start(ctx, serial); err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}

	out := cmd.OutOrStdout()
	limiter := rate.NewLimiter(rate.Every(streamInterval), 1)
	// Consume the burst token so the first line waits one interval.
	limiter.Allow()

	for acquisitionService.Running() {
		if err := limiter.Wait(ctx); err != nil {
			break
		}
		printLatest(out, acquisitionService.Snapshot())
	}

	if err := acquisitionService.Stop(); err != nil && !errors.Is(err, domain.ErrNotRunning) {
		return fmt.Errorf("failed to stop: %w", err)
	}

	printLatest(out, acquisitionService.Snapshot())
	printStatus(out, acquisitionService.Status())
	return nil
}

// printLatest writes one line: the next position, then the newest value of
// each series. Series without data print "-".
func printLatest(w io.Writer, snap domain.Snapshot) {
	fields := make([]string, 0, snap.Len()+1)
	fields = append(fields, fmt.Sprintf("@%d", snap.Position))
	for i := range snap.Series {
		v, ok := snap.Latest(i)
		if !ok {
			fields = append(fields, "-")
			continue
		}
		fields = append(fields, strconv.FormatInt(v, 10))
	}
	fmt.Fprintln(w, strings.Join(fields, "\t"))
}

func printStatus(w io.Writer, s domain.AcquisitionStatus) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Port:          %s @ %s baud\n", s.Port, s.Baud)
	fmt.Fprintf(w, "Bytes read:    %d\n", s.BytesRead)
	fmt.Fprintf(w, "Records:       %d\n", s.RecordsIngested)
	fmt.Fprintf(w, "Empty:         %d\n", s.EmptyRecords)
	fmt.Fprintf(w, "Parse errors:  %d\n", s.ParseErrors)
	fmt.Fprintf(w, "Series:        %d\n", s.SeriesCount)
	if s.LastError != "" {
		fmt.Fprintf(w, "Last error:    %s\n", s.LastError)
	}
}
