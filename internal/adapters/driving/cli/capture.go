package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/serplot/internal/core/domain"
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Manage recorded capture sessions",
	Long: `List, export and delete capture sessions.

A session is recorded with 'serplot plot --record', the 'r' key in the plot,
or automatically when 'settings capture --auto' is on. Exported files can be
replayed with --port file:PATH.`,
}

var captureListCmd = &cobra.Command{
	Use:   "list",
	Short: "List capture sessions",
	Args:  cobra.NoArgs,
	RunE:  runCaptureList,
}

var captureExportCmd = &cobra.Command{
	Use:   "export [session-id]",
	Short: "Write a session's raw records",
	Args:  cobra.ExactArgs(1),
	RunE:  runCaptureExport,
}

var captureDeleteCmd = &cobra.Command{
	Use:   "delete [session-id]",
	Short: "Delete a capture session",
	Args:  cobra.ExactArgs(1),
	RunE:  runCaptureDelete,
}

var captureOutput string

func init() {
	captureExportCmd.Flags().StringVarP(&captureOutput, "output", "o", "", "write to FILE instead of stdout")

	captureCmd.AddCommand(captureListCmd)
	captureCmd.AddCommand(captureExportCmd)
	captureCmd.AddCommand(captureDeleteCmd)
	rootCmd.AddCommand(captureCmd)
}

func runCaptureList(cmd *cobra.Command, _ []string) error {
	if captureService == nil {
		return errCaptureNotConfigured
	}

	sessions, err := captureService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list captures: %w", err)
	}

	if len(sessions) == 0 {
		cmd.Println("No capture sessions.")
		return nil
	}

	table := newTable(cmd.OutOrStdout(), "id", "label", "port", "started", "duration", "records")
	for _, s := range sessions {
		duration := s.Duration().Round(time.Second).String()
		if s.Active() {
			duration += " (recording)"
		}
		table.Append([]string{
			s.ID, labelOrDash(s.Label), s.Port,
			s.StartedAt.Local().Format("2006-01-02 15:04:05"), duration,
			strconv.Itoa(s.RecordCount),
		})
	}
	table.Render()
	return nil
}

func runCaptureExport(cmd *cobra.Command, args []string) error {
	if captureService == nil {
		return errCaptureNotConfigured
	}

	var w io.Writer = cmd.OutOrStdout()
	if captureOutput != "" {
		f, err := os.Create(captureOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	n, err := captureService.Export(cmd.Context(), args[0], w)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("capture session not found: %s", args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to export capture: %w", err)
	}

	if captureOutput != "" {
		cmd.Printf("Exported %d records to %s\n", n, captureOutput)
	}
	return nil
}

func runCaptureDelete(cmd *cobra.Command, args []string) error {
	if captureService == nil {
		return errCaptureNotConfigured
	}

	err := captureService.Delete(cmd.Context(), args[0])
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("capture session not found: %s", args[0])
	case errors.Is(err, domain.ErrCaptureActive):
		return fmt.Errorf("capture session %s is still recording", args[0])
	case err != nil:
		return fmt.Errorf("failed to delete capture: %w", err)
	}

	cmd.Printf("Deleted capture session %s\n", args[0])
	return nil
}

func labelOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
