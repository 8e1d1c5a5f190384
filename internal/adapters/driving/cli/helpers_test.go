package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/serplot/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/serplot/internal/adapters/driven/transport"
	"github.com/custodia-labs/serplot/internal/adapters/driven/transport/replay"
	"github.com/custodia-labs/serplot/internal/adapters/driven/transport/synthetic"
	"github.com/custodia-labs/serplot/internal/core/services"
)

// testServices are real services over in-memory stores.
type testServices struct {
	acquisition *services.AcquisitionService
	capture     *services.CaptureService
	settings    *services.SettingsService
	captures    *memory.CaptureStore
	config      *memory.ConfigStore
}

// setupTestServices installs fresh services and returns a cleanup func.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()

	config := memory.NewConfigStore()
	captures := memory.NewCaptureStore()
	settings := services.NewSettingsService(config)
	capture := services.NewCaptureService(captures)
	router := transport.NewRouter(transport.Options{
		Synthetic: func() synthetic.Config { return synthetic.Config{Interval: -1} },
		Replay:    replay.Config{Interval: -1},
	})
	acquisition := services.NewAcquisitionService(router, settings, capture)

	SetServices(&Services{
		Acquisition: acquisition,
		Capture:     capture,
		Settings:    settings,
		Ports:       services.NewPortService(synthetic.Enumerator{}),
	})
	t.Cleanup(func() {
		_ = acquisition.Stop()
		SetServices(nil)
	})

	return &testServices{
		acquisition: acquisition,
		capture:     capture,
		settings:    settings,
		captures:    captures,
		config:      config,
	}
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag to its default so package-level flag
// variables do not leak between tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
