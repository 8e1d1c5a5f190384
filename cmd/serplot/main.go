// Command serplot plots comma-separated integers from a serial port in the
// terminal.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/serplot/internal/adapters/driven/config/file"
	"github.com/custodia-labs/serplot/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/serplot/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/serplot/internal/adapters/driven/transport"
	"github.com/custodia-labs/serplot/internal/adapters/driven/transport/serialport"
	"github.com/custodia-labs/serplot/internal/adapters/driven/transport/synthetic"
	"github.com/custodia-labs/serplot/internal/adapters/driving/cli"
	"github.com/custodia-labs/serplot/internal/core/ports/driven"
	"github.com/custodia-labs/serplot/internal/core/services"
	"github.com/custodia-labs/serplot/internal/logger"
)

// Set by goreleaser.
var version = ""

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap wires adapters to services. Persistent state lives under
// ~/.serplot unless --ephemeral is set.
func bootstrap(opts cli.BootstrapOptions) (*cli.Services, func(), error) {
	var (
		configStore  driven.ConfigStore
		captureStore driven.CaptureStore
		closers      []func() error
	)

	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Debug("shutdown: %v", err)
			}
		}
	}

	if opts.Ephemeral {
		configStore = memory.NewConfigStore()
		captureStore = memory.NewCaptureStore()
		logger.Debug("ephemeral mode: settings and captures are not persisted")
	} else {
		fileStore, err := file.NewConfigStore("")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open config: %w", err)
		}
		configStore = fileStore

		watcher, err := file.NewWatcher(fileStore, func() {
			logger.Info("config: %s changed, applies on next start", fileStore.Path())
		})
		if err != nil {
			logger.Warn("config: not watching %s: %v", fileStore.Path(), err)
		} else {
			closers = append(closers, watcher.Close)
		}

		store, err := sqlite.NewStore("")
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to open capture database: %w", err)
		}
		closers = append(closers, store.Close)
		captureStore = store.CaptureStore()
		logger.Debug("config %s, captures %s", fileStore.Path(), store.Path())
	}

	settingsService := services.NewSettingsService(configStore)
	captureService := services.NewCaptureService(captureStore)

	router := transport.NewRouter(transport.Options{
		Synthetic: func() synthetic.Config {
			settings, err := settingsService.Get()
			if err != nil {
				logger.Warn("synthetic: using defaults: %v", err)
				return synthetic.Config{}
			}
			return synthetic.ConfigFrom(settings.Synthetic)
		},
	})

	acquisitionService := services.NewAcquisitionService(router, settingsService, captureService)
	closers = append(closers, func() error {
		_ = acquisitionService.Stop()
		if captureService.Active() == nil {
			return nil
		}
		return captureService.End(context.Background())
	})

	return &cli.Services{
		Acquisition: acquisitionService,
		Capture:     captureService,
		Settings:    settingsService,
		Ports:       services.NewPortService(router, serialport.NewEnumerator()),
	}, cleanup, nil
}
