package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"stockdesk/fulfillment/pkg/config"
	"stockdesk/fulfillment/pkg/gateway"
	"stockdesk/fulfillment/pkg/pricing"
	"stockdesk/fulfillment/pkg/telemetry/logging"
)

// loadConfig reads the config file, applies STOCKDESK_* env overrides,
// and installs the configured logger as the process default.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if verbose {
		cfg.Logging.Level = "debug"
		cfg.Logging.Format = "text"
	}

	logger, err := logging.New(cfg.Logging, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	slog.SetDefault(logger)

	return cfg, nil
}

// newClient builds a gateway client from the loaded config. Callers own
// the returned client and must Close it.
func newClient(cfg *config.Config) (*gateway.Client, error) {
	client, err := gateway.NewClient(cfg.Gateway, nil, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("failed to create fulfillment client: %w", err)
	}
	return client, nil
}

// newEngine builds the pricing engine, from the configured table file
// when one is set, otherwise from the built-in default table. With
// watch_table enabled, table file edits are hot-swapped into the engine
// for as long as the command runs; the returned stop function ends the
// watch and is safe to call regardless.
func newEngine(cfg *config.Config) (*pricing.Engine, func(), error) {
	if cfg.Pricing.TableFile == "" {
		return pricing.NewEngine(pricing.DefaultTable()), func() {}, nil
	}

	table, err := pricing.LoadTable(cfg.Pricing.TableFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load pricing table: %w", err)
	}
	engine := pricing.NewEngine(table)

	if !cfg.Pricing.WatchTable {
		return engine, func() {}, nil
	}

	watcher, err := pricing.NewWatcher(cfg.Pricing.TableFile, engine, slog.Default())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to watch pricing table: %w", err)
	}
	go func() {
		if err := watcher.Watch(context.Background()); err != nil {
			slog.Error("tier table watcher failed, hot reload disabled", "error", err)
		}
	}()
	stop := func() { watcher.Stop() }

	return engine, stop, nil
}
