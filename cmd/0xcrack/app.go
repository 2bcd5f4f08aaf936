package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/RowanDark/0xcrack/internal/config"
	"github.com/RowanDark/0xcrack/internal/crack"
	"github.com/RowanDark/0xcrack/internal/history"
	"github.com/RowanDark/0xcrack/internal/logging"
	"github.com/RowanDark/0xcrack/internal/observability/metrics"
	"github.com/RowanDark/0xcrack/internal/service"
)

// app holds everything a command needs once configuration is resolved.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	svc     *service.Service
	closers []func() error
}

// appOptions tweak how the app is assembled.
type appOptions struct {
	// mutate applies command flags on top of the loaded configuration.
	mutate    func(*config.Config)
	noHistory bool
}

func (o *globalOptions) loadConfig() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}
	return cfg, nil
}

// newApp loads config, then builds the logger, engine, audit trail, history
// store and service. Callers must call close.
func (o *globalOptions) newApp(ao appOptions) (*app, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	if ao.mutate != nil {
		ao.mutate(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Writer: o.stderr})
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger}

	sc, err := cfg.Scorer()
	if err != nil {
		return nil, err
	}
	engine, err := crack.New(sc, cfg.EngineConfig(), crack.WithLogger(logger), crack.WithObserver(metrics.Observer{}))
	if err != nil {
		return nil, err
	}

	svcOpts := []service.Option{service.WithLogger(logger)}
	if cfg.Log.AuditPath != "" {
		audit, err := logging.NewAuditLogger(productName, logging.WithoutStdout(), logging.WithFile(cfg.Log.AuditPath))
		if err != nil {
			return nil, fmt.Errorf("open audit log: %w", err)
		}
		a.closers = append(a.closers, audit.Close)
		svcOpts = append(svcOpts, service.WithAudit(audit))
	}
	if !ao.noHistory && cfg.HistoryPath != "" {
		store, err := history.Open(cfg.HistoryPath)
		if err != nil {
			_ = a.close()
			return nil, fmt.Errorf("open history: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		svcOpts = append(svcOpts, service.WithHistory(store))
	}

	a.svc, err = service.New(engine, svcOpts...)
	if err != nil {
		_ = a.close()
		return nil, err
	}
	return a, nil
}

func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func contextWithTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, d)
}
