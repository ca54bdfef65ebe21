package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/afrojewelz/fan-control-lenovo/internal/actuator"
	"github.com/afrojewelz/fan-control-lenovo/internal/config"
	"github.com/afrojewelz/fan-control-lenovo/internal/control"
	"github.com/afrojewelz/fan-control-lenovo/internal/errors"
	"github.com/afrojewelz/fan-control-lenovo/internal/logger"
	"github.com/afrojewelz/fan-control-lenovo/internal/pid"
	"github.com/afrojewelz/fan-control-lenovo/internal/sensor"
	"github.com/afrojewelz/fan-control-lenovo/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fanctl: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	errFactory := errors.New()

	cfg, err := config.Load()
	if err != nil {
		return errFactory.Wrap(errors.ErrInitApp, err)
	}

	if err := logger.Init(cfg.LogLevel, logger.IsService()); err != nil {
		return errFactory.Wrap(errors.ErrInitApp, err)
	}
	logger.Debug().Msg("Config loaded")

	if err := pid.Write(); err != nil {
		return errFactory.Wrap(errors.ErrInitApp, err)
	}
	defer func() {
		if err := pid.Remove(); err != nil {
			logger.Warn().Err(err).Msg("Failed to remove PID file")
		}
	}()

	collector, err := telemetry.NewService(telemetry.Config{
		Enabled: cfg.Telemetry,
		DBPath:  cfg.TelemetryDB,
	})
	if err != nil {
		return errFactory.Wrap(errors.ErrInitTelemetry, err)
	}
	defer func() {
		if err := collector.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close telemetry store")
		}
	}()

	fan := actuator.NewIPMI(nil, cfg.Actuator.Command)
	if cfg.Monitor {
		logger.Info().Msg("Monitor mode activated, fan levels will not be applied")
		fan = actuator.Noop()
	}

	coord := control.NewCoordinator(fan, collector)
	sched := control.NewScheduler()

	if err := registerDomains(cfg, coord, sched); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	logger.Info().Msg("Starting temperature monitoring")

	if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return errFactory.Wrap(errors.ErrMainLoop, err)
	}

	// The last applied fan level stays in effect after exit.
	logger.Info().Msg("Exiting...")

	return nil
}

// registerDomains wires one monitor per hardware domain, in the order the
// first cycles should fire.
func registerDomains(cfg *config.Config, coord *control.Coordinator, sched *control.Scheduler) error {
	errFactory := errors.New()

	nicSource, err := sensor.NewNIC(nil, cfg.NIC.Chips)
	if err != nil {
		return errFactory.Wrap(errors.ErrInitSensors, err)
	}

	nvmeSource, err := sensor.NewNVMe(nil, cfg.Storage.Command, cfg.Storage.Devices)
	if err != nil {
		return errFactory.Wrap(errors.ErrInitSensors, err)
	}

	domains := []struct {
		id     string
		source sensor.Source
		domain config.Domain
	}{
		{"cpu", sensor.NewCPU(nil), cfg.CPU},
		{"storage", sensor.MaxOf(nvmeSource), cfg.Storage},
		{"nic", nicSource, cfg.NIC},
	}

	for _, d := range domains {
		interval := time.Duration(d.domain.Interval) * time.Second
		m, err := control.NewMonitor(d.id, d.source, d.domain.Table(), interval, cfg.DefaultLevel, coord)
		if err != nil {
			return errFactory.Wrap(errors.ErrInitApp, err)
		}
		sched.Add(m)
		logger.Debug().
			Str("domain", d.id).
			Dur("interval", interval).
			Msg("Domain registered")
	}

	return nil
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}
