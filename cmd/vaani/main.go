package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vaanihq/vaani/pkg/runner"
	"github.com/vaanihq/vaani/pkg/transports"
	"github.com/vaanihq/vaani/pkg/vaani"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	dialTo := flag.String("dial_to", "", "destination number for outbound call")
	dialFrom := flag.String("dial_from", "", "caller ID for outbound call")
	dialURL := flag.String("dial_url", "", "override voice URL for outbound call")
	flag.Parse()

	cfg, err := vaani.LoadConfig(*configPath)
	if err != nil {
		slog.Error("config_load_failed", "path", *configPath, "error", err.Error())
		os.Exit(1)
	}

	engine, err := vaani.NewEngine(vaani.EngineOptions{Config: cfg})
	if err != nil {
		slog.Error("engine_init_failed", "error", err.Error())
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engineDone := make(chan error, 1)
	lifecycle := runner.NewLifecycleRunner(engine, runner.Hooks{
		OnStart: func() {
			go func() { engineDone <- engine.Run(ctx) }()
			maybeDial(ctx, engine, *dialTo, *dialFrom, *dialURL)
		},
	}, time.Duration(cfg.DrainTimeoutMS)*time.Millisecond)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			slog.Info("shutdown_signal", "signal", sig.String())
		case err := <-engineDone:
			if err != nil {
				slog.Error("engine_stopped", "error", err.Error())
			}
		}
		cancel()
	}()

	if err := lifecycle.Run(ctx); err != nil {
		slog.Error("shutdown_incomplete", "error", err.Error())
		os.Exit(1)
	}
}

func maybeDial(ctx context.Context, engine *vaani.Engine, to, from, url string) {
	if to == "" || from == "" {
		return
	}
	dialer, ok := engine.Transport().(transports.OutboundDialer)
	if !ok {
		slog.Warn("transport_no_outbound_dialer")
		return
	}
	callSID, err := dialer.Dial(ctx, to, from, url)
	if err != nil {
		slog.Error("outbound_dial_failed", "error", err.Error())
		return
	}
	slog.Info("outbound_dial_started", "call_sid", callSID)
}
