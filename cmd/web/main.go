package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/goal-archive/internal/app"
	"github.com/riskibarqy/goal-archive/internal/config"
	"github.com/riskibarqy/goal-archive/internal/observability"
	"github.com/riskibarqy/goal-archive/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	if cfg.AppEnv == config.EnvDev {
		logger = logging.NewConsole(cfg.LogLevel)
	}
	logger = logger.With("service", cfg.ServiceName, "env", cfg.AppEnv)

	shipped, stopBetterStack, err := observability.InitBetterStackLogger(cfg, logger)
	if err != nil {
		logger.Error("init betterstack", "error", err)
		os.Exit(1)
	}

	mirrored, stopUptrace, err := observability.InitUptrace(cfg, shipped)
	if err != nil {
		shipped.Error("init uptrace", "error", err)
		os.Exit(1)
	}
	logger = mirrored
	logging.SetDefault(logger)

	stopPyroscope, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}

	pprofServer, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		logger.Error("start pprof", "error", err)
		os.Exit(1)
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	exitCode := 0
	if err := application.Run(ctx); err != nil {
		logger.Error("app stopped with error", "error", err)
		exitCode = 1
	}

	if err := observability.StopPprofServer(pprofServer, logger, 5*time.Second); err != nil {
		logger.Error("stop pprof", "error", err)
	}
	if err := stopPyroscope(); err != nil {
		logger.Error("stop pyroscope", "error", err)
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := stopUptrace(flushCtx); err != nil {
		logger.Error("flush uptrace", "error", err)
	}
	if err := stopBetterStack(flushCtx); err != nil {
		logger.Error("drain betterstack", "error", err)
	}
	_ = logger.Sync()

	if exitCode != 0 {
		cancel()
		stop()
		os.Exit(exitCode)
	}
}
