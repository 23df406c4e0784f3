package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/railpay/railpay/internal/account"
	"github.com/railpay/railpay/internal/config"
	"github.com/railpay/railpay/internal/gateway"
	"github.com/railpay/railpay/internal/infra"
	"github.com/railpay/railpay/internal/logging"
	"github.com/railpay/railpay/internal/notification"
	"github.com/railpay/railpay/internal/server"
	"github.com/railpay/railpay/internal/transfer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()

	var cache *redis.Client
	if cfg.RedisURL != "" {
		cache, err = infra.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("connect redis", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := cache.Close(); err != nil {
				logger.Warn("close redis", "error", err)
			}
		}()
	}

	// Core wiring, leaf first: account registry, rail connector, reconciliation
	// monitor, then the orchestrator that ties them together.
	accounts := account.NewLedger()
	rail := gateway.NewSimulator(cfg.GatewaySettleDelay)
	notifier := notification.NewLoggerNotifier(logger)
	monitor, err := transfer.NewMonitor(rail, cfg.MonitorPollDelay, cfg.MonitorWorkers, logger, notifier)
	if err != nil {
		logger.Error("build monitor", "error", err)
		os.Exit(1)
	}
	transfers := transfer.NewService(accounts, rail, monitor)

	srv, err := server.New(cfg, cache, logger, accounts, transfers)
	if err != nil {
		logger.Error("build server", "error", err)
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)
	go func() {
		srvErrCh <- srv.Listen()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-srvErrCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	monitor.Close()

	logger.Info("server exited cleanly")
}
