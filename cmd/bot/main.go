package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hqnguyen-dev/poly-mirror-bot/internal/bot"
	"github.com/hqnguyen-dev/poly-mirror-bot/internal/config"
	"github.com/hqnguyen-dev/poly-mirror-bot/internal/executor"
	"github.com/hqnguyen-dev/poly-mirror-bot/internal/exchange/polymarket"
	"github.com/hqnguyen-dev/poly-mirror-bot/internal/logger"
	"github.com/hqnguyen-dev/poly-mirror-bot/internal/monitoring"
	"github.com/hqnguyen-dev/poly-mirror-bot/internal/notifications"
	"github.com/hqnguyen-dev/poly-mirror-bot/internal/reporting"
	"github.com/hqnguyen-dev/poly-mirror-bot/internal/risk"
	"github.com/hqnguyen-dev/poly-mirror-bot/internal/sizing"
	"github.com/hqnguyen-dev/poly-mirror-bot/internal/watcher"
)

func main() {
	var (
		envFile = flag.String("env", ".env", "Environment file path (default: .env)")
		debug   = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config validation failed: %v", err)
	}

	fileLogger, err := logger.NewLoggerWithDebug("mirror", *debug)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer fileLogger.Close()

	fmt.Println("🚀 Polymarket Mirror Bot Starting...")

	api := polymarket.NewClient(polymarket.Config{
		BaseURL: cfg.PolymarketAPI,
		APIKey:  cfg.PrivateKey,
		Timeout: cfg.APITimeout,
	})

	var notifier notifications.Notifier = notifications.NopNotifier{}
	if cfg.Notifications.TelegramToken != "" && cfg.Notifications.TelegramChatID != "" {
		notifier = notifications.NewTelegramNotifier(
			cfg.Notifications.TelegramToken,
			cfg.Notifications.TelegramChatID,
		)
	} else {
		fileLogger.Info("telegram notifications disabled (no token configured)")
	}

	riskMgr := risk.NewManager(cfg, fileLogger)
	sizer := sizing.NewSizer(cfg)
	exec := executor.New(api, cfg, fileLogger)
	w := watcher.New(cfg.WSURL, cfg.WalletsToTrack, fileLogger)
	health := monitoring.NewHealthChecker()
	journal := reporting.NewJournal(cfg.JournalDir)

	startMonitoringServers(cfg, health, fileLogger)

	mirrorBot := bot.New(cfg, api, sizer, riskMgr, exec, w, notifier, health, journal, fileLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mirrorBot.Run(ctx); err != nil && err != context.Canceled {
		fileLogger.Error("bot exited: %v", err)
		os.Exit(1)
	}
}

// startMonitoringServers serves Prometheus metrics and the health endpoint
// on their configured ports. Failures are logged, not fatal: trading must
// not stop because an observability port is taken.
func startMonitoringServers(cfg *config.Config, health *monitoring.HealthChecker, fileLogger *logger.Logger) {
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", monitoring.Handler())
	metricsSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Monitoring.PrometheusPort),
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fileLogger.Warning("metrics server error: %v", err)
		}
	}()

	healthMux := http.NewServeMux()
	healthMux.Handle("/health", health)
	healthSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Monitoring.HealthPort),
		Handler:           healthMux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := healthSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fileLogger.Warning("health server error: %v", err)
		}
	}()
}
