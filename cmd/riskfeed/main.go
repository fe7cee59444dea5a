package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/riskfeed/internal/config"
	"github.com/kailas-cloud/riskfeed/internal/domain/risk"
	logpkg "github.com/kailas-cloud/riskfeed/internal/logger"
	"github.com/kailas-cloud/riskfeed/internal/metrics"
	chiTransport "github.com/kailas-cloud/riskfeed/internal/transport/chi"
	"github.com/kailas-cloud/riskfeed/internal/transport/feedapi"
	"github.com/kailas-cloud/riskfeed/internal/transport/telegram"
	"github.com/kailas-cloud/riskfeed/internal/usecase/alert"
	"github.com/kailas-cloud/riskfeed/internal/usecase/dashboard"
	healthuc "github.com/kailas-cloud/riskfeed/internal/usecase/health"
	"github.com/kailas-cloud/riskfeed/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting riskfeed",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("feed_url", cfg.Feed.BaseURL),
		zap.Bool("telegram_alerts", cfg.Alerts.Telegram.Enabled()),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterFeedMetrics()
	metrics.RegisterHTTPMetrics()

	gateway, err := feedapi.New(cfg.Feed.BaseURL,
		feedapi.WithTimeout(time.Duration(cfg.Feed.TimeoutSec)*time.Second),
		feedapi.WithMaxBodyBytes(int64(cfg.Feed.MaxBodyMB)<<20),
		feedapi.WithLogger(logger),
	)
	if err != nil {
		logger.Fatal("Failed to create feed client", zap.Error(err))
	}

	synth := risk.NewSynthesizer(risk.Narratives{
		High:   cfg.Analysis.Narratives.High,
		Medium: cfg.Analysis.Narratives.Medium,
		Low:    cfg.Analysis.Narratives.Low,
	})

	// Alert destinations. The log notifier is always on.
	notifiers := []alert.Notifier{alert.NewLogNotifier(logger)}

	// Pass nil interface (not typed nil pointer!) when Telegram is not configured.
	var notifierChecker healthuc.NotifierChecker
	if cfg.Alerts.Telegram.Enabled() {
		tg, err := telegram.New(cfg.Alerts.Telegram.Token, cfg.Alerts.Telegram.ChatID,
			telegram.WithLogger(logger),
		)
		if err != nil {
			logger.Error("Telegram alerts disabled", zap.Error(err))
		} else {
			notifiers = append(notifiers, tg)
			notifierChecker = tg
		}
	}
	alertSvc := alert.New(logger, synth, notifiers...)
	alertSvc.Start(context.Background(), alert.DefaultQueueSize)

	dash := dashboard.New(gateway,
		dashboard.WithLogger(logger),
		dashboard.WithSynthesizer(synth),
		dashboard.WithSnapshotHook(func(ctx context.Context, s dashboard.Snapshot) {
			alertSvc.Submit(ctx, s.Generation, s.Documents)
		}),
	)

	// Background fetches are cancelled on shutdown.
	rootCtx, cancelFetches := context.WithCancel(context.Background())
	defer cancelFetches()
	dash.Start(rootCtx)

	healthSvc := healthuc.New(dash, notifierChecker)

	server := chiTransport.NewServer(dash, healthSvc, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewRouter(server, logger),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	cancelFetches()
	dash.Wait()
	alertSvc.Stop()

	logger.Info("Server stopped gracefully")
}
