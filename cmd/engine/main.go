// Package main provides the entry point for the prediction engine.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/sharp-props/internal/api"
	"github.com/yourusername/sharp-props/internal/config"
	"github.com/yourusername/sharp-props/internal/database"
	"github.com/yourusername/sharp-props/internal/datasource"
	"github.com/yourusername/sharp-props/internal/health"
	"github.com/yourusername/sharp-props/internal/logger"
	"github.com/yourusername/sharp-props/internal/metrics"
	"github.com/yourusername/sharp-props/internal/ml"
	"github.com/yourusername/sharp-props/internal/notifier"
	"github.com/yourusername/sharp-props/internal/repository"
	"github.com/yourusername/sharp-props/internal/scheduler"
	"github.com/yourusername/sharp-props/internal/service"
)

// Build information - set via ldflags
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set up logging
	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     Version,
	}).Info("Prediction engine starting")

	// Initialize database connection and schema
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	appLog.Info("Database connection established")

	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create repositories")
	}

	// Initialize data providers
	factory := datasource.NewFactory(cfg, appLog)
	statsProvider, err := factory.NewStatsProvider()
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create stats provider")
	}
	linesProvider, err := factory.NewLinesProvider()
	if err != nil {
		appLog.WithError(err).Warn("Lines provider unavailable, predicting without lines")
		linesProvider = nil
	}

	// Initialize model scorer; predictions degrade to weighted averages
	// when the model service is disabled
	var scorer *ml.CachedScorer
	if cfg.ModelService.Enabled {
		scorer = ml.NewCachedScorer(&cfg.ModelService, appLog)
		appLog.WithField("model_service", cfg.ModelService.HTTPAddress).Info("Model scorer initialized")
	} else {
		appLog.Info("Model service disabled, using weighted averages only")
	}

	// Build the pipeline services
	processor := service.NewStatsProcessor(repos.GameLog, repos.ProcessedStats, &cfg.Prediction, appLog)
	ingestionSvc := service.NewIngestionService(statsProvider, repos, &cfg.Ingestion, cfg.Prediction.RetentionDays, appLog)
	verificationSvc := service.NewVerificationService(repos, appLog)

	// Keep the interface nil when the scorer is absent
	var modelScorer service.ModelScorer
	if scorer != nil {
		modelScorer = scorer
	}
	predictionSvc := service.NewPredictionService(repos, processor, linesProvider, modelScorer, &cfg.Prediction, appLog)

	// Schedule the pipeline
	sched := scheduler.NewScheduler(ingestionSvc, processor, predictionSvc, verificationSvc, appLog)
	if err := sched.ScheduleAll(&cfg.Scheduler); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule jobs")
	}

	// Wire the notifier to prediction runs
	if cfg.Notifier.Enabled {
		slateNotifier := notifier.NewDiscordNotifier(&cfg.Notifier, repos.Prediction, verificationSvc, appLog)
		sched.SetSlateHook(func(ctx context.Context, date time.Time, _ *service.PredictionRunReport) {
			if err := slateNotifier.NotifySlate(ctx, date); err != nil {
				appLog.WithError(err).Error("Failed to send slate notification")
			}
		})
		appLog.Info("Slate notifier enabled")
	}

	// Health check server
	healthCfg := health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Logger:      appLog,
		DB:          db,
		Schedule:    sched,
	}
	if scorer != nil {
		healthCfg.Model = scorer
	}
	healthServer := health.NewServer(healthCfg)
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}

	// Metrics server
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		go func() {
			mux := http.NewServeMux()
			mux.Handle(cfg.Metrics.Path, metrics.Handler())
			addr := ":" + strconv.Itoa(cfg.Metrics.Port)
			appLog.WithField("addr", addr).Info("Metrics server starting")
			if err := http.ListenAndServe(addr, mux); err != nil {
				appLog.WithError(err).Error("Metrics server error")
			}
		}()
	}

	// Dashboard API server
	if cfg.API.Port > 0 {
		apiServer := api.NewServer(&cfg.API, repos, verificationSvc, appLog)
		go func() {
			if err := apiServer.Start(ctx); err != nil {
				appLog.WithError(err).Error("Dashboard API server error")
			}
		}()
	}

	// Start the scheduler
	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}
	healthServer.SetReady(true)

	appLog.WithFields(logrus.Fields{
		"next_run":      sched.GetNextRun().Format(time.RFC3339),
		"model_service": cfg.ModelService.Enabled,
		"notifier":      cfg.Notifier.Enabled,
	}).Info("Prediction engine running")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)
	cancel()

	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error during scheduler shutdown")
	}

	appLog.Info("Prediction engine shut down successfully")
}
