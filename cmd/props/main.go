// Package main provides the operator CLI for the prediction pipeline:
// ingestion, stats processing, prediction, verification and model training.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/sharp-props/internal/config"
	"github.com/yourusername/sharp-props/internal/database"
	"github.com/yourusername/sharp-props/internal/datasource"
	applogger "github.com/yourusername/sharp-props/internal/logger"
	"github.com/yourusername/sharp-props/internal/ml"
	"github.com/yourusername/sharp-props/internal/models"
	"github.com/yourusername/sharp-props/internal/notifier"
	"github.com/yourusername/sharp-props/internal/repository"
	"github.com/yourusername/sharp-props/internal/service"
)

var (
	configFile   string
	dateFlag     string
	backfillDays int
	lookbackDays int
	outputFile   string
	notifyFlag   bool

	cfg    *config.Config
	appLog *logrus.Logger
	db     *database.DB
	repos  *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")

	ingestCmd.Flags().IntVar(&backfillDays, "backfill", 0, "Backfill the trailing N days instead of the daily pull")
	predictCmd.Flags().StringVar(&dateFlag, "date", "", "Slate date (YYYY-MM-DD, default today)")
	predictCmd.Flags().BoolVar(&notifyFlag, "notify", false, "Send the slate notification after predicting")
	verifyCmd.Flags().StringVar(&dateFlag, "date", "", "Verify predictions older than this date (YYYY-MM-DD, default today)")
	exportCmd.Flags().StringVarP(&outputFile, "out", "o", "training.jsonl", "Output file for training rows")
	exportCmd.Flags().IntVar(&lookbackDays, "lookback", 0, "Days of game logs to export (default from config)")
	trainCmd.Flags().IntVar(&lookbackDays, "lookback", 0, "Days of history to train on (default from config)")
}

var rootCmd = &cobra.Command{
	Use:   "props",
	Short: "Operate the over/under prediction pipeline",
	Long:  `Run ingestion, stats processing, prediction, verification and model training against the configured store.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Pull games, box scores, teams and injuries",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := datasource.NewFactory(cfg, appLog).NewStatsProvider()
		if err != nil {
			return fmt.Errorf("failed to create stats provider: %w", err)
		}
		svc := service.NewIngestionService(provider, repos, &cfg.Ingestion, cfg.Prediction.RetentionDays, appLog)

		now := time.Now().UTC()
		var report *service.IngestionReport
		if backfillDays > 0 {
			report, err = svc.Backfill(cmd.Context(), now, backfillDays)
		} else {
			report, err = svc.IngestDaily(cmd.Context(), now)
		}
		if err != nil {
			return err
		}

		fmt.Printf("Ingested %d games, %d game logs, %d teams, %d injuries (%d errors) in %s\n",
			report.GamesFetched, report.LogsStored, report.TeamsStored,
			report.InjuriesStored, report.Errors, report.Duration.Round(time.Millisecond))
		return nil
	},
}

var processCmd = &cobra.Command{
	Use:   "process-stats",
	Short: "Recompute rolling stat snapshots for active players",
	RunE: func(cmd *cobra.Command, args []string) error {
		processor := service.NewStatsProcessor(repos.GameLog, repos.ProcessedStats, &cfg.Prediction, appLog)
		processed, skipped, err := processor.ProcessAll(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Processed %d players, skipped %d\n", processed, skipped)
		return nil
	},
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Generate over/under projections for a slate",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDateFlag()
		if err != nil {
			return err
		}

		linesProvider, err := datasource.NewFactory(cfg, appLog).NewLinesProvider()
		if err != nil {
			appLog.WithError(err).Warn("Lines provider unavailable, predicting without lines")
			linesProvider = nil
		}

		var scorer service.ModelScorer
		if cfg.ModelService.Enabled {
			scorer = ml.NewCachedScorer(&cfg.ModelService, appLog)
		}

		processor := service.NewStatsProcessor(repos.GameLog, repos.ProcessedStats, &cfg.Prediction, appLog)
		svc := service.NewPredictionService(repos, processor, linesProvider, scorer, &cfg.Prediction, appLog)

		report, err := svc.RunPredictions(cmd.Context(), date)
		if err != nil {
			return err
		}

		fmt.Printf("Slate %s: %d games, %d projections (%d with lines, %d ensemble, %d weighted-avg), %d team totals in %s\n",
			report.GameDate.Format("2006-01-02"), report.Games, report.Predictions,
			report.WithLines, report.EnsembleUsed, report.WeightedAvgOnly,
			report.TeamTotals, report.Duration.Round(time.Millisecond))

		if notifyFlag {
			verificationSvc := service.NewVerificationService(repos, appLog)
			slateNotifier := notifier.NewDiscordNotifier(&cfg.Notifier, repos.Prediction, verificationSvc, appLog)
			if err := slateNotifier.NotifySlate(cmd.Context(), date); err != nil {
				return fmt.Errorf("predictions stored but notification failed: %w", err)
			}
		}
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Settle predictions against realized box scores",
	RunE: func(cmd *cobra.Command, args []string) error {
		asOf, err := parseDateFlag()
		if err != nil {
			return err
		}

		svc := service.NewVerificationService(repos, appLog)
		report, err := svc.RunVerification(cmd.Context(), asOf)
		if err != nil {
			return err
		}

		fmt.Printf("Verified %d predictions: %d correct, %d incorrect, %d pushes (%d without box scores)\n",
			report.Verified, report.Correct, report.Incorrect, report.Pushes, report.NoData)

		summary, err := svc.AccuracySummary(cmd.Context(), 30)
		if err == nil && summary.Total > 0 {
			fmt.Printf("Trailing 30 days: %.1f%% (%d/%d, %d pushes excluded)\n",
				summary.AccuracyPct, summary.Correct, summary.Correct+summary.Incorrect, summary.Pushes)
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export-training",
	Short: "Export point-in-time training rows as JSON lines",
	RunE: func(cmd *cobra.Command, args []string) error {
		days := lookbackDays
		if days <= 0 {
			days = cfg.ModelService.TrainingLookbackDays
		}

		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()

		svc := service.NewTrainingExportService(repos, &cfg.Prediction, appLog)
		rows, err := svc.Export(cmd.Context(), f, days)
		if err != nil {
			return err
		}

		fmt.Printf("Wrote %d training rows to %s\n", rows, outputFile)
		return nil
	},
}

var trainCmd = &cobra.Command{
	Use:   "train-models",
	Short: "Submit training jobs for every modeled statistic",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.ModelService.Enabled {
			return fmt.Errorf("model service is disabled in configuration")
		}
		days := lookbackDays
		if days <= 0 {
			days = cfg.ModelService.TrainingLookbackDays
		}

		scorer := ml.NewCachedScorer(&cfg.ModelService, appLog)
		for _, stat := range models.TargetStatKeys {
			status, err := scorer.TrainModel(cmd.Context(), stat, days)
			if err != nil {
				return fmt.Errorf("failed to submit training for %s: %w", stat, err)
			}
			fmt.Printf("%s: job %s %s\n", stat, status.JobID, status.Status)
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "model-status",
	Short: "Check model service health",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.ModelService.Enabled {
			return fmt.Errorf("model service is disabled in configuration")
		}
		scorer := ml.NewCachedScorer(&cfg.ModelService, appLog)
		if err := scorer.HealthCheck(cmd.Context()); err != nil {
			return fmt.Errorf("model service unhealthy: %w", err)
		}
		fmt.Println("Model service is healthy")
		return nil
	},
}

func main() {
	rootCmd.AddCommand(ingestCmd, processCmd, predictCmd, verifyCmd, exportCmd, trainCmd, statusCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setup(ctx context.Context) error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog = applogger.NewLogger(cfg.App.LogLevel)

	db, err = database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to create repositories: %w", err)
	}
	return nil
}

func parseDateFlag() (time.Time, error) {
	if dateFlag == "" {
		return time.Now().UTC(), nil
	}
	date, err := time.Parse("2006-01-02", dateFlag)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", dateFlag)
	}
	return date, nil
}
