package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/dartxbrl/internal/logging"
	"github.com/ppiankov/dartxbrl/internal/worker"
)

var interval time.Duration

// scheduleCmd represents the schedule command
var scheduleCmd = &cobra.Command{
	Use:   "schedule <dir>",
	Short: "Run batch on a directory at a fixed interval",
	Long: `Schedule runs the batch command against a directory every interval
until interrupted. Runs never overlap; a run still in progress when the next
tick arrives is not doubled up.

Example:
  dartxbrl schedule ./filings --interval 6h`,
	Args: cobra.ExactArgs(1),
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().DurationVar(&interval, "interval", 0, "run interval (default: schedule.interval)")
	scheduleCmd.Flags().IntVar(&workers, "workers", 0, "number of concurrent workers (default: concurrency.workers)")
	addOutputFlags(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	dir := args[0]
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}
	if interval > 0 {
		cfg.Schedule.Interval = interval
	}
	if workers > 0 {
		cfg.Concurrency.Workers = workers
	}
	if cfg.Schedule.Interval <= 0 {
		return fmt.Errorf("schedule interval must be positive")
	}

	logger, err := logging.New(cfg.Output.Verbose)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	r, err := newRunner(cfg, logger)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()

	_, err = scheduler.Every(cfg.Schedule.Interval).Do(func() {
		logger.Info("scheduled batch starting", zap.String("dir", dir))
		results, err := runBatchOnce(ctx, r, dir, "", cfg.Concurrency.Workers, logger)
		if err != nil {
			logger.Error("scheduled batch failed", zap.Error(err))
			return
		}
		ok, failed, rows := worker.Summary(results)
		logger.Info("scheduled batch finished",
			zap.Int("ok", ok),
			zap.Int("failed", failed),
			zap.Int("rows", rows))
	})
	if err != nil {
		return fmt.Errorf("schedule: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Scheduling %s every %v (Ctrl-C to stop)\n", dir, cfg.Schedule.Interval)
	scheduler.StartAsync()

	<-ctx.Done()
	scheduler.Stop()
	fmt.Fprintf(os.Stderr, "Scheduler stopped\n")
	return nil
}
