package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/dartxbrl/internal/logging"
	"github.com/ppiankov/dartxbrl/internal/worker"
)

var (
	workers      int
	listFile     string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [dir]",
	Short: "Process every filing in a directory in parallel",
	Long: `Batch processes many filings concurrently:
- Discover .zip archives, .xbrl instances and extracted filing directories
- Process filings in parallel with a configurable worker count
- One failed filing never aborts the batch

Example:
  dartxbrl batch ./filings
  dartxbrl batch --list paths.txt --workers 8
  dartxbrl batch ./filings --out ./data --timeout 30m`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&workers, "workers", 0, "number of concurrent workers (default: concurrency.workers)")
	batchCmd.Flags().StringVar(&listFile, "list", "", "file with one filing path or URL per line")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", time.Hour, "total timeout for batch processing")
	addOutputFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && listFile == "" {
		return fmt.Errorf("either a directory or --list is required")
	}
	dir := ""
	if len(args) == 1 {
		dir = args[0]
	}

	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}
	if workers > 0 {
		cfg.Concurrency.Workers = workers
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

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	source := dir
	if listFile != "" {
		source = listFile
	}
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  dartxbrl Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input:        %s\n", source)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", cfg.Output.Dir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	results, err := runBatchOnce(ctx, r, dir, listFile, cfg.Concurrency.Workers, logger)
	if err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	printBatchSummary(results, cfg.Output.Dir)
	return nil
}

func printBatchSummary(results []*worker.FileResult, out string) {
	for _, r := range results {
		if r.Error != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.Path, r.Error)
			continue
		}
		if r.Output == "" {
			fmt.Fprintf(os.Stderr, "⚠ %s: no rows to write\n", r.Path)
			continue
		}
		fmt.Fprintf(os.Stderr, "✓ %s → %s (%d rows)\n", r.Path, r.Output, r.Rows)
	}

	ok, failed, rows := worker.Summary(results)
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d filings\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", ok)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failed)
	fmt.Fprintf(os.Stderr, "  Rows:      %d\n", rows)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", out)
	fmt.Fprintf(os.Stderr, "\n")
}
