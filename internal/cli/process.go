package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/dartxbrl/internal/logging"
	"github.com/ppiankov/dartxbrl/internal/model"
	"github.com/ppiankov/dartxbrl/internal/pipeline"
)

var (
	reportDate     string
	reportName     string
	corpCode       string
	receiptDate    string
	outDir         string
	jsonOut        bool
	noFilter       bool
	strictEmpty    bool
	tolerance      string
	printDiags     bool
	processTimeout time.Duration
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process <zip|dir|instance|url>",
	Short: "Extract the balance sheet and income statement of one filing",
	Long: `Process loads one DART XBRL filing and:
- Selects the balance sheet and income statement line items
- Pivots facts into one row per concept, period and scope
- Removes totals that reconcile with their components
- Drops comparative periods outside the current and prior fiscal year
- Writes year=YYYY/mm=MM/FS_<corp>_<YYYYMM>.parquet under the output dir

Example:
  dartxbrl process ./00171636_2025-06-30.zip
  dartxbrl process ./extracted/ --report-date 2025-06-30 --corp-code 171636
  dartxbrl process https://example.com/filing.zip --json --out ./data`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&reportDate, "report-date", "", "reporting date YYYY-MM-DD (default: derived from the filing)")
	processCmd.Flags().StringVar(&reportName, "report-name", "", "DART report name, e.g. \"반기보고서 (2025.06)\"")
	processCmd.Flags().StringVar(&corpCode, "corp-code", "", "DART corp code (default: from the filing)")
	processCmd.Flags().StringVar(&receiptDate, "receipt-date", "", "filing receipt date YYYYMMDD (default: "+pipeline.ReceiptMappingFile+", then today)")
	processCmd.Flags().DurationVar(&processTimeout, "timeout", 5*time.Minute, "processing timeout")
	processCmd.Flags().BoolVar(&printDiags, "diagnostics", false, "print diagnostics as JSON to stdout")
	addOutputFlags(processCmd)
}

// addOutputFlags registers the flags shared by process, batch and schedule
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default: output.dir)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "also write JSON next to parquet")
	cmd.Flags().BoolVar(&noFilter, "no-period-filter", false, "keep every reported period")
	cmd.Flags().BoolVar(&strictEmpty, "strict", false, "fail when a statement has no rows")
	cmd.Flags().StringVar(&tolerance, "tolerance", "", "total reconciliation tolerance (default: pipeline.total_tolerance)")
}

// effectiveConfig loads the config and applies command-line overrides
func effectiveConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if outDir != "" {
		cfg.Output.Dir = outDir
	}
	if cmd.Flags().Changed("json") {
		cfg.Output.JSON = jsonOut
	}
	if noFilter {
		cfg.Pipeline.PeriodFilter = false
	}
	if strictEmpty {
		cfg.Pipeline.StrictEmpty = true
	}
	if tolerance != "" {
		cfg.Pipeline.TotalTolerance = tolerance
	}
	cfg.Output.Verbose = cfg.Output.Verbose || verbose
	return cfg, nil
}

func runProcess(cmd *cobra.Command, args []string) error {
	path := args[0]
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
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
	r.reportName = reportName
	r.corpCode = corpCode
	if reportDate != "" {
		d, err := time.Parse(model.DateLayout, reportDate)
		if err != nil {
			return fmt.Errorf("invalid --report-date %q: %w", reportDate, err)
		}
		r.reportDate = d
	}
	if receiptDate != "" {
		d, err := pipeline.ParseReceiptDate(receiptDate)
		if err != nil {
			return fmt.Errorf("invalid --receipt-date: %w", err)
		}
		r.receiptDate = d
	}

	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Processing: %s\n", path)
		fmt.Fprintf(os.Stderr, "Output dir: %s\n", cfg.Output.Dir)
		fmt.Fprintf(os.Stderr, "Period filter: %v\n\n", cfg.Pipeline.PeriodFilter)
	}

	res, output, err := r.run(ctx, path)
	if err != nil {
		return fmt.Errorf("process failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ %s %s (%s)\n", res.EntityCode, res.EntityName, res.ReportDate.Format(model.DateLayout))
	fmt.Fprintf(os.Stderr, "✓ %d balance sheet rows, %d income statement rows\n",
		res.Count(model.BalanceSheet), res.Count(model.IncomeStatement))
	fmt.Fprintf(os.Stderr, "✓ %d diagnostics\n", len(res.Diagnostics))
	if output != "" {
		fmt.Fprintf(os.Stderr, "✓ Wrote: %s\n", output)
	} else {
		fmt.Fprintln(os.Stderr, "⚠ No rows to write")
	}

	if printDiags {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res.Diagnostics); err != nil {
			return fmt.Errorf("encode diagnostics: %w", err)
		}
	}
	return nil
}
