// Demo program: builds a synthetic half-year filing, runs the extraction
// pipeline on it and prints the resulting rows and diagnostics.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/ppiankov/dartxbrl/internal/directory"
	"github.com/ppiankov/dartxbrl/internal/fixture"
	"github.com/ppiankov/dartxbrl/internal/model"
	"github.com/ppiankov/dartxbrl/internal/pipeline"
	"github.com/ppiankov/dartxbrl/internal/sink"
)

func main() {
	noFilter := flag.Bool("no-period-filter", false, "keep every reported period")
	out := flag.String("out", "", "also write parquet under this directory")
	flag.Parse()

	fmt.Println("=== dartxbrl sample filing ===")
	fmt.Println()

	cfg := model.DefaultConfig()
	cfg.Pipeline.PeriodFilter = !*noFilter

	resolver := directory.Static{fixture.StandardEntity: "케이티앤지"}
	p, err := pipeline.New(cfg, resolver, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	doc := pipeline.Document{Package: fixture.Standard(), FileName: fixture.StandardInstance}
	res, err := p.Process(context.Background(), doc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Entity:      %s %s\n", res.EntityCode, res.EntityName)
	fmt.Printf("Report date: %s\n", res.ReportDate.Format(model.DateLayout))
	fmt.Printf("Run:         %s\n\n", res.RunID)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "type\tno\tconcept\tlabel\tclass\tscope\tperiod\tamount")
	for _, r := range res.Rows {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Statement, r.Order, model.LocalName(r.ConceptID), r.LabelKo,
			strings.Trim(strings.Join(r.Class[:], "/"), "/"), r.Scope, r.Period, r.Amount)
	}
	_ = tw.Flush()

	fmt.Println()
	fmt.Println(strings.Repeat("-", 60))
	for _, d := range res.Diagnostics {
		fmt.Printf("[%s] %s %s %s\n", d.Stage, d.Kind, d.Concept, d.Detail)
	}

	if *out != "" {
		path, err := (&sink.ParquetSink{Dir: *out}).Write(context.Background(), res.Partition, res.EntityCode, res.Rows)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nWrote %s\n", path)
	}
}
