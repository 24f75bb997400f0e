package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/headcount/internal/countries"
	"github.com/sells-group/headcount/internal/csvio"
	"github.com/sells-group/headcount/internal/enrich"
)

var (
	enrichCSV         string
	enrichCountry     string
	enrichOutput      string
	enrichConcurrency int
	enrichOffline     bool
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich a company CSV with employee counts",
	Long: `Reads a CSV with a "Company Name" column, resolves each company's
employee count for the selected country, and writes the augmented CSV.

Examples:
  # Real API mode (needs HEADCOUNT_ANTHROPIC_KEY)
  headcount enrich --csv companies.csv --country JP

  # Offline (deterministic stub counts, no API keys needed)
  headcount enrich --csv companies.csv --country AU --offline`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		country, ok := countries.Lookup(enrichCountry)
		if !ok {
			return eris.Errorf("enrich: unknown country %q (see `headcount countries`)", enrichCountry)
		}

		data, err := os.ReadFile(enrichCSV)
		if err != nil {
			return eris.Wrap(err, "enrich: read csv")
		}

		records, err := csvio.Ingest(data, country.Name)
		if err != nil {
			return eris.Wrap(err, "enrich: parse csv")
		}
		zap.L().Info("parsed csv", zap.Int("companies", len(records)))

		var env *lookupEnv
		if enrichOffline {
			env = initOfflineLookup()
		} else {
			env, err = initLookup(ctx)
			if err != nil {
				return eris.Wrap(err, "enrich: init lookup")
			}
		}
		defer env.Close()

		job := enrich.NewJob(country.ID, records)
		reporter := enrich.NewReporter(job.Total, func(pct int) {
			zap.L().Info("progress", zap.Int("percent", pct))
		})

		opts := []enrich.DispatcherOption{
			enrich.WithLookupTimeout(time.Duration(cfg.Lookup.TimeoutSecs) * time.Second),
		}
		if enrichConcurrency > 0 {
			opts = append(opts, enrich.WithConcurrency(enrichConcurrency))
		} else {
			opts = append(opts, enrich.WithConcurrency(cfg.Lookup.Concurrency))
		}

		dispatcher := enrich.NewDispatcher(env.Client, opts...)
		if err := dispatcher.Run(ctx, job, reporter); err != nil {
			return err
		}

		out, err := csvio.Emit(job.Records)
		if err != nil {
			return eris.Wrap(err, "enrich: render output")
		}

		outPath := enrichOutput
		if outPath == "" {
			outPath = csvio.OutputFilename
		}
		if err := os.WriteFile(outPath, out, 0o644); err != nil {
			return eris.Wrap(err, "enrich: write output")
		}

		fmt.Fprintf(os.Stderr, "wrote %s (%d companies)\n", outPath, job.Total)
		return nil
	},
}

func init() {
	enrichCmd.Flags().StringVar(&enrichCSV, "csv", "", "path to input CSV file (required)")
	enrichCmd.Flags().StringVar(&enrichCountry, "country", "", "target country id, e.g. JP (required)")
	enrichCmd.Flags().StringVar(&enrichOutput, "output", "", "output path (default: "+csvio.OutputFilename+")")
	enrichCmd.Flags().IntVar(&enrichConcurrency, "concurrency", 0, "parallel lookups (default from config)")
	enrichCmd.Flags().BoolVar(&enrichOffline, "offline", false, "use the stub lookup client (no API keys needed)")
	_ = enrichCmd.MarkFlagRequired("csv")
	_ = enrichCmd.MarkFlagRequired("country")
	rootCmd.AddCommand(enrichCmd)
}
