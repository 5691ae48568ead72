package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/txnkit/internal/config"
	"github.com/cleared-dev/txnkit/internal/dataset"
	"github.com/cleared-dev/txnkit/internal/generator"
	"github.com/cleared-dev/txnkit/internal/logger"
	"github.com/cleared-dev/txnkit/internal/model"
)

type generateParams struct {
	Files   []string
	OutDir  string
	Seed    uint64
	Preview int
	Options generator.Options
}

func newGenerateCommand(a *app) *cobra.Command {
	var (
		count          int
		startDate      string
		initialBalance string
		currency       string
		seed           uint64
		outDir         string
		preview        int
	)

	cmd := &cobra.Command{
		Use:   "generate [file...]",
		Short: "Generate synthetic chequing transactions as JSON or CSV",
		Long: "Generate synthetic chequing transactions. Each file gets its own dataset; the format\n" +
			"follows the extension (.json or .csv). Without arguments the configured datasets are written.",
		RunE: func(cmd *cobra.Command, args []string) error {
			gc := a.cfg.Generate
			flags := cmd.Flags()
			if flags.Changed("count") {
				gc.Count = count
			}
			if flags.Changed("start-date") {
				gc.StartDate = startDate
			}
			if flags.Changed("initial-balance") {
				gc.InitialBalance = initialBalance
			}
			if flags.Changed("currency") {
				gc.Currency = currency
			}
			if flags.Changed("seed") {
				gc.Seed = seed
			}
			if flags.Changed("out-dir") {
				gc.OutputDir = outDir
			}
			if flags.Changed("preview") {
				gc.Preview = preview
			}
			if len(args) > 0 {
				gc.Datasets = args
			}

			params, err := buildGenerateParams(gc, time.Now())
			if err != nil {
				return err
			}
			return runGenerate(cmd.Context(), cmd.OutOrStdout(), params)
		},
	}

	cmd.Flags().IntVar(&count, "count", 0, "transactions per dataset")
	cmd.Flags().StringVar(&startDate, "start-date", "", "first transaction date (YYYY-MM-DD); empty means 90 days ago")
	cmd.Flags().StringVar(&initialBalance, "initial-balance", "", "opening balance")
	cmd.Flags().StringVar(&currency, "currency", "", "currency: CAD or USD")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed; 0 picks one")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "directory for relative output files")
	cmd.Flags().IntVar(&preview, "preview", 0, "rows of the first dataset to print")

	return cmd
}

func buildGenerateParams(gc config.GenerateConfig, now time.Time) (generateParams, error) {
	if len(gc.Datasets) == 0 {
		return generateParams{}, fmt.Errorf("no datasets to generate")
	}
	for _, f := range gc.Datasets {
		if _, err := dataset.FormatFromPath(f); err != nil {
			return generateParams{}, err
		}
	}

	ccy := model.Currency(gc.Currency)
	if !ccy.Valid() {
		return generateParams{}, fmt.Errorf("unsupported currency %q (want CAD or USD)", gc.Currency)
	}

	balance := decimal.Zero
	if gc.InitialBalance != "" {
		var err error
		balance, err = decimal.NewFromString(gc.InitialBalance)
		if err != nil {
			return generateParams{}, fmt.Errorf("parsing initial balance %q: %w", gc.InitialBalance, err)
		}
	}

	var start time.Time
	if gc.StartDate != "" {
		var err error
		start, err = time.Parse("2006-01-02", gc.StartDate)
		if err != nil {
			return generateParams{}, fmt.Errorf("parsing start date %q: %w", gc.StartDate, err)
		}
	}

	seed := gc.Seed
	if seed == 0 {
		seed = uint64(now.UnixNano())
	}

	return generateParams{
		Files:   gc.Datasets,
		OutDir:  gc.OutputDir,
		Seed:    seed,
		Preview: gc.Preview,
		Options: generator.Options{
			Count:          gc.Count,
			StartDate:      start,
			InitialBalance: balance.Round(2),
			Currency:       ccy,
		},
	}, nil
}

func runGenerate(ctx context.Context, out io.Writer, p generateParams) error {
	log := logger.FromContext(ctx)
	gen := generator.New(generator.NewSource(p.Seed))

	if p.OutDir != "" {
		if err := os.MkdirAll(p.OutDir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}

	var first []model.Transaction
	var firstPath string
	for i, name := range p.Files {
		path := name
		if !filepath.IsAbs(path) && p.OutDir != "" {
			path = filepath.Join(p.OutDir, name)
		}

		txns := gen.Generate(p.Options)
		if i == 0 {
			first, firstPath = txns, path
		}

		written, err := dataset.Save(path, txns)
		if err != nil {
			return err
		}
		if !written {
			log.Warn().Str("file", path).Msg("empty dataset, nothing written")
			continue
		}
		log.Debug().Str("file", path).Int("count", len(txns)).Msg("dataset exported")
		fmt.Fprintf(out, "Exported %d transactions to %s\n", len(txns), path)
	}

	fmt.Fprintf(out, "Seed used: %d\n", p.Seed)

	if p.Preview > 0 && len(first) > 0 {
		fmt.Fprintf(out, "\nSample transactions from %s:\n", firstPath)
		for _, t := range first[:min(p.Preview, len(first))] {
			fmt.Fprintf(out, "  %s | %-6s | %-30s | %8s | Balance: %10s %s\n",
				t.Date.Format("2006-01-02"), t.Type, t.Description,
				t.Amount.StringFixed(2), t.Balance.StringFixed(2), t.Currency)
		}
	}
	return nil
}
