package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/txnkit/internal/dataset"
	"github.com/cleared-dev/txnkit/internal/logger"
	"github.com/cleared-dev/txnkit/internal/verify"
)

func newVerifyCommand() *cobra.Command {
	var initialBalance string

	cmd := &cobra.Command{
		Use:   "verify <file...>",
		Short: "Check generated datasets for balance and ordering problems",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts verify.Options
			if initialBalance != "" {
				d, err := decimal.NewFromString(initialBalance)
				if err != nil {
					return fmt.Errorf("parsing initial balance %q: %w", initialBalance, err)
				}
				opts.OpeningBalance = decimal.NewNullDecimal(d)
			}
			return runVerify(cmd.Context(), cmd.OutOrStdout(), args, opts)
		},
	}

	cmd.Flags().StringVar(&initialBalance, "initial-balance", "", "opening balance; enables the first-row balance check")

	return cmd
}

func runVerify(ctx context.Context, out io.Writer, files []string, opts verify.Options) error {
	log := logger.FromContext(ctx)

	problems := 0
	for _, file := range files {
		txns, err := dataset.Load(file)
		if err != nil {
			return err
		}

		errs := verify.Transactions(txns, opts)
		for _, e := range errs {
			fmt.Fprintf(out, "%s: %s\n", file, e.Error())
		}
		log.Debug().Str("file", file).Int("transactions", len(txns)).Int("problems", len(errs)).Msg("verified")
		fmt.Fprintf(out, "%s: %d transactions, %d problems\n", file, len(txns), len(errs))
		problems += len(errs)
	}

	if problems > 0 {
		return fmt.Errorf("%d problems found", problems)
	}
	return nil
}
