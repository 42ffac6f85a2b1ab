package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vietddude/crosspay/internal/control"
	"github.com/vietddude/crosspay/internal/core/send"
)

func newSendCmd(opts *options) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "send <address> <amount>",
		Short: "Simulate a payment to an address",
		Long: `Classify the recipient against the trust registry and record a simulated
payment. Destinations in category C or D, including unknown addresses, need
an explicit confirmation.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := send.ParseAmount(args[1])
			if err != nil {
				return err
			}
			return opts.withApp(cmd, func(ctx context.Context, app *control.App) error {
				w := out(cmd)

				var confirmer send.Confirmer = newPromptConfirmer(opts.input(cmd), w)
				if yes {
					confirmer = send.ConfirmFunc(func(ctx context.Context, q send.Quote) (bool, error) {
						printWarning(w, q)
						return true, nil
					})
				}

				q, err := app.Flow.Prepare(ctx, args[0], amount)
				if err != nil {
					return err
				}
				printAnalysis(w, q.Classification)

				tx, err := app.Flow.SendQuote(ctx, q, confirmer)
				switch {
				case errors.Is(err, send.ErrCancelled):
					_, _ = fmt.Fprintln(w, "Payment cancelled.")
					return nil
				case errors.Is(err, send.ErrTransactionFailed):
					_, _ = fmt.Fprintln(w, "Transaction failed. Please try again.")
					return err
				case err != nil:
					return err
				}
				printSent(w, tx)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm risky payments without prompting")
	return cmd
}

func newLookupCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <address>",
		Short: "Show the trust category of an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *control.App) error {
				c, err := app.Classifier.Classify(ctx, args[0])
				if err != nil {
					return err
				}
				printAnalysis(out(cmd), c)
				return nil
			})
		},
	}
}

func newHistoryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List recorded payments, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *control.App) error {
				printTransactions(out(cmd), app.TxLog.List(ctx))
				return nil
			})
		},
	}
}

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Describe the trust categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printCategories(out(cmd))
			return nil
		},
	}
}
