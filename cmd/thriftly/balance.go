package main

import (
	"fmt"
	"time"

	"github.com/Veraticus/thriftly/internal/cli"
	"github.com/Veraticus/thriftly/internal/view"
	"github.com/spf13/cobra"
)

func balanceCmd() *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show balance, income and expense",
		Long: `Show the balance of the selected transactions split into income and
expense, followed by the monthly trend of the last six months with
activity. The current month is highlighted when it has transactions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			current, err := filters.resolve(a.store.Categories.All())
			if err != nil {
				return err
			}
			current = normalizeFilters(a.store.Transactions.All(), current)
			txns := a.store.Transactions.Filter(current)

			out := cmd.OutOrStdout()
			if err := cli.RenderBalance(out, view.Split(txns)); err != nil {
				return err
			}
			fmt.Fprintln(out)
			return cli.RenderTrend(out, view.MonthlySeries(txns, time.Now()))
		},
	}

	filters.register(cmd)

	return cmd
}
