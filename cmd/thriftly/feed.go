package main

import (
	"errors"
	"time"

	"github.com/Veraticus/thriftly/internal/cli"
	"github.com/Veraticus/thriftly/internal/view"
	"github.com/spf13/cobra"
)

func feedCmd() *cobra.Command {
	var (
		filters filterFlags
		pages   int
	)

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Show recent transactions grouped by day",
		Long: `Show the most recent transactions grouped by day, newest first, with
each day's income and expense subtotals. Each page adds the next batch of
older transactions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if pages < 1 {
				return invalidInput(errors.New("--pages must be at least 1"))
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			categories := a.store.Categories.All()
			current, err := filters.resolve(categories)
			if err != nil {
				return err
			}
			current = normalizeFilters(a.store.Transactions.All(), current)

			now := time.Now()
			feed := view.NewFeed(a.store.Transactions.Filter(current), now.Location(),
				view.WithPageSize(a.cfg.Feed.PageSize))
			for feed.Pages() < pages {
				if !feed.LoadMore() {
					break
				}
			}

			return cli.RenderFeed(cmd.OutOrStdout(), feed.Groups(), categories, now, feed.HasMore())
		},
	}

	filters.register(cmd)
	cmd.Flags().IntVarP(&pages, "pages", "p", 1, "number of pages to show")

	return cmd
}
