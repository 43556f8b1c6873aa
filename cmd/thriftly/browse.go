package main

import (
	"time"

	"github.com/Veraticus/thriftly/internal/tui"
	"github.com/Veraticus/thriftly/internal/tui/themes"
	"github.com/spf13/cobra"
)

func browseCmd() *cobra.Command {
	var (
		filters filterFlags
		theme   string
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse transactions interactively",
		Long: `Open an interactive feed of transactions. Scrolling to the bottom loads
older transactions; c and t cycle the category and tag filters, m shows the
monthly trend and d deletes the selected transaction.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			current, err := filters.resolve(a.store.Categories.All())
			if err != nil {
				return err
			}
			current = normalizeFilters(a.store.Transactions.All(), current)

			return tui.Run(ctx, a.store,
				tui.WithTheme(themes.GetTheme(theme)),
				tui.WithLocation(time.Local),
				tui.WithPageSize(a.cfg.Feed.PageSize),
				tui.WithFilters(current))
		},
	}

	filters.register(cmd)
	cmd.Flags().StringVar(&theme, "theme", "default", "color theme (default, catppuccin-mocha)")

	return cmd
}
