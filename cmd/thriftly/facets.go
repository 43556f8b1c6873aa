package main

import (
	"github.com/Veraticus/thriftly/internal/cli"
	"github.com/Veraticus/thriftly/internal/view"
	"github.com/spf13/cobra"
)

func facetsCmd() *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "facets",
		Short: "Count transactions per category and tag",
		Long: `Show how many transactions each category and tag would select given the
other active filter. Options are ordered by count, largest first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			all := a.store.Transactions.All()
			current = normalizeFilters(all, current)
			categoryOptions := view.CategoryFacets(all, current)
			tagOptions := view.TagFacets(all, current)

			return cli.RenderFacets(cmd.OutOrStdout(), categoryOptions, tagOptions, categories)
		},
	}

	filters.register(cmd)

	return cmd
}
