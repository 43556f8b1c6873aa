package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/thriftly/internal/cli"
	"github.com/Veraticus/thriftly/internal/model"
	"github.com/spf13/cobra"
)

const (
	defaultCategoryIcon  = "wallet"
	defaultCategoryColor = "blue"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage categories",
		Long:  `List, add, update, and delete the categories transactions are filed under.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(updateCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			return cli.RenderCategories(cmd.OutOrStdout(), a.store.Categories.All())
		},
	}
}

func addCategoryCmd() *cobra.Command {
	var icon, color string

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a new category",
		Long: `Add a new category. Names must be unique, ignoring case and surrounding
spaces. When the name is omitted it is read from standard input.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			var name string
			if len(args) == 1 {
				name = args[0]
			} else {
				reader := cli.NewLineReader(cmd.InOrStdin(), cmd.OutOrStdout())
				if name, err = reader.Ask(ctx, "Category name", ""); err != nil {
					return fmt.Errorf("failed to read category name: %w", err)
				}
			}

			input := model.CategoryInput{
				Name:  strings.TrimSpace(name),
				Icon:  strings.TrimSpace(icon),
				Color: strings.TrimSpace(color),
			}
			if err := model.ValidateCategoryInput(input, a.store.Categories.All(), ""); err != nil {
				return invalidInput(err)
			}

			category, err := a.store.Categories.Create(input)
			if err != nil {
				return fmt.Errorf("failed to create category: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created category %q (%s)", category.Name, category.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&icon, "icon", defaultCategoryIcon, "icon name, e.g. utensils or car")
	cmd.Flags().StringVar(&color, "color", defaultCategoryColor, "color name, e.g. green or rose")

	return cmd
}

func updateCategoryCmd() *cobra.Command {
	var name, icon, color string

	cmd := &cobra.Command{
		Use:   "update <category>",
		Short: "Update a category",
		Long:  `Update the name, icon or color of a category given by name or id.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			categories := a.store.Categories.All()
			category, err := findCategory(categories, args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if !flags.Changed("name") && !flags.Changed("icon") && !flags.Changed("color") {
				return invalidInput(errors.New("nothing to update, pass --name, --icon or --color"))
			}

			input := category.Input()
			if flags.Changed("name") {
				input.Name = strings.TrimSpace(name)
			}
			if flags.Changed("icon") {
				input.Icon = strings.TrimSpace(icon)
			}
			if flags.Changed("color") {
				input.Color = strings.TrimSpace(color)
			}
			if err := model.ValidateCategoryInput(input, categories, category.ID); err != nil {
				return invalidInput(err)
			}

			a.store.Categories.Update(input.WithID(category.ID))
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Updated category %q", input.Name)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&icon, "icon", "", "new icon name")
	cmd.Flags().StringVar(&color, "color", "", "new color name")

	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <category>",
		Short: "Delete a category",
		Long: `Delete a category given by name or id. Transactions filed under it are
kept and shown as Unknown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			category, err := findCategory(a.store.Categories.All(), args[0])
			if err != nil {
				return err
			}

			used := len(a.store.Transactions.Filter(model.TransactionFilters{}.WithCategories(category.ID)))

			if !yes {
				question := fmt.Sprintf("Delete category %q?", category.Name)
				if used > 0 {
					question = fmt.Sprintf("Delete category %q? %d transactions will show as %s.", category.Name, used, model.UnknownCategoryName)
				}
				reader := cli.NewLineReader(cmd.InOrStdin(), cmd.OutOrStdout())
				ok, err := reader.Confirm(ctx, question)
				if err != nil {
					return fmt.Errorf("failed to read confirmation: %w", err)
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Deletion canceled"))
					return nil
				}
			}

			a.store.Categories.Delete(category.ID)
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted category %q", category.Name)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}
