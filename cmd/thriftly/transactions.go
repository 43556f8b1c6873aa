package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/thriftly/internal/cli"
	"github.com/Veraticus/thriftly/internal/common"
	"github.com/Veraticus/thriftly/internal/model"
	"github.com/spf13/cobra"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"txn"},
		Short:   "Manage transactions",
		Long: `Add, update, and delete transactions. Positive amounts are income,
negative amounts are expenses.`,
	}

	cmd.AddCommand(addTransactionCmd())
	cmd.AddCommand(updateTransactionCmd())
	cmd.AddCommand(deleteTransactionCmd())

	return cmd
}

func addTransactionCmd() *cobra.Command {
	var (
		amount   float64
		category string
		date     string
		tags     []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Example: `  thriftly transactions add --amount -12.50 --category Food --tag lunch
  thriftly transactions add --amount 2400 --category Salary --date 2024-06-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			c, err := findCategory(a.store.Categories.All(), category)
			if err != nil {
				return err
			}
			when, err := parseDate(date, time.Now())
			if err != nil {
				return err
			}

			input := model.TransactionInput{
				Category:  c.ID,
				Tags:      model.NormalizeTags(tags),
				Amount:    amount,
				Timestamp: model.Timestamp(when),
			}
			if err := model.ValidateTransactionInput(input); err != nil {
				return invalidInput(err)
			}

			txn, err := a.store.Transactions.Create(input)
			if err != nil {
				return fmt.Errorf("failed to create transaction: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Recorded %s in %s (%s)",
				cli.FormatAmount(txn.Amount), c.Name, txn.ID)))
			return nil
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "signed amount, negative for expenses")
	cmd.Flags().StringVar(&category, "category", "", "category name or id")
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default: now)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag (repeatable)")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func updateTransactionCmd() *cobra.Command {
	var (
		amount   float64
		category string
		date     string
		tags     []string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a transaction",
		Long:  `Change the amount, category, date or tags of a transaction. Passing --tag replaces all tags.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			txn, ok := a.store.Transactions.Find(args[0])
			if !ok {
				return common.NewUserError(fmt.Sprintf("transaction %q does not exist", args[0]), common.ErrNotFound)
			}

			flags := cmd.Flags()
			input := txn.Input()
			if flags.Changed("amount") {
				input.Amount = amount
			}
			if flags.Changed("category") {
				c, err := findCategory(a.store.Categories.All(), category)
				if err != nil {
					return err
				}
				input.Category = c.ID
			}
			if flags.Changed("date") {
				when, err := parseDate(date, time.Now())
				if err != nil {
					return err
				}
				input.Timestamp = model.Timestamp(when)
			}
			if flags.Changed("tag") {
				input.Tags = model.NormalizeTags(tags)
			}
			if err := model.ValidateTransactionInput(input); err != nil {
				return invalidInput(err)
			}

			a.store.Transactions.Update(input.WithID(txn.ID))
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Updated transaction "+txn.ID))
			return nil
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "signed amount, negative for expenses")
	cmd.Flags().StringVar(&category, "category", "", "category name or id")
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag (repeatable)")

	return cmd
}

func deleteTransactionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete transactions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			var missing []error
			for _, id := range args {
				if _, ok := a.store.Transactions.Find(id); !ok {
					missing = append(missing, fmt.Errorf("transaction %q: %w", id, common.ErrNotFound))
					continue
				}
				a.store.Transactions.Delete(id)
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted transaction "+id))
			}
			if len(missing) > 0 {
				return common.NewUserError(fmt.Sprintf("%d of %d transactions not found", len(missing), len(args)), errors.Join(missing...))
			}
			return nil
		},
	}
}
