package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/thriftly/internal/cli"
	"github.com/Veraticus/thriftly/internal/common"
	"github.com/Veraticus/thriftly/internal/model"
	"github.com/Veraticus/thriftly/internal/ofx"
	"github.com/Veraticus/thriftly/internal/pattern"
	"github.com/spf13/cobra"
)

type importOptions struct {
	category       string
	tags           []string
	createCategory bool
	typeTags       bool
	payeeTags      bool
	dryRun         bool
	noRules        bool
}

func importOFXCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import transactions from OFX or QFX (Quicken) files exported from your bank.
Every imported transaction is filed under --category. Lines that match an
existing transaction's date, amount and category are skipped, so the same
statement can be imported twice safely.

Examples:
  # Import a single file
  thriftly import-ofx --category Card ~/Downloads/chase_jan_2024.qfx

  # Import every statement in a directory, tagging lines by payee
  thriftly import-ofx --category Card --payee-tags ~/Downloads/*.qfx

Lines matching a rule under import.rules in the config file are filed under
the rule's category instead:

  import:
    rules:
      - payee: "starbucks|blue bottle"
        regex: true
        category: Dining
        tags: [coffee]`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportOFX(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.category, "category", "c", "", "category name or id for imported transactions")
	cmd.Flags().StringSliceVarP(&opts.tags, "tag", "t", nil, "tag added to every imported transaction (repeatable)")
	cmd.Flags().BoolVar(&opts.createCategory, "create-category", false, "create the category if it does not exist")
	cmd.Flags().BoolVar(&opts.typeTags, "type-tags", false, "tag transactions with their OFX type, e.g. debit")
	cmd.Flags().BoolVar(&opts.payeeTags, "payee-tags", false, "tag transactions with their payee")
	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "d", false, "preview import without saving")
	cmd.Flags().BoolVar(&opts.noRules, "no-rules", false, "ignore the import rules from the config file")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string, opts importOptions) error {
	files, err := expandFiles(args)
	if err != nil {
		return err
	}

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Nothing was imported.")
	ctx, stop := handler.HandleInterrupts(cmd.Context())
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	category, err := ensureCategory(a, opts.category, opts)
	if err != nil {
		return err
	}

	slog.Info("Importing OFX files",
		"file_count", len(files),
		"category", category.Name,
		"dry_run", opts.dryRun)

	parser := ofx.NewParser(ofx.Options{
		Category:  category.ID,
		Tags:      model.NormalizeTags(opts.tags),
		TypeTags:  opts.typeTags,
		PayeeTags: opts.payeeTags,
	})

	var (
		entries []ofx.Entry
		failed  int
	)
	bar := cli.NewProgressBar(cmd.ErrOrStderr(), len(files), "Parsing statements")
	for _, path := range files {
		if ctx.Err() != nil {
			break
		}

		parsed, err := parseStatement(ctx, parser, path)
		if err != nil {
			slog.Error("Failed to parse OFX file", "file", path, "error", err)
			failed++
		} else {
			slog.Debug("Parsed file", "file", filepath.Base(path), "transactions", len(parsed))
			entries = append(entries, parsed...)
		}
		_ = bar.Add(1)
	}

	if handler.WasInterrupted() {
		return common.NewUserError("import interrupted", context.Canceled)
	}
	if failed == len(files) {
		return common.NewUserError("no file could be parsed", common.ErrInvalidInput)
	}

	if !opts.noRules {
		matched, err := applyImportRules(a, entries, opts)
		if err != nil {
			return err
		}
		slog.Debug("Applied import rules", "rules", len(a.cfg.Import.Rules), "matched", matched)
	}

	valid, invalid := ofx.SkipInvalid(entries)
	fresh, skipped := ofx.SkipExisting(a.store.Transactions.All(), valid)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n%s %d transactions found, %d already imported, %d new\n",
		cli.InfoIcon, len(entries), skipped, len(fresh))
	if invalid > 0 {
		fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("Skipped %d invalid transactions", invalid)))
	}

	if opts.dryRun {
		fmt.Fprintln(out, cli.FormatInfo("Dry run complete, no data saved"))
		return nil
	}
	if len(fresh) == 0 {
		return nil
	}

	created, err := a.store.Transactions.CreateMany(ofx.Inputs(fresh))
	if err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}

	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d transactions into %s", len(created), category.Name)))
	return nil
}

// expandFiles expands glob patterns, keeping plain paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, glob := range patterns {
		matches, err := filepath.Glob(glob)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", glob, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(glob); err == nil {
				files = append(files, glob)
			} else {
				slog.Warn("No files found matching pattern", "pattern", glob)
			}
			continue
		}
		files = append(files, matches...)
	}

	if len(files) == 0 {
		return nil, common.NewUserError("no files found to import", common.ErrNotFound)
	}
	return files, nil
}

// dryRunCategoryID prefixes the id of a category a dry run would create, so
// its lines still validate without touching the store.
const dryRunCategoryID = "dry-run:"

// ensureCategory finds ref, creating it when --create-category is set.
// Dry runs get an unsaved category with a placeholder id instead.
func ensureCategory(a *app, ref string, opts importOptions) (model.Category, error) {
	categories := a.store.Categories.All()
	category, err := findCategory(categories, ref)
	if err == nil || !opts.createCategory || !errors.Is(err, common.ErrNotFound) {
		return category, err
	}

	input := model.CategoryInput{Name: strings.TrimSpace(ref), Icon: defaultCategoryIcon, Color: defaultCategoryColor}
	if err := model.ValidateCategoryInput(input, categories, ""); err != nil {
		return model.Category{}, invalidInput(err)
	}
	if opts.dryRun {
		return input.WithID(dryRunCategoryID + input.Name), nil
	}
	category, err = a.store.Categories.Create(input)
	if err != nil {
		return model.Category{}, fmt.Errorf("failed to create category: %w", err)
	}
	slog.Info("Created category", "name", category.Name, "id", category.ID)
	return category, nil
}

// applyImportRules files entries matched by a configured rule under the
// rule's category.
func applyImportRules(a *app, entries []ofx.Entry, opts importOptions) (int, error) {
	if len(a.cfg.Import.Rules) == 0 {
		return 0, nil
	}
	matcher, err := pattern.NewMatcher(a.cfg.Import.Rules)
	if err != nil {
		return 0, common.NewUserError("invalid import rule", errors.Join(common.ErrInvalidConfig, err))
	}

	resolved := make(map[string]string)
	return ofx.ApplyRules(entries, matcher, func(rule pattern.Rule) (string, error) {
		if id, ok := resolved[rule.Category]; ok {
			return id, nil
		}
		c, err := ensureCategory(a, rule.Category, opts)
		if err != nil {
			return "", err
		}
		resolved[rule.Category] = c.ID
		return c.ID, nil
	})
}

func parseStatement(ctx context.Context, parser *ofx.Parser, path string) ([]ofx.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return parser.ParseFile(ctx, f)
}
