package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/thriftly/internal/common"
	"github.com/Veraticus/thriftly/internal/config"
	"github.com/Veraticus/thriftly/internal/entity"
	"github.com/Veraticus/thriftly/internal/model"
	"github.com/Veraticus/thriftly/internal/persist"
	"github.com/Veraticus/thriftly/internal/storage"
	"github.com/Veraticus/thriftly/internal/store"
	"github.com/Veraticus/thriftly/internal/view"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const dateLayout = "2006-01-02"

// app bundles what every command needs: the validated config and a loaded
// store.
type app struct {
	cfg   config.Config
	store *store.Store
	close func() error
}

func (a *app) Close() error {
	if a.close == nil {
		return nil
	}
	return a.close()
}

// openApp loads configuration, opens the configured storage backend and
// waits for both collections to load.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, common.NewUserError("invalid configuration", err)
	}

	slot, closeSlot, err := openSlot(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	s := store.New(slot, entity.UUIDGenerator{}, persist.WithLogger(slog.Default()))
	if err := s.Load(ctx); err != nil {
		_ = closeSlot()
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	return &app{cfg: cfg, store: s, close: closeSlot}, nil
}

func openSlot(ctx context.Context, cfg config.StorageConfig) (storage.Slot, func() error, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		slog.Debug("using in-memory storage, changes will not survive this run")
		mem := storage.NewMemoryStorage()
		return mem, mem.Close, nil

	default:
		db, err := storage.NewSQLiteStorage(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		slog.Debug("opened database", "path", db.Path())
		return db, db.Close, nil
	}
}

// findCategory resolves ref as a category id first, then as a name compared
// case-insensitively.
func findCategory(categories []model.Category, ref string) (model.Category, error) {
	ref = strings.TrimSpace(ref)
	for _, c := range categories {
		if c.ID == ref {
			return c, nil
		}
	}
	for _, c := range categories {
		if strings.EqualFold(strings.TrimSpace(c.Name), ref) {
			return c, nil
		}
	}
	return model.Category{}, common.NewUserError(
		fmt.Sprintf("category %q does not exist", ref),
		common.ErrNotFound)
}

// filterFlags are the --category and --tag flags shared by read commands.
type filterFlags struct {
	categories []string
	tags       []string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.categories, "category", nil, "only show this category, by name or id (repeatable)")
	cmd.Flags().StringSliceVar(&f.tags, "tag", nil, "only show transactions with this tag (repeatable)")
}

// resolve turns the flag values into filters over category ids. Unknown
// category names are an error; unknown ids are kept so dangling references
// can still be selected.
func (f *filterFlags) resolve(categories []model.Category) (model.TransactionFilters, error) {
	var filters model.TransactionFilters

	ids := make([]string, 0, len(f.categories))
	for _, ref := range f.categories {
		c, err := findCategory(categories, ref)
		if err != nil {
			if !looksLikeID(ref) {
				return filters, err
			}
			ids = append(ids, ref)
			continue
		}
		ids = append(ids, c.ID)
	}

	filters = filters.WithCategories(ids...).WithTags(model.NormalizeTags(f.tags)...)
	return filters, nil
}

// normalizeFilters drops a dimension whose selection covers every option,
// since it would filter nothing.
func normalizeFilters(all []model.Transaction, filters model.TransactionFilters) model.TransactionFilters {
	categories := view.NormalizeSelection(filters.Categories, view.CategoryFacets(all, filters))
	tags := view.NormalizeSelection(filters.Tags, view.TagFacets(all, filters))
	return filters.WithCategories(categories...).WithTags(tags...)
}

func looksLikeID(ref string) bool {
	return len(ref) == 36 && strings.Count(ref, "-") == 4
}

// parseDate reads a YYYY-MM-DD date as noon local time, or returns now when
// value is empty.
func parseDate(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return now, nil
	}
	d, err := time.ParseInLocation(dateLayout, value, now.Location())
	if err != nil {
		return time.Time{}, common.NewUserError(
			fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", value),
			errors.Join(common.ErrInvalidInput, err))
	}
	return d.Add(12 * time.Hour), nil
}

// invalidInput wraps a validation failure for display.
func invalidInput(err error) error {
	return common.NewUserError(err.Error(), errors.Join(common.ErrInvalidInput, err))
}
