package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/thriftly/internal/model"
	"github.com/Veraticus/thriftly/internal/store"
	tea "github.com/charmbracelet/bubbletea"
)

// Run opens the feed browser over s and blocks until the user quits or ctx
// is canceled.
func Run(ctx context.Context, s *store.Store, opts ...Option) error {
	if s == nil {
		return errors.New("store is required")
	}

	changes, stop := Subscribe(s)
	defer stop()

	p := tea.NewProgram(New(s, changes, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("feed browser failed: %w", err)
	}
	return nil
}

// Subscribe turns store notifications into a channel carrying at most one
// pending signal. Bursts of changes collapse into a single recompute.
func Subscribe(s *store.Store) (<-chan struct{}, func()) {
	changes := make(chan struct{}, 1)
	notify := func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}

	stopCategories := s.Categories.Subscribe(func([]model.Category) { notify() })
	stopTransactions := s.Transactions.Subscribe(func([]model.Transaction) { notify() })

	return changes, func() {
		stopCategories()
		stopTransactions()
	}
}
