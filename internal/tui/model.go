// Package tui implements the interactive feed browser.
package tui

import (
	"fmt"

	"github.com/Veraticus/thriftly/internal/cli"
	"github.com/Veraticus/thriftly/internal/model"
	"github.com/Veraticus/thriftly/internal/store"
	"github.com/Veraticus/thriftly/internal/tui/themes"
	"github.com/Veraticus/thriftly/internal/view"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Model holds the browser state. Views are recomputed from the store after
// every change signal, never cached across them.
type Model struct {
	theme      themes.Theme
	store      *store.Store
	feed       *view.Feed
	changes    <-chan struct{}
	config     Config
	keymap     KeyMap
	help       help.Model
	categories []model.Category
	filters    model.TransactionFilters
	series     view.Series
	status     string
	totals     view.Totals
	cursor     int
	width      int
	height     int
	showTrend  bool
	quitting   bool
}

// New creates a browser over s. changes delivers a value whenever s changes;
// it may be nil when nothing else mutates the store.
func New(s *store.Store, changes <-chan struct{}, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	h := help.New()
	h.ShowAll = cfg.ShowHelp
	h.Width = cfg.Width

	m := Model{
		theme:   cfg.Theme,
		store:   s,
		changes: changes,
		config:  cfg,
		keymap:  DefaultKeyMap(),
		help:    h,
		filters: cfg.Filters,
		width:   cfg.Width,
		height:  cfg.Height,
		feed:    view.NewFeed(nil, cfg.Location, view.WithPageSize(cfg.PageSize)),
	}
	m.recompute()
	return m
}

// Init starts listening for store changes.
func (m Model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case storeChangedMsg:
		m.recompute()
		return m, waitForChange(m.changes)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit), key.Matches(msg, m.keymap.ForceQuit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keymap.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keymap.PageUp):
		m.moveCursor(-m.listHeight())
	case key.Matches(msg, m.keymap.PageDown):
		m.moveCursor(m.listHeight())
	case key.Matches(msg, m.keymap.Home):
		m.cursor = 0
	case key.Matches(msg, m.keymap.End):
		m.moveCursor(len(m.feed.Visible()))

	case key.Matches(msg, m.keymap.Delete):
		m.deleteSelected()

	case key.Matches(msg, m.keymap.NextCategory):
		all := m.store.Transactions.All()
		m.setFilters(m.filters.WithCategories(nextValue(m.filters.Categories, view.CategoryFacets(all, m.filters))...))
	case key.Matches(msg, m.keymap.NextTag):
		all := m.store.Transactions.All()
		m.setFilters(m.filters.WithTags(nextValue(m.filters.Tags, view.TagFacets(all, m.filters))...))
	case key.Matches(msg, m.keymap.ClearFilters):
		m.setFilters(model.TransactionFilters{})

	case key.Matches(msg, m.keymap.ToggleTrend):
		m.showTrend = !m.showTrend
	case key.Matches(msg, m.keymap.ToggleHelp):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

// recompute rebuilds every derived view from the store's current state.
func (m *Model) recompute() {
	m.categories = m.store.Categories.All()
	filtered := m.store.Transactions.Filter(m.filters)

	m.feed.SetTransactions(filtered)
	m.totals = view.Split(filtered)
	m.series = view.MonthlySeries(filtered, m.config.Now().In(m.config.Location))
	m.clampCursor()
}

// moveCursor moves the selection. Landing on the last revealed row reveals
// the next page.
func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()

	if n := len(m.feed.Visible()); n > 0 && m.cursor == n-1 && m.feed.LoadMore() {
		m.status = fmt.Sprintf("Loaded page %d", m.feed.Pages())
	}
}

func (m *Model) clampCursor() {
	n := len(m.feed.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) setFilters(filters model.TransactionFilters) {
	m.filters = filters
	m.feed = view.NewFeed(nil, m.config.Location, view.WithPageSize(m.config.PageSize))
	m.cursor = 0
	m.status = ""
	m.recompute()
}

func (m *Model) deleteSelected() {
	visible := m.feed.Visible()
	if len(visible) == 0 {
		return
	}
	txn := visible[m.cursor]
	m.store.Transactions.Delete(txn.ID)
	m.status = "Deleted transaction of " + cli.FormatAmount(txn.Amount)
	m.recompute()
}

// Selected returns the highlighted transaction.
func (m Model) Selected() (model.Transaction, bool) {
	visible := m.feed.Visible()
	if len(visible) == 0 {
		return model.Transaction{}, false
	}
	return visible[m.cursor], true
}

// Filters returns the active filters.
func (m Model) Filters() model.TransactionFilters {
	return m.filters
}

// Feed returns the paginated feed being shown.
func (m Model) Feed() *view.Feed {
	return m.feed
}

// nextValue cycles a single-value selection through the options that would
// show at least one transaction, then back to no selection.
func nextValue(current []string, options []view.FacetOption) []string {
	var values []string
	for _, opt := range options {
		if !opt.All && opt.Count > 0 {
			values = append(values, opt.Value)
		}
	}
	if len(values) == 0 {
		return nil
	}
	if len(current) != 1 {
		return []string{values[0]}
	}
	for i, v := range values {
		if v == current[0] {
			if i+1 < len(values) {
				return []string{values[i+1]}
			}
			return nil
		}
	}
	return []string{values[0]}
}
