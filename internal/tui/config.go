package tui

import (
	"time"

	"github.com/Veraticus/thriftly/internal/model"
	"github.com/Veraticus/thriftly/internal/tui/themes"
	"github.com/Veraticus/thriftly/internal/view"
)

// Config holds TUI configuration.
type Config struct {
	Theme    themes.Theme
	Location *time.Location
	Now      func() time.Time
	Filters  model.TransactionFilters
	PageSize int
	Width    int
	Height   int
	ShowHelp bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:    themes.Default,
		Location: time.Local,
		Now:      time.Now,
		PageSize: view.PageSize,
		Width:    80,
		Height:   24,
	}
}

// WithTheme sets the color scheme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithLocation sets the time zone used for day and month boundaries.
func WithLocation(loc *time.Location) Option {
	return func(c *Config) {
		if loc != nil {
			c.Location = loc
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		if now != nil {
			c.Now = now
		}
	}
}

// WithPageSize sets how many transactions each feed page reveals.
func WithPageSize(size int) Option {
	return func(c *Config) {
		if size > 0 {
			c.PageSize = size
		}
	}
}

// WithFilters sets the filters applied when the browser opens.
func WithFilters(filters model.TransactionFilters) Option {
	return func(c *Config) {
		c.Filters = filters
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}
