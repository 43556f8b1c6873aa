package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/thriftly/internal/cli"
	"github.com/Veraticus/thriftly/internal/model"
	"github.com/Veraticus/thriftly/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
)

const minListHeight = 3

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.renderHeader()}
	if m.showTrend {
		sections = append(sections, m.renderTrend())
	}
	sections = append(sections, m.renderList(), m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	balanceStyle := m.theme.Expense
	if m.totals.Positive() {
		balanceStyle = m.theme.Income
	}

	title := m.theme.Title.Render("thriftly")
	summary := fmt.Sprintf("Balance %s   Income %s   Expense %s",
		balanceStyle.Render(cli.FormatAmount(m.totals.Balance)),
		m.theme.Income.Render(cli.FormatAmount(m.totals.Income)),
		m.theme.Expense.Render(cli.FormatAmount(m.totals.Expense)))

	return lipgloss.JoinVertical(lipgloss.Left, title, summary, m.renderFilters())
}

func (m Model) renderFilters() string {
	if m.filters.IsEmpty() {
		return m.theme.Muted.Render("No filters")
	}

	var parts []string
	for _, id := range m.filters.Categories {
		c, _ := model.ResolveCategory(m.categories, id)
		parts = append(parts, "category: "+c.Name)
	}
	if len(m.filters.Tags) > 0 {
		parts = append(parts, "tags: "+cli.FormatTags(m.filters.Tags))
	}
	return m.theme.Muted.Render(strings.Join(parts, " · "))
}

func (m Model) renderTrend() string {
	if len(m.series.Points) == 0 {
		return m.theme.Muted.Render("No monthly data")
	}

	var peak float64
	for _, p := range m.series.Points {
		peak = max(peak, p.Income, p.Expense)
	}

	lines := make([]string, 0, len(m.series.Points))
	for i, p := range m.series.Points {
		label := p.Date.Format("Jan 06")
		if i == m.series.Active {
			label = m.theme.Active.Render(label)
		}
		lines = append(lines, fmt.Sprintf("%s %s %s",
			label,
			m.theme.Income.Render(bar(p.Income, peak, 20)),
			m.theme.Expense.Render(bar(p.Expense, peak, 20))))
	}
	return m.theme.RoundedBox.Render(strings.Join(lines, "\n"))
}

func bar(value, peak float64, width int) string {
	if peak <= 0 || value <= 0 {
		return ""
	}
	n := int(value / peak * float64(width))
	if n == 0 {
		n = 1
	}
	return strings.Repeat("▇", n)
}

// listHeight is the number of lines left for the feed.
func (m Model) listHeight() int {
	used := 3 + 2
	if m.showTrend {
		used += len(m.series.Points) + 2
	}
	if m.help.ShowAll {
		used += 4
	}
	return max(m.height-used, minListHeight)
}

// feedLines renders the visible groups and reports the line holding the
// cursor.
func (m Model) feedLines() ([]string, int) {
	now := m.config.Now().In(m.config.Location)
	var lines []string
	cursorLine := 0
	index := 0

	for _, group := range m.feed.Groups() {
		lines = append(lines, fmt.Sprintf("%s  %s %s",
			m.theme.DayHeader.Render(cli.FormatDay(group.Date, now)),
			m.theme.Income.Render(cli.FormatAmount(group.Totals.Income)),
			m.theme.Expense.Render(cli.FormatAmount(group.Totals.Expense))))

		for _, txn := range group.Transactions {
			row := m.renderRow(txn)
			if index == m.cursor {
				cursorLine = len(lines)
				row = m.theme.Selected.Render(row)
			}
			lines = append(lines, row)
			index++
		}
	}
	return lines, cursorLine
}

func (m Model) renderRow(txn model.Transaction) string {
	category, _ := model.ResolveCategory(m.categories, txn.Category)
	name := lipgloss.NewStyle().
		Foreground(m.theme.CategoryColor(category.Color)).
		Width(18).
		Render(truncate(category.Name, 17))
	tags := m.theme.Muted.Width(24).Render(truncate(cli.FormatTags(txn.Tags), 23))

	amountStyle := m.theme.Expense
	if txn.IsIncome() {
		amountStyle = m.theme.Income
	}
	amount := amountStyle.Width(12).Align(lipgloss.Right).Render(cli.FormatAmount(txn.Amount))

	return fmt.Sprintf("  %s %s%s%s", themes.GetCategoryIcon(category.Icon), name, tags, amount)
}

func (m Model) renderList() string {
	lines, cursorLine := m.feedLines()
	if len(lines) == 0 {
		return m.theme.Muted.Render("No transactions")
	}

	height := m.listHeight()
	offset := 0
	if cursorLine >= height {
		offset = cursorLine - height + 1
	}
	end := min(offset+height, len(lines))
	return strings.Join(lines[offset:end], "\n")
}

func (m Model) renderFooter() string {
	visible := len(m.feed.Visible())
	progress := fmt.Sprintf("Showing %d of %d", visible, m.feed.Len())
	if m.feed.HasMore() {
		progress += " · scroll down for more"
	}

	parts := []string{m.theme.Muted.Render(progress)}
	if m.status != "" {
		parts = append(parts, m.theme.StatusInfo.Render(m.status))
	}
	parts = append(parts, m.help.View(m.keymap))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}
