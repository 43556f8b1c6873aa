package cli

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Veraticus/thriftly/internal/model"
	"github.com/Veraticus/thriftly/internal/view"
)

// TrendWidth is the widest bar drawn by RenderTrend.
const TrendWidth = 24

// FormatAmount renders amount with two decimals and an explicit sign for
// income.
func FormatAmount(amount float64) string {
	if amount > 0 {
		return fmt.Sprintf("+%.2f", amount)
	}
	if amount == 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", amount)
}

// StyleAmount is FormatAmount colored by polarity. Zero counts as an expense.
func StyleAmount(amount float64) string {
	if amount > 0 {
		return IncomeStyle.Render(FormatAmount(amount))
	}
	return ExpenseStyle.Render(FormatAmount(amount))
}

// FormatDay labels a day relative to now: Today, Yesterday, Tomorrow, the
// weekday within the current Monday-based week, otherwise the date with the
// year shown only when it differs from now's.
func FormatDay(date, now time.Time) string {
	date = view.DayStart(date.In(now.Location()))
	today := view.DayStart(now)

	switch {
	case date.Equal(today):
		return "Today"
	case date.Equal(today.AddDate(0, 0, -1)):
		return "Yesterday"
	case date.Equal(today.AddDate(0, 0, 1)):
		return "Tomorrow"
	}

	if weekStart(date).Equal(weekStart(today)) {
		return date.Format("Monday")
	}
	if date.Year() == today.Year() {
		return date.Format("Mon, Jan 2")
	}
	return date.Format("Mon, Jan 2, 2006")
}

func weekStart(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// FormatTags joins tags for display.
func FormatTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return "#" + strings.Join(tags, " #")
}

// RenderFeed writes day groups with their subtotals. Transactions pointing at
// a deleted category are shown with the unknown-category placeholder.
func RenderFeed(w io.Writer, groups []view.DayGroup, categories []model.Category, now time.Time, hasMore bool) error {
	if len(groups) == 0 {
		_, err := fmt.Fprintln(w, SubtleStyle.Render("No transactions."))
		return err
	}

	for i, group := range groups {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}

		header := fmt.Sprintf("%s  %s %s",
			HeaderStyle.Render(FormatDay(group.Date, now)),
			IncomeStyle.Render(FormatAmount(group.Totals.Income)),
			ExpenseStyle.Render(FormatAmount(group.Totals.Expense)))
		if _, err := fmt.Fprintln(w, header); err != nil {
			return err
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, txn := range group.Transactions {
			category, _ := model.ResolveCategory(categories, txn.Category)
			if _, err := fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n",
				category.Icon,
				category.Name,
				SubtleStyle.Render(FormatTags(txn.Tags)),
				StyleAmount(txn.Amount)); err != nil {
				return err
			}
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if hasMore {
		if _, err := fmt.Fprintln(w, "\n"+SubtleStyle.Render("More transactions available; use --pages to show more.")); err != nil {
			return err
		}
	}
	return nil
}

// RenderBalance writes the balance card: balance, income and expense.
func RenderBalance(w io.Writer, totals view.Totals) error {
	balance := ExpenseStyle.Render(FormatAmount(totals.Balance))
	if totals.Positive() {
		balance = IncomeStyle.Render(FormatAmount(totals.Balance))
	}

	content := strings.Join([]string{
		"Balance  " + balance,
		"Income   " + IncomeStyle.Render(FormatAmount(totals.Income)),
		"Expense  " + ExpenseStyle.Render(FormatAmount(totals.Expense)),
	}, "\n")

	_, err := fmt.Fprintln(w, RenderBox("Balance", content))
	return err
}

// RenderTrend draws one income and one expense bar per month, scaled to the
// largest value in the series. The active month is highlighted.
func RenderTrend(w io.Writer, series view.Series) error {
	if len(series.Points) == 0 {
		_, err := fmt.Fprintln(w, SubtleStyle.Render("No monthly data."))
		return err
	}

	peak := 0.0
	for _, p := range series.Points {
		peak = math.Max(peak, math.Max(p.Income, p.Expense))
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, p := range series.Points {
		label := p.Date.Format("Jan 2006")
		if i == series.Active {
			label = ActiveStyle.Render(label)
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s %s\t%s %s\n",
			label,
			IncomeStyle.Render(bar(p.Income, peak)), FormatAmount(p.Income),
			ExpenseStyle.Render(bar(p.Expense, peak)), FormatAmount(-p.Expense)); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func bar(value, peak float64) string {
	if peak <= 0 || value <= 0 {
		return ""
	}
	n := int(math.Round(value / peak * TrendWidth))
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}

// RenderFacets writes category and tag picker options with their counts.
func RenderFacets(w io.Writer, categories, tags []view.FacetOption, known []model.Category) error {
	sections := []struct {
		title   string
		options []view.FacetOption
		label   func(string) string
	}{
		{
			title:   "Categories",
			options: categories,
			label: func(id string) string {
				c, _ := model.ResolveCategory(known, id)
				return c.Name
			},
		},
		{
			title:   "Tags",
			options: tags,
			label:   func(tag string) string { return "#" + tag },
		},
	}

	for i, section := range sections {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, TitleStyle.Render(section.title)); err != nil {
			return err
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, opt := range section.options {
			label := "All"
			if !opt.All {
				label = section.label(opt.Value)
			}
			if _, err := fmt.Fprintf(tw, "  %s\t%d\n", label, opt.Count); err != nil {
				return err
			}
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// RenderCategories writes the category table.
func RenderCategories(w io.Writer, categories []model.Category) error {
	if len(categories) == 0 {
		_, err := fmt.Fprintln(w, SubtleStyle.Render("No categories yet."))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "ID\tNAME\tICON\tCOLOR"); err != nil {
		return err
	}
	for _, c := range categories {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Icon, c.Color); err != nil {
			return err
		}
	}
	return tw.Flush()
}
