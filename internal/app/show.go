package app

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/pixelyear/pixelyear/internal/planner"
)

const monthWidth = 21 // 7 columns of 3 glyphs

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Faint(true)
	noteStyle   = lipgloss.NewStyle().Faint(true)

	// palette maps the color words users type to terminal colors. Unknown
	// words fall back to white so a typo still marks the day.
	palette = map[string]lipgloss.Color{
		"black":   lipgloss.Color("0"),
		"red":     lipgloss.Color("1"),
		"green":   lipgloss.Color("2"),
		"yellow":  lipgloss.Color("3"),
		"blue":    lipgloss.Color("4"),
		"magenta": lipgloss.Color("5"),
		"purple":  lipgloss.Color("5"),
		"cyan":    lipgloss.Color("6"),
		"teal":    lipgloss.Color("6"),
		"white":   lipgloss.Color("7"),
		"gray":    lipgloss.Color("8"),
		"grey":    lipgloss.Color("8"),
		"orange":  lipgloss.Color("208"),
		"pink":    lipgloss.Color("213"),
		"gold":    lipgloss.Color("220"),
	}
)

func colorFor(name string) lipgloss.Color {
	if c, ok := palette[name]; ok {
		return c
	}
	return lipgloss.Color("15")
}

// Show renders the active year as a 3x4 month grid, or a single month with
// its notes: show [month].
func (a *App) Show(ctx context.Context, args []string) error {
	year := a.canvas.Year()

	if len(args) == 0 {
		fmt.Println(renderYear(a.canvas.Get, year))
		return nil
	}

	month, err := parseMonth(args[0])
	if err != nil {
		fmt.Println(err)
		return err
	}
	fmt.Println(renderMonth(a.canvas.Get, year, month))

	if notes := monthNotes(a.canvas.Snapshot(), year, month); notes != "" {
		fmt.Println(notes)
	}
	return nil
}

// parseMonth accepts a month number ("6") or an English name or prefix
// ("june", "jun").
func parseMonth(arg string) (time.Month, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > 12 {
			return 0, fmt.Errorf("month %d is out of range", n)
		}
		return time.Month(n), nil
	}

	needle := strings.ToLower(arg)
	for m := time.January; m <= time.December; m++ {
		if strings.HasPrefix(strings.ToLower(m.String()), needle) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown month %q", arg)
}

// renderMonth lays out one month, Monday first, with painted days drawn on
// their color.
func renderMonth(lookup func(string) (planner.Annotation, bool), year int, month time.Month) string {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	offset := (int(first.Weekday()) + 6) % 7 // Monday-start column

	var b strings.Builder
	title := fmt.Sprintf("%s %d", month, year)
	b.WriteString(titleStyle.Render(centerLine(title, monthWidth)))
	b.WriteString("\n")
	b.WriteString(headerStyle.Render("Mo Tu We Th Fr Sa Su"))
	b.WriteString("\n")

	col := 0
	b.WriteString(strings.Repeat("   ", offset))
	col = offset

	for d := 1; d <= daysInMonth; d++ {
		cell := fmt.Sprintf("%2d", d)
		key := fmt.Sprintf("%04d-%02d-%02d", year, month, d)
		if ann, ok := lookup(key); ok {
			style := lipgloss.NewStyle().
				Background(colorFor(ann.Color)).
				Foreground(lipgloss.Color("0"))
			cell = style.Render(cell)
		}
		b.WriteString(cell)

		col++
		if col == 7 {
			b.WriteString("\n")
			col = 0
		} else {
			b.WriteString(" ")
		}
	}
	if col != 0 {
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// renderYear joins the twelve months into a 3-wide grid.
func renderYear(lookup func(string) (planner.Annotation, bool), year int) string {
	var rows []string
	for q := 0; q < 4; q++ {
		var months []string
		for i := 0; i < 3; i++ {
			m := time.Month(q*3 + i + 1)
			block := lipgloss.NewStyle().Width(monthWidth + 2).Render(renderMonth(lookup, year, m))
			months = append(months, block)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, months...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// monthNotes lists the month's annotated days that carry a note, sorted by
// date. Returns "" when there is nothing to tell.
func monthNotes(days map[string]planner.Annotation, year int, month time.Month) string {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)

	keys := make([]string, 0, len(days))
	for day, ann := range days {
		if strings.HasPrefix(day, prefix) && ann.Note != "" {
			keys = append(keys, day)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("Notes:\n")
	for _, day := range keys {
		ann := days[day]
		b.WriteString(noteStyle.Render(fmt.Sprintf("  %s [%s] %s", day, ann.Color, ann.Note)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func centerLine(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s
}
