package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/quoted/internal/category"
	"github.com/five82/quoted/internal/selector"
)

// renderHeader renders the status bar: logo, counts, filter and sync state.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := lipgloss.Color(m.theme.Surface)
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	parts := []string{
		styles.Logo.Background(bg).Render("quoted"),
		styles.MutedText.Background(bg).Render("Quotes:") +
			styles.Text.Background(bg).Render(fmt.Sprintf(" %d", m.count)),
		styles.MutedText.Background(bg).Render("Filter:") +
			styles.AccentText.Background(bg).Render(" "+filterLabel(m.filter)),
		m.renderSyncStatus(styles, bg),
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

// renderSyncStatus summarises the last cycle for the header.
func (m Model) renderSyncStatus(styles Styles, bg lipgloss.Color) string {
	snap := m.snapshot
	switch {
	case m.syncing || m.syncState == "fetching" || m.syncState == "merging":
		return styles.InfoText.Background(bg).Render("● syncing")
	case snap.IsOffline():
		return styles.DangerText.Background(bg).Render("● offline") +
			styles.MutedText.Background(bg).Render(fmt.Sprintf(" (%d failed)", snap.ConsecutiveFailures))
	case snap.LastError != nil:
		return styles.WarningText.Background(bg).Render("● sync failed " + clock(snap.LastSync))
	case snap.HasSynced():
		return styles.SuccessText.Background(bg).Render("● synced") +
			styles.MutedText.Background(bg).Render(" "+clock(snap.LastSuccess))
	default:
		return styles.MutedText.Background(bg).Render("● waiting for first sync")
	}
}

// renderBanner renders the current notification, or an empty line.
func (m Model) renderBanner() string {
	text := m.banner.Text(time.Now())
	if text == "" {
		return ""
	}
	return m.theme.Styles().Banner.Render(text)
}

// renderQuote renders the current quote card.
func (m Model) renderQuote() string {
	styles := m.theme.Styles()
	width := m.width - 4
	if width > 80 {
		width = 80
	}
	if width < 20 {
		width = 20
	}

	var body string
	if !m.hasQuote {
		body = styles.MutedText.Render(selector.NoQuotesMessage)
	} else {
		body = styles.QuoteText.Width(width-8).Render("“"+m.current.Text+"”") +
			"\n\n" +
			styles.MutedText.Render("Category: ") + styles.CategoryStyle(m.current.Category).Render(m.current.Category)
	}
	return styles.Card.Width(width).Render(body)
}

// renderCategories renders the filter ring with the active entry highlighted.
func (m Model) renderCategories() string {
	styles := m.theme.Styles()
	entries := append([]string{category.All}, m.categories...)
	chips := make([]string, 0, len(entries))
	for _, c := range entries {
		label := filterLabel(c)
		if c == m.filter {
			chips = append(chips, styles.CategoryStyle(c).Bold(true).Render(label))
			continue
		}
		chips = append(chips, styles.FaintText.Render(label))
	}
	return " " + strings.Join(chips, " ")
}

// renderFooter renders the short key help.
func (m Model) renderFooter() string {
	return m.theme.Styles().Footer.Width(m.width).Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}

func filterLabel(filter string) string {
	if filter == "" || filter == category.All {
		return "All Categories"
	}
	return filter
}

func clock(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("15:04:05")
}
