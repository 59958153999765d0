package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/quoted/internal/logtail"
)

// readLogCmd reads the tail of the log file off the UI goroutine.
func readLogCmd(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		lines, err := logtail.Read(path, logPaneLines*4)
		if err != nil {
			return logLinesMsg{"log unavailable: " + err.Error()}
		}
		return logLinesMsg(lines)
	}
}

func (m *Model) setLogLines(lines []string) {
	styles := m.theme.Styles()
	rendered := make([]string, 0, len(lines))
	for _, entry := range logtail.ParseLines(lines) {
		line := entry.String()
		switch entry.Level {
		case "ERROR", "DPANIC", "PANIC", "FATAL":
			line = styles.DangerText.Render(line)
		case "WARN":
			line = styles.WarningText.Render(line)
		case "DEBUG":
			line = styles.FaintText.Render(line)
		default:
			line = styles.MutedText.Render(line)
		}
		rendered = append(rendered, line)
	}
	m.logView.SetContent(strings.Join(rendered, "\n"))
	m.logView.GotoBottom()
}

// renderLogPane renders the most recent log lines.
func (m Model) renderLogPane() string {
	styles := m.theme.Styles()
	title := styles.AccentText.Bold(true).Render("Log") + " " + styles.FaintText.Render(m.logPath)
	return title + "\n" + m.logView.View()
}
