package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding

	// Quotes
	NextQuote    key.Binding
	NextCategory key.Binding
	PrevCategory key.Binding
	AllFilter    key.Binding
	AddQuote     key.Binding
	SyncNow      key.Binding
	ToggleLog    key.Binding

	// Form
	NextField key.Binding
	PrevField key.Binding
	Confirm   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close / dismiss"),
		),

		NextQuote: key.NewBinding(
			key.WithKeys("n", " ", "enter"),
			key.WithHelp("n/space", "Show new quote"),
		),
		NextCategory: key.NewBinding(
			key.WithKeys("f", "right", "l"),
			key.WithHelp("f/→", "Next category"),
		),
		PrevCategory: key.NewBinding(
			key.WithKeys("F", "left"),
			key.WithHelp("F/←", "Previous category"),
		),
		AllFilter: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "All categories"),
		),
		AddQuote: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Add quote"),
		),
		SyncNow: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Sync now"),
		),
		ToggleLog: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Toggle log pane"),
		),

		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextQuote, k.NextCategory, k.AddQuote, k.SyncNow, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextQuote, k.NextCategory, k.PrevCategory, k.AllFilter},
		{k.AddQuote, k.SyncNow, k.ToggleLog},
		{k.CycleTheme, k.Help, k.Escape, k.Quit},
	}
}
