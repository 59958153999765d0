package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// submitQuoteMsg carries the add form's fields back to the model.
type submitQuoteMsg struct {
	text     string
	category string
}

// addForm captures the two free-text fields of a new quote.
type addForm struct {
	inputs [2]textinput.Model // text, category
	focus  int
	err    string
}

func newAddForm(category string) *addForm {
	text := textinput.New()
	text.Placeholder = "Enter a new quote"
	text.CharLimit = 500
	text.Width = 48
	text.Prompt = "Quote    "
	text.Focus()

	cat := textinput.New()
	cat.Placeholder = "Enter quote category"
	cat.CharLimit = 64
	cat.Width = 48
	cat.Prompt = "Category "
	cat.SetValue(category)

	return &addForm{inputs: [2]textinput.Model{text, cat}}
}

// Update handles form keys. Enter on the last field submits; esc cancels.
func (f *addForm) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, keys.Escape):
			return f, nil, true
		case key.Matches(k, keys.NextField):
			f.setFocus(f.focus + 1)
			return f, nil, false
		case key.Matches(k, keys.PrevField):
			f.setFocus(f.focus - 1)
			return f, nil, false
		case key.Matches(k, keys.Confirm):
			if f.focus < len(f.inputs)-1 {
				f.setFocus(f.focus + 1)
				return f, nil, false
			}
			return f.submit()
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd, false
}

// submit checks the fields locally so an empty entry re-prompts without a
// round trip. The collection validates again.
func (f *addForm) submit() (Modal, tea.Cmd, bool) {
	text := strings.TrimSpace(f.inputs[0].Value())
	category := strings.TrimSpace(f.inputs[1].Value())
	if text == "" || category == "" {
		f.err = "Please enter both quote text and category."
		if text == "" {
			f.setFocus(0)
		} else {
			f.setFocus(1)
		}
		return f, nil, false
	}
	return f, func() tea.Msg { return submitQuoteMsg{text: text, category: category} }, true
}

func (f *addForm) setFocus(i int) {
	n := len(f.inputs)
	f.focus = ((i % n) + n) % n
	for idx := range f.inputs {
		if idx == f.focus {
			f.inputs[idx].Focus()
		} else {
			f.inputs[idx].Blur()
		}
	}
}

// View renders the form centered in the window.
func (f *addForm) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Add Quote"))
	b.WriteString("\n\n")
	for _, in := range f.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(f.err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("tab next field · enter save · esc cancel"))

	return placeCentered(width, height, theme, styles.Modal.Render(b.String()))
}
