package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// rootModel is the app shell around the scrape form. It owns the help
// overlay and forwards everything else to the form.
type rootModel struct {
	form     tea.Model
	showHelp bool
}

// NewRootModel constructs the root app-shell model.
func NewRootModel(form tea.Model) tea.Model {
	return &rootModel{form: form}
}

func (m *rootModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m *rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "f1":
			m.showHelp = !m.showHelp
			return m, nil
		case "esc":
			if m.showHelp {
				m.showHelp = false
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m *rootModel) View() string {
	if !m.showHelp {
		return m.form.View()
	}

	var b strings.Builder
	b.WriteString(renderTitle("Keyboard Shortcuts"))
	b.WriteString(renderDivider(60))
	b.WriteString("\n\n")
	b.WriteString(ScrapeFormHelpContent())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Press F1 or Esc to close help.") + "\n")
	return b.String()
}

// Close releases the form's resources, cancelling any in-flight request.
func (m *rootModel) Close() {
	if c, ok := m.form.(interface{ Close() }); ok {
		c.Close()
	}
}
