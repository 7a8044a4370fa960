package views

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"attentionos/internal/adapters/tui/styles"
	"attentionos/internal/application/commands"
)

// ConfirmKeyMap defines key bindings for confirmation views
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultConfirmKeys returns the default confirmation key bindings
var DefaultConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// ConfirmDropModel asks before dropping a row, which closes it for good
type ConfirmDropModel struct {
	ViewState
	deps   *commands.Deps
	Target Row
	Keys   ConfirmKeyMap
}

// NewConfirmDropModel creates a new drop confirmation
func NewConfirmDropModel(deps *commands.Deps) *ConfirmDropModel {
	return &ConfirmDropModel{
		deps: deps,
		Keys: DefaultConfirmKeys,
	}
}

// SetTarget sets the row to drop
func (m *ConfirmDropModel) SetTarget(row Row) {
	m.Target = row
	m.ClearMessage()
}

// Init initializes the confirmation view
func (m *ConfirmDropModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the confirmation view
func (m *ConfirmDropModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.Keys.Cancel):
			return m, func() tea.Msg {
				return SwitchToReviewMsg{}
			}
		case key.Matches(msg, m.Keys.Confirm):
			return m, m.drop()
		}
	}
	return m, nil
}

func (m *ConfirmDropModel) drop() tea.Cmd {
	row := m.Target
	return func() tea.Msg {
		cmd := commands.NewTriageCommand(m.deps, row.Target.Kind(), row.ID, commands.TriageDrop, time.Time{})
		result, err := cmd.Execute(context.Background())
		if err != nil {
			return SwitchToReviewMsg{Message: err.Error(), Err: true}
		}
		return SwitchToReviewMsg{Message: result.Message}
	}
}

// View renders the confirmation view
func (m *ConfirmDropModel) View() string {
	v := NewViewBuilder().Title("Drop")
	if m.Target.Target == nil {
		return v.Muted("Nothing selected").String()
	}
	return v.
		Subtitle("Dropping marks it done and cancels its reminder").
		Line(styles.InputLabel.Render(m.Target.Section+":")).
		Line("  "+m.Target.Title()).
		BlankLine().
		Raw(RenderConfirmPrompt("Drop it?")).
		String()
}

// RenderConfirmPrompt renders the standard confirmation prompt
func RenderConfirmPrompt(question string) string {
	var b strings.Builder
	b.WriteString(question)
	b.WriteString(" ")
	b.WriteString(styles.HelpKey.Render("y"))
	b.WriteString(styles.HelpDesc.Render(" to confirm, "))
	b.WriteString(styles.HelpKey.Render("n"))
	b.WriteString(styles.HelpDesc.Render(" to cancel"))
	return b.String()
}
