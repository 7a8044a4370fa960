package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"attentionos/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, func() tea.Msg {
				return SwitchToReviewMsg{}
			}
		}
	}

	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("AttentionOS Help"))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render("Capture, triage, review"))
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Navigation"))
	b.WriteString("\n")
	b.WriteString(helpLine("j / k / ↑ / ↓", "Move between rows"))
	b.WriteString(helpLine("r", "Reload the review"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Triage"))
	b.WriteString("\n")
	b.WriteString(helpLine("d", "Do now: activate and clear the review date"))
	b.WriteString(helpLine("s", "Schedule for tomorrow 09:00 with a reminder"))
	b.WriteString(helpLine("x", "Drop: mark done after confirming"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Cases"))
	b.WriteString("\n")
	b.WriteString(helpLine("c", "Capture a new thought"))
	b.WriteString(helpLine("e", "Edit case details in $EDITOR"))
	b.WriteString(helpLine("y", "Copy the case as Markdown"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("General"))
	b.WriteString("\n")
	b.WriteString(helpLine("?", "Toggle help"))
	b.WriteString(helpLine("q / Ctrl+C", "Quit"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Buckets"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  Due       : review date has passed"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  Inbox     : captured, not yet triaged"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  Do Now    : marked do-now, not done"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  Scheduled : review date still ahead"))
	b.WriteString("\n\n")

	b.WriteString(styles.HelpDesc.Render("Press "))
	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.HelpDesc.Render(" or "))
	b.WriteString(styles.HelpKey.Render("?"))
	b.WriteString(styles.HelpDesc.Render(" to close"))

	return styles.App.Render(b.String())
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 20)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
