package views

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"attentionos/internal/application/commands"
)

const (
	fieldThought = iota
	fieldWhy
)

// CaptureModel is the quick capture form
type CaptureModel struct {
	ViewState
	deps *commands.Deps
	form *InputForm
}

// NewCaptureModel creates a new capture form
func NewCaptureModel(deps *commands.Deps) *CaptureModel {
	return &CaptureModel{
		deps: deps,
		form: NewInputForm(
			NewInputField("Thought", "What is on your mind?", 280),
			NewInputField("Why", "Why does it matter? (optional)", 280),
		),
	}
}

// Reset clears the form for the next capture
func (m *CaptureModel) Reset() {
	m.form.Reset()
	m.ClearMessage()
}

// Init initializes the capture view
func (m *CaptureModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the capture view
func (m *CaptureModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.form.Keys.Cancel):
			return m, func() tea.Msg {
				return SwitchToReviewMsg{}
			}
		case key.Matches(msg, m.form.Keys.Submit):
			return m, m.submit()
		}
	}

	return m, m.form.Update(msg)
}

func (m *CaptureModel) submit() tea.Cmd {
	thought := m.form.Value(fieldThought)
	why := m.form.Value(fieldWhy)
	return func() tea.Msg {
		result, err := commands.NewCaptureCommand(m.deps, thought, why).Execute(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return SwitchToReviewMsg{Message: result.Message}
	}
}

// View renders the capture form
func (m *CaptureModel) View() string {
	return NewViewBuilder().
		Title("Capture").
		Subtitle("Lands in the inbox for the next review").
		Raw(m.form.Render()).
		BlankLine().
		Message(m.Message, m.MessageErr).
		Help(m.form.Keys.Next, m.form.Keys.Submit, m.form.Keys.Cancel).
		String()
}
