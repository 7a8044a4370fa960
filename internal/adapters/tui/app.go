package tui

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"attentionos/internal/adapters/tui/views"
	"attentionos/internal/application/commands"
	"attentionos/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewReview ViewState = iota
	ViewCapture
	ViewConfirmDrop
	ViewHelp
)

// App is the main TUI application model
type App struct {
	deps   *commands.Deps
	editor ports.EditorOpener

	state   ViewState
	review  *views.ReviewModel
	capture *views.CaptureModel
	confirm *views.ConfirmDropModel
	help    *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application. ed may be nil, which disables
// editing case details.
func NewApp(deps *commands.Deps, ed ports.EditorOpener) *App {
	return &App{
		deps:    deps,
		editor:  ed,
		state:   ViewReview,
		review:  views.NewReviewModel(deps, ed != nil),
		capture: views.NewCaptureModel(deps),
		confirm: views.NewConfirmDropModel(deps),
		help:    views.NewHelpModel(),
	}
}

// State returns the active view
func (a *App) State() ViewState {
	return a.state
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.review.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.review.SetSize(msg.Width, msg.Height)
		a.capture.SetSize(msg.Width, msg.Height)
		a.confirm.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	// View switching messages
	case views.SwitchToCaptureMsg:
		a.state = ViewCapture
		a.capture.Reset()
		return a, a.capture.Init()

	case views.SwitchToConfirmDropMsg:
		a.state = ViewConfirmDrop
		a.confirm.SetTarget(msg.Row)
		return a, nil

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToReviewMsg:
		a.state = ViewReview
		a.review.SetMessage(msg.Message, msg.Err)
		return a, a.review.Reload()

	case views.EditDetailsMsg:
		return a, a.openEditor(msg)

	case editorFinishedMsg:
		if msg.err != nil {
			os.Remove(msg.path)
			a.review.SetMessage(msg.err.Error(), true)
			return a, nil
		}
		return a, views.SaveDetails(a.deps, msg.caseID, msg.path)
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewReview:
		_, cmd = a.review.Update(msg)
	case ViewCapture:
		_, cmd = a.capture.Update(msg)
	case ViewConfirmDrop:
		_, cmd = a.confirm.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

type editorFinishedMsg struct {
	caseID string
	path   string
	err    error
}

func (a *App) openEditor(msg views.EditDetailsMsg) tea.Cmd {
	if a.editor == nil {
		return nil
	}

	cmd, err := a.editor.Command(msg.Path)
	if err != nil {
		return func() tea.Msg {
			return editorFinishedMsg{caseID: msg.CaseID, path: msg.Path, err: err}
		}
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{caseID: msg.CaseID, path: msg.Path, err: err}
	})
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewCapture:
		return a.capture.View()
	case ViewConfirmDrop:
		return a.confirm.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.review.View()
	}
}
