package views

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"attentionos/internal/adapters/tui/styles"
	"attentionos/internal/application"
	"attentionos/internal/application/commands"
	"attentionos/internal/domain"
)

// ReviewKeyMap defines key bindings for the review view
type ReviewKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	DoNow    key.Binding
	Schedule key.Binding
	Drop     key.Binding
	Capture  key.Binding
	Edit     key.Binding
	Copy     key.Binding
	Reload   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var ReviewKeys = ReviewKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	DoNow: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "do now"),
	),
	Schedule: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "tomorrow"),
	),
	Drop: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "drop"),
	),
	Capture: key.NewBinding(
		key.WithKeys("c", "n"),
		key.WithHelp("c", "capture"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit details"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy case"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// reviewGroup is a titled block of rows; Empty is shown when it has none
type reviewGroup struct {
	title string
	empty string
	rows  []Row
}

type reviewLoadedMsg struct {
	result *commands.ReviewResult
}

// ReviewModel is the model for the review screen
type ReviewModel struct {
	ViewState
	deps    *commands.Deps
	canEdit bool

	// CopyText puts text on the system clipboard
	CopyText func(string) error

	result *commands.ReviewResult
	groups []reviewGroup
	rows   []Row
	win    *window
}

// NewReviewModel creates a new review model. canEdit enables editing case
// details in an external editor.
func NewReviewModel(deps *commands.Deps, canEdit bool) *ReviewModel {
	return &ReviewModel{
		deps:     deps,
		canEdit:  canEdit,
		CopyText: clipboard.WriteAll,
		win:      newWindow(0),
	}
}

// Init loads the review
func (m *ReviewModel) Init() tea.Cmd {
	return m.load
}

// Reload recomputes the buckets
func (m *ReviewModel) Reload() tea.Cmd {
	return m.load
}

func (m *ReviewModel) load() tea.Msg {
	result, err := commands.NewReviewCommand(m.deps, time.Time{}).Execute(context.Background())
	if err != nil {
		return errMsg{err}
	}
	return reviewLoadedMsg{result}
}

// Update handles messages for the review screen
func (m *ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case reviewLoadedMsg:
		m.setResult(msg.result)
		return m, nil

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case successMsg:
		m.SetMessage(msg.message, false)
		return m, m.load

	case tea.KeyMsg:
		m.ClearMessage()

		switch {
		case key.Matches(msg, ReviewKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, ReviewKeys.Up):
			m.win.up()
			return m, nil

		case key.Matches(msg, ReviewKeys.Down):
			m.win.down()
			return m, nil

		case key.Matches(msg, ReviewKeys.DoNow):
			if row, ok := m.Selected(); ok {
				return m, m.triage(row, commands.TriageDoNow)
			}
			return m, nil

		case key.Matches(msg, ReviewKeys.Schedule):
			if row, ok := m.Selected(); ok {
				return m, m.triage(row, commands.TriageSchedule)
			}
			return m, nil

		case key.Matches(msg, ReviewKeys.Drop):
			if row, ok := m.Selected(); ok {
				return m, func() tea.Msg {
					return SwitchToConfirmDropMsg{Row: row}
				}
			}
			return m, nil

		case key.Matches(msg, ReviewKeys.Capture):
			return m, func() tea.Msg {
				return SwitchToCaptureMsg{}
			}

		case key.Matches(msg, ReviewKeys.Edit):
			if row, ok := m.Selected(); ok && m.canEdit {
				if caseID, ok := caseOf(row); ok {
					return m, m.prepareDetails(caseID)
				}
				m.SetMessage("Only cases have details to edit", true)
			}
			return m, nil

		case key.Matches(msg, ReviewKeys.Copy):
			if row, ok := m.Selected(); ok {
				if caseID, ok := caseOf(row); ok {
					return m, m.copyCase(caseID)
				}
				m.SetMessage("Select a case or attempt to copy", true)
			}
			return m, nil

		case key.Matches(msg, ReviewKeys.Reload):
			return m, m.load

		case key.Matches(msg, ReviewKeys.Help):
			return m, func() tea.Msg {
				return SwitchToHelpMsg{}
			}
		}
	}

	return m, nil
}

func (m *ReviewModel) setResult(result *commands.ReviewResult) {
	m.result = result
	m.groups = m.groups[:0]
	for _, s := range result.Sections() {
		g := reviewGroup{title: s.Title, empty: s.Empty}
		for _, item := range s.Items {
			g.rows = append(g.rows, Row{Section: s.Title, ID: item.ID, Target: item})
		}
		m.groups = append(m.groups, g)
	}
	if len(result.DueCases) > 0 {
		g := reviewGroup{title: "Due cases"}
		for _, c := range result.DueCases {
			g.rows = append(g.rows, Row{Section: g.title, ID: c.ID, Target: c})
		}
		m.groups = append(m.groups, g)
	}
	if len(result.DueAttempts) > 0 {
		g := reviewGroup{title: "Due attempts"}
		for _, a := range result.DueAttempts {
			g.rows = append(g.rows, Row{Section: g.title, ID: a.ID, Target: a})
		}
		m.groups = append(m.groups, g)
	}

	m.rows = m.rows[:0]
	for _, g := range m.groups {
		m.rows = append(m.rows, g.rows...)
	}
	m.win.setTotal(len(m.rows))
}

// Selected returns the row under the cursor
func (m *ReviewModel) Selected() (Row, bool) {
	if m.win.cursor >= 0 && m.win.cursor < len(m.rows) {
		return m.rows[m.win.cursor], true
	}
	return Row{}, false
}

// Rows returns every selectable row in display order
func (m *ReviewModel) Rows() []Row {
	return m.rows
}

func (m *ReviewModel) triage(row Row, action commands.TriageAction) tea.Cmd {
	return func() tea.Msg {
		var date time.Time
		if action == commands.TriageSchedule {
			d, err := application.ParseDate("date", "tomorrow", m.deps.Clock())
			if err != nil {
				return errMsg{err}
			}
			date = d
		}
		result, err := commands.NewTriageCommand(m.deps, row.Target.Kind(), row.ID, action, date).Execute(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return successMsg{result.Message}
	}
}

func (m *ReviewModel) copyCase(caseID string) tea.Cmd {
	return func() tea.Msg {
		result, err := commands.NewShowCaseCommand(m.deps, caseID).Execute(context.Background())
		if err != nil {
			return errMsg{err}
		}
		if err := m.CopyText(result.Markdown); err != nil {
			return errMsg{fmt.Errorf("failed to copy to clipboard: %w", err)}
		}
		return successMsg{fmt.Sprintf("Copied %s to clipboard", result.Filename)}
	}
}

// prepareDetails writes the case details to a temp file for the editor
func (m *ReviewModel) prepareDetails(caseID string) tea.Cmd {
	return func() tea.Msg {
		cs, err := m.deps.Store.GetCase(context.Background(), caseID)
		if err != nil {
			return errMsg{err}
		}
		f, err := os.CreateTemp("", "attentionos-details-*.md")
		if err != nil {
			return errMsg{fmt.Errorf("failed to create temp file: %w", err)}
		}
		defer f.Close()
		if _, err := f.WriteString(cs.Details); err != nil {
			os.Remove(f.Name())
			return errMsg{fmt.Errorf("failed to write temp file: %w", err)}
		}
		return EditDetailsMsg{CaseID: caseID, Path: f.Name()}
	}
}

// SaveDetails stores the edited details file back into the case and removes it
func SaveDetails(deps *commands.Deps, caseID, path string) tea.Cmd {
	return func() tea.Msg {
		defer os.Remove(path)
		data, err := os.ReadFile(path)
		if err != nil {
			return SwitchToReviewMsg{Message: fmt.Sprintf("failed to read details: %v", err), Err: true}
		}
		edit := commands.NewEditCaseCommand(deps, caseID, func(f domain.CaseFields) domain.CaseFields {
			f.Details = string(data)
			return f
		})
		result, err := edit.Execute(context.Background())
		if err != nil {
			return SwitchToReviewMsg{Message: err.Error(), Err: true}
		}
		return SwitchToReviewMsg{Message: result.Message}
	}
}

func caseOf(row Row) (string, bool) {
	switch t := row.Target.(type) {
	case *domain.Case:
		return t.ID, true
	case *domain.Attempt:
		return t.CaseID, true
	}
	return "", false
}

// View renders the review screen
func (m *ReviewModel) View() string {
	if m.result == nil {
		if m.Message != "" {
			return styles.App.Render(RenderMessage(m.Message, m.MessageErr))
		}
		return "Loading..."
	}

	v := NewViewBuilder().
		Title("AttentionOS").
		Subtitle("Review · " + m.result.Now.Format(reviewLayout))

	var lines []string
	focus, index := 0, 0
	for _, g := range m.groups {
		lines = append(lines, styles.SectionHeader.Render(fmt.Sprintf("%s (%d)", g.title, len(g.rows))))
		if len(g.rows) == 0 {
			lines = append(lines, "  "+RenderMuted(g.empty))
		}
		for _, row := range g.rows {
			selected := index == m.win.cursor
			if selected {
				focus = len(lines)
			}
			lines = append(lines, renderRow(row, selected))
			index++
		}
	}

	m.win.setHeight(m.Height - 9)
	for _, line := range m.win.clip(lines, focus) {
		v.Line(line)
	}

	v.BlankLine()
	v.Message(m.Message, m.MessageErr)

	bindings := []key.Binding{ReviewKeys.DoNow, ReviewKeys.Schedule, ReviewKeys.Drop, ReviewKeys.Capture}
	if m.canEdit {
		bindings = append(bindings, ReviewKeys.Edit)
	}
	bindings = append(bindings, ReviewKeys.Copy, ReviewKeys.Help, ReviewKeys.Quit)
	v.Help(bindings...)

	return v.String()
}

func renderRow(row Row, selected bool) string {
	title := strings.ReplaceAll(row.Title(), "\n", " ")
	if row.Target.Kind() != domain.KindInbox {
		title = fmt.Sprintf("[%s] %s", strings.ToLower(string(row.Target.Kind())), title)
	}
	if selected {
		return styles.Cursor + styles.RowSelected.Render(title) + "  " + RenderRecord(row.Target.Triage())
	}
	return styles.NoCursor + styles.Row.Render(title) + "  " + RenderRecord(row.Target.Triage())
}
