package views

import (
	"attentionos/internal/domain"
)

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// Row is one selectable line of the review screen
type Row struct {
	Section string
	ID      string
	Target  domain.Notifiable
}

// Title is the text shown for the row
func (r Row) Title() string {
	return r.Target.NotificationTitle()
}

// Messages for view switching

type SwitchToReviewMsg struct {
	// Message is shown on the review screen after switching
	Message string
	Err     bool
}

type SwitchToCaptureMsg struct{}

type SwitchToHelpMsg struct{}

type SwitchToConfirmDropMsg struct {
	Row Row
}

// EditDetailsMsg asks the app to open a case's details in the editor
type EditDetailsMsg struct {
	CaseID string
	Path   string
}

type errMsg struct {
	err error
}

type successMsg struct {
	message string
}
