package ports

import "os/exec"

// EditorOpener opens files in the user's external editor
type EditorOpener interface {
	// OpenFile opens path and blocks until the editor exits
	OpenFile(path string) error

	// Command returns the editor process without starting it, for callers
	// that hand the terminal over themselves
	Command(path string) (*exec.Cmd, error)

	// EditText round-trips initial through a temporary file named after pattern
	EditText(initial, pattern string) (string, error)
}
