package session

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// ErrNoEditor is returned when an edit is requested but no editor
// command is configured.
var ErrNoEditor = errors.New("no editor configured (set --editor or $EDITOR)")

// RunEditor launches the configured editor on path and blocks until it
// exits. The command runs through the shell so editor values carrying
// flags ("code -w", "vim -u NONE") work as typed.
func RunEditor(editor, path string) error {
	if editor == "" {
		return ErrNoEditor
	}
	cmd := exec.Command("/bin/sh", "-c", fmt.Sprintf("%s %q", editor, path))
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
