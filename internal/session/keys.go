package session

import (
	"os"

	"golang.org/x/term"
)

// KeyReader delivers single operator keystrokes, blocking with no
// timeout until one is available.
type KeyReader interface {
	ReadKey() (byte, error)
}

type ttyKeys struct {
	in *os.File
}

// NewTTYKeys reads raw single keystrokes from f (normally stdin). The
// terminal is switched to raw mode around each read and restored
// afterwards, so the external editor always starts from a sane state.
func NewTTYKeys(f *os.File) KeyReader {
	return &ttyKeys{in: f}
}

func (t *ttyKeys) ReadKey() (byte, error) {
	fd := int(t.in.Fd())
	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			return 0, err
		}
		defer term.Restore(fd, state) //nolint:errcheck
	}
	var buf [1]byte
	if _, err := t.in.Read(buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}
