package fsys

import (
	"fls/internal/errors"

	"golang.org/x/term"
)

// TerminalWidth returns the column count of the terminal on fd. An error
// means fd is not a terminal.
func TerminalWidth(fd int) (int, error) {
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0, errors.ErrNotATerminal
	}
	if width <= 0 {
		return 0, errors.ErrNotATerminal
	}
	return width, nil
}
