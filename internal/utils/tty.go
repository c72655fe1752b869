package utils

import (
	"os"

	"golang.org/x/term"
)

// IsTTY checks if the current process is running in an interactive terminal
func IsTTY() bool {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}

	// Bubble Tea reads keys from /dev/tty
	tty, err := os.Open("/dev/tty")
	if err != nil {
		return false
	}
	defer tty.Close()

	return true
}

// IsTerminalInput reports whether f is an interactive terminal.
func IsTerminalInput(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
