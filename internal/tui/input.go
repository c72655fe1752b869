package tui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"autocommiter/internal/utils"

	"golang.org/x/term"
)

// ReadSecret prints prompt and reads one line from in. Terminal input is not
// echoed.
func ReadSecret(out io.Writer, in io.Reader, prompt string) (string, error) {
	fmt.Fprint(out, prompt)

	if f, ok := in.(*os.File); ok && utils.IsTerminalInput(f) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
