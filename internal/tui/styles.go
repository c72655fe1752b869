package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	messageStyle = lipgloss.NewStyle().Bold(true).PaddingLeft(2)
)

func Info(w io.Writer, format string, a ...any) {
	fmt.Fprintln(w, infoStyle.Render(fmt.Sprintf(format, a...)))
}

func Success(w io.Writer, format string, a ...any) {
	fmt.Fprintln(w, successStyle.Render(fmt.Sprintf(format, a...)))
}

func Warn(w io.Writer, format string, a ...any) {
	fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf(format, a...)))
}

func Error(w io.Writer, format string, a ...any) {
	fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf(format, a...)))
}

// Dim prints secondary detail such as file lists.
func Dim(w io.Writer, format string, a ...any) {
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf(format, a...)))
}
