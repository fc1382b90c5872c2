package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	hashStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

// ErrorLine renders err as a single line with a red "error:" marker.
// Line breaks inside the message are folded into spaces.
func ErrorLine(err error) string {
	return errorStyle.Render("error:") + " " + strings.Join(strings.Fields(err.Error()), " ")
}

// PrintError writes ErrorLine(err) and a newline to w.
func PrintError(w io.Writer, err error) {
	fmt.Fprintln(w, ErrorLine(err))
}
