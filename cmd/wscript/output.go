// cmd/wscript/output.go
//
// ROLE: Terminal output styling shared by the subcommands.
//
// Styles apply only when stdout is a real terminal; piped output stays
// plain so the CLI composes with grep and friends.

package main

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	wscript "github.com/Elastic-Softworks/worldenv-sub006"
)

var (
	styleError = lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C")).Bold(true)
	styleWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F4D03F"))
	styleInfo  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5DADE2"))
	styleOK    = lipgloss.NewStyle().Foreground(lipgloss.Color("#2ECC71"))
	styleMuted = lipgloss.NewStyle().Faint(true)
)

var colorEnabled = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

func paint(st lipgloss.Style, s string) string {
	if !colorEnabled {
		return s
	}
	return st.Render(s)
}

func styleFor(d wscript.Diagnostic) lipgloss.Style {
	switch d.Severity {
	case wscript.SeverityWarning:
		return styleWarn
	case wscript.SeverityInfo:
		return styleInfo
	default:
		return styleError
	}
}

// renderDiagnostic produces the caret-snippet form of a diagnostic, with the
// severity-appropriate color when attached to a terminal.
func renderDiagnostic(src, name string, d wscript.Diagnostic) string {
	return paint(styleFor(d), wscript.FormatDiagnostic(src, name, d))
}
