package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "114"})
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"})
	faintStyle = lipgloss.NewStyle().Faint(true)
)

func printOK(format string, args ...any) {
	fmt.Println(okStyle.Render("✓ " + fmt.Sprintf(format, args...)))
}

func printFail(format string, args ...any) {
	fmt.Println(errStyle.Render("✗ " + fmt.Sprintf(format, args...)))
}

// printField prints an aligned "Label: value" line.
func printField(label, format string, args ...any) {
	fmt.Printf("%s %s\n", faintStyle.Render(fmt.Sprintf("%-11s", label+":")), fmt.Sprintf(format, args...))
}
