package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	helpKeyStyle  = lipgloss.NewStyle().Bold(true)
	helpDescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	toastOK       = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("42")).Padding(0, 1)
	toastErr      = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("160")).Padding(0, 1)
	loadingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

// View renders the screen.
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("Loading note...")
	}

	var b strings.Builder
	b.WriteString(m.textarea.View())
	b.WriteString("\n")
	b.WriteString(m.toastView())
	b.WriteString("\n")
	b.WriteString(m.helpView())
	return b.String()
}

func (m Model) toastView() string {
	if m.toast == nil {
		return ""
	}
	if m.toast.isError {
		return toastErr.Render(m.toast.message)
	}
	return toastOK.Render(m.toast.message)
}

func (m Model) helpView() string {
	parts := make([]string, 0, len(m.keys.help()))
	for _, b := range m.keys.help() {
		h := b.Help()
		parts = append(parts, helpKeyStyle.Render(h.Key)+" "+helpDescStyle.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}
