package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/notepad/internal/editor"
	"github.com/starford/notepad/internal/lifecycle"
)

// Run shows the editor in the terminal until the user quits or ctx ends.
// Cancelling ctx is not an error.
func Run(ctx context.Context, ed *editor.Editor, owner *lifecycle.Owner) error {
	p := tea.NewProgram(New(ctx, ed, owner),
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
