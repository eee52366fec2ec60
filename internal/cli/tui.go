package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwulff/f1grid/internal/app"
)

func runTUI(rt *runtime) error {
	m := app.New(rt.newLoader(), app.Options{FlagURL: rt.cfg.FlagURL})
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
