package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Sumatoshi-tech/codefolio/internal/watch"
)

// Run starts the explorer in the alternate screen. When store is non-nil,
// every snapshot swapped into it is forwarded to the program.
func Run(ctx context.Context, m Model, store *watch.Store) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if store != nil {
		store.Subscribe(func(snap *watch.Snapshot) {
			p.Send(SnapshotMsg{Snapshot: snap})
		})
	}

	_, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}

		return fmt.Errorf("run explorer: %w", err)
	}

	return nil
}
