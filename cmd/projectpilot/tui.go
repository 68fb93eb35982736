package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhle/projectpilot/internal/app"
	"github.com/nhle/projectpilot/internal/logging"
)

func runTUI(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer e.Close()

	m := app.New(e.store, app.Options{
		Reminders: e.reminders,
		Log:       logging.ForComponent(e.log, "ui"),
	})
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running terminal UI: %w", err)
	}
	return nil
}
