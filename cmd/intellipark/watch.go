package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nerrad567/intellipark-core/internal/infrastructure/config"
	"github.com/nerrad567/intellipark-core/internal/infrastructure/logging"
	"github.com/nerrad567/intellipark-core/internal/tui"
)

func newWatchCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the gate in-process with a live terminal view",
		Long: "Runs the scheduler and orchestrator in this process and shows the gate\n" +
			"timeline and parking grid. Number keys trigger scenes.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}
			return watch(cmd.Context(), cfg)
		},
	}
}

func watch(ctx context.Context, cfg *config.Config) error {
	// Log lines would corrupt the terminal view.
	log := logging.Discard()

	eng, cleanup, err := buildEngine(ctx, cfg, log, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	notifier := tui.NewNotifier()
	eng.orchestrator.AddBroadcaster(notifier)
	defer eng.scheduler.Subscribe(notifier.OnGate)()

	go eng.orchestrator.RunRefresher(ctx, cfg.GetRefreshInterval())

	model := tui.NewModel(ctx, eng.orchestrator, notifier.C())
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("running terminal view: %w", err)
	}

	cancel()
	eng.scheduler.Cancel()
	eng.orchestrator.Wait()
	return nil
}
