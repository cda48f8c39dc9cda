package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/nerrad567/intellipark-core/internal/gate"
	"github.com/nerrad567/intellipark-core/internal/infrastructure/config"
	"github.com/nerrad567/intellipark-core/internal/infrastructure/logging"
	"github.com/nerrad567/intellipark-core/internal/scene"
)

// followGrace is added to the total stage delay when waiting for the gate.
const followGrace = 5 * time.Second

type triggerResult struct {
	Outcome scene.Outcome `json:"outcome"`
	Gate    gate.Snapshot `json:"gate"`
	Lot     scene.LotView `json:"lot"`
}

func newTriggerCmd(opts *cliOptions) *cobra.Command {
	var follow bool
	cmd := &cobra.Command{
		Use:   "trigger <scene-id>",
		Short: "Trigger one scene in-process and print the outcome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}
			return runTrigger(cmd.Context(), cmd.OutOrStdout(), cfg, args[0], follow, opts.jsonOutput)
		},
	}
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "print gate stages until the timeline finishes")
	return cmd
}

func runTrigger(ctx context.Context, w io.Writer, cfg *config.Config, id string, follow, asJSON bool) error {
	eng, cleanup, err := buildEngine(ctx, cfg, logging.Discard(), nil)
	if err != nil {
		return err
	}
	defer cleanup()

	snaps := make(chan gate.Snapshot, 16)
	unsubscribe := eng.scheduler.Subscribe(func(s gate.Snapshot) {
		select {
		case snaps <- s:
		default:
		}
	})
	defer unsubscribe()

	out, trigErr := eng.orchestrator.TriggerSync(ctx, id)
	if out.TriggerID == "" && trigErr != nil {
		return fmt.Errorf("triggering scene %s: %w", id, trigErr)
	}

	if follow {
		d := eng.scheduler.Delays()
		deadline := d.Entry + d.LotScan + d.Parking + d.Exit + followGrace
		waitForGate(ctx, w, eng.scheduler, snaps, deadline, !asJSON)
	}
	eng.scheduler.Cancel()

	if asJSON {
		if err := printJSON(w, triggerResult{
			Outcome: out,
			Gate:    eng.scheduler.Snapshot(),
			Lot:     eng.orchestrator.Lot(),
		}); err != nil {
			return err
		}
	} else {
		printOutcome(w, out)
	}
	return trigErr
}

// waitForGate blocks until the scheduler has no pending stages, ctx ends or
// timeout elapses.
func waitForGate(ctx context.Context, w io.Writer, s *gate.Scheduler, snaps <-chan gate.Snapshot, timeout time.Duration, verbose bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	last := s.Snapshot()
	if verbose {
		printStage(w, last)
	}
	for last.Pending > 0 {
		select {
		case snap := <-snaps:
			if snap.Version <= last.Version {
				continue
			}
			last = snap
			if verbose {
				printStage(w, snap)
			}
		case <-timer.C:
			return
		case <-ctx.Done():
			return
		}
	}
}

func printStage(w io.Writer, s gate.Snapshot) {
	plate := s.PlateLabel()
	if plate == "" {
		plate = "-"
	}
	fmt.Fprintf(w, "%-14s plate %s\n", s.Stage, plate)
}

func printOutcome(w io.Writer, o scene.Outcome) {
	fmt.Fprintf(w, "scene:    %s (%s)\n", o.SceneID, o.Mode)
	fmt.Fprintf(w, "result:   %s\n", o.Result)
	if o.Plate != "" {
		fmt.Fprintf(w, "plate:    %s\n", o.Plate)
	}
	if o.Error != "" {
		fmt.Fprintf(w, "error:    %s\n", o.Error)
	}
	fmt.Fprintf(w, "duration: %s\n", o.Duration.Round(time.Millisecond))
}
