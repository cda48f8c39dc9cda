package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nerrad567/intellipark-core/internal/infrastructure/config"
	"github.com/nerrad567/intellipark-core/internal/parking"
)

type lotResult struct {
	Spots []parking.Spot `json:"spots"`
	Stats parking.Stats  `json:"stats"`
	Full  bool           `json:"full"`
}

func newLotCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lot",
		Short: "Fetch sessions from the backend and print the spot grid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}
			return runLot(cmd.Context(), cmd.OutOrStdout(), cfg, opts.jsonOutput)
		},
	}
}

func runLot(ctx context.Context, w io.Writer, cfg *config.Config, asJSON bool) error {
	sessions, err := newBackend(cfg).Sessions(ctx)
	if err != nil {
		return fmt.Errorf("fetching sessions: %w", err)
	}
	spots := parking.DeriveSpots(cfg.Lot.TotalSpots, sessions)
	stats := parking.DeriveStats(spots)

	if asJSON {
		return printJSON(w, lotResult{Spots: spots, Stats: stats, Full: stats.Full()})
	}
	printLot(w, spots, stats)
	return nil
}

func printLot(w io.Writer, spots []parking.Spot, stats parking.Stats) {
	for _, s := range spots {
		if s.Occupied {
			fmt.Fprintf(w, "P%-3d %-12s %s\n", s.Spot, s.Plate, parking.DisplayStatus(s.Status))
			continue
		}
		fmt.Fprintf(w, "P%-3d %-12s %s\n", s.Spot, "-", parking.StatusEmpty)
	}
	fmt.Fprintf(w, "total %d  taken %d  empty %d\n", stats.Total, stats.Taken, stats.Empty)
	if stats.Full() {
		fmt.Fprintln(w, "FULL")
	}
}
