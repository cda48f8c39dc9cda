package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nerrad567/intellipark-core/internal/infrastructure/config"
	"github.com/nerrad567/intellipark-core/internal/parking"
)

func newPlateCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "plate <plate>",
		Short: "Show the latest session for a plate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}
			return runPlate(cmd.Context(), cmd.OutOrStdout(), cfg, args[0], opts.jsonOutput)
		},
	}
}

func runPlate(ctx context.Context, w io.Writer, cfg *config.Config, plate string, asJSON bool) error {
	normalized := parking.NormalizePlate(plate)
	if strings.Trim(normalized, "-") == "" {
		return fmt.Errorf("invalid plate %q", plate)
	}

	session, err := newBackend(cfg).LatestForPlate(ctx, normalized)
	if err != nil {
		return fmt.Errorf("looking up plate %s: %w", normalized, err)
	}
	if session == nil {
		return fmt.Errorf("no session for plate %s", normalized)
	}

	if asJSON {
		return printJSON(w, session)
	}
	spot := "-"
	if n := session.DisplaySpot(); n != nil {
		spot = fmt.Sprintf("P%d", *n)
	}
	fmt.Fprintf(w, "plate:   %s\n", session.Plate)
	fmt.Fprintf(w, "session: %d\n", session.SessionID)
	fmt.Fprintf(w, "status:  %s\n", parking.DisplayStatus(session.Status))
	fmt.Fprintf(w, "spot:    %s\n", spot)
	if session.EntryTime != "" {
		fmt.Fprintf(w, "entry:   %s\n", session.EntryTime)
	}
	if session.ExitTime != "" {
		fmt.Fprintf(w, "exit:    %s\n", session.ExitTime)
	}
	return nil
}
