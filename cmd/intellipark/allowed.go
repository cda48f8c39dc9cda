package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var errPlateRequired = errors.New("plate is required")

func newAllowedCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "allowed",
		Short: "Manage the backend's allowed-plate list",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List allowed plates",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, _, err := opts.load()
				if err != nil {
					return err
				}
				cars, err := newBackend(cfg).AllowedList(cmd.Context())
				if err != nil {
					return fmt.Errorf("listing allowed plates: %w", err)
				}
				if opts.jsonOutput {
					return printJSON(cmd.OutOrStdout(), cars)
				}
				for _, c := range cars {
					fmt.Fprintln(cmd.OutOrStdout(), c.Plate)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "add <plate>",
			Short: "Allow a plate",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, _, err := opts.load()
				if err != nil {
					return err
				}
				plate := strings.TrimSpace(args[0])
				if plate == "" {
					return errPlateRequired
				}
				if err := newBackend(cfg).AllowedAdd(cmd.Context(), plate); err != nil {
					return fmt.Errorf("adding %s: %w", plate, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", plate)
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <plate>",
			Short: "Remove a plate from the allowed list",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, _, err := opts.load()
				if err != nil {
					return err
				}
				plate := strings.TrimSpace(args[0])
				if plate == "" {
					return errPlateRequired
				}
				if err := newBackend(cfg).AllowedRemove(cmd.Context(), plate); err != nil {
					return fmt.Errorf("removing %s: %w", plate, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", plate)
				return nil
			},
		},
	)
	return cmd
}
