package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nerrad567/intellipark-core/internal/infrastructure/config"
	"github.com/nerrad567/intellipark-core/internal/infrastructure/logging"
)

// defaultConfigPath is used when neither --config nor INTELLIPARK_CONFIG is set.
const defaultConfigPath = "configs/config.yaml"

// cliOptions holds the persistent flags.
type cliOptions struct {
	configPath string
	jsonOutput bool
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:           "intellipark",
		Short:         "Timed gate staging and lot occupancy service",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", getConfigPath(), "path to config.yaml")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "output as JSON")

	root.AddCommand(
		newServeCmd(opts),
		newWatchCmd(opts),
		newTriggerCmd(opts),
		newLotCmd(opts),
		newPlateCmd(opts),
		newAllowedCmd(opts),
	)
	return root
}

// getConfigPath returns INTELLIPARK_CONFIG or the default path.
func getConfigPath() string {
	if path := os.Getenv(config.EnvPrefix + "CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// load reads the configuration and builds the logger it describes.
func (o *cliOptions) load() (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, logging.New(cfg.Logging, version), nil
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}
