package main

import (
	"errors"
	"fmt"

	"github.com/matsen/refdoi/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set values in the global config file.

Usage:
  refdoi config                            # Show all config
  refdoi config mailto                     # Get specific value
  refdoi config mailto me@university.edu   # Set value
  refdoi config timeout ""                 # Clear value

Keys:
  mailto        Contact email sent to Crossref for the polite pool
  crossref-url  Crossref works endpoint (default https://api.crossref.org/works)
  timeout       Per-request timeout in seconds (default 30)

Environment variables REFDOI_MAILTO, REFDOI_CROSSREF_URL and
REFDOI_TIMEOUT_SECONDS (also read from .env) override the file; command
line flags override both.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	// No args: show all config
	if len(args) == 0 {
		values := cfg.Values()
		if humanOutput {
			fmt.Printf("# %s\n", config.GlobalConfigPath())
			for _, k := range config.Keys {
				fmt.Printf("%-13s %s\n", k+":", values[k])
			}
			return nil
		}
		return outputJSON(values)
	}

	key := config.NormalizeKey(args[0])

	// One arg: get specific value
	if len(args) == 1 {
		value, err := cfg.Get(key)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		if humanOutput {
			fmt.Println(value)
			return nil
		}
		return outputJSON(map[string]string{key: value})
	}

	// Two args: set value
	value := args[1]
	if err := cfg.Set(key, value); err != nil {
		code := ExitConfigError
		if errors.Is(err, config.ErrUnknownKey) {
			code = ExitError
		}
		exitWithError(code, "%v", err)
	}
	if err := cfg.Save(); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Updated %s to %s\n", key, value)
		return nil
	}
	return outputJSON(UpdateResponse{
		Status: "updated",
		Key:    key,
		Value:  value,
	})
}
