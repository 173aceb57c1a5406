package cmd

import (
	"fmt"
	"io"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/shelf/internal/config"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and write persisted settings",
	Long: heredoc.Doc(`
		Read and write settings in the data config file. Settings written here
		are merged under any shelf.json found in the working directory.
	`),
	Example: heredoc.Doc(`
		# Show the persisted overscan
		shelf config get options.overscan

		# Use a catalog by default
		shelf config set catalog ~/shop/products.json

		# Values that parse as JSON are stored as JSON
		shelf config set options.thumbnails '{"threshold": [0, 0.5]}'
	`),
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print a persisted setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setupConfig(cmd)
		if err != nil {
			return err
		}
		return runConfigGet(cmd.OutOrStdout(), cfg, args[0])
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Persist a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setupConfig(cmd)
		if err != nil {
			return err
		}
		return runConfigSet(cmd.OutOrStdout(), cfg, args[0], args[1])
	},
}

func init() {
	configCmd.AddCommand(configGetCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigGet(w io.Writer, cfg *config.Config, key string) error {
	value, ok, err := cfg.GetConfigField(key)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s is not set in %s", key, cfg.DataConfigPath())
	}
	fmt.Fprintln(w, value)
	return nil
}

func runConfigSet(w io.Writer, cfg *config.Config, key, raw string) error {
	if err := cfg.SetConfigField(key, parseConfigValue(raw)); err != nil {
		return err
	}
	fmt.Fprintf(w, "Set %s in %s\n", key, cfg.DataConfigPath())
	return nil
}

// parseConfigValue keeps numbers, booleans, objects and arrays typed. Anything
// else is stored as a plain string.
func parseConfigValue(raw string) any {
	if gjson.Valid(raw) {
		return gjson.Parse(raw).Value()
	}
	return raw
}
