package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/lumen/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage lumen configuration",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value (provider, api_key, model, redact_secrets)",
	Args:  usageArgs(cobra.ExactArgs(2)),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Stored()
		if err != nil {
			return err
		}
		if err := config.SetField(&cfg, args[0], args[1]); err != nil {
			return err
		}
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		shown, _ := config.Field(cfg, args[0])
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], shown)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if path, err := config.ConfigPath(); err == nil {
			fmt.Fprintf(out, "# %s\n", path)
		}
		for _, key := range config.Keys {
			v, _ := config.Field(cfg, key)
			fmt.Fprintf(out, "%-15s %s\n", key, v)
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)
}
