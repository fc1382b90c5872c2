package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/lumen/internal/apperr"
	"github.com/dshills/lumen/internal/prompt"
	"github.com/dshills/lumen/internal/providers"
	"github.com/dshills/lumen/internal/stream"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Provider and model management",
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List providers and their known models",
	Args:  usageArgs(cobra.NoArgs),
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, v := range providers.Variants {
			key := "no API key"
			if v.RequiresAPIKey() {
				key = "API key required"
			}
			fmt.Fprintf(out, "%s (%s):\n", v, key)
			for i, m := range v.KnownModels() {
				suffix := ""
				if i == 0 {
					suffix = " (default)"
				}
				fmt.Fprintf(out, "  - %s%s\n", m, suffix)
			}
			fmt.Fprintln(out)
		}
	},
}

var pingConversation = prompt.Conversation{
	{Role: prompt.RoleSystem, Text: "Respond with exactly: ok"},
	{Role: prompt.RoleUser, Text: "ping"},
}

var modelsDoctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Validate the configured provider by sending a short request",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, pcfg, err := loadProvider()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Checking %s (model %s)...\n", pcfg.Variant, pcfg.Model)

		client := providers.NewClient(pcfg, httpClient, newLogger(cmd.ErrOrStderr()))
		reply, err := stream.Collect(client.Stream(cmd.Context(), pingConversation), nil)
		if err != nil {
			return err
		}
		if strings.TrimSpace(reply) == "" {
			return apperr.Protocol(0, "%s returned an empty reply", pcfg.Variant)
		}
		fmt.Fprintf(out, "OK: %s is configured and responding\n", pcfg.Variant)
		return nil
	},
}

func init() {
	modelsCmd.AddCommand(modelsListCmd)
	modelsCmd.AddCommand(modelsDoctorCmd)
}
