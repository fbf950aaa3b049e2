package cmd

import (
	"viterbit-gateway/internal/infrastructure/adapter/console"

	"github.com/spf13/cobra"
)

// consoleCmd represents the console command.
var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive console for a running gateway",
	Long: `Connect to a running gateway and issue tool calls interactively.

The console lists the gateway's catalog with tab completion, shows each
tool's argument schema and prints call results. Command history persists
across sessions.

Example:
  viterbit-gateway console
  viterbit-gateway console --url http://gateway.internal:8000 --api-key secret

Press Ctrl+C twice to exit.`,
	RunE: runConsole,
}

func init() {
	rootCmd.AddCommand(consoleCmd)

	consoleCmd.Flags().String("url", "http://localhost:8000", "Base URL of the gateway")
	consoleCmd.Flags().String("api-key", "", "API key sent in the X-API-Key header")
	consoleCmd.Flags().String("history", "~/.viterbit-gateway_history", "Command history file (empty disables persistence)")
}

// runConsole executes the console command.
func runConsole(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := GetConfig(cmd)

	url, _ := cmd.Flags().GetString("url")
	apiKey, _ := cmd.Flags().GetString("api-key")
	historyFile, _ := cmd.Flags().GetString("history")

	// Fall back to the first configured gateway key so a console on the
	// gateway host works without repeating the credential.
	if apiKey == "" && cfg != nil && len(cfg.APIKeys) > 0 {
		apiKey = cfg.APIKeys[0]
	}

	client := console.NewClient(url, apiKey)
	history := console.NewHistory(historyFile, console.DefaultHistoryLimit)

	repl := console.NewREPL(client, history, InterruptHandlerFromContext(ctx))
	return repl.Run(ctx)
}
