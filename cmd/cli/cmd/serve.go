package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"viterbit-gateway/internal/infrastructure/config"

	"github.com/spf13/cobra"
)

// serveCmd represents the serve command.
//
//nolint:gochecknoglobals // cobra command pattern requires global variable
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the tool gateway server",
	Long: `Start the HTTP server exposing the Viterbit tool catalog.

The server exposes endpoints for:
- Service discovery: GET /
- Health checks: GET /health
- Tool catalog: GET /tools
- Tool dispatch: POST /tools/call
- Catalog stream: GET /sse (Server-Sent Events)

Example:
  viterbit-gateway serve --addr :8000
  viterbit-gateway serve --lookup-file config/lookups.yaml

All endpoints except / and /health require the X-API-Key header when
GATEWAY_API_KEYS is set. An empty key set disables authentication.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	// Set the serve function so rootCmd can delegate to it
	executeServe = runServe

	serveCmd.Flags().String("addr", ":8000", "Address to listen on (e.g., :8000, 0.0.0.0:9000)")
	serveCmd.Flags().String("lookup-file", "lookups.yaml", "Path to the tenant lookup tables YAML file")
}

// runServe executes the serve command.
func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := GetConfig(cmd)

	// Command flags take precedence over environment configuration
	if cmd.Flags().Changed("addr") {
		cfg.Addr, _ = cmd.Flags().GetString("addr")
	}
	if cmd.Flags().Changed("lookup-file") {
		cfg.LookupFile, _ = cmd.Flags().GetString("lookup-file")
	}

	// Initialize the dependency container
	container, err := config.NewContainer(cfg)
	if err != nil {
		return err
	}

	adapter := container.GatewayAdapter()
	slog.Info("gateway initialized", "tools", container.InvocationUseCase().OperationCount())

	// Print startup info
	fmt.Printf("Starting gateway on %s\n", cfg.Addr)
	fmt.Printf("Discovery: GET  http://localhost%s/\n", cfg.Addr)
	fmt.Printf("Health:    GET  http://localhost%s/health\n", cfg.Addr)
	fmt.Printf("Catalog:   GET  http://localhost%s/tools\n", cfg.Addr)
	fmt.Printf("Dispatch:  POST http://localhost%s/tools/call\n", cfg.Addr)
	fmt.Printf("Stream:    GET  http://localhost%s/sse\n", cfg.Addr)
	fmt.Println("Press Ctrl+C to stop")

	// First Ctrl+C starts a graceful drain; a second press inside the
	// confirmation window abandons it.
	handler := InterruptHandlerFromContext(ctx)
	if handler != nil {
		go func() {
			<-handler.FirstPress()
			fmt.Println("\nInitiating graceful shutdown, press Ctrl+C again to force exit")
		}()
		go func() {
			<-handler.Context().Done()
			os.Exit(1)
		}()
	}

	// Start the gateway server (blocks until context cancelled)
	if err := adapter.Start(ctx); err != nil {
		return err
	}

	fmt.Println("Server stopped")
	return nil
}
