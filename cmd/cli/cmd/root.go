package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"viterbit-gateway/internal/infrastructure/config"
	signalhandler "viterbit-gateway/internal/infrastructure/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// interruptConfirmWindow is how long a first Ctrl+C stays armed before a
// second press is treated as confirmation.
const interruptConfirmWindow = 2 * time.Second

// global config shared between commands.
var cfg *config.Config

type configKey struct{}

func contextWithConfig(ctx context.Context, c *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, c)
}

func configFromContext(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return nil
}

type interruptKey struct{}

func contextWithInterruptHandler(ctx context.Context, h *signalhandler.InterruptHandler) context.Context {
	return context.WithValue(ctx, interruptKey{}, h)
}

// InterruptHandlerFromContext retrieves the interrupt handler installed by
// Execute. Commands run outside Execute, such as in tests, get nil.
func InterruptHandlerFromContext(ctx context.Context) *signalhandler.InterruptHandler {
	if h, ok := ctx.Value(interruptKey{}).(*signalhandler.InterruptHandler); ok {
		return h
	}
	return nil
}

// executeServe is the function that runs the gateway server loop.
// This is set by serve.go during initialization.
var executeServe func(cmd *cobra.Command, args []string) error

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "viterbit-gateway",
	Short: "HTTP/SSE gateway for Viterbit recruitment tools",
	Long: `Viterbit Tool Gateway exposes a catalog of recruitment operations
backed by the Viterbit API over HTTP and Server-Sent Events.

Clients list the catalog at GET /tools, invoke an operation at
POST /tools/call and follow catalog updates at GET /sse. Requests
authenticate with the X-API-Key header when keys are configured.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load configuration
		cfg = config.LoadConfig()

		setupLogging(cfg.LogLevel)

		// Store config in command context and package variable
		cmd.SetContext(contextWithConfig(cmd.Context(), cfg))

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Run the serve command by default
		if executeServe != nil {
			return executeServe(cmd, args)
		}
		return errors.New("serve functionality not initialized")
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Track repeated interrupts so commands can offer a forced exit
	handler := signalhandler.NewInterruptHandler(interruptConfirmWindow)
	handler.Start()
	defer handler.Stop()

	// Update root command context
	rootCmd.SetContext(contextWithInterruptHandler(ctx, handler))

	return rootCmd.Execute()
}

// GetConfig retrieves the configuration from the command context.
func GetConfig(cmd *cobra.Command) *config.Config {
	// First try context, fall back to package variable
	if c := configFromContext(cmd.Context()); c != nil {
		return c
	}
	return cfg
}

// setupLogging installs the default slog logger at the configured level.
func setupLogging(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})))
}

func init() {
	// Define flags
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	// Bind flags to viper
	if err := viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind log-level flag: %v\n", err)
	}
}
