package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/vietddude/crosspay/internal/control"
	"github.com/vietddude/crosspay/internal/core/config"
	"github.com/vietddude/stylelog"
)

// options are the persistent flags shared by every command.
type options struct {
	cfgPath string
	isDebug bool
	cfg     *config.AppConfig

	// Set by the console so every line shares one store and one reader.
	app   *control.App
	stdin *bufio.Reader
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "crosspay",
		Short: "CrossPay Trust demo payment simulator",
		Long: `CrossPay Trust simulates payments to addresses classified against a
curated trust registry. Nothing is transferred: payments are recorded in a
local store only.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.cfgPath, "config", "config.yaml", "config file (default is config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&opts.isDebug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newCommands(opts)...)
	rootCmd.AddCommand(newConsoleCmd(opts))
	return rootCmd
}

// newCommands returns the commands shared by the CLI and the console.
func newCommands(opts *options) []*cobra.Command {
	return []*cobra.Command{
		newSendCmd(opts),
		newLookupCmd(opts),
		newHistoryCmd(opts),
		newCategoriesCmd(),
		newAdminCmd(opts),
	}
}

func (o *options) init() error {
	_ = godotenv.Load()

	cfg, err := config.LoadOrDefault(o.cfgPath)
	if err != nil {
		stylelog.InitDefault()
		return fmt.Errorf("failed to load config: %w", err)
	}
	o.cfg = cfg

	// Setup logging
	slogLevel := slog.LevelWarn
	switch {
	case o.isDebug || cfg.Logging.Level == "debug":
		slogLevel = slog.LevelDebug
	case cfg.Logging.Level == "info":
		slogLevel = slog.LevelInfo
	case cfg.Logging.Level == "error":
		slogLevel = slog.LevelError
	}

	stylelog.InitDefault(&tint.Options{
		Level:      slogLevel,
		TimeFormat: time.RFC3339,
	})
	slog.Debug("Logger initialized", "level", slogLevel.String(), "config", o.cfgPath)
	return nil
}

// openApp wires the services for one command invocation.
func (o *options) openApp(ctx context.Context) (*control.App, error) {
	app, err := control.NewApp(ctx, control.NewConfig(o.cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize app: %w", err)
	}
	return app, nil
}

// withApp runs fn with a wired App and closes it afterwards.
func (o *options) withApp(cmd *cobra.Command, fn func(ctx context.Context, app *control.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if o.app != nil {
		return fn(ctx, o.app)
	}
	app, err := o.openApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			slog.Warn("Failed to close store", "error", err)
		}
	}()
	return fn(ctx, app)
}

// input returns the reader prompts read answers from.
func (o *options) input(cmd *cobra.Command) *bufio.Reader {
	if o.stdin != nil {
		return o.stdin
	}
	return bufio.NewReader(cmd.InOrStdin())
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
