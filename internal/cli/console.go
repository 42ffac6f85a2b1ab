package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vietddude/crosspay/internal/control"
	"github.com/vietddude/crosspay/internal/health"
)

const consoleHelp = `Commands:
  send <address> <amount> [--yes]     simulate a payment
  lookup <address>                    show the trust category of an address
  history                             list recorded payments
  categories                          describe the trust categories
  admin login|logout|status|credentials
  admin list|add|update|remove|clear  curate the registry
  help                                show this help
  exit                                leave the console`

func newConsoleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Start an interactive session",
		Long: `Start an interactive session over one open store. When server.port is
set, /health, /health/detailed and /metrics are served on localhost while
the console runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(ctx)

			return opts.withApp(cmd, func(ctx context.Context, app *control.App) error {
				return runConsole(ctx, cmd, opts, app)
			})
		},
	}
}

func runConsole(ctx context.Context, cmd *cobra.Command, opts *options, app *control.App) error {
	w := out(cmd)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts.app = app
	opts.stdin = bufio.NewReader(cmd.InOrStdin())
	defer func() {
		opts.app = nil
		opts.stdin = nil
	}()

	if port := opts.cfg.Server.Port; port > 0 {
		srv := health.NewServer(app.Health, port)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Health server failed", "error", err)
			}
		}()
		slog.Info("Health server listening", "port", port)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Stop(shutdownCtx); err != nil {
				slog.Error("Error during health server shutdown", "error", err)
			}
		}()
	}

	_, _ = fmt.Fprintln(w, "CrossPay Trust console. Type 'help' for commands, 'exit' to quit.")
	for {
		if ctx.Err() != nil {
			return nil
		}
		_, _ = fmt.Fprint(w, "crosspay> ")

		line, err := opts.stdin.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		eof := errors.Is(err, io.EOF)

		fields, perr := splitArgs(line)
		switch {
		case perr != nil:
			_, _ = fmt.Fprintf(w, "Error: %v\n", perr)
		case len(fields) == 0:
		case fields[0] == "exit" || fields[0] == "quit":
			return nil
		case fields[0] == "help":
			_, _ = fmt.Fprintln(w, consoleHelp)
		default:
			if err := runLine(ctx, cmd, opts, fields); err != nil {
				_, _ = fmt.Fprintf(w, "Error: %v\n", err)
			}
		}

		if eof {
			_, _ = fmt.Fprintln(w)
			return nil
		}
	}
}

// runLine executes one console line against a fresh command tree, so flag
// values never leak from one line into the next.
func runLine(ctx context.Context, parent *cobra.Command, opts *options, args []string) error {
	root := &cobra.Command{
		Use:           "crosspay",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCommands(opts)...)
	root.SetArgs(args)
	root.SetIn(opts.stdin)
	root.SetOut(parent.OutOrStdout())
	root.SetErr(parent.ErrOrStderr())
	return root.ExecuteContext(ctx)
}

// splitArgs splits a console line into words. Single or double quotes group
// words containing spaces.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quote   rune
		inWord  bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if inWord {
				args = append(args, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 {
		return nil, errors.New("unterminated quote")
	}
	if inWord {
		args = append(args, current.String())
	}
	return args, nil
}
