package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vietddude/crosspay/internal/control"
	"github.com/vietddude/crosspay/internal/core/domain"
	"github.com/vietddude/crosspay/internal/core/session"
	"github.com/vietddude/crosspay/internal/infra/storage"
)

var errInvalidCredentials = errors.New("invalid credentials")

func newAdminCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Curate the trust registry",
	}

	cmd.AddCommand(
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newAdminStatusCmd(opts),
		newCredentialsCmd(opts),
		newListCmd(opts),
		newAddCmd(opts),
		newUpdateCmd(opts),
		newRemoveCmd(opts),
		newClearCmd(opts),
	)
	return cmd
}

func newLoginCmd(opts *options) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Open a 24 hour admin session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *control.App) error {
				w := out(cmd)
				in := opts.input(cmd)
				if username == "" {
					username = readLine(in, w, "Username: ")
				}
				if password == "" {
					password = readLine(in, w, "Password: ")
				}

				ok, err := app.Gate.Login(ctx, username, password)
				if err != nil {
					return fmt.Errorf("failed to save session: %w", err)
				}
				if !ok {
					_, _ = fmt.Fprintln(w, "Invalid credentials. Please try again.")
					return errInvalidCredentials
				}
				printSession(w, app.Gate.Status(ctx))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "admin username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "admin password")
	return cmd
}

func newLogoutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the admin session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *control.App) error {
				app.Gate.Logout(ctx)
				_, _ = fmt.Fprintln(out(cmd), "Logged out")
				return nil
			})
		},
	}
}

func newAdminStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the admin session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *control.App) error {
				printSession(out(cmd), app.Gate.Status(ctx))
				return nil
			})
		},
	}
}

func newCredentialsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "credentials",
		Short: "Print the demo credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *control.App) error {
				creds := app.Gate.DemoCredentials()
				_, _ = fmt.Fprintf(out(cmd), "Demo Credentials: Username: %s | Password: %s\n", creds.Username, creds.Password)
				return nil
			})
		},
	}
}

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered addresses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *control.App) error {
				printAddresses(out(cmd), app.Panel.List(ctx))
				return nil
			})
		},
	}
}

func newAddCmd(opts *options) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "add <address> <category>",
		Short: "Register an address under a trust category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := domain.ParseCategory(args[1])
			if err != nil {
				return err
			}
			return opts.withApp(cmd, func(ctx context.Context, app *control.App) error {
				entry, err := app.Panel.Add(ctx, args[0], category, note)
				if err != nil {
					return mutationError(out(cmd), err)
				}
				_, _ = fmt.Fprintf(out(cmd), "Added %s as %s - %s\n", entry.Address, entry.Category, entry.Category.Info().Label)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&note, "note", "n", "", "optional note")
	return cmd
}

func newUpdateCmd(opts *options) *cobra.Command {
	var address, category, note string

	cmd := &cobra.Command{
		Use:   "update <address>",
		Short: "Edit a registered address",
		Long:  "Edit a registered address. Flags that are not set keep their current value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *control.App) error {
				current, ok := app.Panel.Lookup(ctx, args[0])
				if !ok {
					return fmt.Errorf("address not registered: %s", args[0])
				}

				next := current
				if cmd.Flags().Changed("address") {
					next.Address = address
				}
				if cmd.Flags().Changed("category") {
					c, err := domain.ParseCategory(category)
					if err != nil {
						return err
					}
					next.Category = c
				}
				if cmd.Flags().Changed("note") {
					next.Note = note
				}

				entry, err := app.Panel.Update(ctx, current.Address, next.Address, next.Category, next.Note)
				if err != nil {
					return mutationError(out(cmd), err)
				}
				_, _ = fmt.Fprintf(out(cmd), "Updated %s as %s - %s\n", entry.Address, entry.Category, entry.Category.Info().Label)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "new address spelling")
	cmd.Flags().StringVarP(&category, "category", "c", "", "new category (A-D)")
	cmd.Flags().StringVarP(&note, "note", "n", "", "new note")
	return cmd
}

func newRemoveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <address>",
		Short: "Delete a registered address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *control.App) error {
				if err := app.Panel.Remove(ctx, args[0]); err != nil {
					return mutationError(out(cmd), err)
				}
				_, _ = fmt.Fprintf(out(cmd), "Removed %s\n", args[0])
				return nil
			})
		},
	}
}

func newClearCmd(opts *options) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all addresses and transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *control.App) error {
				w := out(cmd)
				if !yes {
					confirmer := newPromptConfirmer(opts.input(cmd), w)
					ok, err := confirmer.ask("Delete all addresses and transactions? [y/N]: ")
					if err != nil {
						return err
					}
					if !ok {
						_, _ = fmt.Fprintln(w, "Nothing cleared.")
						return nil
					}
				}
				if err := app.Panel.ClearAll(ctx); err != nil {
					return mutationError(w, err)
				}
				_, _ = fmt.Fprintln(w, "Cleared all addresses and transactions")
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// mutationError maps admin failures to the messages shown to the user.
func mutationError(w io.Writer, err error) error {
	switch {
	case errors.Is(err, session.ErrUnauthorized):
		_, _ = fmt.Fprintln(w, "Admin login required. Run 'admin login' first.")
	case errors.Is(err, storage.ErrSaveFailed):
		_, _ = fmt.Fprintln(w, "Failed to save address. Please try again.")
	}
	return err
}

func readLine(in *bufio.Reader, w io.Writer, prompt string) string {
	_, _ = fmt.Fprint(w, prompt)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}
