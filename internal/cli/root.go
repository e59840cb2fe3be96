// Package cli implements the logistics-console command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/dig"

	"logistics-console/internal/app"
	"logistics-console/internal/apperr"
	"logistics-console/internal/config"
	"logistics-console/internal/domain"
	"logistics-console/internal/gateway/backend"
)

// Options configures the command tree.
type Options struct {
	Out io.Writer
	Err io.Writer
	// Builder assembles the container; app.NewContainerBuilder when nil.
	Builder func(cfg *config.Config) *app.ContainerBuilder
}

type runtime struct {
	cfg       *config.Config
	opts      Options
	container *dig.Container
	console   *app.Console
}

func (rt *runtime) build(ctx context.Context) (*dig.Container, error) {
	if rt.container != nil {
		return rt.container, nil
	}
	c, err := rt.opts.Builder(rt.cfg).Build(ctx)
	if err != nil {
		return nil, err
	}
	rt.container = c
	return c, nil
}

// use resolves the wired services, once per process.
func (rt *runtime) use(cmd *cobra.Command) (app.Console, error) {
	if rt.console != nil {
		return *rt.console, nil
	}
	c, err := rt.build(cmd.Context())
	if err != nil {
		return app.Console{}, err
	}
	console, err := app.ConsoleFrom(c)
	if err != nil {
		return app.Console{}, err
	}
	rt.console = &console
	return console, nil
}

func (rt *runtime) close() {
	if rt.console != nil {
		rt.console.Close()
		rt.console = nil
	}
}

// Execute runs the command line in args and prints failures to opts.Err.
func Execute(ctx context.Context, opts Options, args []string) error {
	root, rt, err := newRoot(opts)
	if err != nil {
		return err
	}
	defer rt.close()

	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(rt.opts.Err, "error:", Describe(err))
		return err
	}
	return nil
}

func newRoot(opts Options) (*cobra.Command, *runtime, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, nil, err
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.Builder == nil {
		opts.Builder = app.NewContainerBuilder
	}
	rt := &runtime{cfg: cfg, opts: opts}

	root := &cobra.Command{
		Use:           "logistics-console",
		Short:         "Operate the logistics backend from the terminal or a local dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return cfg.Validate()
		},
	}
	root.SetOut(opts.Out)
	root.SetErr(opts.Err)
	cfg.BindFlags(root.PersistentFlags())

	root.AddCommand(
		newLoginCommand(rt),
		newLogoutCommand(rt),
		newRegisterCommand(rt),
		newWhoamiCommand(rt),
		newOrdersCommand(rt),
		newCarriersCommand(rt),
		newRoutesCommand(rt),
		newLocationsCommand(rt),
		newServeCommand(rt),
	)
	return root, rt, nil
}

// Describe renders err the way the console shows it to the user.
func Describe(err error) string {
	var fe domain.FieldErrors
	if errors.As(err, &fe) {
		keys := make([]string, 0, len(fe))
		for k := range fe {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteString("invalid input")
		for _, k := range keys {
			fmt.Fprintf(&b, "\n  %s: %s", k, fe[k])
		}
		return b.String()
	}
	if errors.Is(err, apperr.ErrUnauthenticated) {
		if f, ok := backend.AsFailure(err); ok && f.Kind == backend.KindAuthExpired {
			return backend.AuthExpiredMessage + ": run `logistics-console login`"
		}
		return "not signed in: run `logistics-console login`"
	}
	if msg := apperr.MessageOf(err, ""); msg != "" {
		return msg
	}
	if f, ok := backend.AsFailure(err); ok {
		return f.UserMessage(err.Error())
	}
	return err.Error()
}

func newServeCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API on the configured port",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := rt.build(cmd.Context())
			if err != nil {
				return err
			}
			return app.Run(c)
		},
	}
}
