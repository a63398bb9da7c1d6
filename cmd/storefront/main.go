// Command storefront is a terminal client for the Star Mobiles relay. It
// drives the same client stores a browser front end would.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"starmobiles/config"
	"starmobiles/internal/client/store"
	logs "starmobiles/internal/infra/log"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type app struct {
	localStorePath string
	sf             *store.Storefront
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           "storefront",
		Short:         "Shop at Star Mobiles from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd.Context())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}
	cmd.PersistentFlags().StringVar(&a.localStorePath, "local-store", "", "Session file (defaults to the config value, then the user config dir)")

	cmd.AddCommand(
		newLoginCommand(a),
		newLogoutCommand(a),
		newSignupCommand(a),
		newWhoamiCommand(a),
		newOTPCommand(a),
		newPasswordCommand(a),
		newProfileCommand(a),
		newProductsCommand(a),
		newCartCommand(a),
		newBookingsCommand(a),
		newOrdersCommand(a),
		newServicesCommand(a),
		newHealthCommand(a),
		newDevicesCommand(a),
		newAdminCommand(a),
	)

	return cmd
}

// open loads storefront.yaml, opens the session file and restores any
// saved session.
func (a *app) open(ctx context.Context) error {
	cfg, err := config.NewClient()
	if err != nil {
		return errors.Wrap(err, "failed to load storefront config")
	}

	switch {
	case a.localStorePath != "":
		cfg.LocalStore.Path = a.localStorePath
	case cfg.LocalStore.Path == "":
		dir, err := os.UserConfigDir()
		if err != nil {
			return errors.Wrap(err, "failed to locate user config dir")
		}
		cfg.LocalStore.Path = filepath.Join(dir, "starmobiles", "session.db")
	}

	logger, err := logs.NewWithWriter(os.Stderr, cfg.Log)
	if err != nil {
		return err
	}

	sf, err := store.Open(cfg, logger)
	if err != nil {
		return err
	}
	a.sf = sf
	a.sf.Init(ctx)

	return nil
}

func (a *app) close() error {
	if a.sf == nil {
		return nil
	}

	return a.sf.Close()
}

// report prints a store result and turns a failure into an error.
func report(ok bool, message string) error {
	if !ok {
		return errors.New(message)
	}
	if message != "" {
		fmt.Println(message)
	}

	return nil
}

func (a *app) requireSession() error {
	if !a.sf.Session.Authenticated() {
		return errors.New("not logged in, run `storefront login` first")
	}

	return nil
}
