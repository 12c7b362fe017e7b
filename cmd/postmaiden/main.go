package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/blackcoderx/postmaiden/pkg/app"
	"github.com/blackcoderx/postmaiden/pkg/config"
	"github.com/blackcoderx/postmaiden/pkg/errs"
	"github.com/blackcoderx/postmaiden/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile string
	cfg     *config.Config
	log     *zap.Logger

	rootCmd = &cobra.Command{
		Use:   "postmaiden",
		Short: "Postmaiden - keep and run HTTP request specs from your terminal",
		Long: `Postmaiden stores projects of HTTP request specs in a private directory,
one JSON file per project, and lets you edit and run them from the command line.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			l, err := logger.New(loaded.Log.Level, loaded.Log.Format)
			if err != nil {
				return err
			}
			cfg, log = loaded, l
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/postmaiden/config.yaml)")
}

// openApp builds the App for the configured store. An unsupported store is
// reported with a blocking notice and nothing else runs.
func openApp() (*app.App, error) {
	a, err := app.New(cfg, log)
	if err != nil {
		if errs.IsCode(err, errs.CodeUnsupported) {
			fmt.Fprintln(os.Stderr, blockingNotice(
				"Storage unavailable",
				"Postmaiden cannot write to "+cfg.Storage.Dir+".\nCheck storage.dir and storage.readonly in your configuration."))
		}
		return nil, err
	}
	return a, nil
}

// openAndClaim opens the App and claims the store for this process before a write.
func openAndClaim(ctx context.Context) (*app.App, error) {
	a, err := openApp()
	if err != nil {
		return nil, err
	}
	if err := a.Guard.Activate(ctx); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to claim the session: %w", err)
	}
	return a, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("error: ")+describeError(err))
		os.Exit(1)
	}
}
