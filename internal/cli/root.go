// Package cli is the fraudeye command line: it drives the dashboard and
// extension components for scripting and serves the local dashboard.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/raysh454/fraudeye/internal/app"
	"github.com/raysh454/fraudeye/internal/config"
	"github.com/raysh454/fraudeye/internal/logging"
)

// NewRootCmd creates the root command for fraudeye.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fraudeye",
		Short: "Check news and web text for credibility with FraudEye",
		Long: `fraudeye talks to a FraudEye backend the way the dashboard and the browser
extension do. It can sign in, submit text for analysis, list scan history,
run the extension's auto-scan and popup against a page, and serve the local
dashboard API.

Configuration is read from $XDG_CONFIG_HOME/fraudeye/config.yaml (or --config),
then .env and FRAUDEYE_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to a config file (default $XDG_CONFIG_HOME/fraudeye/config.yaml)")
	cmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (overrides config)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewLoginCmd())
	cmd.AddCommand(NewRegisterCmd())
	cmd.AddCommand(NewLogoutCmd())
	cmd.AddCommand(NewWhoamiCmd())
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewAutoscanCmd())
	cmd.AddCommand(NewPopupCmd())
	cmd.AddCommand(NewConfigCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig applies --config and --log-level.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	return cfg, nil
}

// newLogger logs to stderr so command output on stdout stays clean.
func newLogger(cfg *config.Config, w io.Writer) logging.Logger {
	return logging.NewStdoutLogger("fraudeye").
		SetOutput(w).
		SetLevel(logging.ParseLevel(cfg.Log.Level))
}

// withApp starts an Application for the duration of fn and shuts it down
// afterwards, letting pending token relays finish.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.Application) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	a, err := app.New(cfg, newLogger(cfg, cmd.ErrOrStderr()))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := a.Start(ctx); err != nil {
		_ = a.Shutdown(context.Background())
		return err
	}

	runErr := fn(ctx, a)
	if err := a.Shutdown(context.Background()); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
