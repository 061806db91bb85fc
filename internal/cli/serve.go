package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/raysh454/fraudeye/internal/app"
	"github.com/raysh454/fraudeye/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local dashboard API",
		Long: `Serve hosts the dashboard state behind a JSON and WebSocket API (default
:3000) and relays token broadcasts to a connected extension over /ws/bridge.
API docs are at /swagger/index.html.`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}
	cmd.Flags().String("addr", "", "Listen address (overrides config)")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	addr, _ := cmd.Flags().GetString("addr")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.SetContext(ctx)
	return withApp(cmd, func(ctx context.Context, a *app.Application) error {
		if addr == "" {
			addr = a.Config.Dashboard.Addr
		}
		srv := server.NewServer(server.Config{ListenAddr: addr, Logger: a.Logger}, a)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return a.Run(gctx) })
		g.Go(func() error { return srv.Run(gctx) })

		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
}
