package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/raysh454/fraudeye/internal/app"
	"github.com/raysh454/fraudeye/internal/model"
	"github.com/raysh454/fraudeye/internal/render"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Analyze a snippet as a new dashboard scan",
		Long: `Scan submits text for analysis the way the dashboard's "New Verification"
form does. The scan is anonymous unless you are signed in.

Examples:
  # Analyze a pasted snippet
  fraudeye scan --url https://news.example/a --content "Researchers confirmed..."

  # Read the snippet from stdin
  pbpaste | fraudeye scan --content -`,
		Args: cobra.NoArgs,
		RunE: runScanCmd,
	}
	cmd.Flags().StringP("url", "u", "", "Article URL (optional)")
	cmd.Flags().StringP("content", "c", "", `Content / snippet to analyze ("-" reads stdin)`)
	return cmd
}

func runScanCmd(cmd *cobra.Command, _ []string) error {
	url, _ := cmd.Flags().GetString("url")
	content, _ := cmd.Flags().GetString("content")
	if content == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		content = string(b)
	}

	return withApp(cmd, func(ctx context.Context, a *app.Application) error {
		scan, err := a.Scans.Submit(ctx, url, content, model.SourceDashboard)
		if err != nil {
			return err
		}
		return render.Result(cmd.OutOrStdout(), *scan)
	})
}

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent scans with summary stats",
		Long: `History prints the latest scans and the fake / real / uncertain counts.

With --mine the list is limited to your own scans; this only applies while
signed in, otherwise the global list is shown.`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}
	cmd.Flags().BoolP("mine", "m", false, "Show only my scans (when signed in)")
	cmd.Flags().StringP("format", "f", string(render.FormatText), "Output format: text or markdown")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	mine, _ := cmd.Flags().GetBool("mine")
	formatFlag, _ := cmd.Flags().GetString("format")
	format, err := render.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	return withApp(cmd, func(ctx context.Context, a *app.Application) error {
		if mine && a.Auth.Session().Anonymous() {
			fmt.Fprintln(cmd.ErrOrStderr(), "Not signed in; showing all scans.")
		}
		// The filter starts off, so turning it on triggers the load.
		load := a.Scans.Load
		if mine {
			load = func(ctx context.Context) error { return a.Scans.SetMineOnly(ctx, true) }
		}
		if err := load(ctx); err != nil {
			return err
		}
		return render.History(cmd.OutOrStdout(), format, a.Scans.Scans())
	})
}
