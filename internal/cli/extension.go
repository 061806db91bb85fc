package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raysh454/fraudeye/internal/app"
	"github.com/raysh454/fraudeye/internal/bridge"
	"github.com/raysh454/fraudeye/internal/model"
	"github.com/raysh454/fraudeye/internal/render"
)

// NewAutoscanCmd creates the autoscan command.
func NewAutoscanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "autoscan <url>",
		Short: "Run the extension's automatic scan against a page",
		Long: `Autoscan loads the page the way a browser tab would, applies the extension's
article heuristics and, when the page qualifies, submits its main text with
source "autoscan" using the token in extension storage.

Pages that do not look like articles, or whose text is under 200 characters,
are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.Application) error {
				cs, detach, err := a.OpenTab(ctx, args[0])
				if err != nil {
					return err
				}
				defer detach()

				resp, err := cs.AutoScan(ctx)
				if errors.Is(err, bridge.ErrAutoScanSkipped) {
					fmt.Fprintf(cmd.OutOrStdout(), "Skipped: %v\n", err)
					return nil
				}
				if err != nil {
					return err
				}
				if !resp.OK {
					return fmt.Errorf("auto-scan failed: %s", resp.Error)
				}

				var out model.ScanResponse
				if err := json.Unmarshal(resp.Data, &out); err != nil {
					return fmt.Errorf("decoding auto-scan response: %w", err)
				}
				return render.Result(cmd.OutOrStdout(), out.Scan)
			})
		},
	}
}

// NewPopupCmd creates the popup command.
func NewPopupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "popup <url>",
		Short: "Analyze text from a page the way the extension popup does",
		Long: `Popup opens the page in a tab, prefills the popup from the tab's URL and
selected text, and analyzes the snippet with source "extension".

Examples:
  # Analyze a selection on a page
  fraudeye popup https://news.example/a --selection "Doctors are furious..."

  # Save a token manually, then analyze
  fraudeye popup https://news.example/a --token eyJ... --snippet "..."`,
		Args: cobra.ExactArgs(1),
		RunE: runPopupCmd,
	}
	cmd.Flags().StringP("selection", "s", "", "Text selected on the page")
	cmd.Flags().String("snippet", "", "Snippet typed into the popup (overrides the selection)")
	cmd.Flags().String("token", "", "Token to save in extension storage first")
	return cmd
}

func runPopupCmd(cmd *cobra.Command, args []string) error {
	selection, _ := cmd.Flags().GetString("selection")
	snippet, _ := cmd.Flags().GetString("snippet")
	token, _ := cmd.Flags().GetString("token")

	return withApp(cmd, func(ctx context.Context, a *app.Application) error {
		cs, detach, err := a.OpenTab(ctx, args[0])
		if err != nil {
			return err
		}
		defer detach()
		cs.SetSelection(selection)

		popup := a.NewPopup()
		if err := popup.SaveToken(ctx, token); err != nil {
			return err
		}
		if _, err := popup.Open(ctx); err != nil {
			return err
		}
		if snippet != "" {
			popup.SetSnippet(snippet)
		}

		res, err := popup.Analyze(ctx)
		if err != nil {
			return err
		}
		if err := render.Result(cmd.OutOrStdout(), res.Scan); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Dashboard: %s\n", popup.DashboardURL())
		return nil
	})
}
