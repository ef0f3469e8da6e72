package cmd

import (
	"fmt"
	"os"

	"github.com/creerlio/talentbank/internal/qr"
	"github.com/spf13/cobra"
)

func QRCmd() *cobra.Command {
	var baseURL, format, out, level string
	var width, margin int

	cmd := &cobra.Command{
		Use:   "qr <verification-token>",
		Short: "Render the verification QR code for a token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if baseURL == "" {
				baseURL = envOr("APP_URL", "http://localhost:8090")
			}
			if level == "" {
				level = envOr("QR_LEVEL", "M")
			}
			if width == 0 {
				width = envIntOr("QR_WIDTH", 300)
			}
			if margin < 0 {
				margin = envIntOr("QR_MARGIN", 1)
			}

			f, err := qr.ParseFormat(format)
			if err != nil {
				return err
			}

			link, err := qr.VerificationURL(args[0], baseURL)
			if err != nil {
				return err
			}

			renderer, err := qr.NewRenderer(qr.Options{Level: level, Width: width, Margin: margin})
			if err != nil {
				return err
			}
			img, err := renderer.Render(link, f)
			if err != nil {
				return err
			}

			if out == "" {
				out = args[0] + "." + string(f)
			}
			err = os.WriteFile(out, img, 0644)
			if err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", link, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "base", "", "base URL of the verification page (default $APP_URL)")
	cmd.Flags().StringVar(&format, "format", "png", "png or svg")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default <token>.<format>)")
	cmd.Flags().StringVar(&level, "level", "", "error correction level L, M, Q or H (default $QR_LEVEL)")
	cmd.Flags().IntVar(&width, "width", 0, "raster width in pixels (default $QR_WIDTH)")
	cmd.Flags().IntVar(&margin, "margin", -1, "quiet zone in modules (default $QR_MARGIN)")

	return cmd
}
