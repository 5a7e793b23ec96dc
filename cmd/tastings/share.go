package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tastingclub/tastings/internal/share"
)

func newShareCmd(opts *rootOptions) *cobra.Command {
	var (
		url     string
		pngPath string
		size    int
	)

	cmd := &cobra.Command{
		Use:   "share",
		Short: "Print a QR code linking to the tasting form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			if url == "" {
				url, err = share.URL(cfg.Server)
				if err != nil {
					return err
				}
			}

			if pngPath != "" {
				img, err := share.PNG(url, size)
				if err != nil {
					return err
				}
				if err := os.WriteFile(pngPath, img, 0o600); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote QR code for %s to %s\n", url, pngPath)
				return nil
			}

			code, err := share.Terminal(url)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), code)
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "URL to encode (default from server.public_url or server.listen)")
	cmd.Flags().StringVar(&pngPath, "png", "", "Write a PNG image to this file instead of printing")
	cmd.Flags().IntVar(&size, "size", share.DefaultPNGSize, "PNG size in pixels")

	return cmd
}
