package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tastingclub/tastings/internal/httpapi"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		listen    string
		publicURL string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tasting form and JSON API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if listen != "" {
				a.cfg.Server.Listen = listen
			}
			if publicURL != "" {
				a.cfg.Server.PublicURL = publicURL
			}

			srv, err := httpapi.New(a.svc, a.cfg.Server, a.log)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Serving on http://%s/\n", a.cfg.Server.Listen)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "Listen address (default 127.0.0.1:8501)")
	cmd.Flags().StringVar(&publicURL, "public-url", "", "URL advertised in the share QR code")

	return cmd
}
