package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tastingclub/tastings/internal/tasting"
)

func newAddCmd(opts *rootOptions) *cobra.Command {
	var fields fieldFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a tasting session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			var in tasting.Input
			fields.apply(cmd, &in, false)

			index, rec, err := a.svc.Submit(ctx, in)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s at position %d\n", rec.CoffeeName, index)
			return nil
		},
	}

	fields.register(cmd)

	return cmd
}
