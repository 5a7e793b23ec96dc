package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	var (
		force    bool
		revision string
	)

	cmd := &cobra.Command{
		Use:   "delete <index>",
		Short: "Delete a tasting session",
		Long:  "Delete the tasting session at <index>. Later sessions move down by one position.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			rec, t, err := a.svc.Get(ctx, index)
			if err != nil {
				return err
			}
			if revision == "" {
				revision = t.Revision
			}

			// Confirmation prompt
			if !force {
				reader := bufio.NewReader(cmd.InOrStdin())
				fmt.Fprintf(cmd.ErrOrStderr(), "Delete %s (session %s, %s) at position %d? (y/N) ",
					rec.CoffeeName, rec.SessionNumber, rec.Date, index)
				answer, err := reader.ReadString('\n')
				if err != nil && answer == "" {
					return err
				}

				answer = strings.TrimSpace(strings.ToLower(answer))
				if answer != "y" {
					fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled")
					return nil
				}
			}

			removed, err := a.svc.Delete(ctx, index, revision)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s from position %d\n", removed.CoffeeName, index)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")
	cmd.Flags().StringVar(&revision, "revision", "", "Refuse the deletion unless the table still has this revision")

	return cmd
}
