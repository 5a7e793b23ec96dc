package main

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/tastingclub/tastings/internal/tasting"
)

type showOutput struct {
	Index    int            `json:"index"`
	Revision string         `json:"revision"`
	Tasting  tasting.Record `json:"tasting"`
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <index>",
		Short: "Show one tasting session",
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

			switch format {
			case "json":
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(showOutput{Index: index, Revision: t.Revision, Tasting: rec})
			case "table":
				w := table.NewWriter()
				w.SetOutputMirror(cmd.OutOrStdout())
				w.SetStyle(table.StyleLight)
				w.AppendRow(table.Row{"Position", index})
				values := tasting.EncodeRecord(rec)
				for i, column := range tasting.Header() {
					w.AppendRow(table.Row{column, values[i]})
				}
				w.AppendRow(table.Row{"Revision", t.Revision})
				w.Render()
				return nil
			default:
				return fmt.Errorf("invalid format: %s (valid values: table, json)", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")

	return cmd
}
