package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/tastingclub/tastings/internal/summary"
	"github.com/tastingclub/tastings/internal/tasting"
)

const barWidth = 30

func newChartCmd(opts *rootOptions) *cobra.Command {
	var byTaster bool

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Chart the average overall rating per coffee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			averages, err := a.svc.Summary(ctx, byTaster)
			if err != nil {
				return err
			}
			if len(averages) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasting sessions recorded yet.")
				return nil
			}

			renderChart(cmd, averages, byTaster)
			return nil
		},
	}

	cmd.Flags().BoolVar(&byTaster, "by-taster", false, "Group by taster as well as coffee")

	return cmd
}

func bar(mean float64) string {
	n := int(math.Round(mean / tasting.MaxScore * barWidth))
	return strings.Repeat("█", n)
}

func renderChart(cmd *cobra.Command, averages []summary.Average, byTaster bool) {
	w := table.NewWriter()
	w.SetOutputMirror(cmd.OutOrStdout())
	w.SetStyle(table.StyleLight)

	if byTaster {
		w.AppendHeader(table.Row{"Coffee", "Taster", "Average", "", "n"})
	} else {
		w.AppendHeader(table.Row{"Coffee", "Average", "", "n"})
	}

	for _, a := range averages {
		mean := fmt.Sprintf("%.2f", a.Mean)
		if byTaster {
			w.AppendRow(table.Row{a.Coffee, a.Taster, mean, bar(a.Mean), a.Count})
		} else {
			w.AppendRow(table.Row{a.Coffee, mean, bar(a.Mean), a.Count})
		}
	}

	w.Render()
}
