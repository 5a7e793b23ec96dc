package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tastingclub/tastings/internal/summary"
	"github.com/tastingclub/tastings/internal/tasting"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List previous tasting sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			t, err := a.svc.List(ctx)
			if err != nil {
				return err
			}

			switch format {
			case "json":
				return outputJSON(cmd, t)
			case "table":
				outputTable(cmd, t)
				return nil
			default:
				return fmt.Errorf("invalid format: %s (valid values: table, json)", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")

	return cmd
}

type listOutputEntry struct {
	Index int `json:"index"`
	tasting.Record
}

type listOutput struct {
	Revision string            `json:"revision"`
	Tastings []listOutputEntry `json:"tastings"`
	Stats    summary.Stats     `json:"stats"`
}

func outputJSON(cmd *cobra.Command, t tasting.Table) error {
	output := listOutput{
		Revision: t.Revision,
		Tastings: make([]listOutputEntry, 0, t.Len()),
		Stats:    summary.Overview(t),
	}
	for i, r := range t.Records {
		output.Tastings = append(output.Tastings, listOutputEntry{Index: i, Record: r})
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func getTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 120
}

// columnWidths holds the truncation widths of the free-text columns.
type columnWidths struct {
	coffee int
	origin int
	notes  int
}

// calculateColumnWidths gives coffee names room first, then origins, and
// leaves the rest to the notes column.
func calculateColumnWidths(termWidth int, records []tasting.Record) columnWidths {
	// #, Session, Date, Taster, Roast, Brew, A/S/B, Rating plus borders.
	const fixed = 4 + 8 + 10 + 10 + 12 + 14 + 8 + 6 + 11*3

	maxCoffee := 6
	maxOrigin := 6
	for _, r := range records {
		maxCoffee = max(maxCoffee, runewidth.StringWidth(r.CoffeeName))
		maxOrigin = max(maxOrigin, runewidth.StringWidth(r.OriginsString()))
	}

	available := termWidth - fixed
	coffee := min(maxCoffee, 30, max(available/3, 10))
	origin := min(maxOrigin, 24, max(available/4, 8))
	notes := max(available-coffee-origin, 10)

	return columnWidths{coffee: coffee, origin: origin, notes: notes}
}

// oneLine collapses line breaks so notes fit a single table row.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func outputTable(cmd *cobra.Command, t tasting.Table) {
	if t.Len() == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No tasting sessions recorded yet.")
		return
	}

	w := table.NewWriter()
	w.SetOutputMirror(cmd.OutOrStdout())
	w.SetStyle(table.StyleLight)

	widths := calculateColumnWidths(getTerminalWidth(), t.Records)

	w.AppendHeader(table.Row{"#", "Session", "Date", "Taster", "Coffee", "Roast", "Brew", "Origin", "A/S/B", "Rating", "Notes"})
	for i, r := range t.Records {
		w.AppendRow(table.Row{
			i,
			r.SessionNumber,
			r.Date.String(),
			runewidth.Truncate(r.Taster, 10, "..."),
			runewidth.Truncate(r.CoffeeName, widths.coffee, "..."),
			r.RoastLevel,
			r.BrewMethod,
			runewidth.Truncate(r.OriginsString(), widths.origin, "..."),
			strconv.Itoa(r.Acidity) + "/" + strconv.Itoa(r.Sweetness) + "/" + strconv.Itoa(r.Body),
			r.OverallRating,
			runewidth.Truncate(oneLine(r.TastingNotes), widths.notes, "..."),
		})
	}

	stats := summary.Overview(t)
	w.AppendFooter(table.Row{
		"", "", "", "",
		fmt.Sprintf("%d sessions", stats.Sessions),
		"", "", "",
		fmt.Sprintf("%d coffees", stats.Coffees),
		fmt.Sprintf("%.1f", stats.MeanRating),
		"",
	})

	w.Render()
}
