// Package summary derives aggregate views from a tasting table.
package summary

import (
	"sort"

	"github.com/tastingclub/tastings/internal/tasting"
)

// Average is the mean overall rating of one group. Taster is empty unless
// the table was grouped by taster.
type Average struct {
	Coffee string  `json:"coffee"`
	Taster string  `json:"taster,omitempty"`
	Mean   float64 `json:"mean"`
	Count  int     `json:"count"`
}

// Stats is a one-line overview of a table.
type Stats struct {
	Sessions   int     `json:"sessions"`
	Coffees    int     `json:"coffees"`
	MeanRating float64 `json:"meanRating"`
}

type groupKey struct {
	coffee string
	taster string
}

// AverageRatingByCoffee groups t by coffee name, and by taster as well when
// byTaster is set, and averages Overall Rating in each group.
//
// Ungrouped results are ordered by descending mean with ties in first-seen
// order. Results grouped by taster keep first-seen order.
func AverageRatingByCoffee(t tasting.Table, byTaster bool) []Average {
	out := []Average{}
	index := map[groupKey]int{}
	sums := []int{}

	for _, r := range t.Records {
		key := groupKey{coffee: r.CoffeeName}
		if byTaster {
			key.taster = r.Taster
		}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, Average{Coffee: key.coffee, Taster: key.taster})
			sums = append(sums, 0)
		}
		out[i].Count++
		sums[i] += r.OverallRating
	}

	for i := range out {
		out[i].Mean = float64(sums[i]) / float64(out[i].Count)
	}

	if !byTaster {
		sort.SliceStable(out, func(a, b int) bool {
			return out[a].Mean > out[b].Mean
		})
	}
	return out
}

// Overview counts sessions and distinct coffees and averages Overall Rating
// across the whole table.
func Overview(t tasting.Table) Stats {
	stats := Stats{Sessions: t.Len()}
	if t.Len() == 0 {
		return stats
	}

	coffees := map[string]struct{}{}
	total := 0
	for _, r := range t.Records {
		coffees[r.CoffeeName] = struct{}{}
		total += r.OverallRating
	}
	stats.Coffees = len(coffees)
	stats.MeanRating = float64(total) / float64(t.Len())
	return stats
}
