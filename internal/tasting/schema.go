package tasting

import (
	"fmt"
	"strings"
)

// Column headers in declaration order.
const (
	ColSessionNumber   = "Session Number"
	ColDate            = "Date of Tasting"
	ColTaster          = "Taster"
	ColCoffeeName      = "Coffee Name"
	ColRoastLevel      = "Roast Level"
	ColBrewMethod      = "Brew Method"
	ColShopName        = "Shop Name"
	ColShopAddress     = "Shop Address"
	ColRoasterLocation = "Roaster Location"
	ColBeanOrigin      = "Bean Origin"
	ColAcidity         = "Acidity"
	ColSweetness       = "Sweetness"
	ColBody            = "Body"
	ColOverallRating   = "Overall Rating"
	ColFlavorNotes     = "Flavor Notes"
	ColTastingNotes    = "Tasting Notes"
)

// Columns is the declared schema: the exact header row written by every
// backend.
var Columns = []string{
	ColSessionNumber,
	ColDate,
	ColTaster,
	ColCoffeeName,
	ColRoastLevel,
	ColBrewMethod,
	ColShopName,
	ColShopAddress,
	ColRoasterLocation,
	ColBeanOrigin,
	ColAcidity,
	ColSweetness,
	ColBody,
	ColOverallRating,
	ColFlavorNotes,
	ColTastingNotes,
}

// optionalColumns may be missing from a stored header. Their values default
// to empty when absent. Stores written before these fields existed only carry
// the remaining columns.
var optionalColumns = map[string]bool{
	ColTaster:          true,
	ColShopName:        true,
	ColShopAddress:     true,
	ColRoasterLocation: true,
	ColBeanOrigin:      true,
}

// Header returns a copy of Columns.
func Header() []string {
	return append([]string(nil), Columns...)
}

// IsOptional reports whether column may be absent from a stored header.
func IsOptional(column string) bool {
	return optionalColumns[column]
}

// Layout maps declared columns to their position in a stored header.
type Layout struct {
	index map[string]int
	width int
}

// DefaultLayout is the layout of a header equal to Columns.
func DefaultLayout() Layout {
	l, _ := NewLayout(Columns)
	return l
}

// NewLayout resolves a stored header against the declared schema. Missing
// required columns, unknown columns and duplicates are ErrStoreMalformed.
func NewLayout(header []string) (Layout, error) {
	known := make(map[string]bool, len(Columns))
	for _, c := range Columns {
		known[c] = true
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if !known[name] {
			return Layout{}, fmt.Errorf("%w: unknown column %q", ErrStoreMalformed, name)
		}
		if _, dup := index[name]; dup {
			return Layout{}, fmt.Errorf("%w: duplicate column %q", ErrStoreMalformed, name)
		}
		index[name] = i
	}

	var missing []string
	for _, c := range Columns {
		if _, ok := index[c]; !ok && !optionalColumns[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return Layout{}, fmt.Errorf("%w: missing columns %s", ErrStoreMalformed, strings.Join(missing, ", "))
	}

	return Layout{index: index, width: len(header)}, nil
}

// Width is the number of cells a row under this layout must have.
func (l Layout) Width() int {
	return l.width
}

// Has reports whether the stored header carries column.
func (l Layout) Has(column string) bool {
	_, ok := l.index[column]
	return ok
}

func (l Layout) cell(row []string, column string) (string, bool) {
	i, ok := l.index[column]
	if !ok || i >= len(row) {
		return "", false
	}
	return row[i], true
}
