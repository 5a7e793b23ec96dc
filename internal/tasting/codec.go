package tasting

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// OriginSeparator joins bean origins in storage.
const OriginSeparator = ", "

// JoinOrigins serializes bean origins for storage.
func JoinOrigins(origins []string) string {
	return strings.Join(origins, OriginSeparator)
}

// SplitOrigins parses a stored bean-origin cell. An empty cell is an empty set.
func SplitOrigins(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, strings.TrimSpace(OriginSeparator)) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// EncodeRecord serializes r into one storage row in Columns order.
func EncodeRecord(r Record) []string {
	return []string{
		r.SessionNumber,
		r.Date.String(),
		r.Taster,
		r.CoffeeName,
		string(r.RoastLevel),
		string(r.BrewMethod),
		r.ShopName,
		r.ShopAddress,
		r.RoasterLocation,
		JoinOrigins(r.BeanOrigins),
		strconv.Itoa(r.Acidity),
		strconv.Itoa(r.Sweetness),
		strconv.Itoa(r.Body),
		strconv.Itoa(r.OverallRating),
		r.FlavorNotes,
		r.TastingNotes,
	}
}

// EncodeTable serializes every record of t, header first.
func EncodeTable(t Table) [][]string {
	rows := make([][]string, 0, t.Len()+1)
	rows = append(rows, Header())
	for _, r := range t.Records {
		rows = append(rows, EncodeRecord(r))
	}
	return rows
}

// DecodeRow parses one stored row laid out under l. A missing or unparseable
// date becomes the current date; optional columns absent from the layout are
// left empty. Invalid enum or score values are errors.
func DecodeRow(l Layout, row []string, now func() time.Time) (Record, error) {
	if now == nil {
		now = time.Now
	}
	if len(row) > l.Width() {
		return Record{}, fmt.Errorf("row has %d cells, header has %d", len(row), l.Width())
	}

	get := func(column string) string {
		v, _ := l.cell(row, column)
		return v
	}

	rec := Record{
		SessionNumber:   get(ColSessionNumber),
		Taster:          get(ColTaster),
		CoffeeName:      get(ColCoffeeName),
		ShopName:        get(ColShopName),
		ShopAddress:     get(ColShopAddress),
		RoasterLocation: get(ColRoasterLocation),
		FlavorNotes:     get(ColFlavorNotes),
		TastingNotes:    get(ColTastingNotes),
	}

	if d, err := ParseDate(get(ColDate)); err == nil {
		rec.Date = d
	} else {
		rec.Date = DateOf(now())
	}

	roast, ok := lookupRoast(strings.TrimSpace(get(ColRoastLevel)))
	if !ok {
		return Record{}, fmt.Errorf("%s: unknown roast level %q", ColRoastLevel, get(ColRoastLevel))
	}
	rec.RoastLevel = roast

	brew, ok := lookupBrew(strings.TrimSpace(get(ColBrewMethod)))
	if !ok {
		return Record{}, fmt.Errorf("%s: unknown brew method %q", ColBrewMethod, get(ColBrewMethod))
	}
	rec.BrewMethod = brew

	origins, err := normalizeOrigins(SplitOrigins(get(ColBeanOrigin)))
	if err != nil {
		return Record{}, fmt.Errorf("%s: %w", ColBeanOrigin, err)
	}
	rec.BeanOrigins = origins

	for _, s := range []struct {
		column string
		dst    *int
	}{
		{ColAcidity, &rec.Acidity},
		{ColSweetness, &rec.Sweetness},
		{ColBody, &rec.Body},
		{ColOverallRating, &rec.OverallRating},
	} {
		v, err := parseStoredScore(get(s.column))
		if err != nil {
			return Record{}, fmt.Errorf("%s: %w", s.column, err)
		}
		*s.dst = v
	}

	return rec, nil
}

// DecodeRows parses a stored header plus data rows into a table. Any failure
// is ErrStoreMalformed; rows are never skipped.
func DecodeRows(header []string, rows [][]string, now func() time.Time) ([]Record, error) {
	layout, err := NewLayout(header)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		rec, err := DecodeRow(layout, row, now)
		if err != nil {
			// Row numbers count the header as row 1.
			return nil, fmt.Errorf("%w: row %d: %w", ErrStoreMalformed, i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Fingerprint identifies stored content. Backends compare it to a table's
// Revision before overwriting.
func Fingerprint(rows [][]string) string {
	h := sha256.New()
	for _, row := range rows {
		for _, cell := range row {
			h.Write([]byte(strconv.Quote(cell)))
			h.Write([]byte{0x1f})
		}
		h.Write([]byte{0x1e})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// parseStoredScore accepts integral floats ("7.0") written by spreadsheet
// tools in addition to plain integers.
func parseStoredScore(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f == float64(int(f)) {
		raw = strconv.Itoa(int(f))
	}
	return parseScore(raw)
}
