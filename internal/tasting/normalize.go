package tasting

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Input holds raw field values as collected by a form, a CLI or a tool call.
// Numbers are kept as strings so that non-integer input can be reported.
type Input struct {
	SessionNumber   string   `json:"sessionNumber"`
	Date            string   `json:"date,omitempty"`
	Taster          string   `json:"taster,omitempty"`
	CoffeeName      string   `json:"coffeeName"`
	RoastLevel      string   `json:"roastLevel,omitempty"`
	BrewMethod      string   `json:"brewMethod,omitempty"`
	ShopName        string   `json:"shopName,omitempty"`
	ShopAddress     string   `json:"shopAddress,omitempty"`
	RoasterLocation string   `json:"roasterLocation,omitempty"`
	BeanOrigins     []string `json:"beanOrigins,omitempty"`
	Acidity         string   `json:"acidity"`
	Sweetness       string   `json:"sweetness"`
	Body            string   `json:"body"`
	OverallRating   string   `json:"overallRating"`
	FlavorNotes     string   `json:"flavorNotes,omitempty"`
	TastingNotes    string   `json:"tastingNotes,omitempty"`
}

// Normalize validates raw input and converts it into a Record. Every failing
// field is reported in the returned *ValidationError; no partial record is
// returned on failure. An empty date means today according to now.
func Normalize(in Input, now func() time.Time) (Record, error) {
	if now == nil {
		now = time.Now
	}
	verr := &ValidationError{}

	rec := Record{
		SessionNumber:   text(in.SessionNumber),
		Taster:          text(in.Taster),
		CoffeeName:      text(in.CoffeeName),
		ShopName:        text(in.ShopName),
		ShopAddress:     text(in.ShopAddress),
		RoasterLocation: text(in.RoasterLocation),
		FlavorNotes:     text(in.FlavorNotes),
		TastingNotes:    text(in.TastingNotes),
	}

	if strings.TrimSpace(in.Date) == "" {
		rec.Date = DateOf(now())
	} else if d, err := ParseDate(in.Date); err != nil {
		verr.add(ColDate, err.Error())
	} else {
		rec.Date = d
	}

	switch roast := strings.TrimSpace(in.RoastLevel); {
	case roast == "":
		rec.RoastLevel = RoastLevels[0]
	default:
		if r, ok := lookupRoast(roast); ok {
			rec.RoastLevel = r
		} else {
			verr.add(ColRoastLevel, fmt.Sprintf("unknown roast level %q", roast))
		}
	}

	switch brew := strings.TrimSpace(in.BrewMethod); {
	case brew == "":
		rec.BrewMethod = BrewMethods[0]
	default:
		if b, ok := lookupBrew(brew); ok {
			rec.BrewMethod = b
		} else {
			verr.add(ColBrewMethod, fmt.Sprintf("unknown brew method %q", brew))
		}
	}

	origins, err := normalizeOrigins(in.BeanOrigins)
	if err != nil {
		verr.add(ColBeanOrigin, err.Error())
	}
	rec.BeanOrigins = origins

	scores := []struct {
		column string
		raw    string
		dst    *int
	}{
		{ColAcidity, in.Acidity, &rec.Acidity},
		{ColSweetness, in.Sweetness, &rec.Sweetness},
		{ColBody, in.Body, &rec.Body},
		{ColOverallRating, in.OverallRating, &rec.OverallRating},
	}
	for _, s := range scores {
		v, err := parseScore(s.raw)
		if err != nil {
			verr.add(s.column, err.Error())
			continue
		}
		*s.dst = v
	}

	if err := verr.orNil(); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// RawFromRecord turns a record back into raw input, e.g. to pre-fill an edit
// form.
func RawFromRecord(r Record) Input {
	return Input{
		SessionNumber:   r.SessionNumber,
		Date:            r.Date.String(),
		Taster:          r.Taster,
		CoffeeName:      r.CoffeeName,
		RoastLevel:      string(r.RoastLevel),
		BrewMethod:      string(r.BrewMethod),
		ShopName:        r.ShopName,
		ShopAddress:     r.ShopAddress,
		RoasterLocation: r.RoasterLocation,
		BeanOrigins:     append([]string(nil), r.BeanOrigins...),
		Acidity:         strconv.Itoa(r.Acidity),
		Sweetness:       strconv.Itoa(r.Sweetness),
		Body:            strconv.Itoa(r.Body),
		OverallRating:   strconv.Itoa(r.OverallRating),
		FlavorNotes:     r.FlavorNotes,
		TastingNotes:    r.TastingNotes,
	}
}

// DefaultInput is the pre-filled state of an entry form: first roast and
// brew options and the default scores.
func DefaultInput() Input {
	return Input{
		RoastLevel:    string(RoastLevels[0]),
		BrewMethod:    string(BrewMethods[0]),
		Acidity:       strconv.Itoa(DefaultAcidity),
		Sweetness:     strconv.Itoa(DefaultSweetness),
		Body:          strconv.Itoa(DefaultBody),
		OverallRating: strconv.Itoa(DefaultOverallRating),
	}
}

// UnmarshalJSON accepts scores as JSON numbers or strings, so a record read
// from the API can be sent back unchanged.
func (in *Input) UnmarshalJSON(b []byte) error {
	type plain Input
	aux := struct {
		*plain
		Acidity       json.RawMessage `json:"acidity"`
		Sweetness     json.RawMessage `json:"sweetness"`
		Body          json.RawMessage `json:"body"`
		OverallRating json.RawMessage `json:"overallRating"`
	}{plain: (*plain)(in)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	scores := []struct {
		name string
		raw  json.RawMessage
		dst  *string
	}{
		{"acidity", aux.Acidity, &in.Acidity},
		{"sweetness", aux.Sweetness, &in.Sweetness},
		{"body", aux.Body, &in.Body},
		{"overallRating", aux.OverallRating, &in.OverallRating},
	}
	for _, s := range scores {
		v, err := rawScore(s.raw)
		if err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
		*s.dst = v
	}
	return nil
}

// rawScore keeps a JSON score as text for parseScore to judge.
func rawScore(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0, bytes.Equal(raw, []byte("null")):
		return "", nil
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", fmt.Errorf("expected a number or string, got %s", raw)
		}
		return n.String(), nil
	}
}

// text trims a free-text value and turns CRLF and lone CR line breaks into
// LF, the only line break that survives every store unchanged.
func text(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.TrimSpace(s)
}

func parseScore(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.New("is required")
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", raw)
	}
	if v < MinScore || v > MaxScore {
		return 0, fmt.Errorf("%d is outside %d-%d", v, MinScore, MaxScore)
	}
	return v, nil
}

// normalizeOrigins canonicalizes country names and drops duplicates, keeping
// the first occurrence. Blank entries are ignored.
func normalizeOrigins(raw []string) ([]string, error) {
	out := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	var unknown []string
	for _, o := range raw {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		c, ok := lookupCountry(o)
		if !ok {
			unknown = append(unknown, o)
			continue
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	if len(unknown) > 0 {
		return out, fmt.Errorf("unknown countries: %s", strings.Join(unknown, ", "))
	}
	return out, nil
}
