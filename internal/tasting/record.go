// Package tasting defines coffee-tasting records, the fixed column schema they
// are stored under, and the position-addressed table that holds them.
package tasting

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// RoastLevel is one of the fixed roast options.
type RoastLevel string

const (
	RoastLight       RoastLevel = "Light"
	RoastLightMedium RoastLevel = "Light-Medium"
	RoastMedium      RoastLevel = "Medium"
	RoastMediumDark  RoastLevel = "Medium-Dark"
	RoastDark        RoastLevel = "Dark"
)

// RoastLevels lists the roast options in display order. The first entry is the
// default when no roast is given.
var RoastLevels = []RoastLevel{RoastLight, RoastLightMedium, RoastMedium, RoastMediumDark, RoastDark}

// BrewMethod is one of the fixed brew options.
type BrewMethod string

const (
	BrewV60         BrewMethod = "V60"
	BrewAeroPress   BrewMethod = "AeroPress"
	BrewEspresso    BrewMethod = "Espresso"
	BrewFrenchPress BrewMethod = "French Press"
	BrewChemex      BrewMethod = "Chemex"
	BrewColdBrew    BrewMethod = "Cold Brew"
	BrewMokaPot     BrewMethod = "Moka Pot"
	BrewPourOver    BrewMethod = "Pour Over"
	BrewSiphon      BrewMethod = "Siphon"
	BrewTurkish     BrewMethod = "Turkish Coffee"
)

// BrewMethods lists the brew options in display order.
var BrewMethods = []BrewMethod{
	BrewV60, BrewAeroPress, BrewEspresso, BrewFrenchPress, BrewChemex,
	BrewColdBrew, BrewMokaPot, BrewPourOver, BrewSiphon, BrewTurkish,
}

// Countries is the fixed list bean origins are chosen from.
var Countries = []string{
	"Bolivia", "Brazil", "Burundi", "Colombia", "Costa Rica", "Cuba",
	"Dominican Republic", "DR Congo", "Ecuador", "El Salvador", "Ethiopia",
	"Guatemala", "Haiti", "Honduras", "India", "Indonesia", "Jamaica", "Kenya",
	"Laos", "Malawi", "Mexico", "Myanmar", "Nepal", "Nicaragua", "Panama",
	"Papua New Guinea", "Peru", "Philippines", "Rwanda", "Tanzania", "Thailand",
	"Timor-Leste", "Uganda", "United States", "Vietnam", "Yemen", "Zambia",
	"Zimbabwe",
}

// Rating bounds shared by acidity, sweetness, body and overall rating.
const (
	MinScore = 1
	MaxScore = 10
)

// Score defaults offered by entry forms before the taster moves a slider.
const (
	DefaultAcidity       = 5
	DefaultSweetness     = 5
	DefaultBody          = 5
	DefaultOverallRating = MinScore
)

// Date is a calendar date without time of day or location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate accepts an ISO date, optionally followed by a time part in
// RFC 3339 or "2006-01-02 15:04:05" form. Only the date is kept.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.DateOnly, time.RFC3339, time.DateTime} {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// MarshalText encodes d as YYYY-MM-DD.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText accepts anything ParseDate does.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Record is one tasting-session observation.
type Record struct {
	SessionNumber   string     `json:"sessionNumber"`
	Date            Date       `json:"date"`
	Taster          string     `json:"taster"`
	CoffeeName      string     `json:"coffeeName"`
	RoastLevel      RoastLevel `json:"roastLevel"`
	BrewMethod      BrewMethod `json:"brewMethod"`
	ShopName        string     `json:"shopName"`
	ShopAddress     string     `json:"shopAddress"`
	RoasterLocation string     `json:"roasterLocation"`
	BeanOrigins     []string   `json:"beanOrigins"`
	Acidity         int        `json:"acidity"`
	Sweetness       int        `json:"sweetness"`
	Body            int        `json:"body"`
	OverallRating   int        `json:"overallRating"`
	FlavorNotes     string     `json:"flavorNotes"`
	TastingNotes    string     `json:"tastingNotes"`
}

// OriginsString joins the bean origins the way they are stored.
func (r Record) OriginsString() string {
	return JoinOrigins(r.BeanOrigins)
}

// Equal reports whether two records hold the same values. Bean origins are
// compared as ordered sequences.
func (r Record) Equal(other Record) bool {
	return slices.Equal(r.BeanOrigins, other.BeanOrigins) &&
		slices.Equal(EncodeRecord(r), EncodeRecord(other))
}

func lookupRoast(s string) (RoastLevel, bool) {
	for _, r := range RoastLevels {
		if strings.EqualFold(string(r), s) {
			return r, true
		}
	}
	return "", false
}

func lookupBrew(s string) (BrewMethod, bool) {
	for _, b := range BrewMethods {
		if strings.EqualFold(string(b), s) {
			return b, true
		}
	}
	return "", false
}

func lookupCountry(s string) (string, bool) {
	for _, c := range Countries {
		if strings.EqualFold(c, s) {
			return c, true
		}
	}
	return "", false
}
