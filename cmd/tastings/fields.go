package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tastingclub/tastings/internal/tasting"
)

// fieldFlags binds one flag per record field.
type fieldFlags struct {
	session         string
	date            string
	taster          string
	coffee          string
	roast           string
	brew            string
	shop            string
	shopAddress     string
	roasterLocation string
	origins         []string
	acidity         int
	sweetness       int
	body            int
	rating          int
	flavor          string
	notes           string
}

func (f *fieldFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.session, "session", "", "Session number")
	cmd.Flags().StringVar(&f.date, "date", "", "Date of tasting, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&f.taster, "taster", "", "Taster name")
	cmd.Flags().StringVarP(&f.coffee, "coffee", "c", "", "Coffee name")
	cmd.Flags().StringVar(&f.roast, "roast", string(tasting.RoastLevels[0]), "Roast level: Light, Light-Medium, Medium, Medium-Dark, or Dark")
	cmd.Flags().StringVar(&f.brew, "brew", string(tasting.BrewMethods[0]), "Brew method, e.g. V60, AeroPress, Espresso")
	cmd.Flags().StringVar(&f.shop, "shop", "", "Shop name")
	cmd.Flags().StringVar(&f.shopAddress, "shop-address", "", "Shop address")
	cmd.Flags().StringVar(&f.roasterLocation, "roaster-location", "", "Roaster location")
	cmd.Flags().StringArrayVar(&f.origins, "origin", nil, "Bean origin country (repeatable)")
	cmd.Flags().IntVar(&f.acidity, "acidity", tasting.DefaultAcidity, "Acidity (1 = Low, 10 = High)")
	cmd.Flags().IntVar(&f.sweetness, "sweetness", tasting.DefaultSweetness, "Sweetness (1 = Low, 10 = High)")
	cmd.Flags().IntVar(&f.body, "body", tasting.DefaultBody, "Body (1 = Light, 10 = Heavy)")
	cmd.Flags().IntVarP(&f.rating, "rating", "r", tasting.DefaultOverallRating, "Overall rating (1 to 10)")
	cmd.Flags().StringVar(&f.flavor, "flavor", "", "Flavor notes")
	cmd.Flags().StringVarP(&f.notes, "notes", "n", "", "Tasting notes")
}

// apply copies flag values into in. When onlyChanged is set, flags the user
// did not pass leave in untouched.
func (f *fieldFlags) apply(cmd *cobra.Command, in *tasting.Input, onlyChanged bool) {
	set := func(name string) bool {
		return !onlyChanged || cmd.Flags().Changed(name)
	}

	if set("session") {
		in.SessionNumber = f.session
	}
	if set("date") {
		in.Date = f.date
	}
	if set("taster") {
		in.Taster = f.taster
	}
	if set("coffee") {
		in.CoffeeName = f.coffee
	}
	if set("roast") {
		in.RoastLevel = f.roast
	}
	if set("brew") {
		in.BrewMethod = f.brew
	}
	if set("shop") {
		in.ShopName = f.shop
	}
	if set("shop-address") {
		in.ShopAddress = f.shopAddress
	}
	if set("roaster-location") {
		in.RoasterLocation = f.roasterLocation
	}
	if set("origin") {
		in.BeanOrigins = f.origins
	}
	if set("acidity") {
		in.Acidity = strconv.Itoa(f.acidity)
	}
	if set("sweetness") {
		in.Sweetness = strconv.Itoa(f.sweetness)
	}
	if set("body") {
		in.Body = strconv.Itoa(f.body)
	}
	if set("rating") {
		in.OverallRating = strconv.Itoa(f.rating)
	}
	if set("flavor") {
		in.FlavorNotes = f.flavor
	}
	if set("notes") {
		in.TastingNotes = f.notes
	}
}
