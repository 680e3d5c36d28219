package drink

import (
	"fmt"
	"strings"
)

type Category string

const (
	CategorySpiritsClear Category = "spirits-clear"
	CategoryBeer         Category = "beer"
	CategoryWine         Category = "wine"
	CategoryWhiskey      Category = "whiskey"
	CategoryRiceWine     Category = "rice-wine"
	CategoryOther        Category = "other"
)

// Spec is one row of the serving reference table.
type Spec struct {
	Label                  string  `json:"label"`
	MillilitersPerServing  float64 `json:"millilitersPerServing"`
	AlcoholPercentByVolume float64 `json:"alcoholPercentByVolume"`
}

// Changing a row here is a deployment-time change. Entries already stored keep
// the volume computed when they were created.
var reference = map[Category]Spec{
	CategorySpiritsClear: {Label: "Soju", MillilitersPerServing: 360, AlcoholPercentByVolume: 17},
	CategoryBeer:         {Label: "Beer", MillilitersPerServing: 500, AlcoholPercentByVolume: 5},
	CategoryWine:         {Label: "Wine", MillilitersPerServing: 750, AlcoholPercentByVolume: 13},
	CategoryWhiskey:      {Label: "Whiskey", MillilitersPerServing: 700, AlcoholPercentByVolume: 40},
	CategoryRiceWine:     {Label: "Makgeolli", MillilitersPerServing: 750, AlcoholPercentByVolume: 6},
	CategoryOther:        {Label: "Other", MillilitersPerServing: 350, AlcoholPercentByVolume: 15},
}

// Categories lists every known category in identifier order.
var Categories = []Category{
	CategoryBeer,
	CategoryOther,
	CategoryRiceWine,
	CategorySpiritsClear,
	CategoryWhiskey,
	CategoryWine,
}

// Lookup returns the reference row for c.
func Lookup(c Category) (Spec, error) {
	spec, ok := reference[c]
	if !ok {
		return Spec{}, &ConfigurationError{Category: string(c)}
	}
	return spec, nil
}

// Reference returns a copy of the reference table.
func Reference() map[Category]Spec {
	out := make(map[Category]Spec, len(reference))
	for c, spec := range reference {
		out[c] = spec
	}
	return out
}

func (c Category) Valid() bool {
	_, ok := reference[c]
	return ok
}

func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", &ConfigurationError{Category: s}
	}
	return c, nil
}

// ConfigurationError reports a category that is not in the reference table.
type ConfigurationError struct {
	Category string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("unknown drink category %q", e.Category)
}
