package drink

import (
	"errors"
	"math"
)

var (
	ErrNegativeServings = errors.New("servings must not be negative")
	ErrInvalidServings  = errors.New("servings must be a positive multiple of 0.5")
)

// ServingStep is the smallest amount a user can log.
const ServingStep = 0.5

// ToVolumeMl converts servings of c to milliliters. No rounding is applied.
func ToVolumeMl(c Category, servings float64) (float64, error) {
	spec, err := Lookup(c)
	if err != nil {
		return 0, err
	}
	if servings < 0 {
		return 0, ErrNegativeServings
	}
	return servings * spec.MillilitersPerServing, nil
}

// ToAlcoholMl converts servings of c to milliliters of pure alcohol.
func ToAlcoholMl(c Category, servings float64) (float64, error) {
	volume, err := ToVolumeMl(c, servings)
	if err != nil {
		return 0, err
	}
	spec, _ := Lookup(c)
	return volume * spec.AlcoholPercentByVolume / 100, nil
}

// ValidateServings checks the amount accepted when an entry is created or edited.
func ValidateServings(servings float64) error {
	if math.IsNaN(servings) || math.IsInf(servings, 0) || servings <= 0 {
		return ErrInvalidServings
	}
	steps := servings / ServingStep
	if steps != math.Trunc(steps) {
		return ErrInvalidServings
	}
	return nil
}
