package drink

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToVolumeMl_MatchesReferenceTable(t *testing.T) {
	for _, c := range Categories {
		spec, err := Lookup(c)
		require.NoError(t, err)

		for _, servings := range []float64{0, 1, 2, 3, 10} {
			got, err := ToVolumeMl(c, servings)
			require.NoError(t, err)
			assert.Equal(t, servings*spec.MillilitersPerServing, got, "%s x %v", c, servings)
		}
		for _, servings := range []float64{0.5, 1.5, 2.5} {
			got, err := ToVolumeMl(c, servings)
			require.NoError(t, err)
			assert.InDelta(t, servings*spec.MillilitersPerServing, got, 1e-9, "%s x %v", c, servings)
		}
	}
}

func TestToVolumeMl_KnownValues(t *testing.T) {
	tests := []struct {
		category Category
		servings float64
		want     float64
	}{
		{CategoryBeer, 2, 1000},
		{CategorySpiritsClear, 1, 360},
		{CategoryWine, 0.5, 375},
		{CategoryWhiskey, 1, 700},
		{CategoryRiceWine, 2, 1500},
		{CategoryOther, 1, 350},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			got, err := ToVolumeMl(tt.category, tt.servings)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToVolumeMl_UnknownCategory(t *testing.T) {
	_, err := ToVolumeMl(Category("mead"), 1)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "mead", cfgErr.Category)
}

func TestToVolumeMl_NegativeServings(t *testing.T) {
	_, err := ToVolumeMl(CategoryBeer, -1)
	assert.ErrorIs(t, err, ErrNegativeServings)
}

func TestToAlcoholMl(t *testing.T) {
	got, err := ToAlcoholMl(CategoryBeer, 2)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, got, 1e-9)

	got, err = ToAlcoholMl(CategoryWhiskey, 1)
	require.NoError(t, err)
	assert.InDelta(t, 280.0, got, 1e-9)

	_, err = ToAlcoholMl(Category("mead"), 1)
	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestValidateServings(t *testing.T) {
	for _, ok := range []float64{0.5, 1, 1.5, 12} {
		assert.NoError(t, ValidateServings(ok), "%v", ok)
	}
	for _, bad := range []float64{0, -0.5, 0.3, 1.25} {
		assert.ErrorIs(t, ValidateServings(bad), ErrInvalidServings, "%v", bad)
	}
}

func TestReference_ReturnsCopy(t *testing.T) {
	table := Reference()
	require.Len(t, table, len(Categories))

	table[CategoryBeer] = Spec{Label: "changed", MillilitersPerServing: 1}

	spec, err := Lookup(CategoryBeer)
	require.NoError(t, err)
	assert.Equal(t, "Beer", spec.Label)
	assert.Equal(t, 500.0, spec.MillilitersPerServing)
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" Rice-Wine ")
	require.NoError(t, err)
	assert.Equal(t, CategoryRiceWine, c)

	_, err = ParseCategory("cider")
	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}
