package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestFillBMI(t *testing.T) {
	p := &Profile{WeightKg: ptr(70.0), HeightCm: ptr(175.0)}
	p.FillBMI()
	require.NotNil(t, p.BMI)
	assert.Equal(t, 22.9, *p.BMI)

	p.HeightCm = nil
	p.FillBMI()
	assert.Nil(t, p.BMI)

	e := Empty("user_1")
	e.FillBMI()
	assert.Nil(t, e.BMI)
	assert.Equal(t, "user_1", e.OwnerID)
}

func TestUpdateRequest_Validate(t *testing.T) {
	req := &UpdateRequest{Name: ptr("  Minji  ")}
	require.NoError(t, req.Validate())
	assert.Equal(t, "Minji", *req.Name)

	require.NoError(t, (&UpdateRequest{WeightKg: ptr(62.5), HeightCm: ptr(168.0)}).Validate())

	tests := map[string]*UpdateRequest{
		"empty":       {},
		"zero weight": {WeightKg: ptr(0.0)},
		"huge weight": {WeightKg: ptr(900.0)},
		"negative cm": {HeightCm: ptr(-1.0)},
		"long name":   {Name: ptr("abcdefghijklmnopqrstuvwxyzabcdefghijklmnopqrstuvwxyz")},
	}
	for name, req := range tests {
		assert.ErrorIs(t, req.Validate(), ErrInvalidProfile, name)
	}
}
