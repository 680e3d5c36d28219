package profile

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var ErrInvalidProfile = errors.New("invalid profile")

const maxNameLength = 50

// UpdateRequest is a partial update. Nil fields keep their stored value.
type UpdateRequest struct {
	Name     *string  `json:"name"`
	WeightKg *float64 `json:"weightKg"`
	HeightCm *float64 `json:"heightCm"`
}

// Validate trims the name and checks measurements are plausible.
func (r *UpdateRequest) Validate() error {
	if r.Name == nil && r.WeightKg == nil && r.HeightCm == nil {
		return fmt.Errorf("%w: nothing to update", ErrInvalidProfile)
	}
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if utf8.RuneCountInString(name) > maxNameLength {
			return fmt.Errorf("%w: name must be at most %d characters", ErrInvalidProfile, maxNameLength)
		}
		r.Name = &name
	}
	if r.WeightKg != nil && (*r.WeightKg <= 0 || *r.WeightKg > 500) {
		return fmt.Errorf("%w: weightKg must be between 0 and 500", ErrInvalidProfile)
	}
	if r.HeightCm != nil && (*r.HeightCm <= 0 || *r.HeightCm > 300) {
		return fmt.Errorf("%w: heightCm must be between 0 and 300", ErrInvalidProfile)
	}
	return nil
}
