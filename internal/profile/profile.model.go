package profile

import (
	"math"
	"time"
)

// Profile holds the body measurements the app uses alongside drink logs.
// There is one row per owner, created on first update.
type Profile struct {
	OwnerID   string    `json:"ownerId" db:"owner_id"`
	Name      string    `json:"name" db:"name"`
	WeightKg  *float64  `json:"weightKg,omitempty" db:"weight_kg"`
	HeightCm  *float64  `json:"heightCm,omitempty" db:"height_cm"`
	BMI       *float64  `json:"bmi,omitempty" db:"-"`
	CreatedAt time.Time `json:"createdAt,omitzero" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt,omitzero" db:"updated_at"`
}

// Empty is what an owner sees before saving anything.
func Empty(ownerID string) *Profile {
	return &Profile{OwnerID: ownerID}
}

// FillBMI sets BMI from weight and height, rounded to one decimal. It is
// cleared when either measurement is missing.
func (p *Profile) FillBMI() {
	p.BMI = nil
	if p.WeightKg == nil || p.HeightCm == nil || *p.HeightCm <= 0 {
		return
	}
	m := *p.HeightCm / 100
	bmi := math.Round(*p.WeightKg/(m*m)*10) / 10
	p.BMI = &bmi
}
