package drink

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the wire and storage form of calendar dates.
const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("date must be formatted as YYYY-MM-DD")

// Entry is one recorded drinking event.
type Entry struct {
	ID                string    `json:"id" db:"id"`
	OwnerID           string    `json:"ownerId" db:"owner_id"`
	Date              string    `json:"date" db:"date"`
	Category          Category  `json:"category" db:"category"`
	Servings          float64   `json:"servings" db:"servings"`
	VolumeMilliliters float64   `json:"volumeMilliliters" db:"volume_ml"`
	Note              *string   `json:"note,omitempty" db:"note"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
}

type NewEntryParams struct {
	OwnerID  string
	Date     string
	Category Category
	Servings float64
	Note     *string
}

// NewEntry validates p and returns an entry with its volume computed from the
// reference table. ID and CreatedAt are left for the store to assign.
func NewEntry(p NewEntryParams) (*Entry, error) {
	if strings.TrimSpace(p.OwnerID) == "" {
		return nil, errors.New("owner id is required")
	}
	if err := ValidateDate(p.Date); err != nil {
		return nil, err
	}
	if err := ValidateServings(p.Servings); err != nil {
		return nil, err
	}
	volume, err := ToVolumeMl(p.Category, p.Servings)
	if err != nil {
		return nil, err
	}

	return &Entry{
		OwnerID:           p.OwnerID,
		Date:              p.Date,
		Category:          p.Category,
		Servings:          p.Servings,
		VolumeMilliliters: volume,
		Note:              normalizeNote(p.Note),
	}, nil
}

// Edit applies a servings and/or note change. A servings change recomputes the
// stored volume; nothing else on the entry is mutable.
func (e *Entry) Edit(servings *float64, note *string) error {
	if servings != nil {
		if err := ValidateServings(*servings); err != nil {
			return err
		}
		volume, err := ToVolumeMl(e.Category, *servings)
		if err != nil {
			return err
		}
		e.Servings = *servings
		e.VolumeMilliliters = volume
	}
	if note != nil {
		e.Note = normalizeNote(note)
	}
	return nil
}

func ValidateDate(date string) error {
	if len(date) != len(DateLayout) {
		return ErrInvalidDate
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

func normalizeNote(note *string) *string {
	if note == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*note)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
