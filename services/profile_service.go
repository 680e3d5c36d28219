package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"sullendaAPI/internal/profile"
)

type ProfileService struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewProfileService(db *pgxpool.Pool, log *zap.Logger) *ProfileService {
	return &ProfileService{db: db, log: log}
}

const profileColumns = `owner_id, name, weight_kg, height_cm, created_at, updated_at`

func scanProfile(row pgx.Row) (*profile.Profile, error) {
	p := &profile.Profile{}
	err := row.Scan(
		&p.OwnerID,
		&p.Name,
		&p.WeightKg,
		&p.HeightCm,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.FillBMI()
	return p, nil
}

// Get returns the stored profile, or an empty one if the owner never saved it.
func (s *ProfileService) Get(ctx context.Context, ownerID string) (*profile.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE owner_id = $1`

	p, err := scanProfile(s.db.QueryRow(ctx, query, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return profile.Empty(ownerID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// Update creates the row on first use. Nil fields keep their stored value.
func (s *ProfileService) Update(ctx context.Context, ownerID string, req profile.UpdateRequest) (*profile.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	query := `
	INSERT INTO profiles (owner_id, name, weight_kg, height_cm)
	VALUES ($1, COALESCE($2, ''), $3, $4)
	ON CONFLICT (owner_id) DO UPDATE SET
		name = COALESCE($2, profiles.name),
		weight_kg = COALESCE($3, profiles.weight_kg),
		height_cm = COALESCE($4, profiles.height_cm),
		updated_at = NOW()
	RETURNING ` + profileColumns

	p, err := scanProfile(s.db.QueryRow(ctx, query, ownerID, req.Name, req.WeightKg, req.HeightCm))
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.log.Info("Profile updated", zap.String("owner_id", ownerID))
	return p, nil
}

func (s *ProfileService) DeleteAllForOwner(ctx context.Context, ownerID string) (int64, error) {
	result, err := s.db.Exec(ctx, `DELETE FROM profiles WHERE owner_id = $1`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete profile: %w", err)
	}
	return result.RowsAffected(), nil
}
