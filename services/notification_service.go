package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"sullendaAPI/internal/notification"
)

type NotificationService struct {
	db         *pgxpool.Pool
	log        *zap.Logger
	dispatcher *PushDispatcher
}

func NewNotificationService(db *pgxpool.Pool, log *zap.Logger) *NotificationService {
	return &NotificationService{
		db:         db,
		log:        log,
		dispatcher: NewPushDispatcher(log, 5, 100),
	}
}

// SetPushProvider injects the FCM provider from main.go.
func (s *NotificationService) SetPushProvider(provider PushProvider) {
	s.dispatcher.SetPushProvider(provider)
}

func (s *NotificationService) Stop() {
	s.dispatcher.Stop()
}

// RegisterDevice stores a push token. A token moving to another account is
// reassigned to the new owner.
func (s *NotificationService) RegisterDevice(ctx context.Context, ownerID string, req *notification.RegisterDeviceRequest) (*notification.DeviceToken, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t := &notification.DeviceToken{}
	err := s.db.QueryRow(ctx, `
	INSERT INTO device_tokens (owner_id, token, platform)
	VALUES ($1, $2, $3)
	ON CONFLICT (token)
	DO UPDATE SET owner_id = $1, platform = $3, updated_at = NOW()
	RETURNING id::text, owner_id, token, platform, created_at, updated_at
	`, ownerID, req.Token, req.Platform).Scan(
		&t.ID, &t.OwnerID, &t.Token, &t.Platform, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register device: %w", err)
	}
	return t, nil
}

func (s *NotificationService) Tokens(ctx context.Context, ownerID string) ([]notification.DeviceToken, error) {
	rows, err := s.db.Query(ctx, `
	SELECT id::text, owner_id, token, platform, created_at, updated_at
	FROM device_tokens
	WHERE owner_id = $1
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch device tokens: %w", err)
	}
	defer rows.Close()

	tokens := []notification.DeviceToken{}
	for rows.Next() {
		var t notification.DeviceToken
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Token, &t.Platform, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan device token: %w", err)
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

// OwnersWithDevices lists every owner that can receive pushes.
func (s *NotificationService) OwnersWithDevices(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT DISTINCT owner_id FROM device_tokens ORDER BY owner_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch push owners: %w", err)
	}
	defer rows.Close()

	owners := []string{}
	for rows.Next() {
		var owner string
		if err := rows.Scan(&owner); err != nil {
			return nil, fmt.Errorf("failed to scan owner: %w", err)
		}
		owners = append(owners, owner)
	}
	return owners, rows.Err()
}

// Notify queues p for every device the owner registered. Owners without
// devices are skipped. A push that cannot be queued returns ErrPushDropped.
func (s *NotificationService) Notify(ctx context.Context, p notification.Push) error {
	tokens, err := s.Tokens(ctx, p.OwnerID)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		s.log.Debug("Skipping push, no devices", zap.String("owner_id", p.OwnerID), zap.String("kind", string(p.Kind)))
		return nil
	}
	return s.dispatcher.Dispatch(ctx, &PushJob{Push: p, Tokens: tokens})
}

func (s *NotificationService) DeleteAllForOwner(ctx context.Context, ownerID string) (int64, error) {
	result, err := s.db.Exec(ctx, `DELETE FROM device_tokens WHERE owner_id = $1`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete device tokens: %w", err)
	}
	return result.RowsAffected(), nil
}
