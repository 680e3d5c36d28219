package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"sullendaAPI/internal/drink"
	"sullendaAPI/internal/window"
)

type DrinkLogService struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewDrinkLogService(db *pgxpool.Pool, log *zap.Logger) *DrinkLogService {
	return &DrinkLogService{db: db, log: log}
}

const entryColumns = `id::text, owner_id, date::text, category, servings, volume_ml, note, created_at`

func scanEntry(row pgx.Row) (*drink.Entry, error) {
	e := &drink.Entry{}
	err := row.Scan(
		&e.ID,
		&e.OwnerID,
		&e.Date,
		&e.Category,
		&e.Servings,
		&e.VolumeMilliliters,
		&e.Note,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Create validates p, computes the volume and stores the entry.
func (s *DrinkLogService) Create(ctx context.Context, p drink.NewEntryParams) (*drink.Entry, error) {
	entry, err := drink.NewEntry(p)
	if err != nil {
		return nil, err
	}

	query := `
	INSERT INTO drink_logs (owner_id, date, category, servings, volume_ml, note)
	VALUES ($1, $2::date, $3, $4, $5, $6)
	RETURNING ` + entryColumns

	created, err := scanEntry(s.db.QueryRow(ctx, query,
		entry.OwnerID,
		entry.Date,
		entry.Category,
		entry.Servings,
		entry.VolumeMilliliters,
		entry.Note,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create drink log: %w", err)
	}

	drinkLogsWritten.WithLabelValues("create", string(created.Category)).Inc()
	s.log.Debug("Drink log created",
		zap.String("owner_id", created.OwnerID),
		zap.String("date", created.Date),
		zap.String("category", string(created.Category)),
		zap.Float64("servings", created.Servings),
	)
	return created, nil
}

func (s *DrinkLogService) GetByID(ctx context.Context, ownerID, id string) (*drink.Entry, error) {
	id, err := parseID(id, "drink log")
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + entryColumns + ` FROM drink_logs WHERE owner_id = $1 AND id = $2::uuid`

	entry, err := scanEntry(s.db.QueryRow(ctx, query, ownerID, id))
	if err != nil {
		return nil, notFound(err, "drink log")
	}
	return entry, nil
}

// GetByDate returns one day's entries in the order they were logged.
func (s *DrinkLogService) GetByDate(ctx context.Context, ownerID, date string) ([]drink.Entry, error) {
	w, err := window.Day(date)
	if err != nil {
		return nil, err
	}
	query := `
	SELECT ` + entryColumns + `
	FROM drink_logs
	WHERE owner_id = $1 AND date = $2::date
	ORDER BY created_at ASC
	`
	return s.list(ctx, query, ownerID, w.StartDate)
}

// GetByRange returns the owner's entries dated inside w, oldest first.
func (s *DrinkLogService) GetByRange(ctx context.Context, ownerID string, w window.Window) ([]drink.Entry, error) {
	query := `
	SELECT ` + entryColumns + `
	FROM drink_logs
	WHERE owner_id = $1
		AND date >= $2::date
		AND date <= $3::date
	ORDER BY date ASC, created_at ASC
	`
	return s.list(ctx, query, ownerID, w.StartDate, w.EndDate)
}

func (s *DrinkLogService) GetByMonth(ctx context.Context, ownerID string, year, month int) ([]drink.Entry, error) {
	w, err := window.CalendarMonth(year, month)
	if err != nil {
		return nil, err
	}
	return s.GetByRange(ctx, ownerID, w)
}

func (s *DrinkLogService) list(ctx context.Context, query string, args ...any) ([]drink.Entry, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch drink logs: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (drink.Entry, error) {
		e, err := scanEntry(row)
		if err != nil {
			return drink.Entry{}, err
		}
		return *e, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan drink logs: %w", err)
	}
	return entries, nil
}

// Update edits servings and/or note. A servings change recomputes the stored
// volume from the entry's category.
func (s *DrinkLogService) Update(ctx context.Context, ownerID, id string, servings *float64, note *string) (*drink.Entry, error) {
	id, err := parseID(id, "drink log")
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	entry, err := scanEntry(tx.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM drink_logs WHERE owner_id = $1 AND id = $2::uuid FOR UPDATE`,
		ownerID, id,
	))
	if err != nil {
		return nil, notFound(err, "drink log")
	}

	if err := entry.Edit(servings, note); err != nil {
		return nil, err
	}

	updated, err := scanEntry(tx.QueryRow(ctx, `
	UPDATE drink_logs
	SET servings = $3, volume_ml = $4, note = $5
	WHERE owner_id = $1 AND id = $2::uuid
	RETURNING `+entryColumns,
		ownerID, id, entry.Servings, entry.VolumeMilliliters, entry.Note,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to update drink log: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit drink log update: %w", err)
	}

	drinkLogsWritten.WithLabelValues("update", string(updated.Category)).Inc()
	return updated, nil
}

// Delete removes an entry permanently.
func (s *DrinkLogService) Delete(ctx context.Context, ownerID, id string) error {
	id, err := parseID(id, "drink log")
	if err != nil {
		return err
	}

	var category string
	err = s.db.QueryRow(ctx,
		`DELETE FROM drink_logs WHERE owner_id = $1 AND id = $2::uuid RETURNING category`,
		ownerID, id,
	).Scan(&category)
	if err != nil {
		return notFound(err, "drink log")
	}

	drinkLogsWritten.WithLabelValues("delete", category).Inc()
	return nil
}

func (s *DrinkLogService) DeleteAllForOwner(ctx context.Context, ownerID string) (int64, error) {
	result, err := s.db.Exec(ctx, `DELETE FROM drink_logs WHERE owner_id = $1`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete drink logs: %w", err)
	}
	return result.RowsAffected(), nil
}
