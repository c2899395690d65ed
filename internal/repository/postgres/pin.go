package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/pinmap-server/internal/model"
)

var _ model.PinStore = (*PinRepository)(nil)

// pinColumns selects a pin joined with its owner's email.
const pinColumns = `p.id, p.owner_id, u.email, p.title, p.description,
	p.latitude, p.longitude, p.image_url, p.created_at, p.updated_at`

type PinRepository struct {
	db *Connection
}

func NewPinRepository(db *Connection) *PinRepository {
	return &PinRepository{
		db: db,
	}
}

func (r *PinRepository) Create(ctx context.Context, pin model.Pin) (model.Pin, error) {
	query := `WITH p AS (
				INSERT INTO pins (id, owner_id, title, description, latitude, longitude, image_url, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				RETURNING *
			  )
			  SELECT ` + pinColumns + `
			  FROM p JOIN users u ON u.id = p.owner_id`

	saved, err := scanPin(r.db.QueryRow(ctx, query,
		pin.ID, pin.OwnerID, pin.Title, pin.Description,
		pin.Latitude, pin.Longitude, pin.ImageURL, pin.CreatedAt, pin.UpdatedAt,
	))
	if err != nil {
		if mapped := mapConstraintError(err); errors.Is(mapped, model.ErrNotFound) {
			return model.Pin{}, mapped
		}
		return model.Pin{}, fmt.Errorf("failed to create pin: %w", err)
	}

	return saved, nil
}

func (r *PinRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Pin, error) {
	query := `SELECT ` + pinColumns + `
			  FROM pins p JOIN users u ON u.id = p.owner_id
			  WHERE p.id = $1`

	pin, err := scanPin(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Pin{}, model.ErrNotFound
		}
		return model.Pin{}, fmt.Errorf("failed to get pin by id: %w", err)
	}

	return pin, nil
}

func (r *PinRepository) List(ctx context.Context) ([]model.Pin, error) {
	query := `SELECT ` + pinColumns + `
			  FROM pins p JOIN users u ON u.id = p.owner_id
			  ORDER BY p.created_at DESC, p.id DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pins: %w", err)
	}
	defer rows.Close()

	pins := make([]model.Pin, 0)
	for rows.Next() {
		pin, err := scanPin(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pin: %w", err)
		}
		pins = append(pins, pin)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pins: %w", err)
	}

	return pins, nil
}

// Update overwrites the mutable fields of the pin with the given ID.
func (r *PinRepository) Update(ctx context.Context, pin model.Pin) (model.Pin, error) {
	query := `WITH p AS (
				UPDATE pins SET title = $2, description = $3, image_url = $4, updated_at = $5
				WHERE id = $1
				RETURNING *
			  )
			  SELECT ` + pinColumns + `
			  FROM p JOIN users u ON u.id = p.owner_id`

	saved, err := scanPin(r.db.QueryRow(ctx, query,
		pin.ID, pin.Title, pin.Description, pin.ImageURL, pin.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Pin{}, model.ErrNotFound
		}
		return model.Pin{}, fmt.Errorf("failed to update pin: %w", err)
	}

	return saved, nil
}

func (r *PinRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM pins WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete pin: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func scanPin(row pgx.Row) (model.Pin, error) {
	var pin model.Pin
	err := row.Scan(
		&pin.ID, &pin.OwnerID, &pin.OwnerEmail, &pin.Title, &pin.Description,
		&pin.Latitude, &pin.Longitude, &pin.ImageURL, &pin.CreatedAt, &pin.UpdatedAt,
	)
	return pin, err
}
