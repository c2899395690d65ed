package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PinStore defines persistence operations for pins.
type PinStore interface {
	Create(ctx context.Context, pin Pin) (Pin, error)
	GetByID(ctx context.Context, id uuid.UUID) (Pin, error)
	List(ctx context.Context) ([]Pin, error)
	Update(ctx context.Context, pin Pin) (Pin, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PinCache keeps a copy of the full pin list.
//
// Every Invalidate advances the cache generation. SetPins stores a list only
// if the generation is still the one read by Generation before the list was
// loaded, so a fill that raced with a mutation is dropped.
type PinCache interface {
	GetPins(ctx context.Context) ([]Pin, bool, error)
	Generation(ctx context.Context) (int64, error)
	SetPins(ctx context.Context, generation int64, pins []Pin) error
	Invalidate(ctx context.Context) error
}

// Pin is a geotagged map annotation owned by a single user.
type Pin struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	OwnerEmail  string
	Title       string
	Description string
	Latitude    float64
	Longitude   float64
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreatePinParams contains parameters to create a pin.
// Coordinates are pointers so that a missing value can be told apart from zero.
type CreatePinParams struct {
	OwnerID     uuid.UUID
	Title       string
	Description string
	Latitude    *float64
	Longitude   *float64
	ImageURL    string
}

// PinUpdate holds the fields an owner may change. Nil means not supplied.
type PinUpdate struct {
	Title       *string
	Description *string
	ImageURL    *string
}
