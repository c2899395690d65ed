package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/pinmap-server/internal/apierror"
	"github.com/dtroode/pinmap-server/internal/logger"
	"github.com/dtroode/pinmap-server/internal/model"
)

// ImageRemover releases stored image assets.
type ImageRemover interface {
	Delete(ctx context.Context, url string) error
}

type Pin struct {
	pinStore model.PinStore
	cache    model.PinCache
	images   ImageRemover
	logger   *logger.Logger
	now      func() time.Time
}

func NewPin(
	pinStore model.PinStore,
	cache model.PinCache,
	images ImageRemover,
	logger *logger.Logger,
) *Pin {
	return &Pin{
		pinStore: pinStore,
		cache:    cache,
		images:   images,
		logger:   logger,
		now:      time.Now,
	}
}

// ListPins returns every pin, newest first.
func (s *Pin) ListPins(ctx context.Context) ([]model.Pin, error) {
	pins, ok, err := s.cache.GetPins(ctx)
	if err != nil {
		s.logger.Warn("Pin service: failed to read pin cache",
			"error", err.Error())
	}
	if ok {
		return pins, nil
	}

	// The generation must be read before the store so that a mutation
	// committed in between makes the fill below a no-op.
	generation, err := s.cache.Generation(ctx)
	fill := err == nil
	if err != nil {
		s.logger.Warn("Pin service: failed to read pin cache generation",
			"error", err.Error())
	}

	pins, err = s.pinStore.List(ctx)
	if err != nil {
		s.logger.Error("Pin service: failed to list pins",
			"error", err.Error())
		return nil, fmt.Errorf("failed to list pins: %w", err)
	}

	if fill {
		if err := s.cache.SetPins(ctx, generation, pins); err != nil {
			s.logger.Warn("Pin service: failed to fill pin cache",
				"error", err.Error())
		}
	}

	return pins, nil
}

func (s *Pin) GetPin(ctx context.Context, id uuid.UUID) (model.Pin, error) {
	pin, err := s.pinStore.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.Pin{}, apierror.NewErrPinNotFound(id)
	}
	if err != nil {
		return model.Pin{}, fmt.Errorf("failed to get pin by id: %w", err)
	}

	return pin, nil
}

func (s *Pin) CreatePin(ctx context.Context, params model.CreatePinParams) (model.Pin, error) {
	title := strings.TrimSpace(params.Title)
	description := strings.TrimSpace(params.Description)
	imageURL := strings.TrimSpace(params.ImageURL)

	if title == "" || description == "" || imageURL == "" ||
		params.Latitude == nil || params.Longitude == nil {
		return model.Pin{}, apierror.NewValidation("All fields are required")
	}
	if err := validateCoordinates(*params.Latitude, *params.Longitude); err != nil {
		return model.Pin{}, err
	}

	now := s.now().UTC()
	pin, err := s.pinStore.Create(ctx, model.Pin{
		ID:          uuid.New(),
		OwnerID:     params.OwnerID,
		Title:       title,
		Description: description,
		Latitude:    *params.Latitude,
		Longitude:   *params.Longitude,
		ImageURL:    imageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if errors.Is(err, model.ErrNotFound) {
		return model.Pin{}, apierror.NewErrUserNotFound(params.OwnerID)
	}
	if err != nil {
		s.logger.Error("Pin service: failed to create pin",
			"owner_id", params.OwnerID,
			"error", err.Error())
		return model.Pin{}, fmt.Errorf("failed to create pin: %w", err)
	}

	s.afterCommit(ctx, "")

	s.logger.Info("Pin service: pin created",
		"pin_id", pin.ID,
		"owner_id", pin.OwnerID)

	return pin, nil
}

// UpdatePin applies the supplied fields of update to a pin owned by requesterID.
func (s *Pin) UpdatePin(ctx context.Context, requesterID, pinID uuid.UUID, update model.PinUpdate) (model.Pin, error) {
	pin, err := s.ownedPin(ctx, requesterID, pinID)
	if err != nil {
		return model.Pin{}, err
	}

	previousImage := pin.ImageURL
	if v, ok := supplied(update.Title); ok {
		pin.Title = v
	}
	if v, ok := supplied(update.Description); ok {
		pin.Description = v
	}
	if v, ok := supplied(update.ImageURL); ok {
		pin.ImageURL = v
	}
	pin.UpdatedAt = s.now().UTC()

	updated, err := s.pinStore.Update(ctx, pin)
	if errors.Is(err, model.ErrNotFound) {
		return model.Pin{}, apierror.NewErrPinNotFound(pinID)
	}
	if err != nil {
		s.logger.Error("Pin service: failed to update pin",
			"pin_id", pinID,
			"error", err.Error())
		return model.Pin{}, fmt.Errorf("failed to update pin: %w", err)
	}

	var released string
	if previousImage != "" && previousImage != updated.ImageURL {
		released = previousImage
	}
	s.afterCommit(ctx, released)

	s.logger.Info("Pin service: pin updated",
		"pin_id", pinID)

	return updated, nil
}

// DeletePin removes a pin owned by requesterID together with its image.
func (s *Pin) DeletePin(ctx context.Context, requesterID, pinID uuid.UUID) error {
	pin, err := s.ownedPin(ctx, requesterID, pinID)
	if err != nil {
		return err
	}

	err = s.pinStore.Delete(ctx, pinID)
	if errors.Is(err, model.ErrNotFound) {
		return apierror.NewErrPinNotFound(pinID)
	}
	if err != nil {
		s.logger.Error("Pin service: failed to delete pin",
			"pin_id", pinID,
			"error", err.Error())
		return fmt.Errorf("failed to delete pin: %w", err)
	}

	s.afterCommit(ctx, pin.ImageURL)

	s.logger.Info("Pin service: pin deleted",
		"pin_id", pinID)

	return nil
}

func (s *Pin) ownedPin(ctx context.Context, requesterID, pinID uuid.UUID) (model.Pin, error) {
	pin, err := s.GetPin(ctx, pinID)
	if err != nil {
		return model.Pin{}, err
	}

	if pin.OwnerID != requesterID {
		s.logger.Info("Pin service: rejected mutation by non-owner",
			"pin_id", pinID,
			"requester_id", requesterID)
		return model.Pin{}, apierror.NewErrNotPinOwner()
	}

	return pin, nil
}

// afterCommit runs the side effects of a successful mutation: the pin list
// cache is dropped and releasedImage, if set, is removed from storage.
// Failures are logged only; the mutation itself has already succeeded.
func (s *Pin) afterCommit(ctx context.Context, releasedImage string) {
	ctx = context.WithoutCancel(ctx)

	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("Pin service: failed to invalidate pin cache",
			"error", err.Error())
	}

	if releasedImage == "" {
		return
	}
	if err := s.images.Delete(ctx, releasedImage); err != nil {
		s.logger.Warn("Pin service: failed to release image",
			"image_url", releasedImage,
			"error", err.Error())
	}
}

func validateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return apierror.NewValidation("latitude must be between -90 and 90")
	}
	if math.IsNaN(lng) || lng < -180 || lng > 180 {
		return apierror.NewValidation("longitude must be between -180 and 180")
	}
	return nil
}

func supplied(v *string) (string, bool) {
	if v == nil {
		return "", false
	}
	trimmed := strings.TrimSpace(*v)
	return trimmed, trimmed != ""
}
