package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/pinmap-server/internal/apierror"
	"github.com/dtroode/pinmap-server/internal/logger"
	"github.com/dtroode/pinmap-server/internal/model"
)

// PinService defines pin queries and owner-guarded mutations.
type PinService interface {
	ListPins(ctx context.Context) ([]model.Pin, error)
	GetPin(ctx context.Context, id uuid.UUID) (model.Pin, error)
	CreatePin(ctx context.Context, params model.CreatePinParams) (model.Pin, error)
	UpdatePin(ctx context.Context, requesterID, pinID uuid.UUID, update model.PinUpdate) (model.Pin, error)
	DeletePin(ctx context.Context, requesterID, pinID uuid.UUID) error
}

// Pin handles HTTP endpoints for pins.
type Pin struct {
	pinService     PinService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewPin creates a new Pin handler.
func NewPin(pinService PinService, contextManager model.ContextManager, logger *logger.Logger) *Pin {
	return &Pin{
		pinService:     pinService,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *Pin) List(c *gin.Context) {
	pins, err := h.pinService.ListPins(c.Request.Context())
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pins": toPinResponses(pins)})
}

func (h *Pin) Get(c *gin.Context) {
	pinID, ok := h.pinID(c)
	if !ok {
		return
	}

	pin, err := h.pinService.GetPin(c.Request.Context(), pinID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pin": toPinResponse(pin)})
}

func (h *Pin) Create(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req createPinRequest
	if err := bindJSON(c, &req); err != nil {
		handleError(c, h.logger, err)
		return
	}

	pin, err := h.pinService.CreatePin(c.Request.Context(), model.CreatePinParams{
		OwnerID:     userID,
		Title:       req.Title,
		Description: req.Description,
		Latitude:    req.Latitude.float(),
		Longitude:   req.Longitude.float(),
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Pin created successfully",
		"pin":     toPinResponse(pin),
	})
}

func (h *Pin) Update(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	pinID, ok := h.pinID(c)
	if !ok {
		return
	}

	var req updatePinRequest
	if err := bindJSON(c, &req); err != nil {
		handleError(c, h.logger, err)
		return
	}

	pin, err := h.pinService.UpdatePin(c.Request.Context(), userID, pinID, model.PinUpdate{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Pin updated successfully",
		"pin":     toPinResponse(pin),
	})
}

func (h *Pin) Delete(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	pinID, ok := h.pinID(c)
	if !ok {
		return
	}

	if err := h.pinService.DeletePin(c.Request.Context(), userID, pinID); err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Pin deleted successfully"})
}

func (h *Pin) userID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		handleError(c, h.logger, apierror.NewErrMissingAuthorizationToken())
		return uuid.Nil, false
	}
	return userID, true
}

// pinID parses the :id path parameter. Malformed ids cannot name an existing
// pin and are reported as not found.
func (h *Pin) pinID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handleError(c, h.logger, apierror.NewNotFound("pin not found"))
		return uuid.Nil, false
	}
	return id, true
}
