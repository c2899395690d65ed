package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/pinmap-server/internal/apierror"
	"github.com/dtroode/pinmap-server/internal/logger"
	"github.com/dtroode/pinmap-server/internal/model"
)

// multipartOverhead is the slack allowed on top of the file size for
// boundaries and part headers.
const multipartOverhead = 1 << 20

const imageField = "image"

// ImageService stores uploaded images and serves them back.
type ImageService interface {
	Store(ctx context.Context, upload model.ImageUpload) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, string, error)
	MaxSize() int64
	ErrFileTooLarge() *apierror.APIError
}

// Image handles image upload and asset download.
type Image struct {
	imageService ImageService
	logger       *logger.Logger
}

func NewImage(imageService ImageService, logger *logger.Logger) *Image {
	return &Image{imageService: imageService, logger: logger}
}

// Upload accepts a multipart form with a single "image" file.
func (h *Image) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.imageService.MaxSize()+multipartOverhead)

	fileHeader, err := c.FormFile(imageField)
	if err != nil {
		switch {
		case isBodyTooLarge(err):
			handleError(c, h.logger, h.imageService.ErrFileTooLarge())
		case errors.Is(err, http.ErrMissingFile):
			handleError(c, h.logger, apierror.NewValidation("No image file provided"))
		default:
			handleError(c, h.logger, apierror.NewValidation("invalid multipart form"))
		}
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	defer file.Close()

	url, err := h.imageService.Store(c.Request.Context(), model.ImageUpload{
		Reader:       file,
		OriginalName: fileHeader.Filename,
		ContentType:  fileHeader.Header.Get("Content-Type"),
		Size:         fileHeader.Size,
	})
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"imageUrl": url})
}

// Serve streams a stored asset by name.
func (h *Image) Serve(c *gin.Context) {
	reader, contentType, err := h.imageService.Open(c.Request.Context(), c.Param("name"))
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=86400")
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, reader); err != nil {
		h.logger.Warn("Image handler: failed to stream asset",
			"name", c.Param("name"),
			"error", err.Error())
	}
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	// mime/multipart does not always wrap the underlying read error.
	return strings.Contains(err.Error(), "request body too large")
}
