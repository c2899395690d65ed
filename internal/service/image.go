package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/dtroode/pinmap-server/internal/apierror"
	"github.com/dtroode/pinmap-server/internal/logger"
	"github.com/dtroode/pinmap-server/internal/model"
)

const (
	imageNamePrefix = "pin-"
	maxSlugLength   = 40
)

var contentTypes = map[string]string{
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// Image stores uploaded pin photos and serves them back by name.
type Image struct {
	storage    model.Storage
	maxSize    int64
	allowed    map[string]struct{}
	publicPath string
	logger     *logger.Logger
}

func NewImage(
	storage model.Storage,
	maxSize int64,
	allowedTypes []string,
	publicPath string,
	logger *logger.Logger,
) *Image {
	allowed := make(map[string]struct{}, len(allowedTypes))
	for _, t := range allowedTypes {
		t = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(t), "."))
		if t != "" {
			allowed[t] = struct{}{}
		}
	}

	return &Image{
		storage:    storage,
		maxSize:    maxSize,
		allowed:    allowed,
		publicPath: "/" + strings.Trim(publicPath, "/"),
		logger:     logger,
	}
}

// MaxSize is the largest accepted upload in bytes.
func (s *Image) MaxSize() int64 {
	return s.maxSize
}

// ErrFileTooLarge returns the validation error reported for oversize uploads.
func (s *Image) ErrFileTooLarge() *apierror.APIError {
	return apierror.NewValidation(
		fmt.Sprintf("File size too large. Maximum size is %dMB", s.maxSize>>20))
}

// Store validates and persists an uploaded image, returning its public URL.
func (s *Image) Store(ctx context.Context, upload model.ImageUpload) (string, error) {
	ext := extension(upload.OriginalName)
	if !s.allowedExtension(ext) || !s.allowedMIME(upload.ContentType) {
		s.logger.Info("Image service: rejected upload type",
			"name", upload.OriginalName,
			"content_type", upload.ContentType)
		return "", apierror.NewValidation("Only image files are allowed (jpeg, jpg, png, gif, webp)")
	}
	if upload.Size <= 0 || upload.Reader == nil {
		return "", apierror.NewValidation("No image file provided")
	}
	if upload.Size > s.maxSize {
		s.logger.Info("Image service: rejected oversize upload",
			"name", upload.OriginalName,
			"size", upload.Size)
		return "", s.ErrFileTooLarge()
	}

	name := s.assetName(upload.OriginalName, ext)
	reader := io.LimitReader(upload.Reader, upload.Size)

	if err := s.storage.Upload(ctx, name, reader, upload.Size, contentTypes[ext]); err != nil {
		s.logger.Error("Image service: failed to upload image",
			"name", name,
			"error", err.Error())
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	s.logger.Info("Image service: image stored",
		"name", name,
		"size", upload.Size)

	return path.Join(s.publicPath, name), nil
}

// Delete removes the asset behind url. URLs that do not point into the
// public upload path are ignored, as are assets that are already gone.
func (s *Image) Delete(ctx context.Context, url string) error {
	name, ok := s.nameFromURL(url)
	if !ok {
		s.logger.Debug("Image service: skipping delete of foreign url",
			"url", url)
		return nil
	}

	if err := s.storage.Delete(ctx, name); err != nil && !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("failed to delete image %s: %w", name, err)
	}

	s.logger.Debug("Image service: image deleted",
		"name", name)

	return nil
}

// Open returns the stored asset with the given name and its content type.
func (s *Image) Open(ctx context.Context, name string) (io.ReadCloser, string, error) {
	ext := extension(name)
	if !validAssetName(name) || !s.allowedExtension(ext) {
		return nil, "", apierror.NewNotFound("image not found")
	}

	reader, err := s.storage.Download(ctx, name)
	if errors.Is(err, model.ErrNotFound) {
		return nil, "", apierror.NewNotFound("image not found")
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to download image: %w", err)
	}

	return reader, contentTypes[ext], nil
}

func (s *Image) assetName(originalName, ext string) string {
	base := strings.TrimSuffix(path.Base(strings.ReplaceAll(originalName, "\\", "/")), path.Ext(originalName))
	readable := slug.Make(base)
	if len(readable) > maxSlugLength {
		readable = strings.Trim(readable[:maxSlugLength], "-")
	}

	name := imageNamePrefix + uuid.NewString()
	if readable != "" {
		name += "-" + readable
	}
	return name + "." + ext
}

func (s *Image) nameFromURL(url string) (string, bool) {
	name, ok := strings.CutPrefix(url, s.publicPath+"/")
	if !ok || !validAssetName(name) {
		return "", false
	}
	return name, true
}

func (s *Image) allowedExtension(ext string) bool {
	if _, ok := contentTypes[ext]; !ok {
		return false
	}
	_, ok := s.allowed[ext]
	return ok
}

func (s *Image) allowedMIME(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	subtype, ok := strings.CutPrefix(mediaType, "image/")
	if !ok {
		return false
	}
	_, ok = s.allowed[subtype]
	return ok
}

func extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
}

func validAssetName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, "/\\")
}
