package model

import (
	"context"
	"io"
)

// Storage is an object store for uploaded assets.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// ImageUpload describes an uploaded image file.
type ImageUpload struct {
	Reader       io.Reader
	OriginalName string
	ContentType  string
	Size         int64
}
