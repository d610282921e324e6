package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrFileTooLarge    = errors.New("file size exceeds limit")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileNotFound    = errors.New("file not found")
	ErrInvalidKey      = errors.New("invalid object key")
	ErrNoSuchKey       = errors.New("no such key")
)

// BlobStore - хранилище файлов изображений (локальный диск или S3).
// Path - ключ объекта внутри хранилища, URL - публичный адрес.
type BlobStore interface {
	Save(ctx context.Context, key string, r io.Reader, contentType string) (path string, err error)
	Delete(ctx context.Context, path string) error
	URL(path string) string
}
