package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"atelier/internal/domain/errs"
	"atelier/internal/domain/models"
	"atelier/internal/lib/logger/sl"
	"atelier/internal/metrics"
	"atelier/internal/storage"

	"github.com/google/uuid"
)

type Authorizer interface {
	Require(ctx context.Context) (models.Operator, error)
}

// тип содержимого -> допустимые расширения
var allowedTypes = map[string][]string{
	"image/jpeg": {"jpg", "jpeg"},
	"image/jpg":  {"jpg", "jpeg"},
	"image/png":  {"png"},
	"image/webp": {"webp"},
}

const DefaultMaxSize int64 = 5 << 20

// Uploaded - загруженный, но ещё не привязанный к изделию файл.
type Uploaded struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

type MediaService struct {
	log     *slog.Logger
	guard   Authorizer
	store   storage.BlobStore
	maxSize int64
	now     func() time.Time
}

func NewMediaService(log *slog.Logger, guard Authorizer, store storage.BlobStore, maxSize int64) *MediaService {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	return &MediaService{
		log:     log,
		guard:   guard,
		store:   store,
		maxSize: maxSize,
		now:     time.Now,
	}
}

// Upload проверяет тип и размер файла и сохраняет его под ключом
// <unix-ms>-<random>.<ext>.
func (s *MediaService) Upload(ctx context.Context, file *multipart.FileHeader) (Uploaded, error) {
	const op = "media_service.Upload"

	if _, err := s.guard.Require(ctx); err != nil {
		return Uploaded{}, fmt.Errorf("%s: %w", op, err)
	}

	up, err := s.upload(ctx, file)
	if err != nil {
		return Uploaded{}, fmt.Errorf("%s: %w", op, err)
	}
	return up, nil
}

// UploadBatch загружает файлы по одному. Если часть файлов не прошла,
// возвращает загруженные вместе с *errs.PartialFailureError.
func (s *MediaService) UploadBatch(ctx context.Context, files []*multipart.FileHeader) ([]Uploaded, error) {
	const op = "media_service.UploadBatch"

	if _, err := s.guard.Require(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%s: %w", op, errs.NewValidation("files", "at least one file is required"))
	}

	var (
		uploaded []Uploaded
		failed   []string
		failures []error
	)
	for _, f := range files {
		up, err := s.upload(ctx, f)
		if err != nil {
			failed = append(failed, f.Filename)
			failures = append(failures, fmt.Errorf("%s: %w", f.Filename, err))
			continue
		}
		uploaded = append(uploaded, up)
	}

	switch {
	case len(failures) == 0:
		return uploaded, nil
	case len(uploaded) == 0:
		return nil, fmt.Errorf("%s: %w", op, errors.Join(failures...))
	}

	committed := make([]string, len(uploaded))
	for i, up := range uploaded {
		committed[i] = up.Path
	}

	return uploaded, &errs.PartialFailureError{
		Op:        op,
		Committed: committed,
		Failed:    failed,
		Err:       errors.Join(failures...),
	}
}

// Delete удаляет загруженный файл, который ещё не сохранён в изделии.
func (s *MediaService) Delete(ctx context.Context, path string) error {
	const op = "media_service.Delete"

	if _, err := s.guard.Require(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log := s.log.With(slog.String("op", op), slog.String("path", path))

	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%s: %w", op, errs.NewValidation("path", "required"))
	}

	err := s.store.Delete(ctx, path)
	switch {
	case errors.Is(err, storage.ErrFileNotFound):
		return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	case errors.Is(err, storage.ErrInvalidKey):
		return fmt.Errorf("%s: %w", op, errs.NewValidation("path", "invalid path"))
	case err != nil:
		log.Error("failed to delete file", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("file deleted")
	return nil
}

func (s *MediaService) upload(ctx context.Context, file *multipart.FileHeader) (Uploaded, error) {
	log := s.log.With(
		slog.String("op", "media_service.upload"),
		slog.String("filename", file.Filename),
	)

	contentType := strings.ToLower(file.Header.Get("Content-Type"))
	ext, err := s.check(file.Filename, contentType, file.Size)
	if err != nil {
		metrics.MediaUploads.WithLabelValues("rejected").Inc()
		return Uploaded{}, err
	}

	src, err := file.Open()
	if err != nil {
		return Uploaded{}, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	key := fmt.Sprintf("%d-%s.%s", s.now().UnixMilli(), randomSuffix(), ext)

	path, err := s.store.Save(ctx, key, &capped{r: src, left: s.maxSize}, contentType)
	if err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) {
			metrics.MediaUploads.WithLabelValues("rejected").Inc()
			return Uploaded{}, errs.NewValidation("file", fmt.Sprintf("file exceeds %d MB", s.maxSize>>20))
		}

		metrics.MediaUploads.WithLabelValues("failed").Inc()
		log.Error("failed to store file", sl.Err(err))
		return Uploaded{}, err
	}

	metrics.MediaUploads.WithLabelValues("stored").Inc()
	log.Info("file stored", slog.String("path", path))

	return Uploaded{URL: s.store.URL(path), Path: path}, nil
}

// check возвращает расширение файла, если тип, расширение и размер допустимы.
func (s *MediaService) check(filename, contentType string, size int64) (string, error) {
	exts, ok := allowedTypes[contentType]
	if !ok {
		return "", errs.NewValidation("file", "only JPEG, PNG and WebP images are allowed")
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	match := false
	for _, e := range exts {
		if e == ext {
			match = true
			break
		}
	}
	if !match {
		return "", errs.NewValidation("file", fmt.Sprintf("extension %q does not match %s", ext, contentType))
	}

	if size > s.maxSize {
		return "", errs.NewValidation("file", fmt.Sprintf("file exceeds %d MB", s.maxSize>>20))
	}

	return ext, nil
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

// capped не даёт прочитать больше left байт: заголовок Size может врать.
type capped struct {
	r    io.Reader
	left int64
}

func (c *capped) Read(p []byte) (int, error) {
	if c.left < 0 {
		return 0, storage.ErrFileTooLarge
	}
	if int64(len(p)) > c.left+1 {
		p = p[:c.left+1]
	}

	n, err := c.r.Read(p)
	c.left -= int64(n)
	if c.left < 0 {
		return n, storage.ErrFileTooLarge
	}
	return n, err
}
