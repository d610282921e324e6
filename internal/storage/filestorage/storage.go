package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"atelier/internal/storage"
)

// LocalFileStorage хранит изображения в каталоге на диске,
// раздаваемом echo как статика под baseURL.
type LocalFileStorage struct {
	baseDir string // Базовый каталог для хранения (например: "./uploads")
	baseURL string // Базовый URL для доступа к файлам (например: "http://localhost:8080/uploads")
}

func NewLocalFileStorage(baseDir, baseURL string) (*LocalFileStorage, error) {
	// Создаем директорию, если она не существует
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, err
	}

	return &LocalFileStorage{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *LocalFileStorage) Save(ctx context.Context, key string, r io.Reader, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rel, err := cleanKey(key)
	if err != nil {
		return "", err
	}

	filePath := s.GetFullPath(rel)
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directories: %w", err)
	}

	dst, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	done := make(chan struct{})
	var copyErr error

	go func() {
		_, copyErr = io.Copy(dst, r)
		close(done)
	}()

	select {
	case <-done:
		if copyErr != nil {
			_ = os.Remove(filePath)
			return "", fmt.Errorf("failed to copy file: %w", copyErr)
		}
	case <-ctx.Done():
		<-done
		_ = os.Remove(filePath)
		return "", ctx.Err()
	}

	return filepath.ToSlash(rel), nil
}

// Delete удаляет файл из хранилища
func (s *LocalFileStorage) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rel, err := cleanKey(path)
	if err != nil {
		return err
	}

	if err := os.Remove(s.GetFullPath(rel)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return storage.ErrFileNotFound
		}
		return err
	}

	return nil
}

func (s *LocalFileStorage) URL(path string) string {
	return s.baseURL + "/" + strings.TrimLeft(path, "/")
}

// GetFullPath возвращает полный путь к файлу на диске
func (s *LocalFileStorage) GetFullPath(relativePath string) string {
	return filepath.Join(s.baseDir, relativePath)
}

// cleanKey не даёт выйти за пределы baseDir.
func cleanKey(key string) (string, error) {
	if key == "" {
		return "", storage.ErrInvalidKey
	}

	rel := filepath.Clean(filepath.FromSlash(strings.TrimLeft(key, "/")))
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", storage.ErrInvalidKey
	}

	return rel, nil
}
