package models

import (
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreationImage принадлежит ровно одному изделию.
// Нулевой ID означает, что файл уже загружен, но строки в БД ещё нет.
type CreationImage struct {
	ID           uuid.UUID `db:"id" json:"id"`
	CreationID   uuid.UUID `db:"creation_id" json:"creation_id"`
	URL          string    `db:"url" json:"url"`
	AltText      string    `db:"alt_text" json:"alt_text"`
	IsPrimary    bool      `db:"is_primary" json:"is_primary"`
	DisplayOrder int       `db:"display_order" json:"display_order"`
	StoragePath  string    `db:"storage_path" json:"path,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

func (i CreationImage) Persisted() bool {
	return i.ID != uuid.Nil
}

// BlobPath возвращает ключ файла в хранилище. Для старых записей без
// storage_path ключом считается последний сегмент URL.
func (i CreationImage) BlobPath() string {
	if i.StoragePath != "" {
		return i.StoragePath
	}

	return FilenameFromURL(i.URL)
}

func FilenameFromURL(raw string) string {
	if raw == "" {
		return ""
	}

	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		raw = u.Path
	}

	name := path.Base(strings.TrimRight(raw, "/"))
	if name == "." || name == "/" {
		return ""
	}

	return name
}
