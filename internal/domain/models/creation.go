package models

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// Creation - отдельное изделие каталога.
//
// PublishedAt выставляется один раз, при первом переходе в published,
// и не сбрасывается при возврате в draft.
type Creation struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Title        string     `db:"title" json:"title"`
	Slug         string     `db:"slug" json:"slug"`
	Description  string     `db:"description" json:"description"`
	CategoryID   *uuid.UUID `db:"category_id" json:"category_id"`
	Materials    []string   `db:"materials" json:"materials"`
	Sizes        []string   `db:"sizes" json:"sizes"`
	Colors       []string   `db:"colors" json:"colors"`
	Featured     bool       `db:"featured" json:"featured"`
	Status       Status     `db:"status" json:"status"`
	PublishedAt  *time.Time `db:"published_at" json:"published_at"`
	DisplayOrder int        `db:"display_order" json:"display_order"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`

	Category *Category       `json:"category,omitempty"`
	Images   []CreationImage `json:"images,omitempty"`
}

// PrimaryImage возвращает основное изображение или nil, если изображений нет.
func (c Creation) PrimaryImage() *CreationImage {
	for i := range c.Images {
		if c.Images[i].IsPrimary {
			return &c.Images[i]
		}
	}
	if len(c.Images) > 0 {
		return &c.Images[0]
	}
	return nil
}

func (c Creation) InCategory(id uuid.UUID) bool {
	return c.CategoryID != nil && *c.CategoryID == id
}
