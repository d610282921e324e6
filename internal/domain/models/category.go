package models

import (
	"time"

	"github.com/google/uuid"
)

// Category группирует изделия и задаёт порядок их вывода в каталоге.
type Category struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Slug         string    `db:"slug" json:"slug"`
	Description  string    `db:"description" json:"description"`
	ImageURL     *string   `db:"image_url" json:"image_url"`
	DisplayOrder int       `db:"display_order" json:"display_order"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
