package dto

import (
	"atelier/internal/lib/optional"
	categories "atelier/internal/services/category_service"

	"github.com/google/uuid"
)

type CreateCategoryRequest struct {
	Name         string  `json:"name" validate:"required,max=200"`
	Description  string  `json:"description"`
	ImageURL     *string `json:"image_url" validate:"omitempty,max=2048"`
	DisplayOrder *int    `json:"display_order" validate:"omitempty,min=0"`
}

func (r CreateCategoryRequest) Input() categories.CategoryInput {
	return categories.CategoryInput{
		Name:         r.Name,
		Description:  r.Description,
		ImageURL:     r.ImageURL,
		DisplayOrder: r.DisplayOrder,
	}
}

// UpdateCategoryRequest: отсутствующий ключ оставляет поле без изменений,
// "image_url": null очищает изображение.
type UpdateCategoryRequest struct {
	Name         optional.Field[string]  `json:"name" swaggertype:"string"`
	Description  optional.Field[string]  `json:"description" swaggertype:"string"`
	ImageURL     optional.Field[*string] `json:"image_url" swaggertype:"string"`
	DisplayOrder optional.Field[int]     `json:"display_order" swaggertype:"integer"`
}

func (r UpdateCategoryRequest) Patch() categories.CategoryPatch {
	return categories.CategoryPatch{
		Name:         r.Name,
		Description:  r.Description,
		ImageURL:     r.ImageURL,
		DisplayOrder: r.DisplayOrder,
	}
}

type ReorderRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required"`
}
