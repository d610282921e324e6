package dto

import (
	"bytes"
	"encoding/json"

	"atelier/internal/domain/models"
	"atelier/internal/lib/optional"
	creations "atelier/internal/services/creation_service"

	"github.com/google/uuid"
)

// Tags принимает и массив строк, и строку через запятую.
type Tags []string

func (t *Tags) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*t = creations.ParseTags(raw)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*t = list
	return nil
}

type ImageRequest struct {
	ID           uuid.UUID `json:"id,omitempty"`
	URL          string    `json:"url" validate:"required"`
	AltText      string    `json:"alt_text"`
	IsPrimary    bool      `json:"is_primary"`
	DisplayOrder int       `json:"display_order"`
	Path         string    `json:"path"`
}

func (r ImageRequest) Model() models.CreationImage {
	return models.CreationImage{
		ID:           r.ID,
		URL:          r.URL,
		AltText:      r.AltText,
		IsPrimary:    r.IsPrimary,
		DisplayOrder: r.DisplayOrder,
		StoragePath:  r.Path,
	}
}

func images(list []ImageRequest) []models.CreationImage {
	out := make([]models.CreationImage, len(list))
	for i, img := range list {
		out[i] = img.Model()
	}
	return out
}

type CreateCreationRequest struct {
	Title       string         `json:"title" validate:"required,max=300"`
	Description string         `json:"description"`
	CategoryID  *uuid.UUID     `json:"category_id" swaggertype:"string"`
	Materials   Tags           `json:"materials" swaggertype:"array,string"`
	Sizes       Tags           `json:"sizes" swaggertype:"array,string"`
	Colors      Tags           `json:"colors" swaggertype:"array,string"`
	Featured    bool           `json:"featured"`
	Status      models.Status  `json:"status" validate:"omitempty,oneof=draft published" swaggertype:"string"`
	Images      []ImageRequest `json:"images" validate:"required,min=1,dive"`
}

func (r CreateCreationRequest) Input() creations.CreationInput {
	return creations.CreationInput{
		Title:       r.Title,
		Description: r.Description,
		CategoryID:  r.CategoryID,
		Materials:   r.Materials,
		Sizes:       r.Sizes,
		Colors:      r.Colors,
		Featured:    r.Featured,
		Status:      r.Status,
		Images:      images(r.Images),
	}
}

// UpdateCreationRequest - частичное обновление. images_to_delete удаляются,
// images с id обновляют сохранённые изображения, без id добавляют новые.
type UpdateCreationRequest struct {
	Title          optional.Field[string]         `json:"title" swaggertype:"string"`
	Description    optional.Field[string]         `json:"description" swaggertype:"string"`
	CategoryID     optional.Field[*uuid.UUID]     `json:"category_id" swaggertype:"string"`
	Materials      optional.Field[Tags]           `json:"materials" swaggertype:"array,string"`
	Sizes          optional.Field[Tags]           `json:"sizes" swaggertype:"array,string"`
	Colors         optional.Field[Tags]           `json:"colors" swaggertype:"array,string"`
	Featured       optional.Field[bool]           `json:"featured" swaggertype:"boolean"`
	Status         optional.Field[models.Status]  `json:"status" swaggertype:"string"`
	Images         optional.Field[[]ImageRequest] `json:"images" swaggertype:"array,object"`
	ImagesToDelete []uuid.UUID                    `json:"images_to_delete"`
}

func (r UpdateCreationRequest) Patch() creations.CreationPatch {
	p := creations.CreationPatch{
		Title:          r.Title,
		Description:    r.Description,
		CategoryID:     r.CategoryID,
		Featured:       r.Featured,
		Status:         r.Status,
		ImagesToDelete: r.ImagesToDelete,
	}
	p.Materials = tags(r.Materials)
	p.Sizes = tags(r.Sizes)
	p.Colors = tags(r.Colors)
	if r.Images.Set {
		p.Images = optional.Of(images(r.Images.Value))
	}
	return p
}

func tags(f optional.Field[Tags]) optional.Field[[]string] {
	return optional.Field[[]string]{Value: f.Value, Set: f.Set}
}

type AddImageRequest struct {
	URL     string `json:"url" validate:"required"`
	AltText string `json:"alt_text"`
	Path    string `json:"path"`
}

func (r AddImageRequest) Model() models.CreationImage {
	return models.CreationImage{URL: r.URL, AltText: r.AltText, StoragePath: r.Path}
}

type MoveImageRequest struct {
	From int `json:"from" validate:"min=0"`
	To   int `json:"to" validate:"min=0"`
}
