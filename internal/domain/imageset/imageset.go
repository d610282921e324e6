// Package imageset ведёт упорядоченный набор изображений одного изделия.
//
// После любой операции набор удовлетворяет двум условиям: основное
// изображение ровно одно (если набор не пуст), display_order совпадает с
// позицией в срезе и образует 0..n-1. Функции не меняют входной срез.
package imageset

import (
	"fmt"
	"sort"

	"atelier/internal/domain/errs"
	"atelier/internal/domain/models"

	"github.com/google/uuid"
)

// Removal - обязательства, возникающие при удалении изображения из набора.
// Для сохранённого изображения нужно удалить строку и файл, для только что
// загруженного - только файл.
type Removal struct {
	ImageID uuid.UUID
	Path    string
}

func (r Removal) Persisted() bool {
	return r.ImageID != uuid.Nil
}

// Add добавляет изображение в конец. Первое изображение становится основным.
func Add(set []models.CreationImage, img models.CreationImage) []models.CreationImage {
	out := clone(set, 1)

	img.IsPrimary = len(set) == 0
	img.DisplayOrder = len(set)

	return append(out, img)
}

// Remove удаляет изображение по индексу. Если удалено основное, основным
// становится первое из оставшихся.
func Remove(set []models.CreationImage, index int) ([]models.CreationImage, Removal, error) {
	if err := checkIndex("index", index, len(set)); err != nil {
		return nil, Removal{}, err
	}

	removed := set[index]

	out := make([]models.CreationImage, 0, len(set)-1)
	out = append(out, set[:index]...)
	out = append(out, set[index+1:]...)

	if removed.IsPrimary && len(out) > 0 {
		out[0].IsPrimary = true
	}
	compact(out)

	return out, Removal{ImageID: removed.ID, Path: removed.BlobPath()}, nil
}

// SetPrimary делает основным изображение по индексу и снимает флаг с остальных.
func SetPrimary(set []models.CreationImage, index int) ([]models.CreationImage, error) {
	if err := checkIndex("index", index, len(set)); err != nil {
		return nil, err
	}

	out := clone(set, 0)
	for i := range out {
		out[i].IsPrimary = i == index
	}

	return out, nil
}

// Move переносит изображение с позиции from на позицию to.
func Move(set []models.CreationImage, from, to int) ([]models.CreationImage, error) {
	if err := checkIndex("from", from, len(set)); err != nil {
		return nil, err
	}
	if err := checkIndex("to", to, len(set)); err != nil {
		return nil, err
	}

	out := clone(set, 0)
	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]models.CreationImage{moved}, out[to:]...)...)
	compact(out)

	return out, nil
}

// Normalize приводит произвольный набор (например, пришедший из формы)
// к инвариантам: сортирует по display_order, оставляет одно основное
// изображение (первое отмеченное, иначе первое по порядку) и уплотняет порядок.
func Normalize(set []models.CreationImage) []models.CreationImage {
	out := clone(set, 0)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DisplayOrder < out[j].DisplayOrder
	})

	primary := -1
	for i := range out {
		if out[i].IsPrimary && primary < 0 {
			primary = i
		}
		out[i].IsPrimary = false
	}
	if len(out) > 0 {
		if primary < 0 {
			primary = 0
		}
		out[primary].IsPrimary = true
	}
	compact(out)

	return out
}

// IndexOf ищет сохранённое изображение по id.
func IndexOf(set []models.CreationImage, id uuid.UUID) int {
	for i := range set {
		if set[i].ID == id {
			return i
		}
	}
	return -1
}

// Check проверяет инварианты набора.
func Check(set []models.CreationImage) error {
	primaries := 0
	seen := make([]bool, len(set))

	for _, img := range set {
		if img.IsPrimary {
			primaries++
		}
		if img.DisplayOrder < 0 || img.DisplayOrder >= len(set) || seen[img.DisplayOrder] {
			return errs.NewValidation("images", fmt.Sprintf("display order %d is not part of 0..%d", img.DisplayOrder, len(set)-1))
		}
		seen[img.DisplayOrder] = true
	}

	switch {
	case primaries > 1:
		return errs.NewValidation("images", fmt.Sprintf("%d primary images", primaries))
	case len(set) > 0 && primaries == 0:
		return errs.NewValidation("images", "no primary image")
	}

	return nil
}

func compact(set []models.CreationImage) {
	for i := range set {
		set[i].DisplayOrder = i
	}
}

func clone(set []models.CreationImage, extra int) []models.CreationImage {
	out := make([]models.CreationImage, len(set), len(set)+extra)
	copy(out, set)
	return out
}

func checkIndex(field string, i, n int) error {
	if i < 0 || i >= n {
		return errs.NewValidation(field, fmt.Sprintf("index %d out of range [0, %d)", i, n))
	}
	return nil
}
