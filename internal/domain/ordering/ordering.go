// Package ordering задаёт правила display_order для категорий и изделий.
//
// Новые элементы добавляются в конец (max+1, для пустого списка 0).
// При удалении порядок не уплотняется: пропуски допустимы, сортировка
// по возрастанию остаётся однозначной. Пересчитывает номера только Reorder.
package ordering

import (
	"atelier/internal/domain/errs"

	"github.com/google/uuid"
)

// NextForAppend возвращает display_order для нового элемента.
func NextForAppend(orders []int) int {
	if len(orders) == 0 {
		return 0
	}

	hi := orders[0]
	for _, o := range orders[1:] {
		if o > hi {
			hi = o
		}
	}

	return hi + 1
}

type Assignment struct {
	ID           uuid.UUID
	DisplayOrder int
}

// Assign выдаёт каждому id его позицию в переданном порядке.
func Assign(ids []uuid.UUID) []Assignment {
	out := make([]Assignment, len(ids))
	for i, id := range ids {
		out[i] = Assignment{ID: id, DisplayOrder: i}
	}
	return out
}

// ValidatePermutation проверяет, что ids не содержит повторов и неизвестных
// элементов. Неполный список допустим: не упомянутые элементы сохраняют
// свой старый номер.
func ValidatePermutation(ids []uuid.UUID, existing []uuid.UUID) error {
	known := make(map[uuid.UUID]struct{}, len(existing))
	for _, id := range existing {
		known[id] = struct{}{}
	}

	verr := &errs.ValidationError{}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			verr.Add("ids", "duplicate id "+id.String())
			continue
		}
		seen[id] = struct{}{}

		if _, ok := known[id]; !ok {
			verr.Add("ids", "unknown id "+id.String())
		}
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

// OrderByClause: display_order по возрастанию, при равенстве раньше
// созданный, затем по id.
var OrderByClause = []string{"display_order ASC", "created_at ASC", "id ASC"}
