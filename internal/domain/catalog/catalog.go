// Package catalog строит публичное представление каталога из списка изделий:
// фильтры, постраничный вывод, счётчики по категориям. Без побочных эффектов.
package catalog

import (
	"github.com/google/uuid"

	"atelier/internal/domain/models"
)

const DefaultPageSize = 12

// FilterByCategory возвращает изделия категории. nil - без фильтра.
func FilterByCategory(list []models.Creation, categoryID *uuid.UUID) []models.Creation {
	if categoryID == nil {
		return list
	}

	out := make([]models.Creation, 0, len(list))
	for _, c := range list {
		if c.InCategory(*categoryID) {
			out = append(out, c)
		}
	}
	return out
}

// FilterByStatus оставляет изделия с заданным статусом. Пустой статус - без фильтра.
func FilterByStatus(list []models.Creation, status models.Status) []models.Creation {
	if status == "" {
		return list
	}

	out := make([]models.Creation, 0, len(list))
	for _, c := range list {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out
}

// FilterFeatured оставляет отмеченные для главной страницы изделия, не больше limit.
func FilterFeatured(list []models.Creation, limit int) []models.Creation {
	out := make([]models.Creation, 0, limit)
	for _, c := range list {
		if len(out) >= limit {
			break
		}
		if c.Featured {
			out = append(out, c)
		}
	}
	return out
}

type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Paginate режет список на страницы. Нумерация с 1, page < 1 считается
// первой страницей, страница за пределами списка пуста.
func Paginate[T any](list []T, page, size int) Page[T] {
	if size < 1 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	total := len(list)
	p := Page[T]{
		Items:      []T{},
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: (total + size - 1) / size,
	}

	start := (page - 1) * size
	if start >= total {
		return p
	}

	end := start + size
	if end > total {
		end = total
	}
	p.Items = list[start:end]

	return p
}

// CountByCategory считает изделия по категориям. Изделия без категории не учитываются.
func CountByCategory(list []models.Creation) map[uuid.UUID]int {
	counts := make(map[uuid.UUID]int)
	for _, c := range list {
		if c.CategoryID != nil {
			counts[*c.CategoryID]++
		}
	}
	return counts
}

// PageItem - элемент панели навигации: номер страницы или многоточие.
type PageItem struct {
	Number   int  `json:"number,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
	Current  bool `json:"current,omitempty"`
}

// PageWindow строит номера страниц для навигации:
//
//	начало:   1 2 3 4 … N
//	конец:    1 … N-3 N-2 N-1 N
//	середина: 1 … c-1 c c+1 … N
//
// При N <= 5 выводятся все страницы.
func PageWindow(current, total int) []PageItem {
	if total <= 0 {
		return nil
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	var nums []int
	switch {
	case total <= 5:
		nums = seq(1, total)
	case current <= 3:
		nums = append(seq(1, 4), 0, total)
	case current >= total-2:
		nums = append([]int{1, 0}, seq(total-3, total)...)
	default:
		nums = []int{1, 0, current - 1, current, current + 1, 0, total}
	}

	items := make([]PageItem, 0, len(nums))
	for _, n := range nums {
		if n == 0 {
			items = append(items, PageItem{Ellipsis: true})
			continue
		}
		items = append(items, PageItem{Number: n, Current: n == current})
	}
	return items
}

func seq(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}
