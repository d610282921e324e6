package catalog_test

import (
	"testing"

	"atelier/internal/domain/catalog"
	"atelier/internal/domain/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func creationsN(n int) []models.Creation {
	out := make([]models.Creation, n)
	for i := range out {
		out[i] = models.Creation{ID: uuid.New(), Status: models.StatusPublished, DisplayOrder: i}
	}
	return out
}

func TestPaginate_ThirteenItems(t *testing.T) {
	list := creationsN(13)

	p1 := catalog.Paginate(list, 1, 12)
	assert.Len(t, p1.Items, 12)
	assert.Equal(t, 2, p1.TotalPages)
	assert.Equal(t, 13, p1.Total)

	p2 := catalog.Paginate(list, 2, 12)
	require.Len(t, p2.Items, 1)
	assert.Equal(t, list[12].ID, p2.Items[0].ID)

	p3 := catalog.Paginate(list, 3, 12)
	assert.NotNil(t, p3.Items)
	assert.Empty(t, p3.Items)
	assert.Equal(t, 2, p3.TotalPages)
}

func TestPaginate_Defaults(t *testing.T) {
	list := creationsN(30)

	p := catalog.Paginate(list, 0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, catalog.DefaultPageSize, p.PageSize)
	assert.Len(t, p.Items, 12)
	assert.Equal(t, 3, p.TotalPages)

	empty := catalog.Paginate([]models.Creation{}, 1, 12)
	assert.Equal(t, 0, empty.TotalPages)
	assert.Empty(t, empty.Items)
}

func TestFilterByCategoryAndCount(t *testing.T) {
	catX, catY := uuid.New(), uuid.New()
	c1 := models.Creation{ID: uuid.New(), CategoryID: &catX}
	c2 := models.Creation{ID: uuid.New(), CategoryID: &catX}
	c3 := models.Creation{ID: uuid.New(), CategoryID: &catY}
	c4 := models.Creation{ID: uuid.New()}
	all := []models.Creation{c1, c2, c3, c4}

	got := catalog.FilterByCategory(all, &catX)
	require.Len(t, got, 2)
	assert.Equal(t, c1.ID, got[0].ID)
	assert.Equal(t, c2.ID, got[1].ID)

	assert.Len(t, catalog.FilterByCategory(all, nil), 4)

	counts := catalog.CountByCategory(all)
	assert.Equal(t, 1, counts[catY])
	assert.Equal(t, 2, counts[catX])
	assert.Len(t, counts, 2)
}

func TestFilterByStatus(t *testing.T) {
	list := []models.Creation{
		{Status: models.StatusDraft},
		{Status: models.StatusPublished},
		{Status: models.StatusPublished},
	}

	assert.Len(t, catalog.FilterByStatus(list, models.StatusPublished), 2)
	assert.Len(t, catalog.FilterByStatus(list, models.StatusDraft), 1)
	assert.Len(t, catalog.FilterByStatus(list, ""), 3)
}

func TestFilterFeatured(t *testing.T) {
	list := creationsN(10)
	for i := range list {
		list[i].Featured = i%2 == 0
	}

	got := catalog.FilterFeatured(list, 3)
	require.Len(t, got, 3)
	assert.Equal(t, list[0].ID, got[0].ID)
	assert.Equal(t, list[4].ID, got[2].ID)
}

func window(items []catalog.PageItem) []int {
	out := make([]int, len(items))
	for i, it := range items {
		if it.Ellipsis {
			out[i] = 0
			continue
		}
		out[i] = it.Number
	}
	return out
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		name           string
		current, total int
		want           []int
	}{
		{name: "no pages", current: 1, total: 0, want: []int{}},
		{name: "few pages", current: 2, total: 4, want: []int{1, 2, 3, 4}},
		{name: "five pages", current: 5, total: 5, want: []int{1, 2, 3, 4, 5}},
		{name: "near start", current: 2, total: 10, want: []int{1, 2, 3, 4, 0, 10}},
		{name: "third page", current: 3, total: 10, want: []int{1, 2, 3, 4, 0, 10}},
		{name: "near end", current: 9, total: 10, want: []int{1, 0, 7, 8, 9, 10}},
		{name: "middle", current: 5, total: 10, want: []int{1, 0, 4, 5, 6, 0, 10}},
		{name: "current clamped", current: 40, total: 10, want: []int{1, 0, 7, 8, 9, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, window(catalog.PageWindow(tt.current, tt.total)))
		})
	}

	items := catalog.PageWindow(5, 10)
	assert.True(t, items[3].Current)
	assert.False(t, items[2].Current)
}
