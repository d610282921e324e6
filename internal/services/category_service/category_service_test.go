package services

import (
	"context"
	"testing"

	"atelier/internal/domain/errs"
	"atelier/internal/domain/models"
	"atelier/internal/domain/ordering"
	"atelier/internal/lib/logger/handlers/slogdiscard"
	"atelier/internal/lib/optional"
	"atelier/internal/repository/mocks"
	"atelier/internal/services/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type countingCache struct{ n int }

func (c *countingCache) Invalidate() { c.n++ }

func setup() (*CategoryService, *mocks.CategoryRepository, *mocks.Transactor, *countingCache) {
	repo := new(mocks.CategoryRepository)
	tx := &mocks.Transactor{}
	cache := &countingCache{}
	svc := NewCategoryService(slogdiscard.NewDiscardLogger(), auth.Guard{}, tx, repo, cache)
	return svc, repo, tx, cache
}

func operatorCtx() context.Context {
	return models.WithOperator(context.Background(), models.Operator{ID: uuid.New(), Email: "admin@example.de"})
}

func TestCategoryService_Unauthenticated(t *testing.T) {
	svc, repo, tx, cache := setup()
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, CategoryInput{Name: "Taschen"})
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)

	_, err = svc.UpdateCategory(ctx, uuid.New(), CategoryPatch{Name: optional.Of("Neu")})
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)

	assert.ErrorIs(t, svc.DeleteCategory(ctx, uuid.New()), errs.ErrUnauthenticated)
	assert.ErrorIs(t, svc.ReorderCategories(ctx, []uuid.UUID{uuid.New()}), errs.ErrUnauthenticated)

	repo.AssertNotCalled(t, "SaveCategory", mock.Anything, mock.Anything)
	assert.Empty(t, repo.Calls)
	assert.Zero(t, tx.Calls)
	assert.Zero(t, cache.n)
}

func TestCategoryService_CreateCategory(t *testing.T) {
	t.Run("appends with free slug", func(t *testing.T) {
		svc, repo, tx, cache := setup()
		ctx := operatorCtx()

		repo.On("CategorySlugExists", ctx, "gehkelte-taschen", uuid.Nil).Return(true, nil)
		repo.On("CategorySlugExists", ctx, "gehkelte-taschen-2", uuid.Nil).Return(false, nil)
		repo.On("CategoryOrders", ctx).Return([]int{0, 4, 2}, nil)
		repo.On("SaveCategory", ctx, mock.MatchedBy(func(c models.Category) bool {
			return c.Slug == "gehkelte-taschen-2" && c.DisplayOrder == 5 && c.Name == "Gehäkelte Taschen"
		})).Return(models.Category{ID: uuid.New(), Name: "Gehäkelte Taschen", Slug: "gehkelte-taschen-2", DisplayOrder: 5}, nil)

		got, err := svc.CreateCategory(ctx, CategoryInput{Name: "  Gehäkelte Taschen "})
		require.NoError(t, err)
		assert.Equal(t, "gehkelte-taschen-2", got.Slug)
		assert.Equal(t, 1, tx.Calls)
		assert.Equal(t, 1, cache.n)
		repo.AssertExpectations(t)
	})

	t.Run("first category gets order zero", func(t *testing.T) {
		svc, repo, _, _ := setup()
		ctx := operatorCtx()

		repo.On("CategorySlugExists", ctx, "kissen", uuid.Nil).Return(false, nil)
		repo.On("CategoryOrders", ctx).Return([]int{}, nil)
		repo.On("SaveCategory", ctx, mock.MatchedBy(func(c models.Category) bool {
			return c.DisplayOrder == 0
		})).Return(models.Category{ID: uuid.New(), Slug: "kissen"}, nil)

		_, err := svc.CreateCategory(ctx, CategoryInput{Name: "Kissen"})
		require.NoError(t, err)
	})

	t.Run("explicit order skips append", func(t *testing.T) {
		svc, repo, _, _ := setup()
		ctx := operatorCtx()
		order := 2

		repo.On("CategorySlugExists", ctx, "kissen", uuid.Nil).Return(false, nil)
		repo.On("SaveCategory", ctx, mock.MatchedBy(func(c models.Category) bool {
			return c.DisplayOrder == 2
		})).Return(models.Category{ID: uuid.New(), Slug: "kissen", DisplayOrder: 2}, nil)

		got, err := svc.CreateCategory(ctx, CategoryInput{Name: "Kissen", DisplayOrder: &order})
		require.NoError(t, err)
		assert.Equal(t, 2, got.DisplayOrder)
		repo.AssertNotCalled(t, "CategoryOrders", mock.Anything)
		repo.AssertExpectations(t)
	})

	t.Run("negative order", func(t *testing.T) {
		svc, repo, tx, _ := setup()
		order := -1

		_, err := svc.CreateCategory(operatorCtx(), CategoryInput{Name: "Kissen", DisplayOrder: &order})
		assert.ErrorIs(t, err, errs.ErrValidation)
		assert.Empty(t, repo.Calls)
		assert.Zero(t, tx.Calls)
	})

	t.Run("empty name", func(t *testing.T) {
		svc, repo, tx, _ := setup()

		_, err := svc.CreateCategory(operatorCtx(), CategoryInput{Name: "  "})
		assert.ErrorIs(t, err, errs.ErrValidation)
		assert.Empty(t, repo.Calls)
		assert.Zero(t, tx.Calls)
	})

	t.Run("name without slug characters", func(t *testing.T) {
		svc, _, _, _ := setup()

		_, err := svc.CreateCategory(operatorCtx(), CategoryInput{Name: "!!!"})
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("racing insert surfaces conflict", func(t *testing.T) {
		svc, repo, _, cache := setup()
		ctx := operatorCtx()

		repo.On("CategorySlugExists", ctx, "kissen", uuid.Nil).Return(false, nil)
		repo.On("CategoryOrders", ctx).Return([]int{}, nil)
		repo.On("SaveCategory", ctx, mock.Anything).Return(models.Category{}, errs.ErrConflict)

		_, err := svc.CreateCategory(ctx, CategoryInput{Name: "Kissen"})
		assert.ErrorIs(t, err, errs.ErrConflict)
		assert.Zero(t, cache.n)
	})
}

func TestCategoryService_UpdateCategory(t *testing.T) {
	id := uuid.New()
	current := models.Category{ID: id, Name: "Kissen", Slug: "kissen", Description: "alt", DisplayOrder: 3}

	t.Run("name change re-derives slug", func(t *testing.T) {
		svc, repo, _, _ := setup()
		ctx := operatorCtx()

		repo.On("GetCategoryByID", ctx, id).Return(current, nil)
		repo.On("CategorySlugExists", ctx, "sofakissen", id).Return(false, nil)
		repo.On("UpdateCategory", ctx, mock.MatchedBy(func(c models.Category) bool {
			return c.Slug == "sofakissen" && c.Name == "Sofakissen" && c.Description == "alt" && c.DisplayOrder == 3
		})).Return(models.Category{ID: id, Name: "Sofakissen", Slug: "sofakissen"}, nil)

		got, err := svc.UpdateCategory(ctx, id, CategoryPatch{Name: optional.Of("Sofakissen")})
		require.NoError(t, err)
		assert.Equal(t, "sofakissen", got.Slug)
		repo.AssertExpectations(t)
	})

	t.Run("same name keeps slug", func(t *testing.T) {
		svc, repo, _, _ := setup()
		ctx := operatorCtx()

		repo.On("GetCategoryByID", ctx, id).Return(current, nil)
		repo.On("UpdateCategory", ctx, mock.MatchedBy(func(c models.Category) bool {
			return c.Slug == "kissen" && c.Description == ""
		})).Return(current, nil)

		_, err := svc.UpdateCategory(ctx, id, CategoryPatch{Name: optional.Of("Kissen"), Description: optional.Of("")})
		require.NoError(t, err)
		repo.AssertNotCalled(t, "CategorySlugExists", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("display order", func(t *testing.T) {
		svc, repo, _, _ := setup()
		ctx := operatorCtx()

		repo.On("GetCategoryByID", ctx, id).Return(current, nil)
		repo.On("UpdateCategory", ctx, mock.MatchedBy(func(c models.Category) bool {
			return c.DisplayOrder == 0 && c.Name == "Kissen" && c.Slug == "kissen"
		})).Return(models.Category{ID: id, Name: "Kissen", Slug: "kissen"}, nil)

		_, err := svc.UpdateCategory(ctx, id, CategoryPatch{DisplayOrder: optional.Of(0)})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("negative display order rejected before store", func(t *testing.T) {
		svc, repo, _, _ := setup()

		_, err := svc.UpdateCategory(operatorCtx(), id, CategoryPatch{DisplayOrder: optional.Of(-3)})
		assert.ErrorIs(t, err, errs.ErrValidation)
		assert.Empty(t, repo.Calls)
	})

	t.Run("empty name rejected before store", func(t *testing.T) {
		svc, repo, _, _ := setup()

		_, err := svc.UpdateCategory(operatorCtx(), id, CategoryPatch{Name: optional.Of("")})
		assert.ErrorIs(t, err, errs.ErrValidation)
		assert.Empty(t, repo.Calls)
	})

	t.Run("missing category", func(t *testing.T) {
		svc, repo, _, _ := setup()
		ctx := operatorCtx()

		repo.On("GetCategoryByID", ctx, id).Return(models.Category{}, errs.ErrNotFound)

		_, err := svc.UpdateCategory(ctx, id, CategoryPatch{})
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestCategoryService_DeleteCategory(t *testing.T) {
	id := uuid.New()

	t.Run("referenced category stays", func(t *testing.T) {
		svc, repo, _, cache := setup()
		ctx := operatorCtx()

		repo.On("CountCreations", ctx, id).Return(2, nil)

		err := svc.DeleteCategory(ctx, id)
		assert.ErrorIs(t, err, errs.ErrReferential)
		repo.AssertNotCalled(t, "DeleteCategory", mock.Anything, mock.Anything)
		assert.Zero(t, cache.n)
	})

	t.Run("unused category removed", func(t *testing.T) {
		svc, repo, _, cache := setup()
		ctx := operatorCtx()

		repo.On("CountCreations", ctx, id).Return(0, nil)
		repo.On("DeleteCategory", ctx, id).Return(nil)

		require.NoError(t, svc.DeleteCategory(ctx, id))
		repo.AssertExpectations(t)
		assert.Equal(t, 1, cache.n)
	})
}

func TestCategoryService_ReorderCategories(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	t.Run("assigns positions", func(t *testing.T) {
		svc, repo, tx, _ := setup()
		ctx := operatorCtx()

		repo.On("CategoryIDs", ctx).Return([]uuid.UUID{a, b, c}, nil)
		repo.On("UpdateCategoryOrders", ctx, []ordering.Assignment{
			{ID: c, DisplayOrder: 0},
			{ID: a, DisplayOrder: 1},
			{ID: b, DisplayOrder: 2},
		}).Return(nil)

		require.NoError(t, svc.ReorderCategories(ctx, []uuid.UUID{c, a, b}))
		assert.Equal(t, 1, tx.Calls)
		repo.AssertExpectations(t)
	})

	t.Run("unknown id", func(t *testing.T) {
		svc, repo, _, _ := setup()
		ctx := operatorCtx()

		repo.On("CategoryIDs", ctx).Return([]uuid.UUID{a, b}, nil)

		err := svc.ReorderCategories(ctx, []uuid.UUID{a, uuid.New()})
		assert.ErrorIs(t, err, errs.ErrValidation)
		repo.AssertNotCalled(t, "UpdateCategoryOrders", mock.Anything, mock.Anything)
	})
}
