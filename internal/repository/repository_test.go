package repository_test

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"atelier/internal/domain/errs"
	"atelier/internal/domain/models"
	"atelier/internal/domain/ordering"
	"atelier/internal/lib/logger/handlers/slogdiscard"
	"atelier/internal/repository"
	"atelier/internal/storage/postgresql"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var testCtx = context.Background()

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("integration test, skipped with -short")
	}

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	pgContainer, err := testcontainers.GenericContainer(testCtx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("docker is not available: %v", err)
	}
	t.Cleanup(func() {
		_ = pgContainer.Terminate(testCtx)
	})

	host, err := pgContainer.Host(testCtx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(testCtx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	// Применяем встроенные миграции
	migrator, err := postgresql.NewMigrator(connStr, slogdiscard.NewDiscardLogger())
	require.NoError(t, err)
	require.NoError(t, migrator.Up())
	require.NoError(t, migrator.Close())

	pool, err := pgxpool.Connect(testCtx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

func TestCategoryRepo_CRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewCategoryRepository(db)

	saved, err := repo.SaveCategory(testCtx, models.Category{Name: "Mützen", Slug: "mtzen", DisplayOrder: 0})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	t.Run("duplicate slug is a conflict", func(t *testing.T) {
		_, err := repo.SaveCategory(testCtx, models.Category{Name: "Mützen 2", Slug: "mtzen"})
		assert.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("get by id and slug", func(t *testing.T) {
		byID, err := repo.GetCategoryByID(testCtx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, "Mützen", byID.Name)

		bySlug, err := repo.GetCategoryBySlug(testCtx, "mtzen")
		require.NoError(t, err)
		assert.Equal(t, saved.ID, bySlug.ID)

		_, err = repo.GetCategoryByID(testCtx, uuid.New())
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("slug exists", func(t *testing.T) {
		exists, err := repo.CategorySlugExists(testCtx, "mtzen", uuid.Nil)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.CategorySlugExists(testCtx, "mtzen", saved.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("update", func(t *testing.T) {
		saved.Name = "Schals"
		saved.Slug = "schals"
		saved.DisplayOrder = 7
		updated, err := repo.UpdateCategory(testCtx, saved)
		require.NoError(t, err)
		assert.Equal(t, "schals", updated.Slug)
		assert.Equal(t, 7, updated.DisplayOrder)
		assert.False(t, updated.UpdatedAt.Before(saved.UpdatedAt))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteCategory(testCtx, saved.ID))
		assert.ErrorIs(t, repo.DeleteCategory(testCtx, saved.ID), errs.ErrNotFound)
	})
}

func TestCategoryRepo_Ordering(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewCategoryRepository(db)

	var ids []uuid.UUID
	for i, name := range []string{"a", "b", "c"} {
		c, err := repo.SaveCategory(testCtx, models.Category{Name: name, Slug: name, DisplayOrder: i})
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}

	orders, err := repo.CategoryOrders(testCtx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{0, 1, 2}, orders)

	reversed := []uuid.UUID{ids[2], ids[1], ids[0]}
	require.NoError(t, repo.UpdateCategoryOrders(testCtx, ordering.Assign(reversed)))

	list, err := repo.ListCategories(testCtx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c", list[0].Name)
	assert.Equal(t, "a", list[2].Name)

	err = repo.UpdateCategoryOrders(testCtx, []ordering.Assignment{{ID: uuid.New(), DisplayOrder: 0}})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestCategoryRepo_EqualOrderTieBreak(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewCategoryRepository(db)

	var saved []models.Category
	for _, name := range []string{"x", "y", "z"} {
		c, err := repo.SaveCategory(testCtx, models.Category{Name: name, Slug: name, DisplayOrder: 5})
		require.NoError(t, err)
		saved = append(saved, c)
	}
	first, err := repo.SaveCategory(testCtx, models.Category{Name: "w", Slug: "w", DisplayOrder: 1})
	require.NoError(t, err)

	// при равном display_order: раньше созданная, затем меньший id
	sort.SliceStable(saved, func(i, j int) bool {
		if !saved[i].CreatedAt.Equal(saved[j].CreatedAt) {
			return saved[i].CreatedAt.Before(saved[j].CreatedAt)
		}
		return saved[i].ID.String() < saved[j].ID.String()
	})

	list, err := repo.ListCategories(testCtx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, first.ID, list[0].ID)
	for i, c := range saved {
		assert.Equal(t, c.ID, list[i+1].ID)
	}
}

func TestCreationRepo_WithImages(t *testing.T) {
	db := setupTestDB(t)
	categories := repository.NewCategoryRepository(db)
	creations := repository.NewCreationRepository(db)
	images := repository.NewImageRepository(db)

	cat, err := categories.SaveCategory(testCtx, models.Category{Name: "Taschen", Slug: "taschen"})
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Millisecond)
	c, err := creations.SaveCreation(testCtx, models.Creation{
		Title:       "Blaue Tasche",
		Slug:        "blaue-tasche",
		CategoryID:  &cat.ID,
		Materials:   []string{"Wolle", "Baumwolle"},
		Status:      models.StatusPublished,
		PublishedAt: &now,
	})
	require.NoError(t, err)
	require.NotNil(t, c.CategoryID)
	assert.Equal(t, cat.ID, *c.CategoryID)
	assert.Equal(t, []string{"Wolle", "Baumwolle"}, c.Materials)
	assert.Empty(t, c.Sizes)
	require.NotNil(t, c.PublishedAt)

	draft, err := creations.SaveCreation(testCtx, models.Creation{Title: "Entwurf", Slug: "entwurf", Status: models.StatusDraft, DisplayOrder: 1})
	require.NoError(t, err)
	assert.Nil(t, draft.CategoryID)
	assert.Nil(t, draft.PublishedAt)

	for i, url := range []string{"/uploads/a.png", "/uploads/b.png"} {
		_, err := images.SaveImage(testCtx, models.CreationImage{
			CreationID:   c.ID,
			URL:          url,
			IsPrimary:    i == 0,
			DisplayOrder: i,
			StoragePath:  models.FilenameFromURL(url),
		})
		require.NoError(t, err)
	}

	t.Run("list images", func(t *testing.T) {
		list, err := images.ListImages(testCtx, c.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.True(t, list[0].IsPrimary)
		assert.Equal(t, "b.png", list[1].StoragePath)

		byCreation, err := images.ListImagesFor(testCtx, []uuid.UUID{c.ID, draft.ID})
		require.NoError(t, err)
		assert.Len(t, byCreation[c.ID], 2)
		assert.Empty(t, byCreation[draft.ID])
	})

	t.Run("category in use", func(t *testing.T) {
		count, err := categories.CountCreations(testCtx, cat.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		err = categories.DeleteCategory(testCtx, cat.ID)
		assert.ErrorIs(t, err, errs.ErrReferential)
	})

	t.Run("filters", func(t *testing.T) {
		published, err := creations.ListCreations(testCtx, repository.CreationFilter{Status: models.StatusPublished})
		require.NoError(t, err)
		require.Len(t, published, 1)
		assert.Equal(t, c.ID, published[0].ID)

		all, err := creations.ListCreations(testCtx, repository.CreationFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 2)

		byCat, err := creations.ListCreations(testCtx, repository.CreationFilter{CategoryID: &cat.ID})
		require.NoError(t, err)
		assert.Len(t, byCat, 1)
	})

	t.Run("creation with images cannot be deleted first", func(t *testing.T) {
		err := creations.DeleteCreation(testCtx, c.ID)
		assert.ErrorIs(t, err, errs.ErrReferential)
	})

	t.Run("transactional delete", func(t *testing.T) {
		tx := postgresql.NewTransactor(db)

		err := tx.WithinTx(testCtx, func(ctx context.Context) error {
			if err := images.DeleteImagesByCreation(ctx, c.ID); err != nil {
				return err
			}
			return creations.DeleteCreation(ctx, c.ID)
		})
		require.NoError(t, err)

		_, err = creations.GetCreationByID(testCtx, c.ID)
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestCreationRepo_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	creations := repository.NewCreationRepository(db)

	older := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

	first, err := creations.SaveCreation(testCtx, models.Creation{
		Title: "Alt", Slug: "alt", Status: models.StatusPublished, PublishedAt: &older, DisplayOrder: 0,
	})
	require.NoError(t, err)
	second, err := creations.SaveCreation(testCtx, models.Creation{
		Title: "Neu", Slug: "neu", Status: models.StatusPublished, PublishedAt: &newer, DisplayOrder: 1,
	})
	require.NoError(t, err)

	byOrder, err := creations.ListCreations(testCtx, repository.CreationFilter{Status: models.StatusPublished})
	require.NoError(t, err)
	require.Len(t, byOrder, 2)
	assert.Equal(t, first.ID, byOrder[0].ID)

	newest, err := creations.ListCreations(testCtx, repository.CreationFilter{Status: models.StatusPublished, NewestFirst: true})
	require.NoError(t, err)
	require.Len(t, newest, 2)
	assert.Equal(t, second.ID, newest[0].ID)
	assert.Equal(t, first.ID, newest[1].ID)
}

func TestTransactor_Rollback(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewCategoryRepository(db)
	tx := postgresql.NewTransactor(db)

	err := tx.WithinTx(testCtx, func(ctx context.Context) error {
		if _, err := repo.SaveCategory(ctx, models.Category{Name: "x", Slug: "x"}); err != nil {
			return err
		}
		_, err := repo.SaveCategory(ctx, models.Category{Name: "x", Slug: "x"})
		return err
	})
	assert.ErrorIs(t, err, errs.ErrConflict)

	list, err := repo.ListCategories(testCtx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestContactRepo(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewContactRepository(db)

	first, err := repo.SaveSubmission(testCtx, models.ContactSubmission{Name: "Anna", Email: "anna@example.de", Subject: "Frage", Message: "Wie lange dauert der Versand?"})
	require.NoError(t, err)
	assert.False(t, first.Read)

	time.Sleep(10 * time.Millisecond)
	second, err := repo.SaveSubmission(testCtx, models.ContactSubmission{Name: "Ben", Email: "ben@example.de", Subject: "Auftrag", Message: "Ich hätte gern eine Mütze."})
	require.NoError(t, err)

	list, err := repo.ListSubmissions(testCtx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	require.NoError(t, repo.MarkSubmissionRead(testCtx, first.ID))
	assert.ErrorIs(t, repo.MarkSubmissionRead(testCtx, uuid.New()), errs.ErrNotFound)

	require.NoError(t, repo.DeleteSubmission(testCtx, second.ID))

	list, err = repo.ListSubmissions(testCtx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Read)
}

func TestOperatorRepo(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewOperatorRepository(db)

	id, err := repo.SaveOperator(testCtx, models.Operator{Email: "Admin@Example.de", Name: "Admin", PasswordHash: []byte("hash")})
	require.NoError(t, err)

	_, err = repo.SaveOperator(testCtx, models.Operator{Email: "admin@example.de", PasswordHash: []byte("hash")})
	assert.ErrorIs(t, err, errs.ErrConflict)

	o, err := repo.OperatorByEmail(testCtx, "ADMIN@example.de")
	require.NoError(t, err)
	assert.Equal(t, id, o.ID)
	assert.Equal(t, []byte("hash"), o.PasswordHash)
	assert.Nil(t, o.LastLogin)

	require.NoError(t, repo.UpdateLastLogin(testCtx, id, time.Now()))

	o, err = repo.OperatorByID(testCtx, id)
	require.NoError(t, err)
	assert.NotNil(t, o.LastLogin)

	_, err = repo.OperatorByEmail(testCtx, "nobody@example.de")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
