// Package mocks содержит testify-моки хранилищ для тестов сервисов.
package mocks

import (
	"context"
	"time"

	"atelier/internal/domain/models"
	"atelier/internal/domain/ordering"
	"atelier/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Transactor вызывает fn без настоящей транзакции и считает вызовы.
type Transactor struct {
	Calls int
}

func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.Calls++
	return fn(ctx)
}

type CategoryRepository struct {
	mock.Mock
}

func (m *CategoryRepository) SaveCategory(ctx context.Context, c models.Category) (models.Category, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(models.Category), args.Error(1)
}

func (m *CategoryRepository) UpdateCategory(ctx context.Context, c models.Category) (models.Category, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(models.Category), args.Error(1)
}

func (m *CategoryRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *CategoryRepository) GetCategoryByID(ctx context.Context, id uuid.UUID) (models.Category, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Category), args.Error(1)
}

func (m *CategoryRepository) GetCategoryBySlug(ctx context.Context, slug string) (models.Category, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(models.Category), args.Error(1)
}

func (m *CategoryRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *CategoryRepository) CategoryOrders(ctx context.Context) ([]int, error) {
	args := m.Called(ctx)
	return args.Get(0).([]int), args.Error(1)
}

func (m *CategoryRepository) CategoryIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *CategoryRepository) CategorySlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *CategoryRepository) UpdateCategoryOrders(ctx context.Context, assignments []ordering.Assignment) error {
	args := m.Called(ctx, assignments)
	return args.Error(0)
}

func (m *CategoryRepository) CountCreations(ctx context.Context, categoryID uuid.UUID) (int, error) {
	args := m.Called(ctx, categoryID)
	return args.Int(0), args.Error(1)
}

type CreationRepository struct {
	mock.Mock
}

func (m *CreationRepository) SaveCreation(ctx context.Context, c models.Creation) (models.Creation, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(models.Creation), args.Error(1)
}

func (m *CreationRepository) UpdateCreation(ctx context.Context, c models.Creation) (models.Creation, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(models.Creation), args.Error(1)
}

func (m *CreationRepository) DeleteCreation(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *CreationRepository) GetCreationByID(ctx context.Context, id uuid.UUID) (models.Creation, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Creation), args.Error(1)
}

func (m *CreationRepository) GetCreationBySlug(ctx context.Context, slug string) (models.Creation, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(models.Creation), args.Error(1)
}

func (m *CreationRepository) ListCreations(ctx context.Context, filter repository.CreationFilter) ([]models.Creation, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Creation), args.Error(1)
}

func (m *CreationRepository) CreationOrders(ctx context.Context) ([]int, error) {
	args := m.Called(ctx)
	return args.Get(0).([]int), args.Error(1)
}

func (m *CreationRepository) CreationIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *CreationRepository) CreationSlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *CreationRepository) UpdateCreationOrders(ctx context.Context, assignments []ordering.Assignment) error {
	args := m.Called(ctx, assignments)
	return args.Error(0)
}

type ImageRepository struct {
	mock.Mock
}

func (m *ImageRepository) ListImages(ctx context.Context, creationID uuid.UUID) ([]models.CreationImage, error) {
	args := m.Called(ctx, creationID)
	return args.Get(0).([]models.CreationImage), args.Error(1)
}

func (m *ImageRepository) ListImagesFor(ctx context.Context, creationIDs []uuid.UUID) (map[uuid.UUID][]models.CreationImage, error) {
	args := m.Called(ctx, creationIDs)
	return args.Get(0).(map[uuid.UUID][]models.CreationImage), args.Error(1)
}

func (m *ImageRepository) SaveImage(ctx context.Context, img models.CreationImage) (models.CreationImage, error) {
	args := m.Called(ctx, img)
	return args.Get(0).(models.CreationImage), args.Error(1)
}

func (m *ImageRepository) UpdateImage(ctx context.Context, img models.CreationImage) error {
	args := m.Called(ctx, img)
	return args.Error(0)
}

func (m *ImageRepository) DeleteImages(ctx context.Context, creationID uuid.UUID, ids []uuid.UUID) error {
	args := m.Called(ctx, creationID, ids)
	return args.Error(0)
}

func (m *ImageRepository) DeleteImagesByCreation(ctx context.Context, creationID uuid.UUID) error {
	args := m.Called(ctx, creationID)
	return args.Error(0)
}

type ContactRepository struct {
	mock.Mock
}

func (m *ContactRepository) SaveSubmission(ctx context.Context, s models.ContactSubmission) (models.ContactSubmission, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(models.ContactSubmission), args.Error(1)
}

func (m *ContactRepository) ListSubmissions(ctx context.Context) ([]models.ContactSubmission, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.ContactSubmission), args.Error(1)
}

func (m *ContactRepository) MarkSubmissionRead(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ContactRepository) DeleteSubmission(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type OperatorRepository struct {
	mock.Mock
}

func (m *OperatorRepository) SaveOperator(ctx context.Context, o models.Operator) (uuid.UUID, error) {
	args := m.Called(ctx, o)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *OperatorRepository) OperatorByEmail(ctx context.Context, email string) (models.Operator, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.Operator), args.Error(1)
}

func (m *OperatorRepository) OperatorByID(ctx context.Context, id uuid.UUID) (models.Operator, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Operator), args.Error(1)
}

func (m *OperatorRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type TokenRepository struct {
	mock.Mock
}

func (m *TokenRepository) SaveRefreshToken(ctx context.Context, operatorID, token string, exp time.Duration) error {
	args := m.Called(ctx, operatorID, token, exp)
	return args.Error(0)
}

func (m *TokenRepository) GetRefreshToken(ctx context.Context, operatorID, token string) (bool, error) {
	args := m.Called(ctx, operatorID, token)
	return args.Bool(0), args.Error(1)
}

func (m *TokenRepository) DeleteRefreshToken(ctx context.Context, operatorID, token string) error {
	args := m.Called(ctx, operatorID, token)
	return args.Error(0)
}

func (m *TokenRepository) DeleteAllOperatorTokens(ctx context.Context, operatorID string) error {
	args := m.Called(ctx, operatorID)
	return args.Error(0)
}

var (
	_ repository.Transactor         = (*Transactor)(nil)
	_ repository.CategoryRepository = (*CategoryRepository)(nil)
	_ repository.CreationRepository = (*CreationRepository)(nil)
	_ repository.ImageRepository    = (*ImageRepository)(nil)
	_ repository.ContactRepository  = (*ContactRepository)(nil)
	_ repository.OperatorRepository = (*OperatorRepository)(nil)
	_ repository.TokenRepository    = (*TokenRepository)(nil)
)
