package http_test

import (
	"context"
	"mime/multipart"

	"atelier/internal/domain/models"
	catalog "atelier/internal/services/catalog_service"
	categories "atelier/internal/services/category_service"
	contact "atelier/internal/services/contact_service"
	creations "atelier/internal/services/creation_service"
	media "atelier/internal/services/media_service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type authMock struct{ mock.Mock }

func (m *authMock) Login(ctx context.Context, email, password string) (models.TokenPair, models.Operator, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(models.TokenPair), args.Get(1).(models.Operator), args.Error(2)
}

func (m *authMock) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	return args.Get(0).(models.TokenPair), args.Error(1)
}

func (m *authMock) Logout(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

func (m *authMock) Authenticate(ctx context.Context, accessToken string) (models.Operator, error) {
	args := m.Called(ctx, accessToken)
	return args.Get(0).(models.Operator), args.Error(1)
}

func (m *authMock) OperatorByID(ctx context.Context, id uuid.UUID) (models.Operator, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Operator), args.Error(1)
}

type categoryMock struct{ mock.Mock }

func (m *categoryMock) CreateCategory(ctx context.Context, in categories.CategoryInput) (models.Category, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(models.Category), args.Error(1)
}

func (m *categoryMock) UpdateCategory(ctx context.Context, id uuid.UUID, patch categories.CategoryPatch) (models.Category, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(models.Category), args.Error(1)
}

func (m *categoryMock) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *categoryMock) ReorderCategories(ctx context.Context, ids []uuid.UUID) error {
	return m.Called(ctx, ids).Error(0)
}

func (m *categoryMock) GetCategory(ctx context.Context, id uuid.UUID) (models.Category, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Category), args.Error(1)
}

func (m *categoryMock) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Category), args.Error(1)
}

type creationMock struct{ mock.Mock }

func (m *creationMock) CreateCreation(ctx context.Context, in creations.CreationInput) (creations.WriteResult, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(creations.WriteResult), args.Error(1)
}

func (m *creationMock) UpdateCreation(ctx context.Context, id uuid.UUID, patch creations.CreationPatch) (creations.WriteResult, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(creations.WriteResult), args.Error(1)
}

func (m *creationMock) DeleteCreation(ctx context.Context, id uuid.UUID) (creations.WriteResult, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(creations.WriteResult), args.Error(1)
}

func (m *creationMock) ReorderCreations(ctx context.Context, ids []uuid.UUID) error {
	return m.Called(ctx, ids).Error(0)
}

func (m *creationMock) GetCreation(ctx context.Context, id uuid.UUID) (models.Creation, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Creation), args.Error(1)
}

func (m *creationMock) ListCreations(ctx context.Context) ([]models.Creation, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Creation), args.Error(1)
}

func (m *creationMock) AddImage(ctx context.Context, creationID uuid.UUID, img models.CreationImage) (creations.ImageResult, error) {
	args := m.Called(ctx, creationID, img)
	return args.Get(0).(creations.ImageResult), args.Error(1)
}

func (m *creationMock) RemoveImage(ctx context.Context, creationID, imageID uuid.UUID) (creations.ImageResult, error) {
	args := m.Called(ctx, creationID, imageID)
	return args.Get(0).(creations.ImageResult), args.Error(1)
}

func (m *creationMock) SetPrimaryImage(ctx context.Context, creationID, imageID uuid.UUID) (creations.ImageResult, error) {
	args := m.Called(ctx, creationID, imageID)
	return args.Get(0).(creations.ImageResult), args.Error(1)
}

func (m *creationMock) MoveImage(ctx context.Context, creationID uuid.UUID, from, to int) (creations.ImageResult, error) {
	args := m.Called(ctx, creationID, from, to)
	return args.Get(0).(creations.ImageResult), args.Error(1)
}

type mediaMock struct{ mock.Mock }

func (m *mediaMock) Upload(ctx context.Context, file *multipart.FileHeader) (media.Uploaded, error) {
	args := m.Called(ctx, file)
	return args.Get(0).(media.Uploaded), args.Error(1)
}

func (m *mediaMock) UploadBatch(ctx context.Context, files []*multipart.FileHeader) ([]media.Uploaded, error) {
	args := m.Called(ctx, files)
	return args.Get(0).([]media.Uploaded), args.Error(1)
}

func (m *mediaMock) Delete(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

type contactMock struct{ mock.Mock }

func (m *contactMock) Submit(ctx context.Context, in contact.ContactInput) (models.ContactSubmission, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(models.ContactSubmission), args.Error(1)
}

func (m *contactMock) ListSubmissions(ctx context.Context) ([]models.ContactSubmission, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.ContactSubmission), args.Error(1)
}

func (m *contactMock) MarkRead(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *contactMock) DeleteSubmission(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type catalogMock struct{ mock.Mock }

func (m *catalogMock) Categories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *catalogMock) CategoryBySlug(ctx context.Context, slug string) (models.Category, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(models.Category), args.Error(1)
}

func (m *catalogMock) Creations(ctx context.Context, categorySlug string, page int) (catalog.CatalogPage, error) {
	args := m.Called(ctx, categorySlug, page)
	return args.Get(0).(catalog.CatalogPage), args.Error(1)
}

func (m *catalogMock) Featured(ctx context.Context) ([]models.Creation, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Creation), args.Error(1)
}

func (m *catalogMock) Latest(ctx context.Context) ([]models.Creation, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Creation), args.Error(1)
}

func (m *catalogMock) CreationBySlug(ctx context.Context, slug string) (models.Creation, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(models.Creation), args.Error(1)
}

func (m *catalogMock) Sitemap(ctx context.Context) (catalog.SitemapData, error) {
	args := m.Called(ctx)
	return args.Get(0).(catalog.SitemapData), args.Error(1)
}
