package repository

import (
	"context"
	"time"

	"atelier/internal/domain/models"
	"atelier/internal/domain/ordering"

	"github.com/google/uuid"
)

// Transactor выполняет fn в одной транзакции БД.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type CategoryRepository interface {
	SaveCategory(ctx context.Context, c models.Category) (models.Category, error)
	UpdateCategory(ctx context.Context, c models.Category) (models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	GetCategoryByID(ctx context.Context, id uuid.UUID) (models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	CategoryOrders(ctx context.Context) ([]int, error)
	CategoryIDs(ctx context.Context) ([]uuid.UUID, error)
	CategorySlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	UpdateCategoryOrders(ctx context.Context, assignments []ordering.Assignment) error
	CountCreations(ctx context.Context, categoryID uuid.UUID) (int, error)
}

type CreationRepository interface {
	SaveCreation(ctx context.Context, c models.Creation) (models.Creation, error)
	UpdateCreation(ctx context.Context, c models.Creation) (models.Creation, error)
	DeleteCreation(ctx context.Context, id uuid.UUID) error
	GetCreationByID(ctx context.Context, id uuid.UUID) (models.Creation, error)
	GetCreationBySlug(ctx context.Context, slug string) (models.Creation, error)
	ListCreations(ctx context.Context, filter CreationFilter) ([]models.Creation, error)
	CreationOrders(ctx context.Context) ([]int, error)
	CreationIDs(ctx context.Context) ([]uuid.UUID, error)
	CreationSlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	UpdateCreationOrders(ctx context.Context, assignments []ordering.Assignment) error
}

type ImageRepository interface {
	ListImages(ctx context.Context, creationID uuid.UUID) ([]models.CreationImage, error)
	ListImagesFor(ctx context.Context, creationIDs []uuid.UUID) (map[uuid.UUID][]models.CreationImage, error)
	SaveImage(ctx context.Context, img models.CreationImage) (models.CreationImage, error)
	UpdateImage(ctx context.Context, img models.CreationImage) error
	DeleteImages(ctx context.Context, creationID uuid.UUID, ids []uuid.UUID) error
	DeleteImagesByCreation(ctx context.Context, creationID uuid.UUID) error
}

type ContactRepository interface {
	SaveSubmission(ctx context.Context, s models.ContactSubmission) (models.ContactSubmission, error)
	ListSubmissions(ctx context.Context) ([]models.ContactSubmission, error)
	MarkSubmissionRead(ctx context.Context, id uuid.UUID) error
	DeleteSubmission(ctx context.Context, id uuid.UUID) error
}

type OperatorRepository interface {
	SaveOperator(ctx context.Context, o models.Operator) (uuid.UUID, error)
	OperatorByEmail(ctx context.Context, email string) (models.Operator, error)
	OperatorByID(ctx context.Context, id uuid.UUID) (models.Operator, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, operatorID, token string, exp time.Duration) error
	GetRefreshToken(ctx context.Context, operatorID, token string) (bool, error)
	DeleteRefreshToken(ctx context.Context, operatorID, token string) error
	DeleteAllOperatorTokens(ctx context.Context, operatorID string) error
}
