package http

import (
	"context"
	"log/slog"
	"mime/multipart"
	"net/http"

	"atelier/internal/domain/errs"
	"atelier/internal/domain/models"
	"atelier/internal/lib/logger/sl"
	catalog "atelier/internal/services/catalog_service"
	categories "atelier/internal/services/category_service"
	contact "atelier/internal/services/contact_service"
	creations "atelier/internal/services/creation_service"
	media "atelier/internal/services/media_service"
	"atelier/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (models.TokenPair, models.Operator, error)
	Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Authenticate(ctx context.Context, accessToken string) (models.Operator, error)
	OperatorByID(ctx context.Context, id uuid.UUID) (models.Operator, error)
}

type CategoryService interface {
	CreateCategory(ctx context.Context, in categories.CategoryInput) (models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, patch categories.CategoryPatch) (models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	ReorderCategories(ctx context.Context, ids []uuid.UUID) error
	GetCategory(ctx context.Context, id uuid.UUID) (models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

type CreationService interface {
	CreateCreation(ctx context.Context, in creations.CreationInput) (creations.WriteResult, error)
	UpdateCreation(ctx context.Context, id uuid.UUID, patch creations.CreationPatch) (creations.WriteResult, error)
	DeleteCreation(ctx context.Context, id uuid.UUID) (creations.WriteResult, error)
	ReorderCreations(ctx context.Context, ids []uuid.UUID) error
	GetCreation(ctx context.Context, id uuid.UUID) (models.Creation, error)
	ListCreations(ctx context.Context) ([]models.Creation, error)
	AddImage(ctx context.Context, creationID uuid.UUID, img models.CreationImage) (creations.ImageResult, error)
	RemoveImage(ctx context.Context, creationID, imageID uuid.UUID) (creations.ImageResult, error)
	SetPrimaryImage(ctx context.Context, creationID, imageID uuid.UUID) (creations.ImageResult, error)
	MoveImage(ctx context.Context, creationID uuid.UUID, from, to int) (creations.ImageResult, error)
}

type MediaService interface {
	Upload(ctx context.Context, file *multipart.FileHeader) (media.Uploaded, error)
	UploadBatch(ctx context.Context, files []*multipart.FileHeader) ([]media.Uploaded, error)
	Delete(ctx context.Context, path string) error
}

type ContactService interface {
	Submit(ctx context.Context, in contact.ContactInput) (models.ContactSubmission, error)
	ListSubmissions(ctx context.Context) ([]models.ContactSubmission, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	DeleteSubmission(ctx context.Context, id uuid.UUID) error
}

type CatalogService interface {
	Categories(ctx context.Context) ([]models.Category, error)
	CategoryBySlug(ctx context.Context, slug string) (models.Category, error)
	Creations(ctx context.Context, categorySlug string, page int) (catalog.CatalogPage, error)
	Featured(ctx context.Context) ([]models.Creation, error)
	Latest(ctx context.Context) ([]models.Creation, error)
	CreationBySlug(ctx context.Context, slug string) (models.Creation, error)
	Sitemap(ctx context.Context) (catalog.SitemapData, error)
}

// HealthChecker - зависимость, без которой сервис не может отвечать.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Routers struct {
	log             *slog.Logger
	AuthService     AuthService
	CategoryService CategoryService
	CreationService CreationService
	MediaService    MediaService
	ContactService  ContactService
	CatalogService  CatalogService
	db              HealthChecker
	siteURL         string
}

func NewRouter(
	log *slog.Logger,
	authService AuthService,
	categoryService CategoryService,
	creationService CreationService,
	mediaService MediaService,
	contactService ContactService,
	catalogService CatalogService,
	db HealthChecker,
	siteURL string,
) *Routers {
	return &Routers{
		log:             log,
		AuthService:     authService,
		CategoryService: categoryService,
		CreationService: creationService,
		MediaService:    mediaService,
		ContactService:  contactService,
		CatalogService:  catalogService,
		db:              db,
		siteURL:         siteURL,
	}
}

// WithWarnings - успешный ответ записи, при которой не удалось удалить часть файлов.
type WithWarnings struct {
	Item     any      `json:"item"`
	Warnings []string `json:"warnings,omitempty"`
}

// fail пишет ошибку сервиса в ответ. Неожиданные ошибки логируются как error,
// остальные как warn.
func (r *Routers) fail(c echo.Context, log *slog.Logger, err error) error {
	code, body := response.FromError(err)
	if code == http.StatusInternalServerError {
		log.Error("request failed", sl.Err(err))
	} else {
		log.Warn("request rejected", slog.Int("status", code), sl.Err(err))
	}

	return c.JSON(code, body)
}

func (r *Routers) badRequest(c echo.Context, log *slog.Logger, err error) error {
	log.Warn("invalid request", sl.Err(err))
	return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails(
		response.ErrInvalidRequestFormat.Error, err.Error(),
	))
}

// bind разбирает и валидирует тело запроса.
func (r *Routers) bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, errs.NewValidation(name, "keine gültige ID")
	}
	return id, nil
}

func success(c echo.Context, code int, data any) error {
	return c.JSON(code, response.SuccessResponse(data))
}
