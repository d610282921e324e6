package app

import (
	"context"
	"fmt"
	"log/slog"

	httpapp "atelier/internal/app/http"
	"atelier/internal/config"
	"atelier/internal/lib/logger/sl"
	"atelier/internal/queue/rabbitmq"
	"atelier/internal/repository"
	"atelier/internal/services/auth"
	catalog "atelier/internal/services/catalog_service"
	categories "atelier/internal/services/category_service"
	"atelier/internal/services/cleanup"
	contact "atelier/internal/services/contact_service"
	creations "atelier/internal/services/creation_service"
	media "atelier/internal/services/media_service"
	"atelier/internal/storage"
	"atelier/internal/storage/filestorage"
	"atelier/internal/storage/postgresql"
	redisapp "atelier/internal/storage/redis"
	"atelier/internal/storage/s3storage"
	httprouters "atelier/internal/transport/http"
)

// App держит всё, что нужно закрыть при остановке.
type App struct {
	HTTPServer *httpapp.Server
	Auth       *auth.Auth

	log  *slog.Logger
	deps *Deps
}

// Deps - инфраструктура без HTTP: нужна и серверу, и командам worker/operator.
type Deps struct {
	DB     *postgresql.Storage
	Redis  *redisapp.Client
	Repo   *repository.Repository
	Blobs  storage.BlobStore
	Rabbit *rabbitmq.Client
}

// Connect поднимает соединения с БД, Redis, хранилищем файлов и, если
// задан URL, с RabbitMQ.
func Connect(ctx context.Context, log *slog.Logger, cfg *config.Config) (*Deps, error) {
	const op = "app.Connect"

	if cfg.AutoMigrate {
		if err := Migrate(log, cfg.DSN); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	db, err := postgresql.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	redis := redisapp.NewClient(cfg.Redis)
	if err := redis.HealthCheck(ctx); err != nil {
		log.Warn("redis unavailable, refresh tokens will fail", sl.Err(err))
	}

	blobs, err := NewBlobStore(ctx, log, cfg)
	if err != nil {
		db.Stop()
		_ = redis.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	deps := &Deps{
		DB:    db,
		Redis: redis,
		Repo:  repository.NewRepository(db.Pool(), redis),
		Blobs: blobs,
	}

	if cfg.RabbitMQ.URL != "" {
		rabbit, err := rabbitmq.NewClient(cfg.RabbitMQ, log)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		deps.Rabbit = rabbit
	}

	return deps, nil
}

func (d *Deps) Close() {
	if d.Rabbit != nil {
		d.Rabbit.Close()
	}
	if d.Redis != nil {
		_ = d.Redis.Close()
	}
	if d.DB != nil {
		d.DB.Stop()
	}
}

// NewBlobStore выбирает локальный диск или S3 по file_storage.driver.
func NewBlobStore(ctx context.Context, log *slog.Logger, cfg *config.Config) (storage.BlobStore, error) {
	switch cfg.FileStorage.Driver {
	case config.StorageS3:
		client, err := s3storage.New(ctx, cfg.S3, log)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.StorageLocal, "":
		local, err := filestorage.NewLocalFileStorage(cfg.FileStorage.BaseDir, cfg.FileStorage.BaseURL)
		if err != nil {
			return nil, err
		}
		return local, nil
	default:
		return nil, fmt.Errorf("unknown file storage driver %q", cfg.FileStorage.Driver)
	}
}

func Migrate(log *slog.Logger, dsn string) error {
	m, err := postgresql.NewMigrator(dsn, log)
	if err != nil {
		return err
	}
	defer m.Close()

	return m.Up()
}

func NewAuth(log *slog.Logger, cfg *config.Config, repo *repository.Repository) *auth.Auth {
	return auth.New(log, repo.Operator, repo.Token, cfg.Auth.JWTSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
}

func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	deps, err := Connect(ctx, log, cfg)
	if err != nil {
		return nil, err
	}

	var publisher cleanup.Publisher = cleanup.NewLogSink(log)
	if deps.Rabbit != nil {
		publisher = deps.Rabbit
	}

	repo := deps.Repo
	guard := auth.Guard{}

	catalogService := catalog.NewCatalogService(
		log, repo.Category, repo.Creation, repo.Image, cfg.Catalog.CacheTTL, cfg.Catalog.PageSize,
	)
	cleaner := cleanup.NewCleaner(log, deps.Blobs, publisher)
	authService := NewAuth(log, cfg, repo)

	routers := httprouters.NewRouter(
		log,
		authService,
		categories.NewCategoryService(log, guard, repo.Tx, repo.Category, catalogService),
		creations.NewCreationService(log, guard, repo.Tx, repo.Creation, repo.Image, repo.Category, cleaner, catalogService),
		media.NewMediaService(log, guard, deps.Blobs, cfg.FileStorage.MaxSize),
		contact.NewContactService(log, guard, repo.Contact),
		catalogService,
		deps.DB,
		cfg.Site.BaseURL,
	)

	server := httpapp.New(log, cfg.HTTP, cfg.Auth.SessionSecret, cfg.FileStorage, routers)

	return &App{
		HTTPServer: server,
		Auth:       authService,
		log:        log,
		deps:       deps,
	}, nil
}

func (a *App) Stop() {
	if err := a.HTTPServer.Stop(); err != nil {
		a.log.Error("failed to stop http server", sl.Err(err))
	}
	a.deps.Close()
}
