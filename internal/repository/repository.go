package repository

import (
	"github.com/jackc/pgx/v4/pgxpool"

	"atelier/internal/storage/postgresql"
	redisapp "atelier/internal/storage/redis"
)

// Repository собирает все хранилища поверх одного пула.
type Repository struct {
	Tx       *postgresql.Transactor
	Category *CategoryRepo
	Creation *CreationRepo
	Image    *ImageRepo
	Contact  *ContactRepo
	Operator *OperatorRepo
	Token    *RedisTokenRepo
}

func NewRepository(db *pgxpool.Pool, redis *redisapp.Client) *Repository {
	return &Repository{
		Tx:       postgresql.NewTransactor(db),
		Category: NewCategoryRepository(db),
		Creation: NewCreationRepository(db),
		Image:    NewImageRepository(db),
		Contact:  NewContactRepository(db),
		Operator: NewOperatorRepository(db),
		Token:    NewRedisTokenRepo(redis),
	}
}
