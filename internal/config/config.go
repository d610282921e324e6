package config

import (
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env         string            `yaml:"env" env:"ENV" env-default:"local"`
	DSN         string            `yaml:"dsn" env:"DSN" env-required:"true"`
	AutoMigrate bool              `yaml:"auto_migrate" env:"AUTO_MIGRATE" env-default:"false"`
	HTTP        HTTPConfig        `yaml:"http"`
	Auth        AuthConfig        `yaml:"auth"`
	FileStorage FileStorageConfig `yaml:"file_storage"`
	S3          S3Config          `yaml:"s3"`
	Redis       RedisConf         `yaml:"redis"`
	RabbitMQ    RabbitMQConfig    `yaml:"rabbitmq"`
	Catalog     CatalogConfig     `yaml:"catalog"`
	Site        SiteConfig        `yaml:"site"`
}

type HTTPConfig struct {
	Host         string        `yaml:"host" env:"HTTP_HOST"`
	Port         string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"30s"`
	AllowOrigins []string      `yaml:"allow_origins" env:"HTTP_ALLOW_ORIGINS" env-default:"*"`
}

type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	AccessTTL     time.Duration `yaml:"access_ttl" env:"ACCESS_TTL" env-default:"15m"`
	RefreshTTL    time.Duration `yaml:"refresh_ttl" env:"REFRESH_TTL" env-default:"720h"`
	SessionSecret string        `yaml:"session_secret" env:"SESSION_SECRET" env-required:"true"`
}

const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

type FileStorageConfig struct {
	Driver  string `yaml:"driver" env:"FILE_STORAGE_DRIVER" env-default:"local"`
	BaseDir string `yaml:"base_dir" env:"FILE_STORAGE_BASE_DIR" env-default:"./uploads"`
	BaseURL string `yaml:"base_url" env:"FILE_STORAGE_BASE_URL" env-default:"/uploads"`
	MaxSize int64  `yaml:"max_size" env:"FILE_STORAGE_MAX_SIZE" env-default:"5242880"`
}

type S3Config struct {
	Endpoint      string `yaml:"endpoint" env:"S3_ENDPOINT"`
	Region        string `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
	Bucket        string `yaml:"bucket" env:"S3_BUCKET" env-default:"creations"`
	AccessKeyID   string `yaml:"access_key_id" env:"S3_ACCESS_KEY_ID"`
	SecretKey     string `yaml:"secret_access_key" env:"S3_SECRET_ACCESS_KEY"`
	UseSSL        bool   `yaml:"use_ssl" env:"S3_USE_SSL"`
	PublicBaseURL string `yaml:"public_base_url" env:"S3_PUBLIC_BASE_URL"`
}

type RedisConf struct {
	RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"REDIS_DB"`
}

type RabbitMQConfig struct {
	URL         string `yaml:"url" env:"RABBITMQ_URL"`
	Queue       string `yaml:"queue" env:"RABBITMQ_QUEUE" env-default:"orphaned_blobs"`
	MaxAttempts int    `yaml:"max_attempts" env:"RABBITMQ_MAX_ATTEMPTS" env-default:"5"`
	// RetryDelay - сколько неудачное задание ждёт в очереди <queue>.retry.
	RetryDelay time.Duration `yaml:"retry_delay" env:"RABBITMQ_RETRY_DELAY" env-default:"5m"`
}

type CatalogConfig struct {
	PageSize int           `yaml:"page_size" env:"CATALOG_PAGE_SIZE" env-default:"12"`
	CacheTTL time.Duration `yaml:"cache_ttl" env:"CATALOG_CACHE_TTL" env-default:"5m"`
}

type SiteConfig struct {
	BaseURL string `yaml:"base_url" env:"SITE_BASE_URL" env-default:"http://localhost:3000"`
}

// LoadDefault читает конфиг по пути из флага --config или CONFIG_PATH.
func LoadDefault() (*Config, error) {
	path := fetchConfigPath()
	if path == "" {
		return nil, &LoadError{Reason: "config path is empty: use --config or CONFIG_PATH"}
	}

	return Load(path)
}

// Load читает .env (если есть), затем YAML; переменные окружения имеют приоритет.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, &LoadError{Reason: "cannot load .env", Err: err}
		}
	}

	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, &LoadError{Reason: "config file does not exist: " + configPath}
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, &LoadError{Reason: "cannot read config", Err: err}
	}

	return &cfg, nil
}

type LoadError struct {
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	return e.Reason + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error { return e.Err }

// SetConfigPath задаёт путь из флага --config="path/to/config.yaml".
func SetConfigPath(path string) {
	configPath = path
}

var configPath string

func fetchConfigPath() string {
	res := configPath

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
