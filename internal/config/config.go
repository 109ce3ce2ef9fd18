package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env  string `validate:"required,oneof=development stage production"`
	Http Http

	Cors CORS `validate:"required"`

	Auth Auth `validate:"required"`

	Storage Storage `validate:"required"`

	// секции конкретных бэкендов проверяются в Validate только если выбраны
	Postgres Postgres `validate:"-"`
	Mongo    Mongo    `validate:"-"`

	Cache Cache `validate:"required"`
	Redis Redis `validate:"-"`

	Kafka Kafka
}

type Http struct {
	Host string `validate:"required,hostname|ip"`
	Port string `validate:"required,gt=0,lte=65535"`
}

type Auth struct {
	JWTSecret  string        `validate:"required,min=16"`
	TokenTTL   time.Duration `validate:"gt=0"`
	BcryptCost int           `validate:"gte=4,lte=31"`
}

type Storage struct {
	Backend  string `validate:"required,oneof=postgres mongo file memory"`
	FilePath string `validate:"required_if=Backend file"`
}

type Postgres struct {
	Host     string `validate:"required,hostname|ip"`
	Port     int    `validate:"required,gt=0,lte=65535"`
	DBName   string `validate:"required"`
	User     string `validate:"required"`
	Password string `validate:"required"`

	SSLMode string `validate:"required,oneof=disable require verify-ca verify-full"`

	MaxOpenConns    int           `validate:"gte=1"`
	MaxIdleConns    int           `validate:"gte=0"`
	ConnMaxLifetime time.Duration `validate:"gte=0"`

	MigrationsPath string
}

type Mongo struct {
	URI      string `validate:"required,uri"`
	Database string `validate:"required"`

	ConnectTimeout time.Duration `validate:"gte=0"`
}

type Cache struct {
	Backend  string        `validate:"required,oneof=lru redis"`
	Capacity int           `validate:"gte=1"`
	TTL      time.Duration `validate:"gt=0"`
}

type Redis struct {
	Addr     string `validate:"required,hostname_port"`
	Password string
	DB       int `validate:"gte=0"`

	OpTimeout time.Duration `validate:"gt=0"`
}

type Kafka struct {
	Enabled bool
	GroupID string   `validate:"required_if=Enabled true"`
	Brokers []string `validate:"required_if=Enabled true,dive,hostname_port"`
	Topic   string   `validate:"required_if=Enabled true"`

	ReaderMaxWait time.Duration `validate:"gte=0"`
	BatchTimeout  time.Duration `validate:"gte=0"`
}

type CORS struct {
	AllowedOrigins []string `validate:"required,min=1,dive,url"`
}

func New() Config {
	return Config{
		Env: env("ENV", "development"),

		Http: Http{
			Host: env("HOST", "localhost"),
			Port: env("PORT", "8080"),
		},

		Cors: CORS{
			AllowedOrigins: strings.Split(env("ALLOWED_CORS_ORIGINS", "http://localhost:3000"), ","),
		},

		Auth: Auth{
			JWTSecret:  env("JWT_SECRET", ""),
			TokenTTL:   envDuration("JWT_TTL", 7*24*time.Hour),
			BcryptCost: envInt("BCRYPT_COST", 10),
		},

		Storage: Storage{
			Backend:  env("STORAGE_BACKEND", "postgres"),
			FilePath: env("STORAGE_FILE_PATH", "data/store.json"),
		},

		Postgres: Postgres{
			Port:     envInt("POSTGRES_PORT", 5432),
			Host:     env("POSTGRES_HOST", "localhost"),
			DBName:   env("POSTGRES_DB", "storefront"),
			User:     env("POSTGRES_USER", ""),
			Password: env("POSTGRES_PASSWORD", ""),

			SSLMode: env("POSTGRES_SSL_MODE", "disable"),

			MaxOpenConns:    envInt("POSTGRES_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("POSTGRES_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: envDuration("POSTGRES_CONN_MAX_LIFETIME", 5*time.Minute),

			MigrationsPath: env("POSTGRES_MIGRATIONS_PATH", "migrations"),
		},

		Mongo: Mongo{
			URI:            env("MONGO_URI", "mongodb://localhost:27017"),
			Database:       env("MONGO_DB", "storefront"),
			ConnectTimeout: envDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		},

		Cache: Cache{
			Backend:  env("CACHE_BACKEND", "lru"),
			Capacity: envInt("CACHE_CAPACITY", 1000),
			TTL:      envDuration("CACHE_TTL", 5*time.Minute),
		},

		Redis: Redis{
			Addr:      env("REDIS_ADDR", "localhost:6379"),
			Password:  env("REDIS_PASSWORD", ""),
			DB:        envInt("REDIS_DB", 0),
			OpTimeout: envDuration("REDIS_OP_TIMEOUT", 200*time.Millisecond),
		},

		Kafka: Kafka{
			Enabled: envBool("KAFKA_ENABLED", false),
			GroupID: env("KAFKA_GROUP_ID", "storefront-service"),
			Topic:   env("KAFKA_TOPIC", "checkouts"),
			Brokers: strings.Split(env("KAFKA_BROKERS", "localhost:9092"), ","),

			ReaderMaxWait: envDuration("KAFKA_READER_MAX_WAIT", 10*time.Millisecond),
			BatchTimeout:  envDuration("KAFKA_BATCH_TIMEOUT", 10*time.Millisecond),
		},
	}
}

func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}

	switch c.Storage.Backend {
	case "postgres":
		if err := validate.Struct(c.Postgres); err != nil {
			return err
		}
	case "mongo":
		if err := validate.Struct(c.Mongo); err != nil {
			return err
		}
	}

	if c.Cache.Backend == "redis" {
		return validate.Struct(c.Redis)
	}
	return nil
}

func env(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}
