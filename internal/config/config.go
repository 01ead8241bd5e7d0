package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	BackendJSON     = "json"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
)

type Config struct {
	Port string `env:"API_PORT" envDefault:"8080"`

	JWTSecret  string        `env:"JWT_SECRET"`
	JWTTTL     time.Duration `env:"JWT_TTL" envDefault:"1h"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"10"`

	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"json"`
	DataDir        string `env:"DATA_DIR" envDefault:"data"`
	MongoURI       string `env:"MONGO_URI"`
	MongoDatabase  string `env:"MONGO_DATABASE" envDefault:"contacts"`
	PostgresDSN    string `env:"POSTGRES_DSN"`

	UploadDir       string `env:"UPLOAD_DIR" envDefault:"public/uploads"`
	MaxUploadMemory int64  `env:"MAX_UPLOAD_MEMORY" envDefault:"8388608"`

	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads an optional .env file and then the process environment.
// A missing .env is reported through envFileLoaded, not as an error.
func Load(envFiles ...string) (cfg *Config, envFileLoaded bool, err error) {
	envFileLoaded = godotenv.Load(envFiles...) == nil

	cfg = &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, envFileLoaded, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, envFileLoaded, err
	}
	return cfg, envFileLoaded, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST %d out of range 4-31", c.BcryptCost)
	}
	switch c.StorageBackend {
	case BackendJSON:
	case BackendMongo:
		if c.MongoURI == "" {
			return errors.New("MONGO_URI is required for the mongo backend")
		}
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	return nil
}
