package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StoreDynamoDB = "dynamodb"
	StoreSQLite   = "sqlite"
)

type LinkedInConfig struct {
	ClientID     string        `env:"LINKEDIN_CLIENT_ID"`
	ClientSecret string        `env:"LINKEDIN_CLIENT_SECRET"`
	RedirectURI  string        `env:"LINKEDIN_REDIRECT_URI" envDefault:"http://localhost:8080/connections/linkedin/callback"`
	AuthURL      string        `env:"LINKEDIN_AUTH_URL" envDefault:"https://www.linkedin.com/oauth/v2/authorization"`
	TokenURL     string        `env:"LINKEDIN_TOKEN_URL" envDefault:"https://www.linkedin.com/oauth/v2/accessToken"`
	UserInfoURL  string        `env:"LINKEDIN_USERINFO_URL" envDefault:"https://api.linkedin.com/v2/userinfo"`
	Scopes       []string      `env:"LINKEDIN_SCOPES" envSeparator:"," envDefault:"openid,profile,email"`
	Timeout      time.Duration `env:"LINKEDIN_TIMEOUT" envDefault:"5s"`
}

type StateConfig struct {
	Secret string        `env:"STATE_SECRET"`
	TTL    time.Duration `env:"STATE_TTL" envDefault:"10m"`
}

type JWTConfig struct {
	SecretKey string `env:"JWT_SECRET_KEY"`
}

type AWSConfig struct {
	Region string `env:"AWS_REGION" envDefault:"eu-central-1"`
}

type DynamoDBConfig struct {
	Endpoint          string `env:"DYNAMODB_ENDPOINT"`
	ProfilesTableName string `env:"DYNAMODB_PROFILES_TABLE" envDefault:"profiles"`
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH" envDefault:"connections.db"`
	// profiles created at startup; the sqlite store has no account service feeding it
	SeedUsers []string `env:"SQLITE_SEED_USERS" envSeparator:","`
}

type RedisConfig struct {
	HOST string `env:"REDIS_HOST" envDefault:"localhost:6379"`
}

type CorsConfig struct {
	Origins string `env:"CORS_ORIGINS" envDefault:"http://localhost:3000"`
}

type Config struct {
	Env         string `env:"ENV" envDefault:"DEV"`
	Addr        string `env:"CONNECTIONS_ADDR" envDefault:":8080"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000/settings"`
	Tracing     bool   `env:"TRACING" envDefault:"false"`
	StoreDriver string `env:"STORE_DRIVER" envDefault:"dynamodb"`

	LinkedInConfig LinkedInConfig
	StateConfig    StateConfig
	JWTConfig      JWTConfig
	AWSConfig      AWSConfig
	DynamoDBConfig DynamoDBConfig
	SQLiteConfig   SQLiteConfig
	RedisConfig    RedisConfig
	CorsConfig     CorsConfig
}

// LoadConfig reads the environment. A parse failure is fatal since every
// field carries a default.
func LoadConfig() Config {
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	return cfg
}

func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c Config) ValidateAllSecrets() error {
	var errs []error
	if c.LinkedInConfig.ClientID == "" {
		errs = append(errs, errors.New("LINKEDIN_CLIENT_ID is required"))
	}
	if c.LinkedInConfig.ClientSecret == "" {
		errs = append(errs, errors.New("LINKEDIN_CLIENT_SECRET is required"))
	}
	if c.StateConfig.Secret == "" {
		errs = append(errs, errors.New("STATE_SECRET is required"))
	}
	if c.JWTConfig.SecretKey == "" {
		errs = append(errs, errors.New("JWT_SECRET_KEY is required"))
	}
	if c.StoreDriver != StoreDynamoDB && c.StoreDriver != StoreSQLite {
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	return errors.Join(errs...)
}
