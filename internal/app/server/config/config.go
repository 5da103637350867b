package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPath  = ".env"
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	SessionStoreMemory = "memory"
	SessionStoreSQL    = "sql"
	SessionStoreRedis  = "redis"

	HashBcrypt = "bcrypt"
	HashPBKDF2 = "pbkdf2"
)

type Config struct {
	Env     string `validate:"required,oneof=local dev prod"`
	DB      DB
	Server  Server
	Session Session
	Vault   Vault
	Hash    Hash
	Redis   Redis
}

type DB struct {
	DatabaseURI  string `validate:"required"`
	MaxOpenConns int    `validate:"gte=0"`
	MaxIdleConns int    `validate:"gte=0"`
}

type Server struct {
	RunAddress      string        `validate:"required"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

type Session struct {
	// Secret keys the session token hash.
	Secret string        `validate:"required,min=16"`
	TTL    time.Duration `validate:"gt=0"`
	Store  string        `validate:"oneof=memory sql redis"`
}

type Vault struct {
	// Key seals site secrets at rest, hex encoded 32 bytes.
	Key string `validate:"required,len=64,hexadecimal"`
}

type Hash struct {
	Algorithm        string `validate:"oneof=bcrypt pbkdf2"`
	BcryptCost       int    `validate:"gte=4,lte=31"`
	PBKDF2Iterations int    `validate:"gte=1000"`
}

type Redis struct {
	Addr     string
	Password string
	DB       int `validate:"gte=0"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", EnvLocal)
	v.SetDefault("run_address", ":8080")
	v.SetDefault("db_max_open_conns", 10)
	v.SetDefault("db_max_idle_conns", 5)
	v.SetDefault("session_ttl", "24h")
	v.SetDefault("session_store", SessionStoreMemory)
	v.SetDefault("redis_db", 0)
	v.SetDefault("hash_algorithm", HashBcrypt)
	v.SetDefault("bcrypt_cost", 12)
	v.SetDefault("pbkdf2_iterations", 260000)
	v.SetDefault("shutdown_timeout", "10s")
}

// Load reads the optional .env file and then the process environment.
// Required secrets have no fallback: a missing SECRET or VAULT_KEY is an
// error.
func Load() (*Config, error) {
	if err := godotenv.Load(envPath); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Env: strings.ToLower(v.GetString("app_env")),
		DB: DB{
			DatabaseURI:  v.GetString("database_uri"),
			MaxOpenConns: v.GetInt("db_max_open_conns"),
			MaxIdleConns: v.GetInt("db_max_idle_conns"),
		},
		Server: Server{
			RunAddress:      v.GetString("run_address"),
			ShutdownTimeout: v.GetDuration("shutdown_timeout"),
		},
		Session: Session{
			Secret: v.GetString("secret"),
			TTL:    v.GetDuration("session_ttl"),
			Store:  strings.ToLower(v.GetString("session_store")),
		},
		Vault: Vault{
			Key: v.GetString("vault_key"),
		},
		Hash: Hash{
			Algorithm:        strings.ToLower(v.GetString("hash_algorithm")),
			BcryptCost:       v.GetInt("bcrypt_cost"),
			PBKDF2Iterations: v.GetInt("pbkdf2_iterations"),
		},
		Redis: Redis{
			Addr:     v.GetString("redis_addr"),
			Password: v.GetString("redis_password"),
			DB:       v.GetInt("redis_db"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad is Load for main packages.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	return cfg
}

func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config: %w", err)
	}

	if c.Session.Store == SessionStoreRedis && c.Redis.Addr == "" {
		return errors.New("config: REDIS_ADDR is required when SESSION_STORE=redis")
	}
	return nil
}

// fieldError names the environment variable behind the failing field.
func fieldError(fe validator.FieldError) string {
	name := envNames[fe.StructNamespace()]
	if name == "" {
		name = fe.StructNamespace()
	}

	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", name, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", name, fe.Param())
	case "hexadecimal":
		return name + " must be hex encoded"
	default:
		return fmt.Sprintf("%s failed %s=%s", name, fe.Tag(), fe.Param())
	}
}

var envNames = map[string]string{
	"Config.Env":                    "APP_ENV",
	"Config.DB.DatabaseURI":         "DATABASE_URI",
	"Config.DB.MaxOpenConns":        "DB_MAX_OPEN_CONNS",
	"Config.DB.MaxIdleConns":        "DB_MAX_IDLE_CONNS",
	"Config.Server.RunAddress":      "RUN_ADDRESS",
	"Config.Server.ShutdownTimeout": "SHUTDOWN_TIMEOUT",
	"Config.Session.Secret":         "SECRET",
	"Config.Session.TTL":            "SESSION_TTL",
	"Config.Session.Store":          "SESSION_STORE",
	"Config.Vault.Key":              "VAULT_KEY",
	"Config.Hash.Algorithm":         "HASH_ALGORITHM",
	"Config.Hash.BcryptCost":        "BCRYPT_COST",
	"Config.Hash.PBKDF2Iterations":  "PBKDF2_ITERATIONS",
	"Config.Redis.DB":               "REDIS_DB",
}

func (c *Config) IsLocal() bool {
	return c.Env == EnvLocal
}
