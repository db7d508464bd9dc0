package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set")

type Config struct {
	Env   string
	Port  int
	DBURL string

	// signing key for access tokens; there is no built-in fallback
	JWTSecret string
	JWTTTL    time.Duration

	AdminEmail    string
	AdminPassword string

	IngestionURL     string
	IngestionTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// DocumentsAuth puts /documents behind the access and role guards.
	DocumentsAuth bool

	CORSAllowedOrigins []string
	OTLPEndpoint       string
	AuthRateLimit      int
	MaxBodyBytes       int64
}

// Load reads configuration from the environment, after loading a .env file
// if one exists.
func Load() (Config, error) {
	_ = godotenv.Load()

	var errs []error

	intVar := func(key string, fallback int) int {
		n, err := getEnvInt(key, fallback)
		if err != nil {
			errs = append(errs, err)
		}
		return n
	}

	cfg := Config{
		Env:                getEnv("APP_ENV", "dev"),
		Port:               intVar("PORT", 8080),
		DBURL:              getEnv("DATABASE_URL", ""),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		JWTTTL:             time.Duration(intVar("JWT_TTL_MINUTES", 60)) * time.Minute,
		AdminEmail:         getEnv("ADMIN_EMAIL", ""),
		AdminPassword:      getEnv("ADMIN_PASSWORD", ""),
		IngestionURL:       getEnv("INGESTION_PROCESSOR_URL", "http://localhost:5000/ingest"),
		IngestionTimeout:   time.Duration(intVar("INGESTION_TIMEOUT_SECONDS", 10)) * time.Second,
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            intVar("REDIS_DB", 0),
		DocumentsAuth:      getEnv("DOCUMENTS_AUTH", "off") == "on",
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
		OTLPEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		AuthRateLimit:      intVar("AUTH_RATE_LIMIT", 20),
		MaxBodyBytes:       int64(intVar("MAX_BODY_BYTES", 1<<20)),
	}

	if cfg.DBURL == "" {
		cfg.DBURL = buildDBURL()
	}

	if cfg.JWTSecret == "" {
		errs = append(errs, ErrMissingJWTSecret)
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "docgate")
	pass := getEnv("DB_PASSWORD", "docgate")
	name := getEnv("DB_NAME", "docgate")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	num, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("%s=%q is not an integer", key, v)
	}

	return num, nil
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
