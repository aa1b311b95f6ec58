package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	MongoURI       string
	MongoDB        string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioPublicURL string
	RedisURL       string
	IdentityURL    string
	IdentityAPIKey string
	JWTSecret      string

	// DeleteWorkers bounds the account-deletion fan-out.
	DeleteWorkers int
	// FeedOwnerCap bounds the in-set owner filter of the public feed.
	FeedOwnerCap int
	// OpTimeout is the per-operation deadline for the coordinators.
	OpTimeout time.Duration
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()
	return &Config{
		Port:           getEnv("PORT", "8080"),
		MongoURI:       os.Getenv("MONGO_URI"),
		MongoDB:        getEnv("MONGO_DB", "social_app"),
		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getEnv("MINIO_BUCKET", "media"),
		MinioPublicURL: os.Getenv("MINIO_PUBLIC_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		IdentityURL:    os.Getenv("IDENTITY_SERVICE_URL"),
		IdentityAPIKey: os.Getenv("IDENTITY_API_KEY"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		DeleteWorkers:  getEnvInt("DELETE_WORKERS", 10),
		FeedOwnerCap:   getEnvInt("FEED_OWNER_CAP", 1000),
		OpTimeout:      getEnvDuration("OP_TIMEOUT", 30*time.Second),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
