package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"wholesale-backend/database"
	"wholesale-backend/pkg/aws"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config holds the service configuration loaded from the environment.
type Config struct {
	Env         string
	Port        string
	Postgres    database.PostgresConfig
	RedisURL    string
	CartTTL     time.Duration
	SNSTopicArn string
	SMTPEnabled bool
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// LoadConfig reads configuration from the environment, with an optional .env
// file and an optional AWS Secrets Manager override of the database
// credentials when AWS_USE_SECRETS=true.
func LoadConfig(logger *zap.Logger) Config {
	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using system environment variables")
	}

	cfg := Config{
		Env:  getEnv("APP_ENV", "development"),
		Port: getEnv("PORT", "8080"),
		Postgres: database.PostgresConfig{
			User:     getEnv("POSTGRES_USER", ""),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Name:     getEnv("POSTGRES_DB", "wholesale"),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			TimeZone: getEnv("POSTGRES_TIMEZONE", "Australia/Sydney"),
		},
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SNSTopicArn: getEnv("SNS_ORDER_TOPIC_ARN", ""),
		SMTPEnabled: getEnv("SMTP_ENABLED", "false") == "true",
	}

	ttl, err := time.ParseDuration(getEnv("CART_TTL", "168h"))
	if err != nil {
		ttl = 168 * time.Hour
	}
	cfg.CartTTL = ttl

	if getEnv("AWS_USE_SECRETS", "false") == "true" {
		applySecretsOverride(&cfg, logger)
	}

	return cfg
}

// applySecretsOverride replaces the database credentials with values from AWS
// Secrets Manager. Failure falls back to the env values.
func applySecretsOverride(cfg *Config, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	awsCfg, err := aws.LoadAWSConfig(ctx)
	if err != nil {
		logger.Warn("Failed to load AWS config for secrets, using env credentials", zap.Error(err))
		return
	}

	secretName := getEnv("AWS_DB_SECRET_NAME", "wholesale/db-credentials")
	raw, err := aws.NewSecretsClient(awsCfg).GetSecret(ctx, secretName)
	if err != nil {
		logger.Warn("Failed to fetch DB secret, using env credentials", zap.Error(err))
		return
	}

	var secret struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Host     string `json:"host"`
		Port     string `json:"port"`
		DBName   string `json:"dbname"`
	}
	if err := json.Unmarshal([]byte(raw), &secret); err != nil {
		logger.Warn("Failed to parse DB secret, using env credentials", zap.Error(err))
		return
	}

	if secret.Username != "" {
		cfg.Postgres.User = secret.Username
	}
	if secret.Password != "" {
		cfg.Postgres.Password = secret.Password
	}
	if secret.Host != "" {
		cfg.Postgres.Host = secret.Host
	}
	if secret.Port != "" {
		cfg.Postgres.Port = secret.Port
	}
	if secret.DBName != "" {
		cfg.Postgres.Name = secret.DBName
	}

	logger.Info("Database credentials loaded from Secrets Manager")
}
