package config

import (
	"fmt"
	"os"
	"strings"
)

type AppConfig struct {
	HTTPAddr  string
	RedisAddr string
	RedisPass string

	KafkaBrokers           []string
	ClientUpdatedTopic     string
	TransactionEventsTopic string
	ConsumerGroupID        string

	MigrationsPath string
}

func Load() AppConfig {
	return AppConfig{
		HTTPAddr:  getEnv("HTTP_ADDR", ":8080"),
		RedisAddr: getEnv("REDIS_ADDR", "redis:6379"),
		RedisPass: getEnv("REDIS_PASS", ""),

		KafkaBrokers:           getEnvSlice("KAFKA_BROKERS", []string{"kafka:9092"}),
		ClientUpdatedTopic:     getEnv("KAFKA_CLIENT_UPDATED_TOPIC", "client.updated"),
		TransactionEventsTopic: getEnv("KAFKA_TRANSACTION_EVENTS_TOPIC", "transaction.events"),
		ConsumerGroupID:        getEnv("KAFKA_CONSUMER_GROUP", "account-service"),

		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
	}
}

// DatabaseURL assembles the postgres connection string from the DB_* env
// vars; shared by the pool and the migration runner.
func DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
