package app

import "time"

// StorageDriver выбирает backend хранения состояния чекаута.
type StorageDriver string

const (
	StorageDriverMemory   StorageDriver = "memory"
	StorageDriverRedis    StorageDriver = "redis"
	StorageDriverPostgres StorageDriver = "postgres"
)

// Config описывает минимальные настройки запуска приложения.
type Config struct {
	HTTPAddr    string
	MetricsAddr string

	StorageDriver       StorageDriver
	RedisAddr           string
	PostgresDSN         string
	PostgresAutoMigrate bool
	SessionTTL          time.Duration

	// PricingConfigPath — YAML с ценовыми таблицами; пусто = демо-дефолты.
	PricingConfigPath string
}

// DefaultConfig возвращает базовые адреса и in-memory хранилище.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:            ":8080",
		MetricsAddr:         ":9090",
		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,
		SessionTTL:          24 * time.Hour,
	}
}
