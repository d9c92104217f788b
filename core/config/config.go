package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Server   ServerConfig
		Database DatabaseConfig
		Redis    RedisConfig
		JWT      JWTConfig
		Storage  StorageConfig
		Worker   WorkerConfig
	}

	ServerConfig struct {
		Host     string
		Port     int
		LogLevel string
	}

	DatabaseConfig struct {
		Host           string
		Port           int
		User           string
		Password       string
		DBName         string
		SSLMode        string
		MigrationsPath string
	}

	RedisConfig struct {
		Addr     string
		Password string
		DB       int
	}

	JWTConfig struct {
		Secret      string
		ExpiryHours int
		Issuer      string
	}

	StorageConfig struct {
		Endpoint  string
		Region    string
		Bucket    string
		AccessKey string
		SecretKey string
		PublicURL string
	}

	WorkerConfig struct {
		Concurrency int
	}
)

var (
	instance *Config
	mu       sync.RWMutex
)

// Load reads configuration from the environment (and an optional .env file)
// and stores it as the process-wide config.
func Load() (*Config, error) {
	// .env is optional; real deployments inject env vars directly.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 7070)
	v.SetDefault("server.loglevel", "info")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.dbname", "volops")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.migrationspath", "migrations")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.expiryhours", 24)
	v.SetDefault("jwt.issuer", "volops")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("worker.concurrency", 10)

	// Register secret-bearing keys so AutomaticEnv resolves them during Unmarshal.
	v.SetDefault("database.password", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.accesskey", "")
	v.SetDefault("storage.secretkey", "")
	v.SetDefault("storage.publicurl", "")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	mu.Lock()
	instance = cfg
	mu.Unlock()
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return fmt.Errorf("config: JWT_SECRET is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server port %d", c.Server.Port)
	}
	return nil
}

// Get returns the loaded config; panics if Load was never called.
func Get() *Config {
	cfg, ok := GetSafe()
	if !ok {
		panic("config: not initialized")
	}
	return cfg
}

// GetSafe returns the loaded config and whether it has been initialized.
func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return instance, instance != nil
}

// Set replaces the process-wide config. Intended for tests.
func Set(cfg *Config) {
	mu.Lock()
	instance = cfg
	mu.Unlock()
}

// DSN builds the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// URL builds the postgres connection URL used by the migration runner.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}
