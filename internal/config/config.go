// Package config loads client configuration: built-in defaults, an optional
// YAML file, an optional .env file, GOPHBOARD_* environment variables and
// finally command-line overrides applied by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config - конфигурация клиента
type Config struct {
	API      API      `yaml:"api"`
	Identity Identity `yaml:"identity"`
	Storage  Storage  `yaml:"storage"`
	Throttle Throttle `yaml:"throttle"`
	Cache    Cache    `yaml:"cache"`
	Log      Log      `yaml:"log"`
	Metrics  Metrics  `yaml:"metrics"`
}

// API - параметры BaaS
type API struct {
	BaseURL string        `yaml:"base_url" env:"GOPHBOARD_API_BASE_URL" validate:"required,url"`
	AnonKey string        `yaml:"anon_key" env:"GOPHBOARD_API_ANON_KEY"`
	Timeout time.Duration `yaml:"timeout" env:"GOPHBOARD_API_TIMEOUT" validate:"gt=0"`
}

// Identity - параметры identity эндпоинтов
type Identity struct {
	PathPrefix string `yaml:"path_prefix" env:"GOPHBOARD_IDENTITY_PATH_PREFIX" validate:"required,startswith=/"`
}

// Storage - локальное хранилище
type Storage struct {
	Driver     string `yaml:"driver" env:"GOPHBOARD_STORAGE_DRIVER" validate:"oneof=bolt sqlite"`
	Path       string `yaml:"path" env:"GOPHBOARD_STORAGE_PATH" validate:"required"`
	Passphrase string `yaml:"passphrase" env:"GOPHBOARD_STORAGE_PASSPHRASE"`
	CacheArea  string `yaml:"cache_area" env:"GOPHBOARD_CACHE_AREA" validate:"oneof=durable session"`
}

// Throttle - окна подавления после 401
type Throttle struct {
	CoolDown        time.Duration `yaml:"cool_down" env:"GOPHBOARD_THROTTLE_COOL_DOWN" validate:"gt=0"`
	ThrottledWindow time.Duration `yaml:"throttled_window" env:"GOPHBOARD_THROTTLE_WINDOW" validate:"gt=0"`
	FailureSpan     time.Duration `yaml:"failure_span" env:"GOPHBOARD_THROTTLE_FAILURE_SPAN" validate:"gt=0"`
	Threshold       int           `yaml:"threshold" env:"GOPHBOARD_THROTTLE_THRESHOLD" validate:"min=1"`
}

// Cache - переопределения TTL по ключам кеша (PROFILE_DATA: 5m)
type Cache struct {
	TTL map[string]time.Duration `yaml:"ttl" validate:"dive,keys,required,endkeys,gt=0"`
}

// Log - логирование
type Log struct {
	Level string `yaml:"level" env:"GOPHBOARD_LOG_LEVEL" validate:"oneof=debug info warn error"`
}

// Metrics - HTTP эндпоинт Prometheus. Пустой адрес отключает его.
type Metrics struct {
	Addr string `yaml:"addr" env:"GOPHBOARD_METRICS_ADDR" validate:"omitempty,hostname_port"`
}

// Default returns configuration with built-in defaults
func Default() *Config {
	return &Config{
		API: API{
			BaseURL: "http://localhost:54321",
			Timeout: 30 * time.Second,
		},
		Identity: Identity{
			PathPrefix: "/auth/v1/",
		},
		Storage: Storage{
			Driver:    "bolt",
			Path:      "gophboard.db",
			CacheArea: "durable",
		},
		Throttle: Throttle{
			CoolDown:        5 * time.Second,
			ThrottledWindow: 30 * time.Second,
			FailureSpan:     30 * time.Second,
			Threshold:       3,
		},
		Cache: Cache{
			TTL: map[string]time.Duration{},
		},
		Log: Log{
			Level: "info",
		},
	}
}

// LoadOptions - откуда читать конфигурацию
type LoadOptions struct {
	// ConfigPath - YAML файл; отсутствующий файл не ошибка
	ConfigPath string
	// EnvFile - .env файл; отсутствующий файл не ошибка
	EnvFile string
}

// Load builds configuration from defaults, YAML, .env and environment.
// The result is not validated: apply flag overrides, then call Validate.
func Load(opts LoadOptions) (*Config, error) {
	cfg, err := LoadYAMLConfig(opts.ConfigPath, Default)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := loadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}

	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("failed to decode environment: %w", err)
	}

	return cfg, nil
}

// LoadYAMLConfig reads YAML over the defaults returned by fn.
// Empty path or missing file yields the defaults.
func LoadYAMLConfig[T any](configPath string, fn func() *T) (*T, error) {
	cfg := fn()

	if configPath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", configPath, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
	}

	return cfg, nil
}

// loadEnvFile не перезаписывает уже заданные переменные окружения
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

var validate = validator.New()

// Validate checks the configuration
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
