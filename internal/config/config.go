package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"INFO"`

	HTTP HTTPConfig `yaml:"http"`
	DB   DBConfig   `yaml:"db"`
	AI   AIConfig   `yaml:"ai"`
	Auth AuthConfig `yaml:"auth"`

	// CheckInterval drives the periodic deadline check; 0 disables it.
	CheckInterval time.Duration `yaml:"check_interval" env:"CHECK_INTERVAL" env-default:"0s"`
}

type HTTPConfig struct {
	Address         string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	Timeout         time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"15s"`
	AllowedOrigins  []string      `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
}

type DBConfig struct {
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	Name     string `yaml:"name" env:"DB_NAME"`
	SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`

	// AutoMigrate creates missing tables at startup.
	AutoMigrate bool `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE" env-default:"false"`
}

type AIConfig struct {
	Provider    string        `yaml:"provider" env:"AI_PROVIDER" env-default:"openai"`
	APIKey      string        `yaml:"api_key" env:"AI_API_KEY"`
	Model       string        `yaml:"model" env:"AI_MODEL"`
	BaseURL     string        `yaml:"base_url" env:"AI_BASE_URL"`
	Timeout     time.Duration `yaml:"timeout" env:"AI_TIMEOUT" env-default:"20s"`
	Temperature float64       `yaml:"temperature" env:"AI_TEMPERATURE" env-default:"0.4"`
}

type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret" env:"JWT_SECRET"`
	DefaultUserID string `yaml:"default_user_id" env:"DEFAULT_USER_ID" env-default:"default-user"`
	// CronSecret, when set, must arrive in X-Cron-Secret on /cron routes.
	CronSecret    string `yaml:"cron_secret" env:"CRON_SECRET"`
}

// MustLoad reads .env (if any), then the YAML file at configPath, then the
// environment. A missing YAML file falls back to env only.
func MustLoad(configPath string) Config {
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot load config: %s", err)
	}
	return cfg
}

func Load(configPath string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("read env: %w", err)
		}
		return cfg.withDefaults(), nil
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		var pe *os.PathError
		if !errors.As(err, &pe) {
			return Config{}, fmt.Errorf("read config %q: %w", configPath, err)
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("read env: %w", err)
		}
	}
	return cfg.withDefaults(), nil
}

func (c Config) withDefaults() Config {
	// legacy variable names from the first deployment
	if c.AI.APIKey == "" {
		c.AI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.AI.Model == "" {
		switch c.AI.Provider {
		case "gemini":
			c.AI.Model = "gemini-pro"
		default:
			c.AI.Model = "gpt-4o-mini"
		}
	}
	return c
}

func (c DBConfig) ConnString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}
