package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultAdminPassword = "admin123"
	DefaultSecretKey     = "change-me-in-production"
)

type Config struct {
	// Server
	Port        string   `mapstructure:"port"`
	Environment string   `mapstructure:"environment"`
	LogLevel    string   `mapstructure:"log_level"`
	CORSOrigins []string `mapstructure:"-"`

	// Admin
	AdminPassword string        `mapstructure:"admin_password"`
	SecretKey     string        `mapstructure:"secret_key"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`

	// Database
	DatabaseURL string `mapstructure:"database_url"`

	// Files
	StaticDir     string `mapstructure:"static_dir"`
	UploadDir     string `mapstructure:"upload_dir"`
	StorageDriver string `mapstructure:"storage_driver"`

	// Orphaned upload cleanup, local driver only. Empty schedule disables it.
	UploadSweepSchedule string        `mapstructure:"upload_sweep_schedule"`
	UploadSweepGrace    time.Duration `mapstructure:"upload_sweep_grace"`

	// Supabase storage
	SupabaseURL           string `mapstructure:"supabase_url"`
	SupabaseKey           string `mapstructure:"supabase_key"`
	SupabaseStorageBucket string `mapstructure:"supabase_storage_bucket"`

	// S3 storage
	S3Bucket    string `mapstructure:"s3_bucket"`
	S3Region    string `mapstructure:"s3_region"`
	S3Endpoint  string `mapstructure:"s3_endpoint"`
	S3AccessKey string `mapstructure:"s3_access_key"`
	S3SecretKey string `mapstructure:"s3_secret_key"`
	S3PublicURL string `mapstructure:"s3_public_url"`

	// OpenAI
	OpenAIKey     string `mapstructure:"openai_key"`
	OpenAIModel   string `mapstructure:"openai_model"`
	OpenAIBaseURL string `mapstructure:"openai_base_url"`

	// GitHub
	GitHubAPIURL string `mapstructure:"github_api_url"`
	GitHubToken  string `mapstructure:"github_token"`

	// Redis caches repository summaries when set.
	RedisURL       string        `mapstructure:"redis_url"`
	GitHubCacheTTL time.Duration `mapstructure:"github_cache_ttl"`
}

var defaults = map[string]any{
	"port":                    "8000",
	"environment":             "development",
	"log_level":               "info",
	"cors_origins":            "*",
	"admin_password":          DefaultAdminPassword,
	"secret_key":              DefaultSecretKey,
	"session_ttl":             "24h",
	"database_url":            "",
	"static_dir":              "static",
	"upload_dir":              "static/uploads",
	"storage_driver":          "local",
	"upload_sweep_schedule":   "@every 6h",
	"upload_sweep_grace":      "1h",
	"supabase_url":            "",
	"supabase_key":            "",
	"supabase_storage_bucket": "portfolio-images",
	"s3_bucket":               "",
	"s3_region":               "us-east-1",
	"s3_endpoint":             "",
	"s3_access_key":           "",
	"s3_secret_key":           "",
	"s3_public_url":           "",
	"openai_key":              "",
	"openai_model":            "gpt-4o-mini",
	"openai_base_url":         "",
	"github_api_url":          "https://api.github.com",
	"github_token":            "",
	"redis_url":               "",
	"github_cache_ttl":        "1h",
}

// Load reads an optional config.yaml from . or ./configs, then lets
// environment variables (PORT, DATABASE_URL, ...) override it.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.CORSOrigins = ParseOrigins(v.GetString("cors_origins"))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required")
	}
	// bcrypt ignores anything past 72 bytes
	if len(c.AdminPassword) > 72 {
		return fmt.Errorf("ADMIN_PASSWORD must be at most 72 bytes")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.IsProduction() {
		if c.AdminPassword == DefaultAdminPassword {
			return fmt.Errorf("ADMIN_PASSWORD must be changed in production")
		}
		if c.SecretKey == DefaultSecretKey || len(c.SecretKey) < 32 {
			return fmt.Errorf("SECRET_KEY must be set to at least 32 characters in production")
		}
	}

	switch c.StorageDriver {
	case "local":
		rel, err := filepath.Rel(c.StaticDir, c.UploadDir)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return fmt.Errorf("UPLOAD_DIR must be inside STATIC_DIR")
		}
	case "supabase":
		if c.SupabaseURL == "" {
			return fmt.Errorf("SUPABASE_URL is required for the supabase storage driver")
		}
		if c.SupabaseKey == "" {
			return fmt.Errorf("SUPABASE_KEY is required for the supabase storage driver")
		}
		if c.SupabaseStorageBucket == "" {
			return fmt.Errorf("SUPABASE_STORAGE_BUCKET is required for the supabase storage driver")
		}
	case "s3":
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for the s3 storage driver")
		}
		if c.S3Region == "" {
			return fmt.Errorf("S3_REGION is required for the s3 storage driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.UploadSweepSchedule != "" && c.UploadSweepGrace <= 0 {
		return fmt.Errorf("UPLOAD_SWEEP_GRACE must be positive")
	}
	if c.RedisURL != "" && c.GitHubCacheTTL <= 0 {
		return fmt.Errorf("GITHUB_CACHE_TTL must be positive")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ParseOrigins splits a comma separated origin list. "*" allows any origin.
func ParseOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "*" {
		return []string{"*"}
	}
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
