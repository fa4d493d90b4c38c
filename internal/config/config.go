package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apperrors "voicescribe/internal/app/errors"
)

// Transcode modes supported by the pipeline. The mode is fixed per
// deployment, never per request.
const (
	TranscodeOff    = "off"
	TranscodeMP3    = "mp3"
	TranscodeWav16k = "wav16k"
)

// Repository drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds the complete service configuration. Secrets come from the
// environment only; tunables may additionally be overridden by an optional
// YAML file pointed at by VOICESCRIBE_CONFIG.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Transcribe TranscribeConfig `yaml:"transcribe"`
	Storage    StorageConfig    `yaml:"-"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         string        `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	Environment  string        `yaml:"environment"`
}

// PipelineConfig contains per-request pipeline settings.
type PipelineConfig struct {
	// MaxUploadBytes caps the request body size. Oversized uploads are
	// rejected before the pipeline runs.
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// DefaultLanguage is used when a request omits the language parameter.
	DefaultLanguage string `yaml:"default_language"`

	// TranscodeMode selects the normalization step: off, mp3 or wav16k.
	TranscodeMode string `yaml:"transcode_mode"`

	// UploadFirst orders the durable upload before the transcription call.
	// Both orders are sequential within a request.
	UploadFirst bool `yaml:"upload_first"`

	// ScratchDir is the directory for per-request temporary files.
	ScratchDir string `yaml:"scratch_dir"`
}

// TranscribeConfig contains transcription provider settings.
type TranscribeConfig struct {
	APIKey         string        `yaml:"-"`
	MaxAttempts    int           `yaml:"max_attempts"`
	AttemptTimeout time.Duration `yaml:"attempt_timeout"`
}

// StorageConfig contains blob storage credentials. Environment only.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	KeyPrefix string
	UseSSL    bool
}

// DatabaseConfig selects and configures the transcript repository backend.
type DatabaseConfig struct {
	Driver      string `yaml:"driver"`
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresDSN string `yaml:"-"`
}

// RedisConfig configures the optional result cache. An empty address
// disables caching entirely.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"-"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// LoadEnv loads environment variables from a .env file if one exists.
// Missing .env files are not an error; variables may be set system-wide.
func LoadEnv() error {
	envPaths := []string{".env", ".env.local"}
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			break
		}
	}
	return nil
}

// Load builds the full configuration from the environment plus the optional
// YAML tunables file. It fails fast: any missing required value returns an
// error wrapping ErrConfiguration and the process must not start serving.
func Load() (*Config, error) {
	if err := LoadEnv(); err != nil {
		return nil, apperrors.Stage(apperrors.ErrConfiguration, err)
	}

	cfg := defaults()

	if path := os.Getenv("VOICESCRIBE_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, apperrors.Stage(apperrors.ErrConfiguration,
				fmt.Errorf("failed to read config file %s: %w", path, err))
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, apperrors.Stage(apperrors.ErrConfiguration,
				fmt.Errorf("failed to parse config file %s: %w", path, err))
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.Stage(apperrors.ErrConfiguration, err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         "8080",
			ReadTimeout:  60 * time.Second,
			WriteTimeout: 120 * time.Second,
			IdleTimeout:  90 * time.Second,
			Environment:  "development",
		},
		Pipeline: PipelineConfig{
			MaxUploadBytes:  15 << 20,
			DefaultLanguage: "es",
			TranscodeMode:   TranscodeMP3,
			UploadFirst:     true,
			ScratchDir:      os.TempDir(),
		},
		Transcribe: TranscribeConfig{
			MaxAttempts:    3,
			AttemptTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:     DriverSQLite,
			SQLitePath: "data/voicescribe.db",
		},
		Redis: RedisConfig{
			TTL: 24 * time.Hour,
		},
	}
}

// applyEnv overlays environment variables on top of the YAML/default values.
// Environment always wins so deployments can override a shared config file.
func applyEnv(cfg *Config) {
	setString(&cfg.Server.Host, "SERVER_HOST")
	setString(&cfg.Server.Port, "SERVER_PORT")
	setString(&cfg.Server.Environment, "ENVIRONMENT")

	setInt64(&cfg.Pipeline.MaxUploadBytes, "MAX_UPLOAD_BYTES")
	setString(&cfg.Pipeline.DefaultLanguage, "DEFAULT_LANGUAGE")
	setString(&cfg.Pipeline.TranscodeMode, "TRANSCODE_MODE")
	setBool(&cfg.Pipeline.UploadFirst, "UPLOAD_FIRST")
	setString(&cfg.Pipeline.ScratchDir, "SCRATCH_DIR")

	cfg.Transcribe.APIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	setInt(&cfg.Transcribe.MaxAttempts, "TRANSCRIBE_MAX_ATTEMPTS")
	setDuration(&cfg.Transcribe.AttemptTimeout, "TRANSCRIBE_ATTEMPT_TIMEOUT")

	cfg.Storage.Endpoint = os.Getenv("MINIO_ENDPOINT")
	cfg.Storage.AccessKey = os.Getenv("MINIO_ACCESS_KEY")
	cfg.Storage.SecretKey = os.Getenv("MINIO_SECRET_KEY")
	cfg.Storage.Bucket = os.Getenv("MINIO_BUCKET")
	cfg.Storage.KeyPrefix = envOr("MINIO_KEY_PREFIX", "audio")
	cfg.Storage.UseSSL = os.Getenv("MINIO_USE_SSL") == "true"

	setString(&cfg.Database.Driver, "DB_DRIVER")
	setString(&cfg.Database.SQLitePath, "SQLITE_PATH")
	cfg.Database.PostgresDSN = os.Getenv("POSTGRES_DSN")

	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "REDIS_DB")
	setDuration(&cfg.Redis.TTL, "REDIS_TTL")
}

// Validate performs fail-fast validation of the configuration.
func (c *Config) Validate() error {
	if c.Transcribe.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if !strings.HasPrefix(c.Transcribe.APIKey, "sk-") {
		return fmt.Errorf("invalid OPENAI_API_KEY format: must start with 'sk-'")
	}
	if c.Storage.Endpoint == "" {
		return fmt.Errorf("MINIO_ENDPOINT is required")
	}
	if c.Storage.AccessKey == "" {
		return fmt.Errorf("MINIO_ACCESS_KEY is required")
	}
	if c.Storage.SecretKey == "" {
		return fmt.Errorf("MINIO_SECRET_KEY is required")
	}
	if c.Storage.Bucket == "" {
		return fmt.Errorf("MINIO_BUCKET is required")
	}

	switch c.Pipeline.TranscodeMode {
	case TranscodeOff, TranscodeMP3, TranscodeWav16k:
	default:
		return fmt.Errorf("transcode_mode must be one of [off, mp3, wav16k], got %q", c.Pipeline.TranscodeMode)
	}

	if c.Pipeline.MaxUploadBytes < 1024 {
		return fmt.Errorf("max_upload_bytes must be at least 1024, got %d", c.Pipeline.MaxUploadBytes)
	}
	if len(c.Pipeline.DefaultLanguage) != 2 {
		return fmt.Errorf("default_language must be a two-letter code, got %q", c.Pipeline.DefaultLanguage)
	}

	if c.Transcribe.MaxAttempts < 1 {
		return fmt.Errorf("transcribe max_attempts must be at least 1, got %d", c.Transcribe.MaxAttempts)
	}
	if c.Transcribe.AttemptTimeout < time.Second {
		return fmt.Errorf("transcribe attempt_timeout must be at least 1s, got %s", c.Transcribe.AttemptTimeout)
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("sqlite_path cannot be empty")
		}
	case DriverPostgres:
		if c.Database.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for the postgres driver")
		}
	default:
		return fmt.Errorf("database driver must be one of [sqlite, postgres], got %q", c.Database.Driver)
	}

	return nil
}

// CacheEnabled reports whether the Redis result cache is configured.
func (c *Config) CacheEnabled() bool {
	return c.Redis.Addr != ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "true" || v == "1"
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
