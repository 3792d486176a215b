package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const envPrefix = "NUTRISENSE_"

// Config holds the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Model    ModelConfig    `yaml:"model"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Cache    CacheConfig    `yaml:"cache"`
	Foods    FoodsConfig    `yaml:"foods"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Mode            string        `yaml:"mode"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Addr returns the host:port the server listens on
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// ModelConfig locates the ONNX artifact and describes how to feed it
type ModelConfig struct {
	Path         string `yaml:"path"`
	MetadataPath string `yaml:"metadata_path"`
	LibraryPath  string `yaml:"library_path"`
	InputName    string `yaml:"input_name"`
	OutputName   string `yaml:"output_name"`
	ImageSize    int    `yaml:"image_size"`
	Resample     string `yaml:"resample"`
	ApplySoftmax bool   `yaml:"apply_softmax"`
}

// DatabaseConfig selects the history/catalog store. An empty driver disables it.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Path     string `yaml:"path"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// RedisConfig configures the shared prediction cache. An empty address disables it.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// CacheConfig configures the in-process prediction cache used when Redis is off
type CacheConfig struct {
	Size int `yaml:"size"`
}

// FoodsConfig points at the catalog seed file
type FoodsConfig struct {
	SeedPath string `yaml:"seed_path"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			Mode:            "debug",
			MaxUploadBytes:  10 << 20,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Model: ModelConfig{
			Path:       "model/mobilenetv2_improved.onnx",
			InputName:  "input",
			OutputName: "output",
			ImageSize:  224,
			Resample:   "bicubic",
		},
		Database: DatabaseConfig{
			Driver:  "sqlite",
			Path:    "data/nutrisense.db",
			Host:    "localhost",
			Port:    5432,
			User:    "nutrisense",
			DBName:  "nutrisense",
			SSLMode: "disable",
		},
		Redis: RedisConfig{
			TTL: 24 * time.Hour,
		},
		Cache: CacheConfig{
			Size: 1024,
		},
		Foods: FoodsConfig{
			SeedPath: "data/foods.yaml",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (if any)
// and NUTRISENSE_* environment variables, in that order.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects values the server cannot start with
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid server mode %q", c.Server.Mode)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive")
	}
	if c.Model.Path == "" {
		return fmt.Errorf("model path is required")
	}
	if c.Model.ImageSize <= 0 {
		return fmt.Errorf("invalid model image size %d", c.Model.ImageSize)
	}
	switch c.Database.Driver {
	case "", "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.Log.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("unsupported log format %q", c.Log.Format)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	// PORT wins over the file but loses to the prefixed variable.
	if err := envInt("PORT", &cfg.Server.Port); err != nil {
		return err
	}

	stringVars := map[string]*string{
		"SERVER_HOST":        &cfg.Server.Host,
		"SERVER_MODE":        &cfg.Server.Mode,
		"MODEL_PATH":         &cfg.Model.Path,
		"MODEL_METADATA":     &cfg.Model.MetadataPath,
		"MODEL_LIBRARY_PATH": &cfg.Model.LibraryPath,
		"MODEL_INPUT_NAME":   &cfg.Model.InputName,
		"MODEL_OUTPUT_NAME":  &cfg.Model.OutputName,
		"MODEL_RESAMPLE":     &cfg.Model.Resample,
		"DATABASE_DRIVER":    &cfg.Database.Driver,
		"DATABASE_PATH":      &cfg.Database.Path,
		"DATABASE_HOST":      &cfg.Database.Host,
		"DATABASE_USER":      &cfg.Database.User,
		"DATABASE_PASSWORD":  &cfg.Database.Password,
		"DATABASE_DBNAME":    &cfg.Database.DBName,
		"DATABASE_SSLMODE":   &cfg.Database.SSLMode,
		"REDIS_ADDR":         &cfg.Redis.Addr,
		"REDIS_PASSWORD":     &cfg.Redis.Password,
		"FOODS_SEED_PATH":    &cfg.Foods.SeedPath,
		"LOG_LEVEL":          &cfg.Log.Level,
		"LOG_FORMAT":         &cfg.Log.Format,
	}
	for key, dst := range stringVars {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"SERVER_PORT":      &cfg.Server.Port,
		"MODEL_IMAGE_SIZE": &cfg.Model.ImageSize,
		"DATABASE_PORT":    &cfg.Database.Port,
		"REDIS_DB":         &cfg.Redis.DB,
		"CACHE_SIZE":       &cfg.Cache.Size,
	}
	for key, dst := range ints {
		if err := envInt(envPrefix+key, dst); err != nil {
			return err
		}
	}

	if v, ok := os.LookupEnv(envPrefix + "SERVER_MAX_UPLOAD_BYTES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %sSERVER_MAX_UPLOAD_BYTES: %w", envPrefix, err)
		}
		cfg.Server.MaxUploadBytes = n
	}

	if v, ok := os.LookupEnv(envPrefix + "MODEL_APPLY_SOFTMAX"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sMODEL_APPLY_SOFTMAX: %w", envPrefix, err)
		}
		cfg.Model.ApplySoftmax = b
	}

	if v, ok := os.LookupEnv(envPrefix + "REDIS_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sREDIS_TTL: %w", envPrefix, err)
		}
		cfg.Redis.TTL = d
	}

	return nil
}

func envInt(key string, dst *int) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}
