package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	defaultListen           = ":8080"
	defaultRedisURL         = "redis://localhost:6379/0"
	defaultWorkers          = 4
	defaultDescFileName     = "description.md"
	defaultSnapshotFileName = "progress.yml"

	envListen     = "COURSETRACKER_LISTEN"
	envRedisURL   = "COURSETRACKER_REDIS_URL"
	envCoursesDir = "COURSETRACKER_COURSES_DIR"
)

var defaultVideoExtensions = []string{".mp4", ".mkv", ".webm", ".mov", ".avi"}

type CatalogConfig struct {
	WorkDir string `yaml:"work_dir"`
	Workers int    `yaml:"workers"`
}

type FSAdapterConfig struct {
	WorkDir         string
	DescFileName    string
	VideoExtensions []string
}

type Config struct {
	Listen           string        `yaml:"listen"`
	RedisURL         string        `yaml:"redis_url"`
	LogLevel         string        `yaml:"log_level"`
	DescFileName     string        `yaml:"desc_filename"`
	SnapshotFileName string        `yaml:"snapshot_filename"`
	VideoExtensions  []string      `yaml:"video_extensions"`
	CatalogConfig    CatalogConfig `yaml:"catalog"`
}

func (c *Config) SetDefaults() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.RedisURL == "" {
		c.RedisURL = defaultRedisURL
	}
	if c.LogLevel == "" {
		c.LogLevel = LogLevelInfo
	}
	if c.DescFileName == "" {
		c.DescFileName = defaultDescFileName
	}
	if c.SnapshotFileName == "" {
		c.SnapshotFileName = defaultSnapshotFileName
	}
	if len(c.VideoExtensions) == 0 {
		c.VideoExtensions = defaultVideoExtensions
	}
	if c.CatalogConfig.Workers < 1 {
		c.CatalogConfig.Workers = defaultWorkers
	}
}

func (c *Config) FSAdapterConfig() *FSAdapterConfig {
	exts := make([]string, len(c.VideoExtensions))
	for i, ext := range c.VideoExtensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[i] = strings.ToLower(ext)
	}

	return &FSAdapterConfig{
		WorkDir:         c.CatalogConfig.WorkDir,
		DescFileName:    c.DescFileName,
		VideoExtensions: exts,
	}
}

// Load reads the yaml config and applies environment overrides on top.
// A .env file next to the process is honored if present.
func Load(fs afero.Fs, path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("cannot unmarshal config: %w", err)
	}

	if listen := os.Getenv(envListen); listen != "" {
		cfg.Listen = listen
	}
	if redisURL := os.Getenv(envRedisURL); redisURL != "" {
		cfg.RedisURL = redisURL
	}
	if coursesDir := os.Getenv(envCoursesDir); coursesDir != "" {
		cfg.CatalogConfig.WorkDir = coursesDir
	}

	cfg.SetDefaults()

	if cfg.CatalogConfig.WorkDir == "" {
		return nil, fmt.Errorf("courses work_dir is not set")
	}

	return &cfg, nil
}

func MustLoad(path string) *Config {
	cfg, err := Load(afero.NewOsFs(), path)
	if err != nil {
		panic(err)
	}

	return cfg
}
