// Package config loads and persists the tool's TOML configuration from
// the khasra home directory (~/.khasra by default, KHASRA_HOME overrides).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/khasra-labs/khasra-cli/internal/core/domain"
	"github.com/khasra-labs/khasra-cli/internal/postprocessors/chunker"
)

const (
	configFile = "config.toml"
	envHome    = "KHASRA_HOME"
)

// Config is the tool configuration as stored in config.toml. Zero values
// are replaced by defaults on load.
type Config struct {
	Processing  Processing  `toml:"processing"`
	OCR         OCR         `toml:"ocr"`
	Translation Translation `toml:"translation"`
	Embedding   Embedding   `toml:"embedding"`
	Cache       Cache       `toml:"cache"`
}

type Processing struct {
	ChunkSize    int `toml:"chunk_size"`
	ChunkOverlap int `toml:"chunk_overlap"`
	BatchSize    int `toml:"batch_size"`
	MaxWorkers   int `toml:"max_workers"`
}

type OCR struct {
	DPI       int    `toml:"dpi"`
	Languages string `toml:"languages"` // default FLORES source tag, empty autodetects
}

type Translation struct {
	Backend    string  `toml:"backend"` // openai, dictionary or none
	Model      string  `toml:"model"`
	BaseURL    string  `toml:"base_url"`
	TargetLang string  `toml:"target_lang"`
	RPS        float64 `toml:"requests_per_second"`
}

type Embedding struct {
	Dimensions int `toml:"dimensions"`
}

type Cache struct {
	Dir     string `toml:"dir"`
	Enabled bool   `toml:"enabled"`
}

// Default returns the configuration used when no config file exists.
func Default() Config {
	return Config{
		Processing: Processing{
			ChunkSize:    chunker.DefaultChunkSize,
			ChunkOverlap: chunker.DefaultChunkOverlap,
			BatchSize:    domain.DefaultBatchSize,
			MaxWorkers:   domain.DefaultMaxWorkers,
		},
		OCR: OCR{
			DPI: 144,
		},
		Translation: Translation{
			Backend:    "dictionary",
			TargetLang: domain.LangEnglish,
			RPS:        2,
		},
		Embedding: Embedding{
			Dimensions: 256,
		},
		Cache: Cache{
			Enabled: true,
		},
	}
}

// Home returns the khasra home directory, creating it if needed.
func Home() (string, error) {
	if dir := os.Getenv(envHome); dir != "" {
		return dir, os.MkdirAll(dir, 0700)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".khasra")
	return dir, os.MkdirAll(dir, 0700)
}

// Load reads config.toml from dir, filling defaults for missing values.
// A missing file yields the defaults without error.
func Load(dir string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(dir, configFile))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// Save writes cfg to config.toml in dir.
func Save(dir string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, configFile), data, 0600)
}

// applyDefaults replaces zero values left by a sparse config file.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Processing.ChunkSize <= 0 {
		c.Processing.ChunkSize = def.Processing.ChunkSize
	}
	if c.Processing.ChunkOverlap < 0 {
		c.Processing.ChunkOverlap = def.Processing.ChunkOverlap
	}
	if c.Processing.BatchSize <= 0 {
		c.Processing.BatchSize = def.Processing.BatchSize
	}
	if c.Processing.MaxWorkers <= 0 {
		c.Processing.MaxWorkers = def.Processing.MaxWorkers
	}
	if c.OCR.DPI <= 0 {
		c.OCR.DPI = def.OCR.DPI
	}
	if c.Translation.Backend == "" {
		c.Translation.Backend = def.Translation.Backend
	}
	if c.Translation.TargetLang == "" {
		c.Translation.TargetLang = def.Translation.TargetLang
	}
	if c.Translation.RPS <= 0 {
		c.Translation.RPS = def.Translation.RPS
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = def.Embedding.Dimensions
	}
}

// CacheDir resolves the document cache directory, defaulting to
// <home>/cache/documents.
func (c Config) CacheDir(home string) string {
	if c.Cache.Dir != "" {
		return c.Cache.Dir
	}
	return filepath.Join(home, "cache", "documents")
}

// DataDir resolves the directory holding the persistent translation
// memory, <home>/data.
func DataDir(home string) string {
	return filepath.Join(home, "data")
}

// IndexSnapshotPath resolves the default vector index snapshot,
// <home>/index.json.
func IndexSnapshotPath(home string) string {
	return filepath.Join(home, "index.json")
}
