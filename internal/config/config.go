package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	platformerrors "github.com/jmgilman/go/errors"
)

// DefaultMaxSymlinks is the link-following bound used when max_symlinks is
// not set.
const DefaultMaxSymlinks = 100

// Config represents the main configuration for syncpath.
type Config struct {
	BaseDir     string           `toml:"base_dir"`
	LogDir      string           `toml:"log_dir"`
	Platform    string           `toml:"platform"`     // "auto" (default), "posix" or "windows"
	MaxSymlinks int              `toml:"max_symlinks"` // link-following bound; defaults to 100
	Database    DatabaseConfig   `toml:"database"`
	Filesystem  FilesystemConfig `toml:"filesystem"`
}

// DatabaseConfig represents configuration for the operation journal.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// FilesystemConfig selects where paths are resolved.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type FilesystemConfig struct {
	Type string `toml:"type"`           // "os" (default), "sandbox" or "memory"
	Root string `toml:"root,omitempty"` // only used for type=sandbox
}

// NewConfig creates a new Config rooted at baseDir with default settings.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir:     baseDir,
		LogDir:      filepath.Join(baseDir, "log"),
		Platform:    "auto",
		MaxSymlinks: DefaultMaxSymlinks,
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
		Filesystem: FilesystemConfig{Type: "os"},
	}
}

// Validate checks field values that TOML decoding cannot.
func (c *Config) Validate() error {
	switch c.Platform {
	case "", "auto", "posix", "windows":
	default:
		return platformerrors.Newf(platformerrors.CodeInvalidConfig, "unknown platform: %s", c.Platform)
	}
	if c.MaxSymlinks < 0 {
		return platformerrors.Newf(platformerrors.CodeInvalidConfig, "max_symlinks must not be negative, got %d", c.MaxSymlinks)
	}
	switch c.Database.Type {
	case "sqlite":
		if c.Database.DataDir == "" {
			return platformerrors.New(platformerrors.CodeInvalidConfig, "data_dir required for sqlite database")
		}
	case "memory":
	default:
		return platformerrors.Newf(platformerrors.CodeInvalidConfig, "unknown database type: %s", c.Database.Type)
	}
	switch c.Filesystem.Type {
	case "", "os", "memory":
	case "sandbox":
		if c.Filesystem.Root == "" {
			return platformerrors.New(platformerrors.CodeInvalidConfig, "sandbox filesystem requires root to be set")
		}
	default:
		return platformerrors.Newf(platformerrors.CodeInvalidConfig, "unknown filesystem type: %s", c.Filesystem.Type)
	}
	return nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.MaxSymlinks == 0 {
		cfg.MaxSymlinks = DefaultMaxSymlinks
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
