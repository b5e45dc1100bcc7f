package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	platformerrors "github.com/jmgilman/go/errors"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		BaseDir:     "/home/user/.local/share/syncpath",
		LogDir:      "/home/user/.local/share/syncpath/log",
		Platform:    "windows",
		MaxSymlinks: 12,
		Database:    DatabaseConfig{Type: "sqlite", DataDir: "/home/user/.local/share/syncpath/db"},
		Filesystem:  FilesystemConfig{Type: "sandbox", Root: "/srv/replica"},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if *got != *original {
		t.Errorf("Read() = %+v, want %+v", got, original)
	}
}

func TestManager_Read_DefaultsMaxSymlinks(t *testing.T) {
	m := &Manager{}
	got, err := m.Read(strings.NewReader(`base_dir = "/b"` + "\n[database]\ntype = \"memory\"\n"))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.MaxSymlinks != DefaultMaxSymlinks {
		t.Errorf("MaxSymlinks = %d, want %d", got.MaxSymlinks, DefaultMaxSymlinks)
	}
}

func TestManager_Read_InvalidTOML(t *testing.T) {
	m := &Manager{}
	if _, err := m.Read(strings.NewReader("base_dir = ")); err == nil {
		t.Fatal("Read() expected error for malformed TOML")
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("/data/syncpath")

	if cfg.BaseDir != "/data/syncpath" {
		t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, "/data/syncpath")
	}
	if cfg.LogDir != "/data/syncpath/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/syncpath/log")
	}
	if cfg.Database.DataDir != "/data/syncpath/db" {
		t.Errorf("Database.DataDir = %q, want %q", cfg.Database.DataDir, "/data/syncpath/db")
	}
	if cfg.MaxSymlinks != DefaultMaxSymlinks {
		t.Errorf("MaxSymlinks = %d, want %d", cfg.MaxSymlinks, DefaultMaxSymlinks)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"posix platform", func(c *Config) { c.Platform = "posix" }, false},
		{"empty platform", func(c *Config) { c.Platform = "" }, false},
		{"unknown platform", func(c *Config) { c.Platform = "plan9" }, true},
		{"negative max symlinks", func(c *Config) { c.MaxSymlinks = -1 }, true},
		{"memory database", func(c *Config) { c.Database = DatabaseConfig{Type: "memory"} }, false},
		{"sqlite without data dir", func(c *Config) { c.Database.DataDir = "" }, true},
		{"unknown database", func(c *Config) { c.Database.Type = "postgres" }, true},
		{"sandbox with root", func(c *Config) { c.Filesystem = FilesystemConfig{Type: "sandbox", Root: "/srv"} }, false},
		{"sandbox without root", func(c *Config) { c.Filesystem = FilesystemConfig{Type: "sandbox"} }, true},
		{"memory filesystem", func(c *Config) { c.Filesystem.Type = "memory" }, false},
		{"unknown filesystem", func(c *Config) { c.Filesystem.Type = "ftp" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig("/data")
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && platformerrors.GetCode(err) != platformerrors.CodeInvalidConfig {
				t.Errorf("GetCode() = %s, want %s", platformerrors.GetCode(err), platformerrors.CodeInvalidConfig)
			}
		})
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "nested", "syncpath.toml")
		cfg := NewConfig(dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "syncpath.toml")
		cfg := NewConfig(dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}

		err := Init(path, cfg)
		if err == nil {
			t.Fatal("second Init() expected error")
		}
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "syncpath.toml")
		cfg := NewConfig(dir)
		cfg.Platform = "vms"

		if err := Init(path, cfg); err == nil {
			t.Fatal("Init() expected error for invalid config")
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("config file should not exist, stat error = %v", err)
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "syncpath.toml")
		cfg := NewConfig(dir)
		cfg.Platform = "posix"
		cfg.Database = DatabaseConfig{Type: "memory"}

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.Platform != "posix" {
			t.Errorf("Platform = %q, want %q", got.Platform, "posix")
		}
		if got.Database.Type != "memory" {
			t.Errorf("Database.Type = %q, want %q", got.Database.Type, "memory")
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		_, err := ReadFromFile("/nonexistent/path/syncpath.toml")
		if err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})

	t.Run("returns error for invalid values", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "syncpath.toml")
		content := "base_dir = \"/b\"\n[database]\ntype = \"oracle\"\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		_, err := ReadFromFile(path)
		if err == nil {
			t.Fatal("ReadFromFile() expected validation error")
		}
		if platformerrors.GetCode(err) != platformerrors.CodeInvalidConfig {
			t.Errorf("GetCode() = %s, want %s", platformerrors.GetCode(err), platformerrors.CodeInvalidConfig)
		}
	})
}
