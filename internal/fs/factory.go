package fs

import (
	"fmt"

	"syncpath/internal/config"
	"syncpath/internal/fspath"
)

// NewFilesystemFromConfig creates a Filesystem implementation based on the filesystem config type.
func NewFilesystemFromConfig(cfg config.FilesystemConfig) (fspath.Filesystem, error) {
	switch cfg.Type {
	case "", "os":
		return NewOSFilesystem(), nil
	case "sandbox":
		if cfg.Root == "" {
			return nil, fmt.Errorf("sandbox filesystem requires root to be set")
		}
		return NewSandboxFilesystem(cfg.Root), nil
	case "memory":
		return NewMemoryFilesystem(), nil
	default:
		return nil, fmt.Errorf("unknown filesystem type: %s", cfg.Type)
	}
}

// IsVirtual reports whether filesystems of this config type keep their own
// working directory and use '/'-rooted paths regardless of the host.
func IsVirtual(cfg config.FilesystemConfig) bool {
	return cfg.Type == "sandbox" || cfg.Type == "memory"
}
