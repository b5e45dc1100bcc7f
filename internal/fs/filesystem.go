package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"syncpath/internal/fspath"
)

// OSFilesystem is the real filesystem implementation of fspath.Filesystem.
// It changes the working directory of the whole process.
type OSFilesystem struct{}

// NewOSFilesystem creates a filesystem that operates on the process working
// directory.
func NewOSFilesystem() *OSFilesystem {
	return &OSFilesystem{}
}

// Getwd returns the working directory with '/' separators.
func (f *OSFilesystem) Getwd() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return filepath.ToSlash(wd), nil
}

// Chdir changes the process working directory.
func (f *OSFilesystem) Chdir(dir string) error {
	return os.Chdir(filepath.FromSlash(dir))
}

// Readlink returns the raw target of a symbolic link. Separator conversion of
// the target is left to the platform family.
func (f *OSFilesystem) Readlink(name string) (string, error) {
	return os.Readlink(filepath.FromSlash(name))
}

// Compile-time check that OSFilesystem implements fspath.Filesystem
var _ fspath.Filesystem = (*OSFilesystem)(nil)
