package fs

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"sync"
	"syscall"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"

	"syncpath/internal/fspath"
)

const maxDirLinks = 40

// BillyFilesystem adapts a go-billy filesystem to fspath.Filesystem. The
// working directory is virtual: it lives in the adapter, so Chdir never
// touches the process.
//
// Paths are '/'-separated and interpreted inside the billy filesystem, whose
// root is "/". Relative arguments are joined to the virtual working directory
// and cleaned lexically.
type BillyFilesystem struct {
	mu  sync.Mutex
	bfs billy.Filesystem
	cwd string
}

// NewBillyFilesystem wraps bfs with "/" as the working directory.
func NewBillyFilesystem(bfs billy.Filesystem) *BillyFilesystem {
	return &BillyFilesystem{bfs: bfs, cwd: "/"}
}

// NewMemoryFilesystem creates an empty in-memory filesystem.
func NewMemoryFilesystem() *BillyFilesystem {
	return NewBillyFilesystem(memfs.New())
}

// NewSandboxFilesystem exposes the directory root of the host as "/".
func NewSandboxFilesystem(root string) *BillyFilesystem {
	return NewBillyFilesystem(osfs.New(root))
}

// Unwrap returns the underlying billy filesystem.
func (b *BillyFilesystem) Unwrap() billy.Filesystem {
	return b.bfs
}

func (b *BillyFilesystem) Getwd() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cwd, nil
}

// Chdir enters dir. A final symbolic link component is followed so that
// Getwd reports the directory the link points to.
func (b *BillyFilesystem) Chdir(dir string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if dir == "" {
		return &fs.PathError{Op: "chdir", Path: dir, Err: syscall.ENOENT}
	}
	target := b.abs(dir)
	if target == "/" {
		b.cwd = target
		return nil
	}

	info, err := b.bfs.Stat(target)
	if err != nil {
		return &fs.PathError{Op: "chdir", Path: dir, Err: unwrapPathError(err)}
	}
	if !info.IsDir() {
		return &fs.PathError{Op: "chdir", Path: dir, Err: syscall.ENOTDIR}
	}

	physical, err := b.followDirLinks(target)
	if err != nil {
		return &fs.PathError{Op: "chdir", Path: dir, Err: err}
	}
	b.cwd = physical
	return nil
}

func (b *BillyFilesystem) Readlink(name string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bfs.Readlink(b.abs(name))
}

// Symlink creates a symbolic link at link pointing to target.
func (b *BillyFilesystem) Symlink(target, link string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bfs.Symlink(target, b.abs(link))
}

// MkdirAll creates dir and any missing parents.
func (b *BillyFilesystem) MkdirAll(dir string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bfs.MkdirAll(b.abs(dir), 0o755)
}

func (b *BillyFilesystem) followDirLinks(p string) (string, error) {
	for i := 0; i < maxDirLinks; i++ {
		info, err := b.bfs.Lstat(p)
		if err != nil {
			return "", unwrapPathError(err)
		}
		if info.Mode()&os.ModeSymlink == 0 {
			return p, nil
		}
		target, err := b.bfs.Readlink(p)
		if err != nil {
			return "", unwrapPathError(err)
		}
		if path.IsAbs(target) {
			p = path.Clean(target)
		} else {
			p = path.Join(path.Dir(p), target)
		}
	}
	return "", syscall.ELOOP
}

func (b *BillyFilesystem) abs(name string) string {
	if path.IsAbs(name) {
		return path.Clean(name)
	}
	return path.Join(b.cwd, name)
}

func unwrapPathError(err error) error {
	var perr *fs.PathError
	if errors.As(err, &perr) {
		return perr.Err
	}
	return err
}

// Compile-time check that BillyFilesystem implements fspath.Filesystem
var _ fspath.Filesystem = (*BillyFilesystem)(nil)
