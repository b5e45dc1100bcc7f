package fspath_test

import (
	"errors"
	"strings"
	"sync"
	"syscall"
	"testing"

	platformerrors "github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"syncpath/internal/fspath"
	"syncpath/internal/testutil"
)

func newPosixCanonicalizer(fs *testutil.MockFilesystem) *fspath.Canonicalizer {
	return fspath.NewCanonicalizer(posixSpace(), fs, fspath.NewNopLogger())
}

func TestCanonicalize_ExistingDirectories(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cwd  string
		raw  string
		want string
	}{
		{"absolute", "/", "/a/b", "/a/b"},
		{"trailing separators", "/", "/a/b//", "/a/b"},
		{"relative", "/a", "b", "/a/b"},
		{"empty means working directory", "/a/b", "", "/a/b"},
		{"dot", "/a", ".", "/a"},
		{"dot dot", "/a/b", "..", "/a"},
		{"root", "/a", "/", "/"},
		{"through a link", "/", "/link/b", "/a/b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := testutil.NewMockFilesystem()
			fs.AddDir("/a/b")
			fs.AddLink("/link", "/a")
			fs.SetWorkingDir(tt.cwd)

			got, err := newPosixCanonicalizer(fs).Canonicalize(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
			assert.Equal(t, tt.cwd, fs.WorkingDir(), "working directory restored")
		})
	}
}

func TestCanonicalize_ParentFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cwd  string
		raw  string
		want string
	}{
		{"missing leaf", "/", "/a/b", "/a/b"},
		{"missing leaf with trailing separator", "/", "/a/b/", "/a/b"},
		{"regular file", "/", "/a/file", "/a/file"},
		{"relative missing leaf", "/a", "new", "/a/new"},
		{"missing leaf under root", "/a", "/new", "/new"},
		{"missing leaf through a link", "/", "/link/new", "/a/new"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := testutil.NewMockFilesystem()
			fs.AddDir("/a")
			fs.AddFile("/a/file")
			fs.AddLink("/link", "/a")
			fs.SetWorkingDir(tt.cwd)

			got, err := newPosixCanonicalizer(fs).Canonicalize(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
			assert.Equal(t, tt.cwd, fs.WorkingDir(), "working directory restored")
		})
	}
}

func TestCanonicalize_DotLeaves(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{"/a/b/..", "/a"},
		{"/a/b/.", "/a/b"},
		{"/a/..", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			fs := testutil.NewMockFilesystem()
			fs.AddDir("/a/b")
			fs.FailChdir(tt.raw, syscall.EACCES)

			got, err := newPosixCanonicalizer(fs).Canonicalize(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestCanonicalize_FileInsidePath(t *testing.T) {
	t.Parallel()

	fs := testutil.NewMockFilesystem()
	fs.AddFile("/a/file")

	_, err := newPosixCanonicalizer(fs).Canonicalize("/a/file/x")
	require.Error(t, err)
	assert.True(t, fspath.IsFatal(err))
	assert.True(t, errors.Is(err, syscall.ENOTDIR))
}

func TestCanonicalize_ParentMissing(t *testing.T) {
	t.Parallel()

	fs := testutil.NewMockFilesystem()
	fs.AddDir("/work")
	fs.SetWorkingDir("/work")

	_, err := newPosixCanonicalizer(fs).Canonicalize("/missing/leaf")
	require.Error(t, err)
	assert.True(t, fspath.IsFatal(err))
	assert.False(t, platformerrors.IsRetryable(err))
	assert.Equal(t, "/work", fs.WorkingDir())

	var perr platformerrors.PlatformError
	require.True(t, errors.As(err, &perr))
	ctx := perr.Context()
	assert.Equal(t, "/missing/leaf", ctx["target"])
	assert.Equal(t, "/missing", ctx["parent"])
	assert.Contains(t, ctx["target_error"], "no such file or directory")
	assert.Contains(t, ctx["parent_error"], "no such file or directory")
	assert.True(t, errors.Is(err, syscall.ENOENT))
}

func TestCanonicalize_RootNotEnterable(t *testing.T) {
	t.Parallel()

	fs := testutil.NewMockFilesystem()
	fs.AddDir("/work")
	fs.SetWorkingDir("/work")
	fs.FailChdir("/", syscall.EACCES)

	_, err := newPosixCanonicalizer(fs).Canonicalize("/")
	require.Error(t, err)
	assert.True(t, fspath.IsFatal(err))
	assert.True(t, errors.Is(err, syscall.EACCES))
	assert.Equal(t, []string{"/", "/work"}, fs.Chdirs, "no parent fallback for a root")
}

func TestCanonicalize_GetwdFails(t *testing.T) {
	t.Parallel()

	fs := testutil.NewMockFilesystem()
	fs.FailGetwd(syscall.ENOENT)

	_, err := newPosixCanonicalizer(fs).Canonicalize("/a")
	require.Error(t, err)
	assert.True(t, fspath.IsFatal(err))
	assert.Empty(t, fs.Chdirs)
}

func TestCanonicalize_RestoreFails(t *testing.T) {
	t.Parallel()

	fs := testutil.NewMockFilesystem()
	fs.AddDir("/a")
	fs.AddDir("/work")
	fs.SetWorkingDir("/work")
	fs.FailChdir("/work", syscall.EIO)

	_, err := newPosixCanonicalizer(fs).Canonicalize("/a")
	require.Error(t, err)
	assert.True(t, fspath.IsFatal(err))
	assert.True(t, errors.Is(err, syscall.EIO))
}

func TestCanonicalize_RestoresAfterEveryAttempt(t *testing.T) {
	t.Parallel()

	fs := testutil.NewMockFilesystem()
	fs.AddDir("/a")
	fs.AddDir("/work")
	fs.SetWorkingDir("/work")

	_, err := newPosixCanonicalizer(fs).Canonicalize("/a/new")
	require.NoError(t, err)
	assert.Equal(t, []string{"/a/new", "/work", "/a", "/work"}, fs.Chdirs)
}

func TestCanonicalize_Windows(t *testing.T) {
	t.Parallel()

	backslashes := func(cwd string) string { return strings.ReplaceAll(cwd, "/", `\`) }

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"existing", `C:\work\sub`, "C:/work/sub"},
		{"missing leaf", `C:\work\new`, "C:/work/new"},
		{"relative", `sub`, "C:/work/sub"},
		{"drive root", `C:`, "C:/"},
		{"extended prefix", `\\?\C:\work\new`, "C:/work/new"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := testutil.NewMockFilesystem()
			fs.AddDir("C:/work/sub")
			fs.SetWorkingDir("C:/work")
			fs.RewriteGetwd(backslashes)

			c := fspath.NewCanonicalizer(windowsSpace(), fs, nil)
			got, err := c.Canonicalize(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
			assert.Equal(t, "C:/work", fs.WorkingDir())
		})
	}
}

func TestCanonicalize_WindowsFatal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"drive root", `D:`},
		{"unc root", `\\server\share`},
		{"malformed extended prefix", `\\?\`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := testutil.NewMockFilesystem()
			fs.AddDir("C:/work")
			fs.SetWorkingDir("C:/work")
			fs.FailChdir(tt.raw, syscall.ENOENT)

			c := fspath.NewCanonicalizer(windowsSpace(), fs, nil)
			_, err := c.Canonicalize(tt.raw)
			require.Error(t, err)
			assert.True(t, fspath.IsFatal(err), "got %v", err)
			assert.Equal(t, []string{tt.raw, "C:/work"}, fs.Chdirs)
		})
	}
}

func TestCanonicalize_Concurrent(t *testing.T) {
	t.Parallel()

	fs := testutil.NewMockFilesystem()
	fs.AddDir("/work")
	fs.SetWorkingDir("/work")
	for _, d := range []string{"/a", "/b", "/c", "/d"} {
		fs.AddDir(d)
	}
	c := newPosixCanonicalizer(fs)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		for _, d := range []string{"a", "b", "c", "d"} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got, err := c.Canonicalize("../" + d + "/leaf")
				if assert.NoError(t, err) {
					assert.Equal(t, "/"+d+"/leaf", got.String())
				}
			}()
		}
	}
	wg.Wait()
	assert.Equal(t, "/work", fs.WorkingDir())
}
