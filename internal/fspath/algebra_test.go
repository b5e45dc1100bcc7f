package fspath_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"syncpath/internal/fspath"
)

func mustName(t *testing.T, s string) fspath.Name {
	t.Helper()
	n, err := fspath.NewName(s)
	require.NoError(t, err)
	return n
}

func mustRel(t *testing.T, s string) fspath.RelPath {
	t.Helper()
	r, err := fspath.ParseRelPath(s)
	require.NoError(t, err)
	return r
}

func TestChild(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		space *fspath.Space
		dir   string
		child string
		want  string
	}{
		{"posix root", posixSpace(), "/", "a", "/a"},
		{"posix dir", posixSpace(), "/a/b", "c", "/a/b/c"},
		{"drive root", windowsSpace(), "C:/", "x", "C:/x"},
		{"unc root", windowsSpace(), "//h/s/", "x", "//h/s/x"},
		{"extended root", windowsSpace(), "//?/C:/", "x", "//?/C:/x"},
		{"drive dir", windowsSpace(), "C:/x", "y", "C:/x/y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.space.Child(mustPath(t, tt.space, tt.dir), mustName(t, tt.child))
			assert.Equal(t, tt.want, got.String())
			assert.False(t, tt.space.IsRoot(got))
			assert.False(t, strings.HasSuffix(got.String(), "/"))
		})
	}
}

func TestConcat(t *testing.T) {
	t.Parallel()

	s := posixSpace()
	dirs := []fspath.Path{s.Root(), mustPath(t, s, "/a"), mustPath(t, s, "/a/b")}

	for _, dir := range dirs {
		assert.Equal(t, dir, s.Concat(dir, fspath.RelPath{}), "concat with empty is the identity")
	}

	assert.Equal(t, "/x/y", s.Concat(s.Root(), mustRel(t, "x/y")).String())
	assert.Equal(t, "/a/x/y/z", s.Concat(mustPath(t, s, "/a"), mustRel(t, "x/y/z")).String())

	w := windowsSpace()
	assert.Equal(t, "C:/x/y", w.Concat(mustPath(t, w, "C:/"), mustRel(t, "x/y")).String())
}

func TestConcat_MatchesRepeatedChild(t *testing.T) {
	t.Parallel()

	s := posixSpace()
	rel := fspath.NewRelPath(mustName(t, "one"), mustName(t, "two"), mustName(t, "three"))
	for _, dir := range []fspath.Path{s.Root(), mustPath(t, s, "/base")} {
		want := dir
		for _, n := range rel.Names() {
			want = s.Child(want, n)
		}
		assert.Equal(t, want, s.Concat(dir, rel))
	}
}

func TestDifferentSuffix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		a, b  string
		wantA string
		wantB string
	}{
		{"sibling dirs", "/home/u/a/x", "/home/u/b/x", "a/x", "b/x"},
		{"different leaf", "/data/one", "/data/two", "one", "two"},
		{"shared leaf suffix", "/x/foo", "/y/zfoo", "foo", "zfoo"},
		{"identical", "/a/b", "/a/b", "/a/b", "/a/b"},
		{"one is a suffix of the other", "/b", "/a/b", "/b", "a/b"},
		{"root left", "/", "/a", "/", "/a"},
		{"root right", "/a/b", "/", "/a/b", "/"},
	}
	s := posixSpace()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotA, gotB := s.DifferentSuffix(mustPath(t, s, tt.a), mustPath(t, s, tt.b))
			assert.Equal(t, tt.wantA, gotA)
			assert.Equal(t, tt.wantB, gotB)
		})
	}
}

func TestDifferentSuffix_Properties(t *testing.T) {
	t.Parallel()

	s := posixSpace()
	raws := []string{
		"/", "/a", "/b", "/a/b", "/b/b", "/a/b/c", "/x/a/b/c",
		"/home/user/docs/report.txt", "/home/other/docs/report.txt", "/report.txt",
	}
	for _, ra := range raws {
		for _, rb := range raws {
			a, b := mustPath(t, s, ra), mustPath(t, s, rb)
			sa, sb := s.DifferentSuffix(a, b)
			assert.True(t, strings.HasSuffix(a.String(), sa), "%q is not a suffix of %q", sa, a)
			assert.True(t, strings.HasSuffix(b.String(), sb), "%q is not a suffix of %q", sb, b)
			assert.NotEmpty(t, sa)
			assert.NotEmpty(t, sb)

			swappedB, swappedA := s.DifferentSuffix(b, a)
			assert.Equal(t, sa, swappedA, "symmetry for %q %q", a, b)
			assert.Equal(t, sb, swappedB, "symmetry for %q %q", a, b)
		}
	}
}

func TestShadowSibling(t *testing.T) {
	t.Parallel()

	s := posixSpace()
	got, err := s.ShadowSibling(mustPath(t, s, "/a/b/c"))
	require.NoError(t, err)
	assert.Equal(t, "/a/b/._c", got.String())
	assert.Equal(t, "/a/b", s.Parent(got).String())
	assert.Equal(t, "._c", s.Base(got))

	got, err = s.ShadowSibling(mustPath(t, s, "/top"))
	require.NoError(t, err)
	assert.Equal(t, "/._top", got.String())

	w := windowsSpace()
	got, err = w.ShadowSibling(mustPath(t, w, "C:/dir/file"))
	require.NoError(t, err)
	assert.Equal(t, "C:/dir/._file", got.String())
}

func TestResourceFork(t *testing.T) {
	t.Parallel()

	s := posixSpace()
	got, err := s.ResourceFork(mustPath(t, s, "/a/b"))
	require.NoError(t, err)
	assert.Equal(t, "/a/b/..namedfork/rsrc", got.String())
	assert.False(t, s.IsRoot(got))
}

func TestSiblings_RejectRoots(t *testing.T) {
	t.Parallel()

	roots := map[*fspath.Space][]string{
		posixSpace():   {"/"},
		windowsSpace(): {"/", "C:/", "//h/s/", "//?/C:/"},
	}
	for s, raws := range roots {
		for _, raw := range raws {
			p := mustPath(t, s, raw)

			_, err := s.ShadowSibling(p)
			require.Error(t, err)
			assert.True(t, fspath.IsInvalidArgument(err), "shadow of %q: %v", raw, err)

			_, err = s.ResourceFork(p)
			require.Error(t, err)
			assert.True(t, fspath.IsInvalidArgument(err), "fork of %q: %v", raw, err)
		}
	}
}
