package fspath

import (
	"strings"

	"syncpath/internal/platform"
)

const (
	// shadowMarker decorates the leaf of a side-car file holding auxiliary
	// per-file metadata (AppleDouble convention).
	shadowMarker = "._"

	// resourceForkSuffix addresses the resource fork stream of a file.
	resourceForkSuffix = "/..namedfork/rsrc"
)

// Child returns dir with name appended as its last component.
func (s *Space) Child(dir Path, name Name) Path {
	return s.appendTail(dir, name.s)
}

// Concat returns dir with every component of rel appended. An empty rel
// returns dir unchanged.
func (s *Space) Concat(dir Path, rel RelPath) Path {
	if rel.IsEmpty() {
		return dir
	}
	return s.appendTail(dir, rel.s)
}

// appendTail joins a validated, separator-free-at-both-ends tail to dir.
// Roots already end in a separator, so none is inserted after them.
func (s *Space) appendTail(dir Path, tail string) Path {
	if s.IsRoot(dir) {
		return Path{s: dir.s + tail}
	}
	return Path{s: dir.s + string(platform.Separator) + tail}
}

// DifferentSuffix returns the shortest trailing components of a and b that
// tell them apart, for display. Roots are never abbreviated.
func (s *Space) DifferentSuffix(a, b Path) (string, string) {
	if s.IsRoot(a) || s.IsRoot(b) {
		return a.s, b.s
	}
	len1, len2 := len(a.s), len(b.s)
	// n is the 1-based offset from the right of the first differing byte.
	n := 1
	for {
		i1, i2 := len1-n, len2-n
		if i1 < 0 || i2 < 0 || a.s[i1] != b.s[i2] {
			break
		}
		n++
	}
	return suffixAfter(a.s, n), suffixAfter(b.s, n)
}

func suffixAfter(f string, n int) string {
	if n > len(f) {
		return f
	}
	i := strings.LastIndexByte(f[:len(f)-n+1], platform.Separator)
	if i < 0 {
		return f
	}
	return f[i+1:]
}

// ShadowSibling returns the side-car path that stores auxiliary metadata for
// p: the same directory, with the leaf prefixed by "._".
func (s *Space) ShadowSibling(p Path) (Path, error) {
	if s.IsRoot(p) {
		return Path{}, invalidArgument("shadow sibling", p)
	}
	i := strings.LastIndexByte(p.s, platform.Separator) + 1
	return Path{s: p.s[:i] + shadowMarker + p.s[i:]}, nil
}

// ResourceFork returns the path addressing the resource fork of p.
func (s *Space) ResourceFork(p Path) (Path, error) {
	if s.IsRoot(p) {
		return Path{}, invalidArgument("resource fork", p)
	}
	return Path{s: p.s + resourceForkSuffix}, nil
}
