package fspath

import (
	"strings"

	"syncpath/internal/platform"
)

// Space builds and inspects Paths under one platform family. It is the only
// constructor of Path values.
type Space struct {
	family platform.Family
}

// NewSpace returns a Space using the given family.
func NewSpace(family platform.Family) *Space {
	return &Space{family: family}
}

// Family returns the platform family of s.
func (s *Space) Family() platform.Family {
	return s.family
}

// Root returns the canonical root directory.
func (s *Space) Root() Path {
	return Path{s: platform.Root}
}

// FromRaw converts a raw string into a Path without touching the filesystem.
// Separators are normalized and trailing separators stripped from non-root
// paths. It fails with an InvalidPath error when raw is empty, carries a
// malformed extended-length prefix, or is not absolute.
func (s *Space) FromRaw(raw string) (Path, error) {
	if raw == "" {
		return Path{}, invalidPath(raw, "empty path")
	}
	norm := s.family.FixRootForm(s.family.NormalizeSeparators(raw))
	if s.family.IsMalformedExtendedPrefix(norm) {
		return Path{}, invalidPath(raw, "extended-length prefix without a following segment")
	}
	if s.family.IsRoot(norm) {
		return Path{s: norm}, nil
	}
	stripped := strings.TrimRight(norm, platform.Root)
	if stripped == "" {
		return s.Root(), nil
	}
	// "C:///" strips to "C:", which is a root once its separator is back.
	if fixed := s.family.FixRootForm(stripped); s.family.IsRoot(fixed) {
		return Path{s: fixed}, nil
	}
	if s.family.IsMalformedExtendedPrefix(stripped) {
		return Path{}, invalidPath(raw, "extended-length prefix without a following segment")
	}
	if !s.family.IsAbs(stripped) {
		return Path{}, invalidPath(raw, "path is not absolute")
	}
	return Path{s: stripped}, nil
}

// IsRoot reports whether p names a root directory.
func (s *Space) IsRoot(p Path) bool {
	return s.family.IsRoot(p.s)
}

// Parent returns the directory containing p. A root is its own parent.
func (s *Space) Parent(p Path) Path {
	if s.IsRoot(p) {
		return p
	}
	return s.wrap(s.family.Dir(p.s))
}

// Base returns the leaf component of p, or "" for a root.
func (s *Space) Base(p Path) string {
	if s.IsRoot(p) {
		return ""
	}
	return s.family.Base(p.s)
}

// wrap normalizes a string derived from an existing valid Path. Such strings
// are absolute and non-empty, so none of the FromRaw failure cases apply.
func (s *Space) wrap(derived string) Path {
	fixed := s.family.FixRootForm(derived)
	if s.family.IsRoot(fixed) {
		return Path{s: fixed}
	}
	return Path{s: platform.StripTrailingSeparators(fixed)}
}
