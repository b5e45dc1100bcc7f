package fspath

import (
	"strings"

	platformerrors "github.com/jmgilman/go/errors"
)

// Name is a single validated path component.
type Name struct {
	s string
}

// NewName validates s as a path component. It rejects the empty string, "."
// and "..", and anything containing a separator or NUL byte.
func NewName(s string) (Name, error) {
	switch {
	case s == "":
		return Name{}, platformerrors.New(platformerrors.CodeInvalidInput, "empty name")
	case s == "." || s == "..":
		return Name{}, platformerrors.Newf(platformerrors.CodeInvalidInput, "reserved name %q", s)
	case strings.ContainsAny(s, "/\x00"):
		return Name{}, platformerrors.Newf(platformerrors.CodeInvalidInput, "name %q contains a separator or NUL byte", s)
	}
	return Name{s: s}, nil
}

func (n Name) String() string { return n.s }

// RelPath is a validated relative path: zero or more Names joined by '/'.
// The zero value is the empty relative path.
type RelPath struct {
	s string
}

// NewRelPath joins names into a relative path.
func NewRelPath(names ...Name) RelPath {
	var r RelPath
	for _, n := range names {
		r = r.Append(n)
	}
	return r
}

// ParseRelPath splits s on '/' and validates every component. The empty
// string yields the empty relative path.
func ParseRelPath(s string) (RelPath, error) {
	if s == "" {
		return RelPath{}, nil
	}
	var r RelPath
	for _, part := range strings.Split(s, "/") {
		n, err := NewName(part)
		if err != nil {
			return RelPath{}, platformerrors.Wrapf(err, platformerrors.CodeInvalidInput, "invalid relative path %q", s)
		}
		r = r.Append(n)
	}
	return r, nil
}

// Append returns r with n added as its last component.
func (r RelPath) Append(n Name) RelPath {
	if r.s == "" {
		return RelPath{s: n.s}
	}
	return RelPath{s: r.s + "/" + n.s}
}

// IsEmpty reports whether r has no components.
func (r RelPath) IsEmpty() bool { return r.s == "" }

func (r RelPath) String() string { return r.s }

// Names returns the components of r.
func (r RelPath) Names() []Name {
	if r.s == "" {
		return nil
	}
	parts := strings.Split(r.s, "/")
	names := make([]Name, len(parts))
	for i, p := range parts {
		names[i] = Name{s: p}
	}
	return names
}
