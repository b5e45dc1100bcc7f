package fspath

import "strings"

// Path is a normalized absolute path. The zero value is not a valid path;
// values are obtained from a Space or a Canonicalizer.
type Path struct {
	s string
}

// String returns the normalized path.
func (p Path) String() string {
	return p.s
}

// IsZero reports whether p is the zero value.
func (p Path) IsZero() bool {
	return p.s == ""
}

// Compare orders paths byte-wise by their normalized form.
func (p Path) Compare(q Path) int {
	return strings.Compare(p.s, q.s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.s), nil
}

// Location is the real parent directory and real leaf name of a path after
// symbolic links have been followed.
type Location struct {
	Dir  Path
	Name string
}

// String joins Dir and Name for display.
func (l Location) String() string {
	if strings.HasSuffix(l.Dir.s, "/") {
		return l.Dir.s + l.Name
	}
	return l.Dir.s + "/" + l.Name
}
