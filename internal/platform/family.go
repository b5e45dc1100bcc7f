// Package platform recognizes root directories and platform-specific path
// prefixes for the two path conventions the synchronizer supports: POSIX and
// the drive-letter/UNC family.
//
// All strings handled here use '/' as the only separator. Input coming from
// the operating system is converted with NormalizeSeparators first.
package platform

import (
	"runtime"
	"strings"

	platformerrors "github.com/jmgilman/go/errors"
)

// Separator is the canonical separator of every normalized path.
const Separator = '/'

// Root is the single-separator root string shared by both families.
const Root = "/"

// Family is a path-convention strategy. One Family is selected at startup and
// passed to everything that builds or inspects paths.
type Family interface {
	// Name returns the configuration name of the family ("posix" or "windows").
	Name() string

	// NormalizeSeparators replaces alternate separators with Separator.
	NormalizeSeparators(s string) string

	// IsRoot reports whether s is a recognized root directory form.
	// Root forms always end with a separator.
	IsRoot(s string) bool

	// IsAbs reports whether s is absolute under this family.
	IsAbs(s string) bool

	// IsMalformedExtendedPrefix reports whether s starts with the
	// extended-length prefix but lacks the segment that must follow it.
	IsMalformedExtendedPrefix(s string) bool

	// FixRootForm appends a separator when doing so turns s into a root.
	FixRootForm(s string) string

	// Dir returns the parent directory of s, keeping volume and
	// extended-length prefixes intact. It does not resolve "..".
	Dir(s string) string

	// Base returns the last component of s, or "" when s is a root.
	Base(s string) string

	// ExtendedLengthForm opts s into long-path handling. Values already in
	// that form are returned unchanged.
	ExtendedLengthForm(s string) string

	// UnsafeRelativeLinks reports whether a relative link target joined to
	// its directory must be canonicalized before being handed to the OS.
	UnsafeRelativeLinks() bool
}

// Native returns the family of the running operating system.
func Native() Family {
	if runtime.GOOS == "windows" {
		return Windows{}
	}
	return Posix{}
}

// ByName returns the family configured by name. "auto" and "" select Native.
func ByName(name string) (Family, error) {
	switch strings.ToLower(name) {
	case "", "auto":
		return Native(), nil
	case "posix":
		return Posix{}, nil
	case "windows":
		return Windows{}, nil
	default:
		return nil, platformerrors.Newf(platformerrors.CodeInvalidConfig, "unknown platform family: %s", name)
	}
}

// StripTrailingSeparators removes trailing separators from s. If nothing is
// left, Root is returned.
func StripTrailingSeparators(s string) string {
	stripped := strings.TrimRight(s, Root)
	if stripped == "" {
		return Root
	}
	return stripped
}

// dirname returns everything before the last component of s. Unlike path.Dir
// it leaves "." and ".." components alone, so the result can still be handed
// to chdir when intermediate components are symbolic links.
func dirname(s string) string {
	end := len(strings.TrimRight(s, Root))
	if end == 0 {
		if s == "" {
			return "."
		}
		return Root
	}
	i := strings.LastIndexByte(s[:end], Separator)
	if i < 0 {
		return "."
	}
	d := strings.TrimRight(s[:i], Root)
	if d == "" {
		return Root
	}
	return d
}

// basename returns the last component of s, ignoring trailing separators.
func basename(s string) string {
	end := len(strings.TrimRight(s, Root))
	if end == 0 {
		return ""
	}
	return s[strings.LastIndexByte(s[:end], Separator)+1 : end]
}
