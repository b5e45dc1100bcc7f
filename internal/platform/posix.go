package platform

import "strings"

// Posix is the single-separator family used on Unix-like systems.
type Posix struct{}

func (Posix) Name() string { return "posix" }

func (Posix) NormalizeSeparators(s string) string { return s }

func (Posix) IsRoot(s string) bool { return s == Root }

func (Posix) IsAbs(s string) bool { return strings.HasPrefix(s, Root) }

func (Posix) IsMalformedExtendedPrefix(string) bool { return false }

// FixRootForm is the identity: the only root is "/" and stripping never
// produces a string that needs a separator appended.
func (Posix) FixRootForm(s string) string { return s }

func (Posix) Dir(s string) string { return dirname(s) }

func (Posix) Base(s string) string { return basename(s) }

func (Posix) ExtendedLengthForm(s string) string { return s }

func (Posix) UnsafeRelativeLinks() bool { return false }

var _ Family = Posix{}
