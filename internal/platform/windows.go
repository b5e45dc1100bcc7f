package platform

import "strings"

// ExtendedPrefix is the extended-length namespace prefix after separator
// normalization (`\\?\` on the wire).
const ExtendedPrefix = "//?/"

const uncKeyword = "UNC"

// Windows is the drive-letter/UNC family. Backslashes are accepted on input
// and rewritten to '/'.
//
// Recognized roots:
//
//	/                      current drive
//	C:/                    drive letter
//	//host/share/          UNC share
//	//?/C:/                extended-length drive
//	//?/UNC/host/share/    extended-length UNC share
type Windows struct{}

func (Windows) Name() string { return "windows" }

func (Windows) NormalizeSeparators(s string) string {
	return strings.ReplaceAll(s, `\`, "/")
}

func (Windows) IsRoot(s string) bool {
	if s == Root {
		return true
	}
	vol, complete := volume(s)
	return complete && s == vol+Root
}

func (Windows) IsAbs(s string) bool {
	if strings.HasPrefix(s, Root) {
		return true
	}
	return isDriveSpec(s) && len(s) > 2 && s[2] == Separator
}

func (Windows) IsMalformedExtendedPrefix(s string) bool {
	if s == strings.TrimSuffix(ExtendedPrefix, Root) {
		return true
	}
	if !strings.HasPrefix(s, ExtendedPrefix) {
		return false
	}
	_, complete := volume(s)
	return !complete
}

func (w Windows) FixRootForm(s string) string {
	if s == "" || strings.HasSuffix(s, Root) {
		return s
	}
	if w.IsRoot(s + Root) {
		return s + Root
	}
	return s
}

// Dir splits off the volume before taking the directory name, because the
// generic computation would treat "//?/C:" or "//host/share" as ordinary
// components and walk above the root.
func (Windows) Dir(s string) string {
	vol, _ := volume(s)
	rest := s[len(vol):]
	if vol == "" {
		return dirname(rest)
	}
	if rest == "" {
		return vol + Root
	}
	d := dirname(rest)
	if !strings.HasPrefix(d, Root) {
		return vol
	}
	return vol + d
}

func (Windows) Base(s string) string {
	vol, _ := volume(s)
	return basename(s[len(vol):])
}

func (w Windows) ExtendedLengthForm(s string) string {
	switch {
	case strings.HasPrefix(s, ExtendedPrefix):
		return s
	case isDriveSpec(s) && w.IsAbs(s):
		return ExtendedPrefix + s
	case strings.HasPrefix(s, "//"):
		if _, complete := volume(s); complete {
			return ExtendedPrefix + uncKeyword + Root + s[2:]
		}
	}
	return s
}

func (Windows) UnsafeRelativeLinks() bool { return true }

var _ Family = Windows{}

// volume returns the volume prefix of s ("C:", "//host/share", "//?/C:",
// "//?/UNC/host/share", "//?/Volume{...}") and whether every part the prefix
// syntax requires is present. It returns "" for paths without a volume.
func volume(s string) (string, bool) {
	switch {
	case strings.HasPrefix(s, ExtendedPrefix):
		rest := s[len(ExtendedPrefix):]
		if isDriveSpec(rest) {
			return s[:len(ExtendedPrefix)+2], true
		}
		if strings.EqualFold(rest, uncKeyword) || hasPrefixFold(rest, uncKeyword+Root) {
			n, ok := hostShare(s, len(ExtendedPrefix)+len(uncKeyword)+1)
			return s[:n], ok
		}
		end := segmentEnd(s, len(ExtendedPrefix))
		return s[:end], end > len(ExtendedPrefix)
	case isDriveSpec(s):
		return s[:2], true
	case strings.HasPrefix(s, "//"):
		n, ok := hostShare(s, 2)
		return s[:n], ok
	}
	return "", false
}

// hostShare scans "host/share" starting at index start and returns the index
// just past the share name.
func hostShare(s string, start int) (int, bool) {
	if start > len(s) {
		return len(s), false
	}
	h := segmentEnd(s, start)
	if h == start || h == len(s) {
		return h, false
	}
	e := segmentEnd(s, h+1)
	return e, e > h+1
}

func segmentEnd(s string, i int) int {
	j := strings.IndexByte(s[i:], Separator)
	if j < 0 {
		return len(s)
	}
	return i + j
}

func isDriveSpec(s string) bool {
	if len(s) < 2 || s[1] != ':' {
		return false
	}
	c := s[0]
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
