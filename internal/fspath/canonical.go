package fspath

import (
	"sync"

	platformerrors "github.com/jmgilman/go/errors"

	"syncpath/internal/platform"
)

// Canonicalizer computes the canonical absolute form of a path by entering it
// through a Navigator and reading back the working directory.
//
// The working directory is process-wide state. Canonicalize restores it on
// every return path and serializes its own calls; other code changing the
// working directory concurrently must share the same Canonicalizer.
type Canonicalizer struct {
	space  *Space
	nav    Navigator
	logger Logger

	mu sync.Mutex
}

// NewCanonicalizer returns a Canonicalizer for paths of space.
func NewCanonicalizer(space *Space, nav Navigator, logger Logger) *Canonicalizer {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &Canonicalizer{space: space, nav: nav, logger: logger}
}

// Space returns the Space canonical paths are built in.
func (c *Canonicalizer) Space() *Space {
	return c.space
}

// Canonicalize returns the canonical absolute form of raw, which may be
// relative to the working directory. The empty string means ".".
//
// When raw cannot be entered (it does not exist yet, is a file, or is not
// accessible) its parent directory is entered instead and the leaf name of
// raw is appended to the parent's canonical form. Canonicalize fails with a
// fatal error when the parent cannot be entered either, and immediately when
// raw is a root directory or carries a malformed extended-length prefix.
func (c *Canonicalizer) Canonicalize(raw string) (result Path, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	target := raw
	if target == "" {
		target = "."
	}

	original, err := c.nav.Getwd()
	if err != nil {
		return Path{}, platformerrors.Wrap(err, CodeCanonicalizeFailed, "reading working directory")
	}
	defer func() {
		if rerr := c.nav.Chdir(original); rerr != nil {
			c.logger.Error("failed to restore working directory", "dir", original, "error", rerr)
			if err == nil {
				result = Path{}
				err = platformerrors.Wrapf(rerr, CodeCanonicalizeFailed, "restoring working directory %q", original)
			}
		}
	}()

	entered, targetErr := c.enter(target)
	if targetErr == nil {
		c.logger.Debug("canonicalized", "target", target, "path", entered)
		return c.space.FromRaw(entered)
	}

	family := c.space.family
	norm := family.FixRootForm(family.NormalizeSeparators(target))
	if family.IsRoot(norm) {
		return Path{}, unenterable(target, "root directory is not accessible", targetErr)
	}
	if family.IsMalformedExtendedPrefix(norm) {
		return Path{}, unenterable(target, "malformed extended-length prefix", targetErr)
	}

	stripped := platform.StripTrailingSeparators(norm)
	parent := family.Dir(stripped)
	leaf := family.Base(stripped)
	c.logger.Debug("target not accessible, trying parent",
		"target", target, "parent", parent, "error", targetErr)

	if err := c.nav.Chdir(original); err != nil {
		return Path{}, platformerrors.Wrapf(err, CodeCanonicalizeFailed, "restoring working directory %q", original)
	}
	enteredParent, parentErr := c.enter(parent)
	if parentErr != nil {
		return Path{}, canonicalizeFailed(target, targetErr, parent, parentErr)
	}
	parentPath, err := c.space.FromRaw(enteredParent)
	if err != nil {
		return Path{}, err
	}

	switch leaf {
	case "", ".":
		return parentPath, nil
	case "..":
		return c.space.Parent(parentPath), nil
	default:
		return c.space.appendTail(parentPath, leaf), nil
	}
}

// enter changes into dir and reads back where that led.
func (c *Canonicalizer) enter(dir string) (string, error) {
	if err := c.nav.Chdir(dir); err != nil {
		return "", err
	}
	return c.nav.Getwd()
}
