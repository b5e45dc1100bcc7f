package fspath

import (
	"fmt"
	"strings"

	"syncpath/internal/platform"
)

// DefaultMaxLinks bounds the number of symbolic links followed by a Resolver.
const DefaultMaxLinks = 100

// Resolver follows symbolic links to find the real parent directory and leaf
// name of a path.
type Resolver struct {
	space    *Space
	canon    *Canonicalizer
	links    LinkReader
	logger   Logger
	maxLinks int
	physical bool
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithMaxLinks sets the number of links followed before resolution fails.
// Values below 1 are ignored.
func WithMaxLinks(n int) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.maxLinks = n
		}
	}
}

// WithPhysicalParent makes the resolver canonicalize the parent directory of
// the real path, so links in intermediate components are resolved as well.
func WithPhysicalParent() ResolverOption {
	return func(r *Resolver) {
		r.physical = true
	}
}

// NewResolver returns a Resolver reading links through links. Relative link
// targets are re-canonicalized with canon on families where joining them is
// unsafe.
func NewResolver(canon *Canonicalizer, links LinkReader, logger Logger, opts ...ResolverOption) *Resolver {
	if logger == nil {
		logger = NewNopLogger()
	}
	r := &Resolver{
		space:    canon.Space(),
		canon:    canon,
		links:    links,
		logger:   logger,
		maxLinks: DefaultMaxLinks,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FindWorkingDir joins base and rel and returns the real parent directory and
// leaf name of the result. With follow set, symbolic links at the path are
// followed until a non-link is reached; otherwise the joined path is split
// as is.
//
// It fails with a transient error when more than the configured number of
// links are followed or when the real path is a root directory.
func (r *Resolver) FindWorkingDir(base Path, rel RelPath, follow bool) (Location, error) {
	abspath := r.space.Concat(base, rel)

	real := abspath.s
	if follow {
		var err error
		real, err = r.realPath(abspath)
		if err != nil {
			return Location{}, err
		}
	}

	family := r.space.family
	stripped := platform.StripTrailingSeparators(real)
	if family.IsRoot(family.FixRootForm(stripped)) {
		return Location{}, transient("path is a root directory", real)
	}

	dirRaw := family.Dir(stripped)
	var dir Path
	var err error
	if r.physical {
		dir, err = r.canon.Canonicalize(dirRaw)
	} else {
		dir, err = r.space.FromRaw(dirRaw)
	}
	if err != nil {
		return Location{}, fmt.Errorf("resolving parent of %q: %w", real, err)
	}

	loc := Location{Dir: dir, Name: family.Base(stripped)}
	r.logger.Debug("found working directory", "path", abspath.s, "dir", loc.Dir.s, "name", loc.Name)
	return loc, nil
}

// realPath follows links starting at p. Only the first candidate is put in
// extended-length form; later candidates come from link targets.
func (r *Resolver) realPath(p Path) (string, error) {
	current := r.space.family.ExtendedLengthForm(p.s)
	for n := 0; ; n++ {
		if n >= r.maxLinks {
			return "", transient("too many symbolic links", p.s)
		}
		h, err := r.step(current)
		if err != nil {
			return "", err
		}
		if h.stop {
			return current, nil
		}
		r.logger.Debug("followed link", "from", current, "to", h.next)
		current = h.next
	}
}

// hop is the outcome of reading one link: either the next candidate or the
// signal that current is the real path.
type hop struct {
	next string
	stop bool
}

// step reads the link at p. Any read failure ends the walk; it is not an
// error.
func (r *Resolver) step(p string) (hop, error) {
	link, err := r.links.Readlink(p)
	if err != nil {
		return hop{stop: true}, nil
	}

	family := r.space.family
	link = family.NormalizeSeparators(link)
	if family.IsAbs(link) {
		return hop{next: link}, nil
	}

	joined := joinRaw(family.Dir(p), link)
	if family.UnsafeRelativeLinks() {
		canon, err := r.canon.Canonicalize(joined)
		if err != nil {
			return hop{}, fmt.Errorf("canonicalizing target %q of link %q: %w", link, p, err)
		}
		joined = family.ExtendedLengthForm(canon.s)
	}
	return hop{next: joined}, nil
}

func joinRaw(dir, name string) string {
	if strings.HasSuffix(dir, platform.Root) {
		return dir + name
	}
	return dir + platform.Root + name
}
