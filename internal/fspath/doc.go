// Package fspath provides absolute filesystem paths that always satisfy the
// representation invariants a synchronizer relies on, together with the two
// procedures that produce trustworthy paths from untrusted input.
//
// # Invariants
//
// Every Path produced by a Space is non-empty, absolute, uses '/' as its only
// separator, ends with a separator if and only if it names a root directory,
// and never ends with a separator otherwise. Paths are immutable values; two
// paths are equal when their normalized strings are equal.
//
// # Producing paths
//
// Space.FromRaw normalizes a string without touching the filesystem.
// Canonicalizer.Canonicalize resolves a path relative to the working directory
// by entering it through a Navigator, falling back to its parent directory
// when the target does not exist yet. Resolver.FindWorkingDir follows symbolic
// links (bounded by a fixed number of hops) and returns the real parent
// directory and leaf name of a path.
//
// # Errors
//
// Failures carry codes from github.com/jmgilman/go/errors. Use IsInvalidPath,
// IsInvalidArgument, IsFatal and IsTransient to classify them; transient
// failures are marked retryable.
package fspath
