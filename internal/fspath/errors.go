package fspath

import (
	platformerrors "github.com/jmgilman/go/errors"
)

// Error codes specific to path handling. Argument errors use
// platformerrors.CodeInvalidInput.
const (
	// CodeInvalidPath marks a string that cannot be turned into a Path.
	CodeInvalidPath platformerrors.ErrorCode = "INVALID_PATH"

	// CodeCanonicalizeFailed marks a path whose target and parent directory
	// could not be entered.
	CodeCanonicalizeFailed platformerrors.ErrorCode = "CANONICALIZE_FAILED"

	// CodeLinkResolution marks a symbolic link walk that could not produce a
	// parent and leaf pair. It is retryable.
	CodeLinkResolution platformerrors.ErrorCode = "LINK_RESOLUTION_FAILED"
)

func invalidPath(raw, reason string) error {
	err := platformerrors.Newf(CodeInvalidPath, "invalid path %q: %s", raw, reason)
	return platformerrors.WithContext(err, "path", raw)
}

func invalidArgument(op string, p Path) error {
	err := platformerrors.Newf(platformerrors.CodeInvalidInput, "%s: %s is a root directory", op, p)
	return platformerrors.WithContext(err, "path", p.String())
}

// canonicalizeFailed reports a target that could not be entered, along with
// the parent directory that could not be entered either.
func canonicalizeFailed(target string, targetErr error, parent string, parentErr error) error {
	err := platformerrors.Wrapf(parentErr, CodeCanonicalizeFailed,
		"cannot canonicalize %q (%v); parent directory %q is not accessible", target, targetErr, parent)
	return platformerrors.WithContextMap(err, map[string]interface{}{
		"target":       target,
		"target_error": targetErr.Error(),
		"parent":       parent,
		"parent_error": parentErr.Error(),
	})
}

// unenterable reports a target that must always be enterable: a root or a
// malformed extended-length prefix.
func unenterable(target, reason string, cause error) error {
	err := platformerrors.Wrapf(cause, CodeCanonicalizeFailed, "cannot enter %q: %s", target, reason)
	return platformerrors.WithContext(err, "target", target)
}

func transient(reason, path string) error {
	err := platformerrors.Newf(CodeLinkResolution, "%s: %s", reason, path)
	err = platformerrors.WithContext(err, "path", path)
	return platformerrors.WithClassification(err, platformerrors.ClassificationRetryable)
}

// IsInvalidPath reports whether err is a path construction failure.
func IsInvalidPath(err error) bool {
	return platformerrors.GetCode(err) == CodeInvalidPath
}

// IsInvalidArgument reports whether err is an operation refused for its
// argument, such as deriving a side-car path from a root.
func IsInvalidArgument(err error) bool {
	return platformerrors.GetCode(err) == platformerrors.CodeInvalidInput
}

// IsFatal reports whether err is a canonicalization failure.
func IsFatal(err error) bool {
	return platformerrors.GetCode(err) == CodeCanonicalizeFailed
}

// IsTransient reports whether err is a link resolution failure that may
// succeed once the filesystem changes.
func IsTransient(err error) bool {
	return platformerrors.GetCode(err) == CodeLinkResolution
}
