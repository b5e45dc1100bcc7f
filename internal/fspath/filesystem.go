package fspath

// Navigator is the process working-directory capability. Implementations
// accept and return '/'-separated strings; relative arguments are resolved
// against the current working directory.
type Navigator interface {
	// Getwd returns the absolute current working directory.
	Getwd() (string, error)

	// Chdir makes dir the current working directory. It fails when dir does
	// not exist, is not a directory, or cannot be entered.
	Chdir(dir string) error
}

// LinkReader reads symbolic links.
type LinkReader interface {
	// Readlink returns the target of the symbolic link name. It fails when
	// name is not a symbolic link.
	Readlink(name string) (string, error)
}

// Filesystem is everything the canonicalizer and resolver need from the
// operating system.
type Filesystem interface {
	Navigator
	LinkReader
}
