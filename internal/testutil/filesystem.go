package testutil

import (
	"io/fs"
	"strings"
	"sync"
	"syscall"

	"syncpath/internal/fspath"
)

const maxMockLinkDepth = 40

type mockKind int

const (
	mockDir mockKind = iota
	mockFile
	mockLink
)

type mockEntry struct {
	kind   mockKind
	target string
}

// MockFilesystem is an in-memory directory tree with symbolic links and a
// working directory. Paths may be rooted at "/" or at a drive such as "C:/";
// backslashes count as separators and an extended-length prefix ("//?/") is
// ignored. Safe for concurrent use.
type MockFilesystem struct {
	mu      sync.Mutex
	entries map[string]*mockEntry
	cwd     string

	chdirErrs map[string]error
	getwdErr  error
	getwdFunc func(cwd string) string

	// Chdirs records every argument passed to Chdir, in order.
	Chdirs []string
}

// NewMockFilesystem creates a tree containing only "/" with "/" as the
// working directory.
func NewMockFilesystem() *MockFilesystem {
	return &MockFilesystem{
		entries:   map[string]*mockEntry{"/": {kind: mockDir}},
		cwd:       "/",
		chdirErrs: make(map[string]error),
	}
}

// AddDir adds a directory and any missing parents.
func (m *MockFilesystem) AddDir(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addParents(path)
	m.entries[mockClean(path)] = &mockEntry{kind: mockDir}
}

// AddFile adds a regular file and any missing parent directories.
func (m *MockFilesystem) AddFile(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addParents(path)
	m.entries[mockClean(path)] = &mockEntry{kind: mockFile}
}

// AddLink adds a symbolic link at path pointing to target. The target is
// stored verbatim and may be relative or dangling.
func (m *MockFilesystem) AddLink(path, target string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addParents(path)
	m.entries[mockClean(path)] = &mockEntry{kind: mockLink, target: target}
}

// SetWorkingDir sets the working directory without validation.
func (m *MockFilesystem) SetWorkingDir(dir string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cwd = mockClean(dir)
}

// WorkingDir returns the current working directory.
func (m *MockFilesystem) WorkingDir() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cwd
}

// FailChdir makes Chdir(dir) fail with err, matched on the exact argument.
func (m *MockFilesystem) FailChdir(dir string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chdirErrs[dir] = err
}

// FailGetwd makes every Getwd call fail with err.
func (m *MockFilesystem) FailGetwd(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getwdErr = err
}

// RewriteGetwd transforms what Getwd reports, for example to return
// backslash-separated paths.
func (m *MockFilesystem) RewriteGetwd(fn func(cwd string) string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getwdFunc = fn
}

func (m *MockFilesystem) Getwd() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getwdErr != nil {
		return "", m.getwdErr
	}
	if m.getwdFunc != nil {
		return m.getwdFunc(m.cwd), nil
	}
	return m.cwd, nil
}

func (m *MockFilesystem) Chdir(dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Chdirs = append(m.Chdirs, dir)
	if err, ok := m.chdirErrs[dir]; ok {
		return &fs.PathError{Op: "chdir", Path: dir, Err: err}
	}
	phys, err := m.resolve(dir, true)
	if err != nil {
		return &fs.PathError{Op: "chdir", Path: dir, Err: err}
	}
	e, ok := m.entries[phys]
	if !ok {
		return &fs.PathError{Op: "chdir", Path: dir, Err: syscall.ENOENT}
	}
	if e.kind != mockDir {
		return &fs.PathError{Op: "chdir", Path: dir, Err: syscall.ENOTDIR}
	}
	m.cwd = phys
	return nil
}

func (m *MockFilesystem) Readlink(name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	phys, err := m.resolve(name, false)
	if err != nil {
		return "", &fs.PathError{Op: "readlink", Path: name, Err: err}
	}
	e, ok := m.entries[phys]
	if !ok || e.kind != mockLink {
		return "", &fs.PathError{Op: "readlink", Path: name, Err: syscall.EINVAL}
	}
	return e.target, nil
}

// resolve walks name component by component from its root (or the working
// directory), following links in every component except possibly the last.
func (m *MockFilesystem) resolve(name string, followLast bool) (string, error) {
	return m.walk(name, followLast, 0)
}

func (m *MockFilesystem) walk(name string, followLast bool, depth int) (string, error) {
	if name == "" {
		return "", syscall.ENOENT
	}
	root, rest := mockSplitRoot(name)
	current := root
	if root == "" {
		current = m.cwd
	}
	parts := strings.Split(rest, "/")
	for i, part := range parts {
		last := i == len(parts)-1
		switch part {
		case "", ".":
			continue
		case "..":
			current = mockParent(current)
			continue
		}
		next := mockJoin(current, part)
		e, ok := m.entries[next]
		if !ok {
			return "", syscall.ENOENT
		}
		switch {
		case e.kind == mockLink && (!last || followLast):
			if depth >= maxMockLinkDepth {
				return "", syscall.ELOOP
			}
			target := e.target
			if r, _ := mockSplitRoot(target); r == "" {
				target = mockJoin(current, target)
			}
			resolved, err := m.walk(target, true, depth+1)
			if err != nil {
				return "", err
			}
			next = resolved
		case e.kind == mockFile && !last:
			return "", syscall.ENOTDIR
		}
		current = next
	}
	return current, nil
}

func (m *MockFilesystem) addParents(path string) {
	p := mockParent(mockClean(path))
	for {
		if _, ok := m.entries[p]; !ok {
			m.entries[p] = &mockEntry{kind: mockDir}
		}
		parent := mockParent(p)
		if parent == p {
			return
		}
		p = parent
	}
}

// mockSplitRoot returns the root of name ("/", "C:/" or "" when relative)
// and the remainder.
func mockSplitRoot(name string) (string, string) {
	name = strings.TrimPrefix(strings.ReplaceAll(name, `\`, "/"), "//?/")
	switch {
	case strings.HasPrefix(name, "/"):
		return "/", name[1:]
	case len(name) >= 3 && name[1] == ':' && name[2] == '/':
		return name[:3], name[3:]
	case len(name) == 2 && name[1] == ':':
		return name + "/", ""
	}
	return "", name
}

func mockClean(name string) string {
	root, rest := mockSplitRoot(name)
	current := root
	for _, part := range strings.Split(rest, "/") {
		if part != "" && part != "." {
			current = mockJoin(current, part)
		}
	}
	return current
}

func mockJoin(dir, name string) string {
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + "/" + name
}

func mockParent(p string) string {
	root, rest := mockSplitRoot(p)
	i := strings.LastIndexByte(rest, '/')
	if i < 0 {
		return root
	}
	return root + rest[:i]
}

// Compile-time check
var _ fspath.Filesystem = (*MockFilesystem)(nil)
