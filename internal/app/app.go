package app

import (
	"fmt"
	"os"
	"time"

	"syncpath/internal/config"
	"syncpath/internal/database"
	"syncpath/internal/fs"
	"syncpath/internal/fspath"
	"syncpath/internal/model"
	"syncpath/internal/platform"
)

// Journal records the operations run by the CLI.
type Journal interface {
	CreateOperation(runID, operation, parameters string, startedAt time.Time) (*model.Operation, error)
	FinishOperation(id int64, status, result string, finishedAt time.Time) error
	ListOperations(limit int) ([]*model.Operation, error)
	BackupTo(destPath string) error
	CheckMigrations() error
	Close() error
}

// Compile-time check
var _ Journal = (*database.SQLiteDatabase)(nil)

// App is the application layer between the CLI and the path packages.
// It constructs all dependencies from config, exposes operations that accept
// raw string arguments, and records each one in the journal.
type App struct {
	cfg      *config.Config
	journal  Journal
	space    *fspath.Space
	canon    *fspath.Canonicalizer
	logical  *fspath.Resolver
	physical *fspath.Resolver
	logger   fspath.Logger
	clock    Clock
	op       *Operation
	logFile  *os.File
}

// deps are the collaborators NewApp builds from config. Tests supply their own.
type deps struct {
	family  platform.Family
	fsys    fspath.Filesystem
	journal Journal
	logger  fspath.Logger
	clock   Clock
	runID   string
}

// NewApp creates a fully wired App from the given config.
// operation identifies the CLI command being run (e.g. "Canonicalize").
// The caller must call Close when done.
func NewApp(cfg *config.Config, operation string, verbose bool) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	family, err := platform.ByName(cfg.Platform)
	if err != nil {
		return nil, fmt.Errorf("selecting platform: %w", err)
	}
	if fs.IsVirtual(cfg.Filesystem) {
		if cfg.Platform == "windows" {
			return nil, fmt.Errorf("platform windows requires the os filesystem, got %s", cfg.Filesystem.Type)
		}
		family = platform.Posix{}
	}

	fsys, err := fs.NewFilesystemFromConfig(cfg.Filesystem)
	if err != nil {
		return nil, fmt.Errorf("creating filesystem: %w", err)
	}

	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}
	if err := db.CheckMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database schema out of date: %w", err)
	}

	runID := UUIDGenerator{}.New()
	logger, logFile, err := newLogger(cfg.LogDir, runID, verbose)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	a := newApp(cfg, operation, deps{
		family:  family,
		fsys:    fsys,
		journal: db,
		logger:  &slogAdapter{l: logger},
		clock:   RealClock{},
		runID:   runID,
	})
	a.logFile = logFile
	a.logger.Debug("app started", "operation", operation, "platform", family.Name(), "filesystem", cfg.Filesystem.Type)
	return a, nil
}

func newApp(cfg *config.Config, operation string, d deps) *App {
	space := fspath.NewSpace(d.family)
	canon := fspath.NewCanonicalizer(space, d.fsys, d.logger)
	return &App{
		cfg:      cfg,
		journal:  d.journal,
		space:    space,
		canon:    canon,
		logical:  fspath.NewResolver(canon, d.fsys, d.logger, fspath.WithMaxLinks(cfg.MaxSymlinks)),
		physical: fspath.NewResolver(canon, d.fsys, d.logger, fspath.WithMaxLinks(cfg.MaxSymlinks), fspath.WithPhysicalParent()),
		logger:   d.logger,
		clock:    d.clock,
		op:       NewOperation(d.runID, operation),
	}
}

// RunID returns the identifier shared by this run's journal row and log lines.
func (a *App) RunID() string {
	return a.op.RunID
}

// persistOperation saves the operation to the journal, giving it an
// auto-increment ID. Only the first call of a run has any effect.
func (a *App) persistOperation(parameters string) error {
	if a.op.Persisted() {
		return nil
	}
	a.op.Parameters = parameters
	dbOp, err := a.journal.CreateOperation(a.op.RunID, a.op.Operation, parameters, a.clock.Now())
	if err != nil {
		return fmt.Errorf("persisting operation: %w", err)
	}
	a.op.ID = dbOp.ID
	a.logger.Info("operation started", "operation", a.op.Operation, "parameters", parameters)
	return nil
}

// Canonicalize returns the canonical absolute form of raw, resolved against
// the filesystem's working directory.
func (a *App) Canonicalize(raw string) (fspath.Path, error) {
	if err := a.persistOperation(raw); err != nil {
		return fspath.Path{}, err
	}
	p, err := a.canon.Canonicalize(raw)
	if err != nil {
		err = fmt.Errorf("canonicalizing %q: %w", raw, err)
	}
	return p, a.op.Record(p.String(), err)
}

// Resolve canonicalizes base, appends rel and returns the real parent
// directory and leaf name. follow chases a trailing symbolic link; physical
// also resolves links among the parent's components.
func (a *App) Resolve(base, rel string, follow, physical bool) (fspath.Location, error) {
	if err := a.persistOperation(fmt.Sprintf("base=%s rel=%s follow=%t physical=%t", base, rel, follow, physical)); err != nil {
		return fspath.Location{}, err
	}
	loc, err := a.resolve(base, rel, follow, physical)
	return loc, a.op.Record(loc.String(), err)
}

func (a *App) resolve(base, rel string, follow, physical bool) (fspath.Location, error) {
	basePath, err := a.canon.Canonicalize(base)
	if err != nil {
		return fspath.Location{}, fmt.Errorf("canonicalizing base %q: %w", base, err)
	}
	relPath, err := fspath.ParseRelPath(rel)
	if err != nil {
		return fspath.Location{}, fmt.Errorf("parsing relative path: %w", err)
	}

	r := a.logical
	if physical {
		r = a.physical
	}
	loc, err := r.FindWorkingDir(basePath, relPath, follow)
	if err != nil {
		return fspath.Location{}, fmt.Errorf("resolving %s under %s: %w", rel, basePath, err)
	}
	return loc, nil
}

// DifferentSuffix returns the shortest trailing parts of two absolute paths
// that tell them apart.
func (a *App) DifferentSuffix(rawA, rawB string) (string, string, error) {
	if err := a.persistOperation(rawA + " " + rawB); err != nil {
		return "", "", err
	}
	sa, sb, err := a.differentSuffix(rawA, rawB)
	return sa, sb, a.op.Record(sa+" "+sb, err)
}

func (a *App) differentSuffix(rawA, rawB string) (string, string, error) {
	pa, err := a.space.FromRaw(rawA)
	if err != nil {
		return "", "", err
	}
	pb, err := a.space.FromRaw(rawB)
	if err != nil {
		return "", "", err
	}
	sa, sb := a.space.DifferentSuffix(pa, pb)
	return sa, sb, nil
}

// Shadow returns the "._" sibling of raw, or its resource fork path when
// fork is set.
func (a *App) Shadow(raw string, fork bool) (fspath.Path, error) {
	if err := a.persistOperation(fmt.Sprintf("path=%s fork=%t", raw, fork)); err != nil {
		return fspath.Path{}, err
	}
	p, err := a.shadow(raw, fork)
	return p, a.op.Record(p.String(), err)
}

func (a *App) shadow(raw string, fork bool) (fspath.Path, error) {
	p, err := a.space.FromRaw(raw)
	if err != nil {
		return fspath.Path{}, err
	}
	if fork {
		return a.space.ResourceFork(p)
	}
	return a.space.ShadowSibling(p)
}

// History returns the most recent journal entries. It is not itself recorded.
func (a *App) History(limit int) ([]*model.Operation, error) {
	return a.journal.ListOperations(limit)
}

// BackupJournal copies the journal to destPath.
func (a *App) BackupJournal(destPath string) error {
	return a.journal.BackupTo(destPath)
}

// Close finishes the journal entry for a recorded operation and closes all
// resources.
func (a *App) Close() error {
	var firstErr error

	if a.op.Persisted() {
		if err := a.journal.FinishOperation(a.op.ID, a.op.Status, a.op.Result, a.clock.Now()); err != nil {
			firstErr = fmt.Errorf("finishing operation: %w", err)
		}
		a.logger.Info("operation finished", "operation", a.op.Operation, "status", a.op.Status, "result", a.op.Result)
	}

	if err := a.journal.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
