// Package paths decides where globmod keeps its on-disk cache for a
// project.
//
// The choice is a fixed policy evaluated once at plugin construction:
// when the project root contains the framework's build output
// directory, the cache nests under it; otherwise it falls back to the
// dependency directory's generic cache area. Both directory names are
// configurable rather than inferred, since the build-dir heuristic is
// a host-framework convention.
package paths

import (
	"os"
	"path/filepath"

	"github.com/globmod/globmod/pkg/errors"
	"github.com/globmod/globmod/pkg/logging"
	"github.com/globmod/globmod/pkg/types"
)

// Default directory names for the cache location policy.
const (
	// DefaultBuildDir is the framework build output directory whose
	// presence selects the build-local cache location.
	DefaultBuildDir = ".build"

	// DefaultDepsDir is the dependency directory used as fallback.
	DefaultDepsDir = "node_modules"

	// CacheDirName is globmod's directory beneath either cache area.
	CacheDirName = "globmod"
)

// RootLookup locates the project root directory. It is treated as an
// external collaborator; FindRoot is the default.
type RootLookup func() (string, error)

// Options configure path resolution. Zero values select the defaults.
type Options struct {
	// ProjectRoot pins the root explicitly. When empty, LookupRoot runs.
	ProjectRoot string

	// LookupRoot locates the root when ProjectRoot is empty. Defaults
	// to FindRoot from the current working directory.
	LookupRoot RootLookup

	// BuildDir and DepsDir override the policy directory names.
	BuildDir string
	DepsDir  string

	// FS overrides the filesystem, for tests.
	FS types.FS
}

// Paths is the resolved path set for one plugin instance. The cache
// root is fixed at construction and reused for every persist call.
type Paths struct {
	projectRoot string
	cacheRoot   string
}

// New resolves the project root and cache root. A root that cannot be
// located or does not exist is a fatal construction error.
func New(opts Options) (*Paths, error) {
	fsys := opts.FS
	if fsys == nil {
		fsys = types.OSFS()
	}
	buildDir := opts.BuildDir
	if buildDir == "" {
		buildDir = DefaultBuildDir
	}
	depsDir := opts.DepsDir
	if depsDir == "" {
		depsDir = DefaultDepsDir
	}

	root := opts.ProjectRoot
	if root == "" {
		lookup := opts.LookupRoot
		if lookup == nil {
			lookup = func() (string, error) { return FindRoot("") }
		}
		found, err := lookup()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrProjectRoot, "locating project root")
		}
		root = found
	}

	info, err := fsys.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, errors.Newf(errors.ErrProjectRoot, "project root %q is not a directory", root)
	}

	cacheRoot := filepath.Join(root, depsDir, ".cache", CacheDirName)
	if info, err := fsys.Stat(filepath.Join(root, buildDir)); err == nil && info.IsDir() {
		cacheRoot = filepath.Join(root, buildDir, "cache", CacheDirName)
	}

	logger := logging.GetLogger("paths")
	logger.Debug().
		Str("projectRoot", root).
		Str("cacheRoot", cacheRoot).
		Msg("Resolved cache location")

	return &Paths{projectRoot: root, cacheRoot: cacheRoot}, nil
}

// ProjectRoot returns the resolved project root directory.
func (p *Paths) ProjectRoot() string { return p.projectRoot }

// CacheRoot returns the directory holding globmod's manifest.
func (p *Paths) CacheRoot() string { return p.cacheRoot }

// FindRoot walks upward from start (the working directory when empty)
// to the first directory containing a package.json, which is how the
// surrounding tooling marks a project root.
func FindRoot(start string) (string, error) {
	dir := start
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, errors.ErrProjectRoot, "reading working directory")
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrProjectRoot, "resolving %q", dir)
	}

	for d := abs; ; d = filepath.Dir(d) {
		if _, err := os.Stat(filepath.Join(d, "package.json")); err == nil {
			return d, nil
		}
		if d == filepath.Dir(d) {
			return "", errors.Newf(errors.ErrProjectRoot, "no package.json found above %q", abs)
		}
	}
}
