// Package manifest persists virtual module identities across bundler
// restarts.
//
// The manifest is a JSON object at <cacheRoot>/virtual-modules.json
// mapping every virtual module path ever registered to the literal
// true. It stores identity, not content: contents are regenerated from
// the path by the resolver at load time, so they can never go stale
// against the real source files. Entries accumulate for the life of
// the cache directory and are never pruned.
//
// Persist is a read-modify-write of the whole file with no
// cross-process locking. Concurrent writers race and the last one
// wins; a lost entry only costs a future process a cache miss, since
// paths are derived deterministically. The write itself goes through a
// temp file and rename so readers never observe a torn file - strictly
// stronger than the contract requires.
package manifest

import (
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/globmod/globmod/pkg/errors"
	"github.com/globmod/globmod/pkg/logging"
	"github.com/globmod/globmod/pkg/types"
	"github.com/rs/zerolog"
)

// FileName is the manifest file name beneath the cache root.
const FileName = "virtual-modules.json"

// Manifest is the on-disk record of virtual module identities.
type Manifest struct {
	path   string
	fsys   types.FS
	logger zerolog.Logger
}

// New creates a Manifest rooted at cacheRoot. The fsys argument may be
// nil, in which case the operating system filesystem is used.
func New(cacheRoot string, fsys types.FS) *Manifest {
	if fsys == nil {
		fsys = types.OSFS()
	}
	return &Manifest{
		path:   filepath.Join(cacheRoot, FileName),
		fsys:   fsys,
		logger: logging.GetLogger("manifest"),
	}
}

// Path returns the manifest file's full path.
func (m *Manifest) Path() string { return m.path }

// Load reads the manifest, returning an empty mapping when the file
// does not exist. A file that exists but does not parse is a fatal
// read error, never silently treated as empty.
func (m *Manifest) Load() (map[string]bool, error) {
	data, err := m.fsys.ReadFile(m.path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			m.logger.Debug().Str("path", m.path).Msg("No manifest on disk, starting empty")
			return map[string]bool{}, nil
		}
		return nil, errors.Wrapf(err, errors.ErrManifestRead, "reading manifest %q", m.path)
	}

	entries := map[string]bool{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestRead, "parsing manifest %q", m.path)
	}

	m.logger.Debug().Str("path", m.path).Int("entries", len(entries)).Msg("Loaded manifest")
	return entries, nil
}

// Persist records one virtual module path: read the current manifest,
// set the entry, write the whole file back.
func (m *Manifest) Persist(path string) error {
	if path == "" {
		return errors.New(errors.ErrInvalidInput, "virtual module path cannot be empty")
	}

	entries, err := m.Load()
	if err != nil {
		return err
	}
	entries[path] = true

	if err := m.write(entries); err != nil {
		return err
	}

	m.logger.Debug().Str("path", path).Int("entries", len(entries)).Msg("Persisted virtual module")
	return nil
}

// Paths returns every recorded virtual module path in sorted order.
func (m *Manifest) Paths() ([]string, error) {
	entries, err := m.Load()
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(entries))
	for p := range entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

// Clear removes the manifest file. Missing files are not an error.
func (m *Manifest) Clear() error {
	if err := m.fsys.Remove(m.path); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(err, errors.ErrManifestWrite, "removing manifest %q", m.path)
	}
	return nil
}

func (m *Manifest) write(entries map[string]bool) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrManifestWrite, "encoding manifest")
	}
	data = append(data, '\n')

	dir := filepath.Dir(m.path)
	if err := m.fsys.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrManifestWrite, "creating cache directory %q", dir)
	}

	tmp := m.path + ".tmp"
	if err := m.fsys.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrManifestWrite, "writing manifest %q", tmp)
	}
	if err := m.fsys.Rename(tmp, m.path); err != nil {
		return errors.Wrapf(err, errors.ErrManifestWrite, "replacing manifest %q", m.path)
	}
	return nil
}
