// Package vfs holds the in-memory registry of virtual modules: the
// mapping the host bundler consults, through its virtual filesystem
// collaborator, when it loads a module that has no file on disk.
package vfs

import (
	"sort"
	"sync"

	"github.com/globmod/globmod/pkg/errors"
	"github.com/globmod/globmod/pkg/logging"
	"github.com/globmod/globmod/pkg/types"
	"github.com/rs/zerolog"
)

// Registry maps virtual module paths to their generated source. It is
// owned by one plugin instance, lives for the process lifetime, and is
// never explicitly torn down. Registration is idempotent: re-registering
// a path overwrites with identical data and is a no-op from the host's
// point of view.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]string
	writer  types.VirtualWriter
	logger  zerolog.Logger
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		modules: make(map[string]string),
		logger:  logging.GetLogger("vfs"),
	}
}

// Register records a virtual module. When a writer is attached the
// module is also forwarded to the host immediately, so a resolution
// already in flight for this path succeeds.
func (r *Registry) Register(path, contents string) error {
	if path == "" {
		return errors.New(errors.ErrInvalidInput, "virtual module path cannot be empty")
	}

	r.mu.Lock()
	prev, existed := r.modules[path]
	r.modules[path] = contents
	writer := r.writer
	r.mu.Unlock()

	if existed && prev == contents {
		r.logger.Trace().Str("path", path).Msg("Virtual module already registered")
		return nil
	}

	r.logger.Debug().
		Str("path", path).
		Int("bytes", len(contents)).
		Bool("replaced", existed).
		Msg("Registered virtual module")

	if writer != nil {
		if err := writer.WriteModule(path, contents); err != nil {
			return errors.Wrapf(err, errors.ErrInternal, "writing virtual module %q to host", path)
		}
	}
	return nil
}

// Has reports whether a virtual module is registered.
func (r *Registry) Has(path string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.modules[path]
	return ok
}

// Get returns the contents registered for path.
func (r *Registry) Get(path string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	contents, ok := r.modules[path]
	if !ok {
		return "", errors.Newf(errors.ErrNotFound, "virtual module %q not registered", path)
	}
	return contents, nil
}

// Paths returns all registered virtual module paths in sorted order.
func (r *Registry) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	paths := make([]string, 0, len(r.modules))
	for p := range r.modules {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Count returns the number of registered virtual modules.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.modules)
}

// Attach binds the host's virtual filesystem collaborator to the build
// context, replays every module registered so far through it, and
// forwards all future registrations.
func (r *Registry) Attach(w types.VirtualWriter, ctx types.BuildContext) error {
	if err := w.Apply(ctx); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "applying virtual filesystem to host build")
	}

	r.mu.Lock()
	r.writer = w
	snapshot := make(map[string]string, len(r.modules))
	for p, c := range r.modules {
		snapshot[p] = c
	}
	r.mu.Unlock()

	paths := make([]string, 0, len(snapshot))
	for p := range snapshot {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		if err := w.WriteModule(p, snapshot[p]); err != nil {
			return errors.Wrapf(err, errors.ErrInternal, "replaying virtual module %q to host", p)
		}
	}

	r.logger.Debug().Int("modules", len(paths)).Msg("Attached virtual filesystem writer")
	return nil
}
