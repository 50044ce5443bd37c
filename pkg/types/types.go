// Package types defines the shared data records and the boundary
// interfaces between globmod and its host bundler.
package types

import (
	"io/fs"
	"os"
)

// FS abstracts the filesystem operations globmod performs so tests can
// substitute an in-memory implementation.
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)
	Remove(name string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error
}

// osFS is the default FS backed by the real filesystem.
type osFS struct{}

func (osFS) Stat(name string) (fs.FileInfo, error)      { return os.Stat(name) }
func (osFS) ReadFile(name string) ([]byte, error)       { return os.ReadFile(name) }
func (osFS) ReadDir(name string) ([]fs.DirEntry, error) { return os.ReadDir(name) }
func (osFS) Remove(name string) error                   { return os.Remove(name) }
func (osFS) RemoveAll(path string) error                { return os.RemoveAll(path) }
func (osFS) Rename(oldpath, newpath string) error       { return os.Rename(oldpath, newpath) }

func (osFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}

func (osFS) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

// OSFS returns an FS backed by the operating system.
func OSFS() FS { return osFS{} }

// Match identifies the quoted module-specifier literal of one
// import/export declaration within a file's source text. Start is the
// byte offset of the opening quote, End is one past the closing quote,
// and Source is the specifier text with the quotes stripped.
type Match struct {
	Start  int
	End    int
	Source string
}

// Replacement is a span of the original text to be substituted during
// splicing. Spans never overlap and are consumed in ascending Start
// order.
type Replacement struct {
	Start int
	End   int
	Value string
}

// VirtualModule pairs a virtual module path with its generated source.
type VirtualModule struct {
	Path     string
	Contents string
}

// BuildContext is the host bundler's opaque build state, passed through
// to the virtual filesystem collaborator untouched.
type BuildContext any

// VirtualWriter is the host bundler's virtual filesystem collaborator.
// Apply binds the writer to a build; WriteModule makes a synthetic
// module resolvable by the host's module loader.
type VirtualWriter interface {
	Apply(ctx BuildContext) error
	WriteModule(path, contents string) error
}

// TransformFunc rewrites one file's source text. The returned text
// replaces the original in the host's pipeline.
type TransformFunc func(text, path string) (string, error)

// ResolveHook inspects a module resolution request before the host's
// own resolver runs. When ok is true the host resolves redirect
// instead of request.
type ResolveHook func(request, importer string) (redirect string, ok bool, err error)

// TransformRule describes one entry in the host's transform pipeline.
// A rule either carries a Transform of its own or composes a Use
// sub-pipeline.
type TransformRule struct {
	Name      string
	Include   []string // file extensions, e.g. ".ts"
	Exclude   []string // directory names, e.g. "node_modules"
	RunLast   bool
	Transform TransformFunc
	Use       []*TransformRule
}

// Host is the bundler surface globmod installs into.
type Host interface {
	Context() BuildContext
	AddRule(rule *TransformRule)
	AddResolveHook(hook ResolveHook)
}
