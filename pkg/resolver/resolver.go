// Package resolver maps glob specifiers to virtual module identities
// and generates the synthetic module source for those identities.
//
// The virtual path encodes the full specifier reversibly, so contents
// can be regenerated from the path alone - which is what allows the
// manifest to store identities instead of contents and still re-seed
// the registry after a process restart.
package resolver

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/globmod/globmod/pkg/errors"
	"github.com/globmod/globmod/pkg/logging"
	"github.com/globmod/globmod/pkg/specifier"
	"github.com/rs/zerolog"
)

// VirtualExt is the extension carried by every virtual module path.
const VirtualExt = ".glob.js"

// TagFiles selects the file-path-list output shape: the module's
// default export is the array of matched file paths as strings. The
// default (untagged) shape imports each matched file and exports the
// array of modules.
const TagFiles = "files"

// Resolver is the identity boundary: a deterministic mapping from
// (specifier, importer) to a virtual module path, and from a virtual
// module path to generated source text.
type Resolver interface {
	// ResolvePath derives the canonical virtual module path for a glob
	// specifier found in the file at importerPath. The same pair always
	// yields the same path; distinct pairs never collide.
	ResolvePath(spec, importerPath string) (string, error)

	// GenerateContents produces the synthetic module source for a
	// virtual path previously derived by ResolvePath. It may glob the
	// filesystem and fails when the pattern matches nothing.
	GenerateContents(path string) (string, error)
}

// GlobResolver is the default Resolver. It globs the real filesystem
// with doublestar patterns relative to the importer's directory.
type GlobResolver struct {
	grammar *specifier.Grammar
	logger  zerolog.Logger
}

// NewGlobResolver creates a GlobResolver for the given grammar.
func NewGlobResolver(grammar *specifier.Grammar) *GlobResolver {
	return &GlobResolver{
		grammar: grammar,
		logger:  logging.GetLogger("resolver"),
	}
}

// ResolvePath implements Resolver. The virtual path lives beside the
// importer and carries the escaped specifier as its name:
//
//	/proj/src/index.ts + glob:./icons/*.svg
//	-> /proj/src/glob%3A.%2Ficons%2F%2A.svg.glob.js
func (r *GlobResolver) ResolvePath(spec, importerPath string) (string, error) {
	if _, ok := r.grammar.Parse(spec); !ok {
		return "", errors.Newf(errors.ErrSpecifier, "not a glob specifier: %q", spec)
	}
	dir := filepath.Dir(importerPath)
	if !filepath.IsAbs(dir) {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrSpecifier, "resolving importer directory %q", dir)
		}
		dir = abs
	}
	return filepath.Join(dir, escapeName(spec)+VirtualExt), nil
}

// GenerateContents implements Resolver.
func (r *GlobResolver) GenerateContents(path string) (string, error) {
	name := filepath.Base(path)
	if !strings.HasSuffix(name, VirtualExt) {
		return "", errors.Newf(errors.ErrSpecifier, "not a virtual module path: %q", path)
	}
	raw, err := unescapeName(strings.TrimSuffix(name, VirtualExt))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrSpecifier, "decoding virtual module path %q", path)
	}
	spec, ok := r.grammar.Parse(raw)
	if !ok {
		return "", errors.Newf(errors.ErrSpecifier, "virtual module path %q does not encode a glob specifier", path)
	}

	pattern := spec.Pattern
	if !filepath.IsAbs(pattern) {
		pattern = filepath.Join(filepath.Dir(path), pattern)
	}

	files, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrContentGen, "globbing %q", pattern)
	}
	if len(files) == 0 {
		return "", errors.Newf(errors.ErrContentGen, "no files match %q", spec.Raw).
			WithDetail("pattern", pattern)
	}
	sort.Strings(files)

	r.logger.Debug().
		Str("specifier", spec.Raw).
		Str("virtualPath", path).
		Int("files", len(files)).
		Msg("Generating virtual module contents")

	switch spec.Tag {
	case "":
		return moduleListSource(files), nil
	case TagFiles:
		return filePathListSource(files), nil
	default:
		return "", errors.Newf(errors.ErrSpecifier, "unknown specifier tag %q in %q", spec.Tag, spec.Raw)
	}
}

// moduleListSource imports every matched file and exports the modules
// as a default array, in match order.
func moduleListSource(files []string) string {
	var b strings.Builder
	for i, f := range files {
		b.WriteString("import _g")
		b.WriteString(strconv.Itoa(i))
		b.WriteString(" from ")
		b.WriteString(strconv.Quote(filepath.ToSlash(f)))
		b.WriteString(";\n")
	}
	b.WriteString("export default [")
	for i := range files {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("_g")
		b.WriteString(strconv.Itoa(i))
	}
	b.WriteString("];\n")
	return b.String()
}

// filePathListSource exports the matched file paths themselves.
func filePathListSource(files []string) string {
	var b strings.Builder
	b.WriteString("export default [")
	for i, f := range files {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Quote(filepath.ToSlash(f)))
	}
	b.WriteString("];\n")
	return b.String()
}

// escapeName percent-escapes every byte outside [A-Za-z0-9._-] so the
// specifier survives as a single path segment and decodes losslessly.
func escapeName(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '.' || c == '_' || c == '-' ||
			(c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0xf])
	}
	return b.String()
}

func unescapeName(s string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		if i+2 >= len(s) {
			return "", errors.Newf(errors.ErrInvalidInput, "truncated escape in %q", s)
		}
		v, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrInvalidInput, "bad escape in %q", s)
		}
		b.WriteByte(byte(v))
		i += 2
	}
	return b.String(), nil
}
