// Package rewriter drives the per-file pipeline: scan a file for glob
// specifiers, register the virtual module each one resolves to, and
// splice the virtual paths back into the source text.
package rewriter

import (
	"strconv"
	"strings"

	"github.com/globmod/globmod/pkg/errors"
	"github.com/globmod/globmod/pkg/logging"
	"github.com/globmod/globmod/pkg/manifest"
	"github.com/globmod/globmod/pkg/resolver"
	"github.com/globmod/globmod/pkg/scanner"
	"github.com/globmod/globmod/pkg/specifier"
	"github.com/globmod/globmod/pkg/types"
	"github.com/globmod/globmod/pkg/vfs"
	"github.com/rs/zerolog"
)

// Rewriter rewrites glob specifiers in one file at a time. It owns no
// state of its own; registry and cache are shared with the rest of the
// plugin.
type Rewriter struct {
	grammar  *specifier.Grammar
	scanner  *scanner.Scanner
	resolver resolver.Resolver
	registry *vfs.Registry
	cache    *manifest.Manifest
	logger   zerolog.Logger
}

// New creates a Rewriter.
func New(grammar *specifier.Grammar, res resolver.Resolver, registry *vfs.Registry, cache *manifest.Manifest) *Rewriter {
	return &Rewriter{
		grammar:  grammar,
		scanner:  scanner.New(grammar),
		resolver: res,
		registry: registry,
		cache:    cache,
		logger:   logging.GetLogger("rewriter"),
	}
}

// Rewrite returns text with every glob specifier replaced by its
// virtual module path, registering and persisting each virtual module
// along the way. Text without a candidate substring is returned
// unchanged. Everything outside the specifier spans is reproduced
// byte for byte.
func (rw *Rewriter) Rewrite(text, importerPath string) (string, error) {
	if !rw.grammar.HasCandidate(text) {
		return text, nil
	}

	matches, err := rw.scanner.Scan(text)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return text, nil
	}

	replacements := make([]types.Replacement, 0, len(matches))
	for _, m := range matches {
		vpath, err := rw.resolve(m, importerPath)
		if err != nil {
			return "", err
		}
		replacements = append(replacements, types.Replacement{
			Start: m.Start,
			End:   m.End,
			Value: strconv.Quote(vpath),
		})
	}

	rw.logger.Debug().
		Str("importer", importerPath).
		Int("replacements", len(replacements)).
		Msg("Rewrote glob specifiers")

	return splice(text, replacements), nil
}

// resolve derives the virtual path for one match and performs the
// register + persist pair. Content generation is skipped when the
// module is already registered; registration is idempotent either way.
func (rw *Rewriter) resolve(m types.Match, importerPath string) (string, error) {
	vpath, err := rw.resolver.ResolvePath(m.Source, importerPath)
	if err != nil {
		return "", err
	}

	if rw.registry.Has(vpath) {
		return vpath, nil
	}

	contents, err := rw.resolver.GenerateContents(vpath)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrContentGen, "generating module for %q imported by %q", m.Source, importerPath)
	}
	if err := rw.registry.Register(vpath, contents); err != nil {
		return "", err
	}
	if err := rw.cache.Persist(vpath); err != nil {
		return "", err
	}
	return vpath, nil
}

// splice assembles the output in one left-to-right pass over the
// sorted, non-overlapping replacement spans, copying the untouched
// text between them verbatim.
func splice(text string, replacements []types.Replacement) string {
	var b strings.Builder
	b.Grow(len(text))

	last := 0
	for _, r := range replacements {
		b.WriteString(text[last:r.Start])
		b.WriteString(r.Value)
		last = r.End
	}
	b.WriteString(text[last:])
	return b.String()
}
