// Package interceptor handles glob specifiers that reach the host's
// module resolution layer as raw requests - references produced by
// tooling that never goes through the source rewriter. It performs the
// same resolve + register + persist sequence and redirects resolution
// to the virtual path.
package interceptor

import (
	"github.com/globmod/globmod/pkg/errors"
	"github.com/globmod/globmod/pkg/logging"
	"github.com/globmod/globmod/pkg/manifest"
	"github.com/globmod/globmod/pkg/resolver"
	"github.com/globmod/globmod/pkg/specifier"
	"github.com/globmod/globmod/pkg/types"
	"github.com/globmod/globmod/pkg/vfs"
	"github.com/rs/zerolog"
)

// Interceptor filters resolution requests for glob specifiers.
type Interceptor struct {
	grammar  *specifier.Grammar
	resolver resolver.Resolver
	registry *vfs.Registry
	cache    *manifest.Manifest
	logger   zerolog.Logger
}

// New creates an Interceptor sharing the plugin's registry and cache.
func New(grammar *specifier.Grammar, res resolver.Resolver, registry *vfs.Registry, cache *manifest.Manifest) *Interceptor {
	return &Interceptor{
		grammar:  grammar,
		resolver: res,
		registry: registry,
		cache:    cache,
		logger:   logging.GetLogger("interceptor"),
	}
}

// Intercept examines one resolution request. For a glob specifier it
// registers the virtual module and returns its path with ok true; any
// other request is passed through with ok false.
func (ic *Interceptor) Intercept(request, importer string) (redirect string, ok bool, err error) {
	if !ic.grammar.Match(request) {
		return "", false, nil
	}

	vpath, err := ic.resolver.ResolvePath(request, importer)
	if err != nil {
		return "", false, err
	}

	if !ic.registry.Has(vpath) {
		contents, err := ic.resolver.GenerateContents(vpath)
		if err != nil {
			return "", false, errors.Wrapf(err, errors.ErrContentGen, "generating module for request %q from %q", request, importer)
		}
		if err := ic.registry.Register(vpath, contents); err != nil {
			return "", false, err
		}
		if err := ic.cache.Persist(vpath); err != nil {
			return "", false, err
		}
	}

	ic.logger.Debug().
		Str("request", request).
		Str("importer", importer).
		Str("virtualPath", vpath).
		Msg("Redirected glob resolution")

	return vpath, true, nil
}

// Hook adapts the Interceptor to the host's resolution-hook signature.
func (ic *Interceptor) Hook() types.ResolveHook {
	return ic.Intercept
}
