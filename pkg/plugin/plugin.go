// Package plugin wires the scanner, resolver, registry, manifest,
// rewriter, and interceptor into one unit a host bundler installs.
//
// Construction is where persistence pays off: the manifest is loaded
// and every previously known virtual module is regenerated and seeded
// into the fresh registry, so modules stay resolvable even when the
// host's transform cache skips the files that originally produced
// them.
package plugin

import (
	"github.com/globmod/globmod/pkg/config"
	"github.com/globmod/globmod/pkg/errors"
	"github.com/globmod/globmod/pkg/interceptor"
	"github.com/globmod/globmod/pkg/logging"
	"github.com/globmod/globmod/pkg/manifest"
	"github.com/globmod/globmod/pkg/paths"
	"github.com/globmod/globmod/pkg/resolver"
	"github.com/globmod/globmod/pkg/rewriter"
	"github.com/globmod/globmod/pkg/specifier"
	"github.com/globmod/globmod/pkg/types"
	"github.com/globmod/globmod/pkg/vfs"
	"github.com/rs/zerolog"
)

// RuleName identifies the rewrite transform in the host's pipeline.
const RuleName = "globmod-rewrite"

// Options configure one plugin instance. The zero value works for a
// project whose root is discoverable from the working directory.
type Options struct {
	// Config overrides the project config file lookup.
	Config *config.Config

	// ProjectRoot pins the project root; LookupRoot runs when empty.
	ProjectRoot string
	LookupRoot  paths.RootLookup

	// Resolver overrides the default glob resolver.
	Resolver resolver.Resolver

	// VirtualFS is the host's virtual filesystem collaborator. It may
	// be nil for standalone use (the CLI), in which case modules are
	// only registered in memory.
	VirtualFS types.VirtualWriter

	// RuleToModify inserts the rewrite transform into this rule's Use
	// sub-pipeline instead of the host's global rule list.
	RuleToModify *types.TransformRule

	// FS overrides the filesystem for the manifest and path policy.
	FS types.FS
}

// Plugin is one constructed instance. All state is owned here; nothing
// is ambient.
type Plugin struct {
	cfg          *config.Config
	grammar      *specifier.Grammar
	paths        *paths.Paths
	registry     *vfs.Registry
	cache        *manifest.Manifest
	resolver     resolver.Resolver
	rewriter     *rewriter.Rewriter
	interceptor  *interceptor.Interceptor
	virtualFS    types.VirtualWriter
	ruleToModify *types.TransformRule
	logger       zerolog.Logger
}

// New constructs a plugin: resolve the project root and cache
// location, load the manifest, and seed the registry from it. A
// missing project root or an unreadable manifest aborts construction;
// there is no degraded mode.
func New(opts Options) (*Plugin, error) {
	root := opts.ProjectRoot
	if root == "" {
		lookup := opts.LookupRoot
		if lookup == nil {
			lookup = func() (string, error) { return paths.FindRoot("") }
		}
		found, err := lookup()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrProjectRoot, "locating project root")
		}
		root = found
	}

	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.LoadProject(root)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg.Normalize()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	grammar, err := specifier.NewGrammar(cfg.Prefix)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigValid, "building specifier grammar")
	}

	p, err := paths.New(paths.Options{
		ProjectRoot: root,
		BuildDir:    cfg.BuildDir,
		DepsDir:     cfg.DepsDir,
		FS:          opts.FS,
	})
	if err != nil {
		return nil, err
	}

	res := opts.Resolver
	if res == nil {
		res = resolver.NewGlobResolver(grammar)
	}

	registry := vfs.NewRegistry()
	cache := manifest.New(p.CacheRoot(), opts.FS)

	pl := &Plugin{
		cfg:          cfg,
		grammar:      grammar,
		paths:        p,
		registry:     registry,
		cache:        cache,
		resolver:     res,
		rewriter:     rewriter.New(grammar, res, registry, cache),
		interceptor:  interceptor.New(grammar, res, registry, cache),
		virtualFS:    opts.VirtualFS,
		ruleToModify: opts.RuleToModify,
		logger:       logging.GetLogger("plugin"),
	}

	if cfg.EagerSeedEnabled() {
		if err := pl.seed(); err != nil {
			return nil, err
		}
	}
	return pl, nil
}

// seed replays the manifest: every recorded identity is regenerated
// through the resolver and registered, making it resolvable before any
// file is transformed.
func (pl *Plugin) seed() error {
	known, err := pl.cache.Paths()
	if err != nil {
		return err
	}
	for _, vpath := range known {
		contents, err := pl.resolver.GenerateContents(vpath)
		if err != nil {
			return errors.Wrapf(err, errors.ErrContentGen, "regenerating cached virtual module %q", vpath)
		}
		if err := pl.registry.Register(vpath, contents); err != nil {
			return err
		}
	}
	if len(known) > 0 {
		pl.logger.Info().Int("modules", len(known)).Msg("Seeded registry from manifest")
	}
	return nil
}

// Apply installs the plugin into a host build: bind the virtual
// filesystem, add the rewrite transform with run-last priority, and
// add the resolution hook.
func (pl *Plugin) Apply(host types.Host) error {
	if pl.virtualFS != nil {
		if err := pl.registry.Attach(pl.virtualFS, host.Context()); err != nil {
			return err
		}
	}

	rule := &types.TransformRule{
		Name:      RuleName,
		Include:   pl.cfg.Extensions,
		Exclude:   pl.cfg.ExcludeDirs,
		RunLast:   true,
		Transform: pl.rewriter.Rewrite,
	}

	if pl.ruleToModify != nil {
		pl.ruleToModify.Use = append(pl.ruleToModify.Use, rule)
	} else {
		host.AddRule(rule)
	}

	host.AddResolveHook(pl.interceptor.Hook())

	pl.logger.Debug().
		Bool("ruleModified", pl.ruleToModify != nil).
		Msg("Plugin applied to host build")
	return nil
}

// Rewriter exposes the per-file rewriting pipeline.
func (pl *Plugin) Rewriter() *rewriter.Rewriter { return pl.rewriter }

// Interceptor exposes the resolution-hook pipeline.
func (pl *Plugin) Interceptor() *interceptor.Interceptor { return pl.interceptor }

// Registry exposes the in-memory virtual module registry.
func (pl *Plugin) Registry() *vfs.Registry { return pl.registry }

// Manifest exposes the on-disk identity cache.
func (pl *Plugin) Manifest() *manifest.Manifest { return pl.cache }

// Resolver exposes the identity resolver.
func (pl *Plugin) Resolver() resolver.Resolver { return pl.resolver }

// Paths exposes the resolved project and cache locations.
func (pl *Plugin) Paths() *paths.Paths { return pl.paths }

// Config exposes the effective configuration.
func (pl *Plugin) Config() *config.Config { return pl.cfg }
