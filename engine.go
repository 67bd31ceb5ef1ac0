// Package constraintcore wires CLEW, BRAID, the cache, and the IR
// serializer into the four library entry points: init, extract, compile,
// and serialize. It is the only package callers outside internal/ import.
package constraintcore

import (
	"context"
	"fmt"
	"os"
	"time"

	"constraintcore/internal/braid"
	"constraintcore/internal/cache"
	"constraintcore/internal/clew"
	"constraintcore/internal/clew/patterns"
	"constraintcore/internal/config"
	"constraintcore/internal/ir"
	"constraintcore/internal/logging"
	"constraintcore/internal/resolverclient"
	"constraintcore/internal/semanticclient"
	"constraintcore/internal/types"
)

func init() {
	// Closes the import-cycle workaround documented in
	// internal/clew/engine.go: patterns imports clew for shared types, so
	// clew cannot import patterns back, and this is the one place that can
	// see both.
	clew.RegisterPatternLibrary(patterns.All)
}

// Engine holds the configured dependencies a host process builds once and
// reuses across calls.
type Engine struct {
	cfg      config.Config
	cache    *cache.Cache
	logger   *logging.Logger
	semantic *semanticclient.Client
	resolver *resolverclient.Client

	// indexes holds one prebuilt anchor index per supported language,
	// built once here and immutable afterwards.
	indexes map[types.Language]*clew.RuleIndex
}

// New constructs an Engine from cfg: it instantiates the cache, loads any
// pattern-library overrides, and establishes the external service clients
// that are enabled.
func New(cfg config.Config, logger *logging.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Noop()
	}

	c, err := cache.New(cfg.CacheCapacity)
	if err != nil {
		return nil, fmt.Errorf("constructing cache: %w", err)
	}

	e := &Engine{cfg: cfg, cache: c, logger: logger}

	var overrides map[string][]clew.Rule
	if cfg.PatternLibraryOverrides != "" {
		overrides, err = patterns.LoadOverrides(cfg.PatternLibraryOverrides)
		if err != nil {
			return nil, err
		}
	}
	e.indexes = make(map[types.Language]*clew.RuleIndex, len(cfg.SupportedLanguages))
	for _, lang := range cfg.SupportedLanguages {
		rules := patterns.All(string(lang))
		rules = append(rules, overrides[string(lang)]...)
		e.indexes[lang] = clew.NewRuleIndex(rules)
	}

	if cfg.EnableExternalSemantic {
		if cfg.SemanticServiceURL == "" {
			return nil, fmt.Errorf("enable_external_semantic is set but semantic_service_url is empty")
		}
		timeout := time.Duration(cfg.SemanticServiceTimeoutSeconds) * time.Second
		e.semantic = semanticclient.New(cfg.SemanticServiceURL, timeout)
	}
	if cfg.EnableExternalResolver {
		if cfg.ResolverServiceURL == "" {
			return nil, fmt.Errorf("enable_external_resolver is set but resolver_service_url is empty")
		}
		timeout := time.Duration(cfg.ResolverServiceTimeoutSeconds) * time.Second
		e.resolver = resolverclient.New(cfg.ResolverServiceURL, timeout)
	}

	return e, nil
}

// Extract is CLEW's primary operation, configured from the
// Engine's confidence floor and optional semantic client.
func (e *Engine) Extract(ctx context.Context, source []byte, language types.Language) (*types.ConstraintSet, error) {
	if !supported(e.cfg.SupportedLanguages, language) {
		return nil, &types.UnsupportedLanguageError{Language: language}
	}
	return clew.Extract(ctx, source, language, clew.Options{
		ConfidenceFloor: e.cfg.ConfidenceFloor,
		SemanticClient:  e.semantic,
		Index:           e.indexes[language],
		Logger:          e.logger,
	})
}

// ExtractFile reads path and extracts it like Extract, additionally
// stamping each constraint's provenance with the source file so downstream
// error messages can point back at it.
func (e *Engine) ExtractFile(ctx context.Context, path string, language types.Language) (*types.ConstraintSet, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	set, err := e.Extract(ctx, source, language)
	if err != nil {
		return nil, err
	}
	items := set.Items()
	for i := range items {
		if items[i].Provenance != nil && items[i].Provenance.SourceFile == "" {
			items[i].Provenance.SourceFile = path
		}
	}
	return set, nil
}

// Compile is BRAID's primary operation, configured from the
// Engine's cache and optional external resolver.
func (e *Engine) Compile(ctx context.Context, set *types.ConstraintSet) (types.ConstraintIR, types.Manifest, error) {
	return braid.Compile(ctx, set, braid.Options{
		Cache:    e.cache,
		Resolver: e.resolver,
		Logger:   e.logger,
	})
}

// ParseDSL exposes CLEW's optional declarative constraint DSL input
// channel.
func (e *Engine) ParseDSL(source string) (*types.ConstraintSet, error) {
	return clew.ParseDSL(source)
}

// CacheStats returns cumulative compile-cache hit/miss counts.
func (e *Engine) CacheStats() (hits, misses uint64) {
	return e.cache.Stats()
}

// Serialize renders a compiled IR and its manifest into the external wire
// formats. It is a free function, not an Engine method, since
// serialization has no configuration or state of its own.
func Serialize(constraintIR types.ConstraintIR, manifest types.Manifest) (ir.Artifact, error) {
	return ir.Serialize(constraintIR, manifest)
}

func supported(languages []types.Language, language types.Language) bool {
	for _, l := range languages {
		if l == language {
			return true
		}
	}
	return false
}
