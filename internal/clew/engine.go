package clew

import (
	"context"
	"time"

	"go.uber.org/zap"

	"constraintcore/internal/logging"
	"constraintcore/internal/semanticclient"
	"constraintcore/internal/types"
)

// Options configures one Extract call.
type Options struct {
	ConfidenceFloor float64
	// SemanticClient, when non-nil, is called after the pattern stage to
	// gather external semantic candidates. A nil client means the feature
	// is disabled.
	SemanticClient *semanticclient.Client
	// ExtraRules are appended to the built-in library for the requested
	// language, the hook the engine's pattern_library_overrides config
	// feeds. Ignored when Index is set.
	ExtraRules []Rule
	// Index, when non-nil, is a prebuilt anchor index covering the full
	// rule set for the language (built once at engine construction). When
	// nil, Extract builds a throwaway index from the registered library
	// plus ExtraRules.
	Index  *RuleIndex
	Logger *logging.Logger
}

// RuleIndex is the byte -> rules anchor index over a language's full rule
// set: rules carrying a literal anchor are keyed by its first byte, so a
// position only tests rules whose anchor byte actually occurs in its text;
// anchorless rules are tested everywhere. Built once per language at
// engine construction and immutable afterwards, so it is freely shareable
// across goroutines.
type RuleIndex struct {
	indexed    map[byte][]Rule
	unanchored []Rule
}

// NewRuleIndex builds the anchor index for rules.
func NewRuleIndex(rules []Rule) *RuleIndex {
	idx := &RuleIndex{indexed: make(map[byte][]Rule)}
	for _, r := range rules {
		if r.Anchor == 0 {
			idx.unanchored = append(idx.unanchored, r)
			continue
		}
		idx.indexed[r.Anchor] = append(idx.indexed[r.Anchor], r)
	}
	return idx
}

// Extract is CLEW's primary operation. It walks a syntax tree (falling
// back to the line scanner when no grammar is available or parsing fails),
// applies the pattern library, scores confidence, dedupes, optionally
// augments with external semantic candidates, and filters by confidence
// floor. The only fatal failure is an unsupported language; malformed
// source degrades to a partial result instead.
func Extract(ctx context.Context, source []byte, language types.Language, opts Options) (*types.ConstraintSet, error) {
	if !language.Valid() {
		return nil, &types.UnsupportedLanguageError{Language: language}
	}

	log := opts.Logger
	if log == nil {
		log = logging.Noop()
	}

	set := types.NewConstraintSet()
	index := opts.Index
	if index == nil {
		library := patternsFor(string(language))
		library = append(library, opts.ExtraRules...)
		index = NewRuleIndex(library)
	}
	indexed, unanchored := index.indexed, index.unanchored

	tree, hasGrammar, err := ParseSyntaxTree(ctx, source, string(language))
	switch {
	case hasGrammar && err == nil:
		root := tree.RootNode()
		WalkSyntaxTree(source, root, func(in MatchInput) {
			applyRules(set, in, indexed, unanchored, string(language))
		})
	case hasGrammar && err != nil:
		log.Warn(logging.CategoryExtraction, "tree-sitter parse failed, falling back to scanner",
			zap.String("language", string(language)), zap.Error(err))
		set.Partial = true
		scanFallback(set, source, string(language), indexed, unanchored)
	default:
		// No grammar registered for this language (zig, c, cpp, java): the
		// scanner path is the only stage that ran, so the result is flagged
		// partial the same way a failed parse is.
		set.Partial = true
		scanFallback(set, source, string(language), indexed, unanchored)
	}

	if opts.SemanticClient != nil {
		candidates, err := opts.SemanticClient.Candidates(ctx, source, language, set.Items())
		if err != nil {
			log.Warn(logging.CategoryExtraction, "external semantic call failed, proceeding without it",
				zap.Error(err))
			set.ExternalSkipped = true
		} else {
			for _, c := range candidates {
				if addErr := set.Add(c); addErr != nil {
					log.Warn(logging.CategoryExtraction, "dropping invalid external semantic candidate",
						zap.String("name", c.Name), zap.Error(addErr))
				}
			}
		}
	}

	set.FilterConfidence(opts.ConfidenceFloor)
	return set, nil
}

func patternsFor(language string) []Rule {
	return patternLibraryFn(language)
}

// patternLibraryFn is set by init() in a separate file to avoid an import
// cycle: internal/clew/patterns imports internal/clew for the Rule/Template
// types, so clew cannot import patterns back directly. Package main (or
// the root engine) wires the real library in via RegisterPatternLibrary.
var patternLibraryFn = func(string) []Rule { return nil }

// RegisterPatternLibrary installs fn as the source of per-language rules.
// Called once at program init from a location that can see both
// internal/clew and internal/clew/patterns.
func RegisterPatternLibrary(fn func(language string) []Rule) {
	patternLibraryFn = fn
}

func applyRules(set *types.ConstraintSet, in MatchInput, indexed map[byte][]Rule, unanchored []Rule, language string) {
	for _, r := range unanchored {
		if r.Predicate(in) {
			emit(set, r, in, language)
		}
	}

	text := in.NodeText
	if text == "" {
		text = in.Token
	}
	if text == "" {
		return
	}
	// An anchored rule is a candidate when its anchor byte occurs anywhere
	// in the matched text: the anchor is the first byte of the matcher's
	// literal, not of the match position. Each distinct byte of the text is
	// looked up once.
	var seen [256]bool
	for i := 0; i < len(text); i++ {
		b := text[i]
		if seen[b] {
			continue
		}
		seen[b] = true
		for _, r := range indexed[b] {
			if r.Predicate(in) {
				emit(set, r, in, language)
			}
		}
	}
}

func scanFallback(set *types.ConstraintSet, source []byte, language string, indexed map[byte][]Rule, unanchored []Rule) {
	tokens := Scan(source, language)
	for _, tok := range tokens {
		in := MatchInput{Token: tok.Text, Pos: tok.Pos}
		applyRules(set, in, indexed, unanchored, language)
	}
}

func emit(set *types.ConstraintSet, r Rule, in MatchInput, language string) {
	confidence := r.Confidence(in)
	c, err := types.NewConstraint(
		r.Template.Kind,
		r.Template.Name,
		r.Template.Priority,
		r.Template.DefaultSeverity,
		r.Template.Enforcement(in),
		types.Source{Tag: types.SourceStaticExtraction},
	)
	if err != nil {
		return
	}
	c.Description = r.Template.Description
	c.Produces = r.Template.Produces
	c.Consumes = r.Template.Consumes
	c.Provenance = &types.Provenance{
		LineRangeStart: in.Pos.Line,
		LineRangeEnd:   in.Pos.EndLine,
		Extractor:      "clew-patterns/" + language,
		Version:        "1",
		Confidence:     confidence,
		Timestamp:      extractionTimestamp(),
	}
	_ = set.Add(c)
}

// extractionTimestamp is a seam for deterministic provenance stamps; the
// default is the wall clock at emission time. The canonical form used for
// hashing excludes it either way.
var extractionTimestamp = func() int64 { return time.Now().Unix() }
