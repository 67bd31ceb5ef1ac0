package types

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// UnsupportedLanguageError is fatal.
type UnsupportedLanguageError struct {
	Language Language
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("unsupported language %q", e.Language)
}

// ConstraintRef identifies an offending constraint the way diagnostics
// surface it: name, source tag, and — when provenance is present — the
// source file and line range it was extracted from.
type ConstraintRef struct {
	ID         uuid.UUID
	Name       string
	SourceTag  SourceTag
	SourceFile string
	LineStart  int
	LineEnd    int
}

// RefOf builds the diagnostic reference for c.
func RefOf(c Constraint) ConstraintRef {
	ref := ConstraintRef{ID: c.ID, Name: c.Name, SourceTag: c.Source.Tag}
	if c.Provenance != nil {
		ref.SourceFile = c.Provenance.SourceFile
		ref.LineStart = c.Provenance.LineRangeStart
		ref.LineEnd = c.Provenance.LineRangeEnd
	}
	return ref
}

func (r ConstraintRef) String() string {
	s := fmt.Sprintf("%s (%s)", r.Name, r.SourceTag)
	if r.SourceFile != "" {
		s += fmt.Sprintf(" at %s:%d-%d", r.SourceFile, r.LineStart, r.LineEnd)
	}
	return s
}

// UnresolvedCycleError is returned by BRAID step 5 when a cycle survives
// conflict resolution.
type UnresolvedCycleError struct {
	ConstraintIDs []uuid.UUID
	Names         []string
	Refs          []ConstraintRef
}

func (e *UnresolvedCycleError) Error() string {
	if len(e.Refs) > 0 {
		parts := make([]string, len(e.Refs))
		for i, r := range e.Refs {
			parts[i] = r.String()
		}
		return fmt.Sprintf("unresolved dependency cycle among constraints: %s", strings.Join(parts, " -> "))
	}
	return fmt.Sprintf("unresolved dependency cycle among constraints %v", e.Names)
}

// ConflictsUnresolvableError is returned by BRAID step 4 when the external
// resolver rejects every option for a conflict.
type ConflictsUnresolvableError struct {
	ConstraintAID, ConstraintBID uuid.UUID
	NameA, NameB                 string
	RefA, RefB                   ConstraintRef
	Reason                       string
}

func (e *ConflictsUnresolvableError) Error() string {
	if e.RefA.Name != "" {
		return fmt.Sprintf("conflict between %s and %s unresolvable: %s", e.RefA, e.RefB, e.Reason)
	}
	return fmt.Sprintf("conflict between %q and %q unresolvable: %s", e.NameA, e.NameB, e.Reason)
}

// IRSynthesisFailedError is returned by BRAID step 6 on a synthesis failure,
// e.g. a regex pattern that fails to compile.
type IRSynthesisFailedError struct {
	ConstraintID uuid.UUID
	Name         string
	Ref          ConstraintRef
	Reason       string
}

func (e *IRSynthesisFailedError) Error() string {
	if e.Ref.Name != "" {
		return fmt.Sprintf("IR synthesis failed for constraint %s: %s", e.Ref, e.Reason)
	}
	return fmt.Sprintf("IR synthesis failed for constraint %q: %s", e.Name, e.Reason)
}

// CompilationError is returned for failures in BRAID.Compile not already
// covered by a more specific typed error above, e.g. a canonicalization
// failure while computing the content hash.
type CompilationError struct {
	Reason string
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("compilation failed: %s", e.Reason)
}
