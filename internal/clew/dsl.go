package clew

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	_ "github.com/google/mangle/builtin"
	"github.com/google/mangle/engine"
	"github.com/google/mangle/factstore"
	"github.com/google/mangle/parse"

	"constraintcore/internal/types"
)

// dslSchema declares the single relation a DSL source populates: one fact
// per constraint, its enforcement payload carried as a JSON string since
// Mangle's base terms don't model a tagged union directly.
const dslSchema = `
Decl constraint(Name, Kind, Priority, Severity, EnforcementJSON)
  bound[/string, /string, /string, /string, /string].
`

// ParseDSLError reports a failure to parse or analyze declarative DSL
// source.
type ParseDSLError struct {
	Reason string
}

func (e *ParseDSLError) Error() string { return fmt.Sprintf("clew: DSL parse failed: %s", e.Reason) }

// ParseDSL evaluates a declarative constraint DSL source (a Mangle program
// over the constraint/5 relation, optionally with derivation rules) and
// returns every derived constraint fact as a ConstraintSet with
// source.tag=dsl.
//
// Example source:
//
//	constraint("no_global_mutable_state", "architectural", "high", "warning",
//	  "{\"tag\":\"semantic\",\"semantic\":{\"properties\":{\"rule\":\"no_globals\"}}}").
func ParseDSL(source string) (*types.ConstraintSet, error) {
	unit, err := parse.Unit(strings.NewReader(dslSchema + "\n" + source))
	if err != nil {
		return nil, &ParseDSLError{Reason: err.Error()}
	}

	programInfo, err := analysis.AnalyzeOneUnit(unit, nil)
	if err != nil {
		return nil, &ParseDSLError{Reason: err.Error()}
	}

	store := factstore.NewSimpleInMemoryStore()
	if _, err := engine.EvalProgramWithStats(programInfo, store); err != nil {
		return nil, &ParseDSLError{Reason: err.Error()}
	}

	set := types.NewConstraintSet()
	var sym ast.PredicateSym
	for s := range programInfo.Decls {
		if s.Symbol == "constraint" {
			sym = s
			break
		}
	}
	if sym.Symbol == "" {
		return set, nil
	}

	var walkErr error
	err = store.GetFacts(ast.NewQuery(sym), func(atom ast.Atom) error {
		c, err := constraintFromAtom(atom)
		if err != nil {
			walkErr = err
			return nil
		}
		return set.Add(c)
	})
	if err != nil {
		return nil, &ParseDSLError{Reason: err.Error()}
	}
	if walkErr != nil {
		return nil, &ParseDSLError{Reason: walkErr.Error()}
	}
	return set, nil
}

func constraintFromAtom(atom ast.Atom) (types.Constraint, error) {
	if len(atom.Args) != 5 {
		return types.Constraint{}, fmt.Errorf("constraint/5 fact has %d args", len(atom.Args))
	}
	name, err := atomString(atom.Args[0])
	if err != nil {
		return types.Constraint{}, err
	}
	kindStr, err := atomString(atom.Args[1])
	if err != nil {
		return types.Constraint{}, err
	}
	priorityStr, err := atomString(atom.Args[2])
	if err != nil {
		return types.Constraint{}, err
	}
	severityStr, err := atomString(atom.Args[3])
	if err != nil {
		return types.Constraint{}, err
	}
	enforcementJSON, err := atomString(atom.Args[4])
	if err != nil {
		return types.Constraint{}, err
	}

	var enforcement types.Enforcement
	if err := json.Unmarshal([]byte(enforcementJSON), &enforcement); err != nil {
		return types.Constraint{}, fmt.Errorf("constraint %q: decoding enforcement: %w", name, err)
	}

	priority, err := types.ParsePriority(strings.ToLower(priorityStr))
	if err != nil {
		return types.Constraint{}, fmt.Errorf("constraint %q: %w", name, err)
	}

	c, err := types.NewConstraint(types.Kind(kindStr), name, priority, types.Severity(severityStr), enforcement,
		types.Source{Tag: types.SourceDSL})
	if err != nil {
		return types.Constraint{}, err
	}
	return c, nil
}

func atomString(term ast.BaseTerm) (string, error) {
	c, ok := term.(ast.Constant)
	if !ok {
		return "", fmt.Errorf("expected constant term, got %T", term)
	}
	switch c.Type {
	case ast.StringType, ast.NameType:
		return strings.TrimPrefix(c.Symbol, "/"), nil
	default:
		return c.String(), nil
	}
}
