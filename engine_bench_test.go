package constraintcore

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"constraintcore/internal/config"
	"constraintcore/internal/types"
)

func benchEngine(b *testing.B) *Engine {
	b.Helper()
	e, err := New(config.Default(), nil)
	if err != nil {
		b.Fatal(err)
	}
	return e
}

func syntheticPythonSource(lines int) []byte {
	var sb strings.Builder
	for i := 0; i < lines; i++ {
		switch i % 4 {
		case 0:
			fmt.Fprintf(&sb, "def handler_%d(payload):\n", i)
		case 1:
			fmt.Fprintf(&sb, "    value_%d = payload.get(%q)\n", i, "key")
		case 2:
			fmt.Fprintf(&sb, "    print(value_%d)\n", i)
		default:
			fmt.Fprintf(&sb, "    return value_%d\n", i)
		}
	}
	return []byte(sb.String())
}

func BenchmarkExtract100LinePythonFile(b *testing.B) {
	e := benchEngine(b)
	source := syntheticPythonSource(100)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Extract(ctx, source, types.LangPython); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkExtract1000LinePythonFile(b *testing.B) {
	e := benchEngine(b)
	source := syntheticPythonSource(1000)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Extract(ctx, source, types.LangPython); err != nil {
			b.Fatal(err)
		}
	}
}

func benchConstraintSet(b *testing.B, n int) *types.ConstraintSet {
	b.Helper()
	set := types.NewConstraintSet()
	for i := 0; i < n; i++ {
		c, err := types.NewConstraint(types.KindTypeSafety, fmt.Sprintf("forbid_type_%03d", i),
			types.PriorityMedium, types.SeverityWarning,
			types.Enforcement{Tag: types.EnforcementType, Type: &types.TypeEnforcement{
				ForbiddenTypes: []string{fmt.Sprintf("Banned%03d", i)},
			}},
			types.Source{Tag: types.SourceManualPolicy})
		if err != nil {
			b.Fatal(err)
		}
		if err := set.Add(c); err != nil {
			b.Fatal(err)
		}
	}
	return set
}

func BenchmarkCompile10ConstraintsCold(b *testing.B) {
	set := benchConstraintSet(b, 10)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// A fresh engine per iteration keeps every compile on the cold path.
		e := benchEngine(b)
		if _, _, err := e.Compile(ctx, set); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompile100ConstraintsCold(b *testing.B) {
	set := benchConstraintSet(b, 100)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e := benchEngine(b)
		if _, _, err := e.Compile(ctx, set); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompileCacheHit(b *testing.B) {
	e := benchEngine(b)
	set := benchConstraintSet(b, 100)
	ctx := context.Background()
	if _, _, err := e.Compile(ctx, set); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := e.Compile(ctx, set); err != nil {
			b.Fatal(err)
		}
	}
}
