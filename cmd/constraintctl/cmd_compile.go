package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"constraintcore"
	"constraintcore/internal/config"
	"constraintcore/internal/ir"
	"constraintcore/internal/types"
)

var (
	compileOutDir string
)

var compileCmd = &cobra.Command{
	Use:   "compile [constraint-set.json]",
	Short: "Run BRAID compilation on a canonical ConstraintSet and write the serialized IR",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompile,
}

func init() {
	compileCmd.Flags().StringVar(&compileOutDir, "out-dir", ".", "directory to write serialized IR artifacts into")
}

func runCompile(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	set, err := decodeConstraintSet(raw)
	if err != nil {
		return fmt.Errorf("parsing constraint set: %w", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	eng, err := constraintcore.New(cfg, logger)
	if err != nil {
		return err
	}

	constraintIR, manifest, err := eng.Compile(context.Background(), set)
	if err != nil {
		return err
	}

	artifact, err := constraintcore.Serialize(constraintIR, manifest)
	if err != nil {
		return err
	}
	return writeArtifact(artifact, compileOutDir)
}

// decodeConstraintSet parses the CanonicalJSON array produced by `extract`
// back into a ConstraintSet, re-validating each constraint on insert.
func decodeConstraintSet(raw []byte) (*types.ConstraintSet, error) {
	var docs []struct {
		Kind        types.Kind        `json:"kind"`
		Name        string            `json:"name"`
		Priority    string            `json:"priority"`
		Severity    types.Severity    `json:"severity"`
		Enforcement types.Enforcement `json:"enforcement"`
		SourceTag   types.SourceTag   `json:"source_tag"`
		Produces    []string          `json:"produces,omitempty"`
		Consumes    []string          `json:"consumes,omitempty"`
		Provenance  *types.Provenance `json:"provenance,omitempty"`
	}
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}

	set := types.NewConstraintSet()
	for _, d := range docs {
		priority, err := types.ParsePriority(d.Priority)
		if err != nil {
			return nil, err
		}
		c, err := types.NewConstraint(d.Kind, d.Name, priority, d.Severity, d.Enforcement, types.Source{Tag: d.SourceTag})
		if err != nil {
			return nil, err
		}
		c.Produces = d.Produces
		c.Consumes = d.Consumes
		c.Provenance = d.Provenance
		if err := set.Add(c); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// writeArtifact writes each populated IR fragment plus the manifest to
// out-dir, one file per artifact kind.
func writeArtifact(a ir.Artifact, dir string) error {
	files := map[string][]byte{
		"schema.json":     a.JSONSchema,
		"grammar.ebnf":    a.Grammar,
		"regex.json":      a.Regex,
		"token_mask.json": a.TokenMask,
		"manifest.json":   a.Manifest,
	}
	for name, data := range files {
		if data == nil {
			continue
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return nil
}
