package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"constraintcore"
	"constraintcore/internal/config"
	"constraintcore/internal/types"
)

var dslOut string

var dslCmd = &cobra.Command{
	Use:   "dsl [file]",
	Short: "Parse a declarative constraint DSL file and print the canonical ConstraintSet",
	Args:  cobra.ExactArgs(1),
	RunE:  runDSL,
}

func init() {
	dslCmd.Flags().StringVar(&dslOut, "out", "", "write canonical JSON to this path instead of stdout")
}

func runDSL(cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	eng, err := constraintcore.New(cfg, logger)
	if err != nil {
		return err
	}

	set, err := eng.ParseDSL(string(source))
	if err != nil {
		return err
	}

	out, err := types.CanonicalJSON(set)
	if err != nil {
		return err
	}
	return writeOutput(out, dslOut)
}
