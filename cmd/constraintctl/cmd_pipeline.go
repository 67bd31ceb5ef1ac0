package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"constraintcore"
	"constraintcore/internal/config"
	"constraintcore/internal/types"
)

var (
	pipelineLanguage string
	pipelineOutDir   string
)

var pipelineCmd = &cobra.Command{
	Use:   "pipeline [file]",
	Short: "Extract then compile a single source file in one step",
	Args:  cobra.ExactArgs(1),
	RunE:  runPipeline,
}

func init() {
	pipelineCmd.Flags().StringVar(&pipelineLanguage, "language", "", "source language tag (required)")
	pipelineCmd.Flags().StringVar(&pipelineOutDir, "out-dir", ".", "directory to write serialized IR artifacts into")
	pipelineCmd.MarkFlagRequired("language")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	eng, err := constraintcore.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx := context.Background()
	set, err := eng.ExtractFile(ctx, args[0], types.Language(pipelineLanguage))
	if err != nil {
		return err
	}
	if set.Partial {
		fmt.Fprintln(os.Stderr, "warning: extraction fell back to the scanner for part of this source")
	}

	constraintIR, manifest, err := eng.Compile(ctx, set)
	if err != nil {
		return err
	}

	artifact, err := constraintcore.Serialize(constraintIR, manifest)
	if err != nil {
		return err
	}
	return writeArtifact(artifact, pipelineOutDir)
}
