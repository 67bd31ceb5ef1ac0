package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"constraintcore"
	"constraintcore/internal/config"
	"constraintcore/internal/types"
)

var (
	extractLanguage string
	extractOut      string
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Run CLEW extraction on a source file and print the constraint set",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractLanguage, "language", "", "source language tag (required)")
	extractCmd.Flags().StringVar(&extractOut, "out", "", "write canonical JSON to this path instead of stdout")
	extractCmd.MarkFlagRequired("language")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	eng, err := constraintcore.New(cfg, logger)
	if err != nil {
		return err
	}

	set, err := eng.ExtractFile(context.Background(), args[0], types.Language(extractLanguage))
	if err != nil {
		return err
	}

	out, err := types.CanonicalJSON(set)
	if err != nil {
		return err
	}
	return writeOutput(out, extractOut)
}

func writeOutput(data []byte, path string) error {
	if path == "" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
