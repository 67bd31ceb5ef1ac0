// Package main implements constraintctl, a thin CLI wrapping
// constraintcore's four entry points: init, extract, compile, serialize.
// No business logic lives here.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"constraintcore/internal/logging"
)

var (
	cfgPath string
	debug   bool
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "constraintctl",
	Short: "Extract and compile token-level-enforcement constraints",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(debug)
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		logger = l
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.AddCommand(extractCmd, compileCmd, pipelineCmd, dslCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
