package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tunedb/internal/abcout"
	"tunedb/internal/diagfmt"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup [flags] [file.abc]",
	Short: "Rewrite an ABC file in canonical form",
	Long: `Cleanup parses an ABC file (or standard input) and prints it back in a
canonical spelling: normalized spacing, explicit durations, full mode names.
A file with syntax errors is reported and left untouched`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCleanup,
}

func init() {
	cleanupCmd.Flags().BoolP("write", "w", false, "rewrite the file in place instead of printing")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	write, err := cmd.Flags().GetBool("write")
	if err != nil {
		return fmt.Errorf("failed to get write flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if write && (len(args) == 0 || args[0] == "-") {
		return fmt.Errorf("--write requires a file argument")
	}

	result, err := checkInput(args, maxDiagnostics)
	if err != nil {
		return err
	}

	if result.Bag.HasErrors() {
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stderr),
			ShowRules: true,
		})
		fmt.Fprintln(os.Stderr, diagfmt.Summary(result.Bag.ErrorCount()))
		return failQuietly(cmd)
	}

	output := abcout.SerializeAll(result.Tunes)
	if write {
		if err := os.WriteFile(args[0], []byte(output), 0o644); err != nil {
			return fmt.Errorf("failed to rewrite file: %w", err)
		}
		return nil
	}
	fmt.Fprint(os.Stdout, output)
	return nil
}
