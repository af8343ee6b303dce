package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"tunedb/internal/diagfmt"
	"tunedb/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [file.abc]",
	Short: "Check an ABC file for syntax problems",
	Long:  `Check parses an ABC file (or standard input) and reports every syntax problem it finds`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("no-rules", false, "omit the grammar rule path from the caret line")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	noRules, err := cmd.Flags().GetBool("no-rules")
	if err != nil {
		return fmt.Errorf("failed to get no-rules flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	result, err := checkInput(args, maxDiagnostics)
	if err != nil {
		return err
	}

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	switch format {
	case "pretty":
		diagfmt.Pretty(os.Stdout, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stdout),
			PathMode:  pathMode,
			ShowNotes: withNotes,
			ShowRules: !noRules,
		})
		if !quiet && result.Bag.ErrorCount() > 0 {
			fmt.Fprintln(os.Stdout, diagfmt.Summary(result.Bag.ErrorCount()))
		}
	case "json":
		err := diagfmt.JSON(os.Stdout, result.Bag, result.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     withNotes,
			IncludeRules:     !noRules,
		})
		if err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if result.Bag.HasErrors() {
		return failQuietly(cmd)
	}
	return nil
}

// checkInput parses the named file, or standard input when no file (or
// "-") was given.
func checkInput(args []string, maxDiagnostics int) (*driver.CheckResult, error) {
	if len(args) == 0 || args[0] == "-" {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return driver.CheckBytes("<stdin>", content, maxDiagnostics), nil
	}
	result, err := driver.CheckFile(args[0], maxDiagnostics)
	if err != nil {
		return nil, fmt.Errorf("failed to load file: %w", err)
	}
	return result, nil
}
