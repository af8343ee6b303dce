package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tunedb/internal/diagfmt"
	"tunedb/internal/typeset"
)

var typesetCmd = &cobra.Command{
	Use:   "typeset [flags] file.abc",
	Short: "Render a tune as an SVG staff",
	Long:  `Typeset parses an ABC file and renders one of its tunes onto a single-system SVG staff`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTypeset,
}

func init() {
	typesetCmd.Flags().StringP("out", "o", "", "output file (default: stdout)")
	typesetCmd.Flags().Int("tune", 0, "X: reference number of the tune to render (default: first)")
}

func runTypeset(cmd *cobra.Command, args []string) error {
	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}
	ref, err := cmd.Flags().GetInt("tune")
	if err != nil {
		return fmt.Errorf("failed to get tune flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
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
	if len(result.Tunes) == 0 {
		return fmt.Errorf("no tunes in %s", args[0])
	}

	tune := result.Tunes[0]
	if ref != 0 {
		tune = nil
		for _, t := range result.Tunes {
			if t.Ref == ref {
				tune = t
				break
			}
		}
		if tune == nil {
			return fmt.Errorf("no tune with reference number %d in %s", ref, args[0])
		}
	}

	svg := typeset.Render(tune)
	if outPath == "" {
		fmt.Fprint(os.Stdout, svg)
		return nil
	}
	if err := os.WriteFile(outPath, []byte(svg), 0o644); err != nil {
		return fmt.Errorf("failed to write SVG: %w", err)
	}
	return nil
}
