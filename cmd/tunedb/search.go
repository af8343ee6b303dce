package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tunedb/internal/ast"
	"tunedb/internal/driver"
	"tunedb/internal/search"
	"tunedb/internal/storage"
)

var searchCmd = &cobra.Command{
	Use:   "search [flags]",
	Short: "Search the scanned corpus",
	Long: `Search queries the blob cache built by scan. A melodic fragment is given
as ABC notes (or raw semitone intervals) and matched independently of
absolute pitch; facets and title terms filter the candidates`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("melody", "", "melodic fragment as ABC notes (e.g. \"CDEc\")")
	searchCmd.Flags().String("intervals", "", "melodic fragment as comma-separated semitone intervals (e.g. 2,2,1,-2)")
	searchCmd.Flags().String("title", "", "title words that must all appear")
	searchCmd.Flags().StringArray("facet", nil, "facet filter as name=value (e.g. rhythm=jig); repeatable")
	searchCmd.Flags().Int("offset", 0, "number of hits to skip")
	searchCmd.Flags().Int("rows", search.DefaultRows, "number of hits to return")
	searchCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	melody, err := cmd.Flags().GetString("melody")
	if err != nil {
		return fmt.Errorf("failed to get melody flag: %w", err)
	}
	intervalsStr, err := cmd.Flags().GetString("intervals")
	if err != nil {
		return fmt.Errorf("failed to get intervals flag: %w", err)
	}
	title, err := cmd.Flags().GetString("title")
	if err != nil {
		return fmt.Errorf("failed to get title flag: %w", err)
	}
	facetArgs, err := cmd.Flags().GetStringArray("facet")
	if err != nil {
		return fmt.Errorf("failed to get facet flag: %w", err)
	}
	offset, err := cmd.Flags().GetInt("offset")
	if err != nil {
		return fmt.Errorf("failed to get offset flag: %w", err)
	}
	rows, err := cmd.Flags().GetInt("rows")
	if err != nil {
		return fmt.Errorf("failed to get rows flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if jobs == 0 {
		jobs = cfg.Jobs
	}

	if melody != "" && intervalsStr != "" {
		return fmt.Errorf("--melody and --intervals cannot be used together")
	}
	intervals, err := parseIntervals(intervalsStr)
	if err != nil {
		return err
	}
	if melody != "" {
		intervals, err = driver.MelodyIntervals(melody)
		if err != nil {
			return err
		}
	}
	facets, err := parseFacets(facetArgs)
	if err != nil {
		return err
	}

	cache := storage.NewCache()
	if err := cache.LoadBlobIndexed(cfg.CachePath(), cfg.DebugMaxID); err != nil {
		return fmt.Errorf("failed to load blob cache (run scan first): %w", err)
	}

	_, results, err := driver.ParseAll(cmd.Context(), cache, cfg.MaxDiagnostics, jobs)
	if err != nil {
		return fmt.Errorf("failed to parse corpus: %w", err)
	}

	index := search.NewIndex()
	tunes := make(map[uint32]*ast.Tune, len(results))
	for _, r := range results {
		if len(r.Tunes) == 0 {
			continue
		}
		index.Add(r.ID, r.Tunes[0])
		tunes[r.ID] = r.Tunes[0]
	}

	result := index.Search(search.Query{
		Intervals: intervals,
		Title:     title,
		Facets:    facets,
		Offset:    offset,
		Rows:      rows,
	})

	if !quiet {
		fmt.Fprintf(os.Stdout, "%d of %d indexed tunes match\n", result.Total, index.Len())
	}
	for _, hit := range result.Hits {
		name := "(untitled)"
		if t := tunes[hit.ID]; t != nil {
			if titles := t.Titles(); len(titles) > 0 {
				name = titles[0]
			}
		}
		fmt.Fprintf(os.Stdout, "%6d  %.3f  %s\n", hit.ID, hit.Score, name)
	}
	return nil
}

func parseIntervals(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("bad interval %q: %w", p, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func parseFacets(args []string) (map[string]string, error) {
	if len(args) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" || value == "" {
			return nil, fmt.Errorf("bad facet %q (must be name=value)", arg)
		}
		out[name] = value
	}
	return out, nil
}
