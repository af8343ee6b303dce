package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"tunedb/internal/storage"
	"tunedb/internal/ui"
)

var scanCmd = &cobra.Command{
	Use:   "scan [flags] [directory]",
	Short: "Scan a corpus directory into the blob cache",
	Long: `Scan walks a directory for tune files named <id>.abc, loads the ones not
yet cached, and rewrites the blob cache and its sidecar index`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
}

func runScan(cmd *cobra.Command, args []string) error {
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
	if len(args) == 1 {
		cfg.Base = args[0]
	}
	if jobs == 0 {
		jobs = cfg.Jobs
	}

	cache := storage.NewCache()
	blobPath := cfg.CachePath()
	if err := cache.LoadBlobIndexed(blobPath, cfg.DebugMaxID); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load blob cache: %w", err)
	}

	var added int
	if !quiet && isTerminal(os.Stdout) {
		added, err = scanWithUI(cmd, cfg.Base, cache, jobs)
	} else {
		added, err = storage.ScanDir(cmd.Context(), cfg.Base, cache, jobs, nil)
	}
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if added > 0 {
		if err := cache.SaveBlob(blobPath); err != nil {
			return fmt.Errorf("failed to save blob cache: %w", err)
		}
	}

	if !quiet {
		fmt.Fprintf(os.Stdout, "added %d tunes (%d cached in %s)\n", added, cache.Len(), blobPath)
	}
	return nil
}

// scanWithUI runs the scan behind an interactive progress display. The
// scanner runs in its own goroutine; closing the event channel tells
// the model to quit.
func scanWithUI(cmd *cobra.Command, dir string, cache *storage.Cache, jobs int) (int, error) {
	events := make(chan storage.ScanEvent, 64)

	var (
		added   int
		scanErr error
	)
	go func() {
		defer close(events)
		added, scanErr = storage.ScanDir(cmd.Context(), dir, cache, jobs, func(ev storage.ScanEvent) {
			events <- ev
		})
	}()

	prog := tea.NewProgram(ui.NewScanModel("scanning "+dir, events))
	if _, err := prog.Run(); err != nil {
		return added, err
	}
	return added, scanErr
}
