package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"learnrag/internal/adapter/fs"
	"learnrag/internal/usecase"
)

// ingestPaths loads every file or directory in paths into the engine,
// drawing a progress bar on stderr so stdout stays clean for results.
func ingestPaths(engine *usecase.Engine, paths []string) (*usecase.IngestDirResult, error) {
	cfg := GetConfig()
	walker := fs.NewWalker(cfg.Ingest.Includes, cfg.Ingest.Excludes)
	reader := fs.NewTextReader(cfg.Ingest.MaxFileBytes)

	total := &usecase.IngestDirResult{}
	for _, p := range paths {
		path, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("path does not exist: %w", err)
		}

		result, err := engine.IngestDir(path, walker, reader, newProgress())
		if err != nil {
			return nil, fmt.Errorf("ingestion failed: %w", err)
		}

		total.FilesIngested += result.FilesIngested
		total.FilesSkipped += result.FilesSkipped
		total.ChunksCreated += result.ChunksCreated
		total.Documents = append(total.Documents, result.Documents...)
		total.Errors = append(total.Errors, result.Errors...)
	}

	return total, nil
}

// newProgress returns a callback that lazily creates a bar once the file
// count is known.
func newProgress() usecase.ProgressFunc {
	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	var startTime time.Time

	return func(processed, total int, currentFile string) {
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Ingesting[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(os.Stderr)
				}),
			)
		}

		_ = bar.Set(processed)

		if processed > 0 {
			elapsed := time.Since(startTime)
			rate := float64(processed) / elapsed.Seconds()
			remaining := total - processed
			if rate > 0 {
				eta := time.Duration(float64(remaining)/rate) * time.Second
				bar.Describe(fmt.Sprintf("[cyan]Ingesting[reset] ETA: %s", formatDuration(eta)))
			}
		}
	}
}

func printIngestSummary(result *usecase.IngestDirResult) {
	fmt.Fprintf(os.Stderr, "Ingested %d files (%d skipped), %d chunks\n",
		result.FilesIngested, result.FilesSkipped, result.ChunksCreated)
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "  - %s\n", e)
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
