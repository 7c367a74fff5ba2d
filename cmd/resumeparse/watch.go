package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/muhammadolammi/resumeintake/internal/config"
	"github.com/muhammadolammi/resumeintake/internal/extractor"
	"github.com/muhammadolammi/resumeintake/internal/intake"
	"github.com/spf13/cobra"
)

const (
	parsedSuffix       = ".parsed.json"
	defaultQuietPeriod = 500 * time.Millisecond
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Parse resumes as they land in a directory",
	Long:  "Watches a directory and writes <file>.parsed.json next to every PDF, DOCX or TXT resume that is created or modified.",
	RunE:  runWatch,
}

var (
	watchDir      string
	watchExisting bool
	watchQuiet    time.Duration
)

func init() {
	watchCmd.Flags().StringVarP(&watchDir, "dir", "d", "", "Directory to watch (required)")
	watchCmd.Flags().BoolVar(&watchExisting, "existing", true, "Parse files already in the directory on startup")
	watchCmd.Flags().DurationVar(&watchQuiet, "quiet", defaultQuietPeriod, "Wait this long after the last write before parsing a file")

	if err := watchCmd.MarkFlagRequired("dir"); err != nil {
		panic(fmt.Sprintf("failed to mark dir flag as required: %v", err))
	}

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	log := newLogger(cmd.ErrOrStderr())
	pipeline, cfg, err := loadPipeline(log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := &dirWatcher{pipeline: pipeline, limits: cfg, quiet: watchQuiet, log: log}
	return w.run(ctx, watchDir, watchExisting)
}

// dirWatcher parses a file once it has gone quiet for the quiet period.
type dirWatcher struct {
	pipeline *intake.Pipeline
	limits   config.Extraction
	quiet    time.Duration
	log      *slog.Logger
}

// debouncer tracks the last event time per path and releases paths that have been quiet
// for the configured period.
type debouncer struct {
	quiet   time.Duration
	pending map[string]time.Time
}

func newDebouncer(quiet time.Duration) *debouncer {
	return &debouncer{quiet: quiet, pending: make(map[string]time.Time)}
}

func (d *debouncer) touch(path string, at time.Time) {
	d.pending[path] = at
}

// due removes and returns, sorted, the paths whose last event is at least quiet before now.
func (d *debouncer) due(now time.Time) []string {
	var ready []string
	for path, last := range d.pending {
		if now.Sub(last) >= d.quiet {
			ready = append(ready, path)
			delete(d.pending, path)
		}
	}
	sort.Strings(ready)
	return ready
}

// outputPath returns where the parsed record for path is written.
func outputPath(path string) string {
	return path + parsedSuffix
}

// handleFile parses one file and writes its record. It reports false for files it ignores.
func (w *dirWatcher) handleFile(ctx context.Context, path string) (bool, error) {
	if strings.HasSuffix(path, parsedSuffix) {
		return false, nil
	}
	if _, ok := extractor.FormatFor(extractor.Extension(path)); !ok {
		return false, nil
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false, nil
	}
	if err := checkSize(path, w.limits); err != nil {
		return false, err
	}

	analysis := w.pipeline.AnalyzeFile(ctx, path)
	if err := writeJSONFile(outputPath(path), analysis); err != nil {
		return false, err
	}
	return true, nil
}

func (w *dirWatcher) process(ctx context.Context, path string) {
	handled, err := w.handleFile(ctx, path)
	switch {
	case err != nil:
		w.log.Warn("failed to process file", "file", path, "error", err)
	case handled:
		w.log.Info("parsed resume", "file", path, "out", outputPath(path))
	}
}

// run processes the directory until ctx is cancelled.
func (w *dirWatcher) run(ctx context.Context, dir string, existing bool) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	if existing {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("failed to list %s: %w", dir, err)
		}
		for _, e := range entries {
			if !e.IsDir() {
				w.process(ctx, filepath.Join(dir, e.Name()))
			}
		}
	}

	quiet := w.quiet
	if quiet <= 0 {
		quiet = defaultQuietPeriod
	}
	pending := newDebouncer(quiet)
	ticker := time.NewTicker(max(quiet/4, 10*time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			pending.touch(event.Name, time.Now())
		case now := <-ticker.C:
			for _, path := range pending.due(now) {
				w.process(ctx, path)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", "error", err)
		}
	}
}
