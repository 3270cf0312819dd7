package sched

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// CleanupWorker sweeps old homework PDFs out of the output directory so the
// disk does not fill up with artifacts nobody will re-send.
type CleanupWorker struct {
	interval  time.Duration
	outputDir string
	retention time.Duration
	log       *zerolog.Logger
}

func NewCleanupWorker(interval time.Duration, outputDir string, retention time.Duration, logger *zerolog.Logger) *CleanupWorker {
	compLog := logger.With().Str("component", "CleanupWorker").Logger()
	return &CleanupWorker{
		interval:  interval,
		outputDir: outputDir,
		retention: retention,
		log:       &compLog,
	}
}

func (w *CleanupWorker) Run(ctx context.Context) error {
	if w.retention <= 0 {
		w.log.Info().Msg("artifact retention disabled; cleanup worker idle")
		<-ctx.Done()
		return ctx.Err()
	}

	w.log.Info().Dur("retention", w.retention).Msg("Starting cleanup worker")
	// Run once on startup, then on every tick
	w.sweep()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping cleanup worker")
			return ctx.Err()
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *CleanupWorker) sweep() {
	cutoff := time.Now().Add(-w.retention)

	entries, err := os.ReadDir(w.outputDir)
	if err != nil {
		w.log.Error().Err(err).Str("dir", w.outputDir).Msg("read output dir failed")
		return
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".pdf") {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(w.outputDir, e.Name())
		if err := os.Remove(path); err != nil {
			w.log.Warn().Err(err).Str("path", path).Msg("remove artifact failed")
			continue
		}
		removed++
	}
	if removed > 0 {
		w.log.Info().Int("count", removed).Msg("old artifacts removed")
	}
}
