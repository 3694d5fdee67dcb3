package loader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/zeebo/xxh3"
)

// Runner loads every script in a directory, one transaction per script,
// strictly in lexicographic order on a single session.
type Runner struct {
	ScriptsDir  string
	MaxFileSize int64
	Loader      *BulkLoader
	Logger      *slog.Logger
}

// NewRunner creates a Runner for scriptsDir using loader for each script.
func NewRunner(scriptsDir string, maxFileSize int64, loader *BulkLoader, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		ScriptsDir:  scriptsDir,
		MaxFileSize: maxFileSize,
		Loader:      loader,
		Logger:      logger,
	}
}

// DiscoverScripts lists the .sql files in dir (suffix matched case-insensitively),
// sorted by name. A missing directory yields no scripts and no error.
func DiscoverScripts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "list %s", dir)
	}

	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Run loads every script. A failing script is rolled back and reported, and
// the run moves on to the next one. The error is non-nil only when the
// directory itself cannot be listed.
func (r *Runner) Run(ctx context.Context, sess Session) (RunSummary, error) {
	summary := RunSummary{RunID: uuid.NewString()}
	logger := r.Logger.With("run_id", summary.RunID)

	names, err := DiscoverScripts(r.ScriptsDir)
	if err != nil {
		return summary, err
	}
	if len(names) == 0 {
		logger.Info("no .sql files found, nothing to do", "dir", r.ScriptsDir)
		return summary, nil
	}
	logger.Info("found scripts", "dir", r.ScriptsDir, "count", len(names))

	loader := *r.Loader
	loader.Logger = logger

	for _, name := range names {
		summary.Results = append(summary.Results, r.runScript(ctx, sess, &loader, logger, name))
	}

	if failed := summary.Failed(); len(failed) > 0 {
		logger.Error("one or more scripts failed", "failed", len(failed), "total", len(names))
	} else {
		logger.Info("all scripts committed", "total", len(names))
	}
	return summary, nil
}

func (r *Runner) runScript(ctx context.Context, sess Session, loader *BulkLoader, logger *slog.Logger, name string) LoadResult {
	path := filepath.Join(r.ScriptsDir, name)
	start := time.Now()

	raw, err := ReadFile(path, r.MaxFileSize)
	if err != nil {
		result := LoadResult{File: name, Duration: time.Since(start)}
		result.fail(err)
		logger.Error("script unreadable", "file", name, "error", err)
		return result
	}

	result := loader.LoadScript(ctx, sess, name, string(raw))
	result.Checksum = Checksum(raw)
	return result
}

// Checksum returns the hex xxh3 digest of b.
func Checksum(b []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(b))
}
