package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/JonMunkholm/schoolreport/internal/config"
	"github.com/JonMunkholm/schoolreport/internal/loader"
	"github.com/JonMunkholm/schoolreport/internal/logging"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

// NB: Set with -ldflags at build time.
var version = "dev"

func main() {
	app := &cli.Command{
		Name:  "loader",
		Usage: "Load SQL and CSV setup scripts into the school report database",
		Description: `loader runs every .sql file in the scripts directory in name order,
one transaction per file. \copy directives bulk load the named CSV file into
the table; any failing row rolls back that file only, and the run moves on.`,
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "optional YAML config file",
				Sources: cli.EnvVars(config.FileEnvVar),
			},
			&cli.StringFlag{
				Name:  "scripts-dir",
				Usage: "directory scanned for .sql files (overrides LOADER_SCRIPTS_DIR)",
			},
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "root for relative \\copy paths (overrides LOADER_DATA_DIR)",
			},
			&cli.StringFlag{
				Name:  "driver",
				Usage: "client driver: pgx or pq (overrides DB_DRIVER)",
			},
		},
		Action: run,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// Process exit codes.
const (
	exitOK      = 0
	exitFailure = 1
)

// options are the command-line overrides for the loaded config.
type options struct {
	ConfigPath string
	ScriptsDir string
	DataDir    string
	Driver     string
}

// connectFunc opens the run's session. loader.Open in production.
type connectFunc func(ctx context.Context, driver, connString string) (loader.Session, error)

func run(ctx context.Context, cmd *cli.Command) error {
	// Overload so a local .env wins over stale shell exports
	if err := godotenv.Overload(); err == nil {
		slog.Info("loaded .env file")
	}

	opts := options{
		ConfigPath: cmd.String("config"),
		ScriptsDir: cmd.String("scripts-dir"),
		DataDir:    cmd.String("data-dir"),
		Driver:     cmd.String("driver"),
	}
	if code := execute(ctx, opts, loader.Open, cmd.Writer); code != exitOK {
		return cli.Exit("", code)
	}
	return nil
}

// execute loads the config, runs every script and reports to w. It returns
// the process exit code: 1 for a configuration or connection problem or any
// rolled-back file, 0 otherwise.
func execute(ctx context.Context, opts options, connect connectFunc, w io.Writer) int {
	cfg, err := loadConfig(opts)
	if err != nil {
		if config.IsConfigurationError(err) {
			slog.Error("missing configuration", "error", err)
		} else {
			slog.Error("failed to load configuration", "error", err)
		}
		return exitFailure
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	logger := slog.Default().With("component", "loader")
	logger.Info("configuration loaded",
		"database", cfg.Database.DatabaseName(),
		"driver", cfg.Database.Driver,
		"scripts_dir", cfg.Loader.ScriptsDir,
		"data_dir", cfg.Loader.DataDir,
	)

	sess, err := connect(ctx, cfg.Database.Driver, cfg.Database.ConnString())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return exitFailure
	}
	defer sess.Close(ctx)

	bulk := loader.NewBulkLoader(cfg.Loader.DataDir, cfg.Loader.MaxFileSize, logger)
	runner := loader.NewRunner(cfg.Loader.ScriptsDir, cfg.Loader.MaxFileSize, bulk, logger)

	summary, err := runner.Run(ctx, sess)
	if err != nil {
		logger.Error("run failed", "error", err)
		return exitFailure
	}

	report(w, summary)
	if !summary.OK() {
		return exitFailure
	}
	return exitOK
}

// loadConfig applies opts over the file and environment config.
func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.LoadFile(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if opts.ScriptsDir != "" {
		cfg.Loader.ScriptsDir = opts.ScriptsDir
	}
	if opts.DataDir != "" {
		cfg.Loader.DataDir = opts.DataDir
	}
	if opts.Driver != "" {
		cfg.Database.Driver = opts.Driver
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// report prints one line per script followed by a totals line.
func report(w io.Writer, summary loader.RunSummary) {
	if w == nil {
		w = os.Stdout
	}

	var rows, skipped int
	for _, r := range summary.Results {
		rows += r.Rows
		skipped += r.Skipped

		if r.Committed() {
			fmt.Fprintf(w, "%-12s %s rows=%d skipped=%d statements=%d (%s)\n",
				r.Status, r.File, r.Rows, r.Skipped, r.Statements, r.Duration.Round(time.Millisecond))
			continue
		}
		fmt.Fprintf(w, "%-12s %s [%s] %s\n", r.Status, r.File, r.Kind, r.Error)
	}

	fmt.Fprintf(w, "run %s: %d files, %d failed, %d rows, %d skipped\n",
		summary.RunID, len(summary.Results), len(summary.Failed()), rows, skipped)
}
