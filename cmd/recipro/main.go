// Recipro scales recipes for a class, combines several of them and turns
// the result into a shopping list.
//
// Usage:
//
//	recipro [--config recipro.yaml] [--verbose] [--quiet]
//	recipro serve
//	recipro scale <recipe> <students>
//	recipro shop <recipe>[:multiplier]...
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipro/internal/auth"
	"github.com/hammamikhairi/recipro/internal/backup"
	"github.com/hammamikhairi/recipro/internal/config"
	"github.com/hammamikhairi/recipro/internal/domain"
	"github.com/hammamikhairi/recipro/internal/engine"
	"github.com/hammamikhairi/recipro/internal/logger"
	"github.com/hammamikhairi/recipro/internal/storage"
)

var version = "dev"

var (
	configPath string
	verbose    bool
	quiet      bool
	logFile    string
	userName   string
)

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "recipro",
	Short: "Scale, combine and shop for recipes",
	Long: `recipro keeps a small recipe library, scales recipes for a class of
students and merges several recipes into one categorised shopping list.

Run without a subcommand for the interactive prompt.`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runInteractive,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "disable all logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "file to write logs to (default from config, else stderr)")
	rootCmd.PersistentFlags().StringVarP(&userName, "user", "u", "", "operator name; admin names unlock export and import")
}

// app is everything a command needs, built from config and flags.
type app struct {
	cfg    *config.Config
	log    *logger.Logger
	store  domain.RecipeStore
	users  domain.UserProvider
	engine *engine.Engine

	closers []io.Closer
}

func (a *app) Close() {
	_ = a.log.Sync()
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
}

// setup loads configuration, opens the store and seeds it if asked to.
// defaultLogFile is used when neither the flag nor the config names one.
func setup(ctx context.Context, defaultLogFile string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}

	level := logger.ParseLevel(cfg.Log.Level)
	if verbose {
		level = logger.LevelVerbose
	}
	if quiet {
		level = logger.LevelOff
	}

	path := logFile
	if path == "" {
		path = cfg.Log.File
	}
	if path == "" {
		path = defaultLogFile
	}
	out, closer := openLogOutput(path)
	if closer != nil {
		a.closers = append(a.closers, closer)
	}
	a.log = logger.New(level, out)

	switch cfg.Store.Driver {
	case config.DriverSQLite:
		s, err := storage.NewSQLiteStore(cfg.Store.Path, a.log)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("opening store: %w", err)
		}
		a.closers = append(a.closers, s)
		a.store = s
	default:
		a.store = storage.NewMemoryStore(a.log)
	}

	if cfg.Store.Seed {
		res, err := backup.SeedDefaults(ctx, a.store, a.log)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("seeding defaults: %w", err)
		}
		a.log.Debug("seeded %d default recipes (%d failed)", res.Successful, res.Failed)
	}

	name := cfg.User.Name
	if userName != "" {
		name = userName
	}
	a.users = auth.NewStaticProvider(name)
	a.engine = engine.New(a.store, a.users, a.log)

	a.log.Info("recipro %s ready (store=%s, user=%s)", version, cfg.Store.Driver, name)
	return a, nil
}

// openLogOutput opens path for appending. "stderr" or an empty path
// means stderr; a file that cannot be opened also falls back to it.
func openLogOutput(path string) (io.Writer, io.Closer) {
	if path == "" || path == "stderr" {
		return os.Stderr, nil
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		_ = os.MkdirAll(dir, 0o755)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", path, err)
		return os.Stderr, nil
	}
	return f, f
}
