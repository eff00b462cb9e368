package main

import (
	"fmt"
	"os"

	"github.com/fakekoji/otool/pkg/log"
	"github.com/fakekoji/otool/pkg/manager"
	"github.com/fakekoji/otool/pkg/metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "otool",
	Short: "otool - CI configuration editor",
	Long: `otool edits the configuration records of a CI and test execution
backend: tasks, JDK projects, JDK test projects and platforms.

Records live in a local store under the data directory. Every change goes
through an editor that loads the stored record, applies field changes,
drops blank list entries and submits a create or an update.`,
	Version:           Version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// cfg is the effective configuration after the config file and flags
var cfg = defaultConfig()

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"otool version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	addGlobalFlags(rootCmd.PersistentFlags())
}

func addGlobalFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "YAML config file")
	fs.String("data-dir", cfg.DataDir, "Data directory for the configuration store")
	fs.String("log-level", cfg.Log.Level, "Log level (debug, info, warn, error)")
	fs.Bool("log-json", cfg.Log.JSON, "Log in JSON even on a terminal")
}

// setup loads the config file, lets explicitly set flags override it and
// initializes logging
func setup(cmd *cobra.Command, args []string) error {
	fs := cmd.Flags()

	if path, _ := fs.GetString("config"); path != "" {
		loaded, err := loadConfig(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if fs.Changed("data-dir") {
		cfg.DataDir, _ = fs.GetString("data-dir")
	}
	if fs.Changed("log-level") {
		cfg.Log.Level, _ = fs.GetString("log-level")
	}
	if fs.Changed("log-json") {
		cfg.Log.JSON, _ = fs.GetBool("log-json")
	}

	log.Init(log.Config{
		Level:      log.Level(cfg.Log.Level),
		JSONOutput: cfg.Log.JSON,
	})
	metrics.SetVersion(Version)
	return nil
}

// openManager opens the store in the configured data directory and
// bootstraps raft
func openManager(c Config) (*manager.Manager, error) {
	mgr, err := manager.NewManager(&manager.Config{
		NodeID:   c.NodeID,
		BindAddr: c.BindAddr,
		DataDir:  c.DataDir,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create manager: %w", err)
	}

	if err := mgr.Bootstrap(); err != nil {
		_ = mgr.Shutdown()
		return nil, fmt.Errorf("failed to bootstrap store: %w", err)
	}
	return mgr, nil
}
