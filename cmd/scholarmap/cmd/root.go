// Package cmd implements the scholarmap command line interface.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scholarmap/scholarmap/internal/config"
	"github.com/scholarmap/scholarmap/internal/store"
	"github.com/scholarmap/scholarmap/pkg/logging"
)

var (
	configFile string
	dbPath     string
	logLevel   string
	verbose    bool
	quiet      bool

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "scholarmap",
	Short: "Faculty record reconciliation and confidence scoring",
	Long: `Scholarmap maintains a durable store of faculty records, reconciles
them against external scholarly sources, and scores each record's
completeness as a confidence value.

Records are imported from scraped JSON or YAML files, deduplicated by
fuzzy name matching, verified against DBLP, OpenAlex, and the records'
own web pages, and exported with re-validated URLs.`,
}

// Execute runs the root command with signal-aware context.
func Execute(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date
	rootCmd.Version = version

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.scholarmap.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the sqlite record store")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "warnings and errors only")

	if err := viper.BindPFlag(config.KeyDBPath, rootCmd.PersistentFlags().Lookup("db")); err != nil {
		panic(err)
	}
}

// initConfig reads in config file and environment variables if set.
func initConfig() {
	// .env files load before viper env binding so both see the values.
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".scholarmap")
	}

	config.SetDefaults()
	config.BindEnv()
	_ = viper.ReadInConfig()

	configureLogging()
}

// configureLogging sets the global level from flags and environment.
func configureLogging() {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	if quiet {
		level = zerolog.WarnLevel
	}
	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		if parsed, err := zerolog.ParseLevel(envLevel); err == nil {
			level = parsed
		}
	}
	if logLevel != "" {
		if parsed, err := zerolog.ParseLevel(logLevel); err == nil {
			level = parsed
		}
	}
	logging.SetLevel(level)
}

// openStore opens the configured record store for one command invocation.
func openStore() (*store.Store, config.Config, error) {
	cfg := config.Load()
	s, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, cfg, err
	}
	return s, cfg, nil
}
