// Package config centralizes runtime settings. Values resolve in the usual
// order: flags bound by the CLI, then SCHOLARMAP_ environment variables,
// then an optional config file, then defaults.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Keys used across commands.
const (
	KeyDBPath          = "db.path"
	KeySourceTimeout   = "verify.source_timeout"
	KeyRecordDelay     = "verify.record_delay"
	KeyMaxRecords      = "verify.max_records"
	KeyExportMinScore  = "export.min_confidence"
	KeyExportConfScore = "export.include_confidence"
)

// Config holds the resolved settings for one invocation.
type Config struct {
	DBPath            string
	SourceTimeout     time.Duration
	RecordDelay       time.Duration
	MaxRecords        int
	ExportMinScore    float64
	IncludeConfidence bool
}

// SetDefaults registers the default values on the global viper instance.
func SetDefaults() {
	viper.SetDefault(KeyDBPath, "faculty.db")
	viper.SetDefault(KeySourceTimeout, 10*time.Second)
	viper.SetDefault(KeyRecordDelay, 2*time.Second)
	viper.SetDefault(KeyMaxRecords, 0)
	viper.SetDefault(KeyExportMinScore, 0.0)
	viper.SetDefault(KeyExportConfScore, true)
}

// BindEnv wires SCHOLARMAP_-prefixed environment variables, so
// SCHOLARMAP_DB_PATH overrides db.path and so on.
func BindEnv() {
	viper.SetEnvPrefix("SCHOLARMAP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
}

// Load materializes the current viper state into a Config.
func Load() Config {
	return Config{
		DBPath:            viper.GetString(KeyDBPath),
		SourceTimeout:     viper.GetDuration(KeySourceTimeout),
		RecordDelay:       viper.GetDuration(KeyRecordDelay),
		MaxRecords:        viper.GetInt(KeyMaxRecords),
		ExportMinScore:    viper.GetFloat64(KeyExportMinScore),
		IncludeConfidence: viper.GetBool(KeyExportConfScore),
	}
}
