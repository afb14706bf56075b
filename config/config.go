// Package config supplies environment-variable overrides for the CLI's
// tunables, layered underneath the flags kong parses directly. Flags win
// over environment, environment wins over the struct defaults.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds the tunables shared by every plccompress subcommand.
type Config struct {
	LogLevel     string `mapstructure:"log-level"`
	StrictSchema bool   `mapstructure:"strict-schema"`
}

// Defaults returns a Config seeded from PLCCOMPRESS_* environment
// variables, falling back to the given defaults for anything unset. The
// CLI overlays its own parsed flags on top of whatever this returns.
func Defaults(fallback Config) Config {
	v := viper.New()
	v.SetEnvPrefix("PLCCOMPRESS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault("log-level", fallback.LogLevel)
	v.SetDefault("strict-schema", fallback.StrictSchema)

	return Config{
		LogLevel:     v.GetString("log-level"),
		StrictSchema: v.GetBool("strict-schema"),
	}
}
