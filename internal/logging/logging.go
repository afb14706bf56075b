// Package logging wires the module's zerolog logger. Codec packages
// (cborval, index, tagcodec, diffapply) are pure functions and never log;
// only the stream and cmd/plccompress service boundaries do, matching the
// "library core is silent, service boundary logs" convention.
package logging

import (
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
)

var current atomic.Value // holds zerolog.Logger

func init() {
	current.Store(zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger())
}

// Set installs lg as the module-wide logger, e.g. after the CLI parses
// --log-level.
func Set(lg zerolog.Logger) {
	current.Store(lg)
}

// L returns the current module-wide logger.
func L() zerolog.Logger {
	return current.Load().(zerolog.Logger)
}

// SetLevel parses a zerolog level name ("debug", "info", "warn", "error")
// and applies it to the current logger.
func SetLevel(name string) error {
	lvl, err := zerolog.ParseLevel(name)
	if err != nil {
		return err
	}
	Set(L().Level(lvl))
	return nil
}
