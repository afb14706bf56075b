// Command plccompress is a thin reference CLI over the codec: it is not
// part of the codec's correctness contract (§1), it exists so this module
// is a runnable repository rather than a library that is only ever
// imported.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/edmundedgar/plccompress/config"
	"github.com/edmundedgar/plccompress/internal/logging"
)

var cli struct {
	LogLevel     string `help:"Log level: debug, info, warn, error (default info)."`
	StrictSchema bool   `help:"Validate documents against the known PLC operation schema."`

	Compress   CompressCmd   `cmd:"" help:"Compress a chain of CBOR PLC operations into a compressed stream."`
	Decompress DecompressCmd `cmd:"" help:"Decompress a stream back into its original operations."`
	Inspect    InspectCmd    `cmd:"" help:"Print per-document schema findings without changing anything."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("plccompress"),
		kong.Description("Compress and decompress chains of DID:PLC operations for on-chain storage."),
	)

	defaults := config.Defaults(config.Config{LogLevel: "info", StrictSchema: cli.StrictSchema})
	if cli.LogLevel == "" {
		cli.LogLevel = defaults.LogLevel
	}
	if err := logging.SetLevel(cli.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "invalid --log-level %q: %v\n", cli.LogLevel, err)
		os.Exit(1)
	}

	err := ctx.Run(&runContext{strictSchema: cli.StrictSchema || defaults.StrictSchema})
	ctx.FatalIfErrorf(err)
}

// runContext is threaded into every subcommand's Run method by kong.
type runContext struct {
	strictSchema bool
}
