package main

import (
	"fmt"
	"os"

	"github.com/edmundedgar/plccompress/cborval"
	"github.com/edmundedgar/plccompress/diffapply"
	"github.com/edmundedgar/plccompress/internal/logging"
	"github.com/edmundedgar/plccompress/plcop"
	"github.com/edmundedgar/plccompress/stream"
)

// CompressCmd reads a chain from raw CBOR files — the full operation plus
// its diffs, in the Document/EditScript shapes defined by stream.Encode's
// caller contract — and writes the compressed stream to Out.
//
// Diff *computation* is out of scope for this codec (§1): Compress only
// frames and tag-compresses whatever full document and edit scripts the
// caller already produced; it does not compute a diff between two
// documents itself.
type CompressCmd struct {
	FullDoc string   `arg:"" help:"Path to the full operation, raw CBOR bytes."`
	Diffs   []string `arg:"" optional:"" help:"Paths to edit-script documents, raw CBOR bytes, in chain order."`
	Out     string   `help:"Output path for the compressed stream." default:"-"`
}

func (c *CompressCmd) Run(rc *runContext) error {
	fullBytes, err := os.ReadFile(c.FullDoc)
	if err != nil {
		return err
	}
	full, err := cborval.Decode(fullBytes)
	if err != nil {
		return err
	}
	if rc.strictSchema {
		if err := (plcop.Validator{}).Validate(full); err != nil {
			return fmt.Errorf("full document failed schema validation: %w", err)
		}
	}

	scripts := make([]diffapply.EditScript, 0, len(c.Diffs))
	for _, p := range c.Diffs {
		raw, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		v, err := cborval.Decode(raw)
		if err != nil {
			return err
		}
		es, err := diffapply.ParseEditScript(v)
		if err != nil {
			return err
		}
		scripts = append(scripts, es)
	}

	out, err := openOut(c.Out)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := stream.Encode(out, full, scripts); err != nil {
		return err
	}
	logging.L().Info().Int("diffs", len(scripts)).Msg("compressed chain")
	return nil
}

// DecompressCmd reads a compressed stream and writes each decoded
// document, raw CBOR bytes back to back, to Out.
type DecompressCmd struct {
	In  string `arg:"" help:"Path to the compressed stream."`
	Out string `help:"Output path for the decoded documents." default:"-"`
}

func (c *DecompressCmd) Run(rc *runContext) error {
	data, err := os.ReadFile(c.In)
	if err != nil {
		return err
	}
	docs, err := stream.DecodeChain(data)
	if err != nil {
		return err
	}

	out, err := openOut(c.Out)
	if err != nil {
		return err
	}
	defer out.Close()

	for i, doc := range docs {
		if rc.strictSchema {
			if err := (plcop.Validator{}).Validate(doc); err != nil {
				return fmt.Errorf("document %d failed schema validation: %w", i, err)
			}
		}
		raw, err := cborval.Encode(doc)
		if err != nil {
			return err
		}
		if _, err := out.Write(raw); err != nil {
			return err
		}
	}
	logging.L().Info().Int("docs", len(docs)).Msg("decompressed chain")
	return nil
}

// InspectCmd decodes a stream and reports schema findings per document
// without writing anything out.
type InspectCmd struct {
	In string `arg:"" help:"Path to the compressed stream."`
}

func (c *InspectCmd) Run(rc *runContext) error {
	data, err := os.ReadFile(c.In)
	if err != nil {
		return err
	}
	docs, err := stream.DecodeChain(data)
	if err != nil {
		return err
	}

	v := plcop.Validator{StrictFieldOrder: rc.strictSchema}
	for i, doc := range docs {
		if err := v.Validate(doc); err != nil {
			fmt.Printf("document %d: %v\n", i, err)
			continue
		}
		fmt.Printf("document %d: ok\n", i)
	}
	return nil
}

func openOut(path string) (*os.File, error) {
	if path == "" || path == "-" {
		return os.Stdout, nil
	}
	return os.Create(path)
}
