package tagcodec

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/edmundedgar/plccompress/cborval"
)

var knownKeyNames = func() []string {
	names := make([]string, 0, len(KeyTags))
	for name := range KeyTags {
		names = append(names, name)
	}
	return names
}()

// TestPropertyKnownKeyRoundTrip checks that compressing any known field
// name into its tag and decompressing it at a map-key position always
// recovers the original name, whatever scalar value sits alongside it.
func TestPropertyKnownKeyRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.SampledFrom(knownKeyNames).Draw(t, "keyName")
		val := cborval.Text(rapid.StringN(0, 12, -1).Draw(t, "val"))
		doc := cborval.Map(cborval.Pair{Key: cborval.Text(name), Val: val})

		compressed := Compress(doc)
		decompressed, err := Decompress(compressed)
		if err != nil {
			t.Fatalf("Decompress: %v", err)
		}
		if !cborval.Equal(doc, decompressed) {
			t.Fatalf("round trip mismatch for key %q: %+v != %+v", name, doc, decompressed)
		}
	})
}

// TestPropertyUnknownKeyPassesThroughUnchanged checks that arbitrary
// non-field-name keys survive Compress/Decompress unchanged.
func TestPropertyUnknownKeyPassesThroughUnchanged(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.StringN(1, 12, -1).Draw(t, "keyName")
		if _, known := KeyTags[name]; known {
			t.Skip("sampled a known key name")
		}
		doc := cborval.Map(cborval.Pair{Key: cborval.Text(name), Val: cborval.Uint(1)})

		compressed := Compress(doc)
		decompressed, err := Decompress(compressed)
		if err != nil {
			t.Fatalf("Decompress: %v", err)
		}
		if !cborval.Equal(doc, decompressed) {
			t.Fatalf("unknown key %q was altered", name)
		}
	})
}
