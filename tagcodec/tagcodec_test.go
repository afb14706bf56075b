package tagcodec

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edmundedgar/plccompress/cborval"
)

func sig86() string {
	raw := make([]byte, 64)
	for i := range raw {
		raw[i] = byte(i)
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

func TestCompressDecompressRoundTripKnownKeyAndSig(t *testing.T) {
	sig := sig86()
	doc := cborval.Map(
		cborval.Pair{Key: cborval.Text("sig"), Val: cborval.Text(sig)},
		cborval.Pair{Key: cborval.Text("unknownField"), Val: cborval.Text("plain")},
	)

	compressed := Compress(doc)
	require.Equal(t, cborval.KindTag, compressed.Pairs[0].Key.Kind)
	assert.Equal(t, uint64(10), compressed.Pairs[0].Key.Tag)
	assert.Equal(t, cborval.KindTag, compressed.Pairs[0].Val.Kind)
	assert.Equal(t, uint64(6), compressed.Pairs[0].Val.Tag)
	assert.Equal(t, "unknownField", compressed.Pairs[1].Key.Text)

	decompressed, err := Decompress(compressed)
	require.NoError(t, err)
	assert.True(t, cborval.Equal(doc, decompressed))
}

func TestDecompressAcceptsUncompressedKnownKey(t *testing.T) {
	// Open Question 1: a string-form known key must still round-trip.
	doc := cborval.Map(cborval.Pair{Key: cborval.Text("prev"), Val: cborval.Null()})
	decompressed, err := Decompress(doc)
	require.NoError(t, err)
	assert.True(t, cborval.Equal(doc, decompressed))
}

func TestCIDRoundTrip(t *testing.T) {
	raw := make([]byte, 36)
	for i := range raw {
		raw[i] = byte(i + 1)
	}
	cid, err := valueTagEncodeHelperCID(raw)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(cid, "b"))
	require.Len(t, cid, cidTextLen)

	doc := cborval.Text(cid)
	compressed := Compress(doc)
	require.Equal(t, cborval.KindTag, compressed.Kind)
	assert.Equal(t, uint64(7), compressed.Tag)

	decompressed, err := Decompress(compressed)
	require.NoError(t, err)
	assert.True(t, cborval.Equal(doc, decompressed))
}

func valueTagEncodeHelperCID(raw []byte) (string, error) {
	vt, _ := valueTagByNum(7)
	return vt.Decode(cborval.Bytes(raw))
}

func TestATURIRoundTrip(t *testing.T) {
	doc := cborval.Text("at://did:plc:abc123/app.bsky.feed.post/xyz")
	compressed := Compress(doc)
	require.Equal(t, cborval.KindTag, compressed.Kind)
	assert.Equal(t, uint64(9), compressed.Tag)
	assert.Equal(t, "did:plc:abc123/app.bsky.feed.post/xyz", compressed.Inner.Text)

	decompressed, err := Decompress(compressed)
	require.NoError(t, err)
	assert.True(t, cborval.Equal(doc, decompressed))
}

func TestDIDKeyRoundTrip(t *testing.T) {
	raw := make([]byte, didKeyLen)
	for i := range raw {
		raw[i] = byte(i + 2)
	}
	vt, _ := valueTagByNum(8)
	text, err := vt.Decode(cborval.Bytes(raw))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(text, didPrefix))

	doc := cborval.Text(text)
	compressed := Compress(doc)
	assert.Equal(t, uint64(8), compressed.Tag)

	decompressed, err := Decompress(compressed)
	require.NoError(t, err)
	assert.True(t, cborval.Equal(doc, decompressed))
}

func TestDecompressRejectsUnknownKeyTagAtKeyPosition(t *testing.T) {
	bad := cborval.Map(cborval.Pair{Key: cborval.TagOf(20, cborval.Null()), Val: cborval.Uint(1)})
	_, err := Decompress(bad)
	assert.Error(t, err)
}

func TestDecompressRejectsBadTag6Length(t *testing.T) {
	bad := cborval.TagOf(6, cborval.Bytes([]byte{1, 2, 3}))
	_, err := Decompress(bad)
	assert.Error(t, err)
}

func TestShapeMismatchLeavesTextUnmodified(t *testing.T) {
	doc := cborval.Text("not a special shape")
	compressed := Compress(doc)
	assert.Equal(t, cborval.KindText, compressed.Kind)
	assert.Equal(t, "not a special shape", compressed.Text)
}
