package stream

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edmundedgar/plccompress/cborval"
	"github.com/edmundedgar/plccompress/diffapply"
	"github.com/edmundedgar/plccompress/tagcodec"
)

func sig86() string {
	raw := make([]byte, 64)
	for i := range raw {
		raw[i] = byte(i)
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

func TestEncodeDecodeChainRoundTrip(t *testing.T) {
	full := cborval.Map(
		cborval.Pair{Key: cborval.Text("type"), Val: cborval.Text("plc_operation")},
		cborval.Pair{Key: cborval.Text("sig"), Val: cborval.Text(sig86())},
	)

	// indices over full: 0=map,1=entry(type),2=key,3=val,4=entry(sig),5=key,6=val
	script := diffapply.EditScript{
		Updates: []diffapply.IndexedValue{{Index: 6, Value: cborval.Text(sig86())}},
	}

	var buf bytes.Buffer
	err := Encode(&buf, full, []diffapply.EditScript{script})
	require.NoError(t, err)

	docs, err := Decode(&buf)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.True(t, cborval.Equal(full, docs[0]))
	assert.True(t, cborval.Equal(full, docs[1]))
}

func TestDecodeChainPropagatesDocIndexOnError(t *testing.T) {
	full := cborval.Map(cborval.Pair{Key: cborval.Text("type"), Val: cborval.Text("plc_operation")})
	var buf bytes.Buffer
	badScript := cborval.Map(cborval.Pair{Key: cborval.Text("u"), Val: cborval.Uint(1)}) // "u" must be an array
	outer := cborval.Array(tagcodec.Compress(full), badScript)
	data, err := cborval.Encode(outer)
	require.NoError(t, err)
	buf.Write(data)

	_, err = Decode(&buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document 1")
}

func TestDecodeManyIsolatesFailures(t *testing.T) {
	good := cborval.Map(cborval.Pair{Key: cborval.Text("a"), Val: cborval.Uint(1)})
	goodData, err := cborval.Encode(cborval.Array(good))
	require.NoError(t, err)

	badData := []byte{0xff, 0xff, 0xff}

	results, err := DecodeMany([][]byte{goodData, badData})
	require.Error(t, err)
	require.Len(t, results, 2)
	assert.NotNil(t, results[0])
	assert.Nil(t, results[1])
}
