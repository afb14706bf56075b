package cborval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []Value{
		Uint(0),
		Uint(23),
		Uint(24),
		Uint(1000),
		Uint(1 << 40),
		{Kind: KindNegInt, Uint: 0},
		{Kind: KindNegInt, Uint: 999},
		Bytes([]byte{1, 2, 3}),
		Bytes(nil),
		Text("hello"),
		Text(""),
		Bool_(true),
		Bool_(false),
		Null(),
		Array(Uint(1), Text("a"), Array()),
		Map(Pair{Key: Text("a"), Val: Uint(1)}, Pair{Key: Text("b"), Val: Uint(2)}),
		TagOf(7, Bytes([]byte{0xde, 0xad})),
	}

	for _, v := range cases {
		data, err := Encode(v)
		require.NoError(t, err)

		got, err := Decode(data)
		require.NoError(t, err)
		assert.True(t, Equal(v, got), "round-trip mismatch for %+v", v)
	}
}

func TestMapOrderIsPreserved(t *testing.T) {
	a := Map(Pair{Key: Text("b"), Val: Uint(2)}, Pair{Key: Text("a"), Val: Uint(1)})
	b := Map(Pair{Key: Text("a"), Val: Uint(1)}, Pair{Key: Text("b"), Val: Uint(2)})

	assert.False(t, Equal(a, b), "maps with different key order must not be equal")

	encA, err := Encode(a)
	require.NoError(t, err)
	encB, err := Encode(b)
	require.NoError(t, err)
	assert.NotEqual(t, encA, encB)

	roundA, err := Decode(encA)
	require.NoError(t, err)
	assert.True(t, Equal(a, roundA))
}

func TestDecodeRejectsTrailingBytes(t *testing.T) {
	data, err := Encode(Uint(1))
	require.NoError(t, err)
	_, err = Decode(append(data, 0x00))
	assert.Error(t, err)
}

func TestCloneIsIndependent(t *testing.T) {
	orig := Array(Text("x"))
	clone := orig.Clone()
	clone.Arr[0] = Text("y")
	assert.Equal(t, "x", orig.Arr[0].Text)
	assert.Equal(t, "y", clone.Arr[0].Text)
}
