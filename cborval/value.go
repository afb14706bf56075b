// Package cborval defines the CBOR value representation shared by every
// other codec package: an order-preserving tagged variant over the CBOR
// data model, plus a canonical encoder/decoder for it.
//
// The fxamacker/cbor library (used by Decode for well-formedness checks)
// decodes generic CBOR maps
// into plain Go maps, which do not preserve key order. PLC operations
// chain by content hash, so re-encoding a document must reproduce the
// exact original byte order of its map entries — a hash map is not an
// option here (see the "Ordered maps" design note). Value and its
// decoder/encoder exist to keep that order intact.
package cborval

import "github.com/fxamacker/cbor/v2"

// Kind identifies which alternative of the CBOR Value a Value holds.
type Kind uint8

const (
	KindUint Kind = iota
	KindNegInt
	KindBytes
	KindText
	KindArray
	KindMap
	KindBool
	KindNull
	KindTag
)

// Value is a tagged variant over the eight CBOR major-type families plus
// tag(number, inner). Map equality and re-encoding are order-sensitive:
// Pairs is a slice, not a map.
type Value struct {
	Kind Kind

	Uint  uint64 // KindUint: the value. KindNegInt: n, where the represented integer is -1-n.
	Bytes []byte
	Text  string
	Arr   []Value
	Pairs []Pair
	Bool  bool

	Tag   uint64
	Inner *Value // non-nil iff Kind == KindTag
}

// Pair is one map entry. Order within Pairs is the entry's position in
// the CBOR-encoded insertion order.
type Pair struct {
	Key Value
	Val Value
}

// RawMessage is an alias for fxamacker/cbor's raw encoded-item byte slice.
type RawMessage = cbor.RawMessage

func Null() Value       { return Value{Kind: KindNull} }
func Bool_(b bool) Value { return Value{Kind: KindBool, Bool: b} }
func Uint(n uint64) Value { return Value{Kind: KindUint, Uint: n} }
func Text(s string) Value { return Value{Kind: KindText, Text: s} }
func Bytes(b []byte) Value {
	return Value{Kind: KindBytes, Bytes: append([]byte(nil), b...)}
}
func Array(vs ...Value) Value { return Value{Kind: KindArray, Arr: vs} }
func Map(pairs ...Pair) Value { return Value{Kind: KindMap, Pairs: pairs} }
func TagOf(num uint64, inner Value) Value {
	return Value{Kind: KindTag, Tag: num, Inner: &inner}
}

func (v Value) IsNull() bool { return v.Kind == KindNull }

func (v Value) IsContainer() bool { return v.Kind == KindArray || v.Kind == KindMap }

// Clone deep-copies v so callers can mutate the result without touching
// the original (invariant 4: applying an edit script never mutates its
// input).
func (v Value) Clone() Value {
	out := v
	if v.Bytes != nil {
		out.Bytes = append([]byte(nil), v.Bytes...)
	}
	if v.Arr != nil {
		out.Arr = make([]Value, len(v.Arr))
		for i, e := range v.Arr {
			out.Arr[i] = e.Clone()
		}
	}
	if v.Pairs != nil {
		out.Pairs = make([]Pair, len(v.Pairs))
		for i, p := range v.Pairs {
			out.Pairs[i] = Pair{Key: p.Key.Clone(), Val: p.Val.Clone()}
		}
	}
	if v.Inner != nil {
		inner := v.Inner.Clone()
		out.Inner = &inner
	}
	return out
}

// Equal reports structural equality. Map equality is order-sensitive.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindUint, KindNegInt:
		return a.Uint == b.Uint
	case KindBytes:
		return bytesEqual(a.Bytes, b.Bytes)
	case KindText:
		return a.Text == b.Text
	case KindBool:
		return a.Bool == b.Bool
	case KindNull:
		return true
	case KindArray:
		if len(a.Arr) != len(b.Arr) {
			return false
		}
		for i := range a.Arr {
			if !Equal(a.Arr[i], b.Arr[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(a.Pairs) != len(b.Pairs) {
			return false
		}
		for i := range a.Pairs {
			if !Equal(a.Pairs[i].Key, b.Pairs[i].Key) || !Equal(a.Pairs[i].Val, b.Pairs[i].Val) {
				return false
			}
		}
		return true
	case KindTag:
		return a.Tag == b.Tag && Equal(*a.Inner, *b.Inner)
	}
	return false
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
