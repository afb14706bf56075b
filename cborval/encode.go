package cborval

import (
	"bytes"
	"fmt"

	"github.com/edmundedgar/plccompress/internal/errs"
)

// Encode serializes v in canonical, definite-length CBOR. Two calls over
// structurally Equal values always produce identical bytes, which is the
// basis for invariant 1 (byte-exact re-encoding).
func Encode(v Value) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := encodeInto(buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeInto(buf *bytes.Buffer, v Value) error {
	switch v.Kind {
	case KindUint:
		writeHead(buf, majorUint, v.Uint)
	case KindNegInt:
		writeHead(buf, majorNegInt, v.Uint)
	case KindBytes:
		writeHead(buf, majorBytes, uint64(len(v.Bytes)))
		buf.Write(v.Bytes)
	case KindText:
		writeHead(buf, majorText, uint64(len(v.Text)))
		buf.WriteString(v.Text)
	case KindArray:
		writeHead(buf, majorArray, uint64(len(v.Arr)))
		for _, e := range v.Arr {
			if err := encodeInto(buf, e); err != nil {
				return err
			}
		}
	case KindMap:
		writeHead(buf, majorMap, uint64(len(v.Pairs)))
		for _, p := range v.Pairs {
			if err := encodeInto(buf, p.Key); err != nil {
				return err
			}
			if err := encodeInto(buf, p.Val); err != nil {
				return err
			}
		}
	case KindBool:
		if v.Bool {
			writeHead(buf, majorSimple, simpleTrue)
		} else {
			writeHead(buf, majorSimple, simpleFalse)
		}
	case KindNull:
		writeHead(buf, majorSimple, simpleNull)
	case KindTag:
		writeHead(buf, majorTag, v.Tag)
		if v.Inner == nil {
			return fmt.Errorf("%w: tag %d has no inner value", errs.ErrMalformedCBOR, v.Tag)
		}
		if err := encodeInto(buf, *v.Inner); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown value kind %d", errs.ErrMalformedCBOR, v.Kind)
	}
	return nil
}

// writeHead writes a major-type head in the minimal canonical encoding of n.
func writeHead(buf *bytes.Buffer, major byte, n uint64) {
	switch {
	case n < 24:
		buf.WriteByte(major | byte(n))
	case n <= 0xff:
		buf.WriteByte(major | 24)
		buf.WriteByte(byte(n))
	case n <= 0xffff:
		buf.WriteByte(major | 25)
		buf.WriteByte(byte(n >> 8))
		buf.WriteByte(byte(n))
	case n <= 0xffffffff:
		buf.WriteByte(major | 26)
		for i := 3; i >= 0; i-- {
			buf.WriteByte(byte(n >> (8 * i)))
		}
	default:
		buf.WriteByte(major | 27)
		for i := 7; i >= 0; i-- {
			buf.WriteByte(byte(n >> (8 * i)))
		}
	}
}
