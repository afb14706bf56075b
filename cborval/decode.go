package cborval

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/edmundedgar/plccompress/internal/errs"
)

// major type bytes, the top 3 bits of the head byte.
const (
	majorUint    = 0x00
	majorNegInt  = 0x20
	majorBytes   = 0x40
	majorText    = 0x60
	majorArray   = 0x80
	majorMap     = 0xa0
	majorTag     = 0xc0
	majorSimple  = 0xe0
	majorMask    = 0xe0
	addlInfoMask = 0x1f
)

// simple values under major type 7.
const (
	simpleFalse = 20
	simpleTrue  = 21
	simpleNull  = 22
)

// Decode parses a single canonical, definite-length-only CBOR item and
// requires the entire input to be consumed. It rejects indefinite-length
// items and the floating-point/undefined simple values, none of which
// appear in the PLC operation data model (see §3).
func Decode(data []byte) (Value, error) {
	if len(data) > 0 {
		if err := cbor.Valid(data); err != nil {
			return Value{}, fmt.Errorf("%w: %v", errs.ErrMalformedCBOR, err)
		}
	}
	d := &decoder{buf: data}
	v, err := d.readValue()
	if err != nil {
		return Value{}, err
	}
	if d.pos != len(d.buf) {
		return Value{}, fmt.Errorf("%w: trailing bytes after top-level item", errs.ErrMalformedCBOR)
	}
	return v, nil
}

type decoder struct {
	buf []byte
	pos int
}

func (d *decoder) eof() error {
	return fmt.Errorf("%w: unexpected end of input", errs.ErrMalformedCBOR)
}

func (d *decoder) readByte() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, d.eof()
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

func (d *decoder) readN(n int) ([]byte, error) {
	if n < 0 || d.pos+n > len(d.buf) {
		return nil, d.eof()
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

// readHead reads a major-type head byte and returns the major type byte
// and the decoded argument (length, count, tag number, or literal value).
func (d *decoder) readHead() (byte, uint64, error) {
	b, err := d.readByte()
	if err != nil {
		return 0, 0, err
	}
	major := b & majorMask
	info := b & addlInfoMask

	switch {
	case info < 24:
		return major, uint64(info), nil
	case info == 24:
		raw, err := d.readN(1)
		if err != nil {
			return 0, 0, err
		}
		return major, uint64(raw[0]), nil
	case info == 25:
		raw, err := d.readN(2)
		if err != nil {
			return 0, 0, err
		}
		return major, uint64(raw[0])<<8 | uint64(raw[1]), nil
	case info == 26:
		raw, err := d.readN(4)
		if err != nil {
			return 0, 0, err
		}
		var n uint64
		for _, b := range raw {
			n = n<<8 | uint64(b)
		}
		return major, n, nil
	case info == 27:
		raw, err := d.readN(8)
		if err != nil {
			return 0, 0, err
		}
		var n uint64
		for _, b := range raw {
			n = n<<8 | uint64(b)
		}
		return major, n, nil
	default:
		return 0, 0, fmt.Errorf("%w: indefinite-length items are not supported", errs.ErrMalformedCBOR)
	}
}

func (d *decoder) readValue() (Value, error) {
	if d.pos >= len(d.buf) {
		return Value{}, d.eof()
	}
	head := d.buf[d.pos]
	major := head & majorMask

	switch major {
	case majorUint:
		_, n, err := d.readHead()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindUint, Uint: n}, nil

	case majorNegInt:
		_, n, err := d.readHead()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindNegInt, Uint: n}, nil

	case majorBytes:
		_, n, err := d.readHead()
		if err != nil {
			return Value{}, err
		}
		raw, err := d.readN(int(n))
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindBytes, Bytes: append([]byte(nil), raw...)}, nil

	case majorText:
		_, n, err := d.readHead()
		if err != nil {
			return Value{}, err
		}
		raw, err := d.readN(int(n))
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindText, Text: string(raw)}, nil

	case majorArray:
		_, n, err := d.readHead()
		if err != nil {
			return Value{}, err
		}
		arr := make([]Value, 0, n)
		for i := uint64(0); i < n; i++ {
			e, err := d.readValue()
			if err != nil {
				return Value{}, err
			}
			arr = append(arr, e)
		}
		return Value{Kind: KindArray, Arr: arr}, nil

	case majorMap:
		_, n, err := d.readHead()
		if err != nil {
			return Value{}, err
		}
		pairs := make([]Pair, 0, n)
		for i := uint64(0); i < n; i++ {
			k, err := d.readValue()
			if err != nil {
				return Value{}, err
			}
			v, err := d.readValue()
			if err != nil {
				return Value{}, err
			}
			pairs = append(pairs, Pair{Key: k, Val: v})
		}
		return Value{Kind: KindMap, Pairs: pairs}, nil

	case majorTag:
		_, num, err := d.readHead()
		if err != nil {
			return Value{}, err
		}
		inner, err := d.readValue()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindTag, Tag: num, Inner: &inner}, nil

	case majorSimple:
		_, n, err := d.readHead()
		if err != nil {
			return Value{}, err
		}
		switch n {
		case simpleFalse:
			return Value{Kind: KindBool, Bool: false}, nil
		case simpleTrue:
			return Value{Kind: KindBool, Bool: true}, nil
		case simpleNull:
			return Value{Kind: KindNull}, nil
		default:
			return Value{}, fmt.Errorf(
				"%w: unsupported simple/float value %d, not part of the PLC document data model",
				errs.ErrMalformedCBOR, n)
		}
	}

	return Value{}, fmt.Errorf("%w: unknown major type", errs.ErrMalformedCBOR)
}
