package tagcodec

import (
	"fmt"

	"github.com/edmundedgar/plccompress/cborval"
	"github.com/edmundedgar/plccompress/internal/errs"
)

// Compress rewrites every map key matching a known PLC field name to
// tag(N, null), and every leaf text value matching a known shape to
// tag(N, payload), recursively over the whole tree. It is applied
// uniformly regardless of where a value sits (top-level document, diff
// update RHS, diff insert/prepend payload) — see §4.2.
func Compress(v cborval.Value) cborval.Value {
	switch v.Kind {
	case cborval.KindMap:
		pairs := make([]cborval.Pair, len(v.Pairs))
		for i, p := range v.Pairs {
			pairs[i] = cborval.Pair{Key: compressKey(p.Key), Val: Compress(p.Val)}
		}
		return cborval.Value{Kind: cborval.KindMap, Pairs: pairs}

	case cborval.KindArray:
		arr := make([]cborval.Value, len(v.Arr))
		for i, e := range v.Arr {
			arr[i] = Compress(e)
		}
		return cborval.Value{Kind: cborval.KindArray, Arr: arr}

	case cborval.KindTag:
		inner := Compress(*v.Inner)
		return cborval.Value{Kind: cborval.KindTag, Tag: v.Tag, Inner: &inner}

	case cborval.KindText:
		for _, vt := range ValueTags {
			if vt.Match(v.Text) {
				if payload, err := vt.Encode(v.Text); err == nil {
					return cborval.TagOf(vt.Num, payload)
				}
			}
		}
		return v

	default:
		return v
	}
}

func compressKey(key cborval.Value) cborval.Value {
	if key.Kind != cborval.KindText {
		return key
	}
	if tag, ok := KeyTags[key.Text]; ok {
		return cborval.TagOf(tag, cborval.Null())
	}
	return key
}

// Decompress reverses Compress. It is context-free: tag(6..9, payload) and
// tag(10..19, null) are expanded wherever they are found, since the tag
// number alone identifies which rewrite produced them (§4.2 "Why tags 6-19
// are safe"). Decoders MUST also accept a known key left as a plain text
// string (Open Question 1).
func Decompress(v cborval.Value) (cborval.Value, error) {
	switch v.Kind {
	case cborval.KindMap:
		pairs := make([]cborval.Pair, len(v.Pairs))
		for i, p := range v.Pairs {
			key, err := decompressKey(p.Key)
			if err != nil {
				return cborval.Value{}, err
			}
			val, err := Decompress(p.Val)
			if err != nil {
				return cborval.Value{}, err
			}
			pairs[i] = cborval.Pair{Key: key, Val: val}
		}
		return cborval.Value{Kind: cborval.KindMap, Pairs: pairs}, nil

	case cborval.KindArray:
		arr := make([]cborval.Value, len(v.Arr))
		for i, e := range v.Arr {
			d, err := Decompress(e)
			if err != nil {
				return cborval.Value{}, err
			}
			arr[i] = d
		}
		return cborval.Value{Kind: cborval.KindArray, Arr: arr}, nil

	case cborval.KindTag:
		if v.Tag >= 6 && v.Tag <= 9 {
			vt, ok := valueTagByNum(v.Tag)
			if !ok {
				return cborval.Value{}, fmt.Errorf("%w: tag %d", errs.ErrTagPayloadInvalid, v.Tag)
			}
			if v.Inner == nil {
				return cborval.Value{}, fmt.Errorf("%w: tag %d has no payload", errs.ErrTagPayloadInvalid, v.Tag)
			}
			text, err := vt.Decode(*v.Inner)
			if err != nil {
				return cborval.Value{}, err
			}
			return cborval.Text(text), nil
		}
		if v.Tag >= MinKeyTag && v.Tag <= MaxKeyTag {
			name, ok := KeyNames[v.Tag]
			if !ok {
				return cborval.Value{}, fmt.Errorf("%w: tag %d", errs.ErrUnknownKeyTag, v.Tag)
			}
			return cborval.Text(name), nil
		}
		// A tag number outside this codec's 6..19 allocation is left
		// untouched (and its inner value decompressed), since this codec
		// never emits one and by construction it belongs to some other
		// layer. Tag 42 in particular must never appear in a stream this
		// codec produces (§4.2) but is not itself an error to observe.
		inner, err := Decompress(*v.Inner)
		if err != nil {
			return cborval.Value{}, err
		}
		return cborval.Value{Kind: cborval.KindTag, Tag: v.Tag, Inner: &inner}, nil

	default:
		return v, nil
	}
}

// decompressKey decompresses a map key position specifically: a bare
// tag(N, null) with N outside 10..19 here is an UnknownKeyTag error,
// since a key position is the only place that tag range is meaningful.
func decompressKey(key cborval.Value) (cborval.Value, error) {
	if key.Kind != cborval.KindTag {
		return key, nil
	}
	if key.Tag < MinKeyTag || key.Tag > MaxKeyTag {
		return cborval.Value{}, fmt.Errorf("%w: tag %d used as a map key", errs.ErrUnknownKeyTag, key.Tag)
	}
	name, ok := KeyNames[key.Tag]
	if !ok {
		return cborval.Value{}, fmt.Errorf("%w: tag %d", errs.ErrUnknownKeyTag, key.Tag)
	}
	return cborval.Text(name), nil
}
